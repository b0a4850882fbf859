package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/school-tournament/models"
)

// State of one (discipline, gender, level, category) bracket.
type State string

const (
	StateNotStarted        State = "not_started"
	StateGroupStage        State = "group_stage"
	StateSemifinalsOrFinal State = "semifinals_or_final"
	StateCompleted         State = "completed"
)

type AdvanceInput struct {
	Key     models.BracketKey
	Teams   []models.Team
	Matches []models.Match
}

// AdvanceResult separates new records from in-place rewrites of existing
// ones, so callers can apply Update as targeted field updates.
type AdvanceResult struct {
	Key       models.BracketKey                  `json:"key"`
	State     State                              `json:"state"`
	Create    []models.Match                     `json:"create"`
	Update    []models.Match                     `json:"update"`
	Issues    []*models.Issue                    `json:"issues"`
	Standings map[string][]models.StandingsEntry `json:"standings"`
}

type group struct {
	name  string
	teams []models.TeamRef
}

// advancer holds the snapshot of one Advance call.
type advancer struct {
	key     models.BracketKey
	matches []models.Match
	res     *AdvanceResult
}

// Advance moves a bracket forward as far as its finished matches allow.
// It is safe to call after every finished match: each creation is guarded
// by a phase lookup and placeholder rewrites only happen when the teams
// actually change.
func Advance(in AdvanceInput) AdvanceResult {
	res := AdvanceResult{
		Key:       in.Key,
		State:     StateNotStarted,
		Create:    []models.Match{},
		Update:    []models.Match{},
		Issues:    []*models.Issue{},
		Standings: map[string][]models.StandingsEntry{},
	}
	a := &advancer{key: in.Key, matches: scopeMatches(in.Matches, in.Key), res: &res}

	stage := a.byPhase(models.Phase.IsGroupStage)
	if len(stage) == 0 {
		a.issue(models.ErrInsufficientStandings, "", "group stage has not been generated")
		return res
	}
	res.State = StateGroupStage

	groups := groupsOf(in.Key, in.Teams, stage)
	if len(groups) > 2 {
		a.issue(models.ErrUnsupportedConfiguration, "", fmt.Sprintf("%d groups found; playoff seeding is defined for one or two groups", len(groups)))
		return res
	}
	pending := false
	for _, m := range stage {
		if m.IsFinished() {
			continue
		}
		pending = true
		if m.Phase == models.PhaseTieBreak {
			a.issue(models.ErrTieUnresolved, m.ID, fmt.Sprintf("group %s waits for its tie-break", m.Group))
		}
	}
	if pending {
		return res
	}

	ranked := make([][]models.TeamRef, 0, len(groups))
	blocked := false
	for _, g := range groups {
		order, ok := a.rankGroup(g, stage)
		if !ok {
			blocked = true
			continue
		}
		ranked = append(ranked, order)
	}
	if blocked {
		return res
	}

	res.State = StateSemifinalsOrFinal
	if len(ranked) == 1 {
		a.singleGroupPlayoff(ranked[0])
	} else {
		a.crossGroupPlayoff(groups, ranked)
	}

	if a.completed() {
		res.State = StateCompleted
	}
	return res
}

// rankGroup computes the group table and settles a two-team tie through the
// tie-break match, creating it when missing. ok is false while the group
// cannot be ranked yet.
func (a *advancer) rankGroup(g group, stage []models.Match) ([]models.TeamRef, bool) {
	var played []models.Match
	for _, m := range stage {
		if m.Group == g.name && m.Phase != models.PhaseTieBreak {
			played = append(played, m)
		}
	}
	table, issues := ComputeStandings(played)
	a.res.Issues = append(a.res.Issues, issues...)
	a.res.Standings[g.name] = table

	order := make([]models.TeamRef, len(table))
	for i, e := range table {
		order[i] = e.Team
	}
	if len(table) != 2 || !NeedsTieBreak(table) {
		return order, true
	}

	tb, exists := findTieBreak(stage, g.name)
	if !exists {
		m, err := newTieBreak(a.key, g.name, order[0], order[1])
		if err != nil {
			a.issue(models.ErrInvalidMatch, "", err.Error())
			return nil, false
		}
		a.res.Create = append(a.res.Create, m)
		a.issue(models.ErrTieUnresolved, m.ID, fmt.Sprintf("group %s tied on points and goal difference; tie-break created", g.name))
		return nil, false
	}
	winner, decided := TieBreakWinner(tb)
	if !decided {
		a.issue(models.ErrTieUnresolved, tb.ID, fmt.Sprintf("group %s tie-break has no winner yet", g.name))
		return nil, false
	}
	if order[1].SameTeam(winner) {
		order[0], order[1] = order[1], order[0]
	}
	return order, true
}

func (a *advancer) singleGroupPlayoff(order []models.TeamRef) {
	if len(order) < 2 {
		a.issue(models.ErrInsufficientStandings, "", fmt.Sprintf("final needs 2 ranked teams, found %d", len(order)))
		return
	}
	a.ensure(models.PhaseFinal, 1, order[0], order[1])
	// a three-team group never plays for third place
	if len(order) >= 4 {
		a.ensure(models.PhaseThirdPlace, 1, order[2], order[3])
	}
}

// crossGroupPlayoff seeds A1-B2 and B1-A2 semifinals with TBD final and
// third place, then fills the placeholders once both semifinals are decided.
func (a *advancer) crossGroupPlayoff(groups []group, ranked [][]models.TeamRef) {
	for i, order := range ranked {
		if len(order) < 2 {
			a.issue(models.ErrInsufficientStandings, "", fmt.Sprintf("group %s needs 2 ranked teams, found %d", groups[i].name, len(order)))
			return
		}
	}
	groupA, groupB := ranked[0], ranked[1]

	if existing := a.byPhase(isPhase(models.PhaseSemifinal)); len(existing) > 0 {
		a.issue(models.ErrDuplicateGeneration, existing[0].ID, "semifinals already exist")
	} else {
		a.create(models.PhaseSemifinal, 1, groupA[0], groupB[1])
		a.create(models.PhaseSemifinal, 2, groupB[0], groupA[1])
	}
	a.ensure(models.PhaseFinal, 1, models.TeamRef{}, models.TeamRef{})
	a.ensure(models.PhaseThirdPlace, 1, models.TeamRef{}, models.TeamRef{})

	semis := a.byPhase(isPhase(models.PhaseSemifinal))
	semis = append(semis, a.created(models.PhaseSemifinal)...)
	if len(semis) < 2 {
		return
	}
	sort.SliceStable(semis, func(i, j int) bool {
		if semis[i].Order != semis[j].Order {
			return semis[i].Order < semis[j].Order
		}
		return semis[i].ID < semis[j].ID
	})
	sf1, sf2 := semis[0], semis[1]
	if !sf1.IsFinished() || !sf2.IsFinished() {
		return
	}
	w1, ok1 := sf1.Winner()
	w2, ok2 := sf2.Winner()
	if !ok1 || !ok2 {
		for _, sf := range []models.Match{sf1, sf2} {
			if _, ok := sf.Winner(); !ok {
				a.issue(models.ErrTieUnresolved, sf.ID, "semifinal finished without a winner")
			}
		}
		return
	}
	l1, _ := sf1.Loser()
	l2, _ := sf2.Loser()
	a.fill(models.PhaseFinal, w1, w2)
	a.fill(models.PhaseThirdPlace, l1, l2)
}

// ensure creates phase unless the bracket already has a match of that phase.
func (a *advancer) ensure(phase models.Phase, order int, teamA, teamB models.TeamRef) {
	if existing := a.byPhase(isPhase(phase)); len(existing) > 0 {
		a.issue(models.ErrDuplicateGeneration, existing[0].ID, fmt.Sprintf("%s already exists", phase))
		return
	}
	if len(a.created(phase)) > 0 {
		return
	}
	a.create(phase, order, teamA, teamB)
}

func (a *advancer) create(phase models.Phase, order int, teamA, teamB models.TeamRef) {
	m, err := models.NewMatch(MatchID(a.key, phase, "", order), a.key, teamA, teamB, "", phase, order)
	if err != nil {
		a.issue(models.ErrInvalidMatch, "", err.Error())
		return
	}
	a.res.Create = append(a.res.Create, m)
}

// fill rewrites the teams of an existing placeholder. A placeholder created
// in this same call is filled in the Create list instead.
func (a *advancer) fill(phase models.Phase, teamA, teamB models.TeamRef) {
	for i, m := range a.res.Create {
		if m.Phase == phase {
			a.res.Create[i].TeamA, a.res.Create[i].TeamB = teamA, teamB
			return
		}
	}
	existing := a.byPhase(isPhase(phase))
	if len(existing) == 0 {
		return
	}
	m := existing[0]
	if m.TeamA.SameTeam(teamA) && m.TeamB.SameTeam(teamB) {
		return
	}
	if m.State != models.StatePending && m.State != models.StateScheduled {
		a.issue(models.ErrInvalidTransition, m.ID, fmt.Sprintf("%s already %s; teams not rewritten", phase, m.State))
		return
	}
	m.TeamA, m.TeamB = teamA, teamB
	a.res.Update = append(a.res.Update, m)
}

func (a *advancer) completed() bool {
	finals := a.byPhase(isPhase(models.PhaseFinal))
	if len(finals) == 0 || !finals[0].IsFinished() {
		return false
	}
	for _, m := range a.byPhase(isPhase(models.PhaseThirdPlace)) {
		if !m.IsFinished() {
			return false
		}
	}
	return len(a.created(models.PhaseThirdPlace)) == 0
}

func (a *advancer) byPhase(pred func(models.Phase) bool) []models.Match {
	var out []models.Match
	for _, m := range a.matches {
		if pred(m.Phase) {
			out = append(out, m)
		}
	}
	return out
}

func (a *advancer) created(phase models.Phase) []models.Match {
	var out []models.Match
	for _, m := range a.res.Create {
		if m.Phase == phase {
			out = append(out, m)
		}
	}
	return out
}

func (a *advancer) issue(err error, matchID, detail string) {
	a.res.Issues = append(a.res.Issues, &models.Issue{Err: err, MatchID: matchID, Detail: detail})
}

func isPhase(p models.Phase) func(models.Phase) bool {
	return func(q models.Phase) bool { return q == p }
}

func scopeMatches(matches []models.Match, key models.BracketKey) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if m.BracketKey() == key {
			out = append(out, m)
		}
	}
	return out
}

// groupsOf lists the bracket's groups sorted by name. Membership comes from
// the team records, or from the group-stage matches when no teams are given.
func groupsOf(key models.BracketKey, teams []models.Team, stage []models.Match) []group {
	members := make(map[string][]models.TeamRef)
	add := func(name string, t models.TeamRef) {
		for _, existing := range members[name] {
			if existing.SameTeam(t) {
				return
			}
		}
		members[name] = append(members[name], t)
	}

	inScope := 0
	for _, t := range teams {
		if t.BracketKey() == key && t.Group != "" {
			add(t.Group, t.TeamRef)
			inScope++
		}
	}
	if inScope == 0 {
		for _, m := range stage {
			add(m.Group, m.TeamA)
			add(m.Group, m.TeamB)
		}
	}

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	groups := make([]group, 0, len(names))
	for _, name := range names {
		groups = append(groups, group{name: name, teams: members[name]})
	}
	return groups
}

// GenerateGroupStage creates the group-phase matches of key. Groups that
// already have group-stage matches are skipped.
func GenerateGroupStage(key models.BracketKey, teams []models.Team, existing []models.Match) ([]models.Match, []*models.Issue) {
	scoped := scopeMatches(existing, key)
	started := make(map[string]bool)
	for _, m := range scoped {
		if m.Phase.IsGroupStage() {
			started[m.Group] = true
		}
	}

	var issues []*models.Issue
	var inScope []models.Team
	for _, t := range teams {
		if t.BracketKey() != key {
			continue
		}
		if t.Group == "" {
			issues = append(issues, &models.Issue{Err: models.ErrInvalidMatch, Detail: fmt.Sprintf("team %s has no group", t.Name())})
			continue
		}
		inScope = append(inScope, t)
	}

	created := []models.Match{}
	for _, g := range groupsOf(key, inScope, nil) {
		if started[g.name] {
			issues = append(issues, &models.Issue{Err: models.ErrDuplicateGeneration, Detail: fmt.Sprintf("group %s already has matches", g.name)})
			continue
		}
		if len(g.teams) < 2 {
			issues = append(issues, &models.Issue{Err: models.ErrInsufficientStandings, Detail: fmt.Sprintf("group %s has %d team(s)", g.name, len(g.teams))})
			continue
		}
		gen := GeneratorFor(len(g.teams))
		matches, err := gen.GenerateGroup(GenerateGroupParams{Key: key, Group: g.name, Teams: g.teams})
		if err != nil {
			issues = append(issues, &models.Issue{Err: models.ErrInvalidMatch, Detail: err.Error()})
			continue
		}
		created = append(created, matches...)
	}
	return created, issues
}
