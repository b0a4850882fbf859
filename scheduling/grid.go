package scheduling

import (
	"fmt"

	"github.com/Dosada05/school-tournament/models"
)

// ConflictPolicy toggles optional placement rules.
type ConflictPolicy struct {
	// NoDoubleBookingPerDay forbids a team from playing twice on the same
	// (week, day). Off by default: teams may play several times a day.
	NoDoubleBookingPerDay bool `json:"no_double_booking_per_day" yaml:"no_double_booking_per_day"`
}

type teamDayKey struct {
	week int
	day  string
	team string
}

// grid tracks occupied slots and which teams already play on a given day.
type grid struct {
	cfg      Config
	occupied map[models.Slot]string
	teamDays map[teamDayKey]int
}

func newGrid(cfg Config) *grid {
	return &grid{
		cfg:      cfg,
		occupied: make(map[models.Slot]string),
		teamDays: make(map[teamDayKey]int),
	}
}

// seed books every match that already carries a complete slot. Collisions
// are reported and the later match is left where it is, unbooked.
func (g *grid) seed(matches []models.Match) []*models.Issue {
	var issues []*models.Issue
	for _, m := range matches {
		s, ok := m.Slot()
		if !ok {
			continue
		}
		if owner, taken := g.occupied[s]; taken {
			issues = append(issues, &models.Issue{
				Err:     models.ErrInvalidAssignment,
				MatchID: m.ID,
				Detail:  fmt.Sprintf("slot %s already holds match %s", s, owner),
			})
			continue
		}
		g.book(m, s)
	}
	return issues
}

func (g *grid) book(m models.Match, s models.Slot) {
	g.occupied[s] = m.ID
	for _, t := range []models.TeamRef{m.TeamA, m.TeamB} {
		if t.IsTBD() {
			continue
		}
		g.teamDays[teamDayKey{week: s.Week, day: s.Day, team: teamKey(m, t)}]++
	}
}

// teamKey scopes a team to its bracket so "3ro A" in two categories are
// different teams.
func teamKey(m models.Match, t models.TeamRef) string {
	return m.BracketKey().String() + "#" + t.Key()
}

// check returns nil when m may be placed into s.
func (g *grid) check(m models.Match, s models.Slot, elig Eligibility, policy ConflictPolicy) *models.Issue {
	fail := func(format string, args ...any) *models.Issue {
		return &models.Issue{Err: models.ErrInvalidAssignment, MatchID: m.ID, Detail: fmt.Sprintf(format, args...)}
	}
	if s.Week < 1 || s.Week > g.cfg.Weeks {
		return fail("week %d outside 1..%d", s.Week, g.cfg.Weeks)
	}
	di := g.cfg.DayIndex(s.Day)
	if di < 0 {
		return fail("unknown day %q", s.Day)
	}
	if !g.cfg.hasTime(s.Time) {
		return fail("unknown time %q", s.Time)
	}
	if s.Discipline != m.Discipline {
		return fail("slot is for %s, match is %s", s.Discipline, m.Discipline)
	}
	if owner, taken := g.occupied[s]; taken {
		return fail("slot %s already holds match %s", s, owner)
	}
	if elig == nil {
		elig = PatternEligibility
	}
	if !elig(g.cfg, m.Discipline, s.Week, di) {
		return fail("%s is not played on week %d %s", m.Discipline, s.Week, s.Day)
	}
	if policy.NoDoubleBookingPerDay {
		for _, t := range []models.TeamRef{m.TeamA, m.TeamB} {
			if t.IsTBD() {
				continue
			}
			if g.teamDays[teamDayKey{week: s.Week, day: s.Day, team: teamKey(m, t)}] > 0 {
				return fail("team %s already plays on week %d %s", t.Name(), s.Week, s.Day)
			}
		}
	}
	return nil
}
