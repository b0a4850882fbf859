package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/school-tournament/models"
)

const (
	pointsWin  = 3
	pointsDraw = 1
)

// ComputeStandings ranks the teams of one group from its finished matches.
// Teams that only appear in unfinished matches are listed with zero played.
// Level scores in set-based disciplines are reported and left out of the
// table instead of being awarded to anyone.
func ComputeStandings(matches []models.Match) ([]models.StandingsEntry, []*models.Issue) {
	index := make(map[string]*models.StandingsEntry)
	var keys []string
	entry := func(t models.TeamRef) *models.StandingsEntry {
		k := t.Key()
		if e, ok := index[k]; ok {
			return e
		}
		e := &models.StandingsEntry{Team: t}
		index[k] = e
		keys = append(keys, k)
		return e
	}

	var issues []*models.Issue
	for _, m := range matches {
		if m.HasTBD() {
			continue
		}
		a, b := entry(m.TeamA), entry(m.TeamB)
		if !m.IsFinished() {
			continue
		}
		if !m.HasScores() {
			issues = append(issues, &models.Issue{Err: models.ErrInvalidMatch, MatchID: m.ID, Detail: "finished match without scores"})
			continue
		}
		sa, sb := *m.ScoreA, *m.ScoreB
		if sa == sb && !m.Discipline.AllowsDraws() {
			issues = append(issues, &models.Issue{
				Err:     models.ErrInvalidScore,
				MatchID: m.ID,
				Detail:  fmt.Sprintf("%s match finished level %d-%d", m.Discipline, sa, sb),
			})
			continue
		}

		a.Played++
		b.Played++
		a.GoalsFor += sa
		a.GoalsAgainst += sb
		b.GoalsFor += sb
		b.GoalsAgainst += sa
		switch {
		case sa > sb:
			a.Won++
			a.Points += pointsWin
			b.Lost++
		case sb > sa:
			b.Won++
			b.Points += pointsWin
			a.Lost++
		default:
			a.Drawn++
			b.Drawn++
			a.Points += pointsDraw
			b.Points += pointsDraw
		}
	}

	standings := make([]models.StandingsEntry, 0, len(keys))
	for _, k := range keys {
		e := index[k]
		e.GoalDiff = e.GoalsFor - e.GoalsAgainst
		standings = append(standings, *e)
	}
	// Team identity closes the order so the same set of matches ranks the
	// same way whatever order it arrives in.
	sort.Slice(standings, func(i, j int) bool {
		si, sj := standings[i], standings[j]
		if si.Points != sj.Points {
			return si.Points > sj.Points
		}
		if si.GoalDiff != sj.GoalDiff {
			return si.GoalDiff > sj.GoalDiff
		}
		if si.GoalsFor != sj.GoalsFor {
			return si.GoalsFor > sj.GoalsFor
		}
		if si.Team.Curso != sj.Team.Curso {
			return si.Team.Curso < sj.Team.Curso
		}
		return si.Team.Paralelo < sj.Team.Paralelo
	})
	return standings, issues
}
