package brackets

import (
	"testing"

	"github.com/Dosada05/school-tournament/models"
	"github.com/stretchr/testify/require"
)

var footballKey = models.BracketKey{Discipline: models.DisciplineFootball, Gender: "F", Level: "bachillerato", Category: "senior"}

func team(curso string) models.TeamRef {
	return models.TeamRef{Curso: curso, Paralelo: "A", Gender: footballKey.Gender, Level: footballKey.Level, Category: footballKey.Category}
}

func teamIn(curso, group string) models.Team {
	return models.Team{ID: curso, Discipline: footballKey.Discipline, Group: group, TeamRef: team(curso)}
}

func groupMatch(t *testing.T, key models.BracketKey, id string, a, b string) models.Match {
	t.Helper()
	m, err := models.NewMatch(id, key, team(a), team(b), "A", models.PhaseGroup, 0)
	require.NoError(t, err)
	return m
}

// play schedules, starts and finishes m with the given score.
func play(t *testing.T, m models.Match, scoreA, scoreB int) models.Match {
	t.Helper()
	if !m.HasSlot() {
		m = m.WithSlot(models.Slot{Week: 1, Day: "Mon", Time: "08:00", Discipline: m.Discipline})
	}
	if m.State == models.StatePending {
		m.State = models.StateScheduled
	}
	m, err := m.Transition(models.StateInProgress)
	require.NoError(t, err)
	m, err = m.Finish(scoreA, scoreB)
	require.NoError(t, err)
	return m
}

// playByStrength finishes every match, the stronger team winning 2-0.
func playByStrength(t *testing.T, matches []models.Match, strength map[string]int) []models.Match {
	t.Helper()
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		if strength[m.TeamA.Curso] > strength[m.TeamB.Curso] {
			out[i] = play(t, m, 2, 0)
		} else {
			out[i] = play(t, m, 0, 2)
		}
	}
	return out
}

func phaseCount(matches []models.Match, phase models.Phase) int {
	n := 0
	for _, m := range matches {
		if m.Phase == phase {
			n++
		}
	}
	return n
}

func withPhase(t *testing.T, matches []models.Match, phase models.Phase) []models.Match {
	t.Helper()
	var out []models.Match
	for _, m := range matches {
		if m.Phase == phase {
			out = append(out, m)
		}
	}
	return out
}
