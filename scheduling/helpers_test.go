package scheduling

import (
	"testing"

	"github.com/Dosada05/school-tournament/models"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Days:               []string{"Mon", "Tue", "Wed"},
		Times:              []string{"08:00", "09:00"},
		Weeks:              2,
		StartingDiscipline: models.DisciplineVolleyball,
	}
}

func team(curso string) models.TeamRef {
	return models.TeamRef{Curso: curso, Paralelo: "A", Gender: "M", Level: "basica", Category: "sub14"}
}

func match(t *testing.T, id string, d models.Discipline, a, b string) models.Match {
	t.Helper()
	key := models.BracketKey{Discipline: d, Gender: "M", Level: "basica", Category: "sub14"}
	m, err := models.NewMatch(id, key, team(a), team(b), "A", models.PhaseGroup, 0)
	require.NoError(t, err)
	return m
}

func scheduled(t *testing.T, m models.Match, week int, day, hour string) models.Match {
	t.Helper()
	return m.WithSlot(models.Slot{Week: week, Day: day, Time: hour, Discipline: m.Discipline})
}

func slotOf(t *testing.T, m models.Match) models.Slot {
	t.Helper()
	s, ok := m.Slot()
	require.True(t, ok, "match %s has no slot", m.ID)
	return s
}
