package scheduling

import (
	"fmt"
	"testing"

	"github.com/Dosada05/school-tournament/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomTournament builds a round robin per discipline with a random number
// of teams, seeded so failures reproduce.
func randomTournament(t *testing.T, faker *gofakeit.Faker) []models.Match {
	t.Helper()
	var matches []models.Match
	for _, d := range models.Disciplines {
		n := faker.Number(2, 6)
		cursos := make([]string, n)
		for i := range cursos {
			cursos[i] = fmt.Sprintf("%d%s", i+1, faker.RandomString([]string{"ro", "do", "to"}))
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				id := fmt.Sprintf("%s-%d-%d", d, i, j)
				matches = append(matches, match(t, id, d, cursos[i], cursos[j]))
			}
		}
	}
	faker.ShuffleAnySlice(matches)
	return matches
}

func TestAssignRandomTournaments(t *testing.T) {
	cfg := Config{
		Days:               []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		Times:              []string{"07:30", "09:00", "10:30"},
		Weeks:              3,
		StartingDiscipline: models.DisciplineBasketball,
	}

	for seed := uint64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			faker := gofakeit.New(seed)
			matches := randomTournament(t, faker)
			policy := ConflictPolicy{NoDoubleBookingPerDay: faker.Bool()}

			res := Assign(AssignRequest{Matches: matches, Config: cfg, Policy: policy})
			require.Len(t, res.Assigned, len(matches)-len(res.Unassigned))
			assert.Empty(t, res.Errors)

			seen := make(map[models.Slot]string)
			for _, m := range res.Assigned {
				s := slotOf(t, m)
				owner, dup := seen[s]
				require.False(t, dup, "slot %s holds %s and %s", s, owner, m.ID)
				seen[s] = m.ID
				assert.True(t, cfg.Contains(s))
				assert.Equal(t, models.StateScheduled, m.State)
			}

			report := Validate(cfg, res.Assigned)
			assert.True(t, report.IsValid, "%v", report.Errors)

			again := Assign(AssignRequest{Matches: matches, Config: cfg, Policy: policy})
			assert.Equal(t, res, again, "assignment must be deterministic")
		})
	}
}
