package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/school-tournament/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var volleyKey = models.BracketKey{Discipline: models.DisciplineVolleyball, Gender: "M", Level: "basica_superior", Category: "sub_14"}

func volleyTeams(groups map[string]int) []models.Team {
	var teams []models.Team
	for g, n := range groups {
		for i := 1; i <= n; i++ {
			curso := fmt.Sprintf("%d%s", i, g)
			teams = append(teams, models.Team{
				ID:         curso,
				Discipline: volleyKey.Discipline,
				Group:      g,
				TeamRef:    models.TeamRef{Curso: curso, Paralelo: "A", Gender: volleyKey.Gender, Level: volleyKey.Level, Category: volleyKey.Category},
			})
		}
	}
	return teams
}

// runTournament plays every playable match with random set scores and
// applies each Advance result until the bracket completes.
func runTournament(t *testing.T, faker *gofakeit.Faker, teams []models.Team) ([]models.Match, AdvanceResult) {
	t.Helper()
	matches, issues := GenerateGroupStage(volleyKey, teams, nil)
	require.Empty(t, issues)

	var res AdvanceResult
	for round := 0; round < 10; round++ {
		for i, m := range matches {
			if m.IsFinished() || m.HasTBD() {
				continue
			}
			a, b := faker.Number(0, 3), faker.Number(0, 3)
			if a == b {
				b++
			}
			matches[i] = play(t, m, a, b)
		}

		res = Advance(AdvanceInput{Key: volleyKey, Teams: teams, Matches: matches})
		matches = append(matches, res.Create...)
		for _, u := range res.Update {
			for i := range matches {
				if matches[i].ID == u.ID {
					matches[i] = u
				}
			}
		}
		if res.State == StateCompleted {
			break
		}
	}
	return matches, res
}

func TestProgressionRandomSingleGroup(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			faker := gofakeit.New(seed)
			size := faker.Number(3, 6)
			teams := volleyTeams(map[string]int{"A": size})

			matches, res := runTournament(t, faker, teams)
			require.Equal(t, StateCompleted, res.State, "%v", res.Issues)
			assert.Equal(t, size*(size-1)/2, phaseCount(matches, models.PhaseGroup))
			assert.Equal(t, 1, phaseCount(matches, models.PhaseFinal))
			if size >= 4 {
				assert.Equal(t, 1, phaseCount(matches, models.PhaseThirdPlace))
			} else {
				assert.Zero(t, phaseCount(matches, models.PhaseThirdPlace))
			}

			again := Advance(AdvanceInput{Key: volleyKey, Teams: teams, Matches: matches})
			assert.Empty(t, again.Create)
			assert.Empty(t, again.Update)
			assert.Equal(t, StateCompleted, again.State)
		})
	}
}

func TestProgressionRandomTwoGroups(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			faker := gofakeit.New(seed)
			teams := volleyTeams(map[string]int{"A": faker.Number(3, 5), "B": faker.Number(3, 5)})

			matches, res := runTournament(t, faker, teams)
			require.Equal(t, StateCompleted, res.State, "%v", res.Issues)
			assert.Equal(t, 2, phaseCount(matches, models.PhaseSemifinal))
			assert.Equal(t, 1, phaseCount(matches, models.PhaseFinal))
			assert.Equal(t, 1, phaseCount(matches, models.PhaseThirdPlace))

			// The final pairs the two semifinal winners.
			final := withPhase(t, matches, models.PhaseFinal)[0]
			var winners []models.TeamRef
			for _, semi := range withPhase(t, matches, models.PhaseSemifinal) {
				w, ok := semi.Winner()
				require.True(t, ok)
				winners = append(winners, w)
			}
			assert.ElementsMatch(t, winners, []models.TeamRef{final.TeamA, final.TeamB})
		})
	}
}
