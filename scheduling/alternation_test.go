package scheduling

import (
	"testing"

	"github.com/Dosada05/school-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisciplinesForDay(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		starting models.Discipline
		want     models.Discipline
	}{
		{name: "even index keeps volleyball", index: 0, starting: models.DisciplineVolleyball, want: models.DisciplineVolleyball},
		{name: "odd index flips to basketball", index: 1, starting: models.DisciplineVolleyball, want: models.DisciplineBasketball},
		{name: "even index keeps basketball", index: 4, starting: models.DisciplineBasketball, want: models.DisciplineBasketball},
		{name: "odd index flips to volleyball", index: 7, starting: models.DisciplineBasketball, want: models.DisciplineVolleyball},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DisciplinesForDay(tt.index, tt.starting)
			require.NoError(t, err)
			assert.Equal(t, models.DisciplineFootball, got.AlwaysOn)
			assert.Equal(t, tt.want, got.Rotating)
		})
	}
}

func TestDisciplinesForDay_RejectsFootballStart(t *testing.T) {
	_, err := DisciplinesForDay(0, models.DisciplineFootball)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestEligibleDays_RotateAcrossWeeks(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, []int{0, 1, 2}, EligibleDays(cfg, nil, models.DisciplineFootball, 1))
	assert.Equal(t, []int{0, 2}, EligibleDays(cfg, nil, models.DisciplineVolleyball, 1))
	assert.Equal(t, []int{1}, EligibleDays(cfg, nil, models.DisciplineBasketball, 1))
	// Three days per week: week 2 starts on global index 3, so the parity flips.
	assert.Equal(t, []int{1}, EligibleDays(cfg, nil, models.DisciplineVolleyball, 2))
	assert.Equal(t, []int{0, 2}, EligibleDays(cfg, nil, models.DisciplineBasketball, 2))
}

func TestValidate_WrongRotatingDiscipline(t *testing.T) {
	cfg := testConfig()
	schedule := []models.Match{
		scheduled(t, match(t, "b1", models.DisciplineBasketball, "1ro", "2do"), 1, "Mon", "08:00"),
		scheduled(t, match(t, "f1", models.DisciplineFootball, "1ro", "2do"), 1, "Mon", "08:00"),
		scheduled(t, match(t, "f2", models.DisciplineFootball, "3ro", "4to"), 1, "Tue", "08:00"),
		scheduled(t, match(t, "f3", models.DisciplineFootball, "5to", "6to"), 1, "Wed", "08:00"),
	}

	report := Validate(cfg, schedule)

	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Errors[0], models.ErrInvalidAssignment)
	assert.Contains(t, report.Errors[0].Detail, "week 1 Mon")
	assert.Empty(t, report.Warnings)
}

func TestValidate_MissingFootballIsWarning(t *testing.T) {
	cfg := testConfig()
	schedule := []models.Match{
		scheduled(t, match(t, "v1", models.DisciplineVolleyball, "1ro", "2do"), 1, "Mon", "08:00"),
	}

	report := Validate(cfg, schedule)

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Errors)
	assert.Len(t, report.Warnings, 3)
}

func TestValidate_IsDeterministic(t *testing.T) {
	cfg := testConfig()
	schedule := []models.Match{
		scheduled(t, match(t, "b1", models.DisciplineBasketball, "1ro", "2do"), 1, "Mon", "08:00"),
		scheduled(t, match(t, "v1", models.DisciplineVolleyball, "1ro", "2do"), 2, "Mon", "09:00"),
	}

	first := Validate(cfg, schedule)
	second := Validate(cfg, schedule)

	assert.Equal(t, first, second)
	assert.Len(t, first.Errors, 2)
}

func TestValidate_UnknownDay(t *testing.T) {
	cfg := testConfig()
	m := scheduled(t, match(t, "f1", models.DisciplineFootball, "1ro", "2do"), 1, "Sun", "08:00")

	report := Validate(cfg, []models.Match{m})

	assert.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "f1", report.Errors[0].MatchID)
}
