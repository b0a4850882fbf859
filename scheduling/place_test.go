package scheduling

import (
	"testing"

	"github.com/Dosada05/school-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlace(t *testing.T) {
	cfg := testConfig()
	existing := scheduled(t, match(t, "v1", models.DisciplineVolleyball, "1ro", "2do"), 1, "Mon", "08:00")
	moving := match(t, "v2", models.DisciplineVolleyball, "1ro", "3ro")

	tests := []struct {
		name    string
		slot    models.Slot
		policy  ConflictPolicy
		wantErr string
	}{
		{name: "free eligible slot", slot: models.Slot{Week: 1, Day: "Mon", Time: "09:00", Discipline: models.DisciplineVolleyball}},
		{name: "occupied", slot: models.Slot{Week: 1, Day: "Mon", Time: "08:00", Discipline: models.DisciplineVolleyball}, wantErr: "already holds"},
		{name: "rotating day belongs to basketball", slot: models.Slot{Week: 1, Day: "Tue", Time: "08:00", Discipline: models.DisciplineVolleyball}, wantErr: "not played"},
		{name: "wrong discipline column", slot: models.Slot{Week: 1, Day: "Mon", Time: "09:00", Discipline: models.DisciplineFootball}, wantErr: "slot is for"},
		{name: "unknown time", slot: models.Slot{Week: 1, Day: "Mon", Time: "18:00", Discipline: models.DisciplineVolleyball}, wantErr: "unknown time"},
		{name: "week out of range", slot: models.Slot{Week: 3, Day: "Mon", Time: "08:00", Discipline: models.DisciplineVolleyball}, wantErr: "outside"},
		{
			name:    "team conflict with policy",
			slot:    models.Slot{Week: 1, Day: "Mon", Time: "09:00", Discipline: models.DisciplineVolleyball},
			policy:  ConflictPolicy{NoDoubleBookingPerDay: true},
			wantErr: "already plays",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Place(PlaceRequest{
				Schedule: []models.Match{existing, moving},
				Match:    moving,
				Slot:     tt.slot,
				Config:   cfg,
				Policy:   tt.policy,
			})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, models.ErrInvalidAssignment)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.slot, slotOf(t, got))
			assert.Equal(t, models.StateScheduled, got.State)
		})
	}
}

func TestSlotChecker(t *testing.T) {
	existing := scheduled(t, match(t, "v1", models.DisciplineVolleyball, "1ro", "2do"), 1, "Mon", "08:00")
	checker, err := NewSlotChecker(testConfig(), []models.Match{existing}, ConflictPolicy{}, nil)
	require.NoError(t, err)

	assert.NoError(t, checker.Book(match(t, "v2", models.DisciplineVolleyball, "1ro", "3ro")), "unslotted matches pass")
	assert.ErrorIs(t, checker.Book(scheduled(t, match(t, "v3", models.DisciplineVolleyball, "2do", "3ro"), 1, "Mon", "08:00")), models.ErrInvalidAssignment)
	assert.ErrorIs(t, checker.Book(scheduled(t, match(t, "v4", models.DisciplineVolleyball, "2do", "3ro"), 9, "Sun", "23:59")), models.ErrInvalidAssignment)

	require.NoError(t, checker.Book(scheduled(t, match(t, "v5", models.DisciplineVolleyball, "2do", "3ro"), 1, "Mon", "09:00")))
	err = checker.Book(scheduled(t, match(t, "v6", models.DisciplineVolleyball, "1ro", "4to"), 1, "Mon", "09:00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already holds match v5")

	_, err = NewSlotChecker(Config{}, nil, ConflictPolicy{}, nil)
	assert.Error(t, err)
}

func TestPlace_MoveKeepsOwnSlotFree(t *testing.T) {
	cfg := testConfig()
	m := scheduled(t, match(t, "f1", models.DisciplineFootball, "1ro", "2do"), 1, "Mon", "08:00")

	got, err := Place(PlaceRequest{
		Schedule: []models.Match{m},
		Match:    m,
		Slot:     models.Slot{Week: 1, Day: "Mon", Time: "08:00", Discipline: models.DisciplineFootball},
		Config:   cfg,
	})

	require.NoError(t, err)
	assert.Equal(t, "08:00", *got.Time)
}

func TestPlace_FinishedMatchCannotMove(t *testing.T) {
	m := scheduled(t, match(t, "f1", models.DisciplineFootball, "1ro", "2do"), 1, "Mon", "08:00")
	m, err := m.Transition(models.StateInProgress)
	require.NoError(t, err)

	_, err = Place(PlaceRequest{
		Schedule: []models.Match{m},
		Match:    m,
		Slot:     models.Slot{Week: 1, Day: "Tue", Time: "08:00", Discipline: models.DisciplineFootball},
		Config:   testConfig(),
	})
	require.ErrorIs(t, err, models.ErrInvalidAssignment)
}

func TestUnschedule(t *testing.T) {
	m := scheduled(t, match(t, "f1", models.DisciplineFootball, "1ro", "2do"), 1, "Mon", "08:00")

	got, err := Unschedule(m)

	require.NoError(t, err)
	assert.False(t, got.HasSlot())
	assert.Equal(t, models.StatePending, got.State)
}

func TestFreeSlots(t *testing.T) {
	cfg := testConfig()
	taken := scheduled(t, match(t, "v1", models.DisciplineVolleyball, "1ro", "2do"), 1, "Wed", "09:00")

	free, err := FreeSlots(cfg, []models.Match{taken}, models.DisciplineVolleyball, nil)

	require.NoError(t, err)
	assert.Len(t, free, 5)
	assert.NotContains(t, free, slotOf(t, taken))
	assert.Equal(t, models.Slot{Week: 1, Day: "Mon", Time: "08:00", Discipline: models.DisciplineVolleyball}, free[0])
}
