package models

import (
	"fmt"
	"time"
)

type Phase string

const (
	PhaseGroup           Phase = "group"
	PhaseTwoLeggedFirst  Phase = "two_legged_first"
	PhaseTwoLeggedSecond Phase = "two_legged_second"
	PhaseTieBreak        Phase = "tie_break"
	PhaseSemifinal       Phase = "semifinal"
	PhaseFinal           Phase = "final"
	PhaseThirdPlace      Phase = "third_place"
)

func (p Phase) Valid() bool {
	switch p {
	case PhaseGroup, PhaseTwoLeggedFirst, PhaseTwoLeggedSecond, PhaseTieBreak,
		PhaseSemifinal, PhaseFinal, PhaseThirdPlace:
		return true
	}
	return false
}

// IsGroupStage covers every phase that must finish before playoffs start,
// tie-breaks included.
func (p Phase) IsGroupStage() bool {
	switch p {
	case PhaseGroup, PhaseTwoLeggedFirst, PhaseTwoLeggedSecond, PhaseTieBreak:
		return true
	}
	return false
}

func (p Phase) IsPlayoff() bool {
	return p == PhaseSemifinal || p == PhaseFinal || p == PhaseThirdPlace
}

// Decisive phases must produce a winner whatever the discipline.
func (p Phase) Decisive() bool {
	return p == PhaseTieBreak || p.IsPlayoff()
}

type MatchState string

const (
	StatePending    MatchState = "pending"
	StateScheduled  MatchState = "scheduled"
	StateInProgress MatchState = "in_progress"
	StateFinished   MatchState = "finished"
)

func (s MatchState) Valid() bool {
	switch s {
	case StatePending, StateScheduled, StateInProgress, StateFinished:
		return true
	}
	return false
}

// Match is one game between two teams. Scores and scheduling fields are nil
// until set.
type Match struct {
	ID         string     `json:"id" db:"id"`
	Discipline Discipline `json:"discipline" db:"discipline"`
	Gender     string     `json:"gender" db:"gender"`
	Level      string     `json:"level" db:"level"`
	Category   string     `json:"category" db:"category"`
	TeamA      TeamRef    `json:"team_a" db:"-"`
	TeamB      TeamRef    `json:"team_b" db:"-"`
	Group      string     `json:"group,omitempty" db:"group_name"`
	Phase      Phase      `json:"phase" db:"phase"`
	Order      int        `json:"order" db:"match_order"`
	State      MatchState `json:"state" db:"state"`
	ScoreA     *int       `json:"score_a,omitempty" db:"score_a"`
	ScoreB     *int       `json:"score_b,omitempty" db:"score_b"`
	Day        *string    `json:"day,omitempty" db:"day"`
	Time       *string    `json:"time,omitempty" db:"time_slot"`
	Week       *int       `json:"week,omitempty" db:"week"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// NewMatch builds a pending match for key and validates it.
func NewMatch(id string, key BracketKey, teamA, teamB TeamRef, group string, phase Phase, order int) (Match, error) {
	m := Match{
		ID:         id,
		Discipline: key.Discipline,
		Gender:     key.Gender,
		Level:      key.Level,
		Category:   key.Category,
		TeamA:      teamA,
		TeamB:      teamB,
		Group:      group,
		Phase:      phase,
		Order:      order,
		State:      StatePending,
	}
	if err := m.Validate(); err != nil {
		return Match{}, err
	}
	return m, nil
}

// Validate checks the record-level invariants.
func (m Match) Validate() error {
	if m.ID == "" {
		return &Issue{Err: ErrInvalidMatch, Detail: "match id is required"}
	}
	if !m.Discipline.Valid() {
		return &Issue{Err: ErrInvalidMatch, MatchID: m.ID, Detail: fmt.Sprintf("unknown discipline %q", m.Discipline)}
	}
	if !m.Phase.Valid() {
		return &Issue{Err: ErrInvalidMatch, MatchID: m.ID, Detail: fmt.Sprintf("unknown phase %q", m.Phase)}
	}
	if !m.State.Valid() {
		return &Issue{Err: ErrInvalidMatch, MatchID: m.ID, Detail: fmt.Sprintf("unknown state %q", m.State)}
	}
	if m.TeamA.SameTeam(m.TeamB) {
		return &Issue{Err: ErrInvalidMatch, MatchID: m.ID, Detail: "a team cannot play against itself"}
	}
	if (m.TeamA.IsTBD() || m.TeamB.IsTBD()) && !m.Phase.IsPlayoff() {
		return &Issue{Err: ErrInvalidMatch, MatchID: m.ID, Detail: "only playoff matches may have unresolved teams"}
	}
	switch m.State {
	case StateFinished:
		if !m.HasScores() {
			return &Issue{Err: ErrInvalidMatch, MatchID: m.ID, Detail: "finished match requires both scores"}
		}
		fallthrough
	case StateScheduled, StateInProgress:
		if !m.HasSlot() {
			return &Issue{Err: ErrInvalidMatch, MatchID: m.ID, Detail: fmt.Sprintf("%s match requires week, day and time", m.State)}
		}
	}
	return nil
}

func (m Match) BracketKey() BracketKey {
	return BracketKey{Discipline: m.Discipline, Gender: m.Gender, Level: m.Level, Category: m.Category}
}

// HasSlot reports whether week, day and time are all set.
func (m Match) HasSlot() bool {
	return m.Week != nil && m.Day != nil && m.Time != nil
}

func (m Match) HasScores() bool {
	return m.ScoreA != nil && m.ScoreB != nil
}

func (m Match) IsFinished() bool {
	return m.State == StateFinished
}

func (m Match) HasTBD() bool {
	return m.TeamA.IsTBD() || m.TeamB.IsTBD()
}

// Involves reports whether team plays in m.
func (m Match) Involves(team TeamRef) bool {
	return m.TeamA.SameTeam(team) || m.TeamB.SameTeam(team)
}

// Slot returns the grid cell of a scheduled match.
func (m Match) Slot() (Slot, bool) {
	if !m.HasSlot() {
		return Slot{}, false
	}
	return Slot{Week: *m.Week, Day: *m.Day, Time: *m.Time, Discipline: m.Discipline}, true
}

// WithSlot returns a copy placed into s. Pending matches become scheduled.
func (m Match) WithSlot(s Slot) Match {
	week, day, t := s.Week, s.Day, s.Time
	m.Week, m.Day, m.Time = &week, &day, &t
	if m.State == StatePending {
		m.State = StateScheduled
	}
	return m
}

// Winner and Loser of a finished match with different scores.
func (m Match) Winner() (TeamRef, bool) {
	if !m.IsFinished() || !m.HasScores() || *m.ScoreA == *m.ScoreB {
		return TeamRef{}, false
	}
	if *m.ScoreA > *m.ScoreB {
		return m.TeamA, true
	}
	return m.TeamB, true
}

func (m Match) Loser() (TeamRef, bool) {
	if !m.IsFinished() || !m.HasScores() || *m.ScoreA == *m.ScoreB {
		return TeamRef{}, false
	}
	if *m.ScoreA > *m.ScoreB {
		return m.TeamB, true
	}
	return m.TeamA, true
}

// Slot is one bookable grid cell. It holds at most one match.
type Slot struct {
	Week       int        `json:"week"`
	Day        string     `json:"day"`
	Time       string     `json:"time"`
	Discipline Discipline `json:"discipline"`
}

func (s Slot) String() string {
	return fmt.Sprintf("week %d %s %s %s", s.Week, s.Day, s.Time, s.Discipline)
}
