package models

import "fmt"

// allowedTransitions is the match state machine. in_progress -> pending and
// finished -> in_progress are administrative overrides (pause, score reopen).
var allowedTransitions = map[MatchState][]MatchState{
	StatePending:    {StateScheduled},
	StateScheduled:  {StateInProgress},
	StateInProgress: {StateFinished, StatePending},
	StateFinished:   {StateInProgress},
}

func IsValidStateTransition(current, next MatchState) bool {
	for _, allowed := range allowedTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Transition moves m to next, returning the updated copy.
func (m Match) Transition(next MatchState) (Match, error) {
	if !IsValidStateTransition(m.State, next) {
		return m, &Issue{
			Err:     ErrInvalidTransition,
			MatchID: m.ID,
			Detail:  fmt.Sprintf("%s -> %s", m.State, next),
		}
	}
	m.State = next
	if err := m.Validate(); err != nil {
		return m, err
	}
	return m, nil
}

// ValidateScores checks a final score for m. Set-based disciplines,
// tie-breaks and playoff matches cannot end level.
func (m Match) ValidateScores(scoreA, scoreB int) error {
	if scoreA < 0 || scoreB < 0 {
		return &Issue{Err: ErrInvalidScore, MatchID: m.ID, Detail: "scores cannot be negative"}
	}
	if scoreA != scoreB {
		return nil
	}
	if !m.Discipline.AllowsDraws() {
		return &Issue{Err: ErrInvalidScore, MatchID: m.ID, Detail: fmt.Sprintf("%s match cannot end in a draw", m.Discipline)}
	}
	if m.Phase.Decisive() {
		return &Issue{Err: ErrInvalidScore, MatchID: m.ID, Detail: fmt.Sprintf("%s match needs a winner", m.Phase)}
	}
	return nil
}

// Finish records the final score and moves an in-progress match to finished.
func (m Match) Finish(scoreA, scoreB int) (Match, error) {
	if err := m.ValidateScores(scoreA, scoreB); err != nil {
		return m, err
	}
	if m.HasTBD() {
		return m, &Issue{Err: ErrInvalidTransition, MatchID: m.ID, Detail: "teams are not resolved yet"}
	}
	m.ScoreA, m.ScoreB = &scoreA, &scoreB
	return m.Transition(StateFinished)
}
