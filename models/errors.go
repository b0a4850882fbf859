package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Engine error taxonomy. They travel inside results as Issues, never as
// panics, so one failing match does not stop a batch.
var (
	ErrInvalidAssignment        = errors.New("invalid assignment")
	ErrInsufficientStandings    = errors.New("insufficient standings")
	ErrDuplicateGeneration      = errors.New("bracket stage already generated")
	ErrTieUnresolved            = errors.New("tie unresolved")
	ErrUnsupportedConfiguration = errors.New("unsupported bracket configuration")
	ErrInvalidScore             = errors.New("invalid score")
	ErrInvalidTransition        = errors.New("invalid state transition")
	ErrInvalidMatch             = errors.New("invalid match")
)

// Issue is one structured problem reported by an engine operation.
type Issue struct {
	Err     error  `json:"-"`
	MatchID string `json:"match_id,omitempty"`
	Detail  string `json:"detail"`
}

func (i *Issue) Error() string {
	msg := i.Err.Error()
	if i.MatchID != "" {
		msg = fmt.Sprintf("%s (match %s)", msg, i.MatchID)
	}
	if i.Detail != "" {
		msg += ": " + i.Detail
	}
	return msg
}

func (i *Issue) Unwrap() error {
	return i.Err
}

// Kind is the taxonomy name used in JSON payloads.
func (i *Issue) Kind() string {
	switch {
	case errors.Is(i.Err, ErrInvalidAssignment):
		return "invalid_assignment"
	case errors.Is(i.Err, ErrInsufficientStandings):
		return "insufficient_standings"
	case errors.Is(i.Err, ErrDuplicateGeneration):
		return "duplicate_generation"
	case errors.Is(i.Err, ErrTieUnresolved):
		return "tie_unresolved"
	case errors.Is(i.Err, ErrUnsupportedConfiguration):
		return "unsupported_configuration"
	case errors.Is(i.Err, ErrInvalidScore):
		return "invalid_score"
	case errors.Is(i.Err, ErrInvalidTransition):
		return "invalid_transition"
	default:
		return "invalid_match"
	}
}

func (i *Issue) MarshalJSON() ([]byte, error) {
	type view struct {
		Kind    string `json:"kind"`
		MatchID string `json:"match_id,omitempty"`
		Detail  string `json:"detail"`
	}
	return json.Marshal(view{Kind: i.Kind(), MatchID: i.MatchID, Detail: i.Detail})
}

// Blocking reports whether the issue is more than an informational no-op.
func (i *Issue) Blocking() bool {
	return !errors.Is(i.Err, ErrDuplicateGeneration)
}
