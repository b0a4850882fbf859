package services

import "errors"

var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource already exists")

	ErrMatchNotFound = errors.New("match not found")
	ErrTeamNotFound  = errors.New("team not found")
	ErrTeamConflict  = errors.New("team already registered for this bracket")
	ErrSlotTaken     = errors.New("slot already holds a match")

	ErrInvalidBracketKey   = errors.New("discipline, gender, level and category are required")
	ErrUploadNotConfigured = errors.New("export storage is not configured")
)
