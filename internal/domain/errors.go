package domain

import "errors"

var (
	// ErrMissingField is returned when caller input is empty or malformed;
	// nothing reaches storage.
	ErrMissingField = errors.New("missing required field")
	// ErrQuestionNotFound indicates a submitted question ID is unknown.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrTeamNotFound indicates the team has no progress record.
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamInfoNotFound indicates no identity record matched the lookup.
	ErrTeamInfoNotFound = errors.New("team info not found")
	// ErrStorage wraps repository failures (unavailable store, failed write).
	ErrStorage = errors.New("storage failure")
)
