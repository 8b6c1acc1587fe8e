package service

import "errors"

var (
	// ErrLocked is returned when a write targets a locked track. The caller
	// can recover; no state is changed.
	ErrLocked = errors.New("track is locked for editing")

	// ErrForbidden is returned when a non-privileged caller attempts a
	// review operation.
	ErrForbidden = errors.New("operation requires a privileged caller")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateDay is returned when a leave application already exists
	// for the target day.
	ErrDuplicateDay = errors.New("application already exists for this day")

	// ErrNotEligible is returned when a claim names an activity that cannot
	// be selected for the day's type.
	ErrNotEligible = errors.New("activity cannot be selected for this day type")

	// ErrInvalidInput is returned for malformed tracks, tiers or dates.
	ErrInvalidInput = errors.New("invalid input")
)
