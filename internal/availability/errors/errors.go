package errors

import "errors"

var (
	ErrSettingsNotFound = errors.New("availability settings not found")

	ErrSlotNotFound = errors.New("availability slot not found")

	// ErrNotOwner is returned when a caller targets a slot owned by someone
	// else. Handlers surface it as forbidden, never as not-found, so owners
	// can tell a stale ID from a permission problem.
	ErrNotOwner = errors.New("slot is owned by another user")
)
