package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrStaleStatus is returned by conditional status updates when the
	// booking's stored status no longer matches the expected prior status.
	// A concurrent transition won the race.
	ErrStaleStatus = errors.New("booking status changed concurrently")

	ErrLockHeld = errors.New("room is being reserved by another request")
)
