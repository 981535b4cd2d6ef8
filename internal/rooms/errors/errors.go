package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrInvalidID = errors.New("invalid room ID format")

	ErrDuplicateRoomNumber = errors.New("room number already exists")

	// ErrNotAvailable is returned by the conditional hold when the room's
	// availability flag was already false.
	ErrNotAvailable = errors.New("room is not available")
)
