package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrDuplicateBookingID = errors.New("booking id already exists")

	// ErrStaleStatus means the booking's status changed between read and write.
	ErrStaleStatus = errors.New("booking status changed concurrently")
)
