package errors

import "errors"

var (
	ErrNotFound = errors.New("room not found")

	ErrDuplicateRoom = errors.New("room already exists")
)
