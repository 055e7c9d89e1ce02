package errors

import "errors"

var (
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrNoStorageAvailable     = errors.New("no storage available")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrInvalidDateRange       = errors.New("invalid date range")
	ErrStorageInUse           = errors.New("storage unit in use")
)
