package store

import "errors"

// Sentinel errors returned by store operations. Services translate these
// into domain errors with API codes.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)
