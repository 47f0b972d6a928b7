package models

import "errors"

// ErrNotFound is returned by storage when a record does not exist or is not
// owned by the requesting user.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned by storage when a unique constraint is violated.
var ErrDuplicate = errors.New("duplicate record")
