package repository

import "errors"

// ErrNotFound covers both a missing record and a record owned by another
// account; callers must not be able to tell the two apart.
var ErrNotFound = errors.New("record not found")
