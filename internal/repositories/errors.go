package repositories

import "errors"

// ErrNotFound is returned (wrapped) by lookups when no record matches.
// Callers classify with errors.Is.
var ErrNotFound = errors.New("record not found")
