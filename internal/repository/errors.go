package repository

import "errors"

// ErrStatusConflict is returned when a guarded status update finds the
// course in a different status than the caller read.
var ErrStatusConflict = errors.New("status_conflict")
