package service

import "errors"

var (
	// ErrNotFound indicates a course, chapter or section that does not exist
	// or is not visible to the caller.
	ErrNotFound = errors.New("not_found")
	// ErrForbidden indicates an authenticated caller acting outside their role.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput indicates a request that is well formed but unusable.
	ErrInvalidInput = errors.New("invalid_input")
	// ErrProfileRequired indicates a caller without a user profile.
	ErrProfileRequired = errors.New("profile_required")
	// ErrConcurrentUpdate indicates the course changed status underneath the request.
	ErrConcurrentUpdate = errors.New("concurrent_update")
)
