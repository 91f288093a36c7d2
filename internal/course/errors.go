package course

import (
	"errors"
	"fmt"
	"strings"

	"courseflow/internal/model"
)

var (
	// ErrInvalidBindingState indicates a binding naming no resource or two resource kinds.
	ErrInvalidBindingState = errors.New("invalid_binding_state")
	// ErrReorderMismatch indicates a reorder id list that differs from the current children.
	ErrReorderMismatch = errors.New("reorder_mismatch")
	// ErrCourseLocked indicates a structural mutation outside draft or rejected.
	ErrCourseLocked = errors.New("course_locked")
	// ErrIncompleteCourse indicates a submit on a course lacking minimum structure.
	ErrIncompleteCourse = errors.New("incomplete_course")
	// ErrMissingReviewReason indicates a reject without a comment.
	ErrMissingReviewReason = errors.New("missing_review_reason")
	// ErrResourceNotFound indicates a bound media or question group that no longer resolves.
	ErrResourceNotFound = errors.New("resource_not_found")
	// ErrInvalidTransition indicates a lifecycle action not allowed from the current status.
	ErrInvalidTransition = errors.New("invalid_transition")
	// ErrInvalidAccessType indicates an unknown access type label.
	ErrInvalidAccessType = errors.New("invalid_access_type")
	// ErrInvalidContentType indicates an unknown content type label.
	ErrInvalidContentType = errors.New("invalid_content_type")
	// ErrInvalidPayment indicates a paid course without a price or an unknown payment type.
	ErrInvalidPayment = errors.New("invalid_payment")
)

// ReorderMismatchError lists how a reorder request differs from the current children.
type ReorderMismatchError struct {
	Missing   []int64
	Foreign   []int64
	Duplicate []int64
}

func (e *ReorderMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %v", e.Missing))
	}
	if len(e.Foreign) > 0 {
		parts = append(parts, fmt.Sprintf("foreign %v", e.Foreign))
	}
	if len(e.Duplicate) > 0 {
		parts = append(parts, fmt.Sprintf("duplicate %v", e.Duplicate))
	}
	if len(parts) == 0 {
		return "reorder ids do not match current children"
	}
	return "reorder ids do not match current children: " + strings.Join(parts, ", ")
}

func (e *ReorderMismatchError) Is(target error) bool { return target == ErrReorderMismatch }

// CourseLockedError reports the status that blocked an operation.
type CourseLockedError struct {
	Status    model.CourseStatus
	Operation Operation
}

func (e *CourseLockedError) Error() string {
	return fmt.Sprintf("course status %s does not allow operation %s", statusLabel(e.Status), e.Operation)
}

func (e *CourseLockedError) Is(target error) bool { return target == ErrCourseLocked }

// IncompleteCourseError lists every reason a course cannot be submitted.
type IncompleteCourseError struct {
	Problems []string
}

func (e *IncompleteCourseError) Error() string {
	return "course is incomplete: " + strings.Join(e.Problems, "; ")
}

func (e *IncompleteCourseError) Is(target error) bool { return target == ErrIncompleteCourse }

// ResourceNotFoundError names the binding that failed to resolve.
type ResourceNotFoundError struct {
	Kind model.ResourceKind
	ID   int64
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *ResourceNotFoundError) Is(target error) bool { return target == ErrResourceNotFound }

// InvalidTransitionError reports a lifecycle action attempted from the wrong status.
type InvalidTransitionError struct {
	From   model.CourseStatus
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s a course in status %s", e.Action, statusLabel(e.From))
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func statusLabel(s model.CourseStatus) string {
	if s == "" {
		return "unspecified"
	}
	return string(s)
}
