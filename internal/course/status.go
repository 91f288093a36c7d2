package course

import (
	"strings"
	"time"

	"courseflow/internal/model"
)

// Action is a lifecycle step of the publication workflow.
type Action string

const (
	ActionSubmit      Action = "submit"
	ActionStartReview Action = "start_review"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionReEdit      Action = "re_edit"
	ActionArchive     Action = "archive"
)

type transition struct {
	from model.CourseStatus
	to   model.CourseStatus
}

// transitions is the complete lifecycle table. start_review is bookkeeping
// inside the review phase and does not change status.
var transitions = map[Action]transition{
	ActionSubmit:      {from: model.CourseStatusDraft, to: model.CourseStatusReviewing},
	ActionStartReview: {from: model.CourseStatusReviewing, to: model.CourseStatusReviewing},
	ActionApprove:     {from: model.CourseStatusReviewing, to: model.CourseStatusPublished},
	ActionReject:      {from: model.CourseStatusReviewing, to: model.CourseStatusRejected},
	ActionReEdit:      {from: model.CourseStatusRejected, to: model.CourseStatusDraft},
	ActionArchive:     {from: model.CourseStatusPublished, to: model.CourseStatusArchived},
}

// CanApply reports whether action is legal from status.
func CanApply(status model.CourseStatus, action Action) bool {
	t, ok := transitions[action]
	return ok && t.from == status
}

// NextStatus returns the status reached by applying action from status.
func NextStatus(status model.CourseStatus, action Action) (model.CourseStatus, error) {
	t, ok := transitions[action]
	if !ok || t.from != status {
		return status, &InvalidTransitionError{From: status, Action: action}
	}
	return t.to, nil
}

// AvailableActions lists the lifecycle actions legal from status, in table order.
func AvailableActions(status model.CourseStatus) []Action {
	var out []Action
	for _, a := range []Action{ActionSubmit, ActionStartReview, ActionApprove, ActionReject, ActionReEdit, ActionArchive} {
		if CanApply(status, a) {
			out = append(out, a)
		}
	}
	return out
}

// Submit moves a complete draft into review. isResolvable reports whether a
// section's binding points at an existing resource; the caller looks the
// resources up beforehand so this stays free of I/O.
func Submit(s *model.CourseStructure, isResolvable func(model.Section) bool, now time.Time) error {
	next, err := NextStatus(s.Course.Status, ActionSubmit)
	if err != nil {
		return err
	}
	if err := CheckComplete(*s, isResolvable); err != nil {
		return err
	}
	s.Course.Status = next
	s.Course.SubmittedAt = &now
	s.Course.UpdatedAt = now
	return nil
}

// StartReview records which reviewer picked the course up.
func StartReview(c *model.Course, reviewerID string, now time.Time) error {
	if _, err := NextStatus(c.Status, ActionStartReview); err != nil {
		return err
	}
	c.ReviewerID = reviewerID
	c.ReviewStartedAt = &now
	c.UpdatedAt = now
	return nil
}

// Approve publishes a course under review.
func Approve(c *model.Course, reviewerID string, now time.Time) error {
	next, err := NextStatus(c.Status, ActionApprove)
	if err != nil {
		return err
	}
	c.Status = next
	c.ReviewerID = reviewerID
	c.ReviewedAt = &now
	c.ReviewComment = ""
	c.UpdatedAt = now
	return nil
}

// Reject sends a course under review back to its author. A non-blank
// comment is required.
func Reject(c *model.Course, reviewerID, comment string, now time.Time) error {
	next, err := NextStatus(c.Status, ActionReject)
	if err != nil {
		return err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return ErrMissingReviewReason
	}
	c.Status = next
	c.ReviewerID = reviewerID
	c.ReviewedAt = &now
	c.ReviewComment = comment
	c.UpdatedAt = now
	return nil
}

// ReEdit reopens a rejected course as a fresh draft.
func ReEdit(c *model.Course, now time.Time) error {
	next, err := NextStatus(c.Status, ActionReEdit)
	if err != nil {
		return err
	}
	c.Status = next
	c.ReviewComment = ""
	c.SubmittedAt = nil
	c.ReviewedAt = nil
	c.ReviewStartedAt = nil
	c.ReviewerID = ""
	c.UpdatedAt = now
	return nil
}

// Archive retires a published course. There is no way back.
func Archive(c *model.Course, now time.Time) error {
	next, err := NextStatus(c.Status, ActionArchive)
	if err != nil {
		return err
	}
	c.Status = next
	c.UpdatedAt = now
	return nil
}
