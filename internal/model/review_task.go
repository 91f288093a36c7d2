package model

import "time"

// ReviewDecision is the outcome recorded on a review task.
type ReviewDecision string

const (
	ReviewDecisionPending  ReviewDecision = "pending"
	ReviewDecisionApproved ReviewDecision = "approved"
	ReviewDecisionRejected ReviewDecision = "rejected"
)

// ReviewTask is opened for every submission of a course and closed by the
// reviewer's decision.
type ReviewTask struct {
	ID          int64          `db:"id" json:"id"`
	CourseID    int64          `db:"course_id" json:"course_id"`
	SubmittedAt time.Time      `db:"submitted_at" json:"submitted_at"`
	ReviewerID  string         `db:"reviewer_id" json:"reviewer_id,omitempty"`
	StartedAt   *time.Time     `db:"started_at" json:"started_at,omitempty"`
	Decision    ReviewDecision `db:"decision" json:"decision"`
	Comment     string         `db:"comment" json:"comment,omitempty"`
	DecidedAt   *time.Time     `db:"decided_at" json:"decided_at,omitempty"`
}
