package dto

import "time"

// ReviewDecisionDTO carries the reviewer's comment. Rejections require one.
type ReviewDecisionDTO struct {
	Comment string `json:"comment" validate:"max=2000"`
}

type ReviewTaskResponseDTO struct {
	ReviewTaskID int64      `json:"review_task_id"`
	CourseID     int64      `json:"course_id"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	ReviewerID   string     `json:"reviewer_id,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	Decision     string     `json:"decision"`
	Comment      string     `json:"comment,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
}
