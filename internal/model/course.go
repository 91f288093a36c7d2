package model

import (
	"strings"
	"time"
)

// CourseStatus is the publication lifecycle state of a course.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusReviewing CourseStatus = "reviewing"
	CourseStatusRejected  CourseStatus = "rejected"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

// ParseCourseStatus normalizes a stored or client supplied status label.
// "pending_review" is the legacy spelling of the review phase and maps to
// CourseStatusReviewing.
func ParseCourseStatus(value string) (CourseStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "draft":
		return CourseStatusDraft, true
	case "reviewing", "pending_review", "in_review":
		return CourseStatusReviewing, true
	case "rejected":
		return CourseStatusRejected, true
	case "published":
		return CourseStatusPublished, true
	case "archived":
		return CourseStatusArchived, true
	default:
		return "", false
	}
}

// PaymentType tells whether a course must be purchased.
type PaymentType string

const (
	PaymentTypeFree PaymentType = "free"
	PaymentTypePaid PaymentType = "paid"
)

// Course is the aggregate root of the content structure.
type Course struct {
	ID              int64        `db:"id" json:"id"`
	Title           string       `db:"title" json:"title"`
	Description     string       `db:"description" json:"description"`
	CoverURL        string       `db:"cover_url" json:"cover_url"`
	InstitutionID   *int64       `db:"institution_id" json:"institution_id,omitempty"`
	CreatorID       string       `db:"creator_id" json:"creator_id"`
	PaymentType     PaymentType  `db:"payment_type" json:"payment_type"`
	PriceCents      int64        `db:"price_cents" json:"price_cents"`
	Status          CourseStatus `db:"status" json:"status"`
	ReviewComment   string       `db:"review_comment" json:"review_comment,omitempty"`
	SubmittedAt     *time.Time   `db:"submitted_at" json:"submitted_at,omitempty"`
	ReviewStartedAt *time.Time   `db:"review_started_at" json:"review_started_at,omitempty"`
	ReviewedAt      *time.Time   `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewerID      string       `db:"reviewer_id" json:"reviewer_id,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// CourseStructure is a course together with its ordered chapters and sections.
type CourseStructure struct {
	Course   Course             `json:"course"`
	Chapters []ChapterStructure `json:"chapters"`
}

// ChapterStructure is a chapter with its ordered sections.
type ChapterStructure struct {
	Chapter  Chapter   `json:"chapter"`
	Sections []Section `json:"sections"`
}
