package model

import "time"

// AccessType gates chapter and section content on paid courses.
type AccessType string

const (
	// AccessTypeInherit is only valid on sections; it defers to the chapter.
	AccessTypeInherit   AccessType = ""
	AccessTypeFreeTrial AccessType = "free_trial"
	AccessTypePaidOnly  AccessType = "paid_only"
)

// Chapter is an ordered group of sections inside a course.
type Chapter struct {
	ID          int64      `db:"id" json:"id"`
	CourseID    int64      `db:"course_id" json:"course_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	OrderIndex  int        `db:"order_index" json:"order_index"`
	AccessType  AccessType `db:"access_type" json:"access_type"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
