package dto

import "time"

// ChapterCreateDTO is used for chapter create and update requests
type ChapterCreateDTO struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	AccessType  string `json:"access_type" validate:"omitempty,oneof=free_trial paid_only"`
}

type ChapterResponseDTO struct {
	ChapterID   int64     `json:"chapter_id"`
	CourseID    int64     `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
	AccessType  string    `json:"access_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SectionCreateDTO is used for section create and update requests. An empty
// access type inherits the chapter's.
type SectionCreateDTO struct {
	Title            string `json:"title" validate:"required,max=200"`
	Description      string `json:"description" validate:"max=5000"`
	AccessType       string `json:"access_type" validate:"omitempty,oneof=free_trial paid_only"`
	ContentType      string `json:"content_type" validate:"omitempty,oneof=video audio document text image mixed"`
	EstimatedMinutes *int   `json:"estimated_minutes,omitempty" validate:"omitempty,gt=0,lte=1440"`
}

type SectionResponseDTO struct {
	SectionID        int64        `json:"section_id"`
	ChapterID        int64        `json:"chapter_id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	OrderIndex       int          `json:"order_index"`
	AccessType       string       `json:"access_type,omitempty"`
	ContentType      string       `json:"content_type"`
	EstimatedMinutes *int         `json:"estimated_minutes,omitempty"`
	Resource         *ResourceDTO `json:"resource"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// QuizOptionsDTO controls how a bound question group is presented
type QuizOptionsDTO struct {
	RandomOrder       bool `json:"random_order"`
	OrderByDifficulty bool `json:"order_by_difficulty"`
	ShowAnalysis      bool `json:"show_analysis"`
}

// ResourceDTO is the resource bound to a section. Exactly one id is set.
type ResourceDTO struct {
	Kind            string          `json:"kind"`
	MediaID         *int64          `json:"media_id,omitempty"`
	Role            string          `json:"role,omitempty"`
	QuestionGroupID *int64          `json:"question_group_id,omitempty"`
	Options         *QuizOptionsDTO `json:"options,omitempty"`
}

// BindResourceDTO binds a media item or a question group to a section
type BindResourceDTO struct {
	MediaID         *int64         `json:"media_id,omitempty" validate:"omitempty,gt=0"`
	Role            string         `json:"role" validate:"max=50"`
	QuestionGroupID *int64         `json:"question_group_id,omitempty" validate:"omitempty,gt=0"`
	Options         QuizOptionsDTO `json:"options"`
}

// ReorderDTO lists every child id of the parent in the desired order
type ReorderDTO struct {
	IDs []int64 `json:"ids" validate:"required,dive,gt=0"`
}

type ChapterStructureDTO struct {
	ChapterResponseDTO
	Sections []SectionResponseDTO `json:"sections"`
}

type CourseStructureResponseDTO struct {
	Course   CourseResponseDTO     `json:"course"`
	Chapters []ChapterStructureDTO `json:"chapters"`
}
