package dto

import "time"

// CourseCreateDTO is used for incoming course creation requests
type CourseCreateDTO struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	PaymentType   string  `json:"payment_type" validate:"required,oneof=free paid"`
	PriceCents    int64   `json:"price_cents" validate:"gte=0"`
	InstitutionID *int64  `json:"institution_id,omitempty" validate:"omitempty,gt=0"`
}

// CourseUpdateDTO replaces the editable metadata of a course
type CourseUpdateDTO struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	PaymentType   string  `json:"payment_type" validate:"required,oneof=free paid"`
	PriceCents    int64   `json:"price_cents" validate:"gte=0"`
	InstitutionID *int64  `json:"institution_id,omitempty" validate:"omitempty,gt=0"`
}

// CourseResponseDTO is returned in API responses for courses
type CourseResponseDTO struct {
	CourseID         int64      `json:"course_id"`
	CreatorID        string     `json:"creator_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	CoverURL         string     `json:"cover_url,omitempty"`
	InstitutionID    *int64     `json:"institution_id,omitempty"`
	PaymentType      string     `json:"payment_type"`
	PriceCents       int64      `json:"price_cents"`
	Status           string     `json:"status"`
	ReviewComment    string     `json:"review_comment,omitempty"`
	ReviewerID       string     `json:"reviewer_id,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	ReviewStartedAt  *time.Time `json:"review_started_at,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	AvailableActions []string   `json:"available_actions"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// CoverUploadRequestDTO asks for a presigned cover upload URL
type CoverUploadRequestDTO struct {
	ContentType string `json:"content_type" validate:"required,startswith=image/"`
}

// CoverUploadResponseDTO carries the presigned upload URL
type CoverUploadResponseDTO struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CoverConfirmDTO confirms an uploaded cover object
type CoverConfirmDTO struct {
	ObjectKey string `json:"object_key" validate:"required,max=500"`
}
