package model

import "time"

// ContentType is the informational tag describing what a section shows.
type ContentType string

const (
	ContentTypeVideo    ContentType = "video"
	ContentTypeAudio    ContentType = "audio"
	ContentTypeDocument ContentType = "document"
	ContentTypeText     ContentType = "text"
	ContentTypeImage    ContentType = "image"
	ContentTypeMixed    ContentType = "mixed"
)

// Section is the leaf content unit of a chapter. It carries at most one
// resource binding; a nil Binding means nothing is bound.
type Section struct {
	ID               int64           `db:"id" json:"id"`
	ChapterID        int64           `db:"chapter_id" json:"chapter_id"`
	Title            string          `db:"title" json:"title"`
	Description      string          `db:"description" json:"description"`
	OrderIndex       int             `db:"order_index" json:"order_index"`
	AccessType       AccessType      `db:"access_type" json:"access_type,omitempty"`
	ContentType      ContentType     `db:"content_type" json:"content_type"`
	Binding          ResourceBinding `db:"-" json:"-"`
	EstimatedMinutes *int            `db:"estimated_minutes" json:"estimated_minutes,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`
}

// ResourceKind is the discriminator persisted next to a section's resource ids.
type ResourceKind string

const (
	ResourceKindNone          ResourceKind = "none"
	ResourceKindMedia         ResourceKind = "media"
	ResourceKindQuestionGroup ResourceKind = "question_group"
)

// BindingKind reports the discriminator for a possibly nil binding.
func BindingKind(b ResourceBinding) ResourceKind {
	if b == nil {
		return ResourceKindNone
	}
	return b.Kind()
}

// ResourceBinding is the closed set of payloads a section can carry:
// MediaBinding or QuestionGroupBinding.
type ResourceBinding interface {
	Kind() ResourceKind
	ResourceID() int64
	isResourceBinding()
}

// DefaultMediaRole is used when a media binding does not name a role.
const DefaultMediaRole = "primary"

// MediaBinding points a section at a media item.
type MediaBinding struct {
	MediaID int64  `json:"media_id"`
	Role    string `json:"role"`
}

func (MediaBinding) Kind() ResourceKind  { return ResourceKindMedia }
func (b MediaBinding) ResourceID() int64 { return b.MediaID }
func (MediaBinding) isResourceBinding()  {}

// QuizOptions control how a question group is presented to learners.
type QuizOptions struct {
	RandomOrder       bool `json:"random_order"`
	OrderByDifficulty bool `json:"order_by_difficulty"`
	ShowAnalysis      bool `json:"show_analysis"`
}

// QuestionGroupBinding points a section at a question group.
type QuestionGroupBinding struct {
	GroupID int64       `json:"question_group_id"`
	Options QuizOptions `json:"options"`
}

func (QuestionGroupBinding) Kind() ResourceKind  { return ResourceKindQuestionGroup }
func (b QuestionGroupBinding) ResourceID() int64 { return b.GroupID }
func (QuestionGroupBinding) isResourceBinding()  {}
