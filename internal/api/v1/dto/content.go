package dto

// VisibleStructureResponseDTO is a course as one viewer sees it
type VisibleStructureResponseDTO struct {
	Course   CourseResponseDTO   `json:"course"`
	Chapters []VisibleChapterDTO `json:"chapters"`
}

type VisibleChapterDTO struct {
	ChapterID  int64               `json:"chapter_id"`
	Title      string              `json:"title"`
	OrderIndex int                 `json:"order_index"`
	AccessType string              `json:"access_type"`
	Sections   []VisibleSectionDTO `json:"sections"`
}

// VisibleSectionDTO is one section with its access decision. Content is set
// only for allowed sections whose resource resolved.
type VisibleSectionDTO struct {
	SectionID          int64       `json:"section_id"`
	Title              string      `json:"title"`
	Description        string      `json:"description"`
	OrderIndex         int         `json:"order_index"`
	ContentType        string      `json:"content_type"`
	EstimatedMinutes   *int        `json:"estimated_minutes,omitempty"`
	Access             string      `json:"access"`
	Visibility         string      `json:"visibility"`
	ContentUnavailable bool        `json:"content_unavailable"`
	Content            *ContentDTO `json:"content,omitempty"`
}

type ContentDTO struct {
	Media         *MediaDTO         `json:"media,omitempty"`
	AccessURL     string            `json:"access_url,omitempty"`
	Role          string            `json:"role,omitempty"`
	QuestionGroup *QuestionGroupDTO `json:"question_group,omitempty"`
	Items         []QuestionItemDTO `json:"items,omitempty"`
	Options       *QuizOptionsDTO   `json:"options,omitempty"`
}

type MediaDTO struct {
	MediaID         int64  `json:"media_id"`
	Kind            string `json:"kind"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
}

type QuestionGroupDTO struct {
	QuestionGroupID int64  `json:"question_group_id"`
	Title           string `json:"title"`
}

type QuestionItemDTO struct {
	ItemID     int64  `json:"item_id"`
	Difficulty int    `json:"difficulty"`
	Prompt     string `json:"prompt"`
	Analysis   string `json:"analysis,omitempty"`
}
