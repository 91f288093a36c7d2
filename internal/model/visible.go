package model

// VisibleStructure is a course structure as seen by one viewer.
type VisibleStructure struct {
	Course   Course           `json:"course"`
	Chapters []VisibleChapter `json:"chapters"`
}

// VisibleChapter is a chapter and its evaluated sections.
type VisibleChapter struct {
	Chapter  Chapter          `json:"chapter"`
	Sections []VisibleSection `json:"sections"`
}

// VisibleSection carries the access decision and, when allowed and bound,
// the resolved content. ContentUnavailable marks a binding whose resource
// no longer exists.
type VisibleSection struct {
	Section            Section         `json:"section"`
	Access             AccessType      `json:"access"`
	Visibility         Visibility      `json:"visibility"`
	Content            *SectionContent `json:"content,omitempty"`
	ContentUnavailable bool            `json:"content_unavailable"`
}

// SectionContent is the resolved payload of a bound section.
type SectionContent struct {
	Media         *Media              `json:"media,omitempty"`
	AccessURL     string              `json:"access_url,omitempty"`
	Role          string              `json:"role,omitempty"`
	QuestionGroup *QuestionGroup      `json:"question_group,omitempty"`
	Items         []QuestionGroupItem `json:"items,omitempty"`
	Options       *QuizOptions        `json:"options,omitempty"`
}
