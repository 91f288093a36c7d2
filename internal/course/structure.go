package course

import (
	"fmt"
	"strings"

	"courseflow/internal/model"
)

// BuildStructure assembles a course structure from flat chapter and section
// lists, sorting both levels by orderIndex. Sections whose chapter is not
// in chapters are dropped.
func BuildStructure(c model.Course, chapters []model.Chapter, sections []model.Section) model.CourseStructure {
	sortedChapters := append([]model.Chapter(nil), chapters...)
	SortChapters(sortedChapters)

	byChapter := make(map[int64][]model.Section, len(sortedChapters))
	for _, sec := range sections {
		byChapter[sec.ChapterID] = append(byChapter[sec.ChapterID], sec)
	}

	s := model.CourseStructure{
		Course:   c,
		Chapters: make([]model.ChapterStructure, 0, len(sortedChapters)),
	}
	for _, ch := range sortedChapters {
		secs := byChapter[ch.ID]
		SortSections(secs)
		if secs == nil {
			secs = []model.Section{}
		}
		s.Chapters = append(s.Chapters, model.ChapterStructure{Chapter: ch, Sections: secs})
	}
	return s
}

// CheckComplete verifies the minimum structure required to submit: at least
// one chapter, no empty chapter, and every section bound to a resource that
// resolves. All problems are reported together.
func CheckComplete(s model.CourseStructure, isResolvable func(model.Section) bool) error {
	var problems []string
	if len(s.Chapters) == 0 {
		problems = append(problems, "course has no chapters")
	}
	for _, cs := range s.Chapters {
		if len(cs.Sections) == 0 {
			problems = append(problems, fmt.Sprintf("chapter %d %q has no sections", cs.Chapter.ID, cs.Chapter.Title))
			continue
		}
		for _, sec := range cs.Sections {
			if sec.Binding == nil {
				problems = append(problems, fmt.Sprintf("section %d %q has no resource", sec.ID, sec.Title))
				continue
			}
			if isResolvable != nil && !isResolvable(sec) {
				problems = append(problems, fmt.Sprintf("section %d %q is bound to missing %s %d",
					sec.ID, sec.Title, sec.Binding.Kind(), sec.Binding.ResourceID()))
			}
		}
	}
	if len(problems) > 0 {
		return &IncompleteCourseError{Problems: problems}
	}
	return nil
}

// ParseAccessType validates a chapter access type label.
func ParseAccessType(value string) (model.AccessType, error) {
	switch model.AccessType(strings.ToLower(strings.TrimSpace(value))) {
	case model.AccessTypeFreeTrial:
		return model.AccessTypeFreeTrial, nil
	case model.AccessTypePaidOnly:
		return model.AccessTypePaidOnly, nil
	default:
		return "", ErrInvalidAccessType
	}
}

// ParseSectionAccessType is ParseAccessType that also accepts an empty
// label, meaning the section inherits its chapter's access type.
func ParseSectionAccessType(value string) (model.AccessType, error) {
	if strings.TrimSpace(value) == "" {
		return model.AccessTypeInherit, nil
	}
	return ParseAccessType(value)
}

// ParseContentType validates a section content type label.
func ParseContentType(value string) (model.ContentType, error) {
	ct := model.ContentType(strings.ToLower(strings.TrimSpace(value)))
	switch ct {
	case model.ContentTypeVideo, model.ContentTypeAudio, model.ContentTypeDocument,
		model.ContentTypeText, model.ContentTypeImage, model.ContentTypeMixed:
		return ct, nil
	default:
		return "", ErrInvalidContentType
	}
}

// ValidatePayment checks that a paid course carries a positive price and a
// free course carries none.
func ValidatePayment(pt model.PaymentType, priceCents int64) error {
	switch pt {
	case model.PaymentTypeFree:
		if priceCents != 0 {
			return fmt.Errorf("%w: free course cannot have a price", ErrInvalidPayment)
		}
		return nil
	case model.PaymentTypePaid:
		if priceCents <= 0 {
			return fmt.Errorf("%w: paid course requires a positive price", ErrInvalidPayment)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown payment type %q", ErrInvalidPayment, pt)
	}
}
