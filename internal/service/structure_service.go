package service

import (
	"context"
	"fmt"
	"strings"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"

	"github.com/rs/zerolog"
)

// ChapterInput is the author editable part of a chapter. An empty
// AccessType means paid_only.
type ChapterInput struct {
	Title       string
	Description string
	AccessType  string
}

// SectionInput is the author editable part of a section. An empty
// AccessType inherits the chapter's; an empty ContentType means text.
type SectionInput struct {
	Title            string
	Description      string
	AccessType       string
	ContentType      string
	EstimatedMinutes *int
}

// StructureService edits the chapter and section tree of a course. Every
// mutation holds the course lock, requires the caller to own the course
// and requires the course to be in draft or rejected.
type StructureService interface {
	GetCourseStructure(ctx context.Context, userID string, courseID int64) (*model.CourseStructure, error)

	CreateChapter(ctx context.Context, userID string, courseID int64, in ChapterInput) (*model.Chapter, error)
	UpdateChapter(ctx context.Context, userID string, chapterID int64, in ChapterInput) (*model.Chapter, error)
	// DeleteChapter removes the chapter and its sections. Remaining
	// chapters keep their order indices.
	DeleteChapter(ctx context.Context, userID string, chapterID int64) error
	ReorderChapters(ctx context.Context, userID string, courseID int64, orderedIDs []int64) ([]model.Chapter, error)

	CreateSection(ctx context.Context, userID string, chapterID int64, in SectionInput) (*model.Section, error)
	UpdateSection(ctx context.Context, userID string, sectionID int64, in SectionInput) (*model.Section, error)
	DeleteSection(ctx context.Context, userID string, sectionID int64) error
	ReorderSections(ctx context.Context, userID string, chapterID int64, orderedIDs []int64) ([]model.Section, error)

	BindMedia(ctx context.Context, userID string, sectionID, mediaID int64, role string) (*model.Section, error)
	BindQuestionGroup(ctx context.Context, userID string, sectionID, groupID int64, opts model.QuizOptions) (*model.Section, error)
	UnbindResource(ctx context.Context, userID string, sectionID int64) (*model.Section, error)
}

type structureService struct {
	courses  repository.CourseRepository
	chapters repository.ChapterRepository
	sections repository.SectionRepository
	users    repository.UserRepository
	media    MediaStore
	groups   QuestionGroupStore
	locks    *CourseLocks
	logger   zerolog.Logger
}

func NewStructureService(
	courses repository.CourseRepository,
	chapters repository.ChapterRepository,
	sections repository.SectionRepository,
	users repository.UserRepository,
	media MediaStore,
	groups QuestionGroupStore,
	locks *CourseLocks,
	logger zerolog.Logger,
) StructureService {
	return &structureService{
		courses:  courses,
		chapters: chapters,
		sections: sections,
		users:    users,
		media:    media,
		groups:   groups,
		locks:    locks,
		logger:   logger.With().Str("service", "StructureService").Logger(),
	}
}

// loadStructure reads the whole tree of a course.
func loadStructure(ctx context.Context, chapters repository.ChapterRepository, sections repository.SectionRepository, c model.Course) (model.CourseStructure, error) {
	chs, err := chapters.GetChaptersByCourse(ctx, c.ID)
	if err != nil {
		return model.CourseStructure{}, err
	}
	secs, err := sections.GetSectionsByCourse(ctx, c.ID)
	if err != nil {
		return model.CourseStructure{}, err
	}
	return course.BuildStructure(c, chs, secs), nil
}

// GetCourseStructure returns the unfiltered tree with bindings to the
// author and to reviewers.
func (s *structureService) GetCourseStructure(ctx context.Context, userID string, courseID int64) (*model.CourseStructure, error) {
	c, err := loadCourse(ctx, s.courses, courseID)
	if err != nil {
		return nil, err
	}
	if userID == "" || c.CreatorID != userID {
		ok, err := isReviewer(ctx, s.users, userID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotFound
		}
	}
	structure, err := loadStructure(ctx, s.chapters, s.sections, *c)
	if err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to load course structure")
		return nil, err
	}
	return &structure, nil
}

// chapterCourse resolves the course a chapter belongs to.
func (s *structureService) chapterCourse(ctx context.Context, chapterID int64) (int64, error) {
	ch, err := s.chapters.GetChapterByID(ctx, chapterID)
	if err != nil {
		return 0, err
	}
	if ch == nil {
		return 0, ErrNotFound
	}
	return ch.CourseID, nil
}

// sectionCourse resolves the course a section belongs to.
func (s *structureService) sectionCourse(ctx context.Context, sectionID int64) (int64, error) {
	sec, err := s.sections.GetSectionByID(ctx, sectionID)
	if err != nil {
		return 0, err
	}
	if sec == nil {
		return 0, ErrNotFound
	}
	return s.chapterCourse(ctx, sec.ChapterID)
}

// lockedChapter locks the chapter's course, checks ownership and op, and
// re-reads the chapter under the lock. The caller must call unlock.
func (s *structureService) lockedChapter(ctx context.Context, userID string, chapterID int64, op course.Operation) (ch *model.Chapter, unlock func(), err error) {
	courseID, err := s.chapterCourse(ctx, chapterID)
	if err != nil {
		return nil, nil, err
	}
	unlock = s.locks.Lock(courseID)
	if _, err := loadOwnedCourse(ctx, s.courses, userID, courseID, op); err != nil {
		unlock()
		return nil, nil, err
	}
	ch, err = s.chapters.GetChapterByID(ctx, chapterID)
	if err == nil && ch == nil {
		err = ErrNotFound
	}
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return ch, unlock, nil
}

// lockedSection is lockedChapter for sections.
func (s *structureService) lockedSection(ctx context.Context, userID string, sectionID int64, op course.Operation) (sec *model.Section, unlock func(), err error) {
	courseID, err := s.sectionCourse(ctx, sectionID)
	if err != nil {
		return nil, nil, err
	}
	unlock = s.locks.Lock(courseID)
	if _, err := loadOwnedCourse(ctx, s.courses, userID, courseID, op); err != nil {
		unlock()
		return nil, nil, err
	}
	sec, err = s.sections.GetSectionByID(ctx, sectionID)
	if err == nil && sec == nil {
		err = ErrNotFound
	}
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return sec, unlock, nil
}

func chapterAccess(value string) (model.AccessType, error) {
	if strings.TrimSpace(value) == "" {
		return model.AccessTypePaidOnly, nil
	}
	return course.ParseAccessType(value)
}

func sectionContentType(value string) (model.ContentType, error) {
	if strings.TrimSpace(value) == "" {
		return model.ContentTypeText, nil
	}
	return course.ParseContentType(value)
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return nil
}

func requireMinutes(minutes *int) error {
	if minutes != nil && *minutes <= 0 {
		return fmt.Errorf("%w: estimated minutes must be positive", ErrInvalidInput)
	}
	return nil
}

func (s *structureService) CreateChapter(ctx context.Context, userID string, courseID int64, in ChapterInput) (*model.Chapter, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}
	access, err := chapterAccess(in.AccessType)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(courseID)
	defer unlock()
	if _, err := loadOwnedCourse(ctx, s.courses, userID, courseID, course.OpCreateChapter); err != nil {
		return nil, err
	}

	ch := &model.Chapter{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		AccessType:  access,
	}
	if err := s.chapters.CreateChapter(ctx, ch); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to create chapter")
		return nil, err
	}
	return ch, nil
}

func (s *structureService) UpdateChapter(ctx context.Context, userID string, chapterID int64, in ChapterInput) (*model.Chapter, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}
	access, err := chapterAccess(in.AccessType)
	if err != nil {
		return nil, err
	}

	ch, unlock, err := s.lockedChapter(ctx, userID, chapterID, course.OpUpdateChapter)
	if err != nil {
		return nil, err
	}
	defer unlock()

	ch.Title = in.Title
	ch.Description = in.Description
	ch.AccessType = access
	if err := s.chapters.UpdateChapter(ctx, ch); err != nil {
		s.logger.Error().Err(err).Int64("chapter_id", chapterID).Msg("Failed to update chapter")
		return nil, err
	}
	return ch, nil
}

func (s *structureService) DeleteChapter(ctx context.Context, userID string, chapterID int64) error {
	_, unlock, err := s.lockedChapter(ctx, userID, chapterID, course.OpDeleteChapter)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.chapters.DeleteChapter(ctx, chapterID); err != nil {
		s.logger.Error().Err(err).Int64("chapter_id", chapterID).Msg("Failed to delete chapter")
		return err
	}
	return nil
}

func (s *structureService) ReorderChapters(ctx context.Context, userID string, courseID int64, orderedIDs []int64) ([]model.Chapter, error) {
	unlock := s.locks.Lock(courseID)
	defer unlock()
	if _, err := loadOwnedCourse(ctx, s.courses, userID, courseID, course.OpReorderChapters); err != nil {
		return nil, err
	}

	if err := s.chapters.ReorderChapters(ctx, courseID, orderedIDs); err != nil {
		return nil, err
	}
	return s.chapters.GetChaptersByCourse(ctx, courseID)
}

func (s *structureService) CreateSection(ctx context.Context, userID string, chapterID int64, in SectionInput) (*model.Section, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}
	access, err := course.ParseSectionAccessType(in.AccessType)
	if err != nil {
		return nil, err
	}
	contentType, err := sectionContentType(in.ContentType)
	if err != nil {
		return nil, err
	}
	if err := requireMinutes(in.EstimatedMinutes); err != nil {
		return nil, err
	}

	_, unlock, err := s.lockedChapter(ctx, userID, chapterID, course.OpCreateSection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sec := &model.Section{
		ChapterID:        chapterID,
		Title:            in.Title,
		Description:      in.Description,
		AccessType:       access,
		ContentType:      contentType,
		EstimatedMinutes: in.EstimatedMinutes,
	}
	if err := s.sections.CreateSection(ctx, sec); err != nil {
		s.logger.Error().Err(err).Int64("chapter_id", chapterID).Msg("Failed to create section")
		return nil, err
	}
	return sec, nil
}

// UpdateSection writes the outline fields. The binding is left alone, and
// a section bound to media keeps the media kind as its content type.
func (s *structureService) UpdateSection(ctx context.Context, userID string, sectionID int64, in SectionInput) (*model.Section, error) {
	if err := requireTitle(in.Title); err != nil {
		return nil, err
	}
	if err := requireMinutes(in.EstimatedMinutes); err != nil {
		return nil, err
	}
	access, err := course.ParseSectionAccessType(in.AccessType)
	if err != nil {
		return nil, err
	}

	sec, unlock, err := s.lockedSection(ctx, userID, sectionID, course.OpUpdateSection)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if in.ContentType != "" {
		contentType, err := course.ParseContentType(in.ContentType)
		if err != nil {
			return nil, err
		}
		if _, bound := sec.Binding.(model.MediaBinding); bound && contentType != sec.ContentType {
			return nil, fmt.Errorf("%w: section is bound to %s media", course.ErrInvalidContentType, sec.ContentType)
		}
		sec.ContentType = contentType
	}
	sec.Title = in.Title
	sec.Description = in.Description
	sec.AccessType = access
	sec.EstimatedMinutes = in.EstimatedMinutes
	if err := s.sections.UpdateSection(ctx, sec); err != nil {
		s.logger.Error().Err(err).Int64("section_id", sectionID).Msg("Failed to update section")
		return nil, err
	}
	return sec, nil
}

func (s *structureService) DeleteSection(ctx context.Context, userID string, sectionID int64) error {
	_, unlock, err := s.lockedSection(ctx, userID, sectionID, course.OpDeleteSection)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.sections.DeleteSection(ctx, sectionID); err != nil {
		s.logger.Error().Err(err).Int64("section_id", sectionID).Msg("Failed to delete section")
		return err
	}
	return nil
}

func (s *structureService) ReorderSections(ctx context.Context, userID string, chapterID int64, orderedIDs []int64) ([]model.Section, error) {
	_, unlock, err := s.lockedChapter(ctx, userID, chapterID, course.OpReorderSections)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := s.sections.ReorderSections(ctx, chapterID, orderedIDs); err != nil {
		return nil, err
	}
	return s.sections.GetSectionsByChapter(ctx, chapterID)
}

// BindMedia points the section at a media item, replacing any previous
// binding. The section's content type follows the media kind.
func (s *structureService) BindMedia(ctx context.Context, userID string, sectionID, mediaID int64, role string) (*model.Section, error) {
	binding, err := course.NewMediaBinding(mediaID, role)
	if err != nil {
		return nil, err
	}

	sec, unlock, err := s.lockedSection(ctx, userID, sectionID, course.OpBindResource)
	if err != nil {
		return nil, err
	}
	defer unlock()

	m, err := s.media.GetMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if err := course.Bind(sec, binding); err != nil {
		return nil, err
	}
	if kind, err := course.ParseContentType(string(m.Kind)); err == nil {
		sec.ContentType = kind
	}
	return s.saveSection(ctx, sec)
}

// BindQuestionGroup points the section at a question group, replacing any
// previous binding.
func (s *structureService) BindQuestionGroup(ctx context.Context, userID string, sectionID, groupID int64, opts model.QuizOptions) (*model.Section, error) {
	binding, err := course.NewQuestionGroupBinding(groupID, opts)
	if err != nil {
		return nil, err
	}

	sec, unlock, err := s.lockedSection(ctx, userID, sectionID, course.OpBindResource)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := course.Bind(sec, binding); err != nil {
		return nil, err
	}
	return s.saveSection(ctx, sec)
}

func (s *structureService) UnbindResource(ctx context.Context, userID string, sectionID int64) (*model.Section, error) {
	sec, unlock, err := s.lockedSection(ctx, userID, sectionID, course.OpBindResource)
	if err != nil {
		return nil, err
	}
	defer unlock()

	course.Unbind(sec)
	return s.saveSection(ctx, sec)
}

func (s *structureService) saveSection(ctx context.Context, sec *model.Section) (*model.Section, error) {
	if err := s.sections.UpdateSection(ctx, sec); err != nil {
		s.logger.Error().Err(err).Int64("section_id", sec.ID).Str("resource_kind", string(model.BindingKind(sec.Binding))).Msg("Failed to save section binding")
		return nil, err
	}
	return sec, nil
}
