package service

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"time"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ContentService renders a course for a viewer: the structure filtered by
// access, with the resources of every allowed section resolved.
type ContentService interface {
	ResolveVisibleStructure(ctx context.Context, viewerID string, courseID int64) (*model.VisibleStructure, error)
}

// ContentServiceConfig carries the resolution knobs.
type ContentServiceConfig struct {
	MediaURLTTL        time.Duration
	ResolveConcurrency int
}

type contentService struct {
	courses     repository.CourseRepository
	chapters    repository.ChapterRepository
	sections    repository.SectionRepository
	media       MediaStore
	groups      QuestionGroupStore
	enrollments EnrollmentStore
	cfg         ContentServiceConfig
	shuffle     func([]model.QuestionGroupItem)
	logger      zerolog.Logger
}

func NewContentService(
	courses repository.CourseRepository,
	chapters repository.ChapterRepository,
	sections repository.SectionRepository,
	media MediaStore,
	groups QuestionGroupStore,
	enrollments EnrollmentStore,
	cfg ContentServiceConfig,
	logger zerolog.Logger,
) ContentService {
	if cfg.MediaURLTTL <= 0 {
		cfg.MediaURLTTL = 15 * time.Minute
	}
	if cfg.ResolveConcurrency <= 0 {
		cfg.ResolveConcurrency = 8
	}
	return &contentService{
		courses:     courses,
		chapters:    chapters,
		sections:    sections,
		media:       media,
		groups:      groups,
		enrollments: enrollments,
		cfg:         cfg,
		shuffle: func(items []model.QuestionGroupItem) {
			rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		},
		logger: logger.With().Str("service", "ContentService").Logger(),
	}
}

// ResolveVisibleStructure returns the course as viewerID sees it. An empty
// viewerID is an anonymous learner. Courses that are not published or
// archived are only visible to their author and assigned reviewer.
func (s *contentService) ResolveVisibleStructure(ctx context.Context, viewerID string, courseID int64) (*model.VisibleStructure, error) {
	c, err := loadCourse(ctx, s.courses, courseID)
	if err != nil {
		return nil, err
	}
	viewer := model.Viewer{UserID: viewerID}
	privileged := course.IsPrivileged(viewer, *c)
	if !privileged && !isListed(c.Status) {
		return nil, ErrNotFound
	}
	if !privileged && !viewer.Anonymous() && c.PaymentType == model.PaymentTypePaid {
		purchased, err := s.enrollments.HasPurchased(ctx, viewerID, courseID)
		if err != nil {
			s.logger.Error().Err(err).Int64("course_id", courseID).Str("user_id", viewerID).Msg("Failed to check purchase")
			return nil, err
		}
		viewer.HasPurchased = purchased
	}

	structure, err := loadStructure(ctx, s.chapters, s.sections, *c)
	if err != nil {
		return nil, err
	}
	visible := course.FilterStructure(viewer, structure)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ResolveConcurrency)
	for ci := range visible.Chapters {
		for si := range visible.Chapters[ci].Sections {
			vs := &visible.Chapters[ci].Sections[si]
			if vs.Visibility != model.VisibilityAllowed || vs.Section.Binding == nil {
				continue
			}
			g.Go(func() error {
				return s.resolveSection(gctx, vs)
			})
		}
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to resolve course content")
		return nil, err
	}
	return &visible, nil
}

// resolveSection fills vs.Content. A resource that no longer exists marks
// the section unavailable instead of failing the render. Each call writes
// only its own section.
func (s *contentService) resolveSection(ctx context.Context, vs *model.VisibleSection) error {
	var (
		content *model.SectionContent
		err     error
	)
	switch b := vs.Section.Binding.(type) {
	case model.MediaBinding:
		content, err = s.resolveMedia(ctx, b)
	case model.QuestionGroupBinding:
		content, err = s.resolveQuestionGroup(ctx, b)
	default:
		return nil
	}
	if errors.Is(err, course.ErrResourceNotFound) {
		s.logger.Warn().Err(err).Int64("section_id", vs.Section.ID).Msg("Bound resource is missing")
		vs.ContentUnavailable = true
		return nil
	}
	if err != nil {
		return err
	}
	vs.Content = content
	return nil
}

func (s *contentService) resolveMedia(ctx context.Context, b model.MediaBinding) (*model.SectionContent, error) {
	m, err := s.media.GetMedia(ctx, b.MediaID)
	if err != nil {
		return nil, err
	}
	url, err := s.media.GetAccessURL(ctx, b.MediaID, s.cfg.MediaURLTTL)
	if err != nil {
		return nil, err
	}
	return &model.SectionContent{Media: m, AccessURL: url, Role: b.Role}, nil
}

func (s *contentService) resolveQuestionGroup(ctx context.Context, b model.QuestionGroupBinding) (*model.SectionContent, error) {
	group, err := s.groups.GetGroup(ctx, b.GroupID)
	if err != nil {
		return nil, err
	}
	items, err := s.groups.GetItems(ctx, b.GroupID)
	if err != nil {
		return nil, err
	}
	opts := b.Options
	return &model.SectionContent{
		QuestionGroup: group,
		Items:         s.presentItems(items, opts),
		Options:       &opts,
	}, nil
}

// presentItems applies the quiz options to a copy of items. Difficulty
// ordering wins over random order; authored order breaks ties.
func (s *contentService) presentItems(items []model.QuestionGroupItem, opts model.QuizOptions) []model.QuestionGroupItem {
	out := append([]model.QuestionGroupItem{}, items...)
	switch {
	case opts.OrderByDifficulty:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Difficulty < out[j].Difficulty })
	case opts.RandomOrder:
		s.shuffle(out)
	}
	if !opts.ShowAnalysis {
		for i := range out {
			out[i].Analysis = ""
		}
	}
	return out
}
