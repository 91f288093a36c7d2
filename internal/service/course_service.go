package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CourseService defines the interface for course operations
type CourseService interface {
	// CreateCourse creates a draft course owned by userID
	CreateCourse(ctx context.Context, userID string, c *model.Course) (*model.Course, error)
	ListMyCourses(ctx context.Context, userID string) ([]model.Course, error)
	// ListCatalog lists published courses, newest first
	ListCatalog(ctx context.Context, limit, offset int) ([]model.Course, error)
	// GetCourse retrieves a course visible to userID
	GetCourse(ctx context.Context, userID string, courseID int64) (*model.Course, error)
	// UpdateCourse updates the metadata of a course in draft or rejected
	UpdateCourse(ctx context.Context, userID string, c *model.Course) (*model.Course, error)
	// RequestCoverUpload returns a presigned URL the author uploads the cover to
	RequestCoverUpload(ctx context.Context, userID string, courseID int64, contentType string) (*CoverUpload, error)
	// ConfirmCoverUpload points the course cover at an uploaded object
	ConfirmCoverUpload(ctx context.Context, userID string, courseID int64, objectKey string) (*model.Course, error)
}

// CoverUpload is a pending cover image upload.
type CoverUpload struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CourseServiceConfig carries the knobs of the cover upload flow.
type CourseServiceConfig struct {
	CoverObjectPrefix string
	CoverUploadURLTTL time.Duration
}

type courseService struct {
	courses repository.CourseRepository
	users   repository.UserRepository
	storage ObjectStorage
	locks   *CourseLocks
	cfg     CourseServiceConfig
	now     func() time.Time
	logger  zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courses repository.CourseRepository, users repository.UserRepository, storage ObjectStorage, locks *CourseLocks, cfg CourseServiceConfig, logger zerolog.Logger) CourseService {
	if cfg.CoverObjectPrefix == "" {
		cfg.CoverObjectPrefix = "covers"
	}
	if cfg.CoverUploadURLTTL <= 0 {
		cfg.CoverUploadURLTTL = 15 * time.Minute
	}
	return &courseService{
		courses: courses,
		users:   users,
		storage: storage,
		locks:   locks,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) CreateCourse(ctx context.Context, userID string, c *model.Course) (*model.Course, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrProfileRequired
	}
	if strings.TrimSpace(c.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := course.ValidatePayment(c.PaymentType, c.PriceCents); err != nil {
		return nil, err
	}

	c.ID = 0
	c.CreatorID = userID
	c.Status = model.CourseStatusDraft
	c.CoverURL = ""
	c.ReviewComment = ""
	c.ReviewerID = ""
	c.SubmittedAt, c.ReviewStartedAt, c.ReviewedAt = nil, nil, nil
	if err := s.courses.CreateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create course")
		return nil, err
	}
	return c, nil
}

func (s *courseService) ListMyCourses(ctx context.Context, userID string) ([]model.Course, error) {
	return s.courses.GetCoursesByCreator(ctx, userID)
}

func (s *courseService) ListCatalog(ctx context.Context, limit, offset int) ([]model.Course, error) {
	return s.courses.GetCoursesByStatus(ctx, model.CourseStatusPublished, limit, offset)
}

// GetCourse returns the course to its author, to reviewers, and to anyone
// once it is published or archived. Other callers get ErrNotFound.
func (s *courseService) GetCourse(ctx context.Context, userID string, courseID int64) (*model.Course, error) {
	c, err := loadCourse(ctx, s.courses, courseID)
	if err != nil {
		return nil, err
	}
	if isListed(c.Status) || (userID != "" && c.CreatorID == userID) {
		return c, nil
	}
	ok, err := isReviewer(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// isListed reports whether learners may see a course in status.
func isListed(status model.CourseStatus) bool {
	return status == model.CourseStatusPublished || status == model.CourseStatusArchived
}

func (s *courseService) UpdateCourse(ctx context.Context, userID string, in *model.Course) (*model.Course, error) {
	unlock := s.locks.Lock(in.ID)
	defer unlock()

	c, err := loadOwnedCourse(ctx, s.courses, userID, in.ID, course.OpEditMetadata)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := course.ValidatePayment(in.PaymentType, in.PriceCents); err != nil {
		return nil, err
	}

	c.Title = in.Title
	c.Description = in.Description
	c.InstitutionID = in.InstitutionID
	c.PaymentType = in.PaymentType
	c.PriceCents = in.PriceCents
	if err := s.courses.UpdateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("course_id", c.ID).Msg("Failed to update course")
		return nil, err
	}
	return c, nil
}

func (s *courseService) coverKeyPrefix(courseID int64) string {
	return fmt.Sprintf("%s/%d/", strings.TrimSuffix(s.cfg.CoverObjectPrefix, "/"), courseID)
}

func (s *courseService) RequestCoverUpload(ctx context.Context, userID string, courseID int64, contentType string) (*CoverUpload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: cover must be an image", ErrInvalidInput)
	}
	unlock := s.locks.Lock(courseID)
	defer unlock()

	if _, err := loadOwnedCourse(ctx, s.courses, userID, courseID, course.OpUploadCover); err != nil {
		return nil, err
	}

	key := s.coverKeyPrefix(courseID) + uuid.NewString()
	url, err := s.storage.PresignPut(ctx, key, contentType, s.cfg.CoverUploadURLTTL)
	if err != nil {
		return nil, err
	}
	return &CoverUpload{
		ObjectKey: key,
		UploadURL: url,
		ExpiresAt: s.now().Add(s.cfg.CoverUploadURLTTL),
	}, nil
}

func (s *courseService) ConfirmCoverUpload(ctx context.Context, userID string, courseID int64, objectKey string) (*model.Course, error) {
	if !strings.HasPrefix(objectKey, s.coverKeyPrefix(courseID)) {
		return nil, fmt.Errorf("%w: object key does not belong to this course", ErrInvalidInput)
	}
	unlock := s.locks.Lock(courseID)
	defer unlock()

	c, err := loadOwnedCourse(ctx, s.courses, userID, courseID, course.OpUploadCover)
	if err != nil {
		return nil, err
	}
	exists, err := s.storage.Exists(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: cover object has not been uploaded", ErrInvalidInput)
	}

	c.CoverURL = objectKey
	if err := s.courses.UpdateCourse(ctx, c); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to set course cover")
		return nil, err
	}
	return c, nil
}
