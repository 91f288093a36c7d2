package service

import (
	"context"
	"errors"
	"time"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/pubsub"
	"courseflow/internal/repository"

	"github.com/rs/zerolog"
)

// ReviewService drives the publication lifecycle of a course. Authors
// submit, reopen and archive; reviewers start, approve and reject.
type ReviewService interface {
	SubmitForReview(ctx context.Context, userID string, courseID int64) (*model.Course, error)
	StartReview(ctx context.Context, reviewerID string, courseID int64) (*model.Course, error)
	// Approve publishes the course. comment is optional and kept on the review task.
	Approve(ctx context.Context, reviewerID string, courseID int64, comment string) (*model.Course, error)
	// Reject sends the course back to its author with a required comment.
	Reject(ctx context.Context, reviewerID string, courseID int64, comment string) (*model.Course, error)
	ReEdit(ctx context.Context, userID string, courseID int64) (*model.Course, error)
	Archive(ctx context.Context, userID string, courseID int64) (*model.Course, error)

	ListOpenTasks(ctx context.Context, reviewerID string, limit, offset int) ([]model.ReviewTask, error)
	GetCourseReviews(ctx context.Context, userID string, courseID int64) ([]model.ReviewTask, error)
}

type reviewService struct {
	courses  repository.CourseRepository
	chapters repository.ChapterRepository
	sections repository.SectionRepository
	reviews  repository.ReviewRepository
	users    repository.UserRepository
	media    MediaStore
	groups   QuestionGroupStore
	events   pubsub.CourseEventPublisher
	locks    *CourseLocks
	now      func() time.Time
	logger   zerolog.Logger
}

func NewReviewService(
	courses repository.CourseRepository,
	chapters repository.ChapterRepository,
	sections repository.SectionRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	media MediaStore,
	groups QuestionGroupStore,
	events pubsub.CourseEventPublisher,
	locks *CourseLocks,
	logger zerolog.Logger,
) ReviewService {
	return &reviewService{
		courses:  courses,
		chapters: chapters,
		sections: sections,
		reviews:  reviews,
		users:    users,
		media:    media,
		groups:   groups,
		events:   events,
		locks:    locks,
		now:      time.Now,
		logger:   logger.With().Str("service", "ReviewService").Logger(),
	}
}

func (s *reviewService) publish(ctx context.Context, evType pubsub.EventType, c *model.Course, actorID, comment string) {
	s.events.PublishCourseEvent(ctx, pubsub.CourseEvent{
		Type:       evType,
		CourseID:   c.ID,
		Status:     c.Status,
		ActorID:    actorID,
		Comment:    comment,
		OccurredAt: c.UpdatedAt,
	})
}

// resolvable looks up every bound resource of the structure once and
// returns the set of sections whose resource exists.
func (s *reviewService) resolvable(ctx context.Context, structure model.CourseStructure) (map[int64]bool, error) {
	ok := make(map[int64]bool)
	for _, cs := range structure.Chapters {
		for _, sec := range cs.Sections {
			if sec.Binding == nil {
				continue
			}
			var err error
			switch b := sec.Binding.(type) {
			case model.MediaBinding:
				_, err = s.media.GetMedia(ctx, b.MediaID)
			case model.QuestionGroupBinding:
				_, err = s.groups.GetGroup(ctx, b.GroupID)
			}
			switch {
			case err == nil:
				ok[sec.ID] = true
			case errors.Is(err, course.ErrResourceNotFound):
			default:
				return nil, err
			}
		}
	}
	return ok, nil
}

func (s *reviewService) SubmitForReview(ctx context.Context, userID string, courseID int64) (*model.Course, error) {
	unlock := s.locks.Lock(courseID)
	defer unlock()

	c, err := loadOwnedCourse(ctx, s.courses, userID, courseID, course.OpRead)
	if err != nil {
		return nil, err
	}
	if !course.CanApply(c.Status, course.ActionSubmit) {
		return nil, &course.InvalidTransitionError{From: c.Status, Action: course.ActionSubmit}
	}
	structure, err := loadStructure(ctx, s.chapters, s.sections, *c)
	if err != nil {
		return nil, err
	}
	found, err := s.resolvable(ctx, structure)
	if err != nil {
		return nil, err
	}

	from := c.Status
	isResolvable := func(sec model.Section) bool { return found[sec.ID] }
	if err := course.Submit(&structure, isResolvable, s.now()); err != nil {
		return nil, err
	}
	submitted := structure.Course
	task, err := s.reviews.OpenReview(ctx, &submitted, from)
	if err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to open review task")
		return nil, mapStatusConflict(err)
	}

	s.logger.Info().Int64("course_id", courseID).Int64("review_task_id", task.ID).Msg("Course submitted for review")
	s.publish(ctx, pubsub.EventCourseSubmitted, &submitted, userID, "")
	return &submitted, nil
}

// reviewerCourse checks the caller is a reviewer other than the author and
// loads the course under the caller's lock.
func (s *reviewService) reviewerCourse(ctx context.Context, reviewerID string, courseID int64) (*model.Course, error) {
	if _, err := loadReviewer(ctx, s.users, reviewerID); err != nil {
		return nil, err
	}
	c, err := loadCourse(ctx, s.courses, courseID)
	if err != nil {
		return nil, err
	}
	if c.CreatorID == reviewerID {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *reviewService) StartReview(ctx context.Context, reviewerID string, courseID int64) (*model.Course, error) {
	unlock := s.locks.Lock(courseID)
	defer unlock()

	c, err := s.reviewerCourse(ctx, reviewerID, courseID)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := course.StartReview(c, reviewerID, s.now()); err != nil {
		return nil, err
	}
	if _, err := s.reviews.StartReview(ctx, c, from); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to start review")
		return nil, mapStatusConflict(err)
	}

	s.publish(ctx, pubsub.EventReviewStarted, c, reviewerID, "")
	return c, nil
}

func (s *reviewService) Approve(ctx context.Context, reviewerID string, courseID int64, comment string) (*model.Course, error) {
	unlock := s.locks.Lock(courseID)
	defer unlock()

	c, err := s.reviewerCourse(ctx, reviewerID, courseID)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := course.Approve(c, reviewerID, s.now()); err != nil {
		return nil, err
	}
	if _, err := s.reviews.CloseReview(ctx, c, from, model.ReviewDecisionApproved, comment); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to approve course")
		return nil, mapStatusConflict(err)
	}

	s.logger.Info().Int64("course_id", courseID).Str("reviewer_id", reviewerID).Msg("Course approved")
	s.publish(ctx, pubsub.EventCourseApproved, c, reviewerID, comment)
	return c, nil
}

func (s *reviewService) Reject(ctx context.Context, reviewerID string, courseID int64, comment string) (*model.Course, error) {
	unlock := s.locks.Lock(courseID)
	defer unlock()

	c, err := s.reviewerCourse(ctx, reviewerID, courseID)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := course.Reject(c, reviewerID, comment, s.now()); err != nil {
		return nil, err
	}
	if _, err := s.reviews.CloseReview(ctx, c, from, model.ReviewDecisionRejected, c.ReviewComment); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Msg("Failed to reject course")
		return nil, mapStatusConflict(err)
	}

	s.logger.Info().Int64("course_id", courseID).Str("reviewer_id", reviewerID).Msg("Course rejected")
	s.publish(ctx, pubsub.EventCourseRejected, c, reviewerID, c.ReviewComment)
	return c, nil
}

func (s *reviewService) ReEdit(ctx context.Context, userID string, courseID int64) (*model.Course, error) {
	return s.authorTransition(ctx, userID, courseID, course.ReEdit, pubsub.EventCourseReopened)
}

func (s *reviewService) Archive(ctx context.Context, userID string, courseID int64) (*model.Course, error) {
	return s.authorTransition(ctx, userID, courseID, course.Archive, pubsub.EventCourseArchived)
}

// authorTransition applies a lifecycle step that only touches the course row.
func (s *reviewService) authorTransition(ctx context.Context, userID string, courseID int64, apply func(*model.Course, time.Time) error, evType pubsub.EventType) (*model.Course, error) {
	unlock := s.locks.Lock(courseID)
	defer unlock()

	c, err := loadOwnedCourse(ctx, s.courses, userID, courseID, course.OpRead)
	if err != nil {
		return nil, err
	}
	from := c.Status
	if err := apply(c, s.now()); err != nil {
		return nil, err
	}
	if err := s.courses.UpdateCourseStatus(ctx, c, from); err != nil {
		s.logger.Error().Err(err).Int64("course_id", courseID).Str("event", string(evType)).Msg("Failed to update course status")
		return nil, mapStatusConflict(err)
	}

	s.publish(ctx, evType, c, userID, "")
	return c, nil
}

func (s *reviewService) ListOpenTasks(ctx context.Context, reviewerID string, limit, offset int) ([]model.ReviewTask, error) {
	if _, err := loadReviewer(ctx, s.users, reviewerID); err != nil {
		return nil, err
	}
	return s.reviews.GetOpenTasks(ctx, limit, offset)
}

// GetCourseReviews returns the review history to the author and to reviewers.
func (s *reviewService) GetCourseReviews(ctx context.Context, userID string, courseID int64) ([]model.ReviewTask, error) {
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
			return nil, ErrForbidden
		}
	}
	return s.reviews.GetTasksByCourse(ctx, courseID)
}
