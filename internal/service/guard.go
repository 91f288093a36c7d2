package service

import (
	"context"
	"errors"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"
)

// loadCourse returns the course or ErrNotFound.
func loadCourse(ctx context.Context, repo repository.CourseRepository, courseID int64) (*model.Course, error) {
	c, err := repo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// loadOwnedCourse loads a course the caller authored and checks that its
// status allows op.
func loadOwnedCourse(ctx context.Context, repo repository.CourseRepository, userID string, courseID int64, op course.Operation) (*model.Course, error) {
	c, err := loadCourse(ctx, repo, courseID)
	if err != nil {
		return nil, err
	}
	if userID == "" || c.CreatorID != userID {
		return nil, ErrForbidden
	}
	if err := course.ValidateOperation(c.Status, op); err != nil {
		return nil, err
	}
	return c, nil
}

// loadReviewer returns the caller's profile when it carries the reviewer role.
func loadReviewer(ctx context.Context, users repository.UserRepository, userID string) (*model.User, error) {
	if userID == "" {
		return nil, ErrForbidden
	}
	u, err := users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsReviewer() {
		return nil, ErrForbidden
	}
	return u, nil
}

// isReviewer is loadReviewer for callers that only need a yes or no.
func isReviewer(ctx context.Context, users repository.UserRepository, userID string) (bool, error) {
	_, err := loadReviewer(ctx, users, userID)
	if errors.Is(err, ErrForbidden) {
		return false, nil
	}
	return err == nil, err
}

// mapStatusConflict translates a lost guarded status update.
func mapStatusConflict(err error) error {
	if errors.Is(err, repository.ErrStatusConflict) {
		return ErrConcurrentUpdate
	}
	return err
}
