package service

import (
	"context"
	"errors"

	"courseflow/internal/model"
	"courseflow/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

type UserService interface {
	// Create registers the caller's profile or refreshes it. The role is
	// never taken from the request.
	Create(ctx context.Context, u *model.User) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	GetCourses(ctx context.Context, userID string) ([]model.Course, error)
}

type userService struct {
	userRepo   repository.UserRepository
	courseRepo repository.CourseRepository
}

func NewUserService(userRepo repository.UserRepository, courseRepo repository.CourseRepository) UserService {
	return &userService{userRepo: userRepo, courseRepo: courseRepo}
}

func (s *userService) Create(ctx context.Context, u *model.User) (*model.User, error) {
	u.Role = ""
	err := s.userRepo.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	u, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *userService) GetCourses(ctx context.Context, userID string) ([]model.Course, error) {
	courses, err := s.courseRepo.GetCoursesByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	return courses, nil
}
