package service

import (
	"context"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"
)

// QuestionGroupStore resolves question group bindings. A missing group is
// reported as *course.ResourceNotFoundError.
type QuestionGroupStore interface {
	GetGroup(ctx context.Context, groupID int64) (*model.QuestionGroup, error)
	GetItems(ctx context.Context, groupID int64) ([]model.QuestionGroupItem, error)
}

type questionGroupService struct {
	repo repository.QuestionGroupRepository
}

func NewQuestionGroupService(repo repository.QuestionGroupRepository) QuestionGroupStore {
	return &questionGroupService{repo: repo}
}

func (s *questionGroupService) GetGroup(ctx context.Context, groupID int64) (*model.QuestionGroup, error) {
	g, err := s.repo.GetGroupByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, &course.ResourceNotFoundError{Kind: model.ResourceKindQuestionGroup, ID: groupID}
	}
	return g, nil
}

func (s *questionGroupService) GetItems(ctx context.Context, groupID int64) ([]model.QuestionGroupItem, error) {
	return s.repo.GetItemsByGroup(ctx, groupID)
}
