package service

import (
	"context"
	"fmt"
	"time"

	"courseflow/internal/course"
	"courseflow/internal/model"
	"courseflow/internal/repository"

	"github.com/rs/zerolog"
)

// MediaStore resolves media bindings. A missing record is reported as
// *course.ResourceNotFoundError.
type MediaStore interface {
	GetMedia(ctx context.Context, mediaID int64) (*model.Media, error)
	GetAccessURL(ctx context.Context, mediaID int64, ttl time.Duration) (string, error)
}

type mediaService struct {
	repo    repository.MediaRepository
	storage ObjectStorage
	logger  zerolog.Logger
}

func NewMediaService(repo repository.MediaRepository, storage ObjectStorage, logger zerolog.Logger) MediaStore {
	return &mediaService{
		repo:    repo,
		storage: storage,
		logger:  logger.With().Str("service", "MediaService").Logger(),
	}
}

func (s *mediaService) GetMedia(ctx context.Context, mediaID int64) (*model.Media, error) {
	m, err := s.repo.GetMediaByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &course.ResourceNotFoundError{Kind: model.ResourceKindMedia, ID: mediaID}
	}
	return m, nil
}

// GetAccessURL signs a time limited download URL for the media's stored object.
func (s *mediaService) GetAccessURL(ctx context.Context, mediaID int64, ttl time.Duration) (string, error) {
	m, err := s.GetMedia(ctx, mediaID)
	if err != nil {
		return "", err
	}
	if m.StoragePath == "" {
		s.logger.Warn().Int64("media_id", mediaID).Msg("Media has no storage path")
		return "", fmt.Errorf("media %d has no stored object", mediaID)
	}
	return s.storage.PresignGet(ctx, m.StoragePath, ttl)
}
