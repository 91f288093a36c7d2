package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EnrollmentStore answers whether a user purchased a course.
type EnrollmentStore interface {
	HasPurchased(ctx context.Context, userID string, courseID int64) (bool, error)
}

// cachedEnrollmentStore is a read-through Redis cache in front of another
// EnrollmentStore. Cache failures fall back to the underlying store.
type cachedEnrollmentStore struct {
	next   EnrollmentStore
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedEnrollmentStore wraps next with a Redis cache. Only positive
// answers are cached so a fresh purchase is visible immediately.
func NewCachedEnrollmentStore(next EnrollmentStore, rdb redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) EnrollmentStore {
	return &cachedEnrollmentStore{
		next:   next,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("service", "EnrollmentCache").Logger(),
	}
}

func enrollmentCacheKey(userID string, courseID int64) string {
	return fmt.Sprintf("enrollment:%d:%s", courseID, userID)
}

func (s *cachedEnrollmentStore) HasPurchased(ctx context.Context, userID string, courseID int64) (bool, error) {
	key := enrollmentCacheKey(userID, courseID)
	n, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Enrollment cache read failed")
	} else if n > 0 {
		return true, nil
	}

	purchased, err := s.next.HasPurchased(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	if purchased {
		if err := s.rdb.Set(ctx, key, "1", s.ttl).Err(); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("Enrollment cache write failed")
		}
	}
	return purchased, nil
}
