package repository

import (
	"context"
	"errors"
	"fmt"

	"courseflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MediaRepository reads media records written by the upload pipeline.
type MediaRepository interface {
	GetMediaByID(ctx context.Context, mediaID int64) (*model.Media, error)
}

type mediaRepo struct {
	pool *pgxpool.Pool
}

func NewMediaRepo(pool *pgxpool.Pool) MediaRepository {
	return &mediaRepo{pool: pool}
}

func (r *mediaRepo) GetMediaByID(ctx context.Context, mediaID int64) (*model.Media, error) {
	var m model.Media
	query := `SELECT id, kind, title, storage_path, duration_seconds, owner_id, created_at FROM media WHERE id = $1`
	err := r.pool.QueryRow(ctx, query, mediaID).
		Scan(&m.ID, &m.Kind, &m.Title, &m.StoragePath, &m.DurationSeconds, &m.OwnerID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting media %d: %w", mediaID, err)
	}
	return &m, nil
}
