package repository

import (
	"context"
	"errors"
	"fmt"

	"courseflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionGroupRepository reads question groups and their items.
type QuestionGroupRepository interface {
	GetGroupByID(ctx context.Context, groupID int64) (*model.QuestionGroup, error)
	// GetItemsByGroup returns the group's questions in authored order.
	GetItemsByGroup(ctx context.Context, groupID int64) ([]model.QuestionGroupItem, error)
}

type questionGroupRepo struct {
	pool *pgxpool.Pool
}

func NewQuestionGroupRepo(pool *pgxpool.Pool) QuestionGroupRepository {
	return &questionGroupRepo{pool: pool}
}

func (r *questionGroupRepo) GetGroupByID(ctx context.Context, groupID int64) (*model.QuestionGroup, error) {
	var g model.QuestionGroup
	err := r.pool.QueryRow(ctx, `SELECT id, title, owner_id, created_at FROM question_groups WHERE id = $1`, groupID).
		Scan(&g.ID, &g.Title, &g.OwnerID, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting question group %d: %w", groupID, err)
	}
	return &g, nil
}

func (r *questionGroupRepo) GetItemsByGroup(ctx context.Context, groupID int64) ([]model.QuestionGroupItem, error) {
	query := `
		SELECT id, group_id, position, difficulty, prompt, analysis
		FROM question_group_items
		WHERE group_id = $1
		ORDER BY position, id`
	rows, err := r.pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("querying items of question group %d: %w", groupID, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[model.QuestionGroupItem])
	if err != nil {
		return nil, fmt.Errorf("scanning items of question group %d: %w", groupID, err)
	}
	return items, nil
}
