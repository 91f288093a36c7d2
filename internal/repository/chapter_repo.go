package repository

import (
	"context"
	"errors"
	"fmt"

	"courseflow/internal/course"
	"courseflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChapterRepository persists chapters and their order within a course.
type ChapterRepository interface {
	// CreateChapter appends the chapter after the course's current last chapter.
	CreateChapter(ctx context.Context, ch *model.Chapter) error
	GetChapterByID(ctx context.Context, chapterID int64) (*model.Chapter, error)
	GetChaptersByCourse(ctx context.Context, courseID int64) ([]model.Chapter, error)
	UpdateChapter(ctx context.Context, ch *model.Chapter) error
	// DeleteChapter removes the chapter and, by cascade, its sections.
	DeleteChapter(ctx context.Context, chapterID int64) error
	// ReorderChapters assigns orderIndex = position for every id in
	// orderedIDs inside one transaction.
	ReorderChapters(ctx context.Context, courseID int64, orderedIDs []int64) error
}

type chapterRepo struct {
	pool *pgxpool.Pool
}

func NewChapterRepo(pool *pgxpool.Pool) ChapterRepository {
	return &chapterRepo{pool: pool}
}

const chapterColumns = `id, course_id, title, description, order_index, access_type, created_at, updated_at`

func scanChapter(row pgx.Row) (*model.Chapter, error) {
	var ch model.Chapter
	if err := row.Scan(&ch.ID, &ch.CourseID, &ch.Title, &ch.Description, &ch.OrderIndex, &ch.AccessType, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (r *chapterRepo) CreateChapter(ctx context.Context, ch *model.Chapter) error {
	query := `
		INSERT INTO chapters (course_id, title, description, order_index, access_type)
		SELECT $1, $2, $3, COALESCE(MAX(order_index) + 1, 0), $4
		FROM chapters WHERE course_id = $1
		RETURNING ` + chapterColumns
	created, err := scanChapter(r.pool.QueryRow(ctx, query, ch.CourseID, ch.Title, ch.Description, ch.AccessType))
	if err != nil {
		return fmt.Errorf("inserting chapter for course %d: %w", ch.CourseID, err)
	}
	*ch = *created
	return nil
}

func (r *chapterRepo) GetChapterByID(ctx context.Context, chapterID int64) (*model.Chapter, error) {
	ch, err := scanChapter(r.pool.QueryRow(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE id = $1`, chapterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting chapter %d: %w", chapterID, err)
	}
	return ch, nil
}

func (r *chapterRepo) GetChaptersByCourse(ctx context.Context, courseID int64) ([]model.Chapter, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+chapterColumns+` FROM chapters WHERE course_id = $1 ORDER BY order_index, id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying chapters for course %d: %w", courseID, err)
	}
	defer rows.Close()

	chapters := []model.Chapter{}
	for rows.Next() {
		ch, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning chapter for course %d: %w", courseID, err)
		}
		chapters = append(chapters, *ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chapters for course %d: %w", courseID, err)
	}
	return chapters, nil
}

func (r *chapterRepo) UpdateChapter(ctx context.Context, ch *model.Chapter) error {
	query := `
		UPDATE chapters SET title = $1, description = $2, access_type = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + chapterColumns
	updated, err := scanChapter(r.pool.QueryRow(ctx, query, ch.Title, ch.Description, ch.AccessType, ch.ID))
	if err != nil {
		return fmt.Errorf("updating chapter %d: %w", ch.ID, err)
	}
	*ch = *updated
	return nil
}

func (r *chapterRepo) DeleteChapter(ctx context.Context, chapterID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM chapters WHERE id = $1`, chapterID); err != nil {
		return fmt.Errorf("deleting chapter %d: %w", chapterID, err)
	}
	return nil
}

func (r *chapterRepo) ReorderChapters(ctx context.Context, courseID int64, orderedIDs []int64) error {
	return reorderChildren(ctx, r.pool, "chapters", "course_id", courseID, orderedIDs)
}

// reorderChildren locks the parent's child rows, checks orderedIDs against
// them and rewrites every order_index in one statement. The unique
// (parent, order_index) constraints are deferred, so swaps commit cleanly.
func reorderChildren(ctx context.Context, pool *pgxpool.Pool, table, parentColumn string, parentID int64, orderedIDs []int64) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("starting transaction for %s reorder: %w", table, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	lockQ := fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1 ORDER BY order_index, id FOR UPDATE`, table, parentColumn)
	rows, err := tx.Query(ctx, lockQ, parentID)
	if err != nil {
		return fmt.Errorf("locking %s of %d: %w", table, parentID, err)
	}
	current, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("reading %s of %d: %w", table, parentID, err)
	}

	plan, err := course.PlanReorder(current, orderedIDs)
	if err != nil {
		return err
	}

	ids := make([]int64, 0, len(plan))
	positions := make([]int32, 0, len(plan))
	for _, id := range orderedIDs {
		ids = append(ids, id)
		positions = append(positions, int32(plan[id]))
	}

	updateQ := fmt.Sprintf(`
		UPDATE %[1]s AS t SET order_index = u.idx, updated_at = NOW()
		FROM unnest($1::bigint[], $2::int[]) AS u(id, idx)
		WHERE t.id = u.id AND t.%[2]s = $3`, table, parentColumn)
	if _, err := tx.Exec(ctx, updateQ, ids, positions, parentID); err != nil {
		return fmt.Errorf("updating %s order of %d: %w", table, parentID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing %s reorder of %d: %w", table, parentID, err)
	}
	return nil
}
