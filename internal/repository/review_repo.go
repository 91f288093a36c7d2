package repository

import (
	"context"
	"fmt"

	"courseflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewRepository keeps a course's status and its review task in step.
// Every method changes both rows in one transaction.
type ReviewRepository interface {
	// OpenReview saves the submitted course and inserts a pending task.
	OpenReview(ctx context.Context, c *model.Course, from model.CourseStatus) (*model.ReviewTask, error)
	// StartReview saves the course and stamps the open task with the reviewer.
	StartReview(ctx context.Context, c *model.Course, from model.CourseStatus) (*model.ReviewTask, error)
	// CloseReview saves the course and records the decision on the open task.
	CloseReview(ctx context.Context, c *model.Course, from model.CourseStatus, decision model.ReviewDecision, comment string) (*model.ReviewTask, error)
	// GetOpenTasks lists pending tasks, oldest submission first.
	GetOpenTasks(ctx context.Context, limit, offset int) ([]model.ReviewTask, error)
	// GetTasksByCourse lists every task of a course, newest first.
	GetTasksByCourse(ctx context.Context, courseID int64) ([]model.ReviewTask, error)
}

type reviewRepo struct {
	pool *pgxpool.Pool
}

func NewReviewRepo(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepo{pool: pool}
}

const reviewTaskColumns = `id, course_id, submitted_at, reviewer_id, started_at, decision, comment, decided_at`

func scanReviewTask(row pgx.Row) (*model.ReviewTask, error) {
	var (
		t          model.ReviewTask
		reviewerID *string
	)
	if err := row.Scan(&t.ID, &t.CourseID, &t.SubmittedAt, &reviewerID, &t.StartedAt, &t.Decision, &t.Comment, &t.DecidedAt); err != nil {
		return nil, err
	}
	if reviewerID != nil {
		t.ReviewerID = *reviewerID
	}
	return &t, nil
}

// inTx runs fn inside a transaction that is committed only when fn succeeds.
func (r *reviewRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting review transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing review transaction: %w", err)
	}
	return nil
}

func (r *reviewRepo) OpenReview(ctx context.Context, c *model.Course, from model.CourseStatus) (*model.ReviewTask, error) {
	var task *model.ReviewTask
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateCourseStatus(ctx, tx, c, from); err != nil {
			return err
		}
		query := `INSERT INTO review_tasks (course_id, submitted_at) VALUES ($1, $2) RETURNING ` + reviewTaskColumns
		t, err := scanReviewTask(tx.QueryRow(ctx, query, c.ID, c.SubmittedAt))
		if err != nil {
			return fmt.Errorf("opening review task for course %d: %w", c.ID, err)
		}
		task = t
		return nil
	})
	return task, err
}

func (r *reviewRepo) StartReview(ctx context.Context, c *model.Course, from model.CourseStatus) (*model.ReviewTask, error) {
	var task *model.ReviewTask
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateCourseStatus(ctx, tx, c, from); err != nil {
			return err
		}
		query := `
			UPDATE review_tasks SET reviewer_id = $2, started_at = $3
			WHERE course_id = $1 AND decision = 'pending'
			RETURNING ` + reviewTaskColumns
		t, err := scanReviewTask(tx.QueryRow(ctx, query, c.ID, c.ReviewerID, c.ReviewStartedAt))
		if err != nil {
			return fmt.Errorf("starting review task for course %d: %w", c.ID, err)
		}
		task = t
		return nil
	})
	return task, err
}

func (r *reviewRepo) CloseReview(ctx context.Context, c *model.Course, from model.CourseStatus, decision model.ReviewDecision, comment string) (*model.ReviewTask, error) {
	var task *model.ReviewTask
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if err := updateCourseStatus(ctx, tx, c, from); err != nil {
			return err
		}
		query := `
			UPDATE review_tasks
			SET reviewer_id = $2, started_at = COALESCE(started_at, $3), decision = $4, comment = $5, decided_at = $3
			WHERE course_id = $1 AND decision = 'pending'
			RETURNING ` + reviewTaskColumns
		t, err := scanReviewTask(tx.QueryRow(ctx, query, c.ID, c.ReviewerID, c.ReviewedAt, decision, comment))
		if err != nil {
			return fmt.Errorf("closing review task for course %d: %w", c.ID, err)
		}
		task = t
		return nil
	})
	return task, err
}

func (r *reviewRepo) GetOpenTasks(ctx context.Context, limit, offset int) ([]model.ReviewTask, error) {
	query := `SELECT ` + reviewTaskColumns + ` FROM review_tasks WHERE decision = 'pending' ORDER BY submitted_at, id LIMIT $1 OFFSET $2`
	return r.queryTasks(ctx, "open review tasks", query, limit, offset)
}

func (r *reviewRepo) GetTasksByCourse(ctx context.Context, courseID int64) ([]model.ReviewTask, error) {
	query := `SELECT ` + reviewTaskColumns + ` FROM review_tasks WHERE course_id = $1 ORDER BY submitted_at DESC, id DESC`
	return r.queryTasks(ctx, fmt.Sprintf("review tasks for course %d", courseID), query, courseID)
}

func (r *reviewRepo) queryTasks(ctx context.Context, what, query string, args ...any) ([]model.ReviewTask, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", what, err)
	}
	defer rows.Close()
	tasks := []model.ReviewTask{}
	for rows.Next() {
		t, err := scanReviewTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", what, err)
	}
	return tasks, nil
}
