package repository

import (
	"context"
	"errors"
	"fmt"

	"courseflow/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CourseRepository defines the interface for interacting with course data
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	// GetCourseByID retrieves a course by its ID, or nil when it does not exist
	GetCourseByID(ctx context.Context, courseID int64) (*model.Course, error)
	GetCoursesByCreator(ctx context.Context, creatorID string) ([]model.Course, error)
	// GetCoursesByStatus lists courses in one status, newest first
	GetCoursesByStatus(ctx context.Context, status model.CourseStatus, limit, offset int) ([]model.Course, error)
	// UpdateCourse writes the author editable metadata
	UpdateCourse(ctx context.Context, c *model.Course) error
	// UpdateCourseStatus writes status and review bookkeeping, provided the
	// stored status still equals from. Otherwise ErrStatusConflict.
	UpdateCourseStatus(ctx context.Context, c *model.Course, from model.CourseStatus) error
}

type courseRepo struct {
	pool *pgxpool.Pool
}

// NewCourseRepo creates a new CourseRepository
func NewCourseRepo(pool *pgxpool.Pool) CourseRepository {
	return &courseRepo{pool: pool}
}

const courseColumns = `id, title, description, cover_url, institution_id, creator_id, payment_type, price_cents,
	status, review_comment, submitted_at, review_started_at, reviewed_at, reviewer_id, created_at, updated_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	var (
		c          model.Course
		status     string
		reviewerID *string
	)
	if err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.CoverURL, &c.InstitutionID, &c.CreatorID, &c.PaymentType, &c.PriceCents,
		&status, &c.ReviewComment, &c.SubmittedAt, &c.ReviewStartedAt, &c.ReviewedAt, &reviewerID, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, ok := model.ParseCourseStatus(status)
	if !ok {
		return nil, fmt.Errorf("course %d has unknown status %q", c.ID, status)
	}
	c.Status = parsed
	if reviewerID != nil {
		c.ReviewerID = *reviewerID
	}
	return &c, nil
}

func collectCourses(rows pgx.Rows) ([]model.Course, error) {
	defer rows.Close()
	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateCourse inserts a new course and fills in the generated fields
func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `
		INSERT INTO courses (title, description, cover_url, institution_id, creator_id, payment_type, price_cents, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + courseColumns
	created, err := scanCourse(r.pool.QueryRow(ctx, query,
		c.Title, c.Description, c.CoverURL, c.InstitutionID, c.CreatorID, c.PaymentType, c.PriceCents, c.Status))
	if err != nil {
		return fmt.Errorf("inserting course for user %s: %w", c.CreatorID, err)
	}
	*c = *created
	return nil
}

// GetCourseByID retrieves a course by its ID
func (r *courseRepo) GetCourseByID(ctx context.Context, courseID int64) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	c, err := scanCourse(r.pool.QueryRow(ctx, query, courseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting course %d: %w", courseID, err)
	}
	return c, nil
}

// GetCoursesByCreator retrieves all courses authored by a user
func (r *courseRepo) GetCoursesByCreator(ctx context.Context, creatorID string) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE creator_id = $1 ORDER BY updated_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("querying courses for user %s: %w", creatorID, err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning courses for user %s: %w", creatorID, err)
	}
	return courses, nil
}

func (r *courseRepo) GetCoursesByStatus(ctx context.Context, status model.CourseStatus, limit, offset int) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE status = $1 ORDER BY reviewed_at DESC NULLS LAST, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying %s courses: %w", status, err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning %s courses: %w", status, err)
	}
	return courses, nil
}

// UpdateCourse updates the metadata of an existing course
func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, cover_url = $3, institution_id = $4,
		    payment_type = $5, price_cents = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING ` + courseColumns
	updated, err := scanCourse(r.pool.QueryRow(ctx, query,
		c.Title, c.Description, c.CoverURL, c.InstitutionID, c.PaymentType, c.PriceCents, c.ID))
	if err != nil {
		return fmt.Errorf("updating course %d: %w", c.ID, err)
	}
	*c = *updated
	return nil
}

func (r *courseRepo) UpdateCourseStatus(ctx context.Context, c *model.Course, from model.CourseStatus) error {
	return updateCourseStatus(ctx, r.pool, c, from)
}

// dbtx is the subset of pgxpool.Pool and pgx.Tx used by shared statements.
type dbtx interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func updateCourseStatus(ctx context.Context, db dbtx, c *model.Course, from model.CourseStatus) error {
	query := `
		UPDATE courses
		SET status = $1, review_comment = $2, submitted_at = $3, review_started_at = $4,
		    reviewed_at = $5, reviewer_id = $6, updated_at = $7
		WHERE id = $8 AND status = $9
		RETURNING ` + courseColumns
	updated, err := scanCourse(db.QueryRow(ctx, query,
		c.Status, c.ReviewComment, c.SubmittedAt, c.ReviewStartedAt,
		c.ReviewedAt, nullableString(c.ReviewerID), c.UpdatedAt, c.ID, from))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStatusConflict
		}
		return fmt.Errorf("updating status of course %d: %w", c.ID, err)
	}
	*c = *updated
	return nil
}
