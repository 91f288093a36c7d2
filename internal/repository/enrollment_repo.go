package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository answers whether a user bought a course. Orders and
// payments are recorded by the payment service into the same table.
type EnrollmentRepository interface {
	HasPurchased(ctx context.Context, userID string, courseID int64) (bool, error)
}

type enrollmentRepo struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepo(pool *pgxpool.Pool) EnrollmentRepository {
	return &enrollmentRepo{pool: pool}
}

func (r *enrollmentRepo) HasPurchased(ctx context.Context, userID string, courseID int64) (bool, error) {
	var purchased bool
	query := `SELECT EXISTS (SELECT 1 FROM enrollments WHERE user_id = $1 AND course_id = $2)`
	if err := r.pool.QueryRow(ctx, query, userID, courseID).Scan(&purchased); err != nil {
		return false, fmt.Errorf("checking enrollment of user %s in course %d: %w", userID, courseID, err)
	}
	return purchased, nil
}
