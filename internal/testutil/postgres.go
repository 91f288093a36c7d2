package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var errMissingDSN = errors.New("missing TEST_DATABASE_URL")

var (
	poolOnce sync.Once
	pool     *pgxpool.Pool
	poolErr  error
)

// migrationsDir locates the repository's migrations directory from this file.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Pool returns a pool for TEST_DATABASE_URL with the schema applied, or
// skips the test when the variable is unset.
func Pool(tb testing.TB) *pgxpool.Pool {
	tb.Helper()

	poolOnce.Do(func() {
		dsn := os.Getenv("TEST_DATABASE_URL")
		if dsn == "" {
			poolErr = errMissingDSN
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, poolErr = pgxpool.New(ctx, dsn)
		if poolErr != nil {
			return
		}
		files, err := filepath.Glob(filepath.Join(migrationsDir(), "*.sql"))
		if err != nil {
			poolErr = err
			return
		}
		for _, f := range files {
			sql, err := os.ReadFile(f)
			if err != nil {
				poolErr = err
				return
			}
			if _, err := pool.Exec(ctx, string(sql)); err != nil {
				poolErr = err
				return
			}
		}
	})

	if errors.Is(poolErr, errMissingDSN) {
		tb.Skip("set TEST_DATABASE_URL to run repository integration tests")
	}
	if poolErr != nil {
		tb.Fatalf("failed to init test db: %v", poolErr)
	}
	Truncate(tb, pool)
	return pool
}

// Truncate empties every table so each test starts clean.
func Truncate(tb testing.TB, p *pgxpool.Pool) {
	tb.Helper()
	const q = `TRUNCATE enrollments, review_tasks, sections, chapters, question_group_items,
		question_groups, media, courses, user_profiles RESTART IDENTITY CASCADE`
	if _, err := p.Exec(context.Background(), q); err != nil {
		tb.Fatalf("truncate: %v", err)
	}
}

// SeedUser inserts a profile with the given role.
func SeedUser(tb testing.TB, p *pgxpool.Pool, userID, role string) {
	tb.Helper()
	_, err := p.Exec(context.Background(),
		`INSERT INTO user_profiles (user_id, name, email, role) VALUES ($1, $1, $1 || '@example.com', $2)`, userID, role)
	if err != nil {
		tb.Fatalf("seed user %s: %v", userID, err)
	}
}

// SeedMedia inserts a media record and returns its id.
func SeedMedia(tb testing.TB, p *pgxpool.Pool, kind, storagePath string) int64 {
	tb.Helper()
	var id int64
	err := p.QueryRow(context.Background(),
		`INSERT INTO media (kind, title, storage_path, owner_id) VALUES ($1, $2, $2, 'seed') RETURNING id`, kind, storagePath).Scan(&id)
	if err != nil {
		tb.Fatalf("seed media: %v", err)
	}
	return id
}

// SeedQuestionGroup inserts a group with one item per difficulty and returns its id.
func SeedQuestionGroup(tb testing.TB, p *pgxpool.Pool, title string, difficulties ...int) int64 {
	tb.Helper()
	ctx := context.Background()
	var id int64
	if err := p.QueryRow(ctx, `INSERT INTO question_groups (title, owner_id) VALUES ($1, 'seed') RETURNING id`, title).Scan(&id); err != nil {
		tb.Fatalf("seed question group: %v", err)
	}
	for i, d := range difficulties {
		_, err := p.Exec(ctx, `INSERT INTO question_group_items (group_id, position, difficulty, prompt, analysis)
			VALUES ($1, $2, $3, 'question', 'because')`, id, i, d)
		if err != nil {
			tb.Fatalf("seed question item: %v", err)
		}
	}
	return id
}

// SeedEnrollment records a purchase.
func SeedEnrollment(tb testing.TB, p *pgxpool.Pool, userID string, courseID int64) {
	tb.Helper()
	if _, err := p.Exec(context.Background(), `INSERT INTO enrollments (user_id, course_id) VALUES ($1, $2)`, userID, courseID); err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
}
