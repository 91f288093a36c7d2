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

// SectionRepository persists sections, their order and their resource binding.
type SectionRepository interface {
	// CreateSection appends the section after the chapter's current last section.
	CreateSection(ctx context.Context, s *model.Section) error
	GetSectionByID(ctx context.Context, sectionID int64) (*model.Section, error)
	GetSectionsByChapter(ctx context.Context, chapterID int64) ([]model.Section, error)
	// GetSectionsByCourse returns the sections of every chapter of the course.
	GetSectionsByCourse(ctx context.Context, courseID int64) ([]model.Section, error)
	// UpdateSection writes the outline fields, content type and binding.
	UpdateSection(ctx context.Context, s *model.Section) error
	DeleteSection(ctx context.Context, sectionID int64) error
	ReorderSections(ctx context.Context, chapterID int64, orderedIDs []int64) error
}

type sectionRepo struct {
	pool *pgxpool.Pool
}

func NewSectionRepo(pool *pgxpool.Pool) SectionRepository {
	return &sectionRepo{pool: pool}
}

const sectionColumns = `s.id, s.chapter_id, s.title, s.description, s.order_index, s.access_type, s.content_type,
	s.estimated_minutes, s.resource_kind, s.media_id, s.media_role, s.question_group_id,
	s.quiz_random_order, s.quiz_order_by_difficulty, s.quiz_show_analysis, s.created_at, s.updated_at`

func scanSection(row pgx.Row) (*model.Section, error) {
	var (
		s          model.Section
		accessType *string
		cols       course.BindingColumns
	)
	if err := row.Scan(
		&s.ID, &s.ChapterID, &s.Title, &s.Description, &s.OrderIndex, &accessType, &s.ContentType,
		&s.EstimatedMinutes, &cols.Kind, &cols.MediaID, &cols.MediaRole, &cols.QuestionGroupID,
		&cols.Options.RandomOrder, &cols.Options.OrderByDifficulty, &cols.Options.ShowAnalysis, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if accessType != nil {
		s.AccessType = model.AccessType(*accessType)
	}
	binding, err := course.DecodeBinding(cols)
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", s.ID, err)
	}
	s.Binding = binding
	return &s, nil
}

func collectSections(rows pgx.Rows) ([]model.Section, error) {
	defer rows.Close()
	sections := []model.Section{}
	for rows.Next() {
		s, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, *s)
	}
	return sections, rows.Err()
}

func sectionArgs(s *model.Section) []any {
	cols := course.EncodeBinding(s.Binding)
	return []any{
		s.Title, s.Description, nullableString(string(s.AccessType)), s.ContentType, s.EstimatedMinutes,
		cols.Kind, cols.MediaID, cols.MediaRole, cols.QuestionGroupID,
		cols.Options.RandomOrder, cols.Options.OrderByDifficulty, cols.Options.ShowAnalysis,
	}
}

func (r *sectionRepo) CreateSection(ctx context.Context, s *model.Section) error {
	query := `
		WITH inserted AS (
			INSERT INTO sections (chapter_id, order_index, title, description, access_type, content_type,
				estimated_minutes, resource_kind, media_id, media_role, question_group_id,
				quiz_random_order, quiz_order_by_difficulty, quiz_show_analysis)
			SELECT $1, COALESCE(MAX(order_index) + 1, 0), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
			FROM sections WHERE chapter_id = $1
			RETURNING *
		)
		SELECT ` + sectionColumns + ` FROM inserted s`
	args := append([]any{s.ChapterID}, sectionArgs(s)...)
	created, err := scanSection(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return fmt.Errorf("inserting section for chapter %d: %w", s.ChapterID, err)
	}
	*s = *created
	return nil
}

func (r *sectionRepo) GetSectionByID(ctx context.Context, sectionID int64) (*model.Section, error) {
	s, err := scanSection(r.pool.QueryRow(ctx, `SELECT `+sectionColumns+` FROM sections s WHERE s.id = $1`, sectionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting section %d: %w", sectionID, err)
	}
	return s, nil
}

func (r *sectionRepo) GetSectionsByChapter(ctx context.Context, chapterID int64) ([]model.Section, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+sectionColumns+` FROM sections s WHERE s.chapter_id = $1 ORDER BY s.order_index, s.id`, chapterID)
	if err != nil {
		return nil, fmt.Errorf("querying sections for chapter %d: %w", chapterID, err)
	}
	sections, err := collectSections(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning sections for chapter %d: %w", chapterID, err)
	}
	return sections, nil
}

func (r *sectionRepo) GetSectionsByCourse(ctx context.Context, courseID int64) ([]model.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM sections s
		JOIN chapters c ON c.id = s.chapter_id
		WHERE c.course_id = $1
		ORDER BY c.order_index, c.id, s.order_index, s.id`
	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("querying sections for course %d: %w", courseID, err)
	}
	sections, err := collectSections(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning sections for course %d: %w", courseID, err)
	}
	return sections, nil
}

func (r *sectionRepo) UpdateSection(ctx context.Context, s *model.Section) error {
	query := `
		WITH updated AS (
			UPDATE sections SET title = $2, description = $3, access_type = $4, content_type = $5,
				estimated_minutes = $6, resource_kind = $7, media_id = $8, media_role = $9, question_group_id = $10,
				quiz_random_order = $11, quiz_order_by_difficulty = $12, quiz_show_analysis = $13, updated_at = NOW()
			WHERE id = $1
			RETURNING *
		)
		SELECT ` + sectionColumns + ` FROM updated s`
	args := append([]any{s.ID}, sectionArgs(s)...)
	updated, err := scanSection(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return fmt.Errorf("updating section %d: %w", s.ID, err)
	}
	*s = *updated
	return nil
}

func (r *sectionRepo) DeleteSection(ctx context.Context, sectionID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, sectionID); err != nil {
		return fmt.Errorf("deleting section %d: %w", sectionID, err)
	}
	return nil
}

func (r *sectionRepo) ReorderSections(ctx context.Context, chapterID int64, orderedIDs []int64) error {
	return reorderChildren(ctx, r.pool, "sections", "chapter_id", chapterID, orderedIDs)
}
