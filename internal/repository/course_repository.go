package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const courseColumns = `c.id, c.title, c.description, c.slug, c.color, c.created_at`

type CourseRepository struct {
	*base.Repository
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{Repository: base.NewRepository(pool)}
}

func courseDest(c *model.Course) []any {
	return []any{&c.ID, &c.Title, &c.Description, &c.Slug, &c.Color, &c.CreatedAt}
}

// Create inserts a course; a taken slug yields ErrDuplicate
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (title, description, slug, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.Pool().QueryRow(ctx, query, course.Title, course.Description, course.Slug, course.Color).
		Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		if base.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

func (r *CourseRepository) getOne(ctx context.Context, where string, arg any) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c WHERE ` + where

	var course model.Course
	if err := r.Pool().QueryRow(ctx, query, arg).Scan(courseDest(&course)...); err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByID returns the course or nil when missing
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	course, err := r.getOne(ctx, "c.id = $1", id)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}
	return course, nil
}

// GetBySlug returns the course or nil when missing
func (r *CourseRepository) GetBySlug(ctx context.Context, slug string) (*model.Course, error) {
	course, err := r.getOne(ctx, "c.slug = $1", slug)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by slug: %w", err)
	}
	return course, nil
}

// List returns all courses in creation order
func (r *CourseRepository) List(ctx context.Context) ([]*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses c ORDER BY c.id`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	courses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Course, error) {
		var c model.Course
		err := row.Scan(courseDest(&c)...)
		return &c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan courses: %w", err)
	}

	return courses, nil
}

// ListSummaries returns every course with its lesson and resource counts
func (r *CourseRepository) ListSummaries(ctx context.Context) ([]*model.CourseSummary, error) {
	query := `
		SELECT ` + courseColumns + `,
			(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id),
			(SELECT COUNT(*) FROM resources rs WHERE rs.course_id = c.id)
		FROM courses c
		ORDER BY c.id
	`

	rows, err := r.Pool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list course summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*model.CourseSummary
	for rows.Next() {
		var s model.CourseSummary
		dest := append(courseDest(&s.Course), &s.LessonCount, &s.ResourceCount)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan course summary: %w", err)
		}
		summaries = append(summaries, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate course summaries: %w", err)
	}

	return summaries, nil
}
