package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const resourceColumns = `rs.id, rs.course_id, rs.lesson_id, rs.title, rs.type, rs.url, rs.created_at`

type ResourceRepository struct {
	*base.Repository
}

func NewResourceRepository(pool *pgxpool.Pool) *ResourceRepository {
	return &ResourceRepository{Repository: base.NewRepository(pool)}
}

func resourceDest(r *model.Resource) []any {
	return []any{&r.ID, &r.CourseID, &r.LessonID, &r.Title, &r.Type, &r.URL, &r.CreatedAt}
}

// Create inserts a resource
func (r *ResourceRepository) Create(ctx context.Context, res *model.Resource) error {
	query := `
		INSERT INTO resources (course_id, lesson_id, title, type, url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.Pool().QueryRow(ctx, query, res.CourseID, res.LessonID, res.Title, res.Type, res.URL).
		Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		return fmt.Errorf("create resource: %w", err)
	}

	return nil
}

// GetByID returns the resource or nil when missing
func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources rs WHERE rs.id = $1`

	var res model.Resource
	if err := r.Pool().QueryRow(ctx, query, id).Scan(resourceDest(&res)...); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}

	return &res, nil
}

// SetLesson attaches the resource to a lesson, or to the general list when lessonID is nil
func (r *ResourceRepository) SetLesson(ctx context.Context, id int64, lessonID *int64) error {
	affected, err := base.ExecAffected(ctx, r.Pool(), `UPDATE resources SET lesson_id = $1 WHERE id = $2`, lessonID, id)
	if err != nil {
		return fmt.Errorf("move resource: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByCourse returns every resource of a course, newest first
func (r *ResourceRepository) ListByCourse(ctx context.Context, courseID int64) ([]*model.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources rs WHERE rs.course_id = $1 ORDER BY rs.created_at DESC, rs.id DESC`

	rows, err := r.Pool().Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course resources: %w", err)
	}
	defer rows.Close()

	resources, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Resource, error) {
		var res model.Resource
		err := row.Scan(resourceDest(&res)...)
		return &res, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan course resources: %w", err)
	}

	return resources, nil
}

// ListRecent returns the latest resources across courses
func (r *ResourceRepository) ListRecent(ctx context.Context, limit int) ([]*model.ResourceWithCourse, error) {
	query := `SELECT ` + resourceColumns + `, ` + courseColumns + `
		FROM resources rs
		JOIN courses c ON c.id = rs.course_id
		ORDER BY rs.created_at DESC, rs.id DESC
		LIMIT $1
	`

	rows, err := r.Pool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent resources: %w", err)
	}
	defer rows.Close()

	var resources []*model.ResourceWithCourse
	for rows.Next() {
		res := &model.ResourceWithCourse{Course: &model.Course{}}
		dest := append(resourceDest(&res.Resource), courseDest(res.Course)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan recent resource: %w", err)
		}
		resources = append(resources, res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent resources: %w", err)
	}

	return resources, nil
}
