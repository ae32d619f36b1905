package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentRepository struct {
	*base.Repository
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{Repository: base.NewRepository(pool)}
}

// Create enrolls a user; an existing pair is left as is and reports false
func (r *EnrollmentRepository) Create(ctx context.Context, userID, courseID int64) (bool, error) {
	query := `
		INSERT INTO enrollments (user_id, course_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, course_id) DO NOTHING
	`

	result, err := r.Pool().Exec(ctx, query, userID, courseID)
	if err != nil {
		return false, fmt.Errorf("create enrollment: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

// Exists checks if the user is enrolled in the course
func (r *EnrollmentRepository) Exists(ctx context.Context, userID, courseID int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM enrollments
			WHERE user_id = $1 AND course_id = $2
		)
	`

	var exists bool
	if err := r.Pool().QueryRow(ctx, query, userID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}

	return exists, nil
}

// ListUsersByCourse returns the enrolled users of a course
func (r *EnrollmentRepository) ListUsersByCourse(ctx context.Context, courseID int64) ([]*model.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash, u.role, u.timezone, u.telegram_chat_id, u.created_at
		FROM enrollments e
		JOIN users u ON u.id = e.user_id
		WHERE e.course_id = $1
		ORDER BY e.id
	`

	rows, err := r.Pool().Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrolled user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrolled users: %w", err)
	}

	return users, nil
}

// ListCoursesByUser returns the courses a user is enrolled in
func (r *EnrollmentRepository) ListCoursesByUser(ctx context.Context, userID int64) ([]*model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM enrollments e
		JOIN courses c ON c.id = e.course_id
		WHERE e.user_id = $1
		ORDER BY c.id
	`

	rows, err := r.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(courseDest(&course)...); err != nil {
			return nil, fmt.Errorf("scan enrolled course: %w", err)
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate enrolled courses: %w", err)
	}

	return courses, nil
}
