package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const requestColumns = `r.id, r.student_id, r.course_id, r.preferred_date, r.available_from, r.available_to,
	r.topic, r.description, r.status, r.rejection_reason, r.lesson_id, r.created_at, r.updated_at`

type ExtraClassRequestRepository struct {
	*base.Repository
}

func NewExtraClassRequestRepository(pool *pgxpool.Pool) *ExtraClassRequestRepository {
	return &ExtraClassRequestRepository{Repository: base.NewRepository(pool)}
}

func requestDest(r *model.ExtraClassRequest) []any {
	return []any{
		&r.ID,
		&r.StudentID,
		&r.CourseID,
		&r.PreferredDate,
		&r.AvailableFrom,
		&r.AvailableTo,
		&r.Topic,
		&r.Description,
		&r.Status,
		&r.RejectionReason,
		&r.LessonID,
		&r.CreatedAt,
		&r.UpdatedAt,
	}
}

// Create inserts a pending request
func (r *ExtraClassRequestRepository) Create(ctx context.Context, req *model.ExtraClassRequest) error {
	req.Status = model.RequestStatusPending

	query := `
		INSERT INTO extra_class_requests
			(student_id, course_id, preferred_date, available_from, available_to, topic, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.Pool().QueryRow(
		ctx, query,
		req.StudentID,
		req.CourseID,
		req.PreferredDate,
		req.AvailableFrom,
		req.AvailableTo,
		req.Topic,
		req.Description,
		req.Status,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create extra class request: %w", err)
	}

	return nil
}

// GetByID returns the request or nil when missing
func (r *ExtraClassRequestRepository) GetByID(ctx context.Context, id int64) (*model.ExtraClassRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM extra_class_requests r WHERE r.id = $1`

	var req model.ExtraClassRequest
	if err := r.Pool().QueryRow(ctx, query, id).Scan(requestDest(&req)...); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get extra class request: %w", err)
	}

	return &req, nil
}

// ListByStudent returns the student's requests, newest first
func (r *ExtraClassRequestRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.ExtraClassRequestView, error) {
	return r.listViews(ctx, `WHERE r.student_id = $1`, studentID)
}

// ListAll returns every request, newest first
func (r *ExtraClassRequestRepository) ListAll(ctx context.Context) ([]*model.ExtraClassRequestView, error) {
	return r.listViews(ctx, ``)
}

func (r *ExtraClassRequestRepository) listViews(ctx context.Context, where string, args ...any) ([]*model.ExtraClassRequestView, error) {
	query := `SELECT ` + requestColumns + `, ` + courseColumns + `,
			u.id, u.name, u.email, u.role, u.timezone
		FROM extra_class_requests r
		JOIN courses c ON c.id = r.course_id
		JOIN users u ON u.id = r.student_id
		` + where + `
		ORDER BY r.created_at DESC, r.id DESC
	`

	rows, err := r.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list extra class requests: %w", err)
	}
	defer rows.Close()

	views, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.ExtraClassRequestView, error) {
		v := &model.ExtraClassRequestView{Student: &model.User{}, Course: &model.Course{}}
		dest := append(requestDest(&v.ExtraClassRequest), courseDest(v.Course)...)
		dest = append(dest, &v.Student.ID, &v.Student.Name, &v.Student.Email, &v.Student.Role, &v.Student.Timezone)
		err := row.Scan(dest...)
		return v, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan extra class requests: %w", err)
	}

	return views, nil
}

// Approve creates the lesson and resolves the request in one transaction.
// A request that is no longer pending yields ErrNotPending and nothing is written.
func (r *ExtraClassRequestRepository) Approve(ctx context.Context, id int64, lesson *model.Lesson) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := insertLesson(ctx, tx, lesson); err != nil {
			return err
		}

		affected, err := base.ExecAffected(ctx, tx, `
			UPDATE extra_class_requests
			SET status = $1, lesson_id = $2, updated_at = now()
			WHERE id = $3 AND status = $4
		`, model.RequestStatusApproved, lesson.ID, id, model.RequestStatusPending)
		if err != nil {
			return fmt.Errorf("approve extra class request: %w", err)
		}
		if affected == 0 {
			return ErrNotPending
		}
		return nil
	})
}

// Reject resolves a pending request with an optional reason
func (r *ExtraClassRequestRepository) Reject(ctx context.Context, id int64, reason string) error {
	affected, err := base.ExecAffected(ctx, r.Pool(), `
		UPDATE extra_class_requests
		SET status = $1, rejection_reason = $2, updated_at = now()
		WHERE id = $3 AND status = $4
	`, model.RequestStatusRejected, reason, id, model.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("reject extra class request: %w", err)
	}
	if affected == 0 {
		return ErrNotPending
	}
	return nil
}
