package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lessonColumns = `l.id, l.course_id, l.title, l.description, l.scheduled_at, l.meet_link, l.recording_link, l.status, l.created_at, l.updated_at`

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

func lessonDest(l *model.Lesson) []any {
	return []any{
		&l.ID,
		&l.CourseID,
		&l.Title,
		&l.Description,
		&l.ScheduledAt,
		&l.MeetLink,
		&l.RecordingLink,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	}
}

// insertLesson is shared with the extra class approval transaction.
func insertLesson(ctx context.Context, db base.DBTX, lesson *model.Lesson) error {
	if lesson.Status == "" {
		lesson.Status = model.LessonStatusScheduled
	}

	query := `
		INSERT INTO lessons (course_id, title, description, scheduled_at, meet_link, recording_link, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := db.QueryRow(
		ctx, query,
		lesson.CourseID,
		lesson.Title,
		lesson.Description,
		lesson.ScheduledAt.UTC(),
		lesson.MeetLink,
		lesson.RecordingLink,
		lesson.Status,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// Create inserts a lesson
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	return insertLesson(ctx, r.Pool(), lesson)
}

// GetByID returns the lesson or nil when missing
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l WHERE l.id = $1`

	var lesson model.Lesson
	if err := r.Pool().QueryRow(ctx, query, id).Scan(lessonDest(&lesson)...); err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	return &lesson, nil
}

// Update stores every mutable lesson field
func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $1, description = $2, scheduled_at = $3, meet_link = $4,
			recording_link = $5, status = $6, updated_at = now()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.Pool().QueryRow(
		ctx, query,
		lesson.Title,
		lesson.Description,
		lesson.ScheduledAt.UTC(),
		lesson.MeetLink,
		lesson.RecordingLink,
		lesson.Status,
		lesson.ID,
	).Scan(&lesson.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update lesson: %w", err)
	}

	return nil
}

// ListByCourse returns a course's lessons, latest first
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID int64) ([]*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l WHERE l.course_id = $1 ORDER BY l.scheduled_at DESC, l.id DESC`

	rows, err := r.Pool().Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list course lessons: %w", err)
	}
	defer rows.Close()

	lessons, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Lesson, error) {
		var l model.Lesson
		err := row.Scan(lessonDest(&l)...)
		return &l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan course lessons: %w", err)
	}

	return lessons, nil
}

// LessonFilter narrows lesson listings joined with their course.
type LessonFilter struct {
	From       *time.Time
	To         *time.Time
	Status     model.LessonStatus
	Descending bool
	Limit      int
}

// ListWithCourse returns lessons joined with their course, ordered by scheduled time
func (r *LessonRepository) ListWithCourse(ctx context.Context, f LessonFilter) ([]*model.LessonWithCourse, error) {
	query := `SELECT ` + lessonColumns + `, ` + courseColumns + `
		FROM lessons l
		JOIN courses c ON c.id = l.course_id
		WHERE ($1::timestamptz IS NULL OR l.scheduled_at >= $1)
		  AND ($2::timestamptz IS NULL OR l.scheduled_at <= $2)
		  AND ($3::text = '' OR l.status = $3::text)
	`
	if f.Descending {
		query += ` ORDER BY l.scheduled_at DESC, l.id DESC`
	} else {
		query += ` ORDER BY l.scheduled_at ASC, l.id ASC`
	}
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := r.Pool().Query(ctx, query, f.From, f.To, string(f.Status))
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*model.LessonWithCourse
	for rows.Next() {
		l := &model.LessonWithCourse{Course: &model.Course{}}
		dest := append(lessonDest(&l.Lesson), courseDest(l.Course)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lessons: %w", err)
	}

	return lessons, nil
}
