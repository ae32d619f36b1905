package model

import (
	"fmt"
	"time"
)

type LessonStatus string

const (
	LessonStatusScheduled LessonStatus = "SCHEDULED"
	LessonStatusCompleted LessonStatus = "COMPLETED"
	LessonStatusCancelled LessonStatus = "CANCELLED"
)

// ParseLessonStatus converts an untyped value into a LessonStatus.
func ParseLessonStatus(s string) (LessonStatus, error) {
	switch LessonStatus(s) {
	case LessonStatusScheduled, LessonStatusCompleted, LessonStatusCancelled:
		return LessonStatus(s), nil
	}
	return "", fmt.Errorf("unknown lesson status %q", s)
}

// ExtraLessonPrefix marks lessons created from approved extra class requests.
const ExtraLessonPrefix = "[Extra] "

// LessonDuration is the calendar length of every lesson.
const LessonDuration = time.Hour

type Lesson struct {
	ID            int64        `json:"id"`
	CourseID      int64        `json:"courseId"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	ScheduledAt   time.Time    `json:"scheduledAt"`
	MeetLink      string       `json:"meetLink"`
	RecordingLink string       `json:"recordingLink"`
	Status        LessonStatus `json:"status"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// LessonWithCourse is a lesson joined with its course.
type LessonWithCourse struct {
	Lesson
	Course *Course `json:"course"`
}

// LessonWithResources is a lesson and the resources attached to it.
type LessonWithResources struct {
	Lesson
	Resources []*Resource `json:"resources"`
}
