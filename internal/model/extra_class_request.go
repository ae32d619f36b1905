package model

import (
	"fmt"
	"time"
)

type RequestStatus string

// Request status constants
const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// Layouts of the preferred date and the availability window.
const (
	DateLayout      = "2006-01-02"
	ClockTimeLayout = "15:04"
)

// ExtraClassRequest is a student's ask for an additional lesson.
// It leaves PENDING exactly once.
type ExtraClassRequest struct {
	ID              int64         `json:"id"`
	StudentID       int64         `json:"studentId"`
	CourseID        int64         `json:"courseId"`
	PreferredDate   time.Time     `json:"preferredDate"`
	AvailableFrom   string        `json:"availableFrom"`
	AvailableTo     string        `json:"availableTo"`
	Topic           string        `json:"topic"`
	Description     string        `json:"description"`
	Status          RequestStatus `json:"status"`
	RejectionReason string        `json:"rejectionReason"`
	LessonID        *int64        `json:"lessonId"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// IsPending checks if request is pending
func (r *ExtraClassRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// TimeRange renders the availability window, e.g. "14:00 - 16:00".
func (r *ExtraClassRequest) TimeRange() string {
	return r.AvailableFrom + " - " + r.AvailableTo
}

// DefaultSchedule places the lesson at the start of the availability window
// on the preferred date, read as wall-clock time in loc.
func (r *ExtraClassRequest) DefaultSchedule(loc *time.Location) (time.Time, error) {
	clock, err := time.Parse(ClockTimeLayout, r.AvailableFrom)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse available from: %w", err)
	}
	y, m, d := r.PreferredDate.Date()
	return time.Date(y, m, d, clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// ExtraClassRequestView is a request joined with the student and course.
type ExtraClassRequestView struct {
	ExtraClassRequest
	Student *User   `json:"student"`
	Course  *Course `json:"course"`
}
