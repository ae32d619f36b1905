package model

import "time"

// CalendarEvent is the feed item consumed by the calendar widget.
type CalendarEvent struct {
	ID              int64              `json:"id"`
	Title           string             `json:"title"`
	Start           time.Time          `json:"start"`
	End             time.Time          `json:"end"`
	BackgroundColor string             `json:"backgroundColor"`
	BorderColor     string             `json:"borderColor"`
	URL             string             `json:"url"`
	ExtendedProps   CalendarEventProps `json:"extendedProps"`
}

type CalendarEventProps struct {
	CourseTitle string       `json:"courseTitle"`
	LessonTitle string       `json:"lessonTitle"`
	Status      LessonStatus `json:"status"`
	MeetLink    string       `json:"meetLink"`
}

// NewCalendarEvent builds the feed item of a lesson.
func NewCalendarEvent(l *LessonWithCourse) CalendarEvent {
	return CalendarEvent{
		ID:              l.ID,
		Title:           l.Course.Title + ": " + l.Title,
		Start:           l.ScheduledAt,
		End:             l.ScheduledAt.Add(LessonDuration),
		BackgroundColor: l.Course.Color,
		BorderColor:     l.Course.Color,
		URL:             l.Course.Link(),
		ExtendedProps: CalendarEventProps{
			CourseTitle: l.Course.Title,
			LessonTitle: l.Title,
			Status:      l.Status,
			MeetLink:    l.MeetLink,
		},
	}
}
