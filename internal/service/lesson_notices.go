package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/formatting"
	"github.com/Freeeeeet/course_app/internal/model"
)

// lessonChange is the kind of lesson event announced to a course.
type lessonChange int

const (
	changeNone lessonChange = iota
	changeScheduled
	changeRescheduled
	changeRecordingAdded
	changeCompleted
)

func (c lessonChange) String() string {
	switch c {
	case changeScheduled:
		return "scheduled"
	case changeRescheduled:
		return "rescheduled"
	case changeRecordingAdded:
		return "recording_added"
	case changeCompleted:
		return "completed"
	default:
		return "none"
	}
}

func (c lessonChange) notificationType() model.NotificationType {
	if c == changeScheduled {
		return model.NotificationLessonScheduled
	}
	return model.NotificationLessonUpdated
}

func (c lessonChange) message(lesson *model.Lesson, course *model.Course) string {
	switch c {
	case changeScheduled:
		return fmt.Sprintf("New class scheduled: %s - %s", lesson.Title, course.Title)
	case changeRescheduled:
		return fmt.Sprintf("Class rescheduled: %s - %s", lesson.Title, course.Title)
	case changeRecordingAdded:
		return fmt.Sprintf("Recording added for: %s - %s", lesson.Title, course.Title)
	default:
		return fmt.Sprintf("Lesson updated: %s - %s", lesson.Title, course.Title)
	}
}

// mail builds the per-recipient email with the lesson time in the recipient's timezone.
func (c lessonChange) mail(lesson *model.Lesson, course *model.Course) MailBuilder {
	return func(u *model.User) *delivery.Message {
		data := delivery.LessonData{
			StudentName:   u.Name,
			LessonTitle:   lesson.Title,
			CourseName:    course.Title,
			ScheduledAt:   formatting.InZone(lesson.ScheduledAt, u.Timezone),
			MeetLink:      lesson.MeetLink,
			RecordingLink: lesson.RecordingLink,
			Status:        string(lesson.Status),
		}
		switch c {
		case changeScheduled:
			return delivery.LessonScheduled(recipientOf(u), data)
		case changeRescheduled:
			return delivery.LessonRescheduled(recipientOf(u), data)
		default:
			return delivery.LessonUpdated(recipientOf(u), data)
		}
	}
}

// classifyLessonChange picks the single announcement for an update.
// Reschedule beats a new recording, which beats completion.
func classifyLessonChange(before, after *model.Lesson) lessonChange {
	switch {
	case before.Title != after.Title ||
		!before.ScheduledAt.Equal(after.ScheduledAt) ||
		before.MeetLink != after.MeetLink:
		return changeRescheduled
	case after.RecordingLink != "" && after.RecordingLink != before.RecordingLink:
		return changeRecordingAdded
	case after.Status == model.LessonStatusCompleted && before.Status != model.LessonStatusCompleted:
		return changeCompleted
	default:
		return changeNone
	}
}

// announceLesson fans a lesson event out to the course enrollees.
func announceLesson(
	ctx context.Context,
	notifier *NotificationService,
	change lessonChange,
	lesson *model.Lesson,
	course *model.Course,
) (int, error) {
	return notifier.NotifyCourseEnrollees(
		ctx,
		course.ID,
		StaticMessage(change.message(lesson, course)),
		change.notificationType(),
		course.Link(),
		change.mail(lesson, course),
	)
}
