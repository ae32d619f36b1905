package delivery

import "fmt"

type LessonData struct {
	StudentName   string
	LessonTitle   string
	CourseName    string
	ScheduledAt   string
	MeetLink      string
	RecordingLink string
	Status        string
}

type ResourceData struct {
	StudentName   string
	ResourceTitle string
	CourseName    string
	ResourceType  string
}

type RequestData struct {
	StudentName   string
	CourseName    string
	Topic         string
	PreferredDate string
	TimeRange     string
}

type DecisionData struct {
	StudentName     string
	CourseName      string
	Topic           string
	Approved        bool
	ScheduledAt     string
	MeetLink        string
	RejectionReason string
}

func (d DecisionData) StatusText() string {
	if d.Approved {
		return "Approved"
	}
	return "Rejected"
}

func (d DecisionData) StatusWord() string {
	if d.Approved {
		return "approved"
	}
	return "rejected"
}

func LessonScheduled(to Recipient, d LessonData) *Message {
	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("New Class: %s - %s", d.LessonTitle, d.CourseName),
		Template: TemplateLessonScheduled,
		Data:     d,
	}
}

func LessonRescheduled(to Recipient, d LessonData) *Message {
	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("Class Rescheduled: %s - %s", d.LessonTitle, d.CourseName),
		Template: TemplateLessonRescheduled,
		Data:     d,
	}
}

func LessonUpdated(to Recipient, d LessonData) *Message {
	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("Lesson Updated: %s - %s", d.LessonTitle, d.CourseName),
		Template: TemplateLessonUpdated,
		Data:     d,
	}
}

func ResourceAdded(to Recipient, d ResourceData) *Message {
	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("New Resource: %s - %s", d.ResourceTitle, d.CourseName),
		Template: TemplateResourceAdded,
		Data:     d,
	}
}

func ExtraClassRequested(to Recipient, d RequestData) *Message {
	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("Extra Class Request: %s - %s", d.Topic, d.CourseName),
		Template: TemplateExtraClassRequest,
		Data:     d,
	}
}

func ExtraClassDecision(to Recipient, d DecisionData) *Message {
	return &Message{
		To:       to,
		Subject:  fmt.Sprintf("Extra Class %s: %s - %s", d.StatusText(), d.Topic, d.CourseName),
		Template: TemplateExtraClassDecision,
		Data:     d,
	}
}
