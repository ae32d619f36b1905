package delivery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMessage_RenderTemplates(t *testing.T) {
	SetBaseURL("https://courses.test/")
	to := Recipient{Name: "Ann", Email: "ann@test.io"}

	tests := []struct {
		name     string
		msg      *Message
		subject  string
		contains []string
		excludes []string
	}{
		{
			name: "lesson scheduled",
			msg: LessonScheduled(to, LessonData{
				StudentName: "Ann", LessonTitle: "Intro", CourseName: "Backend Development",
				ScheduledAt: "Friday, March 1, 2024 at 2:00 PM UTC", MeetLink: "https://meet.test/abc",
			}),
			subject:  "New Class: Intro - Backend Development",
			contains: []string{"New Class Scheduled", "Hi Ann", "Friday, March 1, 2024 at 2:00 PM UTC", `href="https://meet.test/abc"`},
		},
		{
			name:     "lesson scheduled without meet link",
			msg:      LessonScheduled(to, LessonData{StudentName: "Ann", LessonTitle: "Intro", CourseName: "Backend"}),
			subject:  "New Class: Intro - Backend",
			excludes: []string{"Meet Link"},
		},
		{
			name:     "rescheduled",
			msg:      LessonRescheduled(to, LessonData{LessonTitle: "Intro", CourseName: "Backend", ScheduledAt: "later"}),
			subject:  "Class Rescheduled: Intro - Backend",
			contains: []string{"New Time:</strong> later"},
		},
		{
			name:     "recording added",
			msg:      LessonUpdated(to, LessonData{LessonTitle: "Intro", CourseName: "Backend", RecordingLink: "https://rec.test/1"}),
			subject:  "Lesson Updated: Intro - Backend",
			contains: []string{"Watch Recording"},
			excludes: []string{"Status:"},
		},
		{
			name:     "status changed",
			msg:      LessonUpdated(to, LessonData{LessonTitle: "Intro", CourseName: "Backend", Status: "COMPLETED"}),
			subject:  "Lesson Updated: Intro - Backend",
			contains: []string{"<strong>Status:</strong> COMPLETED"},
		},
		{
			name:     "resource added",
			msg:      ResourceAdded(to, ResourceData{ResourceTitle: "Slides", CourseName: "Backend", ResourceType: "PDF"}),
			subject:  "New Resource: Slides - Backend",
			contains: []string{"<strong>Type:</strong> PDF"},
		},
		{
			name:     "extra class request",
			msg:      ExtraClassRequested(to, RequestData{StudentName: "Ann", CourseName: "Backend", Topic: "Channels", PreferredDate: "2024-03-01", TimeRange: "14:00 - 16:00"}),
			subject:  "Extra Class Request: Channels - Backend",
			contains: []string{"14:00 - 16:00", "admin panel"},
		},
		{
			name:     "approved",
			msg:      ExtraClassDecision(to, DecisionData{CourseName: "Backend", Topic: "Channels", Approved: true, ScheduledAt: "soon"}),
			subject:  "Extra Class Approved: Channels - Backend",
			contains: []string{"Extra Class Request Approved", "#10B981", "See you in class!"},
		},
		{
			name:     "rejected with reason",
			msg:      ExtraClassDecision(to, DecisionData{CourseName: "Backend", Topic: "Channels", RejectionReason: "Fully booked"}),
			subject:  "Extra Class Rejected: Channels - Backend",
			contains: []string{"rejected", "Fully booked", "submit another request"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.msg.Link = "/courses/backend"
			require.NoError(t, tt.msg.Render())
			assert.Equal(t, tt.subject, tt.msg.Subject)
			assert.Contains(t, tt.msg.HTML, "https://courses.test/courses/backend")
			for _, s := range tt.contains {
				assert.Contains(t, tt.msg.HTML, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, tt.msg.HTML, s)
			}
		})
	}
}

func TestMessage_RenderEscapesHTML(t *testing.T) {
	msg := ResourceAdded(Recipient{}, ResourceData{ResourceTitle: "<script>alert(1)</script>"})
	require.NoError(t, msg.Render())
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestMessage_RenderUnknownTemplate(t *testing.T) {
	msg := &Message{Template: "missing"}
	assert.Error(t, msg.Render())
}

func TestSendgridChannel_Prepare(t *testing.T) {
	c := NewSendgridChannel("key", "CourseApp", "noreply@courseapp.com")
	msg := &Message{To: Recipient{Name: "Ann", Email: "ann@test.io"}, Subject: "Hello", Text: "hi", HTML: "<p>hi</p>"}

	m := c.prepare(msg)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "Hello", m.Personalizations[0].Subject)
	assert.Equal(t, "ann@test.io", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "noreply@courseapp.com", m.From.Address)
	require.Len(t, m.Content, 2)
	assert.Equal(t, "text/html", m.Content[1].Type)
}

func TestSendgridChannel_SkipsWithoutAddress(t *testing.T) {
	c := NewSendgridChannel("key", "CourseApp", "noreply@courseapp.com")
	assert.ErrorIs(t, c.Send(context.Background(), &Message{}), ErrSkipped)
}

func useSendgridHost(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	prev := sendgridHost
	sendgridHost = srv.URL
	t.Cleanup(func() {
		sendgridHost = prev
		srv.Close()
	})
}

func TestSendgridChannel_Send(t *testing.T) {
	var auth, path string
	useSendgridHost(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	})

	c := NewSendgridChannel("key", "CourseApp", "noreply@courseapp.com")
	err := c.Send(context.Background(), &Message{To: Recipient{Name: "Ann", Email: "ann@test.io"}, Subject: "Hello", Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer key", auth)
	assert.Equal(t, sendgridEndpoint, path)
}

func TestSendgridChannel_SendRejected(t *testing.T) {
	useSendgridHost(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	})

	c := NewSendgridChannel("key", "CourseApp", "noreply@courseapp.com")
	err := c.Send(context.Background(), &Message{To: Recipient{Email: "ann@test.io"}, Subject: "Hello", Text: "hi"})
	assert.ErrorContains(t, err, "sendgrid status 401")
}

func TestSendgridChannel_SendHonoursDeadline(t *testing.T) {
	release := make(chan struct{})
	useSendgridHost(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	// registered after the server cleanup, so it runs first and unblocks the handler
	t.Cleanup(func() { close(release) })

	c := NewSendgridChannel("key", "CourseApp", "noreply@courseapp.com")
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.Send(ctx, &Message{To: Recipient{Email: "ann@test.io"}, Subject: "Hello", Text: "hi"})
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Send ignored the context deadline")
	}
}

type fakeTelegram struct {
	sent []*bot.SendMessageParams
	err  error
}

func (f *fakeTelegram) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.sent = append(f.sent, params)
	return &models.Message{}, f.err
}

func TestTelegramChannel_Send(t *testing.T) {
	SetBaseURL("https://courses.test")
	fake := &fakeTelegram{}
	c := NewTelegramChannel(fake)
	chatID := int64(42)

	err := c.Send(context.Background(), &Message{To: Recipient{}, Text: "hello"})
	assert.ErrorIs(t, err, ErrSkipped)

	err = c.Send(context.Background(), &Message{To: Recipient{TelegramChatID: &chatID}, Text: "New class", Link: "/courses/backend"})
	require.NoError(t, err)
	require.Len(t, fake.sent, 1)
	assert.Equal(t, int64(42), fake.sent[0].ChatID)
	assert.Equal(t, "New class\nhttps://courses.test/courses/backend", fake.sent[0].Text)

	fake.err = errors.New("blocked by user")
	err = c.Send(context.Background(), &Message{To: Recipient{TelegramChatID: &chatID}, Text: "again"})
	assert.ErrorContains(t, err, "blocked by user")
}

func TestConsoleAndNoopChannels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	msg := &Message{To: Recipient{Email: "ann@test.io"}, Subject: "Hi", Text: "text"}

	require.NoError(t, NewConsoleChannel("noreply@courseapp.com", logger).Send(context.Background(), msg))
	assert.ErrorIs(t, NewNoopChannel(logger).Send(context.Background(), msg), ErrSkipped)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Email", entries[0].Message)
	assert.Equal(t, "ann@test.io", entries[0].ContextMap()["to"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.True(t, strings.HasPrefix(entries[1].Message, "Skipping email"))
}
