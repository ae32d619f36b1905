package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/model"
)

func TestClassifyLessonChange(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	base := model.Lesson{
		Title:       "Intro",
		ScheduledAt: at,
		MeetLink:    "https://meet.example.com/a",
		Status:      model.LessonStatusScheduled,
	}

	tests := []struct {
		name   string
		mutate func(*model.Lesson)
		want   lessonChange
	}{
		{name: "nothing", mutate: func(*model.Lesson) {}, want: changeNone},
		{name: "description only", mutate: func(l *model.Lesson) { l.Description = "more" }, want: changeNone},
		{name: "title", mutate: func(l *model.Lesson) { l.Title = "Intro II" }, want: changeRescheduled},
		{name: "time", mutate: func(l *model.Lesson) { l.ScheduledAt = at.Add(time.Hour) }, want: changeRescheduled},
		{name: "same instant other zone", mutate: func(l *model.Lesson) { l.ScheduledAt = at.In(time.FixedZone("X", 3600)) }, want: changeNone},
		{name: "meet link", mutate: func(l *model.Lesson) { l.MeetLink = "https://meet.example.com/b" }, want: changeRescheduled},
		{name: "recording", mutate: func(l *model.Lesson) { l.RecordingLink = "https://video.example.com/1" }, want: changeRecordingAdded},
		{name: "completed", mutate: func(l *model.Lesson) { l.Status = model.LessonStatusCompleted }, want: changeCompleted},
		{name: "cancelled", mutate: func(l *model.Lesson) { l.Status = model.LessonStatusCancelled }, want: changeNone},
		{
			name: "reschedule beats recording",
			mutate: func(l *model.Lesson) {
				l.ScheduledAt = at.Add(time.Hour)
				l.RecordingLink = "https://video.example.com/1"
			},
			want: changeRescheduled,
		},
		{
			name: "recording beats completion",
			mutate: func(l *model.Lesson) {
				l.RecordingLink = "https://video.example.com/1"
				l.Status = model.LessonStatusCompleted
			},
			want: changeRecordingAdded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := base
			after := base
			tt.mutate(&after)
			assert.Equal(t, tt.want, classifyLessonChange(&before, &after))
		})
	}

	t.Run("recording removed", func(t *testing.T) {
		before := base
		before.RecordingLink = "https://video.example.com/1"
		after := before
		after.RecordingLink = ""
		assert.Equal(t, changeNone, classifyLessonChange(&before, &after))
	})

	t.Run("already completed", func(t *testing.T) {
		before := base
		before.Status = model.LessonStatusCompleted
		after := before
		assert.Equal(t, changeNone, classifyLessonChange(&before, &after))
	})
}

type lessonFixture struct {
	env        *testEnv
	course     *model.Course
	ann        *model.User
	bob        *model.User
	instructor *Session
}

func newLessonFixture(t *testing.T) *lessonFixture {
	env := newTestEnv(t)
	f := &lessonFixture{env: env}
	f.course = env.course(t, "Frontend Development", "frontend")
	f.ann, _ = env.user(t, "ann", model.RoleStudent, "America/New_York", f.course)
	f.bob, _ = env.user(t, "bob", model.RoleStudent, "Asia/Kolkata", f.course)
	_, f.instructor = env.user(t, "mia", model.RoleInstructor, "UTC")
	return f
}

func (f *lessonFixture) schedule(t *testing.T) *model.Lesson {
	t.Helper()
	lesson, err := f.env.lessons.Schedule(context.Background(), f.instructor, ScheduleLessonInput{
		CourseID:    f.course.ID,
		Title:       "React Hooks",
		ScheduledAt: time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		MeetLink:    "https://meet.example.com/react",
	})
	require.NoError(t, err)
	return lesson
}

func TestLessonService_Schedule(t *testing.T) {
	f := newLessonFixture(t)
	lesson := f.schedule(t)

	assert.Equal(t, model.LessonStatusScheduled, lesson.Status)
	assert.NotZero(t, lesson.ID)

	for _, u := range []*model.User{f.ann, f.bob} {
		notes := f.env.notificationsOf(t, u.ID)
		require.Len(t, notes, 1)
		assert.Equal(t, "New class scheduled: React Hooks - Frontend Development", notes[0].Message)
		assert.Equal(t, model.NotificationLessonScheduled, notes[0].Type)
		assert.Equal(t, "/courses/frontend", notes[0].Link)
	}

	times := map[string]string{}
	for _, m := range f.env.dispatcher.Messages() {
		assert.Equal(t, delivery.TemplateLessonScheduled, m.Template)
		times[m.To.Name] = m.Data.(delivery.LessonData).ScheduledAt
	}
	assert.Equal(t, "Friday, March 1, 2024 at 3:30 AM EST", times["ann"])
	assert.Equal(t, "Friday, March 1, 2024 at 2:00 PM IST", times["bob"])
}

func TestLessonService_ScheduleRejected(t *testing.T) {
	f := newLessonFixture(t)
	ctx := context.Background()
	_, student := f.env.user(t, "carl", model.RoleStudent, "UTC", f.course)

	_, err := f.env.lessons.Schedule(ctx, student, ScheduleLessonInput{CourseID: f.course.ID, Title: "x", ScheduledAt: time.Now()})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.env.lessons.Schedule(ctx, f.instructor, ScheduleLessonInput{CourseID: 999, Title: "x", ScheduledAt: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.env.lessons.Schedule(ctx, f.instructor, ScheduleLessonInput{CourseID: f.course.ID, ScheduledAt: time.Now()})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "title", vErr.Fields[0].Field)

	assert.Zero(t, f.env.store.LessonCount())
	assert.Zero(t, f.env.store.NotificationCount())
}

func TestLessonService_Update(t *testing.T) {
	tests := []struct {
		name         string
		input        UpdateLessonInput
		wantMessage  string
		wantTemplate delivery.Template
	}{
		{
			name: "reschedule and recording send one notice",
			input: UpdateLessonInput{
				ScheduledAt:   ptr(time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)),
				RecordingLink: ptr("https://video.example.com/1"),
			},
			wantMessage:  "Class rescheduled: React Hooks - Frontend Development",
			wantTemplate: delivery.TemplateLessonRescheduled,
		},
		{
			name:         "recording added",
			input:        UpdateLessonInput{RecordingLink: ptr("https://video.example.com/1")},
			wantMessage:  "Recording added for: React Hooks - Frontend Development",
			wantTemplate: delivery.TemplateLessonUpdated,
		},
		{
			name:         "completed",
			input:        UpdateLessonInput{Status: ptr("COMPLETED")},
			wantMessage:  "Lesson updated: React Hooks - Frontend Development",
			wantTemplate: delivery.TemplateLessonUpdated,
		},
		{
			name:        "description only",
			input:       UpdateLessonInput{Description: ptr("Bring a laptop")},
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLessonFixture(t)
			lesson := f.schedule(t)
			f.env.dispatcher.Reset()

			input := tt.input
			input.LessonID = lesson.ID
			_, err := f.env.lessons.Update(context.Background(), f.instructor, input)
			require.NoError(t, err)

			notes := f.env.notificationsOf(t, f.ann.ID)
			msgs := f.env.dispatcher.Messages()
			if tt.wantMessage == "" {
				assert.Len(t, notes, 1)
				assert.Empty(t, msgs)
				return
			}
			require.Len(t, notes, 2)
			assert.Equal(t, tt.wantMessage, notes[0].Message)
			assert.Equal(t, model.NotificationLessonUpdated, notes[0].Type)
			require.Len(t, msgs, 2)
			assert.Equal(t, tt.wantTemplate, msgs[0].Template)
		})
	}
}

func TestLessonService_UpdatePersists(t *testing.T) {
	f := newLessonFixture(t)
	ctx := context.Background()
	lesson := f.schedule(t)

	updated, err := f.env.lessons.Update(ctx, f.instructor, UpdateLessonInput{
		LessonID:      lesson.ID,
		RecordingLink: ptr("https://video.example.com/1"),
		Status:        ptr("COMPLETED"),
	})
	require.NoError(t, err)
	assert.Equal(t, "React Hooks", updated.Title)

	stored, err := f.env.repos.Lessons.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://video.example.com/1", stored.RecordingLink)
	assert.Equal(t, model.LessonStatusCompleted, stored.Status)
	assert.Equal(t, lesson.MeetLink, stored.MeetLink)

	_, err = f.env.lessons.Update(ctx, f.instructor, UpdateLessonInput{LessonID: 9999, Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.env.lessons.Update(ctx, f.instructor, UpdateLessonInput{LessonID: lesson.ID, Status: ptr("DONE")})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestLessonService_Calendar(t *testing.T) {
	f := newLessonFixture(t)
	ctx := context.Background()
	_, student := f.env.user(t, "carl", model.RoleStudent, "UTC", f.course)

	for _, day := range []int{10, 3, 20} {
		_, err := f.env.lessons.Schedule(ctx, f.instructor, ScheduleLessonInput{
			CourseID:    f.course.ID,
			Title:       "Day",
			ScheduledAt: time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	all, err := f.env.lessons.Calendar(ctx, student, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].Start.Day())
	assert.Equal(t, 20, all[2].Start.Day())
	assert.Equal(t, "Frontend Development: Day", all[0].Title)
	assert.Equal(t, all[0].Start.Add(time.Hour), all[0].End)
	assert.Equal(t, "/courses/frontend", all[0].URL)

	start := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	window, err := f.env.lessons.Calendar(ctx, student, &start, &end)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, 10, window[0].Start.Day())

	_, err = f.env.lessons.Calendar(ctx, student, &start, nil)
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = f.env.lessons.Calendar(ctx, nil, nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLessonService_Upcoming(t *testing.T) {
	f := newLessonFixture(t)
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for day := 1; day <= 10; day++ {
		_, err := f.env.lessons.Schedule(ctx, f.instructor, ScheduleLessonInput{
			CourseID:    f.course.ID,
			Title:       "Daily",
			ScheduledAt: now.AddDate(0, 0, day).Add(-time.Hour),
		})
		require.NoError(t, err)
	}

	list, err := f.env.lessons.Upcoming(ctx, now)
	require.NoError(t, err)
	require.Len(t, list, UpcomingLimit)
	assert.True(t, list[0].ScheduledAt.Before(list[1].ScheduledAt))
	assert.Equal(t, "frontend", list[0].Course.Slug)
}
