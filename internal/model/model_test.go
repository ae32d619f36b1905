package model

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtraClassRequest_DefaultSchedule(t *testing.T) {
	req := &ExtraClassRequest{
		PreferredDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AvailableFrom: "14:00",
		AvailableTo:   "16:00",
	}

	got, err := req.DefaultSchedule(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC), got)

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	got, err = req.DefaultSchedule(kolkata)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), got.UTC())

	req.AvailableFrom = "2pm"
	_, err = req.DefaultSchedule(time.UTC)
	assert.Error(t, err)
}

func TestParseEnums(t *testing.T) {
	_, err := ParseRole("ADMIN")
	assert.Error(t, err)
	role, err := ParseRole("INSTRUCTOR")
	require.NoError(t, err)
	assert.Equal(t, RoleInstructor, role)

	_, err = ParseLessonStatus("DONE")
	assert.Error(t, err)
	_, err = ParseResourceType("pdf")
	assert.Error(t, err)
	rt, err := ParseResourceType("VIDEO")
	require.NoError(t, err)
	assert.Equal(t, ResourceTypeVideo, rt)
}

func TestNewCalendarEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	ev := NewCalendarEvent(&LessonWithCourse{
		Lesson: Lesson{ID: 7, Title: "Intro", ScheduledAt: at, MeetLink: "https://meet/x", Status: LessonStatusScheduled},
		Course: &Course{Title: "Backend Development", Slug: "backend", Color: "#10B981"},
	})

	assert.Equal(t, "Backend Development: Intro", ev.Title)
	assert.Equal(t, at.Add(time.Hour), ev.End)
	assert.Equal(t, "#10B981", ev.BackgroundColor)
	assert.Equal(t, "#10B981", ev.BorderColor)
	assert.Equal(t, "/courses/backend", ev.URL)
	assert.Equal(t, "Intro", ev.ExtendedProps.LessonTitle)
	assert.Equal(t, "https://meet/x", ev.ExtendedProps.MeetLink)
}

func TestLoadLocation(t *testing.T) {
	assert.Equal(t, time.UTC, LoadLocation(""))
	assert.Equal(t, time.UTC, LoadLocation("Nowhere/Special"))
	assert.Equal(t, "Asia/Kolkata", LoadLocation("Asia/Kolkata").String())
}
