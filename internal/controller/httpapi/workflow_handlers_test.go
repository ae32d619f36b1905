package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/course_app/internal/model"
)

func TestLessonAPI(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Frontend Development", "frontend")
	_, student := app.user(t, "ann", model.RoleStudent, course)
	_, instructor := app.user(t, "mia", model.RoleInstructor)

	rec := app.do(t, http.MethodPost, "/api/lessons", instructor, []byte(fmt.Sprintf(
		`{"courseId":%d,"title":"React Hooks","scheduledAt":"2024-03-01T08:30:00Z","meetLink":"https://meet.example.com/x"}`, course.ID)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var lesson model.Lesson
	decodeData(t, rec, &lesson)

	app.run(t, []httpTest{
		{
			name:     "student cannot schedule",
			method:   http.MethodPost,
			path:     "/api/lessons",
			token:    student,
			body:     []byte(fmt.Sprintf(`{"courseId":%d,"title":"x","scheduledAt":"2024-03-01T08:30:00Z"}`, course.ID)),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "anonymous cannot schedule",
			method:   http.MethodPost,
			path:     "/api/lessons",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "invalid meet link",
			method:   http.MethodPost,
			path:     "/api/lessons",
			token:    instructor,
			body:     []byte(fmt.Sprintf(`{"courseId":%d,"title":"x","scheduledAt":"2024-03-01T08:30:00Z","meetLink":"nope"}`, course.ID)),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"success":false,"error":"invalid input","fields":{"meetLink":"meetLink must be a valid URL"}}`),
		},
		{
			name:     "unknown course",
			method:   http.MethodPost,
			path:     "/api/lessons",
			token:    instructor,
			body:     []byte(`{"courseId":999,"title":"x","scheduledAt":"2024-03-01T08:30:00Z"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "update unknown lesson",
			method:   http.MethodPatch,
			path:     "/api/lessons/999",
			token:    instructor,
			body:     []byte(`{"title":"x"}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "update lesson",
			method:   http.MethodPatch,
			path:     fmt.Sprintf("/api/lessons/%d", lesson.ID),
			token:    instructor,
			body:     []byte(`{"recordingLink":"https://video.example.com/1"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "unread count",
			method:   http.MethodGet,
			path:     "/api/notifications/unread-count",
			token:    student,
			wantCode: http.StatusOK,
			wantData: []byte(`{"count":2}`),
		},
		{
			name:     "calendar with one bound",
			method:   http.MethodGet,
			path:     "/api/lessons?start=2024-03-01",
			token:    student,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "calendar with bad bound",
			method:   http.MethodGet,
			path:     "/api/lessons?start=yesterday&end=2024-03-02",
			token:    student,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "admin lesson list is instructor only",
			method:   http.MethodGet,
			path:     "/api/admin/lessons",
			token:    student,
			wantCode: http.StatusForbidden,
		},
	})

	t.Run("calendar feed", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/api/lessons?start=2024-02-26T00:00:00Z&end=2024-04-07T00:00:00Z", student)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, fmt.Sprintf(`[{
			"id": %d,
			"title": "Frontend Development: React Hooks",
			"start": "2024-03-01T08:30:00Z",
			"end": "2024-03-01T09:30:00Z",
			"backgroundColor": "#8B5CF6",
			"borderColor": "#8B5CF6",
			"url": "/courses/frontend",
			"extendedProps": {
				"courseTitle": "Frontend Development",
				"lessonTitle": "React Hooks",
				"status": "SCHEDULED",
				"meetLink": "https://meet.example.com/x"
			}
		}]`, lesson.ID), rec.Body.String())

		rec = app.do(t, http.MethodGet, "/api/lessons?start=2024-04-01&end=2024-04-30", student)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("notifications", func(t *testing.T) {
		rec := app.do(t, http.MethodGet, "/api/notifications", student)
		require.Equal(t, http.StatusOK, rec.Code)
		var list []model.Notification
		decodeData(t, rec, &list)
		require.Len(t, list, 2)
		assert.Equal(t, "Recording added for: React Hooks - Frontend Development", list[0].Message)

		rec = app.do(t, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", list[0].ID), instructor)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = app.do(t, http.MethodPost, fmt.Sprintf("/api/notifications/%d/read", list[0].ID), student)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = app.do(t, http.MethodPost, "/api/notifications/read-all", student)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"data":{"updated":1}}`, rec.Body.String())
	})
}

func TestExtraClassAPI(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Backend Development", "backend")
	other := app.course(t, "DevOps", "devops")
	_, student := app.user(t, "ann", model.RoleStudent, course)
	_, instructor := app.user(t, "mia", model.RoleInstructor)

	submit := func(courseID int64) []byte {
		return []byte(fmt.Sprintf(
			`{"courseId":%d,"preferredDate":"2024-03-04","availableFrom":"14:00","availableTo":"16:00","topic":"Goroutines"}`, courseID))
	}

	rec := app.do(t, http.MethodPost, "/api/extra-class-requests", student, submit(course.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var first model.ExtraClassRequest
	decodeData(t, rec, &first)
	assert.Equal(t, model.RequestStatusPending, first.Status)

	rec = app.do(t, http.MethodPost, "/api/extra-class-requests", student, submit(course.ID))
	require.Equal(t, http.StatusCreated, rec.Code)
	var second model.ExtraClassRequest
	decodeData(t, rec, &second)

	app.run(t, []httpTest{
		{
			name:     "not enrolled",
			method:   http.MethodPost,
			path:     "/api/extra-class-requests",
			token:    student,
			body:     submit(other.ID),
			wantCode: http.StatusForbidden,
			wantData: []byte(`{"success":false,"error":"you are not enrolled in this course"}`),
		},
		{
			name:     "instructor cannot submit",
			method:   http.MethodPost,
			path:     "/api/extra-class-requests",
			token:    instructor,
			body:     submit(course.ID),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "student cannot approve",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/admin/extra-class-requests/%d/approve", first.ID),
			token:    student,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "approve",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/admin/extra-class-requests/%d/approve", first.ID),
			token:    instructor,
			body:     []byte(`{"meetLink":"https://meet.example.com/extra"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "approve again",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/admin/extra-class-requests/%d/approve", first.ID),
			token:    instructor,
			wantCode: http.StatusConflict,
			wantData: []byte(`{"success":false,"error":"request not found or already processed"}`),
		},
		{
			name:     "reject approved",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/admin/extra-class-requests/%d/reject", first.ID),
			token:    instructor,
			wantCode: http.StatusConflict,
		},
		{
			name:     "reject",
			method:   http.MethodPost,
			path:     fmt.Sprintf("/api/admin/extra-class-requests/%d/reject", second.ID),
			token:    instructor,
			body:     []byte(`{"rejectionReason":"Schedule conflict"}`),
			wantCode: http.StatusOK,
		},
		{
			name:     "unknown request",
			method:   http.MethodPost,
			path:     "/api/admin/extra-class-requests/abc/approve",
			token:    instructor,
			wantCode: http.StatusNotFound,
		},
	})

	rec = app.do(t, http.MethodGet, "/api/admin/extra-class-requests", instructor)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []model.ExtraClassRequestView
	decodeData(t, rec, &all)
	require.Len(t, all, 2)
	statuses := []model.RequestStatus{all[0].Status, all[1].Status}
	assert.ElementsMatch(t, []model.RequestStatus{model.RequestStatusApproved, model.RequestStatusRejected}, statuses)

	rec = app.do(t, http.MethodGet, "/api/extra-class-requests", student)
	require.Equal(t, http.StatusOK, rec.Code)
	var own []model.ExtraClassRequestView
	decodeData(t, rec, &own)
	assert.Len(t, own, 2)
}

func TestExtraClassAPI_FormEncoded(t *testing.T) {
	app := newTestApp(t)
	course := app.course(t, "Backend Development", "backend")
	_, student := app.user(t, "ann", model.RoleStudent, course)

	form := url.Values{}
	form.Set("courseId", fmt.Sprint(course.ID))
	form.Set("preferredDate", "2024-03-04")
	form.Set("availableFrom", "09:00")
	form.Set("availableTo", "10:30")
	form.Set("topic", "Testing")

	req, rec := newAuthRequest(http.MethodPost, "/api/extra-class-requests", student, []byte(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.ExtraClassRequest
	decodeData(t, rec, &created)
	assert.Equal(t, "Testing", created.Topic)
	assert.Equal(t, "09:00", created.AvailableFrom)
}

func (a *testApp) postForm(t *testing.T, method, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newAuthRequest(method, path, token, []byte(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	a.server.ServeHTTP(rec, req)
	return rec
}

func TestFormEncodedMutations(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	course := app.course(t, "Frontend Development", "frontend")
	_, student := app.user(t, "ann", model.RoleStudent, course)

	mia, _ := app.user(t, "mia", model.RoleInstructor)
	mia.Timezone = "Asia/Kolkata"
	require.NoError(t, app.repos.Users.Update(ctx, mia))
	instructor, err := app.tokens.GenerateToken(mia)
	require.NoError(t, err)

	var lesson model.Lesson
	t.Run("schedule with datetime-local", func(t *testing.T) {
		rec := app.postForm(t, http.MethodPost, "/api/lessons", instructor, url.Values{
			"courseId":    {fmt.Sprint(course.ID)},
			"title":       {"React Hooks"},
			"scheduledAt": {"2024-03-01T14:00"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		decodeData(t, rec, &lesson)
		assert.Equal(t, time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC), lesson.ScheduledAt.UTC())
	})

	t.Run("schedule with bad time", func(t *testing.T) {
		rec := app.postForm(t, http.MethodPost, "/api/lessons", instructor, url.Values{
			"courseId":    {fmt.Sprint(course.ID)},
			"title":       {"React Hooks"},
			"scheduledAt": {"tomorrow"},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"scheduledAt"`)
	})

	t.Run("reschedule", func(t *testing.T) {
		rec := app.postForm(t, http.MethodPatch, fmt.Sprintf("/api/lessons/%d", lesson.ID), instructor, url.Values{
			"scheduledAt": {"2024-03-02T09:15:00Z"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var updated model.Lesson
		decodeData(t, rec, &updated)
		assert.Equal(t, time.Date(2024, 3, 2, 9, 15, 0, 0, time.UTC), updated.ScheduledAt.UTC())
		assert.Equal(t, "React Hooks", updated.Title)
	})

	t.Run("general resource from empty lessonId", func(t *testing.T) {
		rec := app.postForm(t, http.MethodPost, "/api/resources", instructor, url.Values{
			"courseId": {fmt.Sprint(course.ID)},
			"lessonId": {""},
			"title":    {"Slides"},
			"type":     {"pdf"},
			"url":      {"https://example.com/slides.pdf"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var res model.Resource
		decodeData(t, rec, &res)
		assert.Nil(t, res.LessonID)
		assert.Equal(t, model.ResourceTypePDF, res.Type)
	})

	t.Run("approve with datetime-local", func(t *testing.T) {
		rec := app.postForm(t, http.MethodPost, "/api/extra-class-requests", student, url.Values{
			"courseId":      {fmt.Sprint(course.ID)},
			"preferredDate": {"2024-03-04"},
			"availableFrom": {"09:00"},
			"availableTo":   {"10:30"},
			"topic":         {"Testing"},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var req model.ExtraClassRequest
		decodeData(t, rec, &req)

		rec = app.postForm(t, http.MethodPost, fmt.Sprintf("/api/admin/extra-class-requests/%d/approve", req.ID), instructor, url.Values{
			"scheduledAt": {"2024-03-05T18:00"},
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var approved model.Lesson
		decodeData(t, rec, &approved)
		assert.Equal(t, time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC), approved.ScheduledAt.UTC())
	})
}

func TestServer_Infrastructure(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "courseapp_http_request_duration_seconds")

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	req, rec := newAuthRequest(http.MethodOptions, "/api/courses", "")
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
