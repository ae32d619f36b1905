package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Freeeeeet/course_app/internal/auth"
	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/memory"
	"github.com/Freeeeeet/course_app/internal/service"
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type discardDispatcher struct{}

func (discardDispatcher) Enqueue(...*delivery.Message) {}

type testApp struct {
	server *Server
	repos  service.Repositories
	tokens *auth.TokenManager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	store := memory.NewStore()
	repos := service.Repositories{
		Users:         memory.NewUserRepository(store),
		Courses:       memory.NewCourseRepository(store),
		Enrollments:   memory.NewEnrollmentRepository(store),
		Lessons:       memory.NewLessonRepository(store),
		Resources:     memory.NewResourceRepository(store),
		Notifications: memory.NewNotificationRepository(store),
		Requests:      memory.NewExtraClassRequestRepository(store),
	}
	logger := zaptest.NewLogger(t)
	notifications := service.NewNotificationService(repos.Enrollments, repos.Notifications, discardDispatcher{}, logger)
	lessons := service.NewLessonService(repos.Lessons, repos.Courses, notifications, logger)
	resources := service.NewResourceService(repos.Resources, repos.Lessons, repos.Courses, notifications, logger)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	server := NewServer(&Options{
		Address:        ":0",
		CORSOrigins:    []string{"http://localhost:3000"},
		SessionSecret:  "test-session-secret-0123456789ab",
		DisableReqLogs: true,
		Tokens:         tokens,
		Logger:         logger,
		Services: Services{
			Users:         service.NewUserService(repos.Users, repos.Courses, repos.Enrollments, logger),
			Courses:       service.NewCourseService(repos, lessons, resources, notifications, logger),
			Lessons:       lessons,
			Resources:     resources,
			Notifications: notifications,
			ExtraClasses:  service.NewExtraClassService(repos, notifications, "", logger),
		},
	})
	return &testApp{server: server, repos: repos, tokens: tokens}
}

func (a *testApp) course(t *testing.T, title, slug string) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, Slug: slug, Color: "#8B5CF6"}
	require.NoError(t, a.repos.Courses.Create(context.Background(), c))
	return c
}

// user stores a user enrolled in the given courses and returns a session token.
func (a *testApp) user(t *testing.T, name string, role model.Role, courses ...*model.Course) (*model.User, string) {
	t.Helper()
	ctx := context.Background()
	u := &model.User{Name: name, Email: name + "@example.com", Role: role, Timezone: "UTC"}
	require.NoError(t, a.repos.Users.Create(ctx, u))
	for _, c := range courses {
		_, err := a.repos.Enrollments.Create(ctx, u.ID, c.ID)
		require.NoError(t, err)
	}
	token, err := a.tokens.GenerateToken(u)
	require.NoError(t, err)
	return u, token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func (a *testApp) do(t *testing.T, method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	t.Helper()
	req, rec := newAuthRequest(method, path, token, data...)
	a.server.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) run(t *testing.T, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, tt.method, tt.path, tt.token, tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantData != nil {
				require.JSONEq(t, string(tt.wantData), rec.Body.String())
			}
		})
	}
}

// decodeData unmarshals the data member of a success response.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success, rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, v))
}
