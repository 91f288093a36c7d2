package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	_ "courseflow/docs"
	"courseflow/internal/middleware"
	"courseflow/internal/model"
	"courseflow/internal/pubsub"
	"courseflow/internal/service"
	"courseflow/internal/testutil"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type stubStorage struct{}

func (stubStorage) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key, nil
}

func (stubStorage) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + key, nil
}

func (stubStorage) Exists(context.Context, string) (bool, error) { return true, nil }

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	store := testutil.NewStore()
	store.AddUser(model.User{UserID: "author", Name: "Ada"})

	logger := zerolog.Nop()
	locks := service.NewCourseLocks()
	media := service.NewMediaService(store, stubStorage{}, logger)
	groups := service.NewQuestionGroupService(store)
	events := pubsub.NewCourseEventPublisher(nil, "course-events", logger)

	return Handler(Services{
		User:      service.NewUserService(store, store),
		Course:    service.NewCourseService(store, store, stubStorage{}, locks, service.CourseServiceConfig{}, logger),
		Structure: service.NewStructureService(store, store, store, store, media, groups, locks, logger),
		Review:    service.NewReviewService(store, store, store, store, store, media, groups, events, locks, logger),
		Content:   service.NewContentService(store, store, store, media, groups, store, service.ContentServiceConfig{}, logger),
	}, validator.New(validator.WithRequiredStructEnabled()), "router-test-secret", logger)
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(newTestHandler(t))
	defer srv.Close()

	tests := []struct {
		name       string
		method     string
		path       string
		header     map[string]string
		wantStatus int
		check      func(t *testing.T, resp *http.Response, body string)
	}{
		{
			name:       "health check",
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
		},
		{
			name:       "public catalog under v1",
			method:     http.MethodGet,
			path:       "/v1/catalog",
			wantStatus: http.StatusOK,
		},
		{
			name:       "routes outside v1 are not served",
			method:     http.MethodGet,
			path:       "/catalog",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "protected route requires a token",
			method:     http.MethodGet,
			path:       "/v1/users/me",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "request id is generated",
			method:     http.MethodGet,
			path:       "/healthz",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, _ string) {
				if resp.Header.Get(middleware.RequestIDHeader) == "" {
					t.Fatal("expected a generated request id")
				}
			},
		},
		{
			name:       "request id is echoed",
			method:     http.MethodGet,
			path:       "/v1/catalog",
			header:     map[string]string{middleware.RequestIDHeader: "req-42"},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, _ string) {
				if got := resp.Header.Get(middleware.RequestIDHeader); got != "req-42" {
					t.Fatalf("expected req-42, got %q", got)
				}
			},
		},
		{
			name:       "cors headers on cross-origin requests",
			method:     http.MethodGet,
			path:       "/v1/catalog",
			header:     map[string]string{"Origin": "https://app.example.com"},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, _ string) {
				if resp.Header.Get("Access-Control-Allow-Origin") == "" {
					t.Fatal("expected Access-Control-Allow-Origin")
				}
			},
		},
		{
			name:       "swagger document",
			method:     http.MethodGet,
			path:       "/swagger/doc.json",
			wantStatus: http.StatusOK,
			check: func(t *testing.T, resp *http.Response, body string) {
				if !strings.Contains(body, "/courses/{courseId}/approve") {
					t.Fatal("swagger document is missing the approve route")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			if err != nil {
				t.Fatalf("new request: %v", err)
			}
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("do: %v", err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, resp.StatusCode, body)
			}
			if tt.check != nil {
				tt.check(t, resp, string(body))
			}
		})
	}
}

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name string
		env  string
		dsn  string
		want string
	}{
		{
			name: "development url",
			env:  "development",
			dsn:  "postgres://app:pw@localhost:5432/courseflow",
			want: "postgres://app:pw@localhost:5432/courseflow?sslmode=disable",
		},
		{
			name: "development keyword form",
			env:  "development",
			dsn:  "host=localhost dbname=courseflow",
			want: "host=localhost dbname=courseflow sslmode=disable",
		},
		{
			name: "development keeps explicit sslmode",
			env:  "development",
			dsn:  "postgres://localhost/courseflow?sslmode=require",
			want: "postgres://localhost/courseflow?sslmode=require",
		},
		{
			name: "production appends to query",
			env:  "production",
			dsn:  "postgres://db.internal/courseflow?sslmode=require",
			want: "postgres://db.internal/courseflow?sslmode=require&default_query_exec_mode=simple_protocol",
		},
		{
			name: "production keeps explicit mode",
			env:  "production",
			dsn:  "postgres://db.internal/courseflow?default_query_exec_mode=exec",
			want: "postgres://db.internal/courseflow?default_query_exec_mode=exec",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeDSN(tt.env, tt.dsn); got != tt.want {
				t.Errorf("normalizeDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}
