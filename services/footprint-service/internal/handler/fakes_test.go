package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/analytics"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/model"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/internal/usecase"
	"github.com/vasapolrittideah/carbon-tracker-api/services/footprint-service/pkg/types"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/auth"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/metrics"
	"github.com/vasapolrittideah/carbon-tracker-api/shared/validation"
)

var errBoom = errors.New("boom")

type fakeAuth struct {
	signupParams usecase.SignupParams
	result       *types.AuthResult
	user         *model.User
	err          error
}

func (f *fakeAuth) Signup(_ context.Context, params usecase.SignupParams) (*types.AuthResult, error) {
	f.signupParams = params
	return f.result, f.err
}

func (f *fakeAuth) Login(context.Context, usecase.LoginParams) (*types.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuth) LoginWithGoogle(context.Context, string) (*types.AuthResult, error) {
	return f.result, f.err
}

func (f *fakeAuth) GetUser(context.Context, string) (*model.User, error) {
	return f.user, f.err
}

func (f *fakeAuth) UpdateProfile(context.Context, string, usecase.UpdateProfileParams) (*model.User, error) {
	return f.user, f.err
}

func (f *fakeAuth) ChangePassword(context.Context, string, usecase.ChangePasswordParams) error {
	return f.err
}

type fakeActivities struct {
	userID       string
	listParams   usecase.ListActivitiesParams
	createParams usecase.CreateActivityParams
	updateParams usecase.UpdateActivityParams
	statsYear    int
	page         *usecase.ActivityPage
	activity     *model.Activity
	stats        *analytics.Stats
	csv          string
	err          error
}

func (f *fakeActivities) ListActivities(_ context.Context, userID string, params usecase.ListActivitiesParams) (*usecase.ActivityPage, error) {
	f.userID, f.listParams = userID, params
	return f.page, f.err
}

func (f *fakeActivities) GetActivity(_ context.Context, userID, _ string) (*model.Activity, error) {
	f.userID = userID
	return f.activity, f.err
}

func (f *fakeActivities) CreateActivity(_ context.Context, userID string, params usecase.CreateActivityParams) (*model.Activity, error) {
	f.userID, f.createParams = userID, params
	return f.activity, f.err
}

func (f *fakeActivities) UpdateActivity(_ context.Context, userID, _ string, params usecase.UpdateActivityParams) (*model.Activity, error) {
	f.userID, f.updateParams = userID, params
	return f.activity, f.err
}

func (f *fakeActivities) DeleteActivity(_ context.Context, userID, _ string) error {
	f.userID = userID
	return f.err
}

func (f *fakeActivities) ExportActivities(_ context.Context, userID string, _ usecase.ExportActivitiesParams, w io.Writer) error {
	f.userID = userID
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, f.csv)
	return err
}

func (f *fakeActivities) GetStats(_ context.Context, userID string, year int) (*analytics.Stats, error) {
	f.userID, f.statsYear = userID, year
	return f.stats, f.err
}

type testServer struct {
	handler    http.Handler
	tokens     *auth.JWTAuthenticator
	auth       *fakeAuth
	activities *fakeActivities
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zerolog.Nop()
	tokens := auth.NewJWTAuthenticator("test-secret", "carbon-tracker", "carbon-tracker-web", time.Hour)
	v := validation.New()
	reg := prometheus.NewRegistry()

	s := &testServer{
		tokens:     tokens,
		auth:       &fakeAuth{},
		activities: &fakeActivities{},
	}
	s.handler = NewRouter(RouterConfig{
		Logger:         &logger,
		AllowedOrigins: []string{"*"},
		Verifier:       tokens,
		Metrics:        metrics.NewHTTPMetrics("test", reg),
		Gatherer:       reg,
		Auth:           NewAuthHandler(s.auth, v),
		Activities:     NewActivityHandler(s.activities, v),
	})
	return s
}

// do sends a request, authenticated as userID when it is not empty.
func (s *testServer) do(t *testing.T, method, target, body, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := s.tokens.IssueToken(userID)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func ptr[T any](v T) *T {
	return &v
}
