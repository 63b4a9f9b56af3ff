package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/domain"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"go.uber.org/zap"
)

// Stubs embed the port interface so tests only implement what they exercise.

type stubAuthService struct {
	ports.AuthService
	userID    uuid.UUID
	login     *ports.LoginResult
	verified  *domain.User
	err       error
	lastToken string
	lastReset ports.ResetPasswordInput
	loggedOut string
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (uuid.UUID, error) {
	if token != "good-token" {
		return uuid.Nil, domain.ErrInvalidSession
	}
	return s.userID, nil
}

func (s *stubAuthService) Login(_ context.Context, _ ports.LoginInput) (*ports.LoginResult, error) {
	return s.login, s.err
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	s.loggedOut = token
	return s.err
}

func (s *stubAuthService) VerifyEmail(_ context.Context, token string) (*domain.User, error) {
	s.lastToken = token
	return s.verified, s.err
}

func (s *stubAuthService) ValidateResetToken(_ context.Context, token string) error {
	s.lastToken = token
	return s.err
}

func (s *stubAuthService) ResetPassword(_ context.Context, input ports.ResetPasswordInput) error {
	s.lastReset = input
	return s.err
}

func (s *stubAuthService) ForgotPassword(_ context.Context, _ string) error {
	return s.err
}

type stubFarmService struct {
	ports.FarmService
	owner uuid.UUID
	farms []*domain.Farm
}

func (s *stubFarmService) CheckAccess(_ context.Context, _ uuid.UUID, userID uuid.UUID) error {
	if userID != s.owner {
		return domain.ErrFarmAccessDenied
	}
	return nil
}

func (s *stubFarmService) GetAll(_ context.Context, _ uuid.UUID, _ ports.Page) ([]*domain.Farm, error) {
	return s.farms, nil
}

type stubHutchService struct {
	ports.HutchService
	lastFarm   uuid.UUID
	lastFilter ports.HutchFilter
	lastID     uuid.UUID
	hutches    []*domain.Hutch
	err        error
}

func (s *stubHutchService) GetAll(_ context.Context, farmID uuid.UUID, filter ports.HutchFilter) ([]*domain.Hutch, error) {
	s.lastFarm = farmID
	s.lastFilter = filter
	return s.hutches, s.err
}

func (s *stubHutchService) Create(_ context.Context, farmID uuid.UUID, input ports.HutchInput, _ uuid.UUID) (*domain.Hutch, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Hutch{ID: uuid.New(), FarmID: farmID, Name: input.Name}, nil
}

func (s *stubHutchService) Delete(_ context.Context, id, farmID, _ uuid.UUID) (*domain.Hutch, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Hutch{ID: id, FarmID: farmID}, nil
}

type stubRabbitService struct {
	ports.RabbitService
	lastRemoval ports.RemovalInput
}

func (s *stubRabbitService) Delete(_ context.Context, id, farmID uuid.UUID, input ports.RemovalInput, _ uuid.UUID) (*domain.Rabbit, error) {
	s.lastRemoval = input
	return &domain.Rabbit{ID: id, FarmID: farmID, Status: domain.RabbitStatusRemoved}, nil
}

type stubPages struct {
	err error
}

func (p stubPages) Render(name string, data map[string]string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	var b strings.Builder
	b.WriteString(name)
	for _, key := range []string{"message", "userName", "errorMessage", "appName"} {
		if v, ok := data[key]; ok {
			b.WriteString("|" + key + "=" + v)
		}
	}
	return b.String(), nil
}

func (p stubPages) Fallback() string { return "fallback page" }

var errBoom = errors.New("boom")

type testServer struct {
	handler  http.Handler
	auth     *stubAuthService
	farms    *stubFarmService
	hutches  *stubHutchService
	rabbits  *stubRabbitService
	pages    *stubPages
	migrated int
	owner    uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	owner := uuid.New()
	ts := &testServer{
		auth:    &stubAuthService{userID: owner},
		farms:   &stubFarmService{owner: owner},
		hutches: &stubHutchService{},
		rabbits: &stubRabbitService{},
		pages:   &stubPages{},
		owner:   owner,
	}

	logger := zap.NewNop()
	migrate := func(context.Context) ([]string, error) {
		ts.migrated++
		return []string{"000001_create_users.up.sql"}, nil
	}
	handlers := Handlers{
		Auth:    NewAuthHandler(ts.auth, ts.pages, "Rabbit Farm", logger),
		Farms:   NewFarmHandler(ts.farms, logger),
		Hutches: NewHutchHandler(ts.hutches, logger),
		Rabbits: NewRabbitHandler(ts.rabbits, logger),
		Migrate: NewMigrateHandler(migrate, "migrate-secret", logger),
	}
	limiter := NewRateLimiter(1000, 1000, logger)
	ts.handler = NewHandler(handlers, NewAuthenticator(ts.auth, ts.farms, logger), limiter, []string{"*"})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, authorized bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		req.Header.Set("Authorization", "Bearer good-token")
	}
	return ts.serve(req)
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
