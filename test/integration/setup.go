package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	handler "github.com/vncsmyrnk/rabbitfarm/internal/adapters/handler/http"
	"github.com/vncsmyrnk/rabbitfarm/internal/adapters/render"
	repo "github.com/vncsmyrnk/rabbitfarm/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/ports"
	"github.com/vncsmyrnk/rabbitfarm/internal/core/services"
)

const (
	testBaseURL     = "http://rabbitfarm.test"
	testMigrateCode = "migrate-secret"
)

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	dbName := "testdb"
	user := "user"
	password := "password"

	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

// outbox captures mail so tests can follow the links inside it.
type outbox struct {
	mu   sync.Mutex
	sent []ports.Email
}

func (o *outbox) Send(_ context.Context, msg ports.Email) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

var linkToken = regexp.MustCompile(`/(?:verify-email|reset-password)/([A-Za-z0-9_-]+)`)

// lastToken returns the raw token from the newest mail sent to the address.
func (o *outbox) lastToken(t *testing.T, to string) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To != to {
			continue
		}
		m := linkToken.FindStringSubmatch(o.sent[i].Text)
		require.NotNil(t, m, "no link in mail %q", o.sent[i].Text)
		return m[1]
	}
	t.Fatalf("no mail sent to %s", to)
	return ""
}

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	Outbox      *outbox
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := repo.Open(ctx, dbURL)
	require.NoError(t, err)

	_, err = repo.Apply(ctx, db)
	require.NoError(t, err)

	logger := zap.NewNop()
	pages, err := render.New()
	require.NoError(t, err)

	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)
	farmRepo := repo.NewFarmRepository(db)
	hutchRepo := repo.NewHutchRepository(db)
	rabbitRepo := repo.NewRabbitRepository(db)
	breedingRepo := repo.NewBreedingRepository(db)
	earningsRepo := repo.NewEarningsRepository(db)

	mail := &outbox{}
	authSvc := services.NewAuthService(userRepo, authRepo, nil, mail, services.AuthConfig{
		JWTSecret: []byte("test-secret"),
		AppName:   "Rabbit Farm",
		BaseURL:   testBaseURL,
	}, logger)
	farmSvc := services.NewFarmService(farmRepo)
	migrate := func(ctx context.Context) ([]string, error) {
		return repo.Apply(ctx, db)
	}

	handlers := handler.Handlers{
		Auth:     handler.NewAuthHandler(authSvc, pages, "Rabbit Farm", logger),
		Farms:    handler.NewFarmHandler(farmSvc, logger),
		Hutches:  handler.NewHutchHandler(services.NewHutchService(hutchRepo), logger),
		Rabbits:  handler.NewRabbitHandler(services.NewRabbitService(rabbitRepo), logger),
		Breeding: handler.NewBreedingHandler(services.NewBreedingService(breedingRepo, rabbitRepo), logger),
		Earnings: handler.NewEarningsHandler(services.NewEarningsService(earningsRepo, rabbitRepo), logger),
		Alerts:   handler.NewAlertHandler(services.NewAlertService(breedingRepo), logger),
		Migrate:  handler.NewMigrateHandler(migrate, testMigrateCode, logger),
	}
	limiter := handler.NewRateLimiter(1000, 1000, logger)
	router := handler.NewHandler(handlers, handler.NewAuthenticator(authSvc, farmSvc, logger), limiter, []string{"*"})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		Outbox:      mail,
		DBContainer: dbContainer,
	}
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call sends a JSON request and decodes the envelope. Non-JSON bodies are
// returned in Message.
func (app *TestApp) call(t *testing.T, method, path string, body any, token string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		env.Message = string(raw)
	}
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v), string(env.Data))
	return v
}

// registerAndLogin creates a verified account and returns its session token.
func (app *TestApp) registerAndLogin(t *testing.T, email string) string {
	t.Helper()

	status, env := app.call(t, http.MethodPost, "/auth/register", map[string]string{
		"email": email, "password": "password123", "name": "Farmer",
	}, "")
	require.Equal(t, http.StatusCreated, status, env.Message)

	status, env = app.call(t, http.MethodGet, "/auth/verify-email/"+app.Outbox.lastToken(t, email), nil, "")
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = app.call(t, http.MethodPost, "/auth/login", map[string]string{
		"email": email, "password": "password123",
	}, "")
	require.Equal(t, http.StatusOK, status, env.Message)

	return decodeData[ports.LoginResult](t, env).Token
}
