package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	apphttp "github.com/ascend-app/survey-api/internal/adapters/handler/http"
	"github.com/ascend-app/survey-api/internal/adapters/ratelimit/local"
	"github.com/ascend-app/survey-api/internal/adapters/ratelimit/redisrate"
	"github.com/ascend-app/survey-api/internal/adapters/repository/postgres"
	"github.com/ascend-app/survey-api/internal/core/domain"
	"github.com/ascend-app/survey-api/internal/core/ports"
	"github.com/ascend-app/survey-api/internal/core/services"
)

const testJWTSecret = "test-secret"

type testApp struct {
	Server  *httptest.Server
	DB      *sql.DB
	cleanup []func()
}

func (a *testApp) Teardown(t *testing.T) {
	t.Helper()
	a.Server.Close()
	a.DB.Close()
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
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

func applyMigrations(db *sql.DB) error {
	dirPath := "../../internal/adapters/repository/postgres/migrations"

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		if !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}

		fullPath := filepath.Join(dirPath, entry.Name())
		content, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		_, err = db.Exec(string(content))
		if err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", entry.Name(), err)
		}
	}

	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestApp starts postgres and wires the full application with an
// effectively unlimited in-process rate limiter, so tests that are not about
// throttling never trip it.
func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	return setupTestAppWithLimiter(t, local.New(10000, time.Minute))
}

// setupTestAppWithRedisLimiter also starts redis and wires the fixed-window
// limiter with the given parameters.
func setupTestAppWithRedisLimiter(t *testing.T, limit int, window time.Duration) *testApp {
	t.Helper()
	ctx := context.Background()

	redisContainer, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	connStr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err)

	opts, err := redis.ParseURL(connStr)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)

	app := setupTestAppWithLimiter(t, redisrate.New(rdb, limit, window, quietLogger()))
	app.cleanup = append(app.cleanup, func() {
		rdb.Close()
		_ = redisContainer.Terminate(ctx)
	})
	return app
}

func setupTestAppWithLimiter(t *testing.T, limiter ports.RateLimiter) *testApp {
	t.Helper()
	ctx := context.Background()

	pgContainer, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, applyMigrations(db))

	surveyRepo := postgres.NewSurveyRepository(db)
	recorder := postgres.NewSubmissionRepository(db)

	handler := apphttp.NewHandler(
		apphttp.NewSurveyHandler(services.NewSurveyService(surveyRepo, "http://localhost:8080")),
		apphttp.NewSubmissionHandler(services.NewSubmissionService(surveyRepo, recorder), limiter, quietLogger()),
		apphttp.NewHealthHandler(db),
		[]byte(testJWTSecret),
	)

	return &testApp{
		Server: httptest.NewServer(handler),
		DB:     db,
		cleanup: []func(){
			func() { _ = pgContainer.Terminate(ctx) },
		},
	}
}

func createAdminToken(t *testing.T, adminID uuid.UUID) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub": adminID.String(),
		"exp": time.Now().Add(15 * time.Minute).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signedToken
}

// seedSurvey inserts a survey row directly, bypassing the creation service,
// so tests control quota and expiry state freely.
func seedSurvey(t *testing.T, db *sql.DB, questions []domain.Question, maxVotes, currentVotes int, expiresAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	questionsJSON, err := json.Marshal(questions)
	require.NoError(t, err)

	_, err = db.Exec(`
		INSERT INTO surveys (id, admin_id, title, questions, created_at, expires_at, max_votes, current_votes)
		VALUES ($1, $2, $3, $4, NOW(), $5, $6, $7)`,
		id, uuid.New(), "Seeded Survey", questionsJSON, expiresAt, maxVotes, currentVotes,
	)
	require.NoError(t, err)
	return id
}

func yesNoQuestions(ids ...string) []domain.Question {
	var qs []domain.Question
	for _, id := range ids {
		qs = append(qs, domain.Question{ID: id, Text: "Question " + id + "?", Options: domain.QuestionOptions})
	}
	return qs
}

func countSubmissions(t *testing.T, db *sql.DB, surveyID uuid.UUID) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM submissions WHERE survey_id = $1", surveyID).Scan(&count))
	return count
}

func currentVotes(t *testing.T, db *sql.DB, surveyID uuid.UUID) int {
	t.Helper()
	var votes int
	require.NoError(t, db.QueryRow(
		"SELECT current_votes FROM surveys WHERE id = $1", surveyID).Scan(&votes))
	return votes
}
