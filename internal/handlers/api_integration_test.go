//go:build integration

// api_integration_test.go
package handlers_test

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/repository"

	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pgDB *gorm.DB

// TestMain は PostgreSQL コンテナを起動し、全テスト終了後に破棄します。
func TestMain(m *testing.M) {
	testLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	pool.MaxWait = 120 * time.Second

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "15-alpine",
		Env: []string{
			"POSTGRES_USER=user",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=vocab_quiz",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start PostgreSQL resource: %s", err)
	}

	host := os.Getenv("TEST_DOCKER_HOST")
	if host == "" {
		host = "localhost"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=user password=secret dbname=vocab_quiz sslmode=disable TimeZone=UTC",
		host, resource.GetPort("5432/tcp"))

	if err = pool.Retry(func() error {
		var errRetry error
		pgDB, errRetry = repository.NewDB("postgres", dsn, testLogger)
		return errRetry
	}); err != nil {
		if pErr := pool.Purge(resource); pErr != nil {
			log.Printf("Warning: Could not purge resource after connection retry failed: %s", pErr)
		}
		log.Fatalf("Could not connect to PostgreSQL container after retries: %s", err)
	}

	if err := repository.Migrate(pgDB); err != nil {
		log.Fatalf("Could not migrate database: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge PostgreSQL resource: %s", err)
	}
	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()
	err := pgDB.Exec("TRUNCATE TABLE review_events, review_progress, options, questions, vocabs, learners CASCADE").Error
	require.NoError(t, err, "Failed to truncate tables")
}

func TestAPI_Postgres_ReviewFlow(t *testing.T) {
	truncateAll(t)
	server := newTestServer(t, pgDB, &config.Config{App: config.AppConfig{ReviewLimit: 5, DistractorCount: 3}})

	body := sendRequest(t, server, httpRequestDetails{
		Method: http.MethodPost, Path: "/api/v1/learners", Body: model.CreateLearnerRequest{Name: "pg-alice"},
	}, http.StatusCreated)
	var learner model.LearnerResponse
	require.NoError(t, json.Unmarshal(body, &learner))

	// pgconn の一意制約違反 (23505) が 409 になる
	body = sendRequest(t, server, httpRequestDetails{
		Method: http.MethodPost, Path: "/api/v1/learners", Body: model.CreateLearnerRequest{Name: "pg-alice"},
	}, http.StatusConflict)
	assert.Equal(t, "DUPLICATE_NAME", decodeError(t, body).Code)

	ids := seedVocabs(t, pgDB, learner.LearnerID,
		[2]string{"ephemeral", "一時的な"}, [2]string{"robust", "頑丈な"},
		[2]string{"vivid", "鮮やかな"}, [2]string{"candid", "率直な"})
	headers := map[string]string{"X-Learner-ID": learner.LearnerID.String()}

	body = sendRequest(t, server, httpRequestDetails{Method: http.MethodGet, Path: "/api/v1/reviews", Headers: headers}, http.StatusOK)
	var items []model.ReviewItem
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 4)
	for _, it := range items {
		assert.Len(t, it.Options, 4)
	}

	submit := httpRequestDetails{
		Method:  http.MethodPost,
		Path:    "/api/v1/reviews/vocab/" + ids[1].String(),
		Body:    map[string]interface{}{"quality": 4, "elapsed_ms": 5000, "event_id": "pg-evt-1"},
		Headers: headers,
	}
	var first, second model.SubmitReviewResponse
	require.NoError(t, json.Unmarshal(sendRequest(t, server, submit, http.StatusOK), &first))
	require.NoError(t, json.Unmarshal(sendRequest(t, server, submit, http.StatusOK), &second))
	assert.Equal(t, first.IntervalDays, second.IntervalDays)
	assert.True(t, first.NextReviewAt.Equal(second.NextReviewAt))

	var events int64
	require.NoError(t, pgDB.Model(&model.ReviewEvent{}).Where("learner_id = ?", learner.LearnerID).Count(&events).Error)
	assert.Equal(t, int64(1), events)

	sendRequest(t, server, httpRequestDetails{
		Method: http.MethodPost, Path: "/api/v1/reviews/question/" + uuid.NewString(),
		Body: map[string]interface{}{"quality": 1, "elapsed_ms": 100}, Headers: headers,
	}, http.StatusNotFound)
}
