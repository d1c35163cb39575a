// helpers_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/handlers"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/repository"
	"go_4_vocab_quiz/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// httpRequestDetails はHTTPリクエストの送信に必要な情報をまとめます。
type httpRequestDetails struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// sendRequest はHTTPリクエストを送信し、ステータスコードを検証してボディを返します。
func sendRequest(t *testing.T, server *httptest.Server, details httpRequestDetails, expectedCode int) []byte {
	t.Helper()

	var reqBodyReader io.Reader
	if details.Body != nil {
		if strPayload, ok := details.Body.(string); ok {
			reqBodyReader = strings.NewReader(strPayload)
		} else {
			reqBodyBytes, err := json.Marshal(details.Body)
			require.NoError(t, err, "Failed to marshal request body")
			reqBodyReader = bytes.NewBuffer(reqBodyBytes)
		}
	}

	req, err := http.NewRequest(details.Method, server.URL+details.Path, reqBodyReader)
	require.NoError(t, err, "Failed to create request")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range details.Headers {
		req.Header.Set(key, value)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Failed to execute request")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")
	assert.Equal(t, expectedCode, resp.StatusCode, "Status code mismatch: %s", string(body))
	return body
}

// decodeError はエラーレスポンスを読み取ります。
func decodeError(t *testing.T, body []byte) model.ErrorDetail {
	t.Helper()
	var errResp model.APIErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp), "body: %s", string(body))
	return errResp.Error
}

// newJSONRequest はハンドラ単体テスト用のリクエストを作成します。
func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var reqBody io.Reader
	if body != nil {
		if bodyStr, ok := body.(string); ok {
			reqBody = strings.NewReader(bodyStr)
		} else {
			jsonData, err := json.Marshal(body)
			require.NoError(t, err)
			reqBody = bytes.NewBuffer(jsonData)
		}
	}
	req := httptest.NewRequest(method, target, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// withURLParams は chi の RouteContext に URL パラメータを設定します。
func withURLParams(ctx context.Context, params map[string]string) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func withLearner(ctx context.Context, learnerID uuid.UUID) context.Context {
	return context.WithValue(ctx, model.LearnerIDKey, learnerID)
}

// setupSQLiteDB はテストごとに独立したインメモリ SQLite を用意します。
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, repository.Migrate(db))
	return db
}

// newTestServer は本物のリポジトリとサービスでルーター全体を組み立てます。
func newTestServer(t *testing.T, db *gorm.DB, cfg *config.Config) *httptest.Server {
	t.Helper()
	config.ApplyDefaults(cfg)

	learnerRepo := repository.NewGormLearnerRepository()
	vocabRepo := repository.NewGormVocabRepository()
	questionRepo := repository.NewGormQuestionRepository()
	progressRepo := repository.NewGormProgressRepository()
	eventRepo := repository.NewGormEventRepository()

	learnerService := service.NewLearnerService(db, learnerRepo)
	reviewService := service.NewReviewService(db, progressRepo, vocabRepo, questionRepo, eventRepo, cfg)
	questionService := service.NewQuestionService(db, questionRepo)

	router := handlers.NewRouter(cfg, handlers.RouterDeps{
		DB:              db,
		Logger:          discardLogger,
		Authenticator:   learnerService,
		LearnerHandler:  handlers.NewLearnerHandler(learnerService),
		ReviewHandler:   handlers.NewReviewHandler(reviewService),
		QuestionHandler: handlers.NewQuestionHandler(questionService),
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}
