// internal/middleware/dev_auth.go
package middleware

import (
	"context"
	"net/http"

	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/webutil"

	"github.com/google/uuid"
)

// LearnerIDHeader は開発時に学習者を指定するヘッダーです。
const LearnerIDHeader = "X-Learner-ID"

// DevLearnerContextMiddleware は開発時用ミドルウェアです。
// X-Learner-ID ヘッダーからUUIDを抽出し、コンテキストに設定します。
// DBでの存在チェックは行いません。
func DevLearnerContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := GetLogger(r.Context())

		learnerIDStr := r.Header.Get(LearnerIDHeader)
		if learnerIDStr == "" {
			logger.Warn("[DEV AUTH] X-Learner-ID header missing")
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-Learner-IDヘッダーが必要です。", "", model.ErrUnauthorized))
			return
		}

		learnerID, err := uuid.Parse(learnerIDStr)
		if err != nil {
			logger.Warn("[DEV AUTH] Invalid X-Learner-ID format", "value", learnerIDStr)
			webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "[DEV] X-Learner-IDの形式が正しくありません。", "", model.ErrUnauthorized))
			return
		}

		logger.Debug("[DEV AUTH] learner set to context (no validation)", "learner_id", learnerID)

		ctx := context.WithValue(r.Context(), model.LearnerIDKey, learnerID)
		ctx = WithLogger(ctx, logger.With("learner_id", learnerID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
