package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/model"
	"go_4_vocab_quiz/internal/webutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LearnerAuthenticator はトークンから取り出した学習者IDが有効かを確認します。
type LearnerAuthenticator interface {
	Exists(ctx context.Context, learnerID uuid.UUID) (bool, error)
}

// LearnerIdentity は設定に応じて JWT 認証か開発用ヘッダーのどちらかを返します。
func LearnerIdentity(cfg *config.Config, authenticator LearnerAuthenticator) func(http.Handler) http.Handler {
	if cfg.Auth.Enabled {
		return JWTAuthMiddleware(cfg, authenticator)
	}
	return DevLearnerContextMiddleware
}

// JWTAuthMiddleware は Authorization ヘッダーの Bearer トークンを検証するミドルウェア。
// sub クレームを学習者IDとしてコンテキストに設定します。
func JWTAuthMiddleware(cfg *config.Config, authenticator LearnerAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := GetLogger(r.Context())

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Warn("JWT auth failed: Authorization header missing")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrUnauthorized))
				return
			}

			scheme, tokenString, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
				logger.Warn("JWT auth failed: Invalid Authorization header format")
				webutil.HandleError(w, logger, model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーの形式が正しくありません。", "", model.ErrUnauthorized))
				return
			}

			// 署名と有効期限(exp)を検証する
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return []byte(cfg.Auth.JWTSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				logger.Warn("JWT auth failed: Invalid token", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンが無効です。", "", model.ErrUnauthorized))
				return
			}

			subject, err := token.Claims.GetSubject()
			if err != nil || subject == "" {
				logger.Warn("JWT auth failed: Subject (sub) claim missing", "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンに学習者情報が含まれていません。", "", model.ErrUnauthorized))
				return
			}

			learnerID, err := uuid.Parse(subject)
			if err != nil {
				logger.Warn("JWT auth failed: Invalid subject (sub) format", "subject", subject, "error", err)
				webutil.HandleError(w, logger, model.NewAppError("INVALID_TOKEN", "トークンの学習者情報が不正です。", "", model.ErrUnauthorized))
				return
			}

			if authenticator != nil {
				exists, err := authenticator.Exists(r.Context(), learnerID)
				if err != nil {
					webutil.HandleError(w, logger, err)
					return
				}
				if !exists {
					logger.Warn("JWT auth failed: learner does not exist", "learner_id", learnerID)
					webutil.HandleError(w, logger, model.NewAppError("LEARNER_NOT_FOUND", "学習者が見つかりません。", "", model.ErrLearnerUnknown))
					return
				}
			}

			ctx := context.WithValue(r.Context(), model.LearnerIDKey, learnerID)
			ctx = WithLogger(ctx, logger.With("learner_id", learnerID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetLearnerIDFromContext(ctx context.Context) (uuid.UUID, error) {
	value, ok := ctx.Value(model.LearnerIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, model.NewAppError("UNAUTHORIZED", "Learner ID not found in context", "", model.ErrUnauthorized)
	}
	return value, nil
}
