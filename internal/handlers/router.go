package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// RouterDeps はルーター構築に必要なハンドラと依存関係
type RouterDeps struct {
	DB              *gorm.DB
	Logger          *slog.Logger
	Authenticator   middleware.LearnerAuthenticator
	LearnerHandler  *LearnerHandler
	ReviewHandler   *ReviewHandler
	QuestionHandler *QuestionHandler
}

// NewRouter は API 全体のルーティングを組み立てます。
func NewRouter(cfg *config.Config, deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(deps.Logger))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
		Debug:            false,
	})
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/learners", deps.LearnerHandler.CreateLearner)

		// --- Protected routes (require learner ID) ---
		r.Group(func(r chi.Router) {
			r.Use(middleware.LearnerIdentity(cfg, deps.Authenticator))

			r.Get("/learners/me", deps.LearnerHandler.GetMe)

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", deps.ReviewHandler.GetReviewBatch)
				r.Post("/{kind}/{item_id}", deps.ReviewHandler.SubmitReview)
			})

			r.Get("/questions/{question_id}", deps.QuestionHandler.GetQuestion)
			r.Get("/options", deps.QuestionHandler.ListOptions)
		})
	})

	r.Get("/health", healthHandler(deps.DB))

	return r
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.GetLogger(r.Context())
		sqlDB, err := db.DB()
		if err != nil {
			logger.Error("Health check failed: could not get DB object", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		if err := sqlDB.PingContext(r.Context()); err != nil {
			logger.Error("Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}
