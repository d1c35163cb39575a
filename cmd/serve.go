package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go_4_vocab_quiz/internal/config"
	"go_4_vocab_quiz/internal/handlers"
	"go_4_vocab_quiz/internal/repository"
	"go_4_vocab_quiz/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newServeCmd() *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the review API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run AutoMigrate before serving")
	return cmd
}

// openDB は設定された DB に接続します。呼び出し側で close を defer してください。
func openDB(logger *slog.Logger) (*gorm.DB, func(), error) {
	db, err := repository.NewDB(config.Cfg.Database.Driver, config.Cfg.Database.URL, logger)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Error("Error closing database connection", slog.Any("error", err))
		} else {
			logger.Info("Database connection closed.")
		}
	}
	return db, closeFn, nil
}

func runServe(ctx context.Context, migrate bool) error {
	logger := slog.Default()
	cfg := &config.Cfg
	logger.Info("Application starting...", slog.String("version", config.AppVersion))

	db, closeDB, err := openDB(logger)
	if err != nil {
		return err
	}
	defer closeDB()

	if migrate {
		if err := repository.Migrate(db); err != nil {
			return err
		}
		logger.Info("Database migrated")
	}

	// Dependency Injection
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
		Logger:          logger,
		Authenticator:   learnerService,
		LearnerHandler:  handlers.NewLearnerHandler(learnerService),
		ReviewHandler:   handlers.NewReviewHandler(reviewService),
		QuestionHandler: handlers.NewQuestionHandler(questionService),
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", slog.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Could not listen on port", slog.String("port", cfg.Server.Port), slog.Any("error", err))
			return err
		}
	case <-ctx.Done():
	}

	// Graceful Shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", err))
		return err
	}
	logger.Info("Server exiting")
	return nil
}
