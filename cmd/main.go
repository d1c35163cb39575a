// cmd/main.go
package main

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_4_vocab_quiz/internal/config"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var configDir string

func main() {
	rootCmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Spaced-repetition vocabulary and question review",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// 設定ファイル読み込み用の一時的なロガー
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
			if err := config.LoadConfig(configDir); err != nil {
				return err
			}
			slog.SetDefault(newLogger(config.Cfg.Log.Level))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")

	rootCmd.AddCommand(newServeCmd(), newReviewCmd(), newSeedCmd(), newMigrateCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// newLogger は APP_ENV=dev なら tint、それ以外は JSON の slog ロガーを作ります。
func newLogger(level string) *slog.Logger {
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})
	}
	log.Printf("Using %s log handler (APP_ENV=%q)", handlerName(appEnv), appEnv)
	return slog.New(handler)
}

func handlerName(appEnv string) string {
	if strings.ToLower(appEnv) == "dev" {
		return "tint"
	}
	return "JSON"
}
