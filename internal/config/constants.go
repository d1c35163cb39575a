// internal/config/constants.go
package config

import (
	"strings"
	"time"
)

// アプリケーション情報
const (
	AppName    = "vocabquiz"
	AppVersion = "0.4.0"
)

// デフォルト設定値
const (
	DefaultServerPort      = ":8080"
	DefaultDatabaseDriver  = "postgres"
	DefaultLogLevel        = "info"
	DefaultAppReviewLimit  = 20
	DefaultDistractorCount = 3
	DefaultAuthEnabled     = false
	DefaultReviewKind      = "vocab"
	DefaultClientBaseURL   = "http://localhost:8080"
	DefaultRequestTimeout  = 10 * time.Second
)

// 送信キューのデフォルト値
const (
	DefaultOutboxCapacity      = 256
	DefaultOutboxMaxAttempts   = 8
	DefaultOutboxBaseBackoff   = 500 * time.Millisecond
	DefaultOutboxMaxBackoff    = 30 * time.Second
	DefaultOutboxRatePerSecond = 5
	DefaultOutboxFlushTimeout  = 5 * time.Second
)

// client.request_timeout -> APP_CLIENT_REQUEST_TIMEOUT
var envKeyReplacer = strings.NewReplacer(".", "_")
