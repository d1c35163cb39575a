// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	Auth     AuthConfig     `mapstructure:"auth"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
	Outbox   OutboxConfig   `mapstructure:"outbox"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" または "sqlite"
	URL    string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	ReviewLimit     int `mapstructure:"review_limit"`
	DistractorCount int `mapstructure:"distractor_count"`
}

type AuthConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ClientConfig は review サブコマンド (端末クライアント) の設定
type ClientConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	LearnerID      string        `mapstructure:"learner_id"`
	Token          string        `mapstructure:"token"`
	Kind           string        `mapstructure:"kind"`
	Detail         bool          `mapstructure:"detail"` // question を詳細取得方式で組み立てる
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// OutboxConfig は復習結果送信キューの設定
type OutboxConfig struct {
	Capacity      int           `mapstructure:"capacity"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	BaseBackoff   time.Duration `mapstructure:"base_backoff"`
	MaxBackoff    time.Duration `mapstructure:"max_backoff"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	FlushTimeout  time.Duration `mapstructure:"flush_timeout"`
}

var Cfg Config

func LoadConfig(path string) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	// APP_DATABASE_URL のように接頭辞付きの環境変数で上書きできる
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	v.BindEnv("auth.enabled", "AUTH_ENABLED")
	v.BindEnv("database.url", "APP_DATABASE_URL", "DATABASE_URL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}
	ApplyDefaults(&cfg)
	Cfg = cfg

	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if Cfg.Auth.Enabled && Cfg.Auth.JWTSecret == "" {
		log.Println("Warning: auth is enabled but jwt_secret is empty.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Review Limit: %d", Cfg.App.ReviewLimit)
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DefaultDatabaseDriver)
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("auth.enabled", DefaultAuthEnabled)
	v.SetDefault("client.kind", DefaultReviewKind)
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type", "X-Learner-ID", "X-Request-ID"})
}

// ApplyDefaults は未設定・不正な値をデフォルト値で埋めます。
// viper を通さずに組み立てた Config (テストなど) にも使えます。
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDatabaseDriver
	}
	if cfg.App.ReviewLimit <= 0 {
		cfg.App.ReviewLimit = DefaultAppReviewLimit
	}
	if cfg.App.DistractorCount <= 0 {
		cfg.App.DistractorCount = DefaultDistractorCount
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = DefaultClientBaseURL
	}
	if cfg.Client.Kind == "" {
		cfg.Client.Kind = DefaultReviewKind
	}
	if cfg.Client.RequestTimeout <= 0 {
		cfg.Client.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Outbox.Capacity <= 0 {
		cfg.Outbox.Capacity = DefaultOutboxCapacity
	}
	if cfg.Outbox.MaxAttempts <= 0 {
		cfg.Outbox.MaxAttempts = DefaultOutboxMaxAttempts
	}
	if cfg.Outbox.BaseBackoff <= 0 {
		cfg.Outbox.BaseBackoff = DefaultOutboxBaseBackoff
	}
	if cfg.Outbox.MaxBackoff < cfg.Outbox.BaseBackoff {
		cfg.Outbox.MaxBackoff = DefaultOutboxMaxBackoff
	}
	if cfg.Outbox.RatePerSecond <= 0 {
		cfg.Outbox.RatePerSecond = DefaultOutboxRatePerSecond
	}
	if cfg.Outbox.FlushTimeout <= 0 {
		cfg.Outbox.FlushTimeout = DefaultOutboxFlushTimeout
	}
}
