package config

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port          int           `envconfig:"PORT" default:"8090"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"`
	Version       string        `envconfig:"VERSION" default:"dev"`
	APIBaseURL    string        `envconfig:"API_BASE_URL" required:"true"`
	APITimeout    time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	EndpointsFile string        `envconfig:"ENDPOINTS_FILE" default:""`
	PollInterval  time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`

	StoreDriver string `envconfig:"STORE_DRIVER" default:"file"`
	StorePath   string `envconfig:"STORE_PATH" default:"./data/session.json"`
	StoreSecret string `envconfig:"STORE_SECRET" default:""`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"questadmin:"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	KubeconfigPath string `envconfig:"KUBECONFIG_PATH" default:""`
	Namespace      string `envconfig:"NAMESPACE" default:"default"`
	SecretName     string `envconfig:"SECRET_NAME" default:"questadmin-session"`
}

// Load reads an optional .env file, then configuration from environment
// variables into a Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
