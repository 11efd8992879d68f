package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"storybook-server/internal/ai"
	"storybook-server/pkg/logger"
)

// Config содержит конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Logger   logger.Config
	Store    StoreConfig
	AI       ai.Config
	Retry    RetryConfig
	Autosave AutosaveConfig
	Runs     RunsConfig
}

// ServerConfig содержит конфигурацию HTTP-сервера
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"0"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

// StoreConfig выбирает бэкенд персистентного хранилища.
// Backend: redis, sqlite или memory.
type StoreConfig struct {
	Backend    string `env:"STORE_BACKEND" env-default:"sqlite"`
	RedisAddr  string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisPass  string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB    int    `env:"REDIS_DB" env-default:"0"`
	SQLitePath string `env:"SQLITE_PATH" env-default:"storybook.db"`
}

// RetryConfig управляет повторами генерации изображений.
type RetryConfig struct {
	MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" env-default:"4"`
	Delay       time.Duration `env:"RETRY_DELAY" env-default:"20s"`
}

// AutosaveConfig управляет периодом сброса черновиков.
type AutosaveConfig struct {
	Interval time.Duration `env:"AUTOSAVE_INTERVAL" env-default:"60s"`
}

// RunsConfig ограничивает параллельные запуски генерации.
type RunsConfig struct {
	MaxActive int           `env:"RUNS_MAX_ACTIVE" env-default:"4"`
	Retention time.Duration `env:"RUNS_RETENTION" env-default:"1h"`
}

// Load читает конфигурацию из переменных окружения.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}
