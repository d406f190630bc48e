package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings for the messaging service.
// Values come from environment variables; a local .env file is loaded first
// when present so development machines don't have to export anything.
type Config struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	DatabaseURL       string        `envconfig:"DB_URL" required:"true"`
	RedisURL          string        `envconfig:"REDIS_URL" required:"true"`
	JWTSecret         string        `envconfig:"JWT_SECRET" required:"true"`
	LogLevel          string        `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON           bool          `envconfig:"LOG_JSON" default:"true"`
	StoreTimeout      time.Duration `envconfig:"STORE_TIMEOUT" default:"5s"`
	WorkerConcurrency int           `envconfig:"WORKER_CONCURRENCY" default:"10"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	// Missing .env is fine; production supplies real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
