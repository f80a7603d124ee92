package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Finances"`
		Port int    `envconfig:"PORT" default:"3333"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finances"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Pretty bool   `envconfig:"LOG_PRETTY" default:"false"`
	}

	Import struct {
		// FromLine is the 1-based line where CSV data starts; earlier lines are the header.
		FromLine      int     `envconfig:"IMPORT_FROM_LINE" default:"2"`
		UploadDir     string  `envconfig:"IMPORT_UPLOAD_DIR" default:"tmp"`
		MaxUploadSize int64   `envconfig:"IMPORT_MAX_UPLOAD_BYTES" default:"10485760"`
		Similarity    float64 `envconfig:"IMPORT_SIMILARITY_THRESHOLD" default:"0.34"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Import.FromLine < 1 {
		return nil, fmt.Errorf("IMPORT_FROM_LINE must be at least 1, got %d", cfg.Import.FromLine)
	}

	return &cfg, nil
}
