package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centralizes the client settings.
type Config struct {
	APIURL       string        `env:"NOTES_API_URL" envDefault:"http://localhost:8000"`
	HTTPTimeout  time.Duration `env:"NOTES_HTTP_TIMEOUT" envDefault:"15s"`
	StartPath    string        `env:"NOTES_START_PATH" envDefault:"home"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFile      string        `env:"LOG_FILE" envDefault:"notes.log"`
	LogMaxSizeMB int           `env:"LOG_MAX_SIZE_MB" envDefault:"10"`
	StubPort     string        `env:"STUB_PORT" envDefault:"8000"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
