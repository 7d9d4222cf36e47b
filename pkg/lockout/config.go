package lockout

import (
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically
)

const (
	// DefaultMaxAttempts is the failed-attempt threshold before lockout.
	DefaultMaxAttempts = 5

	// DefaultDuration is how long a lockout lasts once armed.
	DefaultDuration = 15 * time.Minute
)

// Config carries the lockout policy thresholds.
type Config struct {
	MaxAttempts int           `env:"LOCKOUT_MAX_ATTEMPTS" envDefault:"5"`
	Duration    time.Duration `env:"LOCKOUT_DURATION" envDefault:"15m"`
}

// LoadConfig parses the lockout configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
	return c
}
