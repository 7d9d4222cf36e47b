package secrets

import (
	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically
)

// Config carries the key material the cipher derives from.
type Config struct {
	// EncryptionKey is the dedicated MFA encryption key. Required in
	// production; development deployments may fall back to SessionSecret.
	EncryptionKey string `env:"MFA_ENCRYPTION_KEY"`

	// SessionSecret is the session-token signing secret. It doubles as the
	// legacy-format key and the development fallback for EncryptionKey.
	SessionSecret string `env:"JWT_SECRET"`

	// Environment gates the fallback: "production" requires EncryptionKey.
	Environment string `env:"APP_ENV" envDefault:"development"`
}

// LoadConfig parses the cipher configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// IsProduction reports whether the config targets a production deployment.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate enforces the startup-time key requirements before the cipher can
// be constructed, so a misconfigured deployment fails fast rather than at
// the first encryption call.
func (c Config) Validate() error {
	if c.IsProduction() && c.EncryptionKey == "" {
		return ErrEncryptionKeyRequired
	}
	if c.EncryptionKey == "" && c.SessionSecret == "" {
		return ErrNoKeyMaterial
	}
	return nil
}
