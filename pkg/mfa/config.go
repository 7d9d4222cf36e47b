package mfa

import (
	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically
)

// Config carries the enrollment parameters of the MFA service.
type Config struct {
	// Issuer is the service name shown in authenticator apps.
	Issuer string `env:"MFA_ISSUER" envDefault:"mfakit"`

	// BackupCodeCount is the number of recovery codes issued per batch.
	BackupCodeCount int `env:"MFA_BACKUP_CODE_COUNT" envDefault:"10"`

	// QRCodeSize is the enrollment QR image size in pixels.
	QRCodeSize int `env:"MFA_QR_CODE_SIZE" envDefault:"256"`
}

// LoadConfig parses the MFA service configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
