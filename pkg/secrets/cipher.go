package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/crypto/scrypt"
)

const (
	// KeySize is the derived key size for AES-256 (256 bits / 8 = 32 bytes).
	KeySize = 32

	// legacySalt is the fixed application-wide salt the pre-versioned format
	// derived its key with. Kept only so existing ciphertexts stay readable;
	// nothing is ever written with it.
	legacySalt = "mfa-salt"

	// scrypt cost parameters (interactive profile, RFC 7914 recommendations)
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// Cipher encrypts MFA secrets at rest. Writes always use the current
// versioned format (per-record salt, AES-256-GCM); reads additionally accept
// the legacy fixed-salt format so records encrypted before the migration
// still decrypt through the same entry point.
type Cipher struct {
	cfg Config
	log *slog.Logger

	warnOnce sync.Once
}

// Option configures a Cipher.
type Option func(*Cipher)

// WithLogger sets the logger used for the one-time key-fallback warning.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cipher) {
		if log != nil {
			c.log = log
		}
	}
}

// New validates the configuration and returns a ready Cipher.
//
// A dedicated MFA encryption key is preferred. When it is absent the cipher
// falls back to the session-signing secret, except in production where the
// missing dedicated key is a hard constructor error: the fallback reuses key
// material across purposes and must never reach a production deployment.
func New(cfg Config, opts ...Option) (*Cipher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Cipher{
		cfg: cfg,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encrypt encrypts a plaintext secret, always emitting the current versioned
// format. A fresh random salt and IV are generated per call so two
// encryptions of the same plaintext never share key material.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	key, err := scrypt.Key(c.baseKey(), salt, scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return "", errors.Join(ErrEncryptionFailed, err)
	}

	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	// Seal appends the auth tag to the ciphertext; the storage format keeps
	// the tag before the ciphertext, so split them here.
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return envelope{
		Format:     formatV2,
		Salt:       salt,
		IV:         iv,
		Tag:        tag,
		Ciphertext: ct,
	}.encode(), nil
}

// Decrypt decrypts a stored ciphertext in either supported format. Both
// paths authenticate via the GCM tag; tampered or wrong-key input returns
// ErrDecryptionFailed, never silently corrupted plaintext.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	env, err := parseEnvelope(ciphertext)
	if err != nil {
		return "", err
	}

	var key []byte
	switch env.Format {
	case formatV2:
		key, err = scrypt.Key(c.baseKey(), env.Salt, scryptN, scryptR, scryptP, KeySize)
	case formatLegacy:
		// The legacy format predates the dedicated key and always derived
		// from the session-signing secret with a fixed salt.
		key, err = scrypt.Key([]byte(c.cfg.SessionSecret), []byte(legacySalt), scryptN, scryptR, scryptP, KeySize)
	}
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}

	sealed := append(append([]byte{}, env.Ciphertext...), env.Tag...)
	plaintext, err := aead.Open(nil, env.IV, sealed, nil)
	if err != nil {
		return "", errors.Join(ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}

// baseKey resolves the key material the current format derives from. It must
// stay private: exposing it would turn the cipher into a master-key oracle.
// The fallback warning fires at most once per process lifetime.
func (c *Cipher) baseKey() []byte {
	if c.cfg.EncryptionKey != "" {
		return []byte(c.cfg.EncryptionKey)
	}

	c.warnOnce.Do(func() {
		c.log.Warn("MFA encryption key not set, falling back to session signing secret",
			slog.String("hint", "set MFA_ENCRYPTION_KEY to a dedicated random value"))
	})
	return []byte(c.cfg.SessionSecret)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	// 16-byte nonces match the stored IV segment width; the default GCM
	// nonce is 12 bytes.
	return cipher.NewGCMWithNonceSize(block, ivSize)
}
