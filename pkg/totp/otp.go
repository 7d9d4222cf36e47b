package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"errors"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultDigits    = 6      // Standard 6-digit TOTP codes
	DefaultPeriod    = 30     // 30-second validity window (RFC 6238 standard)
	DefaultAlgorithm = "SHA1" // HMAC-SHA1 algorithm (RFC 6238 standard)

	// secretSize is 160 bits, the RFC 4226 recommendation for HMAC-SHA1 keys.
	secretSize = 20
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

	codeRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, DefaultDigits))
)

// URIParams contains the parameters for otpauth URI generation.
type URIParams struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
	Algorithm   string // HMAC algorithm (optional, defaults to SHA1)
	Digits      int    // Number of digits in generated codes (optional, defaults to 6)
	Period      int    // Code validity period in seconds (optional, defaults to 30)
}

// Validate ensures all required URI parameters are present and valid.
func (p URIParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}

// GetDefaults returns a copy with RFC 6238 standard defaults applied to zero-valued fields.
func (p URIParams) GetDefaults() URIParams {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// GenerateSecretKey generates a new Base32-encoded secret key for TOTP.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, secretSize)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return EncodeBase32(secret), nil
}

// GetTOTPURI creates a properly encoded TOTP URI for use with authenticator apps.
// The URI format follows the Key Uri Format specification:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func GetTOTPURI(params URIParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	params = params.GetDefaults()

	label := fmt.Sprintf("%s:%s",
		url.PathEscape(params.Issuer),
		url.PathEscape(params.AccountName),
	)

	query := url.Values{}
	query.Set("secret", params.Secret)
	query.Set("issuer", params.Issuer)
	query.Set("algorithm", params.Algorithm)
	query.Set("digits", fmt.Sprintf("%d", params.Digits))
	query.Set("period", fmt.Sprintf("%d", params.Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}

// GenerateCode generates the 6-digit code for the 30-second window containing
// the given time. The secret must be a Base32-encoded string; decoding is
// tolerant of separators and lowercase input.
func GenerateCode(secret string, t time.Time) (string, error) {
	key, err := DecodeBase32(secret)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	if len(key) == 0 {
		return "", errors.Join(ErrFailedToGenerateTOTP, ErrInvalidSecret)
	}

	counter := t.Unix() / int64(DefaultPeriod)
	code := GenerateHOTP(key, counter, DefaultDigits)

	return fmt.Sprintf("%0*d", DefaultDigits, code), nil
}

// ValidateCode checks a user-supplied code against the secret, accepting the
// previous, current, and next 30-second windows to absorb clock drift.
// Candidate codes are compared in constant time so the comparison cannot leak
// how many leading digits matched.
func ValidateCode(secret, code string) (bool, error) {
	return ValidateCodeAt(secret, code, time.Now())
}

// ValidateCodeAt is ValidateCode pinned to a reference time, for callers that
// need deterministic verification (primarily tests).
func ValidateCodeAt(secret, code string, t time.Time) (bool, error) {
	key, err := DecodeBase32(secret)
	if err != nil {
		return false, err
	}
	if len(key) == 0 {
		return false, ErrInvalidSecret
	}

	code = strings.TrimSpace(code)
	if !codeRegex.MatchString(code) {
		return false, ErrInvalidOTP
	}

	counter := t.Unix() / int64(DefaultPeriod)

	match := 0
	for i := int64(-1); i <= 1; i++ {
		candidate := fmt.Sprintf("%0*d", DefaultDigits, GenerateHOTP(key, counter+i, DefaultDigits))
		// Evaluate every window rather than returning early so validation
		// time does not depend on which window matched.
		match |= subtle.ConstantTimeCompare([]byte(candidate), []byte(code))
	}

	return match == 1, nil
}

// GenerateHOTP implements the RFC 4226 HMAC-based One-Time Password algorithm.
// The algorithm converts a counter value into a numeric code using HMAC-SHA1.
func GenerateHOTP(key []byte, counter int64, digits int) int {
	// Convert counter to big-endian 8-byte array (RFC 4226 requirement)
	counterBytes := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		counterBytes[i] = byte(counter & 0xff)
		counter = counter >> 8
	}

	// Calculate HMAC-SHA1 hash of the counter
	hmacHash := hmac.New(sha1.New, key)
	hmacHash.Write(counterBytes)
	hash := hmacHash.Sum(nil)

	// Dynamic truncation (RFC 4226): use last 4 bits as offset into hash
	offset := hash[len(hash)-1] & 0x0f
	// Extract 31-bit value (clear MSB to ensure positive number)
	code := (int(hash[offset]&0x7f) << 24) |
		(int(hash[offset+1]&0xff) << 16) |
		(int(hash[offset+2]&0xff) << 8) |
		(int(hash[offset+3] & 0xff))

	// Reduce to desired number of digits
	return code % int(math.Pow10(digits))
}
