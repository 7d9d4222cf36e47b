package secrets

import (
	"encoding/hex"
	"errors"
	"strings"
)

const (
	// versionPrefix marks ciphertexts produced with per-record salts.
	versionPrefix = "v2$"

	saltSize = 16
	ivSize   = 16
	tagSize  = 16
)

// format identifies which wire layout a ciphertext uses.
type format int

const (
	formatLegacy format = iota // iv || tag || ct, fixed app-wide salt
	formatV2                   // salt || iv || tag || ct, per-record salt
)

// envelope is the parsed representation of a stored ciphertext. Parsing into
// a tagged value first keeps the hex-slicing in one place; decryption then
// dispatches on Format alone.
type envelope struct {
	Format     format
	Salt       []byte // nil for legacy
	IV         []byte
	Tag        []byte
	Ciphertext []byte
}

// parseEnvelope splits a stored ciphertext string into its envelope. It
// dispatches on the presence of the version prefix and validates segment
// lengths, so malformed input fails here rather than inside AES-GCM.
func parseEnvelope(s string) (envelope, error) {
	if rest, ok := strings.CutPrefix(s, versionPrefix); ok {
		raw, err := hex.DecodeString(rest)
		if err != nil {
			return envelope{}, errors.Join(ErrInvalidCiphertext, err)
		}
		if len(raw) < saltSize+ivSize+tagSize {
			return envelope{}, ErrInvalidCiphertext
		}
		return envelope{
			Format:     formatV2,
			Salt:       raw[:saltSize],
			IV:         raw[saltSize : saltSize+ivSize],
			Tag:        raw[saltSize+ivSize : saltSize+ivSize+tagSize],
			Ciphertext: raw[saltSize+ivSize+tagSize:],
		}, nil
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return envelope{}, errors.Join(ErrInvalidCiphertext, err)
	}
	if len(raw) < ivSize+tagSize {
		return envelope{}, ErrInvalidCiphertext
	}
	return envelope{
		Format:     formatLegacy,
		IV:         raw[:ivSize],
		Tag:        raw[ivSize : ivSize+tagSize],
		Ciphertext: raw[ivSize+tagSize:],
	}, nil
}

// encode serializes the envelope back to its storage string.
func (e envelope) encode() string {
	var b strings.Builder
	if e.Format == formatV2 {
		b.WriteString(versionPrefix)
		b.WriteString(hex.EncodeToString(e.Salt))
	}
	b.WriteString(hex.EncodeToString(e.IV))
	b.WriteString(hex.EncodeToString(e.Tag))
	b.WriteString(hex.EncodeToString(e.Ciphertext))
	return b.String()
}
