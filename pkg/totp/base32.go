package totp

import (
	"encoding/base32"
	"errors"
	"strings"
)

// enc is the RFC 4648 Base32 encoding without padding. TOTP secrets are
// exchanged unpadded so they can be typed into authenticator apps verbatim.
var enc = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeBase32 encodes raw bytes into an unpadded RFC 4648 Base32 string
// using the uppercase A-Z2-7 alphabet.
func EncodeBase32(data []byte) string {
	return enc.EncodeToString(data)
}

// DecodeBase32 decodes an RFC 4648 Base32 string back into bytes. Input is
// normalized before decoding: lowercase letters are folded to uppercase and
// any character outside the Base32 alphabet (spaces, dashes, padding) is
// stripped, so secrets copied from QR labels or typed with separators still
// decode.
func DecodeBase32(s string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '2' && r <= '7') {
			b.WriteRune(r)
		}
	}

	data, err := enc.DecodeString(b.String())
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return data, nil
}
