package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// GenerateNumericCode returns a fixed-width decimal one-time code. Each call
// derives the code from a fresh random HOTP secret and counter, so codes are
// independent of each other and zero padded to the requested width.
func GenerateNumericCode(digits otp.Digits) (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("failed to generate code secret: %w", err)
	}

	var counter [8]byte
	if _, err := rand.Read(counter[:]); err != nil {
		return "", fmt.Errorf("failed to generate code counter: %w", err)
	}

	code, err := hotp.GenerateCodeCustom(
		base32.StdEncoding.EncodeToString(secret),
		binary.BigEndian.Uint64(counter[:]),
		hotp.ValidateOpts{Digits: digits, Algorithm: otp.AlgorithmSHA1},
	)
	if err != nil {
		return "", fmt.Errorf("failed to derive code: %w", err)
	}

	return code, nil
}

// IsNumericCode reports whether s is exactly digits ASCII decimal digits.
func IsNumericCode(s string, digits otp.Digits) bool {
	if len(s) != digits.Length() {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
