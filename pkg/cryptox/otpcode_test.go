package cryptox

import (
	"testing"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	seen := make(map[string]struct{})
	for range 200 {
		code, err := GenerateNumericCode(otp.DigitsSix)
		require.NoError(t, err)
		require.True(t, IsNumericCode(code, otp.DigitsSix), "code %q", code)
		seen[code] = struct{}{}
	}
	// 200 draws from a million codes; a handful of collisions at most.
	require.Greater(t, len(seen), 190)

	code, err := GenerateNumericCode(otp.DigitsEight)
	require.NoError(t, err)
	require.Len(t, code, 8)
}

func TestIsNumericCode(t *testing.T) {
	require.True(t, IsNumericCode("000123", otp.DigitsSix))
	require.False(t, IsNumericCode("12345", otp.DigitsSix))
	require.False(t, IsNumericCode("1234567", otp.DigitsSix))
	require.False(t, IsNumericCode("12a456", otp.DigitsSix))
	require.False(t, IsNumericCode("１２３４５６", otp.DigitsSix))
	require.False(t, IsNumericCode("", otp.DigitsSix))
}
