package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/evote/pkg/cryptox"
	"github.com/aussiebroadwan/evote/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testIssuer = "evote-test"

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	s, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return s
}

func TestSignAndVerify(t *testing.T) {
	signer := newSigner(t, "k1")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "k1", signer.KID())

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("voter-1", "project-1",
		[]string{"ballot:read", "ballot:write"}, []string{"otp"},
		5*time.Minute, testIssuer, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	jwks := keys.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	got, err := jwtx.NewVerifierEdDSA(keys, testIssuer, nil).Verify(token)
	require.NoError(t, err)
	require.Equal(t, "voter-1", got.Subject)
	require.Equal(t, "project-1", got.ProjectID)
	require.ElementsMatch(t, claims.Scopes, got.Scopes)
	require.Equal(t, []string{"otp"}, got.AMR)
	require.NotEmpty(t, got.ID)
	require.True(t, got.HasScope("ballot:write"))
	require.False(t, got.HasScope("admin:write"))
}

func TestVerifyRejects(t *testing.T) {
	signer := newSigner(t, "k1")
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	now := time.Now().UTC()
	sign := func(c jwtx.Claims) string {
		tok, err := signer.Sign(c)
		require.NoError(t, err)
		return tok
	}

	t.Run("wrong issuer", func(t *testing.T) {
		tok := sign(jwtx.NewSessionClaims("s", "", nil, nil, time.Minute, testIssuer, now))
		_, err := jwtx.NewVerifierEdDSA(keys, "someone-else", nil).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("unknown key", func(t *testing.T) {
		other := newSigner(t, "k2")
		tok, err := other.Sign(jwtx.NewSessionClaims("s", "", nil, nil, time.Minute, testIssuer, now))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(keys, testIssuer, nil).Verify(tok)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("expired", func(t *testing.T) {
		tok := sign(jwtx.NewSessionClaims("s", "", nil, nil, time.Minute, testIssuer, now))
		v := jwtx.NewVerifierEdDSA(keys, testIssuer, nil)
		v.Now = func() time.Time { return now.Add(2 * time.Minute) }
		_, err := v.Verify(tok)
		require.Error(t, err)
	})

	t.Run("not a token", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keys, testIssuer, nil).Verify("garbage")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}

func TestClaimsValidation(t *testing.T) {
	now := time.Now().UTC()
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "evote",
		Audience:  []string{"voters"},
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}}

	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("other"), jwtx.ErrIssuer)
	require.NoError(t, c.ValidateAudience([]string{"admins", "voters"}))
	require.ErrorIs(t, c.ValidateAudience([]string{"admins"}), jwtx.ErrAudience)
	require.NoError(t, c.ValidateExpiry(now.Add(30*time.Second)))
	require.ErrorIs(t, c.ValidateExpiry(now.Add(2*time.Minute)), jwtx.ErrExpired)
	require.ErrorIs(t, c.ValidateExpiry(now.Add(-time.Minute)), jwtx.ErrNotYetValid)
}

func TestInvalidPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("k", []byte("not-a-pem-key"))
	require.ErrorContains(t, err, "invalid PEM")
}

func TestEphemeralKeyManager(t *testing.T) {
	_, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err, "issuer is required")

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer})
	require.NoError(t, err)
	require.Equal(t, 3, km.NumSigners())
	require.True(t, km.IsReady())
	require.Len(t, km.KeySet.PublicJWKS().Keys, 3)

	km, err = jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, NumKeys: 50})
	require.NoError(t, err)
	require.Equal(t, 10, km.NumSigners())

	// Every signer's tokens verify through the shared verifier.
	for range 20 {
		tok, err := km.GetSigner().Sign(jwtx.NewSessionClaims("a", "", nil, nil, time.Minute, testIssuer, time.Now().UTC()))
		require.NoError(t, err)
		_, err = km.Verifier.Verify(tok)
		require.NoError(t, err)
	}
}
