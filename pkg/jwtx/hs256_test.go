package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "quill-notes"

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()
	h, err := NewHS256([]byte("0123456789abcdef0123456789abcdef"), testIssuer)
	require.NoError(t, err)
	return h
}

func TestNewHS256RejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256(nil, testIssuer)
	require.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	now := time.Now().UTC()
	claims := NewAccessClaims("user-123", "user@acme.test", testIssuer, time.Hour, now)

	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", got.Subject)
	require.Equal(t, "user@acme.test", got.Email)
	require.Equal(t, testIssuer, got.Issuer)
	require.NotEmpty(t, got.ID, "jti should be set")
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	_, err := h.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrMalformed)

	_, err = h.Verify("")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	other, err := NewHS256([]byte("a completely different secret!!!"), testIssuer)
	require.NoError(t, err)

	token, err := other.Sign(NewAccessClaims("user-123", "", testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = newTestHS256(t).Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	issued := time.Now().UTC().Add(-2 * time.Hour)
	token, err := h.Sign(NewAccessClaims("user-123", "", testIssuer, time.Hour, issued))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	t.Parallel()

	imposter, err := NewHS256([]byte("0123456789abcdef0123456789abcdef"), "someone-else")
	require.NoError(t, err)

	token, err := imposter.Sign(NewAccessClaims("user-123", "", "someone-else", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = newTestHS256(t).Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestValidateExpiryNotYetValid(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	claims := NewAccessClaims("u", "", testIssuer, time.Hour, now.Add(10*time.Minute))
	require.ErrorIs(t, claims.ValidateExpiry(now), ErrNotYetValid)
	require.NoError(t, claims.ValidateExpiry(now.Add(11*time.Minute)))
}
