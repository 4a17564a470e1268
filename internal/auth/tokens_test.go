package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/gatehouse-api/gatehouse/testing"
)

func newTestCodec() *TokenCodec {
	return NewTokenCodec("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.SignAccess(42, "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.NotNil(t, claims.IssuedAt)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestCrossSecretTokensAlwaysFail(t *testing.T) {
	codec := newTestCodec()

	accessToken, err := codec.SignAccess(1, "a@x.com")
	require.NoError(t, err)
	refreshToken, err := codec.SignRefresh(1, "a@x.com")
	require.NoError(t, err)

	_, err = codec.VerifyRefresh(accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = codec.VerifyAccess(refreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenIsDistinguishable(t *testing.T) {
	current := time.Now()
	codec := newTestCodec().WithClock(func() time.Time { return current })

	token, err := codec.SignAccess(7, "late@x.com")
	require.NoError(t, err)

	// Still valid just before expiry.
	current = current.Add(59 * time.Minute)
	_, err = codec.VerifyAccess(token)
	require.NoError(t, err)

	// Expired afterwards, and the reason is not conflated with "invalid".
	current = current.Add(2 * time.Minute)
	_, err = codec.VerifyAccess(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestTamperedTokenRejected(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.SignAccess(9, "tamper@x.com")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = codec.VerifyAccess(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = codec.VerifyAccess("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerificationTokenHasFixedTTL(t *testing.T) {
	current := time.Now()
	// Access TTL far larger than the verification TTL to prove the
	// verification token does not inherit it.
	codec := NewTokenCodec("access-secret", "refresh-secret", 48*time.Hour, 7*24*time.Hour).
		WithClock(func() time.Time { return current })

	token, err := codec.SignVerification(3, "v@x.com")
	require.NoError(t, err)

	current = current.Add(59 * time.Minute)
	_, err = codec.VerifyVerification(token)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = codec.VerifyVerification(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerificationTokenSharesAccessSecret(t *testing.T) {
	codec := newTestCodec()

	token, err := codec.SignVerification(5, "shared@x.com")
	require.NoError(t, err)

	// The scheme signs verification tokens with the access secret, so the
	// refresh verifier must still reject them.
	_, err = codec.VerifyRefresh(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
