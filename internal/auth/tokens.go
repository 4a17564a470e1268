package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerificationTTL bounds the validity of email-verification tokens.
const VerificationTTL = time.Hour

// Claims is the signed payload carried by every token the codec issues.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the three token kinds the API uses. Access
// and verification tokens share the access secret; refresh tokens use an
// independent secret so compromise of one key never compromises the other.
// Tokens are never interchangeable across kinds: each kind has its own
// verify method and a token only checks out against its own secret.
type TokenCodec struct {
	accessSecret  []byte
	accessTTL     time.Duration
	refreshSecret []byte
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenCodec constructs a codec from the two signing secrets and TTLs.
func NewTokenCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(accessSecret),
		accessTTL:     accessTTL,
		refreshSecret: []byte(refreshSecret),
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// WithClock overrides the codec's clock. Tests use this to simulate expiry.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

// SignAccess mints a short-lived access token over {id, email}.
func (c *TokenCodec) SignAccess(userID int64, email string) (string, error) {
	return c.sign(userID, email, c.accessSecret, c.accessTTL)
}

// SignRefresh mints a refresh token under the refresh secret.
func (c *TokenCodec) SignRefresh(userID int64, email string) (string, error) {
	return c.sign(userID, email, c.refreshSecret, c.refreshTTL)
}

// SignVerification mints the one-shot email-verification token. It is
// signed with the access secret but carries the fixed verification TTL.
func (c *TokenCodec) SignVerification(userID int64, email string) (string, error) {
	return c.sign(userID, email, c.accessSecret, VerificationTTL)
}

// VerifyAccess validates a token against the access secret.
func (c *TokenCodec) VerifyAccess(token string) (*Claims, error) {
	return c.verify(token, c.accessSecret)
}

// VerifyRefresh validates a token against the refresh secret.
func (c *TokenCodec) VerifyRefresh(token string) (*Claims, error) {
	return c.verify(token, c.refreshSecret)
}

// VerifyVerification validates an email-verification token. Verification
// tokens share the access secret, so this is a distinct entry point kept
// separate from VerifyAccess on purpose: the guard must never accept a
// verification token by accident if the schemes diverge later.
func (c *TokenCodec) VerifyVerification(token string) (*Claims, error) {
	return c.verify(token, c.accessSecret)
}

func (c *TokenCodec) sign(userID int64, email string, secret []byte, ttl time.Duration) (string, error) {
	now := c.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

func (c *TokenCodec) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: could not decode token claims")
	}
	return claims, nil
}
