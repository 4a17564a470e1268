package auth

import "errors"

// Sentinel errors raised by the auth service and guard. Handler code maps
// these onto HTTP statuses; the message text is what clients see, so the
// login and refresh messages are deliberately generic.
var (
	// ErrUserExists indicates a registration attempt for a taken email.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound indicates no account matched a token's identity.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// with identical wording so responses do not leak which half was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidRefreshToken is the single condition every refresh failure
	// collapses to, expired and forged alike.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrTokenNotProvided indicates a missing or malformed bearer header.
	ErrTokenNotProvided = errors.New("token not provided")
	// ErrTokenInvalid indicates a malformed or wrongly signed token.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)
