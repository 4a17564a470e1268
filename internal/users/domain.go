package users

import "time"

// User represents a registered account.
type User struct {
	ID              int64
	FirstName       string
	LastName        string
	Email           string
	PasswordHash    string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the account has completed email verification.
func (u *User) Verified() bool {
	return u != nil && u.EmailVerifiedAt != nil
}
