package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gatehouse-api/gatehouse/internal/users"
)

// VerificationMailer dispatches a verification email without blocking the
// caller. Implementations queue the message and report delivery failures
// through their own logging; the auth flows never learn about them.
type VerificationMailer interface {
	SendVerificationEmail(ctx context.Context, to, name, link string)
}

// verifyEmailPath is the fixed callback path appended to the base URL when
// building verification links.
const verifyEmailPath = "/api/auth/verify-email"

// TokenPair is an access/refresh token pair minted together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// WhoamiData is the public-safe subset of account fields. Pointer fields
// stay nil when the account no longer exists.
type WhoamiData struct {
	ID        *int64  `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
}

// Service orchestrates registration, login, refresh and the email
// verification handshake.
type Service struct {
	logger *slog.Logger
	repo   users.Repository
	codec  *TokenCodec
	hasher *PasswordHasher
	mailer VerificationMailer
	now    func() time.Time
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, repo users.Repository, codec *TokenCodec, hasher *PasswordHasher, mailer VerificationMailer) *Service {
	return &Service{
		logger: logger,
		repo:   repo,
		codec:  codec,
		hasher: hasher,
		mailer: mailer,
		now:    time.Now,
	}
}

// WithClock overrides the service clock for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates an account with an unverified email and dispatches the
// verification link. The existence check and the insert are not atomic;
// the store's unique constraint decides a race and also maps to
// ErrUserExists.
func (s *Service) Register(ctx context.Context, input RegisterInput, baseURL string) error {
	_, err := s.repo.FindByEmail(ctx, input.Email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, users.ErrNotFound) {
		return fmt.Errorf("auth: register lookup: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, users.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, users.ErrAlreadyExists) {
			return ErrUserExists
		}
		return fmt.Errorf("auth: create user: %w", err)
	}

	s.dispatchVerification(ctx, user, baseURL)
	return nil
}

// ResendVerificationEmail re-sends the verification link. Unknown and
// already-verified emails are silent no-ops so responses cannot be used
// for account enumeration.
func (s *Service) ResendVerificationEmail(ctx context.Context, email, baseURL string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("auth: resend lookup: %w", err)
	}
	if user.Verified() {
		return nil
	}

	s.dispatchVerification(ctx, user, baseURL)
	return nil
}

// VerifyEmail consumes a verification token and stamps the account as
// verified. Re-submitting a still-valid token re-stamps the same value,
// which is benign.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.codec.VerifyVerification(token)
	if err != nil {
		return err
	}

	user, err := s.repo.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("auth: verify lookup: %w", err)
	}

	if err := s.repo.SetEmailVerified(ctx, user.ID, s.now()); err != nil {
		return fmt.Errorf("auth: set verified: %w", err)
	}
	return nil
}

// Login checks credentials and mints a token pair. Unknown email and wrong
// password produce the identical ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: login lookup: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.mintTokenPair(ctx, user.ID, user.Email)
}

// Refresh exchanges a refresh token for a fresh access/refresh pair.
// Every failure mode collapses to ErrInvalidRefreshToken; callers learn
// nothing about why the exchange failed. The old refresh token is not
// invalidated, rotation here is issue-new only.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	pair, err := s.mintTokenPair(ctx, user.ID, user.Email)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	return pair, nil
}

// Whoami returns the public-safe account fields for an id the guard has
// already authenticated. A since-deleted account yields empty data rather
// than an error.
func (s *Service) Whoami(ctx context.Context, userID int64) (*WhoamiData, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return &WhoamiData{}, nil
		}
		return nil, fmt.Errorf("auth: whoami lookup: %w", err)
	}
	return &WhoamiData{
		ID:        &user.ID,
		FirstName: &user.FirstName,
		LastName:  &user.LastName,
		Email:     &user.Email,
	}, nil
}

// mintTokenPair generates the access and refresh tokens concurrently.
// Both must succeed or no pair is returned.
func (s *Service) mintTokenPair(ctx context.Context, userID int64, email string) (*TokenPair, error) {
	var pair TokenPair
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		token, err := s.codec.SignAccess(userID, email)
		pair.AccessToken = token
		return err
	})
	g.Go(func() error {
		token, err := s.codec.SignRefresh(userID, email)
		pair.RefreshToken = token
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("auth: mint token pair: %w", err)
	}
	return &pair, nil
}

func (s *Service) dispatchVerification(ctx context.Context, user *users.User, baseURL string) {
	token, err := s.codec.SignVerification(user.ID, user.Email)
	if err != nil {
		// Delivery problems never surface to the registration caller.
		s.logger.Error("sign verification token", slog.Any("error", err))
		return
	}
	link := baseURL + verifyEmailPath + "?token=" + url.QueryEscape(token)
	s.mailer.SendVerificationEmail(ctx, user.Email, user.FirstName+" "+user.LastName, link)
}
