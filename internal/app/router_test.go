package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse-api/gatehouse/internal/auth"
	"github.com/gatehouse-api/gatehouse/internal/users"
	"github.com/gatehouse-api/gatehouse/internal/view"
	_ "github.com/gatehouse-api/gatehouse/testing"
)

// stubRepo serves a single fixed account.
type stubRepo struct {
	user *users.User
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	if s.user != nil && s.user.Email == email {
		clone := *s.user
		return &clone, nil
	}
	return nil, users.ErrNotFound
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*users.User, error) {
	if s.user != nil && s.user.ID == id {
		clone := *s.user
		return &clone, nil
	}
	return nil, users.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, user users.User) (*users.User, error) {
	return nil, users.ErrAlreadyExists
}

func (s *stubRepo) SetEmailVerified(ctx context.Context, id int64, verifiedAt time.Time) error {
	return nil
}

var _ users.Repository = (*stubRepo)(nil)

type noopMailer struct{}

func (noopMailer) SendVerificationEmail(ctx context.Context, to, name, link string) {}

func newTestRouter(t *testing.T, readiness []ReadinessCheck) (http.Handler, string) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := &stubRepo{user: &users.User{
		ID:        1,
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@x.com",
	}}
	codec := auth.NewTokenCodec("access-secret", "refresh-secret", time.Hour, time.Hour)
	service := auth.NewService(logger, repo, codec, auth.NewPasswordHasher(4), noopMailer{})
	templates, err := view.NewEngine()
	require.NoError(t, err)
	handler := auth.NewHandler(logger, service, templates)

	public := auth.NewPublicRoutes()
	guard := auth.NewGuard(logger, codec, repo, public)

	router := NewRouter(RouterParams{
		Logger:       logger,
		Config:       &Config{},
		Guard:        guard,
		PublicRoutes: public,
		AuthHandler:  handler,
		Readiness:    readiness,
	})

	token, err := codec.SignAccess(repo.user.ID, repo.user.Email)
	require.NoError(t, err)
	return router, token
}

func TestHealthzReportsReady(t *testing.T) {
	router, _ := newTestRouter(t, []ReadinessCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
		{Name: "redis", Check: func(ctx context.Context) error { return nil }},
	})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"ok"`)
}

func TestHealthzNamesFailingDependency(t *testing.T) {
	router, _ := newTestRouter(t, []ReadinessCheck{
		{Name: "postgres", Check: func(ctx context.Context) error { return nil }},
		{Name: "redis", Check: func(ctx context.Context) error { return errors.New("connection refused") }},
	})

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
	assert.Contains(t, res.Body.String(), "redis")
}

func TestCredentialRateLimitSparesSessionRoutes(t *testing.T) {
	router, token := newTestRouter(t, nil)

	// Authenticated whoami traffic is not subject to the tight bucket.
	for i := 0; i < 12; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/auth/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code, "request %d", i+1)
	}

	// Login attempts from the same client throttle after ten.
	var last int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"grace@x.com","password":"wrong-password"}`))
		req.Header.Set("Content-Type", "application/json")
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		last = res.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}
