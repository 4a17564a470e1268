package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gatehouse-api/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-api/gatehouse/internal/users"
)

// Guard is the request-time authorization checkpoint. Every request passes
// through it before reaching a handler; routes marked public skip token
// inspection entirely, everything else must present a valid access token
// for an account that still exists.
type Guard struct {
	logger *slog.Logger
	codec  *TokenCodec
	repo   users.Repository
	public *PublicRoutes
}

// NewGuard constructs a Guard.
func NewGuard(logger *slog.Logger, codec *TokenCodec, repo users.Repository, public *PublicRoutes) *Guard {
	return &Guard{logger: logger, codec: codec, repo: repo, public: public}
}

// Middleware enforces the guard contract on every request.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.public.IsPublic(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			httpx.Unauthorized(w, ErrTokenNotProvided.Error())
			return
		}

		claims, err := g.codec.VerifyAccess(token)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				httpx.Unauthorized(w, ErrTokenExpired.Error())
			case errors.Is(err, ErrTokenInvalid):
				httpx.Unauthorized(w, ErrTokenInvalid.Error())
			default:
				g.logger.Error("guard token verification", slog.Any("error", err))
				httpx.Internal(w)
			}
			return
		}

		user, err := g.repo.FindByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				// A valid signature over a deleted identity grants nothing.
				httpx.Unauthorized(w, ErrUserNotFound.Error())
				return
			}
			g.logger.Error("guard user lookup", slog.Any("error", err))
			httpx.Internal(w)
			return
		}

		ctx := ContextWithPrincipal(r.Context(), principalFromUser(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func principalFromUser(u *users.User) *Principal {
	return &Principal{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
