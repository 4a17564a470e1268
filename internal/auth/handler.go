package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gatehouse-api/gatehouse/internal/platform/httpx"
	"github.com/gatehouse-api/gatehouse/internal/view"
)

const (
	pathRegister = "/api/auth/register"
	pathResend   = "/api/auth/resend-verification-email"
	pathVerify   = "/api/auth/verify-email"
	pathLogin    = "/api/auth/login"
	pathRefresh  = "/api/auth/refresh"
	pathWhoami   = "/api/auth/whoami"
)

// Handler wires HTTP endpoints for the auth flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		templates: templates,
		validator: validator.New(),
	}
}

// MountRoutes registers the credential endpoints and marks them public.
// These are the routes an unauthenticated caller can hammer, so the router
// mounts them behind a tighter rate limit.
func (h *Handler) MountRoutes(r chi.Router, public *PublicRoutes) {
	r.Post(pathRegister, h.register)
	public.Mark(http.MethodPost, pathRegister)

	r.Post(pathResend, h.resendVerificationEmail)
	public.Mark(http.MethodPost, pathResend)

	r.Get(pathVerify, h.verifyEmail)
	public.Mark(http.MethodGet, pathVerify)

	r.Post(pathLogin, h.login)
	public.Mark(http.MethodPost, pathLogin)

	r.Post(pathRefresh, h.refresh)
	public.Mark(http.MethodPost, pathRefresh)
}

// MountSessionRoutes registers the endpoints that require an authenticated
// principal. They stay outside the credential rate bucket; ordinary
// authenticated traffic is only bounded by the global limit.
func (h *Handler) MountSessionRoutes(r chi.Router) {
	r.Get(pathWhoami, h.whoami)
}

type registerRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type resendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	err := h.service.Register(r.Context(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}, requestBaseURL(r))
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			httpx.BadRequest(w, ErrUserExists.Error())
			return
		}
		h.logger.Error("register", slog.Any("error", err))
		httpx.Internal(w)
		return
	}

	httpx.Success(w, http.StatusCreated, "Registration successful", map[string]string{
		"message": "User registered successfully",
	})
}

func (h *Handler) resendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	// The response never reveals whether the email matched an account.
	if err := h.service.ResendVerificationEmail(r.Context(), req.Email, requestBaseURL(r)); err != nil {
		h.logger.Error("resend verification email", slog.Any("error", err))
	}
	httpx.Success(w, http.StatusOK, "You will receive an email shortly if your email is registered", nil)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		status := http.StatusBadRequest
		message := err.Error()
		if !isClientVerifyError(err) {
			h.logger.Error("verify email", slog.Any("error", err))
			status = http.StatusInternalServerError
			message = "An error occurred"
		}
		h.renderPage(w, status, "pages/error.html", "Verification failed", map[string]any{
			"Message":    message,
			"StatusCode": status,
		})
		return
	}

	h.renderPage(w, http.StatusOK, "pages/email_verified.html", "Email verified", map[string]any{
		"LoginURL": requestBaseURL(r) + "/login",
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	pair, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.BadRequest(w, ErrInvalidCredentials.Error())
			return
		}
		h.logger.Error("login", slog.Any("error", err))
		httpx.Internal(w)
		return
	}

	httpx.Success(w, http.StatusOK, "Login successful", pair)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.ValidationFailed(w, err)
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			httpx.Unauthorized(w, ErrInvalidRefreshToken.Error())
			return
		}
		h.logger.Error("refresh", slog.Any("error", err))
		httpx.Internal(w)
		return
	}

	httpx.Success(w, http.StatusOK, "Token refresh successful", pair)
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())
	if principal == nil {
		// The guard attaches the principal before any protected handler
		// runs; reaching this point means a wiring defect.
		h.logger.Error("whoami without principal in context")
		httpx.Internal(w)
		return
	}

	data, err := h.service.Whoami(r.Context(), principal.ID)
	if err != nil {
		h.logger.Error("whoami", slog.Any("error", err))
		httpx.Internal(w)
		return
	}

	httpx.Success(w, http.StatusOK, "User fetched successfully", data)
}

func (h *Handler) renderPage(w http.ResponseWriter, status int, name, title string, data any) {
	if err := h.templates.Render(w, status, name, view.TemplateData{Title: title, Data: data}); err != nil {
		h.logger.Error("render page", slog.String("template", name), slog.Any("error", err))
	}
}

func isClientVerifyError(err error) bool {
	return errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrUserNotFound)
}

// requestBaseURL reconstructs the externally visible base URL of the
// request for building callback links.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
