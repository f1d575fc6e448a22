package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"creditdash/internal/platform/middleware"
	"creditdash/internal/preload"
	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/platform/httputil"
)

// Service logs a customer in by preloading their dashboard data.
type Service interface {
	Login(ctx context.Context, creds preload.Credentials) (*preload.LoginResult, error)
}

// LoginRequest is the login form.
type LoginRequest struct {
	CustomerName string `json:"customer_name"`
	Aadhaar      string `json:"aadhaar"`
}

func (r *LoginRequest) Validate() error {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.Aadhaar = strings.TrimSpace(r.Aadhaar)
	if r.CustomerName == "" {
		return dErrors.New(dErrors.CodeValidation, "customer_name is required")
	}
	return nil
}

// LoginResponse carries the session token and where to go next.
type LoginResponse struct {
	SessionToken string    `json:"session_token"`
	CustomerName string    `json:"customer_name"`
	ExpiresAt    time.Time `json:"expires_at"`
	Redirect     string    `json:"redirect"`
	Degraded     []string  `json:"degraded_panels,omitempty"`
}

// Handler serves POST /login.
type Handler struct {
	service      Service
	logger       *slog.Logger
	cookieSecure bool
}

func New(service Service, logger *slog.Logger, cookieSecure bool) *Handler {
	return &Handler{service: service, logger: logger, cookieSecure: cookieSecure}
}

// Register registers the login route with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.handleLogin)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, preload.Credentials{
		CustomerName: req.CustomerName,
		Aadhaar:      req.Aadhaar,
	})
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) || dErrors.Is(err, dErrors.CodeValidation) {
			h.logger.InfoContext(ctx, "login rejected",
				"request_id", requestID,
				"error", err,
			)
		} else {
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WritePublicError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.InfoContext(ctx, "login committed",
		"request_id", requestID,
		"session_id", result.SessionID,
		"degraded", result.Degraded,
	)
	httputil.WriteJSON(w, http.StatusOK, LoginResponse{
		SessionToken: result.Token,
		CustomerName: result.CustomerName,
		ExpiresAt:    result.ExpiresAt,
		Redirect:     result.Redirect,
		Degraded:     result.Degraded,
	})
}
