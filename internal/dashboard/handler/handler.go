package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"creditdash/internal/dashboard"
	"creditdash/internal/platform/middleware"
	"creditdash/internal/session/models"
	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/platform/httputil"
	"creditdash/pkg/requestcontext"
)

// Service defines the dashboard operations behind these routes.
type Service interface {
	Layout(ctx context.Context, id uuid.UUID) (*dashboard.Layout, error)
	SwitchPanel(ctx context.Context, id uuid.UUID, panel dashboard.Panel) error
	Panel(ctx context.Context, id uuid.UUID, panel dashboard.Panel) (*dashboard.PanelView, error)
	Cards(ctx context.Context, id uuid.UUID) ([]models.Card, error)
	TopCard(ctx context.Context, id uuid.UUID) (models.Card, error)
	Logout(ctx context.Context, id uuid.UUID) (string, error)
}

// SwitchPanelRequest selects the active panel.
type SwitchPanelRequest struct {
	Panel string `json:"panel"`
}

func (r *SwitchPanelRequest) Validate() error {
	if r.Panel == "" {
		return dErrors.New(dErrors.CodeValidation, "panel is required")
	}
	return nil
}

type switchPanelResponse struct {
	ActivePanel dashboard.Panel `json:"active_panel"`
}

type cardsResponse struct {
	Cards []models.Card `json:"cards"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

// Handler serves the session-protected dashboard routes.
type Handler struct {
	service      Service
	logger       *slog.Logger
	cookieSecure bool
}

func New(service Service, logger *slog.Logger, cookieSecure bool) *Handler {
	return &Handler{service: service, logger: logger, cookieSecure: cookieSecure}
}

// Register registers the dashboard routes. The caller installs
// middleware.RequireSession in front of them.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.handleLayout)
	r.Put("/dashboard/view", h.handleSwitchPanel)
	r.Get("/dashboard/panels/{panel}", h.handlePanel)
	r.Get("/dashboard/cards", h.handleCards)
	r.Get("/dashboard/top-card", h.handleTopCard)
	r.Post("/logout", h.handleLogout)
}

func (h *Handler) handleLayout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	layout, err := h.service.Layout(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to hydrate dashboard", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, layout)
}

func (h *Handler) handleSwitchPanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[SwitchPanelRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	panel, err := dashboard.ParsePanel(req.Panel)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.SwitchPanel(ctx, requestcontext.SessionID(ctx), panel); err != nil {
		h.writeError(ctx, w, "failed to switch panel", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, switchPanelResponse{ActivePanel: panel})
}

func (h *Handler) handlePanel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	panel, err := dashboard.ParsePanel(chi.URLParam(r, "panel"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown panel"))
		return
	}
	view, err := h.service.Panel(ctx, requestcontext.SessionID(ctx), panel)
	if err != nil {
		h.writeError(ctx, w, "failed to render panel", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleCards(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cards, err := h.service.Cards(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to load cards", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cardsResponse{Cards: cards})
}

func (h *Handler) handleTopCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	card, err := h.service.TopCard(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to derive top card", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, card)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	redirect, err := h.service.Logout(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		h.writeError(ctx, w, "failed to log out", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	httputil.WriteJSON(w, http.StatusOK, redirectResponse{Redirect: redirect})
}

// writeError sends unauthenticated callers back to login.
func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := middleware.GetRequestID(ctx)
	if dErrors.Is(err, dErrors.CodeUnauthorized) {
		h.logger.InfoContext(ctx, msg,
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteErrorWithRedirect(w, err, dashboard.LoginPath)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestID,
		"error", err,
	)
	httputil.WriteError(w, err)
}
