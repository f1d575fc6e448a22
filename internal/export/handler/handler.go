package handler

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"creditdash/internal/export"
	"creditdash/internal/platform/middleware"
	"creditdash/internal/session/models"
	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/platform/httputil"
	"creditdash/pkg/requestcontext"
)

// Sessions hydrates the caller's session.
type Sessions interface {
	Hydrate(ctx context.Context, id uuid.UUID) (*models.Record, error)
}

// Exporter renders a report.
type Exporter interface {
	Export(ctx context.Context, name string, payload models.Payload) (*export.Report, error)
}

// Handler serves report downloads.
type Handler struct {
	sessions  Sessions
	exporter  Exporter
	logger    *slog.Logger
	loginPath string
}

func New(sessions Sessions, exporter Exporter, logger *slog.Logger, loginPath string) *Handler {
	return &Handler{sessions: sessions, exporter: exporter, logger: logger, loginPath: loginPath}
}

// Register registers the export route behind the session middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard/report", h.handleReport)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	rec, err := h.sessions.Hydrate(ctx, requestcontext.SessionID(ctx))
	if err != nil {
		if dErrors.Is(err, dErrors.CodeUnauthorized) {
			httputil.WriteErrorWithRedirect(w, err, h.loginPath)
			return
		}
		h.logger.ErrorContext(ctx, "failed to hydrate session for export",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	report, err := h.exporter.Export(ctx, rec.CustomerName, rec.Payload)
	if err != nil {
		h.logger.WarnContext(ctx, "report export failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WritePublicError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "report exported",
		"request_id", requestID,
		"filename", report.Filename,
		"bytes", len(report.Body),
	)
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Body)
}
