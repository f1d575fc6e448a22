// Package export renders the session payload into a downloadable report.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"time"

	"creditdash/internal/gateway"
	"creditdash/internal/platform/metrics"
	"creditdash/internal/session/models"
	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/requestcontext"
)

const (
	msgExportFailed = "Failed to download PDF. Please try again."

	defaultExtension = "pdf"
)

// extensions maps document media types to file extensions.
var extensions = map[string]string{
	"application/pdf":  "pdf",
	"application/zip":  "zip",
	"application/json": "json",
	"text/html":        "html",
	"text/csv":         "csv",
	"text/plain":       "txt",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       "xlsx",
}

// Gateway renders documents.
type Gateway interface {
	GenerateReport(ctx context.Context, req gateway.ReportRequest) (*gateway.Document, error)
}

// Report is a rendered document ready for download.
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}

type Service struct {
	gateway Gateway
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(gw Gateway, opts ...Option) *Service {
	s := &Service{gateway: gw, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export sends the four payload slots to the backend renderer. Missing slots
// go out as null. Every call is an independent request.
func (s *Service) Export(ctx context.Context, name string, payload models.Payload) (*Report, error) {
	doc, err := s.gateway.GenerateReport(ctx, gateway.ReportRequest{
		Profile:              payload.Customer,
		CibilAnalysis:        payload.CibilAnalysis,
		CardRecommendation:   payload.CardRecommendation,
		OfferPersonalization: payload.OfferPersonalization,
	})
	if err != nil {
		s.metrics.IncrementReportExport("failure")
		s.logger.WarnContext(ctx, "report export failed",
			"customer_name", name,
			"category", gateway.CategoryOf(err),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, msgExportFailed)
	}
	if len(doc.Body) == 0 {
		s.metrics.IncrementReportExport("failure")
		return nil, dErrors.New(dErrors.CodeUpstream, msgExportFailed)
	}
	s.metrics.IncrementReportExport("success")

	contentType := doc.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	return &Report{
		Filename:    Filename(name, requestcontext.Now(ctx), contentType),
		ContentType: contentType,
		Body:        doc.Body,
	}, nil
}

// Filename builds "<name>_Credit_Report_<YYYY-MM-DD>.<ext>" using the UTC date.
func Filename(name string, at time.Time, contentType string) string {
	return fmt.Sprintf("%s_Credit_Report_%s.%s", name, at.UTC().Format(time.DateOnly), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return defaultExtension
	}
	if ext, ok := extensions[mediaType]; ok {
		return ext
	}
	return defaultExtension
}
