// Package enrichment turns the backend's card recommendations into
// display-ready cards by looking each one up in the card catalogue.
package enrichment

import (
	"context"
	"encoding/json"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"creditdash/internal/platform/metrics"
	"creditdash/internal/session/models"
)

// CardLookup fetches catalogue details for one card.
type CardLookup interface {
	CardDetails(ctx context.Context, cardName string) (json.RawMessage, error)
}

// Enricher runs one lookup per recommendation with bounded parallelism.
type Enricher struct {
	lookup      CardLookup
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func NewEnricher(lookup CardLookup, concurrency int, logger *slog.Logger, m *metrics.Metrics) *Enricher {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Enricher{lookup: lookup, concurrency: concurrency, logger: logger, metrics: m}
}

// Enrich returns one card per recommendation in input order. Failed lookups
// degrade that card to default fields and never drop it.
func (e *Enricher) Enrich(ctx context.Context, recs []models.Recommendation) []models.Card {
	cards := make([]models.Card, len(recs))
	e.metrics.IncrementEnrichmentBatch()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, rec := range recs {
		g.Go(func() error {
			detail, err := e.lookup.CardDetails(gctx, rec.CardName)
			if err != nil {
				e.metrics.IncrementEnrichmentLookupFailure()
				e.logger.WarnContext(ctx, "card lookup failed",
					"card_name", rec.CardName,
					"error", err,
				)
				detail = nil
			}
			cards[i] = Normalize(rec, detail)
			return nil
		})
	}
	_ = g.Wait()
	return cards
}
