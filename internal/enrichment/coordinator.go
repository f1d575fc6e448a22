package enrichment

import (
	"context"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"creditdash/internal/session/models"
)

// State is the enrichment progress of one session.
type State string

const (
	StateEmpty     State = "empty"
	StateEnriching State = "enriching"
	StateEnriched  State = "enriched"
)

// CardEnricher enriches a recommendation list.
type CardEnricher interface {
	Enrich(ctx context.Context, recs []models.Recommendation) []models.Card
}

// Store receives the enrichment output.
type Store interface {
	SetEnrichedCards(ctx context.Context, id uuid.UUID, fingerprint string, cards []models.Card) error
	SetDerivedCard(ctx context.Context, id uuid.UUID, card models.Card) error
}

// Coordinator enriches each recommendation list at most once per session.
type Coordinator struct {
	enricher CardEnricher
	store    Store
	logger   *slog.Logger

	group    singleflight.Group
	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewCoordinator(enricher CardEnricher, store Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		enricher: enricher,
		store:    store,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// Fingerprint identifies a recommendation list by content and order.
func Fingerprint(recs []models.Recommendation) string {
	d := xxhash.New()
	for _, r := range recs {
		_, _ = d.WriteString(r.CardName)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(r.Type)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(r.Justification)
		_, _ = d.Write([]byte{1})
	}
	return hex.EncodeToString(d.Sum(nil))
}

// State reports where rec stands for its current recommendation list.
func (c *Coordinator) State(rec *models.Record) State {
	fp := Fingerprint(Recommendations(rec.Payload.CardRecommendation))
	if rec.EnrichedFingerprint == fp && len(rec.EnrichedCards) > 0 {
		return StateEnriched
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inflight[flightKey(rec.ID, fp)]; ok {
		return StateEnriching
	}
	return StateEmpty
}

// Cards returns the enriched card list for rec. A cached list whose
// fingerprint matches is returned without lookups; concurrent callers for
// the same session and list share one batch. Without recommendations the
// list is the fallback card. The result and its first card are written back
// to the session.
func (c *Coordinator) Cards(ctx context.Context, rec *models.Record) ([]models.Card, error) {
	recs := Recommendations(rec.Payload.CardRecommendation)
	fp := Fingerprint(recs)
	if rec.EnrichedFingerprint == fp && len(rec.EnrichedCards) > 0 {
		return rec.EnrichedCards, nil
	}

	key := flightKey(rec.ID, fp)
	v, err, shared := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		c.inflight[key] = struct{}{}
		c.mu.Unlock()
		defer func() {
			c.mu.Lock()
			delete(c.inflight, key)
			c.mu.Unlock()
		}()

		// The batch outlives a caller that disconnects so the result still
		// lands in the session for the next request.
		batchCtx := context.WithoutCancel(ctx)
		cards := []models.Card{models.FallbackCard()}
		if len(recs) > 0 {
			cards = c.enricher.Enrich(batchCtx, recs)
		}
		c.persist(batchCtx, rec.ID, fp, cards)
		return cards, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "joined in-flight enrichment", "session_id", rec.ID)
	}
	return v.([]models.Card), nil
}

func (c *Coordinator) persist(ctx context.Context, id uuid.UUID, fp string, cards []models.Card) {
	if err := c.store.SetEnrichedCards(ctx, id, fp, cards); err != nil {
		c.logger.WarnContext(ctx, "failed to cache enriched cards",
			"session_id", id,
			"error", err,
		)
		return
	}
	if err := c.store.SetDerivedCard(ctx, id, cards[0]); err != nil {
		c.logger.WarnContext(ctx, "failed to store derived card",
			"session_id", id,
			"error", err,
		)
	}
}

func flightKey(id uuid.UUID, fp string) string {
	return id.String() + ":" + fp
}
