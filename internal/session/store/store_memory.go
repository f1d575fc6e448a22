package store

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"creditdash/internal/session/models"
	"creditdash/pkg/platform/sentinel"
)

// InMemoryStore keeps sessions in a map guarded by an RWMutex. Expired
// records are dropped lazily on access.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Record
	ttl      time.Duration
	now      func() time.Time
}

// Option configures an InMemoryStore.
type Option func(*InMemoryStore)

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *InMemoryStore) {
		s.now = now
	}
}

// NewInMemory creates an in-memory store whose records live for ttl.
// A non-positive ttl disables expiry.
func NewInMemory(ttl time.Duration, opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		sessions: make(map[uuid.UUID]*models.Record),
		ttl:      ttl,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemoryStore) Commit(_ context.Context, id uuid.UUID, payload models.Payload, name, aadhaar string) error {
	now := s.now()
	rec := &models.Record{
		ID:           id,
		CustomerName: name,
		Aadhaar:      aadhaar,
		Payload:      clonePayload(payload),
		CreatedAt:    now,
	}
	if s.ttl > 0 {
		rec.ExpiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = rec
	return nil
}

func (s *InMemoryStore) ReadAll(_ context.Context, id uuid.UUID) (*models.Record, error) {
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.IsExpired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, sentinel.ErrNotFound
	}
	if rec.CustomerName == "" {
		return nil, sentinel.ErrNotFound
	}
	if !rec.Payload.Complete() {
		return nil, fmt.Errorf("session %s has a partial payload: %w", id, sentinel.ErrInvalidState)
	}
	return cloneRecord(rec), nil
}

func (s *InMemoryStore) SetDerivedCard(_ context.Context, id uuid.UUID, card models.Card) error {
	return s.update(id, func(rec *models.Record) {
		c := cloneCard(card)
		rec.RecommendedCard = &c
	})
}

func (s *InMemoryStore) SetEnrichedCards(_ context.Context, id uuid.UUID, fingerprint string, cards []models.Card) error {
	return s.update(id, func(rec *models.Record) {
		rec.EnrichedCards = cloneCards(cards)
		rec.EnrichedFingerprint = fingerprint
	})
}

func (s *InMemoryStore) SetActiveView(_ context.Context, id uuid.UUID, view string) error {
	return s.update(id, func(rec *models.Record) {
		rec.ActiveView = view
	})
}

func (s *InMemoryStore) Clear(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *InMemoryStore) update(id uuid.UUID, mutate func(*models.Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.sessions[id]
	if !ok || rec.IsExpired(s.now()) {
		return sentinel.ErrNotFound
	}
	mutate(rec)
	return nil
}

func cloneRecord(rec *models.Record) *models.Record {
	out := *rec
	out.Payload = clonePayload(rec.Payload)
	out.EnrichedCards = cloneCards(rec.EnrichedCards)
	if rec.RecommendedCard != nil {
		c := cloneCard(*rec.RecommendedCard)
		out.RecommendedCard = &c
	}
	return &out
}

func clonePayload(p models.Payload) models.Payload {
	return models.Payload{
		Customer:             bytes.Clone(p.Customer),
		CibilAnalysis:        bytes.Clone(p.CibilAnalysis),
		CardRecommendation:   bytes.Clone(p.CardRecommendation),
		OfferPersonalization: bytes.Clone(p.OfferPersonalization),
	}
}

func cloneCards(cards []models.Card) []models.Card {
	if cards == nil {
		return nil
	}
	out := make([]models.Card, len(cards))
	for i, c := range cards {
		out[i] = cloneCard(c)
	}
	return out
}

func cloneCard(c models.Card) models.Card {
	c.Features = slices.Clone(c.Features)
	c.Benefits = slices.Clone(c.Benefits)
	return c
}
