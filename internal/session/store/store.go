// Package store persists dashboard sessions. One session exists per login and
// sessions never share state.
package store

import (
	"context"

	"github.com/google/uuid"

	"creditdash/internal/session/models"
)

// Store is the session-scoped key-value store behind the dashboard.
//
// ReadAll returns sentinel.ErrNotFound when nothing was committed for id (or
// the session expired) and sentinel.ErrInvalidState when the stored record
// cannot be decoded. Setters return sentinel.ErrNotFound for unknown ids.
type Store interface {
	Commit(ctx context.Context, id uuid.UUID, payload models.Payload, name, aadhaar string) error
	ReadAll(ctx context.Context, id uuid.UUID) (*models.Record, error)
	SetDerivedCard(ctx context.Context, id uuid.UUID, card models.Card) error
	SetEnrichedCards(ctx context.Context, id uuid.UUID, fingerprint string, cards []models.Card) error
	SetActiveView(ctx context.Context, id uuid.UUID, view string) error
	Clear(ctx context.Context, id uuid.UUID) error
}
