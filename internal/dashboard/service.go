// Package dashboard hydrates the dashboard from a committed session and
// serves each panel its slice of the preloaded payload.
package dashboard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"creditdash/internal/session/models"
	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/platform/sentinel"
)

// LoginPath is where logout and unauthenticated access navigate.
const LoginPath = "/login"

// ErrUnauthenticated is returned whenever a session cannot be hydrated.
var ErrUnauthenticated = dErrors.New(dErrors.CodeUnauthorized, "Session not found or expired")

// Store is the session store as seen by the dashboard.
type Store interface {
	ReadAll(ctx context.Context, id uuid.UUID) (*models.Record, error)
	SetActiveView(ctx context.Context, id uuid.UUID, view string) error
	SetDerivedCard(ctx context.Context, id uuid.UUID, card models.Card) error
	Clear(ctx context.Context, id uuid.UUID) error
}

// CardSource produces the enriched card list of a session.
type CardSource interface {
	Cards(ctx context.Context, rec *models.Record) ([]models.Card, error)
}

// Layout is the hydrated dashboard shell.
type Layout struct {
	CustomerName string      `json:"customer_name"`
	ActivePanel  Panel       `json:"active_panel"`
	Panels       []Panel     `json:"panels"`
	TopCard      models.Card `json:"top_card"`
	Degraded     []Panel     `json:"degraded_panels,omitempty"`
}

// Service is the view router.
type Service struct {
	store  Store
	cards  CardSource
	logger *slog.Logger
}

func NewService(store Store, cards CardSource, logger *slog.Logger) *Service {
	return &Service{store: store, cards: cards, logger: logger}
}

// Hydrate reads the whole session. Missing, expired and malformed sessions
// all come back as ErrUnauthenticated.
func (s *Service) Hydrate(ctx context.Context, id uuid.UUID) (*models.Record, error) {
	rec, err := s.store.ReadAll(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			s.logger.InfoContext(ctx, "session not found", "session_id", id)
		case errors.Is(err, sentinel.ErrInvalidState):
			s.logger.WarnContext(ctx, "discarding malformed session", "session_id", id, "error", err)
			_ = s.store.Clear(ctx, id)
		default:
			s.logger.ErrorContext(ctx, "failed to read session", "session_id", id, "error", err)
		}
		return nil, ErrUnauthenticated
	}
	return rec, nil
}

// Layout hydrates the session and describes the shell around the panels.
// The sidebar card is the stored snapshot, or the fallback card until one
// has been derived.
func (s *Service) Layout(ctx context.Context, id uuid.UUID) (*Layout, error) {
	rec, err := s.Hydrate(ctx, id)
	if err != nil {
		return nil, err
	}
	layout := &Layout{
		CustomerName: rec.CustomerName,
		ActivePanel:  activeOrDefault(rec.ActiveView),
		Panels:       Panels,
		TopCard:      models.FallbackCard(),
	}
	if rec.RecommendedCard != nil {
		layout.TopCard = *rec.RecommendedCard
	}
	if isNull(rec.Payload.Customer) || isErrorSlot(rec.Payload.Customer) {
		layout.Degraded = append(layout.Degraded, PanelCustomer)
	}
	if isErrorSlot(rec.Payload.CibilAnalysis) {
		layout.Degraded = append(layout.Degraded, PanelCibil)
	}
	if isErrorSlot(rec.Payload.OfferPersonalization) {
		layout.Degraded = append(layout.Degraded, PanelOffers)
	}
	if isErrorSlot(rec.Payload.CardRecommendation) {
		layout.Degraded = append(layout.Degraded, PanelCards)
	}
	return layout, nil
}

// SwitchPanel records the active panel and has no other effect.
func (s *Service) SwitchPanel(ctx context.Context, id uuid.UUID, panel Panel) error {
	if _, err := ParsePanel(string(panel)); err != nil {
		return err
	}
	if err := s.store.SetActiveView(ctx, id, string(panel)); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return ErrUnauthenticated
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to switch panel")
	}
	return nil
}

// Panel returns one panel's slice of the payload.
func (s *Service) Panel(ctx context.Context, id uuid.UUID, panel Panel) (*PanelView, error) {
	rec, err := s.Hydrate(ctx, id)
	if err != nil {
		return nil, err
	}

	var view PanelView
	switch panel {
	case PanelCustomer:
		view = customerView(rec.Payload.Customer)
	case PanelCibil:
		view = cibilView(rec.Payload.CibilAnalysis)
	case PanelOffers:
		view = offersView(rec.Payload.OfferPersonalization)
	case PanelCards:
		cards, err := s.cardsFor(ctx, rec)
		if err != nil {
			return nil, err
		}
		profile := customerView(rec.Payload.Customer)
		view = PanelView{
			Panel: PanelCards,
			Data:  CardsView{Profile: rec.Payload.Customer, Cards: cards},
			Error: profile.Error,
		}
	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "unknown panel")
	}
	return &view, nil
}

// Cards returns the enriched recommendation list.
func (s *Service) Cards(ctx context.Context, id uuid.UUID) ([]models.Card, error) {
	rec, err := s.Hydrate(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.cardsFor(ctx, rec)
}

// TopCard is the first enriched card, or the fallback card when there is
// none. The result is stored as the session's derived card.
func (s *Service) TopCard(ctx context.Context, id uuid.UUID) (models.Card, error) {
	rec, err := s.Hydrate(ctx, id)
	if err != nil {
		return models.Card{}, err
	}
	cards, err := s.cardsFor(ctx, rec)
	if err != nil {
		return models.Card{}, err
	}
	top := models.FallbackCard()
	if len(cards) > 0 {
		top = cards[0]
	}
	if err := s.store.SetDerivedCard(ctx, id, top); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "failed to store derived card", "session_id", id, "error", err)
	}
	return top, nil
}

// Logout clears the session and returns where to navigate.
func (s *Service) Logout(ctx context.Context, id uuid.UUID) (string, error) {
	if err := s.store.Clear(ctx, id); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear session")
	}
	s.logger.InfoContext(ctx, "session cleared", "session_id", id)
	return LoginPath, nil
}

func (s *Service) cardsFor(ctx context.Context, rec *models.Record) ([]models.Card, error) {
	cards, err := s.cards.Cards(ctx, rec)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load card recommendations")
	}
	return cards, nil
}
