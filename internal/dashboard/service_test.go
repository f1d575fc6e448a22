package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"creditdash/internal/dashboard/mocks"
	"creditdash/internal/session/models"
	"creditdash/internal/session/store"
	dErrors "creditdash/pkg/domain-errors"
	"creditdash/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/dashboard-mocks.go -package=mocks

type DashboardSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemoryStore
	cards   *mocks.MockCardSource
	service *Service
	id      uuid.UUID
}

func TestDashboardSuite(t *testing.T) {
	suite.Run(t, new(DashboardSuite))
}

func (s *DashboardSuite) SetupTest() {
	s.ctx = context.Background()
	ctrl := gomock.NewController(s.T())
	s.store = store.NewInMemory(time.Hour)
	s.cards = mocks.NewMockCardSource(ctrl)
	s.service = NewService(s.store, s.cards, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.id = uuid.New()
}

func (s *DashboardSuite) commit(p models.Payload) {
	s.Require().NoError(s.store.Commit(s.ctx, s.id, p, "JANE DOE", "1234"))
}

func fullPayload() models.Payload {
	return models.Payload{
		Customer:             json.RawMessage(`{"customer":{"name":"JANE DOE","state":"Gujarat"},"spending_summary":{}}`),
		CibilAnalysis:        json.RawMessage(`{"result":{"score_overview":{"current_cibil_score":742}}}`),
		CardRecommendation:   json.RawMessage(`{"result":{"recommended_cards":[{"Card_Name":"BOB Eterna","Type":"Premium"}]}}`),
		OfferPersonalization: json.RawMessage(`{"result":{"onetime_offers":[{"title":"5% cashback"}]}}`),
	}
}

func (s *DashboardSuite) TestHydrate() {
	s.Run("uncommitted session is unauthenticated", func() {
		_, err := s.service.Hydrate(s.ctx, uuid.New())
		s.Require().ErrorIs(err, ErrUnauthenticated)
	})

	s.Run("malformed session is unauthenticated and discarded", func() {
		ctrl := gomock.NewController(s.T())
		st := mocks.NewMockStore(ctrl)
		st.EXPECT().ReadAll(gomock.Any(), s.id).Return(nil, sentinel.ErrInvalidState)
		st.EXPECT().Clear(gomock.Any(), s.id).Return(nil)
		svc := NewService(st, s.cards, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := svc.Hydrate(s.ctx, s.id)
		s.Require().ErrorIs(err, ErrUnauthenticated)
	})

	s.Run("store failure is unauthenticated", func() {
		ctrl := gomock.NewController(s.T())
		st := mocks.NewMockStore(ctrl)
		st.EXPECT().ReadAll(gomock.Any(), s.id).Return(nil, errors.New("redis down"))
		svc := NewService(st, s.cards, slog.New(slog.NewTextHandler(io.Discard, nil)))

		_, err := svc.Hydrate(s.ctx, s.id)
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})
}

func (s *DashboardSuite) TestLayout() {
	p := fullPayload()
	p.OfferPersonalization = json.RawMessage(`{"error":"HTTP error! status: 500"}`)
	s.commit(p)

	layout, err := s.service.Layout(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("JANE DOE", layout.CustomerName)
	s.Equal(PanelCustomer, layout.ActivePanel)
	s.Equal("BOB Premier Card", layout.TopCard.Name)
	s.Equal([]Panel{PanelOffers}, layout.Degraded)

	s.Require().NoError(s.service.SwitchPanel(s.ctx, s.id, PanelCibil))
	layout, err = s.service.Layout(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(PanelCibil, layout.ActivePanel)
}

func (s *DashboardSuite) TestSwitchPanel() {
	s.Run("rejects unknown panels", func() {
		s.commit(fullPayload())
		err := s.service.SwitchPanel(s.ctx, s.id, Panel("settings"))
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})

	s.Run("unknown session is unauthenticated", func() {
		err := s.service.SwitchPanel(s.ctx, uuid.New(), PanelOffers)
		s.Require().ErrorIs(err, ErrUnauthenticated)
	})
}

func (s *DashboardSuite) TestCustomerPanel() {
	s.Run("returns the slot verbatim", func() {
		s.commit(fullPayload())
		view, err := s.service.Panel(s.ctx, s.id, PanelCustomer)
		s.Require().NoError(err)
		s.False(view.Loading)
		s.Empty(view.Error)
		s.JSONEq(string(fullPayload().Customer), string(view.Data.(json.RawMessage)))
	})

	for name, slot := range map[string]string{
		"null slot":        `null`,
		"error slot":       `{"error":"HTTP error! status: 500"}`,
		"missing customer": `{"spending_summary":{}}`,
		"unnamed customer": `{"customer":{"state":"Gujarat"}}`,
		"blank name":       `{"result":{"customer":{"name":""}}}`,
	} {
		s.Run(name+" renders the error state", func() {
			p := fullPayload()
			p.Customer = json.RawMessage(slot)
			s.commit(p)
			view, err := s.service.Panel(s.ctx, s.id, PanelCustomer)
			s.Require().NoError(err)
			s.Equal("Unable to load customer profile data", view.Error)
			s.Nil(view.Data)
		})
	}

	s.Run("customer under result is accepted", func() {
		p := fullPayload()
		p.Customer = json.RawMessage(`{"result":{"customer":{"name":"JANE DOE"}}}`)
		s.commit(p)
		view, err := s.service.Panel(s.ctx, s.id, PanelCustomer)
		s.Require().NoError(err)
		s.Empty(view.Error)
	})
}

func (s *DashboardSuite) TestCibilPanel() {
	s.Run("null slot is empty, not an error", func() {
		p := fullPayload()
		p.CibilAnalysis = json.RawMessage(`null`)
		s.commit(p)
		view, err := s.service.Panel(s.ctx, s.id, PanelCibil)
		s.Require().NoError(err)
		s.True(view.Empty)
		s.Empty(view.Error)
	})

	s.Run("error slot is empty", func() {
		p := fullPayload()
		p.CibilAnalysis = json.RawMessage(`{"error":"HTTP error! status: 502"}`)
		s.commit(p)
		view, err := s.service.Panel(s.ctx, s.id, PanelCibil)
		s.Require().NoError(err)
		s.True(view.Empty)
	})

	s.Run("result is passed through", func() {
		s.commit(fullPayload())
		view, err := s.service.Panel(s.ctx, s.id, PanelCibil)
		s.Require().NoError(err)
		s.False(view.Empty)
		s.NotNil(view.Data)
	})
}

func (s *DashboardSuite) TestOffersPanel() {
	s.Run("missing lists default to empty", func() {
		s.commit(fullPayload())
		view, err := s.service.Panel(s.ctx, s.id, PanelOffers)
		s.Require().NoError(err)
		offers := view.Data.(Offers)
		s.Len(offers.OnetimeOffers, 1)
		s.NotNil(offers.ProgressiveOffers)
		s.Empty(offers.ProgressiveOffers)
		s.False(view.Empty)
	})

	s.Run("error slot yields empty lists", func() {
		p := fullPayload()
		p.OfferPersonalization = json.RawMessage(`{"error":"boom"}`)
		s.commit(p)
		view, err := s.service.Panel(s.ctx, s.id, PanelOffers)
		s.Require().NoError(err)
		s.True(view.Empty)
		encoded, err := json.Marshal(view.Data)
		s.Require().NoError(err)
		s.JSONEq(`{"onetime_offers":[],"progressive_offers":[]}`, string(encoded))
	})
}

func (s *DashboardSuite) TestCardsPanelAndTopCard() {
	s.commit(fullPayload())
	enriched := []models.Card{{Name: "BOB Eterna", Category: "Premium"}}
	s.cards.EXPECT().Cards(gomock.Any(), gomock.Any()).Return(enriched, nil).Times(2)

	view, err := s.service.Panel(s.ctx, s.id, PanelCards)
	s.Require().NoError(err)
	cv := view.Data.(CardsView)
	s.Equal(enriched, cv.Cards)
	s.JSONEq(string(fullPayload().Customer), string(cv.Profile))

	top, err := s.service.TopCard(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("BOB Eterna", top.Name)

	rec, err := s.store.ReadAll(s.ctx, s.id)
	s.Require().NoError(err)
	s.Require().NotNil(rec.RecommendedCard)
	s.Equal("BOB Eterna", rec.RecommendedCard.Name)
}

func (s *DashboardSuite) TestTopCardFallback() {
	s.commit(fullPayload())
	s.cards.EXPECT().Cards(gomock.Any(), gomock.Any()).Return(nil, nil)

	top, err := s.service.TopCard(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal(models.FallbackCard(), top)
}

func (s *DashboardSuite) TestLogout() {
	s.commit(fullPayload())

	redirect, err := s.service.Logout(s.ctx, s.id)
	s.Require().NoError(err)
	s.Equal("/login", redirect)

	_, err = s.service.Hydrate(s.ctx, s.id)
	s.Require().ErrorIs(err, ErrUnauthenticated)
}
