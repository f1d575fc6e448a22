package enrichment

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"creditdash/internal/enrichment/mocks"
	"creditdash/internal/session/models"
)

func recordWith(slot string) *models.Record {
	return &models.Record{
		ID:           uuid.New(),
		CustomerName: "JANE DOE",
		Payload: models.Payload{
			Customer:             json.RawMessage(`{"result":{"customer":{"name":"JANE DOE"}}}`),
			CibilAnalysis:        json.RawMessage(`null`),
			CardRecommendation:   json.RawMessage(slot),
			OfferPersonalization: json.RawMessage(`null`),
		},
	}
}

const twoCards = `{"result":{"recommended_cards":[
	{"Card_Name":"BOB Eterna","Type":"Premium","justification":"Travels often"},
	{"Card_Name":"BOB Easy","Type":"Entry","justification":"Low spend"}]}}`

func TestCoordinator_EnrichesAndPersists(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := mocks.NewMockCardEnricher(ctrl)
	store := mocks.NewMockStore(ctrl)
	rec := recordWith(twoCards)
	enriched := []models.Card{{Name: "BOB Eterna"}, {Name: "BOB Easy"}}
	fp := Fingerprint(Recommendations(rec.Payload.CardRecommendation))

	enricher.EXPECT().Enrich(gomock.Any(), Recommendations(rec.Payload.CardRecommendation)).Return(enriched)
	store.EXPECT().SetEnrichedCards(gomock.Any(), rec.ID, fp, enriched).Return(nil)
	store.EXPECT().SetDerivedCard(gomock.Any(), rec.ID, enriched[0]).Return(nil)

	c := NewCoordinator(enricher, store, discardLogger())
	assert.Equal(t, StateEmpty, c.State(rec))

	cards, err := c.Cards(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, enriched, cards)
}

func TestCoordinator_CachedListSkipsLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := mocks.NewMockCardEnricher(ctrl)
	store := mocks.NewMockStore(ctrl)
	rec := recordWith(twoCards)
	rec.EnrichedCards = []models.Card{{Name: "cached"}}
	rec.EnrichedFingerprint = Fingerprint(Recommendations(rec.Payload.CardRecommendation))
	// No expectations: any enrichment or write fails the test.

	c := NewCoordinator(enricher, store, discardLogger())
	assert.Equal(t, StateEnriched, c.State(rec))
	cards, err := c.Cards(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []models.Card{{Name: "cached"}}, cards)
}

func TestCoordinator_StaleFingerprintReEnriches(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := mocks.NewMockCardEnricher(ctrl)
	store := mocks.NewMockStore(ctrl)
	rec := recordWith(twoCards)
	rec.EnrichedCards = []models.Card{{Name: "from an older list"}}
	rec.EnrichedFingerprint = "stale"

	enricher.EXPECT().Enrich(gomock.Any(), gomock.Any()).Return([]models.Card{{Name: "BOB Eterna"}, {Name: "BOB Easy"}})
	store.EXPECT().SetEnrichedCards(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	store.EXPECT().SetDerivedCard(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	cards, err := NewCoordinator(enricher, store, discardLogger()).Cards(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "BOB Eterna", cards[0].Name)
}

func TestCoordinator_NoRecommendationsUsesFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := mocks.NewMockCardEnricher(ctrl)
	store := mocks.NewMockStore(ctrl)
	rec := recordWith(`{"error":"HTTP error! status: 500"}`)
	fallback := models.FallbackCard()

	store.EXPECT().SetEnrichedCards(gomock.Any(), rec.ID, gomock.Any(), []models.Card{fallback}).Return(nil)
	store.EXPECT().SetDerivedCard(gomock.Any(), rec.ID, fallback).Return(nil)

	cards, err := NewCoordinator(enricher, store, discardLogger()).Cards(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []models.Card{fallback}, cards)
}

func TestCoordinator_ConcurrentCallersShareOneBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	enricher := mocks.NewMockCardEnricher(ctrl)
	store := mocks.NewMockStore(ctrl)
	rec := recordWith(twoCards)
	release := make(chan struct{})

	enricher.EXPECT().Enrich(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, []models.Recommendation) []models.Card {
			<-release
			return []models.Card{{Name: "BOB Eterna"}, {Name: "BOB Easy"}}
		}).Times(1)
	store.EXPECT().SetEnrichedCards(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)
	store.EXPECT().SetDerivedCard(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	c := NewCoordinator(enricher, store, discardLogger())
	const callers = 5
	var wg sync.WaitGroup
	results := make([][]models.Card, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cards, err := c.Cards(context.Background(), rec)
			assert.NoError(t, err)
			results[i] = cards
		}()
	}

	require.Eventually(t, func() bool { return c.State(rec) == StateEnriching }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, cards := range results {
		assert.Len(t, cards, 2)
	}
	assert.Equal(t, StateEmpty, c.State(rec), "record was not updated in place")
}

func TestFingerprint(t *testing.T) {
	a := []models.Recommendation{{CardName: "A", Type: "x"}, {CardName: "B", Type: "y"}}
	b := []models.Recommendation{{CardName: "B", Type: "y"}, {CardName: "A", Type: "x"}}
	assert.Equal(t, Fingerprint(a), Fingerprint(a))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b), "order is part of the identity")
	assert.NotEqual(t, Fingerprint([]models.Recommendation{{CardName: "AB"}}), Fingerprint([]models.Recommendation{{CardName: "A", Type: "B"}}))
	assert.Len(t, Fingerprint(nil), 16)
}
