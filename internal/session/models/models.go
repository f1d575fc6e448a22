package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Payload is the aggregate preload result. Each slot holds the backend body
// verbatim, an {"error": "..."} object, or JSON null when never loaded.
type Payload struct {
	Customer             json.RawMessage `json:"customer"`
	CibilAnalysis        json.RawMessage `json:"cibilAnalysis"`
	CardRecommendation   json.RawMessage `json:"cardRecommendation"`
	OfferPersonalization json.RawMessage `json:"offerPersonalization"`
}

// Complete reports whether all four slots were populated.
func (p Payload) Complete() bool {
	return len(p.Customer) > 0 && len(p.CibilAnalysis) > 0 &&
		len(p.CardRecommendation) > 0 && len(p.OfferPersonalization) > 0
}

// Record is everything a session holds.
type Record struct {
	ID              uuid.UUID `json:"id"`
	CustomerName    string    `json:"customer_name"`
	Aadhaar         string    `json:"aadhaar"`
	Payload         Payload   `json:"payload"`
	RecommendedCard *Card     `json:"recommended_card,omitempty"`

	// EnrichedCards is cached output of the card enrichment step, valid while
	// EnrichedFingerprint matches the recommendation list in Payload.
	EnrichedCards       []Card `json:"enriched_cards,omitempty"`
	EnrichedFingerprint string `json:"enriched_fingerprint,omitempty"`

	ActiveView string    `json:"active_view,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired reports whether the record outlived its TTL at now.
func (r *Record) IsExpired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// Card is a display-ready credit card.
type Card struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	CardNumber string   `json:"cardNumber,omitempty"`
	Features   []string `json:"features"`
	Benefits   []string `json:"benefits"`
	Reasoning  string   `json:"reasoning"`
	Category   string   `json:"category"`
	AnnualFee  string   `json:"annualFee"`
	JoiningFee string   `json:"joiningFee,omitempty"`
	Color      string   `json:"color"`
	ImageURL   string   `json:"image_url"`
	Score      float64  `json:"score"`
}

// Recommendation is one entry of cardRecommendation.result.recommended_cards.
type Recommendation struct {
	CardName      string `json:"Card_Name"`
	Type          string `json:"Type"`
	Justification string `json:"justification"`
}

// DefaultCardColor is the accent used for every enriched card.
const DefaultCardColor = "#0f62fe"

// FallbackCard is shown when the backend recommends nothing.
func FallbackCard() Card {
	return Card{
		Name:       "BOB Premier Card",
		Type:       "Premium",
		CardNumber: "4532 **** **** 8765",
		Features:   []string{"Unlimited lounge access", "5X reward points on travel", "Complimentary insurance"},
		Benefits:   []string{"Annual fee waiver on spending ₹5L+", "Welcome bonus 10,000 points"},
		Reasoning:  "Perfect for high-spending customers with travel preferences and premium lifestyle needs.",
		Category:   "Travel & Lifestyle",
		AnnualFee:  "₹5,000",
		JoiningFee: "₹2,500",
		Color:      DefaultCardColor,
		ImageURL:   "https://www.bobcard.co.in/_next/image?url=https%3A%2F%2Fmedia.bobcard.co.in%2F%2Fmedia%2Frmmjc55a%2Fpremier-shadow-19-feb24.png&w=1080&q=75",
		Score:      9.2,
	}
}
