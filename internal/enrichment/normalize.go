package enrichment

import (
	"bytes"
	"encoding/json"
	"strings"

	"creditdash/internal/session/models"
)

// Recommendations extracts result.recommended_cards from the card
// recommendation slot. Error slots, null slots and unexpected shapes yield nil.
func Recommendations(slot json.RawMessage) []models.Recommendation {
	var body struct {
		Result struct {
			RecommendedCards []models.Recommendation `json:"recommended_cards"`
		} `json:"result"`
	}
	if len(slot) == 0 {
		return nil
	}
	if err := json.Unmarshal(slot, &body); err != nil {
		return nil
	}
	return body.Result.RecommendedCards
}

// cardDetail is the subset of /card-details the dashboard reads. Fields are
// kept raw because the catalogue mixes strings, numbers and arrays.
type cardDetail struct {
	Features  json.RawMessage `json:"Key_features_and_benefits"`
	Benefits  json.RawMessage `json:"benefits"`
	Type      json.RawMessage `json:"Type"`
	AnnualFee json.RawMessage `json:"annual_fee"`
	ImageURL  json.RawMessage `json:"image_url"`
}

// Normalize merges a recommendation with its catalogue lookup. A nil or
// unusable detail produces the defaults; the card itself is always returned.
func Normalize(rec models.Recommendation, detail json.RawMessage) models.Card {
	var d cardDetail
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &d); err != nil {
			d = cardDetail{}
		}
	}

	card := models.Card{
		Name:      rec.CardName,
		Type:      rec.Type,
		Features:  splitFeatures(scalarText(d.Features)),
		Benefits:  benefits(d.Benefits),
		Reasoning: rec.Justification,
		Category:  rec.Type,
		Color:     models.DefaultCardColor,
		ImageURL:  stringValue(d.ImageURL),
		Score:     0,
	}
	if category := stringValue(d.Type); category != "" {
		card.Category = category
	}
	if fee := scalarText(d.AnnualFee); fee != "" {
		card.AnnualFee = "₹" + fee
	}
	return card
}

// splitFeatures splits on commas that are not the thousands separator of a
// number, so "₹1,000 cashback, lounge access" stays two items.
func splitFeatures(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ',' || followedByThreeDigits(s, i+1) {
			continue
		}
		out = appendTrimmed(out, s[start:i])
		start = i + 1
	}
	return appendTrimmed(out, s[start:])
}

func followedByThreeDigits(s string, at int) bool {
	if at+3 > len(s) {
		return false
	}
	for _, c := range []byte(s[at : at+3]) {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func appendTrimmed(out []string, part string) []string {
	if part = strings.TrimSpace(part); part != "" {
		out = append(out, part)
	}
	return out
}

// benefits accepts either a JSON array or a " - " separated string.
func benefits(raw json.RawMessage) []string {
	out := []string{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out
	}
	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return out
		}
		for _, item := range items {
			out = append(out, scalarText(item))
		}
		return out
	}
	text := scalarText(raw)
	if text == "" {
		return out
	}
	for _, part := range strings.Split(text, " - ") {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// stringValue returns raw when it is a JSON string, otherwise "".
func stringValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// scalarText renders a JSON string or number as text. Null, booleans,
// objects and arrays render as "".
func scalarText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		return stringValue(raw)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return ""
		}
		return n.String()
	default:
		return ""
	}
}
