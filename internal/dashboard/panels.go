package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"

	"creditdash/internal/session/models"
	dErrors "creditdash/pkg/domain-errors"
)

// Panel identifies one dashboard view.
type Panel string

const (
	PanelCustomer Panel = "customer"
	PanelCibil    Panel = "cibil"
	PanelOffers   Panel = "offers"
	PanelCards    Panel = "cards"
)

// Panels lists the views in navigation order.
var Panels = []Panel{PanelCustomer, PanelCibil, PanelOffers, PanelCards}

// ParsePanel validates a panel identifier.
func ParsePanel(s string) (Panel, error) {
	for _, p := range Panels {
		if string(p) == s {
			return p, nil
		}
	}
	return "", dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("unknown panel %q", s))
}

// activeOrDefault maps a stored view to a panel, defaulting to the profile.
func activeOrDefault(view string) Panel {
	if p, err := ParsePanel(view); err == nil {
		return p
	}
	return PanelCustomer
}

const msgProfileUnavailable = "Unable to load customer profile data"

// PanelView is one panel's slice of the session payload. Loading is always
// false because every slot settles before the session is committed.
type PanelView struct {
	Panel   Panel  `json:"panel"`
	Loading bool   `json:"loading"`
	Data    any    `json:"data"`
	Empty   bool   `json:"empty"`
	Error   string `json:"error,omitempty"`
}

// Offers is the offers panel payload.
type Offers struct {
	OnetimeOffers     []json.RawMessage `json:"onetime_offers"`
	ProgressiveOffers []json.RawMessage `json:"progressive_offers"`
}

// CardsView is the cards panel: the profile stays on screen and the
// enriched list is shown over it.
type CardsView struct {
	Profile json.RawMessage `json:"profile"`
	Cards   []models.Card   `json:"cards"`
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// isErrorSlot reports whether a slot is the {"error": "..."} marker written
// for a failed domain.
func isErrorSlot(raw json.RawMessage) bool {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return false
	}
	_, hasError := body["error"]
	_, hasResult := body["result"]
	return hasError && !hasResult
}

// customerView renders the profile slot verbatim, or the error state when
// there is no named customer in it.
func customerView(slot json.RawMessage) PanelView {
	view := PanelView{Panel: PanelCustomer}
	if isNull(slot) || isErrorSlot(slot) || !hasNamedCustomer(slot) {
		view.Error = msgProfileUnavailable
		return view
	}
	view.Data = slot
	return view
}

type identity struct {
	Name json.RawMessage `json:"name"`
}

// hasNamedCustomer accepts the customer object at the top level of the slot
// or under result.
func hasNamedCustomer(slot json.RawMessage) bool {
	var body struct {
		Customer *identity `json:"customer"`
		Result   *struct {
			Customer *identity `json:"customer"`
		} `json:"result"`
	}
	if err := json.Unmarshal(slot, &body); err != nil {
		return false
	}
	c := body.Customer
	if c == nil && body.Result != nil {
		c = body.Result.Customer
	}
	if c == nil {
		return false
	}
	var name string
	if err := json.Unmarshal(c.Name, &name); err != nil {
		return false
	}
	return name != ""
}

// cibilView treats a missing result as an empty panel, not an error.
func cibilView(slot json.RawMessage) PanelView {
	view := PanelView{Panel: PanelCibil}
	var body struct {
		Result json.RawMessage `json:"result"`
	}
	if isNull(slot) || json.Unmarshal(slot, &body) != nil || isNull(body.Result) {
		view.Empty = true
		return view
	}
	view.Data = slot
	return view
}

func offersView(slot json.RawMessage) PanelView {
	offers := Offers{OnetimeOffers: []json.RawMessage{}, ProgressiveOffers: []json.RawMessage{}}
	var body struct {
		Result struct {
			OnetimeOffers     []json.RawMessage `json:"onetime_offers"`
			ProgressiveOffers []json.RawMessage `json:"progressive_offers"`
		} `json:"result"`
	}
	if !isNull(slot) && json.Unmarshal(slot, &body) == nil {
		if body.Result.OnetimeOffers != nil {
			offers.OnetimeOffers = body.Result.OnetimeOffers
		}
		if body.Result.ProgressiveOffers != nil {
			offers.ProgressiveOffers = body.Result.ProgressiveOffers
		}
	}
	return PanelView{
		Panel: PanelOffers,
		Data:  offers,
		Empty: len(offers.OnetimeOffers) == 0 && len(offers.ProgressiveOffers) == 0,
	}
}
