// Package preload fans a login out to the four backend domains, joins on all
// of them and commits the merged payload as a new dashboard session.
package preload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"creditdash/internal/gateway"
	"creditdash/internal/session/models"
)

// Gateway is the slice of the backend client the orchestrator needs.
type Gateway interface {
	Fetch(ctx context.Context, domain gateway.Domain, q gateway.CustomerQuery) (json.RawMessage, error)
}

// Credentials identify the customer whose data is preloaded.
type Credentials struct {
	CustomerName string
	Aadhaar      string
}

// Settled is the outcome of one domain fetch: a value or an error, never both.
type Settled struct {
	Domain   gateway.Domain
	Value    json.RawMessage
	Err      error
	Duration time.Duration
}

// Failed reports whether the slot settled with an error.
func (s Settled) Failed() bool {
	return s.Err != nil
}

// Orchestrator runs the preload fan-out.
type Orchestrator struct {
	gateway Gateway
	logger  *slog.Logger
}

func NewOrchestrator(gw Gateway, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{gateway: gw, logger: logger}
}

// Preload fetches every domain concurrently and waits for all of them. A
// failed or panicking branch settles its own slot and never cancels its
// siblings, so the join takes as long as the slowest call. The only error
// returned is ctx's, when the caller gave up before the join.
func (o *Orchestrator) Preload(ctx context.Context, creds Credentials) ([]Settled, error) {
	q := gateway.CustomerQuery{CustomerName: creds.CustomerName, Aadhaar: creds.Aadhaar}
	settled := make([]Settled, len(gateway.Domains))

	var g errgroup.Group
	for i, domain := range gateway.Domains {
		g.Go(func() error {
			settled[i] = o.fetch(ctx, domain, q)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return settled, fmt.Errorf("preload interrupted: %w", err)
	}
	return settled, nil
}

func (o *Orchestrator) fetch(ctx context.Context, domain gateway.Domain, q gateway.CustomerQuery) (out Settled) {
	start := time.Now()
	out.Domain = domain
	defer func() {
		if rec := recover(); rec != nil {
			out.Value = nil
			out.Err = fmt.Errorf("panic while loading %s: %v", domain, rec)
			o.logger.ErrorContext(ctx, "preload branch panicked",
				"domain", domain,
				"panic", rec,
			)
		}
		out.Duration = time.Since(start)
	}()

	value, err := o.gateway.Fetch(ctx, domain, q)
	if err != nil {
		o.logger.WarnContext(ctx, "preload domain failed",
			"domain", domain,
			"error", err,
		)
		out.Err = err
		return out
	}
	out.Value = value
	return out
}

// Merge writes each settled slot into the payload: the backend value
// verbatim, or {"error": "<message>"} for a failed slot. Every domain must be
// present exactly once.
func Merge(settled []Settled) (models.Payload, error) {
	var payload models.Payload
	seen := make(map[gateway.Domain]bool, len(settled))
	for _, s := range settled {
		if seen[s.Domain] {
			return models.Payload{}, fmt.Errorf("domain %q settled twice", s.Domain)
		}
		seen[s.Domain] = true

		slot, err := slotValue(s)
		if err != nil {
			return models.Payload{}, err
		}
		switch s.Domain {
		case gateway.DomainCustomer:
			payload.Customer = slot
		case gateway.DomainCibil:
			payload.CibilAnalysis = slot
		case gateway.DomainCards:
			payload.CardRecommendation = slot
		case gateway.DomainOffers:
			payload.OfferPersonalization = slot
		default:
			return models.Payload{}, fmt.Errorf("unknown domain %q", s.Domain)
		}
	}
	if !payload.Complete() {
		return models.Payload{}, fmt.Errorf("payload incomplete: %d of %d domains settled", len(seen), len(gateway.Domains))
	}
	return payload, nil
}

type slotError struct {
	Error string `json:"error"`
}

func slotValue(s Settled) (json.RawMessage, error) {
	if s.Err != nil {
		encoded, err := json.Marshal(slotError{Error: s.Err.Error()})
		if err != nil {
			return nil, fmt.Errorf("encode %s error slot: %w", s.Domain, err)
		}
		return encoded, nil
	}
	if len(s.Value) == 0 {
		return json.RawMessage("null"), nil
	}
	return s.Value, nil
}

// customerNotFound is the sentinel the profile domain puts in result.error.
const customerNotFound = "Customer not found"

// IsCustomerNotFound reports whether the customer slot carries the backend's
// not-found sentinel.
func IsCustomerNotFound(customer json.RawMessage) bool {
	var body struct {
		Result struct {
			Error string `json:"error"`
		} `json:"result"`
	}
	if err := json.Unmarshal(customer, &body); err != nil {
		return false
	}
	return body.Result.Error == customerNotFound
}
