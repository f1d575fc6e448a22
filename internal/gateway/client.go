// Package gateway talks to the analytics backend. It only marshals requests
// and classifies failures: no retries and no caching.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"creditdash/internal/platform/metrics"
	"creditdash/pkg/platform/circuit"
)

// Domain is one of the four preload domains.
type Domain string

const (
	DomainCustomer Domain = "customer"
	DomainCibil    Domain = "cibil"
	DomainCards    Domain = "cards"
	DomainOffers   Domain = "offers"
)

// Domains lists the preload domains in payload order.
var Domains = []Domain{DomainCustomer, DomainCibil, DomainCards, DomainOffers}

// Endpoint returns the backend path segment serving d.
func (d Domain) Endpoint() string {
	switch d {
	case DomainCustomer:
		return EndpointAnalyzeCustomer
	case DomainCibil:
		return EndpointCibilAnalysis
	case DomainCards:
		return EndpointCardRecommendation
	case DomainOffers:
		return EndpointOfferPersonalization
	default:
		return ""
	}
}

const (
	EndpointAnalyzeCustomer      = "analyze-customer"
	EndpointCibilAnalysis        = "cibil-analysis"
	EndpointCardRecommendation   = "card-recommendation"
	EndpointOfferPersonalization = "offer-personalization"
	EndpointCardDetails          = "card-details"
	EndpointGeneratePDF          = "generate-pdf"

	defaultMaxResponseBytes = 32 << 20
)

// CustomerQuery is the body of every preload call.
type CustomerQuery struct {
	CustomerName string `json:"customer_name"`
	Aadhaar      string `json:"aadhaar"`
}

// ReportRequest bundles the four payload slots for document rendering.
// Nil slots are sent as JSON null.
type ReportRequest struct {
	Profile              json.RawMessage `json:"profile"`
	CibilAnalysis        json.RawMessage `json:"cibil_analysis"`
	CardRecommendation   json.RawMessage `json:"card_recommendation"`
	OfferPersonalization json.RawMessage `json:"offer_personalization"`
}

// Document is a rendered report.
type Document struct {
	Body        []byte
	ContentType string
}

// Timeouts bounds each kind of backend call.
type Timeouts struct {
	Default    time.Duration
	CardLookup time.Duration
	Export     time.Duration
}

// Client is the Remote Data Gateway. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	timeouts Timeouts
	breakers map[string]*circuit.Breaker
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
	maxBody  int64
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient      *http.Client
	timeouts        Timeouts
	breakerFailures int
	breakerCooldown time.Duration
	breakerClock    func() time.Time
	metrics         *metrics.Metrics
	logger          *slog.Logger
	tracerProvider  trace.TracerProvider
	maxBody         int64
}

func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) { cfg.httpClient = c }
}

func WithTimeouts(t Timeouts) Option {
	return func(cfg *clientConfig) { cfg.timeouts = t }
}

// WithBreaker sets the consecutive failures that open an endpoint's circuit
// and how long it stays open before a trial call.
func WithBreaker(failures int, cooldown time.Duration) Option {
	return func(cfg *clientConfig) {
		cfg.breakerFailures = failures
		cfg.breakerCooldown = cooldown
	}
}

// WithBreakerClock replaces time.Now inside the breakers, for tests.
func WithBreakerClock(now func() time.Time) Option {
	return func(cfg *clientConfig) { cfg.breakerClock = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *clientConfig) { cfg.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) { cfg.logger = l }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(cfg *clientConfig) { cfg.tracerProvider = tp }
}

// WithMaxResponseBytes caps the accepted response body size. Larger bodies
// fail with CategoryBadData.
func WithMaxResponseBytes(n int64) Option {
	return func(cfg *clientConfig) { cfg.maxBody = n }
}

// New builds a gateway for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	cfg := clientConfig{
		timeouts: Timeouts{
			Default:    60 * time.Second,
			CardLookup: 10 * time.Second,
			Export:     60 * time.Second,
		},
		breakerFailures: 5,
		breakerCooldown: 30 * time.Second,
		maxBody:         defaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}
	if cfg.maxBody <= 0 {
		cfg.maxBody = defaultMaxResponseBytes
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.tracerProvider == nil {
		cfg.tracerProvider = otel.GetTracerProvider()
	}

	breakerOpts := []circuit.Option{
		circuit.WithFailureThreshold(cfg.breakerFailures),
		circuit.WithCooldown(cfg.breakerCooldown),
	}
	if cfg.breakerClock != nil {
		breakerOpts = append(breakerOpts, circuit.WithClock(cfg.breakerClock))
	}
	breakers := make(map[string]*circuit.Breaker)
	for _, endpoint := range []string{
		EndpointAnalyzeCustomer, EndpointCibilAnalysis, EndpointCardRecommendation,
		EndpointOfferPersonalization, EndpointCardDetails, EndpointGeneratePDF,
	} {
		breakers[endpoint] = circuit.New(endpoint, breakerOpts...)
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     cfg.httpClient,
		timeouts: cfg.timeouts,
		breakers: breakers,
		metrics:  cfg.metrics,
		logger:   cfg.logger,
		tracer:   cfg.tracerProvider.Tracer("creditdash/internal/gateway"),
		maxBody:  cfg.maxBody,
	}
}

// Fetch posts q to the endpoint serving domain and returns the body verbatim.
func (c *Client) Fetch(ctx context.Context, domain Domain, q CustomerQuery) (json.RawMessage, error) {
	endpoint := domain.Endpoint()
	if endpoint == "" {
		return nil, fmt.Errorf("unknown domain %q", domain)
	}
	resp, err := c.call(ctx, endpoint, http.MethodPost, "/"+endpoint, q, c.timeouts.Default, true)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.body), nil
}

// CardDetails looks up catalogue data for one card by its display name.
func (c *Client) CardDetails(ctx context.Context, cardName string) (json.RawMessage, error) {
	target := "/" + EndpointCardDetails + "?" + url.Values{"card_name": {cardName}}.Encode()
	resp, err := c.call(ctx, EndpointCardDetails, http.MethodGet, target, nil, c.timeouts.CardLookup, true)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.body), nil
}

// GenerateReport asks the backend to render the report document.
func (c *Client) GenerateReport(ctx context.Context, req ReportRequest) (*Document, error) {
	resp, err := c.call(ctx, EndpointGeneratePDF, http.MethodPost, "/"+EndpointGeneratePDF+"/", req, c.timeouts.Export, false)
	if err != nil {
		return nil, err
	}
	return &Document{Body: resp.body, ContentType: resp.contentType}, nil
}

// BreakerState reports an endpoint's circuit position. Unknown endpoints are closed.
func (c *Client) BreakerState(endpoint string) circuit.State {
	if b, ok := c.breakers[endpoint]; ok {
		return b.State()
	}
	return circuit.StateClosed
}

// OpenCircuits lists endpoints whose breaker is open, sorted. /healthz
// reports them.
func (c *Client) OpenCircuits() []string {
	var open []string
	for endpoint := range c.breakers {
		if c.BreakerState(endpoint) == circuit.StateOpen {
			open = append(open, endpoint)
		}
	}
	slices.Sort(open)
	return open
}

type response struct {
	status      int
	body        []byte
	contentType string
}

func (c *Client) call(ctx context.Context, endpoint, method, target string, body any, timeout time.Duration, wantJSON bool) (*response, error) {
	ctx, span := c.tracer.Start(ctx, "gateway."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("gateway.endpoint", endpoint),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := c.roundTrip(ctx, endpoint, method, target, body, timeout, wantJSON)
	elapsed := time.Since(start)
	c.metrics.ObserveGatewayLatency(endpoint, elapsed)

	if err != nil {
		category := CategoryOf(err)
		c.metrics.IncrementGatewayFailure(endpoint, string(category))
		span.RecordError(err)
		span.SetStatus(codes.Error, string(category))
		c.logger.WarnContext(ctx, "backend call failed",
			"endpoint", endpoint,
			"category", category,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return nil, err
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.status))
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, endpoint, method, target string, body any, timeout time.Duration, wantJSON bool) (*response, error) {
	breaker := c.breakers[endpoint]
	if !breaker.Allow() {
		return nil, &Error{Category: CategoryCircuitOpen, Endpoint: endpoint}
	}

	resp, gerr := c.send(ctx, endpoint, method, target, body, timeout, wantJSON)
	switch {
	case gerr == nil:
		if _, change := breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "backend circuit closed", "endpoint", endpoint)
		}
		return resp, nil
	case gerr.Category == CategoryCanceled:
		breaker.Abandon()
	case gerr.countsAgainstBreaker():
		if _, change := breaker.RecordFailure(); change.Opened {
			c.logger.WarnContext(ctx, "backend circuit opened", "endpoint", endpoint)
		}
	default:
		// The upstream answered, so it is reachable.
		breaker.RecordSuccess()
	}
	return nil, gerr
}

func (c *Client) send(ctx context.Context, endpoint, method, target string, body any, timeout time.Duration, wantJSON bool) (*response, *Error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Category: CategoryBadData, Endpoint: endpoint, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+target, reader)
	if err != nil {
		return nil, &Error{Category: CategoryProviderOutage, Endpoint: endpoint, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if wantJSON {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, callCtx, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))
		return nil, &Error{Category: CategoryBadStatus, Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, transportError(ctx, callCtx, endpoint, err)
	}
	if int64(len(data)) > c.maxBody {
		return nil, &Error{Category: CategoryBadData, Endpoint: endpoint, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("body exceeds %d bytes", c.maxBody)}
	}
	if wantJSON && !json.Valid(data) {
		return nil, &Error{Category: CategoryBadData, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: errors.New("body is not valid JSON")}
	}

	return &response{
		status:      resp.StatusCode,
		body:        data,
		contentType: resp.Header.Get("Content-Type"),
	}, nil
}

// transportError separates caller cancellation from our own deadline and
// from network failures.
func transportError(parent, callCtx context.Context, endpoint string, err error) *Error {
	switch {
	case parent.Err() != nil:
		if errors.Is(parent.Err(), context.DeadlineExceeded) {
			return &Error{Category: CategoryTimeout, Endpoint: endpoint, Err: err}
		}
		return &Error{Category: CategoryCanceled, Endpoint: endpoint, Err: err}
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return &Error{Category: CategoryTimeout, Endpoint: endpoint, Err: err}
	default:
		return &Error{Category: CategoryProviderOutage, Endpoint: endpoint, Err: err}
	}
}
