package preload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"creditdash/internal/platform/metrics"
	"creditdash/internal/session/models"
	dErrors "creditdash/pkg/domain-errors"
)

const (
	msgCustomerNotFound = "Customer not found. Please check the name and try again."
	msgPreloadFailed    = "An error occurred while loading customer data. Please try again."

	// DashboardPath is where a successful login navigates.
	DashboardPath = "/dashboard"
)

// Preloader runs the four-domain fan-out.
type Preloader interface {
	Preload(ctx context.Context, creds Credentials) ([]Settled, error)
}

// SessionStore persists the merged payload.
type SessionStore interface {
	Commit(ctx context.Context, id uuid.UUID, payload models.Payload, name, aadhaar string) error
}

// TokenIssuer signs the session token handed back to the client.
type TokenIssuer interface {
	IssueSessionToken(sessionID uuid.UUID, customerName string, expiresIn time.Duration) (string, error)
}

// LoginResult is returned for a committed login.
type LoginResult struct {
	SessionID    uuid.UUID
	CustomerName string
	Token        string
	ExpiresAt    time.Time
	Redirect     string
	Degraded     []string
}

// Service drives one login through idle, fanning-out and joined to a
// terminal state.
type Service struct {
	preloader      Preloader
	store          SessionStore
	tokens         TokenIssuer
	sessionTTL     time.Duration
	preloadTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	newID          func() uuid.UUID
	now            func() time.Time
}

// Option configures a Service.
type Option func(*Service)

func WithPreloadTimeout(d time.Duration) Option {
	return func(s *Service) { s.preloadTimeout = d }
}

func WithSessionTTL(d time.Duration) Option {
	return func(s *Service) { s.sessionTTL = d }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithIDGenerator replaces uuid.New, for tests.
func WithIDGenerator(f func() uuid.UUID) Option {
	return func(s *Service) { s.newID = f }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(preloader Preloader, store SessionStore, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{
		preloader:      preloader,
		store:          store,
		tokens:         tokens,
		sessionTTL:     8 * time.Hour,
		preloadTimeout: 90 * time.Second,
		logger:         slog.Default(),
		newID:          uuid.New,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// attempt tracks the state of one login.
type attempt struct {
	state  State
	logger *slog.Logger
	ctx    context.Context
}

func (a *attempt) to(next State) {
	if !a.state.CanTransition(next) {
		a.logger.ErrorContext(a.ctx, "illegal preload transition", "from", a.state, "to", next)
		return
	}
	a.logger.DebugContext(a.ctx, "preload transition", "from", a.state, "to", next)
	a.state = next
}

// Login preloads every domain for creds and commits the result as a new
// session. A customer-not-found sentinel rejects the login and nothing is
// committed; partial domain failures are kept in the payload as error slots.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	creds.CustomerName = strings.TrimSpace(creds.CustomerName)
	creds.Aadhaar = strings.TrimSpace(creds.Aadhaar)
	if creds.CustomerName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "customer name is required")
	}

	a := &attempt{state: StateIdle, logger: s.logger, ctx: ctx}
	result, err := s.run(ctx, a, creds)
	if err != nil && !a.state.IsTerminal() {
		a.to(StateFailed)
	}
	s.metrics.IncrementPreloadOutcome(string(a.state))
	return result, err
}

func (s *Service) run(ctx context.Context, a *attempt, creds Credentials) (*LoginResult, error) {
	preloadCtx := ctx
	if s.preloadTimeout > 0 {
		var cancel context.CancelFunc
		preloadCtx, cancel = context.WithTimeout(ctx, s.preloadTimeout)
		defer cancel()
	}

	a.to(StateFanningOut)
	start := time.Now()
	settled, err := s.preloader.Preload(preloadCtx, creds)
	elapsed := time.Since(start)
	s.metrics.ObservePreloadDuration(elapsed)
	if err != nil {
		s.logger.WarnContext(ctx, "preload did not join",
			"customer_name", creds.CustomerName,
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, msgPreloadFailed)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgPreloadFailed)
	}
	a.to(StateJoined)

	var degraded []string
	for _, st := range settled {
		if st.Failed() {
			degraded = append(degraded, string(st.Domain))
		}
	}
	s.logger.InfoContext(ctx, "all data preloaded",
		"customer_name", creds.CustomerName,
		"duration_ms", elapsed.Milliseconds(),
		"degraded", degraded,
	)

	payload, err := Merge(settled)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, msgPreloadFailed)
	}

	if IsCustomerNotFound(payload.Customer) {
		a.to(StateRejected)
		s.logger.InfoContext(ctx, "login rejected, customer not found",
			"customer_name", creds.CustomerName,
		)
		return nil, dErrors.New(dErrors.CodeNotFound, msgCustomerNotFound)
	}

	sessionID := s.newID()
	expiresAt := s.now().Add(s.sessionTTL)
	token, err := s.tokens.IssueSessionToken(sessionID, creds.CustomerName, s.sessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(fmt.Errorf("issue session token: %w", err), dErrors.CodeInternal, msgPreloadFailed)
	}
	if err := s.store.Commit(ctx, sessionID, payload, creds.CustomerName, creds.Aadhaar); err != nil {
		return nil, dErrors.Wrap(fmt.Errorf("commit session: %w", err), dErrors.CodeInternal, msgPreloadFailed)
	}
	a.to(StateCommitted)

	return &LoginResult{
		SessionID:    sessionID,
		CustomerName: creds.CustomerName,
		Token:        token,
		ExpiresAt:    expiresAt,
		Redirect:     DashboardPath,
		Degraded:     degraded,
	}, nil
}
