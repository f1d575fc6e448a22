package preload_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"creditdash/internal/gateway"
	"creditdash/internal/platform/metrics"
	"creditdash/internal/preload"
	"creditdash/internal/preload/mocks"
	"creditdash/internal/session/models"
	dErrors "creditdash/pkg/domain-errors"
)

type LoginSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	preloader *mocks.MockPreloader
	store     *mocks.MockSessionStore
	tokens    *mocks.MockTokenIssuer
	metrics   *metrics.Metrics
	service   *preload.Service
	sessionID uuid.UUID
	now       time.Time
}

func TestLoginSuite(t *testing.T) {
	suite.Run(t, new(LoginSuite))
}

func (s *LoginSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.preloader = mocks.NewMockPreloader(s.ctrl)
	s.store = mocks.NewMockSessionStore(s.ctrl)
	s.tokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.sessionID = uuid.New()
	s.now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	s.service = preload.NewService(s.preloader, s.store, s.tokens,
		preload.WithLogger(discardLogger()),
		preload.WithMetrics(s.metrics),
		preload.WithSessionTTL(time.Hour),
		preload.WithIDGenerator(func() uuid.UUID { return s.sessionID }),
		preload.WithClock(func() time.Time { return s.now }),
	)
}

func settledFrom(values map[gateway.Domain]json.RawMessage, failures map[gateway.Domain]error) []preload.Settled {
	out := make([]preload.Settled, 0, len(gateway.Domains))
	for _, d := range gateway.Domains {
		if err, ok := failures[d]; ok {
			out = append(out, preload.Settled{Domain: d, Err: err})
			continue
		}
		out = append(out, preload.Settled{Domain: d, Value: values[d]})
	}
	return out
}

func (s *LoginSuite) outcome(state preload.State) float64 {
	return promtestutil.ToFloat64(s.metrics.PreloadOutcome.WithLabelValues(string(state)))
}

func (s *LoginSuite) TestCommitsDegradedPayload() {
	failures := map[gateway.Domain]error{
		gateway.DomainCibil: &gateway.Error{Category: gateway.CategoryBadStatus, StatusCode: 503},
	}
	s.preloader.EXPECT().Preload(gomock.Any(), preload.Credentials{CustomerName: "JANE DOE", Aadhaar: "1234"}).
		Return(settledFrom(bodies(), failures), nil)
	s.tokens.EXPECT().IssueSessionToken(s.sessionID, "JANE DOE", time.Hour).Return("signed-token", nil)

	var committed models.Payload
	s.store.EXPECT().Commit(gomock.Any(), s.sessionID, gomock.Any(), "JANE DOE", "1234").
		DoAndReturn(func(_ context.Context, _ uuid.UUID, p models.Payload, _, _ string) error {
			committed = p
			return nil
		})

	result, err := s.service.Login(context.Background(), preload.Credentials{CustomerName: "  JANE DOE ", Aadhaar: "1234"})
	s.Require().NoError(err)
	s.Equal(s.sessionID, result.SessionID)
	s.Equal("signed-token", result.Token)
	s.Equal("/dashboard", result.Redirect)
	s.Equal(s.now.Add(time.Hour), result.ExpiresAt)
	s.Equal([]string{"cibil"}, result.Degraded)

	s.JSONEq(`{"error":"HTTP error! status: 503"}`, string(committed.CibilAnalysis))
	s.JSONEq(`{"result":{"customer":{"name":"JANE DOE"}}}`, string(committed.Customer))
	s.Equal(1.0, s.outcome(preload.StateCommitted))
}

func (s *LoginSuite) TestRejectsCustomerNotFound() {
	values := bodies()
	values[gateway.DomainCustomer] = json.RawMessage(`{"result":{"error":"Customer not found"}}`)
	s.preloader.EXPECT().Preload(gomock.Any(), gomock.Any()).Return(settledFrom(values, nil), nil)
	// No Commit or IssueSessionToken expectations: gomock fails on any call.

	result, err := s.service.Login(context.Background(), preload.Credentials{CustomerName: "NOBODY"})
	s.Nil(result)
	s.Require().ErrorIs(err, dErrors.New(dErrors.CodeNotFound, "Customer not found. Please check the name and try again."))
	s.Equal(1.0, s.outcome(preload.StateRejected))
}

func (s *LoginSuite) TestCommitFailureIsGenericError() {
	s.preloader.EXPECT().Preload(gomock.Any(), gomock.Any()).Return(settledFrom(bodies(), nil), nil)
	s.tokens.EXPECT().IssueSessionToken(gomock.Any(), gomock.Any(), gomock.Any()).Return("signed-token", nil)
	s.store.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("redis down"))

	_, err := s.service.Login(context.Background(), janeDoe)
	s.Require().ErrorIs(err, dErrors.New(dErrors.CodeInternal, "An error occurred while loading customer data. Please try again."))
	s.Equal(1.0, s.outcome(preload.StateFailed))
}

func (s *LoginSuite) TestTokenFailureCommitsNothing() {
	s.preloader.EXPECT().Preload(gomock.Any(), gomock.Any()).Return(settledFrom(bodies(), nil), nil)
	s.tokens.EXPECT().IssueSessionToken(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("no key"))

	_, err := s.service.Login(context.Background(), janeDoe)
	s.True(dErrors.Is(err, dErrors.CodeInternal))
}

func (s *LoginSuite) TestMalformedJoinIsGenericError() {
	s.preloader.EXPECT().Preload(gomock.Any(), gomock.Any()).
		Return([]preload.Settled{{Domain: gateway.DomainCustomer, Value: json.RawMessage(`{}`)}}, nil)

	_, err := s.service.Login(context.Background(), janeDoe)
	s.True(dErrors.Is(err, dErrors.CodeInternal))
	s.Equal(1.0, s.outcome(preload.StateFailed))
}

func (s *LoginSuite) TestPreloadTimeout() {
	service := preload.NewService(s.preloader, s.store, s.tokens,
		preload.WithLogger(discardLogger()),
		preload.WithPreloadTimeout(10*time.Millisecond),
	)
	s.preloader.EXPECT().Preload(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ preload.Credentials) ([]preload.Settled, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	_, err := service.Login(context.Background(), janeDoe)
	s.True(dErrors.Is(err, dErrors.CodeTimeout))
}

func (s *LoginSuite) TestRequiresCustomerName() {
	_, err := s.service.Login(context.Background(), preload.Credentials{CustomerName: "   "})
	s.True(dErrors.Is(err, dErrors.CodeValidation))
}
