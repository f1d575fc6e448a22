package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditdash/internal/platform/metrics"
	"creditdash/pkg/platform/circuit"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", opts...)
}

func TestFetch(t *testing.T) {
	t.Run("posts the customer query and returns the body verbatim", func(t *testing.T) {
		var gotPath, gotMethod string
		var gotBody CustomerQuery
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath, gotMethod = r.URL.Path, r.Method
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"result":{"score":742,"bands":[1,2]}}`)
		}))

		body, err := client.Fetch(context.Background(), DomainCibil, CustomerQuery{CustomerName: "JANE DOE", Aadhaar: "1234"})
		require.NoError(t, err)
		assert.Equal(t, "/cibil-analysis", gotPath)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, CustomerQuery{CustomerName: "JANE DOE", Aadhaar: "1234"}, gotBody)
		assert.Equal(t, `{"result":{"score":742,"bands":[1,2]}}`, string(body))
	})

	t.Run("maps every domain to its endpoint", func(t *testing.T) {
		seen := make(chan string, len(Domains))
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen <- r.URL.Path
			_, _ = io.WriteString(w, `{}`)
		}))
		for _, d := range Domains {
			_, err := client.Fetch(context.Background(), d, CustomerQuery{CustomerName: "A"})
			require.NoError(t, err)
		}
		close(seen)
		var paths []string
		for p := range seen {
			paths = append(paths, p)
		}
		assert.Equal(t, []string{"/analyze-customer", "/cibil-analysis", "/card-recommendation", "/offer-personalization"}, paths)
	})

	t.Run("non-2xx becomes bad_status with the status in the message", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		_, err := client.Fetch(context.Background(), DomainOffers, CustomerQuery{CustomerName: "A"})
		require.Error(t, err)
		assert.Equal(t, CategoryBadStatus, CategoryOf(err))
		assert.Equal(t, "HTTP error! status: 500", err.Error())
	})

	t.Run("invalid JSON becomes bad_data", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>oops</html>`)
		}))
		_, err := client.Fetch(context.Background(), DomainCustomer, CustomerQuery{CustomerName: "A"})
		assert.Equal(t, CategoryBadData, CategoryOf(err))
	})

	t.Run("call deadline becomes timeout", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}), WithTimeouts(Timeouts{Default: 20 * time.Millisecond}))
		_, err := client.Fetch(context.Background(), DomainCustomer, CustomerQuery{CustomerName: "A"})
		assert.Equal(t, CategoryTimeout, CategoryOf(err))
	})

	t.Run("caller cancellation becomes canceled", func(t *testing.T) {
		started := make(chan struct{})
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-r.Context().Done()
		}))
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			<-started
			cancel()
		}()
		_, err := client.Fetch(ctx, DomainCustomer, CustomerQuery{CustomerName: "A"})
		assert.Equal(t, CategoryCanceled, CategoryOf(err))
	})

	t.Run("unreachable backend becomes provider_outage", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := New(srv.URL)
		_, err := client.Fetch(context.Background(), DomainCustomer, CustomerQuery{CustomerName: "A"})
		assert.Equal(t, CategoryProviderOutage, CategoryOf(err))
	})
}

func TestCardDetails(t *testing.T) {
	var gotName, gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("card_name")
		_, _ = io.WriteString(w, `{"Type":"Lifestyle","annual_fee":"999"}`)
	}))

	body, err := client.CardDetails(context.Background(), "BOB Eterna & Co/Premium")
	require.NoError(t, err)
	assert.Equal(t, "/card-details", gotPath)
	assert.Equal(t, "BOB Eterna & Co/Premium", gotName)
	assert.JSONEq(t, `{"Type":"Lifestyle","annual_fee":"999"}`, string(body))
}

func TestGenerateReport(t *testing.T) {
	t.Run("sends null slots and returns the binary body", func(t *testing.T) {
		var got map[string]json.RawMessage
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/generate-pdf/", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.7 binary"))
		}))

		doc, err := client.GenerateReport(context.Background(), ReportRequest{})
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", doc.ContentType)
		assert.Equal(t, []byte("%PDF-1.7 binary"), doc.Body)
		for _, key := range []string{"profile", "cibil_analysis", "card_recommendation", "offer_personalization"} {
			assert.Equal(t, "null", string(got[key]), key)
		}
	})

	t.Run("non-2xx yields no document", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		doc, err := client.GenerateReport(context.Background(), ReportRequest{})
		assert.Nil(t, doc)
		assert.Equal(t, CategoryBadStatus, CategoryOf(err))
	})

	t.Run("body over the cap is rejected, not truncated", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(bytes.Repeat([]byte("x"), 1025))
		}), WithMaxResponseBytes(1024))

		doc, err := client.GenerateReport(context.Background(), ReportRequest{})
		assert.Nil(t, doc)
		assert.Equal(t, CategoryBadData, CategoryOf(err))
	})

	t.Run("body at the cap is accepted", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(bytes.Repeat([]byte("x"), 1024))
		}), WithMaxResponseBytes(1024))

		doc, err := client.GenerateReport(context.Background(), ReportRequest{})
		require.NoError(t, err)
		assert.Len(t, doc.Body, 1024)
	})

	t.Run("default cap rejects a 33 MiB document", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write(make([]byte, 33<<20))
		}))

		doc, err := client.GenerateReport(context.Background(), ReportRequest{})
		assert.Nil(t, doc)
		assert.Equal(t, CategoryBadData, CategoryOf(err))
	})
}

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	var hits atomic.Int32
	var healthy atomic.Bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !healthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"result":{}}`)
	}),
		WithBreaker(2, time.Minute),
		WithBreakerClock(func() time.Time { return now }),
	)
	ctx := context.Background()
	q := CustomerQuery{CustomerName: "A"}

	for i := 0; i < 2; i++ {
		_, err := client.Fetch(ctx, DomainCards, q)
		require.Equal(t, CategoryBadStatus, CategoryOf(err))
	}
	assert.Equal(t, circuit.StateOpen, client.BreakerState(EndpointCardRecommendation))
	assert.Equal(t, []string{EndpointCardRecommendation}, client.OpenCircuits())

	_, err := client.Fetch(ctx, DomainCards, q)
	assert.Equal(t, CategoryCircuitOpen, CategoryOf(err))
	assert.Equal(t, int32(2), hits.Load(), "open circuit fails fast")

	_, err = client.Fetch(ctx, DomainCibil, q)
	assert.Equal(t, CategoryBadStatus, CategoryOf(err), "breakers are per endpoint")

	healthy.Store(true)
	now = now.Add(2 * time.Minute)
	_, err = client.Fetch(ctx, DomainCards, q)
	require.NoError(t, err)
	assert.Equal(t, circuit.StateClosed, client.BreakerState(EndpointCardRecommendation))
	assert.Empty(t, client.OpenCircuits())
}

func TestClientErrorsDoNotOpenCircuit(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), WithBreaker(1, time.Minute))

	for i := 0; i < 3; i++ {
		_, err := client.CardDetails(context.Background(), "Unknown")
		assert.Equal(t, CategoryBadStatus, CategoryOf(err))
	}
	assert.Equal(t, circuit.StateClosed, client.BreakerState(EndpointCardDetails))
}

func TestMetricsRecorded(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/offer-personalization" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	}), WithMetrics(m))

	_, _ = client.Fetch(context.Background(), DomainCustomer, CustomerQuery{CustomerName: "A"})
	_, _ = client.Fetch(context.Background(), DomainOffers, CustomerQuery{CustomerName: "A"})

	assert.Equal(t, 1.0, promtestutil.ToFloat64(m.GatewayFailures.WithLabelValues(EndpointOfferPersonalization, string(CategoryBadStatus))))
	assert.Equal(t, 0.0, promtestutil.ToFloat64(m.GatewayFailures.WithLabelValues(EndpointAnalyzeCustomer, string(CategoryBadStatus))))
	assert.Equal(t, 2, promtestutil.CollectAndCount(m.GatewayLatency))
}
