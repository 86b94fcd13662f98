package currencylayer

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripline/expense-enricher/internal/observability"
)

const testKey = "test-access-key"

func testClient(baseURL string) *Client {
	return NewClient(testKey, baseURL, 5*time.Second, 0,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Rate_ConvertSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/convert", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
		assert.Equal(t, "1", r.URL.Query().Get("amount"))
		assert.Equal(t, testKey, r.URL.Query().Get("access_key"))
		_, _ = w.Write([]byte(`{"success":true,"info":{"rate":1.07},"result":1.07}`))
	}))
	defer srv.Close()

	rate, err := testClient(srv.URL).Rate(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, 1.07, rate)
}

func TestClient_Rate_PlanRestrictionFallsBackToLive(t *testing.T) {
	var livePaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		livePaths = append(livePaths, r.URL.Path)
		switch r.URL.Path {
		case "/convert":
			// Free-plan rejection payload.
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":105,"info":"Access Restricted - Your current Subscription Plan does not support this API Function."}}`))
		case "/live":
			assert.Equal(t, "INR", r.URL.Query().Get("currencies"))
			_, _ = w.Write([]byte(`{"success":true,"quotes":{"USDINR":83.12}}`))
		}
	}))
	defer srv.Close()

	rate, err := testClient(srv.URL).Rate(context.Background(), "INR")
	require.NoError(t, err)
	assert.InDelta(t, 1/83.12, rate, 1e-12)
	assert.Equal(t, []string{"/convert", "/live"}, livePaths)
}

func TestClient_Rate_BothEndpointsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":101,"info":"Invalid access key"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Rate(context.Background(), "EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "101")
}

func TestClient_Rate_LiveMissingQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/convert":
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":105,"info":"restricted"}}`))
		case "/live":
			_, _ = w.Write([]byte(`{"success":true,"quotes":{}}`))
		}
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Rate(context.Background(), "EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "USDEUR")
}

func TestClient_Rate_TransportErrorOnBoth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Rate(context.Background(), "EUR")
	require.Error(t, err)
}
