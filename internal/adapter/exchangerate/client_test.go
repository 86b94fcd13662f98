package exchangerate

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

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, 0,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Rate_ConvertSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/convert", r.URL.Path)
		assert.Equal(t, "EUR", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
		_, _ = w.Write([]byte(`{"info":{"rate":1.07},"result":1.07}`))
	}))
	defer srv.Close()

	rate, err := testClient(srv.URL).Rate(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, 1.07, rate)
}

func TestClient_Rate_ConvertMissingRateFallsBackToLatest(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/convert":
			_, _ = w.Write([]byte(`{}`))
		case "/latest":
			assert.Equal(t, "JPY", r.URL.Query().Get("base"))
			assert.Equal(t, "USD", r.URL.Query().Get("symbols"))
			_, _ = w.Write([]byte(`{"rates":{"USD":0.0064}}`))
		}
	}))
	defer srv.Close()

	rate, err := testClient(srv.URL).Rate(context.Background(), "JPY")
	require.NoError(t, err)
	assert.Equal(t, 0.0064, rate)
	assert.Equal(t, []string{"/convert", "/latest"}, paths)
}

func TestClient_Rate_BothEndpointsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Rate(context.Background(), "EUR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchangerate.host")
}
