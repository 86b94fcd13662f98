package webapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "expense-enricher/1.2", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Berlin", r.URL.Query().Get("name"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	c := NewClient("test", 5*time.Second, 0)
	var out struct {
		Value int `json:"value"`
	}
	err := c.GetJSON(context.Background(), srv.URL, url.Values{"name": {"Berlin"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Value)
}

func TestClient_GetJSON_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := NewClient("test", 5*time.Second, 0)
	var out map[string]any
	err := c.GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindStatus, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Not Authorized")
}

func TestClient_GetJSON_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	c := NewClient("test", 5*time.Second, 0)
	var out map[string]any
	err := c.GetJSON(context.Background(), srv.URL, nil, &out)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindDecode, apiErr.Kind)
}

func TestClient_GetJSON_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient("test", 50*time.Millisecond, 0)
	var out map[string]any
	err := c.GetJSON(context.Background(), srv.URL, nil, &out)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTimeout, apiErr.Kind)
}

func TestClient_GetJSON_ConnectionRefused(t *testing.T) {
	c := NewClient("test", time.Second, 0)
	var out map[string]any
	err := c.GetJSON(context.Background(), "http://127.0.0.1:1", nil, &out)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindTransport, apiErr.Kind)
}

func TestClient_GetJSON_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, 2)
	var out map[string]any

	for i := 0; i < 2; i++ {
		err := c.GetJSON(context.Background(), srv.URL, nil, &out)
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindStatus, apiErr.Kind)
	}

	// Third call is rejected without reaching the server.
	err := c.GetJSON(context.Background(), srv.URL, nil, &out)
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindOpen, apiErr.Kind)
	assert.Equal(t, 2, calls)
}
