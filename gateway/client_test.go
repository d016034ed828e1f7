package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(StokenetURL, StokenetID)

	if c.baseURL != StokenetURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, StokenetURL)
	}
	if c.NetworkID() != StokenetID {
		t.Errorf("NetworkID() = %d, want %d", c.NetworkID(), StokenetID)
	}
	if c.maxRetries != 3 {
		t.Errorf("maxRetries = %d, want 3", c.maxRetries)
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", c.httpClient.Timeout)
	}
}

func TestClientOptions(t *testing.T) {
	hc := &http.Client{}
	c := NewClient(MainnetURL, MainnetID,
		WithTimeout(5*time.Second),
		WithRetries(7, 100*time.Millisecond),
		WithPollInterval(50*time.Millisecond),
		WithHTTPClient(hc),
	)

	if c.maxRetries != 7 {
		t.Errorf("maxRetries = %d, want 7", c.maxRetries)
	}
	if c.retryBackoff != 100*time.Millisecond {
		t.Errorf("retryBackoff = %v, want 100ms", c.retryBackoff)
	}
	if c.pollInterval != 50*time.Millisecond {
		t.Errorf("pollInterval = %v, want 50ms", c.pollInterval)
	}
	if c.httpClient != hc {
		t.Error("custom http client not applied")
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"ledger_state": map[string]any{
				"network":       "stokenet",
				"epoch":         100,
				"state_version": 12345,
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StokenetID, WithRetries(5, time.Millisecond))
	state, err := c.LedgerState(context.Background())
	if err != nil {
		t.Fatalf("LedgerState() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if state.Epoch != 100 {
		t.Errorf("epoch = %d, want 100", state.Epoch)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StokenetID, WithRetries(5, time.Millisecond))
	_, err := c.LedgerState(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls)
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		err := &APIError{StatusCode: tt.status, Message: http.StatusText(tt.status)}
		if err.IsRetryable() != tt.retryable {
			t.Errorf("IsRetryable(%d) = %v, want %v", tt.status, err.IsRetryable(), tt.retryable)
		}
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(&APIError{StatusCode: http.StatusNotFound}) {
		t.Error("404 should be not-found")
	}
	if IsNotFound(&APIError{StatusCode: http.StatusBadRequest}) {
		t.Error("400 should not be not-found")
	}
	if IsNotFound(context.Canceled) {
		t.Error("non-API error should not be not-found")
	}
}
