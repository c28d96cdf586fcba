package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// stubProvider is a minimal provider for exercising the client against an
// httptest server. The response body is the completion content verbatim.
type stubProvider struct {
	name string
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) BuildURL(baseURL string) string { return baseURL }

func (s *stubProvider) SetHeaders(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

func (s *stubProvider) BuildRequestBody(model string, messages []Message, _ *float64, _ int) ([]byte, error) {
	return []byte(`{"model":"` + model + `"}`), nil
}

func (s *stubProvider) ParseResponse(body []byte, model string) (*Response, error) {
	return &Response{Content: string(body), Model: model}, nil
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	name := fmt.Sprintf("stub-%s", t.Name())
	RegisterProvider(&stubProvider{name: name})
	return NewClient(
		EndpointConfig{Provider: name, URL: url, Model: "test-model"},
		WithRetryConfig(RetryConfig{
			MaxAttempts:       3,
			BackoffBase:       time.Millisecond,
			BackoffMultiplier: 2.0,
			MaxBackoff:        5 * time.Millisecond,
		}),
	)
}

func TestClientAvailable(t *testing.T) {
	t.Run("no credential needed", func(t *testing.T) {
		c := NewClient(EndpointConfig{Provider: "openai", Model: "m"})
		if !c.Available() {
			t.Error("endpoint without APIKeyEnv should be available")
		}
	})

	t.Run("credential present", func(t *testing.T) {
		t.Setenv("TEST_LLM_KEY", "secret")
		c := NewClient(EndpointConfig{Provider: "openai", Model: "m", APIKeyEnv: "TEST_LLM_KEY"})
		if !c.Available() {
			t.Error("endpoint with credential set should be available")
		}
	})

	t.Run("credential missing", func(t *testing.T) {
		t.Setenv("TEST_LLM_KEY", "")
		c := NewClient(EndpointConfig{Provider: "openai", Model: "m", APIKeyEnv: "TEST_LLM_KEY"})
		if c.Available() {
			t.Error("endpoint with empty credential should be unavailable")
		}
	})
}

func TestClientCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "generated itinerary")
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	resp, err := c.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "plan a trip"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "generated itinerary" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.RequestID == "" {
		t.Error("RequestID not set")
	}
}

func TestClientRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, "ok after retries")
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	resp, err := c.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "ok after retries" {
		t.Errorf("Content = %q", resp.Content)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestClientStopsOnFatalError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if !IsFatal(err) {
		t.Fatalf("error = %v, want fatal", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1 (no retry on fatal)", got)
	}
}

func TestClientExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestClientCompleteValidation(t *testing.T) {
	t.Run("no messages", func(t *testing.T) {
		c := NewClient(EndpointConfig{Provider: "openai", Model: "m"})
		_, err := c.Complete(context.Background(), Request{})
		if !IsFatal(err) {
			t.Errorf("error = %v, want fatal", err)
		}
	})

	t.Run("missing credential", func(t *testing.T) {
		t.Setenv("TEST_LLM_KEY", "")
		c := NewClient(EndpointConfig{Provider: "openai", Model: "m", APIKeyEnv: "TEST_LLM_KEY"})
		_, err := c.Complete(context.Background(), Request{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if !IsFatal(err) {
			t.Errorf("error = %v, want fatal", err)
		}
	})

	t.Run("unknown provider", func(t *testing.T) {
		c := NewClient(EndpointConfig{Provider: "no-such-provider", Model: "m"})
		_, err := c.Complete(context.Background(), Request{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if !IsFatal(err) {
			t.Errorf("error = %v, want fatal", err)
		}
	})
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status        int
		wantTransient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusUnauthorized, false},
		{http.StatusBadRequest, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		err := classifyHTTPError(tt.status, []byte("body"))
		if IsTransient(err) != tt.wantTransient {
			t.Errorf("status %d: transient = %v, want %v", tt.status, IsTransient(err), tt.wantTransient)
		}
	}
}

func TestErrorClassification(t *testing.T) {
	base := errors.New("boom")

	transient := NewTransientError(base)
	if !IsTransient(transient) || IsFatal(transient) {
		t.Error("transient error misclassified")
	}
	if !errors.Is(transient, base) {
		t.Error("transient error does not unwrap to its cause")
	}

	fatal := NewFatalError(base)
	if !IsFatal(fatal) || IsTransient(fatal) {
		t.Error("fatal error misclassified")
	}
	if !errors.Is(fatal, base) {
		t.Error("fatal error does not unwrap to its cause")
	}

	wrapped := fmt.Errorf("attempt failed: %w", transient)
	if !IsTransient(wrapped) {
		t.Error("classification lost through wrapping")
	}
}

func TestClientTimeoutAborts(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		fmt.Fprint(w, "too late")
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	name := fmt.Sprintf("stub-%s", t.Name())
	RegisterProvider(&stubProvider{name: name})
	c := NewClient(
		EndpointConfig{Provider: name, URL: server.URL, Model: "test-model"},
		WithTimeout(20*time.Millisecond),
		WithRetryConfig(RetryConfig{MaxAttempts: 1}),
	)

	start := time.Now()
	_, err := c.Complete(context.Background(), Request{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	if !IsTransient(err) {
		t.Errorf("timeout classified as %v, want transient", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("request took %v, configured timeout did not take effect", elapsed)
	}
}

func TestBackoffJitter(t *testing.T) {
	rc := RetryConfig{
		MaxAttempts:       5,
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        3 * time.Second,
	}

	for attempt := 1; attempt <= 5; attempt++ {
		got := rc.backoffFor(attempt)
		// Jitter is ±25% of the capped backoff.
		if got < 0 || got > time.Duration(float64(3*time.Second)*1.25) {
			t.Errorf("attempt %d: backoff %v outside expected range", attempt, got)
		}
	}
}
