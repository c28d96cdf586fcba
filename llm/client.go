// Package llm provides a provider-agnostic client for the itinerary
// generation collaborator, with retry, transient/fatal error classification,
// and tolerant JSON extraction from model output.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// maxResponseSize caps the response body read to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// Request is a completion request.
type Request struct {
	Messages []Message

	// Temperature controls randomness. nil uses the endpoint default.
	Temperature *float64

	// MaxTokens limits response length. 0 uses the endpoint default.
	MaxTokens int
}

// Response is the completion result.
type Response struct {
	// RequestID uniquely identifies this call for log correlation.
	RequestID string

	// Content is the generated text.
	Content string

	// Model is the model that actually served the request.
	Model string

	// FinishReason indicates why generation stopped.
	FinishReason string
}

// Completer is the interface the planning engine depends on. The production
// implementation is *Client; tests use llm/testutil.MockClient.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// EndpointConfig describes one model endpoint.
type EndpointConfig struct {
	// Provider names a registered Provider ("openai", "anthropic").
	Provider string `json:"provider" yaml:"provider"`

	// URL is the API base URL. Empty uses the provider default.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Model is the identifier sent to the provider.
	Model string `json:"model" yaml:"model"`

	// APIKeyEnv is the environment variable holding the credential.
	// Empty means the endpoint needs no credential (e.g. a local server).
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`
}

// Client calls a single configured endpoint with retry and backoff.
type Client struct {
	endpoint    EndpointConfig
	httpClient  *http.Client
	retryConfig RetryConfig
	logger      *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the per-request timeout. A timed-out request surfaces as a
// transient error, which callers treat as collaborator-unavailable.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithRetryConfig sets the retry configuration.
func WithRetryConfig(cfg RetryConfig) ClientOption {
	return func(client *Client) {
		client.retryConfig = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a client for the given endpoint.
func NewClient(endpoint EndpointConfig, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:    endpoint,
		retryConfig: DefaultRetryConfig(),
		httpClient: &http.Client{
			Timeout: 120 * time.Second, // allow time for long completions
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Available reports whether the endpoint has the credential it needs.
// Callers treat an unavailable client the same as a failed one and fall back
// to the deterministic mock planner.
func (c *Client) Available() bool {
	if c.endpoint.APIKeyEnv == "" {
		return true
	}
	return os.Getenv(c.endpoint.APIKeyEnv) != ""
}

// Complete sends a completion request, retrying transient failures with
// exponential backoff.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, NewFatalError(fmt.Errorf("at least one message is required"))
	}
	if !c.Available() {
		return nil, NewFatalError(fmt.Errorf("no credential in %s for endpoint %s", c.endpoint.APIKeyEnv, c.endpoint.Model))
	}

	requestID := uuid.New().String()
	var lastErr error

	for attempt := 1; attempt <= c.retryConfig.MaxAttempts; attempt++ {
		resp, err := c.doRequest(ctx, req)
		if err == nil {
			resp.RequestID = requestID
			return resp, nil
		}
		lastErr = err

		if IsFatal(err) {
			return nil, err
		}

		if attempt < c.retryConfig.MaxAttempts {
			backoff := c.retryConfig.backoffFor(attempt)
			c.logger.Debug("completion failed, retrying",
				"request_id", requestID,
				"attempt", attempt,
				"max_attempts", c.retryConfig.MaxAttempts,
				"backoff", backoff,
				"error", err)

			select {
			case <-ctx.Done():
				return nil, NewTransientError(ctx.Err())
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("endpoint %s failed after %d attempts: %w",
		c.endpoint.Model, c.retryConfig.MaxAttempts, lastErr)
}

// doRequest executes a single HTTP request against the endpoint.
func (c *Client) doRequest(ctx context.Context, req Request) (*Response, error) {
	provider := GetProvider(c.endpoint.Provider)
	if provider == nil {
		return nil, NewFatalError(fmt.Errorf("unknown provider: %s", c.endpoint.Provider))
	}

	url := provider.BuildURL(c.endpoint.URL)

	body, err := provider.BuildRequestBody(c.endpoint.Model, req.Messages, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	c.logger.Debug("sending completion request",
		"provider", c.endpoint.Provider,
		"model", c.endpoint.Model,
		"messages", len(req.Messages))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq, os.Getenv(c.endpoint.APIKeyEnv))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Network errors, including timeouts, are transient.
		return nil, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, NewTransientError(fmt.Errorf("read response body: %w", err))
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	return provider.ParseResponse(respBody, c.endpoint.Model)
}

// classifyHTTPError maps an HTTP status to a transient or fatal error.
func classifyHTTPError(statusCode int, body []byte) error {
	bodyStr := string(body)
	if len(bodyStr) > 200 {
		bodyStr = bodyStr[:200] + "..."
	}

	err := fmt.Errorf("LLM API error (status %d): %s", statusCode, bodyStr)

	switch {
	case statusCode == http.StatusTooManyRequests:
		return NewTransientError(err)
	case statusCode >= 500:
		return NewTransientError(err)
	default:
		// Auth and bad-request errors are config issues; retrying won't help.
		return NewFatalError(err)
	}
}
