package juno

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/domain/interfaces"
	"github.com/secmon-lab/juno/pkg/utils/logging"
	"github.com/secmon-lab/juno/pkg/utils/safe"
	"github.com/sony/gobreaker"
)

const maxErrorBody = 4096

// Transport sends JSON requests to the Juno API
type Transport struct {
	baseURL string
	client  *http.Client
	tokens  interfaces.TokenSource
	breaker *gobreaker.CircuitBreaker
}

// TransportOption configures a Transport
type TransportOption func(*Transport)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client *http.Client) TransportOption {
	return func(t *Transport) {
		t.client = client
	}
}

// WithTokenSource attaches bearer tokens to requests
func WithTokenSource(tokens interfaces.TokenSource) TransportOption {
	return func(t *Transport) {
		t.tokens = tokens
	}
}

// WithCircuitBreaker makes requests fail fast after consecutive server
// failures until the breaker timeout elapses.
func WithCircuitBreaker(failures uint32, timeout time.Duration) TransportOption {
	return func(t *Transport) {
		t.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "juno-api",
			MaxRequests: 1,
			Timeout:     timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				// client errors mean the API is up
				return err == nil || (StatusCode(err) > 0 && StatusCode(err) < 500)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Default().Warn("circuit breaker state changed",
					"name", name, "from", from.String(), "to", to.String())
			},
		})
	}
}

// NewTransport creates a Transport for the API served at baseURL
func NewTransport(baseURL string, opts ...TransportOption) *Transport {
	t := &Transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseURL returns the API root
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// Do sends a request to path (with query string) and decodes the response
// into out. A nil body sends no payload and a nil out discards the response.
func (t *Transport) Do(ctx context.Context, method, path string, body, out any) error {
	if t.breaker == nil {
		return t.do(ctx, method, path, body, out)
	}

	_, err := t.breaker.Execute(func() (any, error) {
		return nil, t.do(ctx, method, path, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return goerr.Wrap(ErrCircuitOpen, "request rejected",
			goerr.V("method", method), goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	return err
}

func (t *Transport) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return goerr.Wrap(err, "failed to encode request body", goerr.V("path", path))
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reader)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("method", method), goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if t.tokens != nil {
		token, err := t.tokens.Token(ctx)
		if err != nil {
			return goerr.Wrap(err, "failed to get access token")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger := logging.From(ctx).With("method", method, "path", path, "request_id", requestID)
	logger.Debug("sending request")

	resp, err := t.client.Do(req)
	if err != nil {
		return goerr.Wrap(&NetworkError{Op: method + " " + path, Err: err}, "failed to reach juno API",
			goerr.V("method", method), goerr.V("path", path))
	}
	defer safe.CloseBody(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Debug("request failed", "status", resp.StatusCode)
		return goerr.Wrap(&APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       string(excerpt),
		}, "juno API returned error status",
			goerr.V("method", method), goerr.V("path", path), goerr.V("status", resp.StatusCode))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(&NetworkError{Op: "read " + path, Err: err}, "failed to read response",
			goerr.V("path", path))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return goerr.Wrap(err, "failed to decode response", goerr.V("path", path), goerr.V("status", resp.StatusCode))
	}
	return nil
}
