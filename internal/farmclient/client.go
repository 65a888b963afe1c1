package farmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/logger"
	"github.com/osse101/TerminalFarm_Go/internal/metrics"
)

// APIClient handles communication with the game server
type APIClient struct {
	BaseURL    string
	Client     *http.Client
	APIKey     string
	MaxRetries int
	RetryDelay time.Duration
}

// Option customises an APIClient
type Option func(*APIClient)

// WithAPIKey sets the X-API-Key header on every request
func WithAPIKey(key string) Option {
	return func(c *APIClient) { c.APIKey = key }
}

// WithTimeout sets the HTTP client timeout; 0 means none
func WithTimeout(d time.Duration) Option {
	return func(c *APIClient) { c.Client.Timeout = d }
}

// WithRetries enables retrying transport failures and 5xx responses on
// state fetches. Actions are never retried since the server may already
// have applied them.
func WithRetries(n int, delay time.Duration) Option {
	return func(c *APIClient) {
		c.MaxRetries = n
		if delay > 0 {
			c.RetryDelay = delay
		}
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *APIClient) { c.Client = hc }
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string, opts ...Option) *APIClient {
	c := &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		RetryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetState fetches the full game state
func (c *APIClient) GetState(ctx context.Context) (*domain.ClientGameState, error) {
	start := time.Now()
	resp, err := c.doRequest(ctx, http.MethodGet, PathState, nil, c.MaxRetries)
	if err != nil {
		metrics.ObserveAPIRequest(metrics.EndpointState, metrics.OutcomeTransport, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveAPIRequest(metrics.EndpointState, metrics.OutcomeTransport, time.Since(start))
		return nil, statusError(resp)
	}

	var state domain.ClientGameState
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&state); err != nil {
		metrics.ObserveAPIRequest(metrics.EndpointState, metrics.OutcomeTransport, time.Since(start))
		return nil, fmt.Errorf("%w: failed to decode state: %w", domain.ErrTransport, err)
	}

	metrics.ObserveAPIRequest(metrics.EndpointState, metrics.OutcomeSuccess, time.Since(start))
	return &state, nil
}

// PerformAction sends the generic {action, params} envelope.
// A server-side refusal is returned as *domain.RejectionError alongside the decoded response.
func (c *APIClient) PerformAction(ctx context.Context, kind domain.ActionKind, params domain.ActionParams) (*domain.ActionResponse, error) {
	if params == nil {
		params = domain.ActionParams{}
	}
	req := domain.ActionRequest{Action: kind, Params: params}

	start := time.Now()
	resp, err := c.doRequest(ctx, http.MethodPost, PathAction, req, 0)
	if err != nil {
		metrics.ObserveAPIRequest(metrics.EndpointAction, metrics.OutcomeTransport, time.Since(start))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.ObserveAPIRequest(metrics.EndpointAction, metrics.OutcomeTransport, time.Since(start))
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrTransport, err)
	}

	var actionResp domain.ActionResponse
	decodeErr := json.Unmarshal(body, &actionResp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// An error body on a non-2xx status is still the server speaking about the action
		if decodeErr == nil && actionResp.Rejected() {
			metrics.ObserveAPIRequest(metrics.EndpointAction, metrics.OutcomeRejected, time.Since(start))
			logger.FromContext(ctx).Info(logMsgActionRejected, "action", kind, "status", resp.StatusCode, "error", actionResp.Error)
			return &actionResp, &domain.RejectionError{Action: kind, Message: actionResp.Error}
		}
		metrics.ObserveAPIRequest(metrics.EndpointAction, metrics.OutcomeTransport, time.Since(start))
		return nil, fmt.Errorf("%w: API returned status: %d", domain.ErrTransport, resp.StatusCode)
	}

	if decodeErr != nil {
		metrics.ObserveAPIRequest(metrics.EndpointAction, metrics.OutcomeTransport, time.Since(start))
		return nil, fmt.Errorf("%w: failed to decode response: %w", domain.ErrTransport, decodeErr)
	}

	if actionResp.Rejected() {
		metrics.ObserveAPIRequest(metrics.EndpointAction, metrics.OutcomeRejected, time.Since(start))
		logger.FromContext(ctx).Info(logMsgActionRejected, "action", kind, "error", actionResp.Error)
		return &actionResp, &domain.RejectionError{Action: kind, Message: actionResp.Error}
	}

	metrics.ObserveAPIRequest(metrics.EndpointAction, metrics.OutcomeSuccess, time.Since(start))
	return &actionResp, nil
}

// doRequest performs an HTTP request, retrying transport failures and 5xx
// responses up to retries times. Every error it returns wraps domain.ErrTransport.
func (c *APIClient) doRequest(ctx context.Context, method, path string, body interface{}, retries int) (*http.Response, error) {
	var reqBody []byte
	var err error

	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to marshal body: %w", domain.ErrTransport, err)
		}
	}

	ctx, requestID := logger.EnsureRequestID(ctx)
	log := logger.FromContext(ctx)
	url := c.BaseURL + path

	metrics.APIRequestsInFlight.Inc()
	defer metrics.APIRequestsInFlight.Dec()

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			jitter := time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			delay := c.RetryDelay*time.Duration(1<<uint(attempt-1)) + jitter
			log.Info(logMsgRetrying, "attempt", attempt, "path", path, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", domain.ErrTransport, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(reqBody))
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrTransport, err)
		}

		if body != nil {
			req.Header.Set(HeaderContentType, ContentTypeJSON)
		}
		req.Header.Set(HeaderRequestID, requestID)
		if c.APIKey != "" {
			req.Header.Set(HeaderAPIKey, c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			log.Warn(logMsgRequestFailed, "error", err, "path", path, "attempt", attempt)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 || attempt == retries {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		log.Warn(logMsgServerError, "status", resp.StatusCode, "path", path, "attempt", attempt)
	}

	if retries == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, lastErr)
	}
	return nil, fmt.Errorf("%w: max retries exceeded: %w", domain.ErrTransport, lastErr)
}

// statusError turns an unexpected status into a transport error, keeping the server's error text if any
func statusError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("%w: API error (status %d): %s", domain.ErrTransport, resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("%w: API returned status: %d", domain.ErrTransport, resp.StatusCode)
}

// IsTransport reports whether err is a transport failure
func IsTransport(err error) bool {
	return errors.Is(err, domain.ErrTransport)
}
