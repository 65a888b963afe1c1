// Package feed subscribes to the game server's optional Server-Sent-Events
// stream. Events carry no state; they only tell the client to reconcile.
package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/TerminalFarm_Go/internal/domain"
	"github.com/osse101/TerminalFarm_Go/internal/farmclient"
	"github.com/osse101/TerminalFarm_Go/internal/logger"
	"github.com/osse101/TerminalFarm_Go/internal/metrics"
)

var errStreamClosed = errors.New("stream closed unexpectedly")

// Event is one dispatched SSE event
type Event struct {
	ID   string
	Type string
	Data string
}

// Handler reacts to an event. Errors are logged and never stop the feed.
type Handler func(ctx context.Context, event Event) error

// Client keeps an SSE connection open with auto-reconnect
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	clock      clockwork.Clock

	mu        sync.RWMutex
	handlers  []Handler
	connected bool

	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option customises a Client
type Option func(*Client)

// WithAPIKey sets the X-API-Key header
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the streaming HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock replaces the clock used for reconnect backoff
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// NewClient creates a feed client for the server at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		url: strings.TrimRight(baseURL, "/") + farmclient.PathEvents,
		httpClient: &http.Client{
			Timeout: 0, // streams stay open
		},
		clock:    clockwork.NewRealClock(),
		shutdown: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEvent registers a handler called for every event
func (c *Client) OnEvent(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
}

// Start connects in the background and reconnects until Stop or ctx ends
func (c *Client) Start(ctx context.Context) {
	c.wg.Add(1)
	go c.connectLoop(ctx)
}

// Stop closes the connection and waits for the loop to return
func (c *Client) Stop() {
	c.stopOnce.Do(func() { close(c.shutdown) })
	c.wg.Wait()
}

// IsConnected reports whether a stream is currently open
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

func (c *Client) connectLoop(ctx context.Context) {
	defer c.wg.Done()

	// Cancel the in-flight request as soon as Stop is called
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	log := logger.FromContext(ctx)
	backoff := initialBackoff
	consecutiveFailures := 0

	for {
		if ctx.Err() != nil {
			log.Info(logMsgStopped)
			return
		}

		err := c.connect(ctx)
		c.setConnected(false)
		if ctx.Err() != nil {
			log.Info(logMsgStopped)
			return
		}

		if err != nil && !errors.Is(err, errStreamClosed) {
			consecutiveFailures++
		} else {
			// A stream that was open and then ended starts the backoff over
			backoff = initialBackoff
			consecutiveFailures = 0
		}

		log.Warn(logMsgConnectionFailed,
			"error", err,
			"backoff", backoff,
			"consecutive_failures", consecutiveFailures)

		select {
		case <-c.clock.After(backoff):
			backoff = time.Duration(float64(backoff) * backoffMultiplier)
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		case <-ctx.Done():
			log.Info(logMsgStopped)
			return
		}
	}
}

func (c *Client) connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if c.apiKey != "" {
		req.Header.Set(farmclient.HeaderAPIKey, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	c.setConnected(true)
	logger.FromContext(ctx).Info(logMsgConnected, "url", c.url)

	return c.readEvents(ctx, resp.Body)
}

// readEvents parses the text/event-stream framing and dispatches each event
func (c *Client) readEvents(ctx context.Context, body io.Reader) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, bufferSize), bufferSize)

	var ev Event
	var data []string

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := scanner.Text()
		if line == "" {
			if len(data) > 0 || ev.Type != "" {
				ev.Data = strings.Join(data, "\n")
				c.dispatch(ctx, ev)
			}
			ev, data = Event{}, nil
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue // comment
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			ev.ID = value
		case "event":
			ev.Type = value
		case "data":
			data = append(data, value)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading stream: %w", err)
	}
	return errStreamClosed
}

func (c *Client) dispatch(ctx context.Context, ev Event) {
	if ev.Type == "" {
		ev.Type = EventTypeMessage
	}
	if ev.Type == eventTypeKeepalive || ev.Type == eventTypeConnected {
		return
	}

	metrics.FeedEvents.WithLabelValues(ev.Type).Inc()
	log := logger.FromContext(ctx)
	log.Debug(logMsgEventReceived, "event_type", ev.Type, "id", ev.ID)

	c.mu.RLock()
	handlers := c.handlers
	c.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, ev); err != nil {
			log.Error(logMsgHandlerError, "event_type", ev.Type, "error", err)
		}
	}
}

// Fetcher is the reconcile entry point of the synchronizer
type Fetcher interface {
	FetchState(ctx context.Context) (*domain.ClientGameState, error)
}

// ReconcileHandler performs a full fetch for every event
func ReconcileHandler(f Fetcher) Handler {
	return func(ctx context.Context, _ Event) error {
		_, err := f.FetchState(ctx)
		return err
	}
}
