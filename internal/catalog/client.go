// Package catalog searches the public Google Books catalog and normalizes
// results into domain books.
package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/listenupapp/pagetrail/internal/domain"
	"github.com/listenupapp/pagetrail/internal/ratelimit"
)

const (
	// Upstream API settings.
	DefaultBaseURL    = "https://www.googleapis.com/books/v1"
	defaultMaxResults = 20
	maxMaxResults     = 40

	defaultRPS     = 2.0
	defaultBurst   = 4
	defaultTimeout = 10 * time.Second

	// Error bodies are truncated to this many bytes.
	maxErrorBody = 512
)

// Config configures a Client. Zero values select defaults.
type Config struct {
	BaseURL           string
	APIKey            string
	MaxResults        int
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is a rate-limited catalog API client.
type Client struct {
	http       *http.Client
	limiter    *ratelimit.KeyedRateLimiter
	logger     *slog.Logger
	baseURL    string
	apiKey     string
	maxResults int
	userAgent  string
}

// New creates a new catalog client.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.MaxResults > maxMaxResults {
		cfg.MaxResults = maxMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pagetrail/1.0"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		limiter:    ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		logger:     logger,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxResults: cfg.MaxResults,
		userAgent:  cfg.UserAgent,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// Search runs a free-text volume search. An empty or whitespace-only query
// returns ErrEmptyQuery without contacting the catalog. Zero matches is a
// successful, empty result.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Book, error) {
	requestID := RequestIDFrom(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, wrapError("search", query, requestID, ErrEmptyQuery)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	body, err := c.doRequest(ctx, "/volumes", params)
	if err != nil {
		return nil, wrapError("search", query, requestID, err)
	}

	var resp volumesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", query, requestID, fmt.Errorf("parse response: %w", err))
	}

	books := make([]domain.Book, 0, len(resp.Items))
	for i := range resp.Items {
		if b, ok := resp.Items[i].toBook(); ok {
			books = append(books, b)
		}
	}

	c.logger.Debug("catalog search complete",
		"request_id", requestID,
		"query", query,
		"results", len(books),
		"total_items", resp.TotalItems,
	)

	return books, nil
}

// doRequest executes a GET request with rate limiting.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}
	u.RawQuery = params.Encode()

	// Wait for rate limit
	if err := c.limiter.Wait(ctx, u.Host); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	c.logger.Debug("catalog request", "path", path, "query", params.Get("q"))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(msg)}
	}
	return body, nil
}

type requestIDKey struct{}

// WithRequestID attaches a request id that is logged and forwarded upstream.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request id attached to ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
