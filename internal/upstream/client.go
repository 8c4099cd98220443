// Package upstream is the HTTP client for the public character API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/models"
)

// DefaultBaseURL is the public HP API.
const DefaultBaseURL = "https://hp-api.onrender.com"

// maxBodyBytes caps a single response body.
const maxBodyBytes = 32 << 20

// Client fetches characters from the upstream API.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ catalog.Source = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the API rooted at baseURL. A zero timeout
// leaves the transport defaults in place.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAll returns every character.
func (c *Client) FetchAll(ctx context.Context) ([]models.Character, error) {
	return c.get(ctx, "/api/characters")
}

// FetchByHouse returns the characters of house. The name is sent as given.
func (c *Client) FetchByHouse(ctx context.Context, house string) ([]models.Character, error) {
	return c.get(ctx, "/api/characters/house/"+url.PathEscape(house))
}

func (c *Client) get(ctx context.Context, path string) ([]models.Character, error) {
	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream: request",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("upstream: GET %s: unexpected status %d", path, resp.StatusCode)
	}

	var characters []models.Character
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&characters); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("upstream: decode %s: %w", path, err)
	}
	return characters, nil
}
