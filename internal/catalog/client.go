// Retrospin - Listening History Analytics for Streaming Exports
// Copyright 2026 avandyck
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/avandyck/retrospin

// Package catalog looks up track and artist metadata from a remote catalog
// service. Lookups are advisory: callers enrich responses when the catalog
// answers and degrade to local data when it does not.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/avandyck/retrospin/internal/config"
	"github.com/avandyck/retrospin/internal/logging"
	"github.com/avandyck/retrospin/internal/metrics"
	"github.com/avandyck/retrospin/internal/models"
)

// ErrLookupUnavailable reports that the catalog cannot be queried right now:
// no token, open circuit breaker, or exhausted retries.
var ErrLookupUnavailable = errors.New("catalog lookup unavailable")

// TokenSource supplies a bearer token for catalog requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns a fixed token.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("empty catalog token: %w", ErrLookupUnavailable)
	}
	return string(s), nil
}

// EnvTokenSource reads the token from an environment variable on every call,
// picking up rotation without a restart.
type EnvTokenSource string

// Token implements TokenSource.
func (e EnvTokenSource) Token(ctx context.Context) (string, error) {
	token := os.Getenv(string(e))
	if token == "" {
		return "", fmt.Errorf("catalog token env %s not set: %w", string(e), ErrLookupUnavailable)
	}
	return token, nil
}

// Client queries the remote catalog service. All outbound traffic passes a
// shared rate limiter and circuit breaker.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
	log        zerolog.Logger
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg *config.CatalogConfig, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "catalog",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		limiter:    limiter,
		breaker:    breaker,
		log:        logging.With().Str("component", "catalog").Logger(),
	}
}

// GetTrackMetadata fetches album art and album name for one track.
func (c *Client) GetTrackMetadata(ctx context.Context, trackID string) (*models.TrackMetadata, error) {
	var meta models.TrackMetadata
	path := "/v1/tracks/" + url.PathEscape(trackID)
	if err := c.getJSON(ctx, path, nil, &meta); err != nil {
		metrics.CatalogLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CatalogLookupsTotal.WithLabelValues("ok").Inc()
	return &meta, nil
}

// SearchArtist resolves an artist name to catalog artist info, including
// genre tags. The first search result wins.
func (c *Client) SearchArtist(ctx context.Context, name string) (*models.ArtistInfo, error) {
	var result struct {
		Artists []models.ArtistInfo `json:"artists"`
	}
	query := url.Values{"q": {name}, "type": {"artist"}, "limit": {"1"}}
	if err := c.getJSON(ctx, "/v1/search", query, &result); err != nil {
		metrics.CatalogLookupsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(result.Artists) == 0 {
		metrics.CatalogLookupsTotal.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("artist %q not found in catalog", name)
	}
	metrics.CatalogLookupsTotal.WithLabelValues("ok").Inc()
	return &result.Artists[0], nil
}

// getJSON performs an authenticated GET through the breaker and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.get(ctx, path, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("catalog circuit open: %w", ErrLookupUnavailable)
		}
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}

// get issues one GET with a single retry on 429, honoring Retry-After.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	for attempt := 0; attempt < 2; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create catalog request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("catalog request failed: %w", err)
		}
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("failed to read catalog response: %w", readErr)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests && attempt == 0:
			delay := retryAfter(resp.Header.Get("Retry-After"))
			c.log.Debug().Dur("delay", delay).Str("path", path).Msg("Catalog rate limited, retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, fmt.Errorf("catalog rate limit persisted: %w", ErrLookupUnavailable)
		default:
			return nil, fmt.Errorf("catalog returned status %d for %s", resp.StatusCode, path)
		}
	}
	return nil, fmt.Errorf("catalog retries exhausted: %w", ErrLookupUnavailable)
}

// retryAfter parses an integer-seconds Retry-After value, defaulting to 1s
// when absent or malformed.
func retryAfter(header string) time.Duration {
	if header == "" {
		return time.Second
	}
	seconds, err := strconv.Atoi(header)
	if err != nil || seconds < 0 {
		return time.Second
	}
	return time.Duration(seconds) * time.Second
}
