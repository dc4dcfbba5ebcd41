package polygon

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
)

// Recorder receives per-request telemetry. A nil Recorder is allowed.
type Recorder interface {
	ObserveRequest(endpoint string, code int, d time.Duration)
	ObserveRetry(endpoint string)
}

// Client issues authenticated GETs against one Polygon base URL.
type Client struct {
	cfg      Config
	http     *http.Client
	keys     *APIKeyPool
	recorder Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRecorder attaches request telemetry.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// NewClient builds a Client from cfg. A config without keys is accepted so
// callers can decide whether to fail fast; every request then fails with
// ErrNoAPIKey.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:  cfg,
		http: newHTTPClient(cfg.Timeout, cfg.Workers),
		keys: NewAPIKeyPool(cfg.APIKeys, cfg.KeyStrategy, cfg.MinRequestInterval),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// HasKey reports whether at least one API key is configured.
func (c *Client) HasKey() bool {
	return c.keys.Len() > 0
}

// KeyStats returns request counts per key prefix.
func (c *Client) KeyStats() map[string]int64 {
	return c.keys.Stats()
}

// buildURL joins path and params onto the base URL and attaches apiKey.
func (c *Client) buildURL(path string, params url.Values, apiKey string) (string, error) {
	u, err := url.Parse(strings.TrimRight(c.cfg.BaseURL, "/") + path)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("apiKey", apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Get fetches path and decodes the JSON body into out. HTTP 429 is retried
// with exponential backoff starting at InitialBackoff; any other non-2xx
// fails immediately.
func (c *Client) Get(ctx context.Context, ep Endpoint, path string, params url.Values, out any) error {
	apiKey, err := c.keys.Next(ctx)
	if err != nil {
		if errors.Is(err, ErrNoAPIKey) {
			return &FetchError{Endpoint: ep, Kind: KindNoKey, Err: err}
		}
		return err
	}
	rawURL, err := c.buildURL(path, params, apiKey)
	if err != nil {
		return &FetchError{Endpoint: ep, Kind: KindTransport, Err: err}
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return &FetchError{Endpoint: ep, Kind: KindTransport, Err: fmt.Errorf("create request: %w", err)}
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			c.observe(ep, 0, start)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return &FetchError{Endpoint: ep, Kind: KindTransport, Err: err}
		}
		c.observe(ep, resp.StatusCode, start)

		if resp.StatusCode == http.StatusTooManyRequests {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if attempt >= c.cfg.MaxRetries {
				return &FetchError{
					Endpoint:   ep,
					Kind:       KindRateLimited,
					StatusCode: resp.StatusCode,
					Err:        fmt.Errorf("gave up after %d attempts", attempt+1),
				}
			}
			delay := c.cfg.InitialBackoff << attempt
			if c.recorder != nil {
				c.recorder.ObserveRetry(string(ep))
			}
			slog.Warn("rate limited, backing off", "endpoint", ep, "attempt", attempt+1, "backoff", delay)
			if err := sleepCtx(ctx, delay); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			return &FetchError{
				Endpoint:   ep,
				Kind:       KindStatus,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(body)),
			}
		}

		defer resp.Body.Close()
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &FetchError{Endpoint: ep, Kind: KindDecode, Err: fmt.Errorf("parse JSON: %w", err)}
		}
		return nil
	}
}

func (c *Client) observe(ep Endpoint, code int, start time.Time) {
	if c.recorder != nil {
		c.recorder.ObserveRequest(string(ep), code, time.Since(start))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
