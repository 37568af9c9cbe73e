// Package api is a small client for the orlog HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pefman/orlog-duel/internal/models"
	"github.com/pefman/orlog-duel/internal/stats"
)

var ErrNotFound = errors.New("not found")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Code)
	}
	return fmt.Sprintf("api status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Config holds API configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	// CacheTTL bounds how long the favor catalog is reused.
	CacheTTL time.Duration
}

type Client struct {
	config Config
	http   *http.Client

	// The catalog only changes with a deploy, so it is cached.
	cacheMu   sync.RWMutex
	catalog   []models.FavorView
	catalogAt time.Time
}

func NewClient(baseURL string) *Client {
	return NewClientWithConfig(Config{BaseURL: baseURL})
}

func NewClientWithConfig(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &Client{config: cfg, http: &http.Client{Timeout: cfg.Timeout}}
}

func (c *Client) url(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body *bytes.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Code: resp.StatusCode, Message: e.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Health checks /api/healthz.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/healthz", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("unhealthy: %q", out.Status)
	}
	return nil
}

// Favors returns the favor catalog, from cache when fresh.
func (c *Client) Favors(ctx context.Context) ([]models.FavorView, error) {
	c.cacheMu.RLock()
	if c.catalog != nil && time.Since(c.catalogAt) < c.config.CacheTTL {
		out := c.catalog
		c.cacheMu.RUnlock()
		return out, nil
	}
	c.cacheMu.RUnlock()

	var out []models.FavorView
	if err := c.do(ctx, http.MethodGet, "/api/favors", nil, &out); err != nil {
		return nil, err
	}
	c.cacheMu.Lock()
	c.catalog, c.catalogAt = out, time.Now()
	c.cacheMu.Unlock()
	return out, nil
}

// MatchStats fetches the tally of a hosted or simulated match.
func (c *Client) MatchStats(ctx context.Context, id string) (stats.Tally, error) {
	var t stats.Tally
	err := c.do(ctx, http.MethodGet, "/api/matches/"+url.PathEscape(id)+"/stats", nil, &t)
	return t, err
}

// SimMatch asks the server to play a bot-vs-bot match.
func (c *Client) SimMatch(ctx context.Context, req models.SimRequest) (models.SimResponse, error) {
	var out models.SimResponse
	err := c.do(ctx, http.MethodPost, "/api/sim/match", req, &out)
	return out, err
}
