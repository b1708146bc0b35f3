// Package moltin is a client for the Elastic Path ("Moltin") commerce API:
// catalog browsing, cart mutation, and customer creation.
package moltin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/m3rciful/fishbot/core/logger"
	"log/slog"
)

// APIError is returned for any non-success response from the commerce API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("moltin: status %d: %s", e.Status, e.Body)
}

// Config holds client credentials and endpoints.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// MediaDir is where product images are cached before re-upload.
	MediaDir string
}

// Client talks to the commerce API. It manages its own bearer token,
// refreshing it before expiry; in-flight requests never observe a
// half-updated credential.
type Client struct {
	cfg  Config
	http *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient constructs a Client. A nil httpClient falls back to a bounded
// default so a stuck backend cannot hang a handler indefinitely.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient}
}

// accessToken returns a valid bearer token, requesting a fresh one from
// the oauth endpoint when the cached token is absent or near expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("moltin: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("moltin: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", readAPIError(resp)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("moltin: decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("moltin: empty access token in response")
	}

	ttl := time.Duration(payload.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Refresh a minute early so requests never race token expiry.
	c.token = payload.AccessToken
	c.tokenExpiry = time.Now().Add(ttl - time.Minute)

	logger.Shop.LogAttrs(ctx, slog.LevelDebug, "token refreshed",
		slog.String("event", "token.refresh"),
		slog.Duration("ttl", ttl),
	)
	return c.token, nil
}

// do issues an authenticated JSON request and decodes the response into out
// (skipped when out is nil). Non-2xx responses surface as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("moltin: encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("moltin: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("moltin: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	logger.Shop.LogAttrs(ctx, slog.LevelDebug, "api call",
		slog.String("event", "api.call"),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", logger.Took(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return readAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("moltin: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &APIError{Status: resp.StatusCode, Body: string(body)}
}
