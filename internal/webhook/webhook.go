// Package webhook posts Block Kit payloads to a Slack-compatible incoming
// webhook endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/JakeFAU/pipeline-notify/blocks"
)

const userAgent = "pipeline-notify/0.1"

// DefaultTimeout bounds a delivery attempt when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Config controls webhook delivery.
type Config struct {
	// URL is the incoming-webhook endpoint.
	URL string
	// Timeout bounds each delivery attempt end to end. Non-positive values
	// fall back to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the default client when non-nil. The configured
	// Timeout is ignored in that case; the override owns its own limits.
	HTTPClient *http.Client
}

// Client delivers notification payloads to a single webhook URL, one
// attempt per delivery. The caller decides what a failure means.
type Client struct {
	url    string
	client *http.Client
}

// New builds a Client from cfg.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{url: cfg.URL, client: httpClient}
}

// Post sends one payload as a JSON body {"blocks":[...]}. Success is any
// 2xx response; everything else is an error carrying a snippet of the
// response body.
func (c *Client) Post(ctx context.Context, payload blocks.Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal blocks payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
