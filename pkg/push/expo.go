package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultExpoURL is the Expo push delivery endpoint.
const DefaultExpoURL = "https://exp.host/--/api/v2/push/send"

// Message is a single push notification addressed to one device token.
type Message struct {
	To       string `json:"to"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Priority string `json:"priority"`
}

// Client delivers push messages through the Expo relay service.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient constructs a push client. An empty url falls back to the Expo
// production endpoint.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultExpoURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send delivers one message to one token. Delivery is best-effort: the
// caller decides whether a returned error is logged or propagated.
func (c *Client) Send(ctx context.Context, token, title, body string) error {
	payload := Message{
		To:       token,
		Title:    title,
		Body:     body,
		Priority: "high",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push relay responded %d", resp.StatusCode)
	}
	return nil
}
