package aisdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mkwiat/parley"
)

// Interface compliance check.
var _ parley.Backend = (*Client)(nil)

// Client implements [parley.Backend] against a chat endpoint speaking the
// AI SDK UI message stream protocol.
type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPath sets the chat endpoint path. Default is /api/chat.
func WithPath(path string) Option {
	return func(c *Client) { c.path = path }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		path:       defaultPath,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Submit sends a new user turn and returns the event stream.
func (c *Client) Submit(ctx context.Context, req parley.SubmitRequest) (parley.Stream, error) {
	body := submitBody{
		Trigger:   triggerSubmit,
		ID:        req.ChatID,
		Messages:  convertMessages(req.Messages),
		Model:     req.Options.Model,
		WebSearch: req.Options.WebSearch,
	}
	return c.post(ctx, body)
}

// Regenerate asks the server to recompute an assistant turn and returns the
// event stream. Replace-vs-truncate semantics for the old turn are the
// server's to decide.
func (c *Client) Regenerate(ctx context.Context, req parley.RegenerateRequest) (parley.Stream, error) {
	body := regenerateBody{
		Trigger:   triggerRegen,
		ID:        req.ChatID,
		Messages:  convertMessages(req.Messages),
		MessageID: req.MessageID,
	}
	return c.post(ctx, body)
}

func (c *Client) post(ctx context.Context, body any) (parley.Stream, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("aisdk: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("aisdk: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("aisdk: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}

	return newStream(ctx, resp.Body), nil
}

// parseHTTPError extracts a useful message from a non-200 response.
func parseHTTPError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil || len(data) == 0 {
		return fmt.Errorf("aisdk: unexpected status %d", resp.StatusCode)
	}
	return fmt.Errorf("aisdk: unexpected status %d: %s", resp.StatusCode, data)
}
