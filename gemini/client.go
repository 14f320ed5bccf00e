package gemini

import (
	"context"
	"fmt"

	"github.com/mkwiat/parley"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ parley.Backend = (*Client)(nil)

// Client implements [parley.Backend] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the fallback model used when the request has none.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Submit sends a streaming request for a new turn.
func (c *Client) Submit(ctx context.Context, req parley.SubmitRequest) (parley.Stream, error) {
	return c.stream(ctx, req.Messages, req.Options)
}

// Regenerate recomputes an assistant turn. The caller already dropped the
// old turn from the history, so this is a plain resubmission of the
// remaining messages.
func (c *Client) Regenerate(ctx context.Context, req parley.RegenerateRequest) (parley.Stream, error) {
	return c.stream(ctx, req.Messages, req.Options)
}

func (c *Client) stream(ctx context.Context, msgs []parley.Message, opts parley.Options) (parley.Stream, error) {
	model := c.model
	if opts.Model != "" {
		model = resolveModel(opts.Model)
	}

	contents := ConvertMessages(msgs)
	config := buildConfig(opts)

	iter := c.client.Models.GenerateContentStream(ctx, model, contents, config)
	return newStream(ctx, iter), nil
}

func buildConfig(opts parley.Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: defaultMaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
		},
	}
	if opts.WebSearch {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}
	return config
}
