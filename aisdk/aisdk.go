// Package aisdk implements [parley.Backend] for servers speaking the AI SDK
// UI message stream protocol: a JSON POST carrying the conversation and a
// trigger, answered with SSE data lines of typed chunks.
package aisdk

import (
	"encoding/json"
	"fmt"

	"github.com/mkwiat/parley"
)

const (
	defaultPath     = "/api/chat"
	streamHeader    = "x-vercel-ai-ui-message-stream"
	streamVersion   = "v1"
	triggerSubmit   = "submit-message"
	triggerRegen    = "regenerate-message"
	doneSentinel    = "[DONE]"
	dynamicToolType = "dynamic-tool"
)

// submitBody is the JSON body for a new turn.
type submitBody struct {
	Trigger   string      `json:"trigger"`
	ID        string      `json:"id"`
	Messages  []uiMessage `json:"messages"`
	Model     string      `json:"model"`
	WebSearch bool        `json:"webSearch"`
}

// regenerateBody is the JSON body for a regenerate instruction.
type regenerateBody struct {
	Trigger   string      `json:"trigger"`
	ID        string      `json:"id"`
	Messages  []uiMessage `json:"messages"`
	MessageID string      `json:"messageId"`
}

// uiMessage mirrors the protocol's UIMessage shape.
type uiMessage struct {
	ID    string   `json:"id"`
	Role  string   `json:"role"`
	Parts []uiPart `json:"parts"`
}

// uiPart is a tagged union over part kinds. Fields are populated depending
// on Type; tool parts use a "tool-<name>" type tag.
type uiPart struct {
	Type string `json:"type"`

	// text, reasoning
	Text string `json:"text,omitempty"`

	// source-url
	SourceID string `json:"sourceId,omitempty"`
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`

	// tool-*, dynamic-tool
	ToolCallID string          `json:"toolCallId,omitempty"`
	ToolName   string          `json:"toolName,omitempty"`
	State      string          `json:"state,omitempty"`
	Input      json.RawMessage `json:"input,omitempty"`
	Output     json.RawMessage `json:"output,omitempty"`
	ErrorText  string          `json:"errorText,omitempty"`
}

// convertMessages converts domain messages to the protocol shape.
func convertMessages(msgs []parley.Message) []uiMessage {
	out := make([]uiMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, uiMessage{
			ID:    m.ID,
			Role:  string(m.Role),
			Parts: convertParts(m.Parts),
		})
	}
	return out
}

func convertParts(parts []parley.Part) []uiPart {
	out := make([]uiPart, 0, len(parts))
	for _, p := range parts {
		switch p := p.(type) {
		case parley.TextPart:
			out = append(out, uiPart{Type: "text", Text: p.Text})
		case parley.ReasoningPart:
			out = append(out, uiPart{Type: "reasoning", Text: p.Text})
		case parley.SourceURLPart:
			out = append(out, uiPart{
				Type:     "source-url",
				SourceID: p.SourceID,
				URL:      p.URL,
				Title:    p.Title,
			})
		case parley.ToolCallPart:
			out = append(out, uiPart{
				Type:       "tool-" + p.ToolType,
				ToolCallID: p.ToolCallID,
				State:      string(p.State),
				Input:      p.Input,
				Output:     p.Output,
				ErrorText:  p.ErrorText,
			})
		case parley.DynamicToolPart:
			out = append(out, uiPart{
				Type:       dynamicToolType,
				ToolCallID: p.ToolCallID,
				ToolName:   p.ToolName,
				Input:      p.Payload,
				State:      string(parley.ToolInputAvailable),
			})
		}
	}
	return out
}

// chunk is the decoded form of one SSE data payload. One struct covers all
// chunk types; only the fields for the given Type are set.
type chunk struct {
	Type string `json:"type"`

	// text-*, reasoning-*
	ID    string `json:"id,omitempty"`
	Delta string `json:"delta,omitempty"`

	// source-url
	SourceID string `json:"sourceId,omitempty"`
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`

	// tool-*
	ToolCallID     string          `json:"toolCallId,omitempty"`
	ToolName       string          `json:"toolName,omitempty"`
	Dynamic        bool            `json:"dynamic,omitempty"`
	InputTextDelta string          `json:"inputTextDelta,omitempty"`
	Input          json.RawMessage `json:"input,omitempty"`
	Output         json.RawMessage `json:"output,omitempty"`

	// tool-output-error, error
	ErrorText string `json:"errorText,omitempty"`
}

// toEvent maps a chunk to a semantic event. Returns nil for framing chunks
// (start, start-step, finish-step, text-start, ...) and for chunk types
// this client does not recognize; unknown types must never fail the stream.
func (c chunk) toEvent() parley.Event {
	switch c.Type {
	case "text-delta":
		return parley.EventTextDelta{ID: c.ID, Delta: c.Delta}
	case "reasoning-delta":
		return parley.EventReasoningDelta{ID: c.ID, Delta: c.Delta}
	case "source-url":
		return parley.EventSourceURL{SourceID: c.SourceID, URL: c.URL, Title: c.Title}
	case "tool-input-start":
		if c.Dynamic {
			return parley.EventDynamicTool{ToolCallID: c.ToolCallID, ToolName: c.ToolName}
		}
		return parley.EventToolInputStart{ToolCallID: c.ToolCallID, ToolType: c.ToolName}
	case "tool-input-delta":
		return parley.EventToolInputDelta{ToolCallID: c.ToolCallID, Delta: c.InputTextDelta}
	case "tool-input-available":
		if c.Dynamic {
			return parley.EventDynamicTool{ToolCallID: c.ToolCallID, ToolName: c.ToolName, Payload: c.Input}
		}
		return parley.EventToolInputAvailable{ToolCallID: c.ToolCallID, ToolType: c.ToolName, Input: c.Input}
	case "tool-output-available":
		return parley.EventToolOutputAvailable{ToolCallID: c.ToolCallID, Output: c.Output}
	case "tool-output-error":
		return parley.EventToolOutputError{ToolCallID: c.ToolCallID, ErrorText: c.ErrorText}
	default:
		return nil
	}
}

// streamError is a server-reported stream failure (an "error" chunk).
type streamError struct {
	text string
}

func (e *streamError) Error() string {
	return fmt.Sprintf("aisdk: stream error: %s", e.text)
}
