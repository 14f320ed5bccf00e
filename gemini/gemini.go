// Package gemini implements [parley.Backend] directly against the Google
// Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating between parley's
// domain types and the Gemini API types. Streaming uses the SDK's iter.Seq2
// iterator, wrapped into the pull-based [parley.Stream] interface. The
// webSearch option maps to the GoogleSearch tool; grounding chunks on
// candidates surface as source-url events.
package gemini

import (
	"encoding/json"
	"strings"

	"github.com/mkwiat/parley"
	"google.golang.org/genai"
)

const (
	defaultModel     = "gemini-2.5-flash"
	defaultMaxTokens = 65536
	modelPrefix      = "google/"
)

// resolveModel maps a catalog model id to a Gemini model name. Catalog ids
// carry a vendor prefix; ids for other vendors fall back to the default
// model since this backend can only reach Gemini.
func resolveModel(id string) string {
	if rest, ok := strings.CutPrefix(id, modelPrefix); ok {
		return rest
	}
	return defaultModel
}

// ConvertMessages converts domain messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []parley.Message) []*genai.Content {
	var result []*genai.Content
	for _, m := range msgs {
		role := "user"
		if m.Role == parley.RoleAssistant {
			role = "model"
		}
		parts, responses := convertParts(m.Parts)
		if len(parts) > 0 {
			result = append(result, &genai.Content{Role: role, Parts: parts})
		}
		// Function responses must follow in a user-role content.
		if len(responses) > 0 {
			result = append(result, &genai.Content{Role: "user", Parts: responses})
		}
	}
	return result
}

func convertParts(parts []parley.Part) (out, responses []*genai.Part) {
	for _, p := range parts {
		switch p := p.(type) {
		case parley.TextPart:
			out = append(out, &genai.Part{Text: p.Text})
		case parley.ReasoningPart:
			out = append(out, &genai.Part{Text: p.Text, Thought: true})
		case parley.ToolCallPart:
			// Input is json.RawMessage; partial input from an aborted
			// stream may not parse, in which case Args stays nil.
			var args map[string]any
			_ = json.Unmarshal(p.Input, &args)
			out = append(out, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   p.ToolCallID,
					Name: p.ToolType,
					Args: args,
				},
			})
			if p.State == parley.ToolOutputAvailable || p.State == parley.ToolOutputError {
				responses = append(responses, functionResponse(p))
			}
		case parley.SourceURLPart, parley.DynamicToolPart:
			// Render-only parts; nothing to send back to the model.
		}
	}
	return out, responses
}

func functionResponse(p parley.ToolCallPart) *genai.Part {
	var response map[string]any
	if p.State == parley.ToolOutputError {
		response = map[string]any{"error": p.ErrorText}
	} else if err := json.Unmarshal(p.Output, &response); err != nil {
		response = map[string]any{"output": string(p.Output)}
	}
	return &genai.Part{
		FunctionResponse: &genai.FunctionResponse{
			ID:       p.ToolCallID,
			Name:     p.ToolType,
			Response: response,
		},
	}
}
