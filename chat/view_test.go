package chat_test

import (
	"testing"

	"github.com/mkwiat/parley"
	"github.com/mkwiat/parley/chat"
	"github.com/stretchr/testify/assert"
)

func TestActions(t *testing.T) {
	t.Parallel()

	assistant := parley.Message{
		Role: parley.RoleAssistant,
		Parts: []parley.Part{
			parley.ReasoningPart{Text: "thinking"},
			parley.TextPart{Text: "mid"},
			parley.TextPart{Text: "final"},
		},
	}

	t.Run("terminal text part carries retry and copy", func(t *testing.T) {
		t.Parallel()
		acts := chat.Actions(assistant, 2)
		assert.Equal(t, []chat.Action{chat.ActionRetry, chat.ActionCopy}, acts)
	})

	t.Run("non-terminal text part carries nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, chat.Actions(assistant, 1))
	})

	t.Run("non-text parts carry nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, chat.Actions(assistant, 0))
		msg := parley.Message{
			Role:  parley.RoleAssistant,
			Parts: []parley.Part{parley.ToolCallPart{ToolCallID: "tc_1"}},
		}
		assert.Empty(t, chat.Actions(msg, 0), "terminal tool part gets no actions")
	})

	t.Run("user messages carry nothing", func(t *testing.T) {
		t.Parallel()
		msg := parley.NewUserMessage("hi")
		assert.Empty(t, chat.Actions(msg, 0))
	})

	t.Run("out of range index carries nothing", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, chat.Actions(assistant, -1))
		assert.Empty(t, chat.Actions(assistant, 3))
		assert.Empty(t, chat.Actions(parley.Message{Role: parley.RoleAssistant}, 0))
	})
}

func TestReasoningStreaming(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		status        parley.Status
		lastInMessage bool
		lastMessage   bool
		want          bool
	}{
		{"streaming, last part, last message", parley.StatusStreaming, true, true, true},
		{"streaming, last part, earlier message", parley.StatusStreaming, true, false, false},
		{"streaming, earlier part, last message", parley.StatusStreaming, false, true, false},
		{"streaming, earlier part, earlier message", parley.StatusStreaming, false, false, false},
		{"ready never animates", parley.StatusReady, true, true, false},
		{"submitted never animates", parley.StatusSubmitted, true, true, false},
		{"error never animates", parley.StatusError, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, chat.ReasoningStreaming(tt.status, tt.lastInMessage, tt.lastMessage))
		})
	}
}
