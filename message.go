// Package parley defines the domain types for a streaming chat interface:
// messages composed of heterogeneous parts, the events that build them, and
// the collaborator interfaces (backend, clipboard, diagnostics) the chat
// core depends on.
package parley

import (
	"time"

	"github.com/google/uuid"
)

// Message is one turn entry in a conversation. Parts is mutable only while
// the message is the active streaming target; once the stream ends the
// message is logically immutable and further changes go through regenerate,
// which replaces the message rather than patching it.
type Message struct {
	ID        string
	Role      Role
	Parts     []Part
	Timestamp time.Time
}

// NewUserMessage creates a user message with a single text part and a fresh
// unique id.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Parts:     []Part{TextPart{Text: text}},
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an empty assistant message ready to receive
// streamed parts.
func NewAssistantMessage() Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// LastPart returns the final part and true, or nil and false for an empty
// message.
func (m Message) LastPart() (Part, bool) {
	if len(m.Parts) == 0 {
		return nil, false
	}
	return m.Parts[len(m.Parts)-1], true
}

// Sources returns the filtered subsequence of parts that are URL citations,
// in arrival order. Citations render once per message as an aggregate, not
// inline.
func (m Message) Sources() []SourceURLPart {
	var out []SourceURLPart
	for _, p := range m.Parts {
		if s, ok := p.(SourceURLPart); ok {
			out = append(out, s)
		}
	}
	return out
}

// Text concatenates the message's text parts. Used for copy-to-clipboard
// and for building backend request history.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if t, ok := p.(TextPart); ok {
			out += t.Text
		}
	}
	return out
}
