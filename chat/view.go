package chat

import "github.com/mkwiat/parley"

// Action is a post-completion operation offered on a part.
type Action int

const (
	ActionCopy Action = iota
	ActionRetry
)

// Actions returns the actions attached to the part at partIndex of msg.
// Retry and Copy bind to exactly one part per assistant message: the final
// part, and only when that part is text. A message may interleave several
// text, reasoning and tool parts; binding to the terminal text segment
// keeps one action row per turn.
func Actions(msg parley.Message, partIndex int) []Action {
	if msg.Role != parley.RoleAssistant {
		return nil
	}
	if partIndex != len(msg.Parts)-1 || partIndex < 0 {
		return nil
	}
	if _, ok := msg.Parts[partIndex].(parley.TextPart); !ok {
		return nil
	}
	return []Action{ActionRetry, ActionCopy}
}

// ReasoningStreaming reports whether a reasoning part should render its
// streaming animation. True iff the global status is streaming AND the part
// is last in its message AND the message is last in the conversation.
func ReasoningStreaming(status parley.Status, lastInMessage, lastMessage bool) bool {
	return status == parley.StatusStreaming && lastInMessage && lastMessage
}
