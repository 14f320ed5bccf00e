package parley

import "context"

// Options are the per-turn generation options chosen in the composer.
type Options struct {
	Model     string
	WebSearch bool
}

// SubmitRequest carries a new user turn to the backend. Messages is the
// conversation history including the just-appended user message.
type SubmitRequest struct {
	ChatID   string
	Text     string
	Messages []Message
	Options  Options
}

// RegenerateRequest asks the backend to recompute the assistant turn
// associated with MessageID. What happens to the old content (replace vs.
// truncate-and-resend) is backend policy.
type RegenerateRequest struct {
	ChatID    string
	MessageID string
	Messages  []Message
	Options   Options
}

// Stream uses a pull-based iterator pattern. Next returns the next semantic
// event, io.EOF on normal stream end, or a non-EOF error on stream failure.
// Cancellation flows through the context passed to the Backend call.
type Stream interface {
	Next() (Event, error)
	Close() error
}

// Backend is the external collaborator that actually streams model output
// and executes tools. The transport behind it is opaque to this core.
type Backend interface {
	Submit(ctx context.Context, req SubmitRequest) (Stream, error)
	Regenerate(ctx context.Context, req RegenerateRequest) (Stream, error)
}

// Clipboard is the external copy-to-clipboard collaborator.
type Clipboard interface {
	Write(text string) error
}
