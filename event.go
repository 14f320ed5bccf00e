package parley

import "encoding/json"

// Event is a sealed interface representing a streaming part-event from the
// backend. Events are purely semantic. Transport/protocol errors come from
// Next()'s error return, not from events; stream end is io.EOF.
// The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// EventTextDelta appends text to the part identified by ID. A new ID starts
// a new text part.
type EventTextDelta struct {
	ID    string
	Delta string
}

func (EventTextDelta) event() {}

// EventReasoningDelta appends to the reasoning part identified by ID.
type EventReasoningDelta struct {
	ID    string
	Delta string
}

func (EventReasoningDelta) event() {}

// EventSourceURL adds a URL citation to the streaming message.
type EventSourceURL struct {
	SourceID string
	URL      string
	Title    string
}

func (EventSourceURL) event() {}

// EventToolInputStart begins a tool call in the input-streaming state.
type EventToolInputStart struct {
	ToolCallID string
	ToolType   string
}

func (EventToolInputStart) event() {}

// EventToolInputDelta appends raw input bytes to an in-flight tool call.
type EventToolInputDelta struct {
	ToolCallID string
	Delta      string
}

func (EventToolInputDelta) event() {}

// EventToolInputAvailable patches a tool call with its complete input.
type EventToolInputAvailable struct {
	ToolCallID string
	ToolType   string
	Input      json.RawMessage
}

func (EventToolInputAvailable) event() {}

// EventToolOutputAvailable patches a tool call with its output.
type EventToolOutputAvailable struct {
	ToolCallID string
	Output     json.RawMessage
}

func (EventToolOutputAvailable) event() {}

// EventToolOutputError patches a tool call into the output-error state.
type EventToolOutputError struct {
	ToolCallID string
	ErrorText  string
}

func (EventToolOutputError) event() {}

// EventDynamicTool carries a tool part the backend does not fully model.
// Rendered as a fallback only.
type EventDynamicTool struct {
	ToolCallID string
	ToolName   string
	Payload    json.RawMessage
}

func (EventDynamicTool) event() {}

// Interface compliance checks.
var (
	_ Event = EventTextDelta{}
	_ Event = EventReasoningDelta{}
	_ Event = EventSourceURL{}
	_ Event = EventToolInputStart{}
	_ Event = EventToolInputDelta{}
	_ Event = EventToolInputAvailable{}
	_ Event = EventToolOutputAvailable{}
	_ Event = EventToolOutputError{}
	_ Event = EventDynamicTool{}
)
