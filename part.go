package parley

import "encoding/json"

// Part is a sealed interface representing one atomic content unit within a
// message. The unexported marker method prevents external implementations;
// rendering code switches exhaustively over the variants and falls through
// to a silent skip for anything it does not recognize.
type Part interface {
	part()
}

// TextPart contains message text.
type TextPart struct {
	ID   string // upstream part id; deltas with the same id coalesce
	Text string
}

func (TextPart) part() {}

// ReasoningPart contains a reasoning trace.
type ReasoningPart struct {
	ID   string
	Text string
}

func (ReasoningPart) part() {}

// SourceURLPart is a single URL citation attached to an assistant message.
type SourceURLPart struct {
	SourceID string
	URL      string
	Title    string
}

func (SourceURLPart) part() {}

// ToolState is the lifecycle state of a tool call. States transition
// monotonically forward, never backward.
type ToolState string

const (
	ToolInputStreaming  ToolState = "input-streaming"
	ToolInputAvailable  ToolState = "input-available"
	ToolOutputAvailable ToolState = "output-available"
	ToolOutputError     ToolState = "output-error"
)

// rank orders tool states for monotonicity checks. Unknown states rank
// lowest so they never overwrite a known one.
func (s ToolState) rank() int {
	switch s {
	case ToolInputStreaming:
		return 1
	case ToolInputAvailable:
		return 2
	case ToolOutputAvailable, ToolOutputError:
		return 3
	default:
		return 0
	}
}

// Supersedes reports whether a transition to next is a legal forward move.
// Equal-rank transitions are allowed so repeated patches of the same state
// (e.g. growing input) apply in place.
func (s ToolState) Supersedes(next ToolState) bool {
	return next.rank() >= s.rank()
}

// ToolCallPart represents a tool invocation and, eventually, its result.
// Input and Output are opaque structured values owned by the backend;
// Output is present iff State is ToolOutputAvailable. ErrorText is set only
// for ToolOutputError and may be empty.
type ToolCallPart struct {
	ToolCallID string
	ToolType   string
	State      ToolState
	Input      json.RawMessage
	Output     json.RawMessage
	ErrorText  string
}

func (ToolCallPart) part() {}

// DynamicToolPart is a render-only fallback for tool kinds not fully
// modeled upstream. The payload shape is opaque and must never crash
// rendering.
type DynamicToolPart struct {
	ToolCallID string
	ToolName   string
	Payload    json.RawMessage
}

func (DynamicToolPart) part() {}

// Interface compliance checks.
var (
	_ Part = TextPart{}
	_ Part = ReasoningPart{}
	_ Part = SourceURLPart{}
	_ Part = ToolCallPart{}
	_ Part = DynamicToolPart{}
)
