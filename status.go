package parley

// Status is the per-conversation submission status. Exactly one value is
// live at a time; it is the single source of truth for whether submission
// is allowed and whether streaming decorations should render.
//
// Transitions: ready --submit--> submitted --first-part--> streaming
// --stream-end--> ready. Errors during submitted or streaming move to
// error, from which a subsequent send/regenerate returns to submitted.
type Status int

const (
	StatusReady Status = iota
	StatusSubmitted
	StatusStreaming
	StatusError
)

// String returns the status name used in diagnostics.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusSubmitted:
		return "submitted"
	case StatusStreaming:
		return "streaming"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Busy reports whether a turn is in flight.
func (s Status) Busy() bool {
	return s == StatusSubmitted || s == StatusStreaming
}
