package parley

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrUnknownModel indicates a model id not present in the catalog.
	ErrUnknownModel = errors.New("model not in catalog")

	// ErrNoSuchMessage indicates a regenerate target that does not exist.
	ErrNoSuchMessage = errors.New("no such message")

	// ErrNotAssistant indicates a regenerate target that is not an
	// assistant message.
	ErrNotAssistant = errors.New("not an assistant message")

	// ErrBusy indicates a send attempted while a turn is already in flight.
	ErrBusy = errors.New("submission in flight")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)
