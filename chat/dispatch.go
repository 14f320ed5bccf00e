package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkwiat/parley"
)

// Dispatcher performs post-completion actions scoped to one message or
// part. Both actions are fire-and-forget relative to rendering: failures
// go to the reporter and never propagate.
type Dispatcher struct {
	ctrl     *Controller
	clip     parley.Clipboard
	reporter parley.Reporter
}

// NewDispatcher creates a Dispatcher over the controller and clipboard.
func NewDispatcher(ctrl *Controller, clip parley.Clipboard, reporter parley.Reporter) *Dispatcher {
	if reporter == nil {
		reporter = parley.NopReporter{}
	}
	return &Dispatcher{ctrl: ctrl, clip: clip, reporter: reporter}
}

// Copy writes text to the clipboard collaborator. It mutates no message or
// part state; failure is reported and swallowed.
func (d *Dispatcher) Copy(text string) {
	if err := d.clip.Write(text); err != nil {
		d.reporter.Report("copy", fmt.Errorf("chat: copy: %w", err))
	}
}

// Retry regenerates the turn owned by messageID. The stream and its
// generation are returned for the caller's event pump; ok is false when the
// regenerate could not be dispatched (already reported by the controller
// for backend failures, reported here for bad targets).
func (d *Dispatcher) Retry(ctx context.Context, messageID string) (parley.Stream, int, bool) {
	stream, gen, err := d.ctrl.Regenerate(ctx, messageID)
	if err != nil {
		if errors.Is(err, parley.ErrNoSuchMessage) || errors.Is(err, parley.ErrNotAssistant) {
			d.reporter.Report("retry", err)
		}
		return nil, 0, false
	}
	return stream, gen, true
}
