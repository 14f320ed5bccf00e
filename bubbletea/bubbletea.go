// Package bubbletea provides the Bubble Tea TUI shell for a parley
// conversation. It owns presentation only: all message, part and status
// state lives in the chat controller, and the TUI pumps backend stream
// events into it over channels.
package bubbletea

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mkwiat/parley"
)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits. The context is used for graceful shutdown; when cancelled, the
// program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// StreamEventMsg delivers one backend part-event to the model. Gen ties the
// event to the stream that produced it so superseded streams are ignored.
type StreamEventMsg struct {
	Gen   int
	Event parley.Event
}

// StreamDoneMsg signals that a stream has ended. Err is nil on normal
// stream end.
type StreamDoneMsg struct {
	Gen int
	Err error
}

// drainStream reads the stream to completion in a command goroutine,
// forwarding events to eventCh. The channel send selects against ctx so a
// superseding turn can abandon the pump without leaking the goroutine.
func drainStream(ctx context.Context, stream parley.Stream, eventCh chan<- parley.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		var streamErr error
		for {
			evt, err := stream.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				streamErr = err
				break
			}
			select {
			case eventCh <- evt:
			case <-ctx.Done():
				streamErr = ctx.Err()
			}
			if streamErr != nil {
				break
			}
		}
		stream.Close()
		close(eventCh)
		doneCh <- streamErr
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes it reads the pump error and returns StreamDoneMsg.
func listenForEvent(gen int, ch <-chan parley.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return StreamDoneMsg{Gen: gen, Err: <-doneCh}
		}
		return StreamEventMsg{Gen: gen, Event: evt}
	}
}
