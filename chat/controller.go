// Package chat implements the conversation core: the stream controller that
// owns message and status state, the composer that owns the draft, and the
// dispatcher for post-completion actions.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mkwiat/parley"
)

// Controller owns the ordered message list and the submission status for
// one conversation. It is the single writer of both; other components read
// snapshots and trigger mutations only through Send and Regenerate.
//
// Controller is not safe for concurrent use. All mutation happens on
// discrete events delivered by a single goroutine (the Bubble Tea update
// loop in the TUI).
type Controller struct {
	backend  parley.Backend
	reporter parley.Reporter

	chatID   string
	messages []parley.Message
	status   parley.Status
	lastOpts parley.Options

	// gen identifies the current stream. Send and Regenerate bump it;
	// Apply and Finish ignore calls tagged with a stale generation, which
	// is how a superseding regenerate detaches an in-flight stream.
	gen    int
	active activeState
}

// activeState correlates incoming events with parts of the streaming
// assistant message. Indices are positions in the message's Parts slice.
type activeState struct {
	started bool
	text    map[string]int
	reason  map[string]int
	tool    map[string]int
	dyn     map[string]int
	input   map[string]*strings.Builder
}

func newActiveState() activeState {
	return activeState{
		text:   make(map[string]int),
		reason: make(map[string]int),
		tool:   make(map[string]int),
		dyn:    make(map[string]int),
		input:  make(map[string]*strings.Builder),
	}
}

// New creates a Controller for a fresh conversation.
func New(backend parley.Backend, reporter parley.Reporter) *Controller {
	if reporter == nil {
		reporter = parley.NopReporter{}
	}
	return &Controller{
		backend:  backend,
		reporter: reporter,
		chatID:   uuid.NewString(),
		active:   newActiveState(),
	}
}

// Messages returns the conversation. The returned slice is read-only;
// callers must not mutate it.
func (c *Controller) Messages() []parley.Message {
	return c.messages
}

// Status returns the live submission status.
func (c *Controller) Status() parley.Status {
	return c.status
}

// Send appends a new user message, transitions to submitted and forwards
// the request to the backend. It returns the stream and its generation for
// the event pump. Backend rejection is reported, moves status to error and
// is returned to the caller; it never reaches the rendering path.
func (c *Controller) Send(ctx context.Context, text string, opts parley.Options) (parley.Stream, int, error) {
	if c.status.Busy() {
		return nil, 0, parley.ErrBusy
	}

	c.messages = append(c.messages, parley.NewUserMessage(text))
	c.beginTurn(opts)

	stream, err := c.backend.Submit(ctx, parley.SubmitRequest{
		ChatID:   c.chatID,
		Text:     text,
		Messages: c.messages,
		Options:  opts,
	})
	if err != nil {
		err = fmt.Errorf("chat: send: %w", err)
		c.status = parley.StatusError
		c.reporter.Report("send", err)
		return nil, 0, err
	}
	return stream, c.gen, nil
}

// Regenerate asks the backend to recompute the assistant turn identified by
// messageID. Locally the target message and everything after it are
// dropped; the incoming stream's assistant message takes their place. A
// regenerate arriving while still streaming supersedes the in-flight
// stream: status goes straight back to submitted and the old stream's
// events are discarded by generation.
func (c *Controller) Regenerate(ctx context.Context, messageID string) (parley.Stream, int, error) {
	idx := c.indexOf(messageID)
	if idx < 0 {
		return nil, 0, parley.ErrNoSuchMessage
	}
	if c.messages[idx].Role != parley.RoleAssistant {
		return nil, 0, parley.ErrNotAssistant
	}

	c.messages = c.messages[:idx]
	c.beginTurn(c.lastOpts)

	stream, err := c.backend.Regenerate(ctx, parley.RegenerateRequest{
		ChatID:    c.chatID,
		MessageID: messageID,
		Messages:  c.messages,
		Options:   c.lastOpts,
	})
	if err != nil {
		err = fmt.Errorf("chat: regenerate: %w", err)
		c.status = parley.StatusError
		c.reporter.Report("regenerate", err)
		return nil, 0, err
	}
	return stream, c.gen, nil
}

// beginTurn resets per-turn streaming state and moves to submitted.
func (c *Controller) beginTurn(opts parley.Options) {
	c.status = parley.StatusSubmitted
	c.lastOpts = opts
	c.gen++
	c.active = newActiveState()
}

// Apply folds one streamed part-event into the active assistant message.
// The first event of a turn appends the assistant message and transitions
// submitted to streaming. Events tagged with a stale generation are
// dropped. Unrecognized event shapes are ignored, never fatal.
func (c *Controller) Apply(gen int, evt parley.Event) {
	if gen != c.gen {
		return
	}
	switch c.status {
	case parley.StatusSubmitted:
		c.messages = append(c.messages, parley.NewAssistantMessage())
		c.active.started = true
		c.status = parley.StatusStreaming
	case parley.StatusStreaming:
	default:
		return
	}

	msg := &c.messages[len(c.messages)-1]

	switch e := evt.(type) {
	case parley.EventTextDelta:
		if i, ok := c.active.text[e.ID]; ok {
			p := msg.Parts[i].(parley.TextPart)
			p.Text += e.Delta
			msg.Parts[i] = p
			return
		}
		c.active.text[e.ID] = len(msg.Parts)
		msg.Parts = append(msg.Parts, parley.TextPart{ID: e.ID, Text: e.Delta})

	case parley.EventReasoningDelta:
		if i, ok := c.active.reason[e.ID]; ok {
			p := msg.Parts[i].(parley.ReasoningPart)
			p.Text += e.Delta
			msg.Parts[i] = p
			return
		}
		c.active.reason[e.ID] = len(msg.Parts)
		msg.Parts = append(msg.Parts, parley.ReasoningPart{ID: e.ID, Text: e.Delta})

	case parley.EventSourceURL:
		msg.Parts = append(msg.Parts, parley.SourceURLPart{
			SourceID: e.SourceID,
			URL:      e.URL,
			Title:    e.Title,
		})

	case parley.EventToolInputStart:
		c.upsertTool(msg, e.ToolCallID, func(p *parley.ToolCallPart) {
			if p.ToolType == "" {
				p.ToolType = e.ToolType
			}
			p.State = parley.ToolInputStreaming
		})

	case parley.EventToolInputDelta:
		buf, ok := c.active.input[e.ToolCallID]
		if !ok {
			buf = &strings.Builder{}
			c.active.input[e.ToolCallID] = buf
		}
		buf.WriteString(e.Delta)
		raw := []byte(buf.String())
		c.upsertTool(msg, e.ToolCallID, func(p *parley.ToolCallPart) {
			p.Input = raw
		})

	case parley.EventToolInputAvailable:
		c.upsertTool(msg, e.ToolCallID, func(p *parley.ToolCallPart) {
			if !p.State.Supersedes(parley.ToolInputAvailable) {
				return
			}
			if e.ToolType != "" {
				p.ToolType = e.ToolType
			}
			p.State = parley.ToolInputAvailable
			p.Input = e.Input
		})

	case parley.EventToolOutputAvailable:
		c.upsertTool(msg, e.ToolCallID, func(p *parley.ToolCallPart) {
			if !p.State.Supersedes(parley.ToolOutputAvailable) {
				return
			}
			p.State = parley.ToolOutputAvailable
			p.Output = e.Output
		})

	case parley.EventToolOutputError:
		c.upsertTool(msg, e.ToolCallID, func(p *parley.ToolCallPart) {
			if !p.State.Supersedes(parley.ToolOutputError) {
				return
			}
			p.State = parley.ToolOutputError
			p.ErrorText = e.ErrorText
		})

	case parley.EventDynamicTool:
		if i, ok := c.active.dyn[e.ToolCallID]; ok {
			msg.Parts[i] = parley.DynamicToolPart{
				ToolCallID: e.ToolCallID,
				ToolName:   e.ToolName,
				Payload:    e.Payload,
			}
			return
		}
		c.active.dyn[e.ToolCallID] = len(msg.Parts)
		msg.Parts = append(msg.Parts, parley.DynamicToolPart{
			ToolCallID: e.ToolCallID,
			ToolName:   e.ToolName,
			Payload:    e.Payload,
		})
	}
}

// upsertTool patches the tool-call part with the given id in place, or
// appends a fresh one when the id is unknown. Patching never appends a
// duplicate entry.
func (c *Controller) upsertTool(msg *parley.Message, toolCallID string, patch func(*parley.ToolCallPart)) {
	if i, ok := c.active.tool[toolCallID]; ok {
		p := msg.Parts[i].(parley.ToolCallPart)
		patch(&p)
		msg.Parts[i] = p
		return
	}
	p := parley.ToolCallPart{ToolCallID: toolCallID, State: parley.ToolInputStreaming}
	patch(&p)
	c.active.tool[toolCallID] = len(msg.Parts)
	msg.Parts = append(msg.Parts, p)
}

// Finish ends the stream identified by gen. A nil err is normal stream end
// and returns status to ready; a non-nil err is reported and moves status
// to error. Stale generations are ignored.
func (c *Controller) Finish(gen int, err error) {
	if gen != c.gen {
		return
	}
	if !c.status.Busy() {
		return
	}
	if err != nil {
		c.status = parley.StatusError
		c.reporter.Report("stream", fmt.Errorf("chat: stream: %w", err))
		return
	}
	c.status = parley.StatusReady
}

// IsLast reports whether messageID identifies the final message in the
// conversation. Derived on every call, never cached.
func (c *Controller) IsLast(messageID string) bool {
	if len(c.messages) == 0 {
		return false
	}
	return c.messages[len(c.messages)-1].ID == messageID
}

// IsActive reports whether messageID is the message currently receiving
// streamed parts.
func (c *Controller) IsActive(messageID string) bool {
	return c.status == parley.StatusStreaming && c.IsLast(messageID)
}

// PartStreaming reports whether the part at partIndex of messageID should
// render streaming decorations: status is streaming, the part is last in
// its message, and the message is last in the conversation. The triple
// condition keeps settled parts from earlier turns from animating.
func (c *Controller) PartStreaming(messageID string, partIndex int) bool {
	if c.status != parley.StatusStreaming || !c.IsLast(messageID) {
		return false
	}
	msg := c.messages[len(c.messages)-1]
	return partIndex == len(msg.Parts)-1
}

func (c *Controller) indexOf(messageID string) int {
	for i, m := range c.messages {
		if m.ID == messageID {
			return i
		}
	}
	return -1
}
