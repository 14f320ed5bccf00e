package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/mkwiat/parley"
	"google.golang.org/genai"
)

// stream implements [parley.Stream] by wrapping the genai SDK's streaming
// iterator. One SDK response chunk can yield several semantic events (text,
// reasoning, tool calls, grounding sources), so decoded events queue up and
// Next drains the queue before pulling again.
type stream struct {
	pull   func() (*genai.GenerateContentResponse, error, bool)
	stop   func()
	ctx    context.Context
	queue  []parley.Event
	done   bool
	closed bool
	err    error

	// Part-id framing: consecutive chunks of one kind coalesce into one
	// part; a kind switch starts a new part id.
	lastKind string
	seq      int
	toolSeq  int
	seenSrc  map[string]bool
}

// Interface compliance check.
var _ parley.Stream = (*stream)(nil)

func newStream(ctx context.Context, iterFn iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	next, stop := iter.Pull2(iterFn)
	return &stream{
		pull:    next,
		stop:    stop,
		ctx:     ctx,
		seenSrc: make(map[string]bool),
	}
}

// Next returns the next semantic event, io.EOF on normal completion, or a
// non-EOF error on failure.
func (s *stream) Next() (parley.Event, error) {
	for {
		if len(s.queue) > 0 {
			evt := s.queue[0]
			s.queue = s.queue[1:]
			return evt, nil
		}
		if s.done {
			if s.err != nil {
				return nil, s.err
			}
			return nil, io.EOF
		}
		if s.closed {
			return nil, parley.ErrStreamClosed
		}

		resp, err, ok := s.pull()
		if !ok {
			s.done = true
			continue
		}
		if err != nil {
			s.done = true
			if s.ctx.Err() != nil {
				s.err = fmt.Errorf("gemini: %w", s.ctx.Err())
			} else {
				s.err = fmt.Errorf("gemini: %w", err)
			}
			continue
		}
		s.enqueue(resp)
	}
}

// enqueue decodes one response chunk into events.
func (s *stream) enqueue(resp *genai.GenerateContentResponse) {
	if resp == nil || len(resp.Candidates) == 0 {
		return
	}
	cand := resp.Candidates[0]

	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			s.enqueuePart(part)
		}
	}

	if cand.GroundingMetadata != nil {
		for _, gc := range cand.GroundingMetadata.GroundingChunks {
			if gc.Web == nil || gc.Web.URI == "" || s.seenSrc[gc.Web.URI] {
				continue
			}
			s.seenSrc[gc.Web.URI] = true
			s.queue = append(s.queue, parley.EventSourceURL{
				SourceID: fmt.Sprintf("src-%d", len(s.seenSrc)),
				URL:      gc.Web.URI,
				Title:    gc.Web.Title,
			})
		}
	}
}

func (s *stream) enqueuePart(part *genai.Part) {
	switch {
	case part == nil:

	case part.FunctionCall != nil:
		fc := part.FunctionCall
		id := fc.ID
		if id == "" {
			s.toolSeq++
			id = fmt.Sprintf("call-%d", s.toolSeq)
		}
		// Gemini delivers function calls whole; the input-streaming
		// phase collapses into a single input-available event.
		args, err := json.Marshal(fc.Args)
		if err != nil {
			args = nil
		}
		s.queue = append(s.queue, parley.EventToolInputAvailable{
			ToolCallID: id,
			ToolType:   fc.Name,
			Input:      args,
		})
		s.lastKind = "tool"

	case part.Thought && part.Text != "":
		s.queue = append(s.queue, parley.EventReasoningDelta{
			ID:    s.partID("reasoning"),
			Delta: part.Text,
		})

	case part.Text != "":
		s.queue = append(s.queue, parley.EventTextDelta{
			ID:    s.partID("text"),
			Delta: part.Text,
		})
	}
}

// partID returns a stable id while consecutive chunks share a kind, and a
// fresh one after a kind switch, so text after a tool call starts a new
// part instead of growing an earlier one.
func (s *stream) partID(kind string) string {
	if s.lastKind != kind {
		s.seq++
		s.lastKind = kind
	}
	return fmt.Sprintf("%s-%d", kind, s.seq)
}

// Close releases the iterator. Subsequent Next calls return ErrStreamClosed
// unless a terminal state was already reached.
func (s *stream) Close() error {
	if !s.done {
		s.closed = true
	}
	s.stop()
	return nil
}
