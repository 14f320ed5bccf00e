package aisdk

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mkwiat/parley"
)

// stream implements [parley.Stream] by parsing SSE data lines from an HTTP
// response body into semantic events.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	done    bool
	closed  bool
	err     error
}

// Interface compliance check.
var _ parley.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	sc := bufio.NewScanner(body)
	// Chunks carrying complete tool inputs or outputs can exceed the
	// default scanner token size.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &stream{
		body:    body,
		scanner: sc,
		ctx:     ctx,
	}
}

// Next reads the next semantic event. Returns io.EOF on normal stream end
// (finish chunk, [DONE] sentinel, or clean body EOF) and a non-EOF error on
// stream failure, including server "error" chunks.
func (s *stream) Next() (parley.Event, error) {
	if s.done {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	if s.closed {
		return nil, parley.ErrStreamClosed
	}

	for {
		data, err := s.readData()
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = err
				return nil, s.err
			}
			return nil, io.EOF
		}

		if data == doneSentinel {
			s.done = true
			return nil, io.EOF
		}

		var ch chunk
		if err := json.Unmarshal([]byte(data), &ch); err != nil {
			// Malformed frames are skipped rather than fatal; the
			// chunk vocabulary is expected to grow over time.
			continue
		}

		switch ch.Type {
		case "finish":
			s.done = true
			return nil, io.EOF
		case "error":
			s.done = true
			s.err = &streamError{text: ch.ErrorText}
			return nil, s.err
		}

		if evt := ch.toEvent(); evt != nil {
			return evt, nil
		}
		// Framing or unknown chunk, keep reading.
	}
}

// readData reads lines until a complete SSE event is assembled and returns
// its data payload. Comment lines and non-data fields are skipped.
func (s *stream) readData() (string, error) {
	var dataBuf strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			// Empty line signals end of event.
			if dataBuf.Len() > 0 {
				return dataBuf.String(), nil
			}
			continue
		}

		if rest, ok := strings.CutPrefix(line, "data:"); ok {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(rest, " "))
		}
		// Ignore comments (lines starting with ':') and other fields.
	}

	if err := s.scanner.Err(); err != nil {
		if s.ctx.Err() != nil {
			return "", fmt.Errorf("aisdk: %w", s.ctx.Err())
		}
		return "", fmt.Errorf("aisdk: %w", err)
	}

	// Scanner exhausted without error = EOF.
	if dataBuf.Len() > 0 {
		return dataBuf.String(), nil
	}
	return "", io.EOF
}

// Close closes the underlying response body. Safe to call at any point;
// subsequent Next calls return ErrStreamClosed.
func (s *stream) Close() error {
	if !s.done {
		s.closed = true
	}
	return s.body.Close()
}
