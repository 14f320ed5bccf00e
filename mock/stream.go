package mock

import (
	"io"

	"github.com/mkwiat/parley"
)

// Stream is a test double for parley.Stream.
// NextFn panics when nil to catch missing setup. CloseFn is nil-safe
// because test code commonly does defer stream.Close() without caring
// about its behavior.
type Stream struct {
	NextFn  func() (parley.Event, error)
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (parley.Event, error) {
	return s.NextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// Events returns a Stream that replays evts in order and then ends
// normally. Convenient for scripted-stream tests.
func Events(evts ...parley.Event) *Stream {
	i := 0
	return &Stream{
		NextFn: func() (parley.Event, error) {
			if i >= len(evts) {
				return nil, io.EOF
			}
			evt := evts[i]
			i++
			return evt, nil
		},
	}
}
