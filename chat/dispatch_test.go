package chat_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mkwiat/parley"
	"github.com/mkwiat/parley/chat"
	"github.com/mkwiat/parley/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Copy(t *testing.T) {
	t.Parallel()

	t.Run("writes to the clipboard", func(t *testing.T) {
		t.Parallel()
		clip := &mock.Clipboard{}
		d := chat.NewDispatcher(chat.New(&mock.Backend{}, nil), clip, nil)

		d.Copy("the answer")

		assert.Equal(t, []string{"the answer"}, clip.Written)
	})

	t.Run("failure is reported, never thrown", func(t *testing.T) {
		t.Parallel()
		clip := &mock.Clipboard{Err: errors.New("no display")}
		reporter := &mock.Reporter{}
		d := chat.NewDispatcher(chat.New(&mock.Backend{}, nil), clip, reporter)

		d.Copy("the answer")

		require.Len(t, reporter.Reports, 1)
		assert.Equal(t, "copy", reporter.Reports[0].Label)
	})
}

func TestDispatcher_Retry(t *testing.T) {
	t.Parallel()

	t.Run("delegates to the controller", func(t *testing.T) {
		t.Parallel()
		backend, _, _ := submitOK()
		c := chat.New(backend, nil)
		streamTurn(t, c, "question", parley.EventTextDelta{ID: "t1", Delta: "answer"})
		d := chat.NewDispatcher(c, &mock.Clipboard{}, nil)

		stream, gen, ok := d.Retry(context.Background(), c.Messages()[1].ID)

		require.True(t, ok)
		assert.NotNil(t, stream)
		assert.Equal(t, 2, gen)
		assert.Equal(t, parley.StatusSubmitted, c.Status())
	})

	t.Run("bad target is reported and swallowed", func(t *testing.T) {
		t.Parallel()
		backend, _, _ := submitOK()
		reporter := &mock.Reporter{}
		c := chat.New(backend, reporter)
		streamTurn(t, c, "question", parley.EventTextDelta{ID: "t1", Delta: "answer"})
		d := chat.NewDispatcher(c, &mock.Clipboard{}, reporter)

		_, _, ok := d.Retry(context.Background(), "nope")

		assert.False(t, ok)
		require.Len(t, reporter.Reports, 1)
		assert.Equal(t, "retry", reporter.Reports[0].Label)
	})

	t.Run("backend failure already reported by the controller", func(t *testing.T) {
		t.Parallel()
		backend := &mock.Backend{
			SubmitFn: func(context.Context, parley.SubmitRequest) (parley.Stream, error) {
				return mock.Events(), nil
			},
			RegenerateFn: func(context.Context, parley.RegenerateRequest) (parley.Stream, error) {
				return nil, errors.New("backend down")
			},
		}
		reporter := &mock.Reporter{}
		c := chat.New(backend, reporter)
		streamTurn(t, c, "question", parley.EventTextDelta{ID: "t1", Delta: "answer"})
		d := chat.NewDispatcher(c, &mock.Clipboard{}, reporter)

		_, _, ok := d.Retry(context.Background(), c.Messages()[1].ID)

		assert.False(t, ok)
		require.Len(t, reporter.Reports, 1, "controller reports once, dispatcher adds nothing")
		assert.Equal(t, "regenerate", reporter.Reports[0].Label)
	})
}
