package aisdk_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkwiat/parley"
	"github.com/mkwiat/parley/aisdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseServer returns a test server that records the decoded request body and
// answers with the given SSE lines (each written verbatim, followed by the
// blank separator line).
func sseServer(t *testing.T, body *map[string]any, lines ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, body))

		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("x-vercel-ai-ui-message-stream", "v1")
		for _, line := range lines {
			fmt.Fprintf(w, "%s\n\n", line)
		}
	}))
}

// collect drains a stream into events, returning the terminal error.
func collect(t *testing.T, s parley.Stream) ([]parley.Event, error) {
	t.Helper()
	defer s.Close()
	var out []parley.Event
	for {
		evt, err := s.Next()
		if err != nil {
			return out, err
		}
		out = append(out, evt)
	}
}

func TestClient_Submit(t *testing.T) {
	t.Parallel()

	t.Run("request body carries trigger, history and options", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body, `data: [DONE]`)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		user := parley.NewUserMessage("what is Go?")
		stream, err := client.Submit(context.Background(), parley.SubmitRequest{
			ChatID:   "chat-1",
			Text:     "what is Go?",
			Messages: []parley.Message{user},
			Options:  parley.Options{Model: "openai/gpt-4o", WebSearch: true},
		})
		require.NoError(t, err)
		_, err = collect(t, stream)
		require.ErrorIs(t, err, io.EOF)

		assert.Equal(t, "submit-message", body["trigger"])
		assert.Equal(t, "chat-1", body["id"])
		assert.Equal(t, "openai/gpt-4o", body["model"])
		assert.Equal(t, true, body["webSearch"])

		msgs := body["messages"].([]any)
		require.Len(t, msgs, 1)
		msg := msgs[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		parts := msg["parts"].([]any)
		require.Len(t, parts, 1)
		part := parts[0].(map[string]any)
		assert.Equal(t, "text", part["type"])
		assert.Equal(t, "what is Go?", part["text"])
	})

	t.Run("assistant tool parts serialize with tool-prefixed type", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body, `data: [DONE]`)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		assistant := parley.NewAssistantMessage()
		assistant.Parts = []parley.Part{
			parley.ToolCallPart{
				ToolCallID: "tc_1",
				ToolType:   "search",
				State:      parley.ToolOutputAvailable,
				Input:      json.RawMessage(`{"q":"go"}`),
				Output:     json.RawMessage(`{"hits":3}`),
			},
			parley.TextPart{Text: "done"},
		}
		stream, err := client.Submit(context.Background(), parley.SubmitRequest{
			ChatID:   "chat-1",
			Messages: []parley.Message{assistant},
		})
		require.NoError(t, err)
		_, err = collect(t, stream)
		require.ErrorIs(t, err, io.EOF)

		parts := body["messages"].([]any)[0].(map[string]any)["parts"].([]any)
		require.Len(t, parts, 2)
		tool := parts[0].(map[string]any)
		assert.Equal(t, "tool-search", tool["type"])
		assert.Equal(t, "tc_1", tool["toolCallId"])
		assert.Equal(t, "output-available", tool["state"])
	})

	t.Run("non-200 response surfaces the server message", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model unavailable", http.StatusBadGateway)
		}))
		defer srv.Close()
		client := aisdk.New(srv.URL)

		_, err := client.Submit(context.Background(), parley.SubmitRequest{ChatID: "chat-1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Contains(t, err.Error(), "model unavailable")
	})
}

func TestClient_Regenerate(t *testing.T) {
	t.Parallel()

	var body map[string]any
	srv := sseServer(t, &body, `data: [DONE]`)
	defer srv.Close()
	client := aisdk.New(srv.URL)

	stream, err := client.Regenerate(context.Background(), parley.RegenerateRequest{
		ChatID:    "chat-1",
		MessageID: "msg-2",
		Messages:  []parley.Message{parley.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	_, err = collect(t, stream)
	require.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "regenerate-message", body["trigger"])
	assert.Equal(t, "msg-2", body["messageId"])
}

func TestStream_Events(t *testing.T) {
	t.Parallel()

	t.Run("chunks map to semantic events", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body,
			`data: {"type":"start"}`,
			`data: {"type":"text-start","id":"t1"}`,
			`data: {"type":"text-delta","id":"t1","delta":"Hel"}`,
			`data: {"type":"text-delta","id":"t1","delta":"lo"}`,
			`data: {"type":"reasoning-delta","id":"r1","delta":"hmm"}`,
			`data: {"type":"source-url","sourceId":"s1","url":"https://a.example","title":"A"}`,
			`data: {"type":"tool-input-start","toolCallId":"tc_1","toolName":"search"}`,
			`data: {"type":"tool-input-delta","toolCallId":"tc_1","inputTextDelta":"{\"q\":1}"}`,
			`data: {"type":"tool-input-available","toolCallId":"tc_1","toolName":"search","input":{"q":1}}`,
			`data: {"type":"tool-output-available","toolCallId":"tc_1","output":{"ok":true}}`,
			`data: {"type":"finish"}`,
			`data: [DONE]`,
		)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		stream, err := client.Submit(context.Background(), parley.SubmitRequest{ChatID: "chat-1"})
		require.NoError(t, err)
		events, err := collect(t, stream)
		require.ErrorIs(t, err, io.EOF)

		require.Len(t, events, 8, "framing chunks (start, text-start) produce no events")
		assert.Equal(t, parley.EventTextDelta{ID: "t1", Delta: "Hel"}, events[0])
		assert.Equal(t, parley.EventTextDelta{ID: "t1", Delta: "lo"}, events[1])
		assert.Equal(t, parley.EventReasoningDelta{ID: "r1", Delta: "hmm"}, events[2])
		assert.Equal(t, parley.EventSourceURL{SourceID: "s1", URL: "https://a.example", Title: "A"}, events[3])
		assert.Equal(t, parley.EventToolInputStart{ToolCallID: "tc_1", ToolType: "search"}, events[4])
		assert.Equal(t, parley.EventToolInputDelta{ToolCallID: "tc_1", Delta: `{"q":1}`}, events[5])

		avail, ok := events[6].(parley.EventToolInputAvailable)
		require.True(t, ok)
		assert.JSONEq(t, `{"q":1}`, string(avail.Input))

		out, ok := events[7].(parley.EventToolOutputAvailable)
		require.True(t, ok)
		assert.JSONEq(t, `{"ok":true}`, string(out.Output))
	})

	t.Run("dynamic tool chunks map to the fallback event", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body,
			`data: {"type":"tool-input-available","toolCallId":"tc_1","toolName":"weird","dynamic":true,"input":{"x":1}}`,
			`data: [DONE]`,
		)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		stream, err := client.Submit(context.Background(), parley.SubmitRequest{ChatID: "chat-1"})
		require.NoError(t, err)
		events, err := collect(t, stream)
		require.ErrorIs(t, err, io.EOF)

		require.Len(t, events, 1)
		dyn, ok := events[0].(parley.EventDynamicTool)
		require.True(t, ok)
		assert.Equal(t, "weird", dyn.ToolName)
		assert.JSONEq(t, `{"x":1}`, string(dyn.Payload))
	})

	t.Run("tool failure chunk maps to output error", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body,
			`data: {"type":"tool-output-error","toolCallId":"tc_1","errorText":"rate limited"}`,
			`data: [DONE]`,
		)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		stream, err := client.Submit(context.Background(), parley.SubmitRequest{ChatID: "chat-1"})
		require.NoError(t, err)
		events, err := collect(t, stream)
		require.ErrorIs(t, err, io.EOF)

		require.Len(t, events, 1)
		assert.Equal(t, parley.EventToolOutputError{ToolCallID: "tc_1", ErrorText: "rate limited"}, events[0])
	})

	t.Run("error chunk fails the stream", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body,
			`data: {"type":"text-delta","id":"t1","delta":"partial"}`,
			`data: {"type":"error","errorText":"model overloaded"}`,
		)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		stream, err := client.Submit(context.Background(), parley.SubmitRequest{ChatID: "chat-1"})
		require.NoError(t, err)
		events, err := collect(t, stream)

		require.Error(t, err)
		assert.NotErrorIs(t, err, io.EOF)
		assert.Contains(t, err.Error(), "model overloaded")
		assert.Len(t, events, 1, "events before the failure are delivered")
	})

	t.Run("malformed and unknown chunks are skipped", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body,
			`data: not json at all`,
			`data: {"type":"some-future-chunk","id":"x"}`,
			`data: {"type":"text-delta","id":"t1","delta":"ok"}`,
			`data: [DONE]`,
		)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		stream, err := client.Submit(context.Background(), parley.SubmitRequest{ChatID: "chat-1"})
		require.NoError(t, err)
		events, err := collect(t, stream)
		require.ErrorIs(t, err, io.EOF)

		require.Len(t, events, 1)
		assert.Equal(t, parley.EventTextDelta{ID: "t1", Delta: "ok"}, events[0])
	})

	t.Run("body EOF without sentinel ends the stream normally", func(t *testing.T) {
		t.Parallel()
		var body map[string]any
		srv := sseServer(t, &body,
			`data: {"type":"text-delta","id":"t1","delta":"hi"}`,
		)
		defer srv.Close()
		client := aisdk.New(srv.URL)

		stream, err := client.Submit(context.Background(), parley.SubmitRequest{ChatID: "chat-1"})
		require.NoError(t, err)
		events, err := collect(t, stream)

		assert.ErrorIs(t, err, io.EOF)
		assert.Len(t, events, 1)
	})
}
