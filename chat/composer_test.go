package chat_test

import (
	"testing"

	"github.com/mkwiat/parley"
	"github.com/mkwiat/parley/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposer_Defaults(t *testing.T) {
	t.Parallel()

	c := chat.NewComposer(nil)

	assert.Equal(t, parley.DefaultCatalog().Default(), c.Model())
	assert.False(t, c.WebSearch())
	assert.Empty(t, c.Text())
}

func TestComposer_SelectModel(t *testing.T) {
	t.Parallel()

	t.Run("selects a catalog entry", func(t *testing.T) {
		t.Parallel()
		c := chat.NewComposer(nil)
		require.NoError(t, c.SelectModel("anthropic/claude-sonnet-4"))
		assert.Equal(t, "anthropic/claude-sonnet-4", c.Model().ID)
	})

	t.Run("rejects ids outside the catalog", func(t *testing.T) {
		t.Parallel()
		c := chat.NewComposer(nil)
		before := c.Model()

		err := c.SelectModel("acme/unknown-model")

		assert.ErrorIs(t, err, parley.ErrUnknownModel)
		assert.Equal(t, before, c.Model(), "failed selection leaves the model unchanged")
	})
}

func TestComposer_CycleModel(t *testing.T) {
	t.Parallel()

	catalog := parley.Catalog{
		{DisplayName: "A", ID: "a"},
		{DisplayName: "B", ID: "b"},
	}
	c := chat.NewComposer(catalog)

	c.CycleModel()
	assert.Equal(t, "b", c.Model().ID)
	c.CycleModel()
	assert.Equal(t, "a", c.Model().ID, "cycling wraps around")
}

func TestComposer_Submit(t *testing.T) {
	t.Parallel()

	t.Run("accepts a draft and clears it immediately", func(t *testing.T) {
		t.Parallel()
		c := chat.NewComposer(nil)
		c.SetText("  hello world  ")
		require.NoError(t, c.SelectModel("openai/gpt-4o-mini"))
		c.ToggleWebSearch()

		text, opts, ok := c.Submit()

		require.True(t, ok)
		assert.Equal(t, "hello world", text, "surrounding whitespace is trimmed")
		assert.Equal(t, "openai/gpt-4o-mini", opts.Model)
		assert.True(t, opts.WebSearch)
		assert.Empty(t, c.Text(), "draft clears optimistically on accept")
	})

	t.Run("whitespace-only draft is a no-op", func(t *testing.T) {
		t.Parallel()
		c := chat.NewComposer(nil)
		c.SetText("   \n\t  ")

		_, _, ok := c.Submit()

		assert.False(t, ok)
		assert.Equal(t, "   \n\t  ", c.Text(), "rejected draft is untouched")
	})

	t.Run("empty draft is a no-op", func(t *testing.T) {
		t.Parallel()
		c := chat.NewComposer(nil)
		_, _, ok := c.Submit()
		assert.False(t, ok)
	})

	t.Run("model and toggle survive a submit", func(t *testing.T) {
		t.Parallel()
		c := chat.NewComposer(nil)
		c.ToggleWebSearch()
		require.NoError(t, c.SelectModel("google/gemini-2.5-flash"))
		c.SetText("hi")

		_, _, ok := c.Submit()

		require.True(t, ok)
		assert.True(t, c.WebSearch())
		assert.Equal(t, "google/gemini-2.5-flash", c.Model().ID)
	})
}
