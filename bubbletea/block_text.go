package bubbletea

import (
	"strings"

	"github.com/mkwiat/parley"
	"github.com/mkwiat/parley/markdown"
)

var _ MessageBlock = TextBlock{}

// TextBlock renders assistant text with markdown formatting. When the part
// is the terminal text segment of its message, a retry/copy action hint is
// attached below the content.
type TextBlock struct {
	Text        string
	ShowActions bool
	Theme       parley.Theme
	Styles      Styles
}

func (b TextBlock) View(width int) string {
	raw := b.Text
	if hasUnclosedFence(raw) {
		// Close fence only for rendering so partial streams display safely.
		raw += "\n```"
	}
	rendered := markdown.Render(raw, width, b.Theme)
	if !b.ShowActions {
		return rendered
	}
	hint := b.Styles.Muted.Render("ctrl+r regenerate · ctrl+y copy")
	if rendered == "" {
		return hint
	}
	return rendered + "\n" + hint
}

// hasUnclosedFence detects whether s contains an unclosed fenced code block
// by checking for an odd number of "```" occurrences. Streaming output
// rarely contains literal triple backticks in inline code, so a simple
// substring count is acceptable.
func hasUnclosedFence(s string) bool {
	return strings.Count(s, "```")%2 == 1
}
