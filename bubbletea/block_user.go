package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = UserBlock{}

// UserBlock renders a user message with a "> " prefix.
type UserBlock struct {
	Text   string
	Styles Styles
}

func (b UserBlock) View(width int) string {
	content := b.Styles.UserMsg.Render("> ") + b.Text
	return lipgloss.NewStyle().Width(width).Render(content)
}
