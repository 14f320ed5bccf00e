package bubbletea

import "github.com/charmbracelet/lipgloss"

var _ MessageBlock = ReasoningBlock{}

// ReasoningBlock renders a reasoning trace with a collapsible toggle.
// Streaming is true only for the terminal part of the terminal message
// while the stream is live; it adds the spinner frame to the header so
// settled traces from earlier turns never animate.
type ReasoningBlock struct {
	Text      string
	Collapsed bool
	Streaming bool
	Frame     string
	Styles    Styles
}

func (b ReasoningBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	label := indicator(b.Collapsed) + " Reasoning"
	if b.Streaming && b.Frame != "" {
		label += " " + b.Frame
	}
	header := b.Styles.Reasoning.Render(wrap.Render(label))
	if b.Collapsed {
		return header
	}
	return header + "\n" + b.Styles.Reasoning.Render(wrap.Render(b.Text))
}
