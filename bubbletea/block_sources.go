package bubbletea

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mkwiat/parley"
)

var _ MessageBlock = SourcesBlock{}

// SourcesBlock renders a message's URL citations as one aggregate: a count
// header, expandable to the individual links. Source parts never render
// inline between other parts.
type SourcesBlock struct {
	Sources   []parley.SourceURLPart
	Collapsed bool
	Styles    Styles
}

func (b SourcesBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	noun := "sources"
	if len(b.Sources) == 1 {
		noun = "source"
	}
	header := b.Styles.Source.Render(wrap.Render(
		fmt.Sprintf("%s %d %s", indicator(b.Collapsed), len(b.Sources), noun)))
	if b.Collapsed {
		return header
	}

	var sb strings.Builder
	sb.WriteString(header)
	for _, src := range b.Sources {
		line := "• "
		if src.Title != "" {
			line += src.Title + " "
		}
		line += b.Styles.Muted.Render("(" + src.URL + ")")
		sb.WriteString("\n")
		sb.WriteString(wrap.Render(line))
	}
	return sb.String()
}
