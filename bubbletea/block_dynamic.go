package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mkwiat/parley"
)

var _ MessageBlock = DynamicToolBlock{}

// DynamicToolBlock is the minimal fallback for tool kinds the backend does
// not fully model. It shows the tool name and a payload preview and must
// never fail on an unknown payload shape.
type DynamicToolBlock struct {
	Part   parley.DynamicToolPart
	Styles Styles
}

func (b DynamicToolBlock) View(width int) string {
	name := b.Part.ToolName
	if name == "" {
		name = "tool"
	}
	line := b.Styles.Tool.Render("◆ " + name)
	if payload := strings.TrimSpace(string(b.Part.Payload)); payload != "" {
		if i := strings.IndexByte(payload, '\n'); i >= 0 {
			payload = payload[:i]
		}
		line += "  " + b.Styles.Muted.Render(runewidth.Truncate(payload, maxPreviewLen, "…"))
	}
	return lipgloss.NewStyle().Width(width).Render(line)
}
