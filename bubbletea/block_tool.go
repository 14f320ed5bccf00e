package bubbletea

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/mkwiat/parley"
)

var _ MessageBlock = ToolBlock{}

// ToolBlock renders a tool call with a collapsible toggle. The header shows
// tool type and state; input is always shown (a one-line preview while
// collapsed), output only once the state is output-available. The
// output-error state gets a distinct error indicator.
type ToolBlock struct {
	Part      parley.ToolCallPart
	Collapsed bool
	Styles    Styles
}

func (b ToolBlock) View(width int) string {
	wrap := lipgloss.NewStyle().Width(width)

	header := b.Styles.Tool.Render(indicator(b.Collapsed)+" "+b.Part.ToolType) +
		" " + b.stateBadge()

	if b.Collapsed {
		if preview := b.inputPreview(width); preview != "" {
			header += "  " + b.Styles.Muted.Render(preview)
		}
		return wrap.Render(header)
	}

	var sb strings.Builder
	sb.WriteString(header)
	if input := formatJSON(b.Part.Input); input != "" {
		sb.WriteString("\n")
		sb.WriteString(b.Styles.Muted.Render(wrap.Render(input)))
	}
	switch b.Part.State {
	case parley.ToolOutputAvailable:
		if output := formatJSON(b.Part.Output); output != "" {
			sb.WriteString("\n")
			sb.WriteString(wrap.Render(output))
		}
	case parley.ToolOutputError:
		text := b.Part.ErrorText
		if text == "" {
			text = "tool failed"
		}
		sb.WriteString("\n")
		sb.WriteString(b.Styles.Error.Render(wrap.Render(text)))
	}
	return sb.String()
}

func (b ToolBlock) stateBadge() string {
	switch b.Part.State {
	case parley.ToolInputStreaming:
		return b.Styles.Muted.Render("…")
	case parley.ToolInputAvailable:
		return b.Styles.Muted.Render("○")
	case parley.ToolOutputAvailable:
		return b.Styles.Success.Render("✓")
	case parley.ToolOutputError:
		return b.Styles.Error.Render("✗")
	default:
		return b.Styles.Muted.Render("?")
	}
}

// inputPreview returns the first line of the input truncated to fit
// alongside the header.
func (b ToolBlock) inputPreview(width int) string {
	raw := strings.TrimSpace(string(b.Part.Input))
	if raw == "" {
		return ""
	}
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}
	limit := maxPreviewLen
	if width > 0 && width-20 < limit {
		limit = width - 20
	}
	if limit <= 0 {
		return ""
	}
	return runewidth.Truncate(raw, limit, "…")
}

// formatJSON pretty-prints raw JSON for expanded view. Partial or invalid
// JSON (mid-stream input) is shown as-is.
func formatJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
