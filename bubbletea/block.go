package bubbletea

// MessageBlock is one renderable element of the conversation. View takes a
// width parameter so the root model controls layout and blocks are testable
// in isolation. Blocks are rebuilt from controller state on each render;
// collapse and focus state lives in the model.
type MessageBlock interface {
	View(width int) string
}

const maxPreviewLen = 60

// indicator returns the collapse marker for a collapsible block header.
func indicator(collapsed bool) string {
	if collapsed {
		return "▶"
	}
	return "▼"
}
