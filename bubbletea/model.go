package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mkwiat/parley"
	"github.com/mkwiat/parley/chat"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the parley TUI. It renders controller
// state and translates key presses into composer/controller/dispatcher
// calls; it holds no message or status state of its own beyond collapse
// and focus bookkeeping.
type Model struct {
	// Input is the draft text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation area. Exported for test access.
	Viewport viewport.Model

	ctrl     *chat.Controller
	composer *chat.Composer
	dispatch *chat.Dispatcher
	theme    parley.Theme
	styles   Styles
	spin     spinner.Model

	// expanded holds per-part collapse state keyed by "<msgID>:<partIdx>"
	// (or "<msgID>:sources" for the citation aggregate). Parts start
	// collapsed.
	expanded map[string]bool
	focus    int // index into collapsibleKeys(); -1 = none

	cancel  context.CancelFunc
	eventCh chan parley.Event
	doneCh  chan error
	gen     int
	err     error
	ready   bool
}

// New creates a TUI Model wired to the given backend and collaborators.
func New(backend parley.Backend, clip parley.Clipboard, reporter parley.Reporter, catalog parley.Catalog, theme parley.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	ctrl := chat.New(backend, reporter)
	return Model{
		Input:    ti,
		ctrl:     ctrl,
		composer: chat.NewComposer(catalog),
		dispatch: chat.NewDispatcher(ctrl, clip, reporter),
		theme:    theme,
		styles:   NewStyles(theme),
		spin:     sp,
		expanded: make(map[string]bool),
		focus:    -1,
	}
}

// Controller returns the conversation controller. Exported for test access.
func (m Model) Controller() *chat.Controller { return m.ctrl }

// Composer returns the draft composer. Exported for test access.
func (m Model) Composer() *chat.Composer { return m.composer }

// Err returns the last dispatch error shown in the status line, if any.
func (m Model) Err() error { return m.err }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.ctrl.Status().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		// Spinner frames appear inside streaming reasoning headers.
		m.Viewport.SetContent(m.renderContent())
		return m, cmd

	case StreamEventMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		m.ctrl.Apply(msg.Gen, msg.Event)
		m = m.updateFocus()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		if m.eventCh != nil {
			return m, listenForEvent(msg.Gen, m.eventCh, m.doneCh)
		}
		return m, nil

	case StreamDoneMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		err := msg.Err
		if err != nil && errors.Is(err, context.Canceled) {
			// User-initiated cancel is not a stream failure.
			err = nil
		}
		m.ctrl.Finish(msg.Gen, err)
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.eventCh = nil
		m.doneCh = nil
		m = m.updateFocus()
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		cmd := m.Input.Focus()
		return m, cmd
	}

	// Pass remaining messages to sub-components. Viewport always receives
	// messages for scrolling (keyboard and mouse).
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.ctrl.Status().Busy() {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	borderH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - borderH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	busy := m.ctrl.Status().Busy()

	switch msg.Type {
	case tea.KeyCtrlC:
		if busy {
			if m.cancel != nil {
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if busy {
			return m, nil
		}
		return m.submitDraft()

	case tea.KeyTab:
		if key := m.focusKey(); key != "" {
			m.expanded[key] = !m.expanded[key]
			m.Viewport.SetContent(m.renderContent())
		}
		return m, nil

	case tea.KeyShiftTab:
		m = m.cycleFocusPrev()
		m.Viewport.SetContent(m.renderContent())
		return m, nil

	case tea.KeyCtrlP:
		if !busy {
			m.composer.CycleModel()
		}
		return m, nil

	case tea.KeyCtrlO:
		if !busy {
			m.composer.ToggleWebSearch()
		}
		return m, nil

	case tea.KeyCtrlR:
		return m.retryLastTurn()

	case tea.KeyCtrlY:
		m.copyLastTurn()
		return m, nil
	}

	// When idle, pass keys to both input (for typing) and viewport (for
	// scrolling). Only non-character keys reach the viewport to avoid
	// conflicts ('j'/'k' are viewport scroll AND text characters).
	if !busy {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// submitDraft hands the draft to the composer and, when accepted, sends the
// turn. The input is cleared on hand-off regardless of whether the send
// later fails.
func (m Model) submitDraft() (tea.Model, tea.Cmd) {
	m.composer.SetText(m.Input.Value())
	text, opts, ok := m.composer.Submit()
	if !ok {
		return m, nil
	}
	m.Input.SetValue("")
	m.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	stream, gen, err := m.ctrl.Send(ctx, text, opts)
	if err != nil {
		cancel()
		m.err = err
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		return m, nil
	}
	m.cancel = cancel
	return m.startPump(ctx, stream, gen)
}

// retryLastTurn regenerates the newest assistant message. A retry while
// still streaming supersedes the in-flight stream.
func (m Model) retryLastTurn() (tea.Model, tea.Cmd) {
	if m.ctrl.Status() == parley.StatusSubmitted {
		return m, nil
	}
	target := ""
	msgs := m.ctrl.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == parley.RoleAssistant {
			target = msgs[i].ID
			break
		}
	}
	if target == "" {
		return m, nil
	}

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	stream, gen, ok := m.dispatch.Retry(ctx, target)
	if !ok {
		cancel()
		m.Viewport.SetContent(m.renderContent())
		return m, nil
	}
	m.cancel = cancel
	return m.startPump(ctx, stream, gen)
}

// copyLastTurn copies the terminal text part of the newest assistant
// message, when that part carries the copy action.
func (m Model) copyLastTurn() {
	msgs := m.ctrl.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		msg := msgs[i]
		if msg.Role != parley.RoleAssistant {
			continue
		}
		last := len(msg.Parts) - 1
		if len(chat.Actions(msg, last)) == 0 {
			return
		}
		if t, ok := msg.Parts[last].(parley.TextPart); ok {
			m.dispatch.Copy(t.Text)
		}
		return
	}
}

// startPump wires the stream into the update loop.
func (m Model) startPump(ctx context.Context, stream parley.Stream, gen int) (tea.Model, tea.Cmd) {
	m.gen = gen
	m.eventCh = make(chan parley.Event, 256)
	m.doneCh = make(chan error, 1)
	m.Input.Blur()
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	return m, tea.Batch(
		drainStream(ctx, stream, m.eventCh, m.doneCh),
		listenForEvent(gen, m.eventCh, m.doneCh),
		m.spin.Tick,
	)
}

// renderContent renders all messages; parts within a message are separated
// by single newlines, messages by a blank line.
func (m Model) renderContent() string {
	msgs := m.ctrl.Messages()
	if len(msgs) == 0 {
		return ""
	}
	width := m.Viewport.Width

	var groups []string
	for _, msg := range msgs {
		var lines []string
		for _, block := range m.messageBlocks(msg) {
			lines = append(lines, block.View(width))
		}
		if len(lines) > 0 {
			groups = append(groups, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(groups, "\n\n")
}

// messageBlocks classifies a message's parts into renderable blocks,
// dispatching on part kind. Source-url parts aggregate into a single
// trailing block; unrecognized kinds render nothing.
func (m Model) messageBlocks(msg parley.Message) []MessageBlock {
	if msg.Role == parley.RoleUser {
		return []MessageBlock{UserBlock{Text: msg.Text(), Styles: m.styles}}
	}

	var blocks []MessageBlock
	for i, p := range msg.Parts {
		key := partKey(msg.ID, i)
		switch p := p.(type) {
		case parley.TextPart:
			showActions := len(chat.Actions(msg, i)) > 0 && !m.ctrl.IsActive(msg.ID)
			blocks = append(blocks, TextBlock{
				Text:        p.Text,
				ShowActions: showActions,
				Theme:       m.theme,
				Styles:      m.styles,
			})
		case parley.ReasoningPart:
			blocks = append(blocks, ReasoningBlock{
				Text:      p.Text,
				Collapsed: !m.expanded[key],
				Streaming: m.ctrl.PartStreaming(msg.ID, i),
				Frame:     m.spin.View(),
				Styles:    m.styles,
			})
		case parley.ToolCallPart:
			blocks = append(blocks, ToolBlock{
				Part:      p,
				Collapsed: !m.expanded[key],
				Styles:    m.styles,
			})
		case parley.DynamicToolPart:
			blocks = append(blocks, DynamicToolBlock{Part: p, Styles: m.styles})
		case parley.SourceURLPart:
			// Aggregated below.
		default:
			// Unknown part kind: render nothing, never fail.
		}
	}

	if sources := msg.Sources(); len(sources) > 0 {
		blocks = append(blocks, SourcesBlock{
			Sources:   sources,
			Collapsed: !m.expanded[sourcesKey(msg.ID)],
			Styles:    m.styles,
		})
	}
	return blocks
}

// collapsibleKeys lists the toggleable blocks in render order.
func (m Model) collapsibleKeys() []string {
	var keys []string
	for _, msg := range m.ctrl.Messages() {
		if msg.Role != parley.RoleAssistant {
			continue
		}
		hasSources := false
		for i, p := range msg.Parts {
			switch p.(type) {
			case parley.ReasoningPart, parley.ToolCallPart:
				keys = append(keys, partKey(msg.ID, i))
			case parley.SourceURLPart:
				hasSources = true
			}
		}
		if hasSources {
			keys = append(keys, sourcesKey(msg.ID))
		}
	}
	return keys
}

// focusKey returns the focused collapsible key, or "".
func (m Model) focusKey() string {
	keys := m.collapsibleKeys()
	if m.focus < 0 || m.focus >= len(keys) {
		return ""
	}
	return keys[m.focus]
}

// updateFocus points focus at the newest collapsible block.
func (m Model) updateFocus() Model {
	m.focus = len(m.collapsibleKeys()) - 1
	return m
}

// cycleFocusPrev moves focus to the previous collapsible block, wrapping.
func (m Model) cycleFocusPrev() Model {
	n := len(m.collapsibleKeys())
	if n == 0 {
		m.focus = -1
		return m
	}
	if m.focus <= 0 {
		m.focus = n - 1
	} else {
		m.focus--
	}
	return m
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	switch m.ctrl.Status() {
	case parley.StatusSubmitted:
		return m.spin.View() + " " + m.styles.Muted.Render("Sending...")
	case parley.StatusStreaming:
		return m.spin.View() + " " + m.styles.Muted.Render("Streaming... (ctrl+c to cancel)")
	case parley.StatusError:
		return m.styles.Error.Render("Last turn failed; enter to try again")
	}

	web := "off"
	if m.composer.WebSearch() {
		web = "on"
	}
	return m.styles.Muted.Render(fmt.Sprintf(
		"enter send · ctrl+p model: %s · ctrl+o web: %s · ctrl+c quit",
		m.composer.Model().DisplayName, web))
}

func partKey(msgID string, idx int) string {
	return fmt.Sprintf("%s:%d", msgID, idx)
}

func sourcesKey(msgID string) string {
	return msgID + ":sources"
}
