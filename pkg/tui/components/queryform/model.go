// Package queryform renders the question form: a scrolling response panel
// above a single-line input and its submit button.
package queryform

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/tui/events"
	"tableflip.dev/ask/pkg/tui/theme"
)

// Options configure a form component.
type Options struct {
	ID       events.ComponentID
	Messages form.Messages
	Theme    *theme.Theme
	// Context bounds the requests issued by the form. Defaults to
	// context.Background.
	Context context.Context
	Now     func() time.Time
}

type tone int

const (
	toneStatus tone = iota
	toneAnswer
	toneError
)

// Model is the Bubble Tea component around a form.State.
type Model struct {
	id    events.ComponentID
	asker query.Asker
	ctx   context.Context
	now   func() time.Time
	theme theme.Theme

	state   form.State
	tone    tone
	pending string
	asked   time.Time
	last    *form.Result

	input    textinput.Model
	viewport viewport.Model

	width  int
	height int
}

// New constructs an Idle form that sends its requests through asker.
func New(asker query.Asker, opts Options) *Model {
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	id := opts.ID
	if id == "" {
		id = events.ComponentID("queryform")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	state := form.New(opts.Messages)

	in := textinput.New()
	in.Placeholder = state.Messages().Placeholder
	in.Prompt = ""

	vp := viewport.New(viewport.WithWidth(1), viewport.WithHeight(1))
	vp.MouseWheelEnabled = true

	m := &Model{
		id:       id,
		asker:    asker,
		ctx:      ctx,
		now:      now,
		theme:    th,
		state:    state,
		input:    in,
		viewport: vp,
	}
	m.SetSize(80, 24)
	return m
}

// ID returns the identifier used in emitted events.
func (m *Model) ID() events.ComponentID { return m.id }

// State returns the current form state.
func (m *Model) State() form.State { return m.state }

// LastResult returns the most recently settled submission, if any.
func (m *Model) LastResult() (form.Result, bool) {
	if m.last == nil {
		return form.Result{}, false
	}
	return *m.last, true
}

// SetInput replaces the input text as if the user had typed it. Ignored
// while a request is pending.
func (m *Model) SetInput(text string) {
	if m.state.Disabled() {
		return
	}
	m.input.SetValue(text)
	m.state = m.state.ChangeInput(m.input.Value())
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

// Update processes Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case events.SettleMsg:
		if msg.Component != m.id {
			return m, nil
		}
		return m, m.settle(msg.Outcome)
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.state.Disabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state = m.state.ChangeInput(m.input.Value())
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.submit()
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	if m.state.Disabled() {
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.state = m.state.ChangeInput(m.input.Value())
	return cmd
}

func (m *Model) submit() tea.Cmd {
	next, req, ok := m.state.Submit()
	if !ok {
		return nil
	}
	m.state = next
	m.tone = toneStatus
	m.pending = req.Query
	m.asked = m.now()
	m.input.Blur()
	m.refresh()

	asker, ctx, id := m.asker, m.ctx, m.id
	ask := func() tea.Msg {
		return events.SettleMsg{Component: id, Outcome: asker.Ask(ctx, req)}
	}
	return tea.Batch(ask, events.SubmitCmd(id, req.Query))
}

func (m *Model) settle(o query.Outcome) tea.Cmd {
	if !m.state.Pending() {
		return nil
	}
	m.state = m.state.Settle(o)
	if o.Kind == query.Answered {
		m.tone = toneAnswer
	} else {
		m.tone = toneError
	}
	m.input.SetValue("")
	m.refresh()

	result := form.Result{
		Query:   m.pending,
		State:   m.state,
		Outcome: o,
		Asked:   m.asked,
		Settled: m.now(),
	}
	m.last = &result
	m.pending = ""
	return tea.Batch(m.input.Focus(), events.ExchangeCmd(m.id, result))
}

// SetSize configures the component dimensions.
func (m *Model) SetSize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.width = width
	m.height = height

	f := m.theme.Form
	contentWidth := max(width-f.Frame.GetHorizontalFrameSize(), 20)
	panelWidth := max(contentWidth-f.ResponseFrame.GetHorizontalFrameSize(), 10)
	// response label and spacer, then the input line inside its border
	fixed := f.Frame.GetVerticalFrameSize() + f.ResponseFrame.GetVerticalFrameSize() + 2 + 1 + f.Input.GetVerticalFrameSize()
	m.viewport.SetWidth(panelWidth)
	m.viewport.SetHeight(max(height-fixed, 3))

	inputWidth := contentWidth - m.buttonWidth() - 1 - f.Input.GetHorizontalFrameSize()
	m.input.SetWidth(max(inputWidth, 8))
	m.refresh()
}

func (m *Model) buttonWidth() int {
	msgs := m.state.Messages()
	label := max(lipgloss.Width(msgs.SubmitLabel), lipgloss.Width(msgs.PendingLabel))
	return label + m.theme.Form.Button.GetHorizontalFrameSize()
}

func (m *Model) refresh() {
	text := wordwrap.String(m.state.Display, m.viewport.Width())
	var style lipgloss.Style
	switch m.tone {
	case toneAnswer:
		style = m.theme.Form.Response
	case toneError:
		style = m.theme.Form.Error
	default:
		style = m.theme.Form.Status
	}
	m.viewport.SetContent(style.Render(text))
	m.viewport.GotoTop()
}

// View renders the panel and input row.
func (m *Model) View() (string, *tea.Cursor) {
	f := m.theme.Form

	panel := f.ResponseFrame.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			f.ResponseLabel.Render(m.state.Messages().ResponseLabel),
			m.viewport.View(),
		),
	)

	inputStyle, buttonStyle := f.Input, f.Button
	if m.state.Disabled() {
		inputStyle, buttonStyle = f.InputDisabled, f.ButtonDisabled
	}
	inputBox := inputStyle.Render(m.input.View())
	label := lipgloss.PlaceHorizontal(m.buttonWidth()-buttonStyle.GetHorizontalFrameSize(), lipgloss.Center, m.state.SubmitLabel())
	row := lipgloss.JoinHorizontal(lipgloss.Center, inputBox, " ", buttonStyle.Render(label))

	rowIndex := lipgloss.Height(panel) + 1
	body := lipgloss.JoinVertical(lipgloss.Left, panel, "", row)

	var cursor *tea.Cursor
	if c := m.input.Cursor(); c != nil && !m.state.Disabled() {
		clone := *c
		clone.Position.X += inputStyle.GetBorderLeftSize() + inputStyle.GetPaddingLeft()
		clone.Position.Y += rowIndex + inputStyle.GetBorderTopSize()
		clone.Position.X += f.Frame.GetBorderLeftSize() + f.Frame.GetPaddingLeft()
		clone.Position.Y += f.Frame.GetBorderTopSize() + f.Frame.GetPaddingTop()
		cursor = &clone
	}

	return f.Frame.Render(body), cursor
}
