// Package teaui hosts the Bubble Tea program for the question form.
package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/rs/zerolog"

	"tableflip.dev/ask/pkg/form"
	"tableflip.dev/ask/pkg/logging"
	"tableflip.dev/ask/pkg/query"
	"tableflip.dev/ask/pkg/store"
	"tableflip.dev/ask/pkg/tui/components/eventlog"
	"tableflip.dev/ask/pkg/tui/components/help"
	"tableflip.dev/ask/pkg/tui/components/queryform"
	"tableflip.dev/ask/pkg/tui/events"
	"tableflip.dev/ask/pkg/tui/theme"
)

const helpText = "enter ask · pgup/pgdn scroll · ctrl+d events · f1 help · esc quit"

// Options configure the root model.
type Options struct {
	Messages form.Messages
	// Endpoint is shown in the footer.
	Endpoint string
}

type historyLoadedMsg struct {
	count int
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// Model composes the header, the query form, an optional event log and the
// footer.
type Model struct {
	ctx     context.Context
	cancel  context.CancelFunc
	history store.History
	log     zerolog.Logger

	form  *queryform.Model
	theme theme.Theme

	endpoint string

	width  int
	height int

	saved  int
	status string

	debugEnabled bool
	events       *eventlog.Model

	helpVisible bool
	help        *help.Model

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New creates the root model. Requests and the history watch are cancelled
// with ctx or when the user quits. A nil history records nothing.
func New(ctx context.Context, asker query.Asker, history store.History, opts Options) *Model {
	if history == nil {
		history = store.Discard{}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	th := theme.Default()
	ctx, cancel := context.WithCancel(ctx)

	m := &Model{
		ctx:      ctx,
		cancel:   cancel,
		history:  history,
		log:      logging.New("tui"),
		theme:    th,
		endpoint: opts.Endpoint,
		width:    80,
		height:   24,
	}
	m.form = queryform.New(asker, queryform.Options{
		ID:       events.ComponentID("query"),
		Messages: opts.Messages,
		Theme:    &th,
		Context:  ctx,
	})
	m.layout()
	return m
}

// Run launches the interactive program and blocks until it exits or ctx is
// done.
func Run(ctx context.Context, asker query.Asker, history store.History, opts Options) error {
	p := tea.NewProgram(New(ctx, asker, history, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.loadHistory(), startWatchCmd(m.ctx, m.history))
}

// Update routes Bubble Tea messages to the form and handles app-level events.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.noteEvent(msg)

	var cmds []tea.Cmd

	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.layout()
		return m, nil
	case tea.KeyPressMsg:
		if m.helpVisible {
			switch v.String() {
			case "f1", "esc":
				m.toggleHelp()
				return m, nil
			case "ctrl+c":
			default:
				_, cmd := m.help.Update(msg)
				return m, cmd
			}
		}
		switch v.String() {
		case "f1":
			m.toggleHelp()
			return m, nil
		case "ctrl+c", "esc":
			m.stopWatch()
			m.cancel()
			return m, tea.Quit
		case "ctrl+d":
			m.toggleDebug()
			return m, nil
		}
	case events.SubmitMsg:
		m.status = ""
		m.log.Debug().Str("query", v.Query).Msg("submitted")
		return m, nil
	case events.ExchangeMsg:
		return m, m.record(v.Result)
	case historyLoadedMsg:
		m.saved = v.count
		return m, nil
	case watchStartedMsg:
		if v.err != nil {
			m.log.Warn().Err(v.err).Msg("history watch unavailable")
			return m, nil
		}
		m.watchCh = v.ch
		m.watchCancel = v.cancel
		return m, m.waitForWatch()
	case watchEventMsg:
		return m, tea.Batch(m.loadHistory(), m.waitForWatch())
	case watchStoppedMsg:
		m.watchCh = nil
		return m, nil
	}

	if _, cmd := m.form.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// View renders the composed UI.
func (m *Model) View() (string, *tea.Cursor) {
	msgs := m.form.State().Messages()
	header := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Header.Title.Render(msgs.Title),
		m.theme.Header.Subtitle.Render(msgs.Subtitle),
		"",
	)
	body, cursor := m.form.View()
	if m.helpVisible && m.help != nil {
		body, cursor = m.help.View(), nil
	}
	if cursor != nil {
		cursor.Position.Y += lipgloss.Height(header)
	}

	parts := []string{header, body}
	if m.debugEnabled && m.events != nil {
		parts = append(parts, m.events.View())
	}
	parts = append(parts, m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, parts...), cursor
}

func (m *Model) footer() string {
	right := m.status
	if right == "" {
		right = m.endpoint
		if m.saved > 0 {
			right = fmt.Sprintf("%s · %d saved", right, m.saved)
		}
	}
	help := m.theme.Footer.Help.Render(helpText)
	gap := m.width - lipgloss.Width(help) - lipgloss.Width(right)
	if gap < 1 {
		return help
	}
	return help + strings.Repeat(" ", gap) + m.theme.Footer.Status.Render(right)
}

func (m *Model) layout() {
	if m.width <= 0 {
		m.width = 1
	}
	if m.height <= 0 {
		m.height = 1
	}
	// title, subtitle and spacer above; the footer below
	rows := max(1, m.height-4)
	debugRows := 0
	if m.debugEnabled {
		if m.events == nil {
			m.events = eventlog.New(400)
		}
		debugRows = debugHeight(rows)
		if debugRows > 0 {
			m.events.SetSize(m.width, debugRows)
		}
	}
	m.form.SetSize(m.width, rows-debugRows)
	if m.helpVisible {
		if m.help == nil {
			m.help = help.New(m.width, rows-debugRows)
		}
		m.help.SetSize(m.width, rows-debugRows)
	}
}

func (m *Model) toggleHelp() {
	m.helpVisible = !m.helpVisible
	if !m.helpVisible {
		m.help = nil
	}
	m.layout()
}

func debugHeight(rows int) int {
	if rows <= 16 {
		return 0
	}
	return min(max(rows/3, 5), 12)
}

func (m *Model) toggleDebug() {
	m.debugEnabled = !m.debugEnabled
	if m.debugEnabled {
		m.status = "Event log visible"
	} else {
		m.status = "Event log hidden"
		m.events = nil
	}
	m.layout()
}

func (m *Model) record(result form.Result) tea.Cmd {
	x := store.NewExchange(result)
	if err := m.history.Record(x); err != nil {
		m.status = "History unavailable: " + err.Error()
		m.log.Error().Err(err).Msg("record exchange")
		return nil
	}
	m.log.Info().
		Str("id", x.ID).
		Stringer("kind", x.Kind).
		Int("status", x.Status).
		Dur("elapsed", result.Settled.Sub(result.Asked)).
		Msg("exchange settled")
	return m.loadHistory()
}

func (m *Model) loadHistory() tea.Cmd {
	history, ctx := m.history, m.ctx
	return func() tea.Msg {
		return historyLoadedMsg{count: len(history.List(ctx))}
	}
}

func startWatchCmd(parent context.Context, history store.History) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := history.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func (m *Model) noteEvent(msg tea.Msg) {
	detail, source, level := describeMsg(msg)
	if detail == "" {
		return
	}
	if _, ok := msg.(tea.KeyPressMsg); !ok {
		m.log.Debug().Str("source", source).Msg(detail)
	}
	if m.events == nil {
		return
	}
	m.events.Append(eventlog.Entry{
		Timestamp: time.Now(),
		Source:    source,
		Summary:   fmt.Sprintf("%T", msg),
		Detail:    detail,
		Level:     level,
	})
}

func describeMsg(msg tea.Msg) (string, string, eventlog.Level) {
	switch v := msg.(type) {
	case events.SubmitMsg:
		return v.Describe(), string(v.Component), eventlog.LevelInfo
	case events.SettleMsg:
		return v.Describe(), string(v.Component), eventlog.LevelFor(v.Outcome.Kind)
	case events.ExchangeMsg:
		return v.Describe(), string(v.Component), eventlog.LevelFor(v.Result.Outcome.Kind)
	case watchEventMsg:
		return fmt.Sprintf("history changed day:%s", v.event.Day), "store", eventlog.LevelInfo
	case tea.KeyPressMsg:
		return fmt.Sprintf("key=%q", v.String()), "tea", eventlog.LevelInfo
	case tea.WindowSizeMsg:
		return fmt.Sprintf("size=%dx%d", v.Width, v.Height), "tea", eventlog.LevelInfo
	default:
		return "", "", eventlog.LevelInfo
	}
}
