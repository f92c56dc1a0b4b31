package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eathmover/internal/timer"
	"github.com/julianstephens/eathmover/internal/tui/components/countdown"
)

// TimerModel runs a single countdown full screen, as `timer arrival` and
// `timer work` do.
type TimerModel struct {
	ctx      context.Context
	clock    countdown.Model
	duration time.Duration
	keys     KeyMap
	help     help.Model
	notify   NotifyFunc
	err      string
	width    int
	done     bool
}

func NewTimerModel(ctx context.Context, title string, d time.Duration, notify NotifyFunc) TimerModel {
	if notify == nil {
		notify = func(context.Context, string, string) {}
	}
	keys := DefaultKeyMap()
	keys.screen = []key.Binding{keys.Toggle, keys.Quit}
	return TimerModel{
		ctx:      ctx,
		clock:    countdown.New(title),
		duration: d,
		keys:     keys,
		help:     help.New(),
		notify:   notify,
	}
}

func (m *TimerModel) Init() tea.Cmd {
	cmd, err := m.clock.Start(m.duration)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	return cmd
}

// Elapsed is how long the countdown has run.
func (m TimerModel) Elapsed() time.Duration { return m.clock.Elapsed() }

// Finished reports whether the countdown ran to zero.
func (m TimerModel) Finished() bool { return m.done }

func (m *TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case countdown.FinishedMsg:
		if msg.ID != m.clock.ID() {
			return m, nil
		}
		m.done = true
		m.notify(m.ctx, m.clock.Title, timer.MsgFinished)
		return m, nil
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			return m, m.clock.Toggle()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.clock, cmd = m.clock.Update(msg)
	return m, cmd
}

func (m *TimerModel) View() string {
	parts := []string{m.clock.View()}
	if m.err != "" {
		parts = append(parts, dangerStyle.Render(m.err))
	}
	parts = append(parts, "", m.help.View(m.keys))
	body := lipgloss.JoinVertical(lipgloss.Center, parts...)
	if m.width > 0 {
		body = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body)
	}
	return docStyle.Render(body)
}
