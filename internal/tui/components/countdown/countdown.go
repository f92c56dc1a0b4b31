package countdown

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/timer"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 2)

	clockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(1, 4).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Align(lipgloss.Center)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	finishedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg advances the countdown it was issued for. Ticks carrying a stale
// generation are dropped, so at most one tick chain is live per countdown.
type TickMsg struct {
	ID   int
	Gen  int
	Time time.Time
}

// FinishedMsg is emitted once when a countdown reaches zero.
type FinishedMsg struct {
	ID int
}

type Model struct {
	Title    string
	id       int
	gen      int
	interval time.Duration
	engine   *timer.Engine
}

func New(title string) Model {
	return Model{
		Title:    title,
		id:       nextID(),
		interval: constants.TickInterval,
		engine:   timer.NewEngine(),
	}
}

func (m Model) ID() int { return m.id }

func (m Model) tick() tea.Cmd {
	id, gen := m.id, m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Gen: gen, Time: t}
	})
}

// Start begins counting down d. Starting while running changes nothing.
func (m *Model) Start(d time.Duration) (tea.Cmd, error) {
	wasRunning := m.engine.Status() == timer.StatusRunning
	if err := m.engine.Start(d); err != nil {
		return nil, err
	}
	if wasRunning {
		return nil, nil
	}
	m.gen++
	return m.tick(), nil
}

// Toggle pauses a running countdown or resumes a paused one.
func (m *Model) Toggle() tea.Cmd {
	switch m.engine.Status() {
	case timer.StatusRunning:
		m.engine.Pause()
		m.gen++
	case timer.StatusPaused:
		m.engine.Resume()
		m.gen++
		return m.tick()
	}
	return nil
}

// Stop resets the countdown and invalidates any pending tick.
func (m *Model) Stop() {
	m.engine.Stop()
	m.gen++
}

func (m Model) Snapshot() timer.Snapshot { return m.engine.Snapshot() }

// Elapsed is how much of the countdown has run.
func (m Model) Elapsed() time.Duration {
	s := m.engine.Snapshot()
	return s.Total - s.Remaining
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	t, ok := msg.(TickMsg)
	if !ok || t.ID != m.id || t.Gen != m.gen || m.engine.Status() != timer.StatusRunning {
		return m, nil
	}
	if m.engine.Tick() {
		id := m.id
		return m, func() tea.Msg { return FinishedMsg{ID: id} }
	}
	return m, m.tick()
}

func (m Model) View() string {
	s := m.engine.Snapshot()
	var status string
	switch s.Status {
	case timer.StatusFinished:
		status = finishedStyle.Render(timer.MsgFinished)
	case timer.StatusPaused:
		status = statusStyle.Render("paused")
	case timer.StatusIdle:
		status = statusStyle.Render("not started")
	default:
		status = statusStyle.Render("running")
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render(m.Title),
		clockStyle.Render(s.Display()),
		status,
	)
}
