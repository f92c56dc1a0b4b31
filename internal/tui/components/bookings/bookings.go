package bookings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/workflow"
)

var (
	activeFilterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Bold(true)

	inactiveFilterStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)
)

var filters = []models.BookingFilter{models.FilterAll, models.FilterPending, models.FilterActive}

// TrackMsg asks to track the highlighted booking.
type TrackMsg struct {
	Booking models.Booking
}

type Item struct {
	Booking models.Booking
}

func (i Item) Title() string {
	b := i.Booking
	name := b.MachineModel
	if name == "" {
		name = b.MachineType
	}
	return fmt.Sprintf("#%s %s [%s]", b.BookingID, name, strings.ToUpper(string(b.Status)))
}

func (i Item) Description() string {
	b := i.Booking
	parts := []string{strings.TrimSpace(b.BookingDate + " " + b.StartTime)}
	if b.Location != "" {
		parts = append(parts, b.Location)
	}
	if b.TotalAmount > 0 {
		parts = append(parts, workflow.FormatAmount(int64(b.TotalAmount)))
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string { return i.Booking.BookingID.String() }

type KeyMap struct {
	Track      key.Binding
	NextFilter key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Track: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "track"),
		),
		NextFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
	}
}

// Model lists bookings under ALL / PENDING / ACTIVE tabs with counts.
type Model struct {
	list   list.Model
	keys   KeyMap
	all    []models.Booking
	filter int
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	return Model{list: l, keys: DefaultKeyMap()}
}

func (m *Model) SetBookings(bookings []models.Booking) {
	m.all = bookings
	m.apply()
}

func (m Model) Filter() models.BookingFilter { return filters[m.filter] }

func (m *Model) SetFilter(f models.BookingFilter) {
	for i, candidate := range filters {
		if candidate == f {
			m.filter = i
			m.apply()
			return
		}
	}
}

func (m *Model) apply() {
	shown := models.FilterBookings(m.all, filters[m.filter])
	items := make([]list.Item, len(shown))
	for i, b := range shown {
		items[i] = Item{Booking: b}
	}
	m.list.SetItems(items)
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Track):
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return TrackMsg{Booking: item.Booking} }
			}
			return m, nil
		case key.Matches(msg, m.keys.NextFilter):
			m.filter = (m.filter + 1) % len(filters)
			m.apply()
			m.list.ResetSelected()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) tabs() string {
	counts := models.CountBookings(m.all)
	labels := []string{
		fmt.Sprintf("ALL (%d)", counts.All),
		fmt.Sprintf("PENDING (%d)", counts.Pending),
		fmt.Sprintf("ACTIVE (%d)", counts.Active),
	}
	var rendered []string
	for i, l := range labels {
		if i == m.filter {
			rendered = append(rendered, activeFilterStyle.Render(l))
		} else {
			rendered = append(rendered, inactiveFilterStyle.Render(l))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.tabs(), m.list.View())
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height-1)
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Track, m.keys.NextFilter}
}
