package machines

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/workflow"
)

// SelectMsg asks to book the highlighted machine.
type SelectMsg struct {
	Machine models.Machine
}

// DetailsMsg asks to open the highlighted machine's details.
type DetailsMsg struct {
	Machine models.Machine
}

type Item struct {
	Machine models.Machine
}

func (i Item) Title() string {
	return fmt.Sprintf("%s (%s)", i.Machine.DisplayName(), i.Machine.DisplayType())
}

func (i Item) Description() string {
	price := workflow.FormatAmount(int64(i.Machine.PricePerHour)) + "/hr"
	if i.Machine.Availability != "" {
		return price + " · " + i.Machine.Availability
	}
	return price
}

func (i Item) FilterValue() string { return i.Machine.DisplayName() }

type KeyMap struct {
	Select   key.Binding
	Details  key.Binding
	Category key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "book"),
		),
		Details: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "details"),
		),
		Category: key.NewBinding(
			key.WithKeys("0", "1", "2", "3"),
			key.WithHelp("0-3", "category"),
		),
	}
}

type Model struct {
	list     list.Model
	keys     KeyMap
	all      []models.Machine
	category models.Category
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Select, keys.Details, keys.Category}
	}
	return Model{list: l, keys: keys}
}

// SetMachines replaces the catalogue and reapplies the category filter.
func (m *Model) SetMachines(machines []models.Machine) {
	m.all = machines
	m.apply()
}

// SetCategory filters the list; zero shows every machine.
func (m *Model) SetCategory(c models.Category) {
	m.category = c
	m.apply()
}

func (m Model) Category() models.Category { return m.category }

func (m *Model) apply() {
	shown := m.all
	if m.category != 0 {
		shown = models.MachinesByCategory(m.all, m.category)
	}
	items := make([]list.Item, len(shown))
	for i, mc := range shown {
		items[i] = Item{Machine: mc}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

func (m Model) Len() int { return len(m.list.Items()) }

func (m Model) Selected() (models.Machine, bool) {
	item, ok := m.list.SelectedItem().(Item)
	return item.Machine, ok
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			if mc, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SelectMsg{Machine: mc} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Details):
			if mc, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DetailsMsg{Machine: mc} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Category):
			if msg.String() == "0" {
				m.SetCategory(0)
			} else if c, err := models.ParseCategory(msg.String()); err == nil {
				m.SetCategory(c)
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Select, m.keys.Details, m.keys.Category}
}
