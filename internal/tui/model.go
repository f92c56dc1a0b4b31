package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/navigation"
	"github.com/julianstephens/eathmover/internal/session"
	"github.com/julianstephens/eathmover/internal/tui/components/bookings"
	"github.com/julianstephens/eathmover/internal/tui/components/countdown"
	"github.com/julianstephens/eathmover/internal/tui/components/machines"
	"github.com/julianstephens/eathmover/internal/workflow"
)

// NotifyFunc delivers a desktop notification. Failures are the callee's concern.
type NotifyFunc func(ctx context.Context, title, text string)

type Options struct {
	Flow      *workflow.Flow
	Gateway   api.Gateway
	Session   *session.Session
	Notify    NotifyFunc
	Locations []models.SavedLocation

	PollInterval     time.Duration
	FastPollInterval time.Duration
	// DefaultWork is the work timer length when the booking carries no duration.
	DefaultWork time.Duration
	Now         func() time.Time
}

// Model is the booking flow TUI. The workflow is only touched from Update
// or from a single in-flight command; while busy, Update ignores input and
// View renders the cached screen and context.
type Model struct {
	ctx  context.Context
	opts Options
	flow *workflow.Flow

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int

	screen navigation.Screen
	bc     models.BookingContext
	busy   bool
	notice string
	err    string

	machines machines.Model
	bookings bookings.Model
	watch    *watcher
	detail   *models.Machine
	tracked  *models.Booking

	form      *huh.Form
	formKind  formKind
	selection selectionFields
	payment   paymentFields
	rating    ratingFields

	arrival   countdown.Model
	work      countdown.Model
	breakdown *workflow.Breakdown

	quitting bool
}

func NewModel(ctx context.Context, opts Options) Model {
	if opts.Notify == nil {
		opts.Notify = func(context.Context, string, string) {}
	}
	if opts.DefaultWork <= 0 {
		opts.DefaultWork = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := Model{
		ctx:      ctx,
		opts:     opts,
		flow:     opts.Flow,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  s,
		machines: machines.New(80, 16),
		bookings: bookings.New(80, 16),
		arrival:  countdown.New("Operator arriving in"),
		work:     countdown.New("Work in progress"),
	}
	m.sync()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// sync refreshes the cached screen and context from the workflow.
func (m *Model) sync() {
	m.screen = m.flow.Screen()
	m.bc = m.flow.Context()
	m.keys.screen = m.screenKeys()
	m.keys.extra = nil
	switch m.screen {
	case navigation.ScreenMachineSelection:
		m.keys.extra = m.machines.ShortHelp()
	case navigation.ScreenUserBookings, navigation.ScreenHistory:
		m.keys.extra = m.bookings.ShortHelp()
	}
}

func (m Model) screenKeys() []key.Binding {
	switch m.screen {
	case navigation.ScreenHome:
		return []key.Binding{m.keys.Book, m.keys.History}
	case navigation.ScreenMachineDetails, navigation.ScreenOperatorFound,
		navigation.ScreenWorkSummary, navigation.ScreenFinalPriceBreakdown:
		return []key.Binding{m.keys.Confirm}
	case navigation.ScreenBookingConfirmation:
		return []key.Binding{m.keys.Track, m.keys.Bookings, m.keys.Home}
	case navigation.ScreenLiveTracking:
		return []key.Binding{m.keys.Arrived}
	case navigation.ScreenOperatorArrival:
		return []key.Binding{m.keys.Toggle, m.keys.Work, m.keys.Confirm}
	case navigation.ScreenWorkTimer:
		return []key.Binding{m.keys.Toggle, m.keys.Finish}
	case navigation.ScreenPaymentSuccessful:
		return []key.Binding{m.keys.Rate, m.keys.Home}
	}
	return nil
}
