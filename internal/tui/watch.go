package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/eathmover/internal/api"
	"github.com/julianstephens/eathmover/internal/errors"
	"github.com/julianstephens/eathmover/internal/models"
	"github.com/julianstephens/eathmover/internal/poller"
	"github.com/julianstephens/eathmover/internal/session"
	"github.com/julianstephens/eathmover/internal/tui/components/bookings"
	"github.com/julianstephens/eathmover/internal/workflow"
)

var lastWatcherID int64

type refreshMsg struct {
	watcher  int
	bookings []models.Booking
	changes  []poller.Change
}

type refreshErrMsg struct {
	watcher int
	err     error
}

// watcher bridges a cron driven poller into the bubbletea event loop. Only
// the latest unread refresh is kept, so a slow UI never blocks the poller.
type watcher struct {
	id      int
	poller  *poller.Poller
	updates chan tea.Msg
	done    chan struct{}
}

func newWatcher(fetch poller.FetchFunc, interval, fast time.Duration) *watcher {
	w := &watcher{
		id:      int(atomic.AddInt64(&lastWatcherID, 1)),
		updates: make(chan tea.Msg, 1),
		done:    make(chan struct{}),
	}
	w.poller = poller.New(fetch, poller.Options{
		Interval:     interval,
		FastInterval: fast,
		OnRefresh: func(bookings []models.Booking, changes []poller.Change) {
			w.push(refreshMsg{watcher: w.id, bookings: bookings, changes: changes})
		},
		OnError: func(err error) {
			w.push(refreshErrMsg{watcher: w.id, err: err})
		},
	})
	return w
}

func (w *watcher) push(msg tea.Msg) {
	for {
		select {
		case <-w.done:
			return
		case w.updates <- msg:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}

func (w *watcher) start(ctx context.Context) tea.Cmd {
	id := w.id
	startCmd := func() tea.Msg {
		if err := w.poller.Start(ctx); err != nil {
			return refreshErrMsg{watcher: id, err: err}
		}
		return nil
	}
	return tea.Batch(startCmd, w.next())
}

// next waits for the following refresh. It returns nil once stopped.
func (w *watcher) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.updates:
			return msg
		case <-w.done:
			return nil
		}
	}
}

// adjust switches to the fast interval while any booking is still pending.
func (w *watcher) adjust(bookings []models.Booking) {
	w.poller.SetFast(models.CountBookings(bookings).Pending > 0)
}

func (w *watcher) stop() {
	select {
	case <-w.done:
		return
	default:
	}
	close(w.done)
	w.poller.Stop()
}

func changeText(c poller.Change) (title, text string) {
	title = fmt.Sprintf("Booking #%s", c.BookingID)
	if c.New() {
		return title, fmt.Sprintf("New booking (%s)", c.To)
	}
	return title, fmt.Sprintf("%s → %s", c.From, c.To)
}

// UserBookings fetches the signed-in user's bookings.
func UserBookings(gw api.Gateway, s *session.Session) poller.FetchFunc {
	return func(ctx context.Context) ([]models.Booking, error) {
		if s == nil {
			return nil, errors.Validation(workflow.MsgLoginRequired)
		}
		user, err := s.Require(models.RoleUser)
		if err != nil {
			return nil, errors.Validation(workflow.MsgLoginRequired)
		}
		return gw.GetUserBookings(ctx, user.ID)
	}
}

// WatchModel is a standalone live view of the user's bookings.
type WatchModel struct {
	ctx      context.Context
	watch    *watcher
	bookings bookings.Model
	help     help.Model
	keys     KeyMap
	notify   NotifyFunc
	updated  time.Time
	notice   string
	err      string
}

func NewWatchModel(ctx context.Context, fetch poller.FetchFunc, interval, fast time.Duration, notify NotifyFunc) WatchModel {
	if notify == nil {
		notify = func(context.Context, string, string) {}
	}
	keys := DefaultKeyMap()
	b := bookings.New(80, 16)
	keys.extra = b.ShortHelp()[1:]
	return WatchModel{
		ctx:      ctx,
		watch:    newWatcher(fetch, interval, fast),
		bookings: b,
		help:     help.New(),
		keys:     keys,
		notify:   notify,
	}
}

func (m WatchModel) Init() tea.Cmd {
	return m.watch.start(m.ctx)
}

func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.help.Width = msg.Width - h
		m.bookings.SetSize(msg.Width-h, msg.Height-v-4)
		return m, nil
	case refreshMsg:
		if msg.watcher != m.watch.id {
			return m, nil
		}
		m.err = ""
		m.updated = time.Now()
		m.bookings.SetBookings(msg.bookings)
		m.watch.adjust(msg.bookings)
		for _, c := range msg.changes {
			title, text := changeText(c)
			m.notice = title + ": " + text
			if !c.New() {
				m.notify(m.ctx, title, text)
			}
		}
		return m, m.watch.next()
	case refreshErrMsg:
		if msg.watcher != m.watch.id {
			return m, nil
		}
		m.err = errors.UserMessage(msg.err)
		return m, m.watch.next()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Back) {
			m.watch.stop()
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		var cmd tea.Cmd
		m.bookings, cmd = m.bookings.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m WatchModel) View() string {
	header := titleStyle.Render("My bookings")
	if !m.updated.IsZero() {
		header += warningStyle.Render("  updated " + m.updated.Format("15:04:05") + " · every " + m.watch.poller.Interval().String())
	}
	parts := []string{header, m.bookings.View()}
	if m.notice != "" {
		parts = append(parts, noticeStyle.Render(m.notice))
	}
	if m.err != "" {
		parts = append(parts, dangerStyle.Render(m.err))
	}
	parts = append(parts, m.help.View(m.keys))
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
