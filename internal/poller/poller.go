// Package poller refreshes booking lists on a fixed schedule and reports
// status changes between refreshes.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/logger"
	"github.com/julianstephens/eathmover/internal/models"
)

var ErrAlreadyRunning = errors.New("poller already running")

// FetchFunc loads the current booking list.
type FetchFunc func(ctx context.Context) ([]models.Booking, error)

// Change is one booking whose status differs from the previous refresh.
type Change struct {
	BookingID string
	From      models.BookingStatus
	To        models.BookingStatus
	Booking   models.Booking
}

// New reports a booking seen for the first time.
func (c Change) New() bool { return c.From == "" }

type Options struct {
	Interval     time.Duration
	FastInterval time.Duration
	// OnRefresh receives every successful fetch with the changes it produced.
	OnRefresh func(bookings []models.Booking, changes []Change)
	OnError   func(err error)
}

// Poller runs fetch on a cron schedule. Refreshes never overlap; a refresh
// that is still running when the next one is due is skipped.
type Poller struct {
	fetch FetchFunc
	opts  Options

	mu       sync.Mutex
	cron     *cron.Cron
	entry    cron.EntryID
	fast     bool
	ctx      context.Context
	cancel   context.CancelFunc
	last     map[string]models.BookingStatus
	lastSeen bool
}

func New(fetch FetchFunc, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = constants.DefaultPollInterval
	}
	if opts.FastInterval <= 0 {
		opts.FastInterval = constants.FastPollInterval
	}
	return &Poller{fetch: fetch, opts: opts}
}

// Start performs one refresh immediately and then schedules the rest.
func (p *Poller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.cron != nil {
		p.mu.Unlock()
		return ErrAlreadyRunning
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{})))
	p.entry = p.cron.Schedule(cron.Every(p.intervalLocked()), cron.FuncJob(p.tick))
	c := p.cron
	p.mu.Unlock()

	p.tick()
	c.Start()
	logger.Debug("Poller started", "interval", p.Interval())
	return nil
}

// Stop cancels any in-flight refresh and waits for it to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	c, cancel := p.cron, p.cancel
	p.cron, p.cancel = nil, nil
	p.mu.Unlock()

	if c == nil {
		return
	}
	cancel()
	<-c.Stop().Done()
	logger.Debug("Poller stopped")
}

// SetFast switches between the normal and fast interval.
func (p *Poller) SetFast(fast bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fast == fast {
		return
	}
	p.fast = fast
	if p.cron != nil {
		p.cron.Remove(p.entry)
		p.entry = p.cron.Schedule(cron.Every(p.intervalLocked()), cron.FuncJob(p.tick))
	}
}

func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.intervalLocked()
}

func (p *Poller) intervalLocked() time.Duration {
	if p.fast {
		return p.opts.FastInterval
	}
	return p.opts.Interval
}

func (p *Poller) tick() {
	p.mu.Lock()
	ctx := p.ctx
	p.mu.Unlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}

	bookings, changes, err := p.Poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Warn("Booking refresh failed", "error", err)
		if p.opts.OnError != nil {
			p.opts.OnError(err)
		}
		return
	}
	if p.opts.OnRefresh != nil {
		p.opts.OnRefresh(bookings, changes)
	}
}

// Poll runs a single refresh and returns the changes since the previous
// one. The first refresh establishes the baseline and reports no changes.
func (p *Poller) Poll(ctx context.Context) ([]models.Booking, []Change, error) {
	bookings, err := p.fetch(ctx)
	if err != nil {
		return nil, nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	var changes []Change
	if p.lastSeen {
		changes = Diff(p.last, bookings)
	}
	p.last = snapshot(bookings)
	p.lastSeen = true
	return bookings, changes, nil
}

func snapshot(bookings []models.Booking) map[string]models.BookingStatus {
	m := make(map[string]models.BookingStatus, len(bookings))
	for _, b := range bookings {
		m[b.BookingID.String()] = b.Status
	}
	return m
}

// Diff lists bookings in cur that are new or whose status changed relative
// to prev. Status comparison ignores case.
func Diff(prev map[string]models.BookingStatus, cur []models.Booking) []Change {
	var out []Change
	for _, b := range cur {
		id := b.BookingID.String()
		if id == "" {
			continue
		}
		old, ok := prev[id]
		if ok && old.Is(b.Status) {
			continue
		}
		out = append(out, Change{BookingID: id, From: old, To: b.Status, Booking: b})
	}
	return out
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
