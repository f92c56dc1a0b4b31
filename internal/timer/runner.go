package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/logger"
)

// ErrCancelled is returned by Handle.Start after the loop has exited.
var ErrCancelled = errors.New("countdown cancelled")

// Event is delivered to the owner of a running countdown.
type Event struct {
	Snapshot Snapshot
	Display  string
	Finished bool
}

// Ticker abstracts time.Ticker so tests can drive the runner by hand.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// NewTicker is the default ticker factory.
func NewTicker(d time.Duration) Ticker {
	return realTicker{t: time.NewTicker(d)}
}

type Options struct {
	Interval time.Duration
	// NewTicker overrides the ticker factory.
	NewTicker func(time.Duration) Ticker
	// OnFinish runs on the loop goroutine when the countdown reaches zero.
	OnFinish func(Snapshot)
}

type commandKind int

const (
	cmdStart commandKind = iota
	cmdPause
	cmdResume
	cmdStop
	cmdSnapshot
)

type command struct {
	kind  commandKind
	d     time.Duration
	reply chan reply
}

type reply struct {
	snap Snapshot
	err  error
}

// Handle controls a countdown loop started by Run. All methods are safe to
// call from any goroutine. After Cancel returns, Events is closed and no
// further event is delivered.
type Handle struct {
	cmds   chan command
	events chan Event
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Run starts the loop that owns engine. The loop exits when ctx is done or
// Cancel is called.
func Run(ctx context.Context, engine *Engine, opts Options) *Handle {
	if opts.Interval <= 0 {
		opts.Interval = constants.TickInterval
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTicker
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cmds:   make(chan command),
		events: make(chan Event, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go h.loop(ctx, engine, opts)
	return h
}

// Events delivers countdown updates. Intermediate ticks may be coalesced
// when the reader falls behind; the finishing event is never dropped.
func (h *Handle) Events() <-chan Event {
	return h.events
}

func (h *Handle) Start(d time.Duration) error { return h.send(cmdStart, d).err }
func (h *Handle) Pause()                      { h.send(cmdPause, 0) }
func (h *Handle) Resume()                     { h.send(cmdResume, 0) }
func (h *Handle) Stop()                       { h.send(cmdStop, 0) }

func (h *Handle) Snapshot() Snapshot { return h.send(cmdSnapshot, 0).snap }

// Cancel stops the loop and waits for it to exit. Safe to call repeatedly.
func (h *Handle) Cancel() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the loop has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) send(kind commandKind, d time.Duration) reply {
	c := command{kind: kind, d: d, reply: make(chan reply, 1)}
	select {
	case h.cmds <- c:
		return <-c.reply
	case <-h.done:
		return reply{err: ErrCancelled}
	}
}

func (h *Handle) loop(ctx context.Context, engine *Engine, opts Options) {
	var ticker Ticker
	stopTicker := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
		}
	}
	defer func() {
		stopTicker()
		// drop anything undelivered so nothing is observed after Cancel
		select {
		case <-h.events:
		default:
		}
		close(h.events)
		close(h.done)
	}()

	for {
		var tickC <-chan time.Time
		if ticker != nil {
			tickC = ticker.C()
		}

		select {
		case <-ctx.Done():
			return

		case c := <-h.cmds:
			before := engine.Snapshot()
			var err error
			switch c.kind {
			case cmdStart:
				err = engine.Start(c.d)
			case cmdPause:
				engine.Pause()
			case cmdResume:
				engine.Resume()
			case cmdStop:
				engine.Stop()
			}

			if engine.Status() == StatusRunning {
				if ticker == nil {
					ticker = opts.NewTicker(opts.Interval)
				}
			} else {
				stopTicker()
			}

			snap := engine.Snapshot()
			c.reply <- reply{snap: snap, err: err}
			if snap != before {
				h.emit(Event{Snapshot: snap, Display: snap.Display()})
			}

		case <-tickC:
			finished := engine.Tick()
			snap := engine.Snapshot()
			if !finished {
				h.emit(Event{Snapshot: snap, Display: snap.Display()})
				continue
			}
			stopTicker()
			logger.Debug("Countdown finished", "total", snap.Total)
			if opts.OnFinish != nil {
				opts.OnFinish(snap)
			}
			h.emitFinal(ctx, Event{Snapshot: snap, Display: snap.Display(), Finished: true})
		}
	}
}

// emit replaces any undelivered event with ev so the loop never blocks on
// a slow reader. A pending finish event is kept and ev is dropped instead.
func (h *Handle) emit(ev Event) {
	select {
	case h.events <- ev:
		return
	default:
	}
	select {
	case old := <-h.events:
		if old.Finished {
			ev = old
		}
	default:
	}
	select {
	case h.events <- ev:
	default:
	}
}

// emitFinal replaces any pending tick with ev and waits until it is
// delivered or the loop is cancelled.
func (h *Handle) emitFinal(ctx context.Context, ev Event) {
	select {
	case <-h.events:
	default:
	}
	select {
	case h.events <- ev:
	case <-ctx.Done():
	}
}
