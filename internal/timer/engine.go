package timer

import (
	"time"

	"github.com/julianstephens/eathmover/internal/constants"
	"github.com/julianstephens/eathmover/internal/errors"
)

type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
)

// MsgNoTime is shown when a countdown is started without a duration.
const MsgNoTime = "Please set a time"

// MsgFinished is shown when a countdown reaches zero.
const MsgFinished = "Timer finished!"

// Snapshot is a point-in-time view of an Engine.
type Snapshot struct {
	Total     time.Duration
	Remaining time.Duration
	Status    Status
}

// Display renders Remaining as HH:MM:SS.
func (s Snapshot) Display() string {
	return Format(s.Remaining)
}

// Engine is a countdown state machine advanced by explicit Tick calls. It
// owns no goroutines and is not safe for concurrent use; Run wraps it in a
// single owning goroutine.
type Engine struct {
	total     time.Duration
	remaining time.Duration
	status    Status
	step      time.Duration
}

func NewEngine() *Engine {
	return &Engine{status: StatusIdle, step: constants.TickInterval}
}

// Start begins a countdown of d. It is a no-op while running, resumes
// while paused, and rejects d <= 0.
func (e *Engine) Start(d time.Duration) error {
	switch e.status {
	case StatusRunning:
		return nil
	case StatusPaused:
		e.status = StatusRunning
		return nil
	}
	if d <= 0 {
		return errors.Validation(MsgNoTime)
	}
	e.total = d
	e.remaining = d
	e.status = StatusRunning
	return nil
}

// Pause suspends a running countdown. No-op otherwise.
func (e *Engine) Pause() {
	if e.status == StatusRunning {
		e.status = StatusPaused
	}
}

// Resume continues a paused countdown. No-op otherwise.
func (e *Engine) Resume() {
	if e.status == StatusPaused {
		e.status = StatusRunning
	}
}

// Stop returns to idle and resets the display to the full duration.
func (e *Engine) Stop() {
	e.status = StatusIdle
	e.remaining = e.total
}

// Tick advances a running countdown by one step. It reports true exactly
// once, on the tick that reaches zero.
func (e *Engine) Tick() (finished bool) {
	if e.status != StatusRunning {
		return false
	}
	e.remaining -= e.step
	if e.remaining <= 0 {
		e.remaining = 0
		e.status = StatusFinished
		return true
	}
	return false
}

func (e *Engine) Snapshot() Snapshot {
	return Snapshot{Total: e.total, Remaining: e.remaining, Status: e.status}
}

func (e *Engine) Status() Status {
	return e.status
}
