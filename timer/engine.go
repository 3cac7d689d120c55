// Package timer contains the countdown engine: independent timers advanced
// in fixed steps by whoever owns the engine.
//
// Maintenance notes:
//   - The Engine has no locks. All calls, including Tick, must come from the
//     goroutine that owns it (the dispatcher loop). That single owner is what
//     makes OnComplete fire exactly once per timer.
//   - Timers are identified by *Handle, never by skill name. Starting the
//     same skill twice gives two independent timers.
//   - Callbacks may start or stop timers. A timer started from a callback is
//     ticked for the first time on the next Tick.
package timer

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// DefaultStep is the tick granularity used when none is configured.
const DefaultStep = 10 * time.Millisecond

// State defines the possible states of a timer.
type State int

const (
	StateRunning State = iota
	StateCompleted
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Display describes how a timer is shown. The engine only carries it.
type Display struct {
	Text    string
	Color   string
	Visible bool
}

// Callbacks are invoked from Tick and Stop on the owning goroutine. Any of
// them may be nil. OnTick must not block.
type Callbacks struct {
	OnTick     func(h *Handle, elapsedMs, remainingMs int64)
	OnComplete func(h *Handle)
	OnStop     func(h *Handle)
}

// Handle is one running countdown.
type Handle struct {
	ID      string
	Skill   string
	Display Display

	totalMs   int64
	elapsedMs int64
	state     State
	cb        Callbacks
}

// TotalMs returns the countdown length in milliseconds.
func (h *Handle) TotalMs() int64 { return h.totalMs }

// ElapsedMs returns the accumulated milliseconds.
func (h *Handle) ElapsedMs() int64 { return h.elapsedMs }

// RemainingMs never goes below zero.
func (h *Handle) RemainingMs() int64 { return h.totalMs - h.elapsedMs }

// State returns the timer's state.
func (h *Handle) State() State { return h.state }

// Progress returns elapsed/total in [0, 1]. Zero-length timers report 1.
func (h *Handle) Progress() float64 {
	if h.totalMs <= 0 {
		return 1
	}
	return float64(h.elapsedMs) / float64(h.totalMs)
}

// Engine runs any number of timers.
type Engine struct {
	stepMs int64
	active []*Handle
}

// NewEngine creates an engine that advances timers by step on every Tick.
func NewEngine(step time.Duration) *Engine {
	if step <= 0 {
		step = DefaultStep
	}
	ms := step.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	return &Engine{stepMs: ms}
}

// Step returns the tick granularity.
func (e *Engine) Step() time.Duration {
	return time.Duration(e.stepMs) * time.Millisecond
}

// Start begins a countdown of seconds (fractions allowed) at elapsed zero.
// A non-positive duration completes on the next Tick.
func (e *Engine) Start(skill string, seconds float64, d Display, cb Callbacks) *Handle {
	h := &Handle{
		ID:      uuid.NewString(),
		Skill:   skill,
		Display: d,
		totalMs: durationMs(seconds),
		state:   StateRunning,
		cb:      cb,
	}
	e.active = append(e.active, h)
	return h
}

// Tick advances every running timer by one step, in start order.
func (e *Engine) Tick() {
	if len(e.active) == 0 {
		return
	}
	batch := make([]*Handle, len(e.active))
	copy(batch, e.active)

	for _, h := range batch {
		if h.state != StateRunning {
			continue
		}
		h.elapsedMs += e.stepMs
		if h.elapsedMs > h.totalMs {
			h.elapsedMs = h.totalMs
		}
		if h.cb.OnTick != nil {
			h.cb.OnTick(h, h.elapsedMs, h.RemainingMs())
		}
		// OnTick may have stopped this timer.
		if h.state != StateRunning || h.elapsedMs < h.totalMs {
			continue
		}
		h.state = StateCompleted
		e.remove(h)
		if h.cb.OnComplete != nil {
			h.cb.OnComplete(h)
		}
	}
}

// Stop ends a running timer early. OnStop is invoked, OnComplete is not.
// It reports false for nil, finished, or foreign handles.
func (e *Engine) Stop(h *Handle) bool {
	if h == nil || h.state != StateRunning || !e.remove(h) {
		return false
	}
	h.state = StateStopped
	if h.cb.OnStop != nil {
		h.cb.OnStop(h)
	}
	return true
}

// StopAll stops every running timer and returns how many were stopped.
func (e *Engine) StopAll() int {
	batch := make([]*Handle, len(e.active))
	copy(batch, e.active)
	n := 0
	for _, h := range batch {
		if e.Stop(h) {
			n++
		}
	}
	return n
}

// Find returns the running timer with the given ID, or nil.
func (e *Engine) Find(id string) *Handle {
	for _, h := range e.active {
		if h.ID == id {
			return h
		}
	}
	return nil
}

// Active returns a copy of the running timers in start order.
func (e *Engine) Active() []*Handle {
	out := make([]*Handle, len(e.active))
	copy(out, e.active)
	return out
}

// Len returns the number of running timers.
func (e *Engine) Len() int {
	return len(e.active)
}

func (e *Engine) remove(h *Handle) bool {
	for i, at := range e.active {
		if at == h {
			e.active = append(e.active[:i], e.active[i+1:]...)
			return true
		}
	}
	return false
}

func durationMs(seconds float64) int64 {
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0
	}
	ms := math.Round(seconds * 1000)
	if ms > math.MaxInt64/2 {
		return math.MaxInt64 / 2
	}
	return int64(ms)
}
