// Package dispatch owns the interactive side of the application: one loop
// goroutine that serializes UI commands, timer ticks, condition check results
// and skill cascades.
//
// Maintenance notes:
//   - Everything that touches the timer engine runs on the Run goroutine.
//     Other goroutines talk to it through Post.
//   - Cascades are iterative. A natural completion appends start requests to
//     a FIFO which the loop drains after each event, so a trigger graph never
//     recurses on the stack. There is no cycle detection; MaxCascadeDepth is
//     the only limit and it is off by default.
//   - A manually stopped timer never cascades.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"BossTimers/catalog"
	"BossTimers/control"
	"BossTimers/timer"
	"BossTimers/trigger"
)

var (
	ErrMissingDescriptor = errors.New("dispatch: skill not in catalog")
	ErrUnknownBoss       = errors.New("dispatch: unknown boss")
	ErrNoBoss            = errors.New("dispatch: no boss selected")
	ErrUnknownTimer      = errors.New("dispatch: no such running timer")
	ErrBusy              = errors.New("dispatch: command queue busy")
)

const (
	commandBuffer  = 256
	commandTimeout = 150 * time.Millisecond
)

// Catalog is the read-only skill source.
type Catalog interface {
	Boss(name string) (catalog.Boss, bool)
	ListSkills(boss string) []catalog.Skill
	FindSkill(boss, skill string) (catalog.Skill, bool)
}

// CheckQueue accepts condition checks and reports their results.
type CheckQueue interface {
	Enqueue(trigger.PendingCheck) error
	Results() <-chan trigger.CheckResult
}

//go:generate mockgen -destination=mocks/mock_dispatch.go -package=mocks BossTimers/dispatch Overlay,Alerter

// Overlay shows running timers. Calls come from the dispatcher goroutine.
type Overlay interface {
	Attach(h *timer.Handle)
	Update(h *timer.Handle, elapsedMs, remainingMs int64)
	Detach(h *timer.Handle, completed bool)
}

// Alerter plays a completion sound.
type Alerter interface {
	Alert(sound string)
}

// Options configures a Dispatcher.
type Options struct {
	Catalog         Catalog
	Checks          CheckQueue
	Overlay         Overlay
	Alerter         Alerter
	TickInterval    time.Duration
	MaxCascadeDepth int
	Logger          *log.Logger
}

type startRequest struct {
	boss  string
	skill string
	depth int
}

// Dispatcher decides when skills start.
type Dispatcher struct {
	catalog  Catalog
	checks   CheckQueue
	overlay  Overlay
	alerter  Alerter
	logger   *log.Logger
	engine   *timer.Engine
	maxDepth int

	cmdCh chan control.Command

	// loop-owned state
	boss   string
	starts []startRequest
}

// New creates a dispatcher. Checks may be nil when no skill uses an image
// condition; Overlay and Alerter may be nil.
func New(opts Options) *Dispatcher {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Overlay == nil {
		opts.Overlay = nopOverlay{}
	}
	return &Dispatcher{
		catalog:  opts.Catalog,
		checks:   opts.Checks,
		overlay:  opts.Overlay,
		alerter:  opts.Alerter,
		logger:   opts.Logger,
		engine:   timer.NewEngine(opts.TickInterval),
		maxDepth: opts.MaxCascadeDepth,
		cmdCh:    make(chan control.Command, commandBuffer),
	}
}

// Post hands a command to the loop. It waits briefly when the buffer is
// full and then gives up with ErrBusy rather than blocking the caller.
func (d *Dispatcher) Post(cmd control.Command) error {
	select {
	case d.cmdCh <- cmd:
		return nil
	case <-time.After(commandTimeout):
		d.logger.Printf("Dispatcher busy, dropping %s command", cmd.Type)
		return ErrBusy
	}
}

// Do posts cmd and waits for its reply.
func (d *Dispatcher) Do(ctx context.Context, cmd control.Command) error {
	cmd.Reply = make(chan error, 1)
	if err := d.Post(cmd); err != nil {
		return err
	}
	select {
	case err := <-cmd.Reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Timers returns the running timers in start order.
func (d *Dispatcher) Timers(ctx context.Context) ([]control.TimerInfo, error) {
	cmd := control.Command{Type: control.CmdSnapshot, Timers: make(chan []control.TimerInfo, 1)}
	if err := d.Do(ctx, cmd); err != nil {
		return nil, err
	}
	return <-cmd.Timers, nil
}

// Run is the dispatcher loop. It returns when ctx is cancelled, after
// stopping every running timer.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.engine.Step())
	defer ticker.Stop()

	var results <-chan trigger.CheckResult
	if d.checks != nil {
		results = d.checks.Results()
	}

	for {
		select {
		case <-ctx.Done():
			if n := d.engine.StopAll(); n > 0 {
				d.logger.Printf("Dispatcher shutting down, stopped %d timers", n)
			}
			return nil
		case cmd := <-d.cmdCh:
			d.handleCommand(cmd)
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			d.handleResult(r)
		case <-ticker.C:
			d.engine.Tick()
		}
		d.drainStarts()
	}
}

func (d *Dispatcher) handleCommand(cmd control.Command) {
	var err error
	switch cmd.Type {
	case control.CmdSelectBoss:
		err = d.selectBoss(cmd.Boss)
	case control.CmdStartSkill:
		err = d.requestSkill(cmd.Skill)
	case control.CmdStartEncounter:
		err = d.requestEncounter()
	case control.CmdStopTimer:
		h := d.engine.Find(cmd.TimerID)
		if h == nil {
			err = fmt.Errorf("%w: %s", ErrUnknownTimer, cmd.TimerID)
			break
		}
		d.engine.Stop(h)
		d.logger.Printf("Stopped %s early", h.Skill)
	case control.CmdStopAll:
		n := d.engine.StopAll()
		d.logger.Printf("Stopped all %d timers", n)
	case control.CmdSnapshot:
		if cmd.Timers != nil {
			select {
			case cmd.Timers <- d.snapshot():
			default:
			}
		}
	default:
		err = fmt.Errorf("dispatch: unknown command %d", cmd.Type)
	}
	if err != nil {
		d.logger.Printf("Command %s failed: %v", cmd.Type, err)
	}
	if cmd.Reply != nil {
		select {
		case cmd.Reply <- err:
		default:
		}
	}
}

func (d *Dispatcher) selectBoss(name string) error {
	if _, ok := d.catalog.Boss(name); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBoss, name)
	}
	d.boss = name
	d.logger.Printf("Selected boss %s", name)
	return nil
}

func (d *Dispatcher) requestSkill(skill string) error {
	if d.boss == "" {
		return ErrNoBoss
	}
	if _, ok := d.catalog.FindSkill(d.boss, skill); !ok {
		return fmt.Errorf("%w: %s/%s", ErrMissingDescriptor, d.boss, skill)
	}
	d.starts = append(d.starts, startRequest{boss: d.boss, skill: skill})
	return nil
}

// requestEncounter starts every unconditional skill of the selected boss.
// Conditional skills are reached through their own checks or cascades.
func (d *Dispatcher) requestEncounter() error {
	if d.boss == "" {
		return ErrNoBoss
	}
	n := 0
	for _, s := range d.catalog.ListSkills(d.boss) {
		if s.TriggerCondition != trigger.Unconditional {
			continue
		}
		d.starts = append(d.starts, startRequest{boss: d.boss, skill: s.Name})
		n++
	}
	d.logger.Printf("Encounter with %s started, %d skills queued", d.boss, n)
	return nil
}

// drainStarts processes start requests until none are left. Starting a
// timer never enqueues further requests directly; only completions do, and
// those happen on ticks.
func (d *Dispatcher) drainStarts() {
	for len(d.starts) > 0 {
		req := d.starts[0]
		d.starts = d.starts[1:]
		d.start(req)
	}
	d.starts = nil
}

func (d *Dispatcher) start(req startRequest) {
	if d.maxDepth > 0 && req.depth > d.maxDepth {
		d.logger.Printf("Cascade to %s/%s exceeds depth %d, skipping", req.boss, req.skill, d.maxDepth)
		return
	}
	skill, ok := d.catalog.FindSkill(req.boss, req.skill)
	if !ok {
		d.logger.Printf("%v: %s/%s, skipping", ErrMissingDescriptor, req.boss, req.skill)
		return
	}

	switch skill.TriggerCondition {
	case trigger.Unconditional:
		d.startTimer(req.boss, skill, req.depth)
	case trigger.ConditionImage:
		if d.checks == nil {
			d.logger.Printf("No condition checker configured, %s never starts", skill.Name)
			return
		}
		err := d.checks.Enqueue(trigger.PendingCheck{
			Boss:      req.boss,
			SkillName: skill.Name,
			Condition: skill.TriggerCondition,
			Param:     skill.Param,
			Depth:     req.depth,
		})
		if err != nil {
			d.logger.Printf("Could not queue check for %s: %v, dropping", skill.Name, err)
		}
	default:
		d.logger.Printf("%v: %q on %s, not starting", trigger.ErrUnknownCondition, string(skill.TriggerCondition), skill.Name)
	}
}

func (d *Dispatcher) handleResult(r trigger.CheckResult) {
	if !r.Satisfied {
		d.logger.Printf("Condition for %s not met", r.SkillName)
		return
	}
	skill, ok := d.catalog.FindSkill(r.Boss, r.SkillName)
	if !ok {
		d.logger.Printf("%v: %s/%s, ignoring check result", ErrMissingDescriptor, r.Boss, r.SkillName)
		return
	}
	d.startTimer(r.Boss, skill, r.Depth)
}

func (d *Dispatcher) startTimer(boss string, skill catalog.Skill, depth int) *timer.Handle {
	visible := skill.IsVisible()
	display := timer.Display{Text: skill.DisplayText, Color: skill.DisplayColor, Visible: visible}

	h := d.engine.Start(skill.Name, skill.CountdownDuration, display, timer.Callbacks{
		OnTick: func(h *timer.Handle, elapsedMs, remainingMs int64) {
			if visible {
				d.overlay.Update(h, elapsedMs, remainingMs)
			}
		},
		OnComplete: func(h *timer.Handle) {
			d.completed(boss, skill, depth, h)
		},
		OnStop: func(h *timer.Handle) {
			if visible {
				d.overlay.Detach(h, false)
			}
		},
	})
	if visible {
		d.overlay.Attach(h)
	}
	d.logger.Printf("Started %s/%s for %ss", boss, skill.Name, timer.FormatRemaining(h.TotalMs()))
	return h
}

func (d *Dispatcher) completed(boss string, skill catalog.Skill, depth int, h *timer.Handle) {
	if h.Display.Visible {
		d.overlay.Detach(h, true)
	}
	if skill.AlertSound != "" && d.alerter != nil {
		d.alerter.Alert(skill.AlertSound)
	}
	for _, next := range skill.TriggeredSkills {
		d.starts = append(d.starts, startRequest{boss: boss, skill: next, depth: depth + 1})
	}
}

func (d *Dispatcher) snapshot() []control.TimerInfo {
	active := d.engine.Active()
	out := make([]control.TimerInfo, 0, len(active))
	for _, h := range active {
		out = append(out, control.TimerInfo{
			ID:        h.ID,
			Skill:     h.Skill,
			ElapsedMs: h.ElapsedMs(),
			TotalMs:   h.TotalMs(),
		})
	}
	return out
}

type nopOverlay struct{}

func (nopOverlay) Attach(*timer.Handle)               {}
func (nopOverlay) Update(*timer.Handle, int64, int64) {}
func (nopOverlay) Detach(*timer.Handle, bool)         {}
