package trigger

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	DefaultCapacity    = 20
	DefaultStopTimeout = 5 * time.Second
)

// State is the worker lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// ConditionEvaluator is what the worker needs to check a condition.
type ConditionEvaluator interface {
	Evaluate(ctx context.Context, c Condition, param string) bool
}

// EvaluatorFunc adapts a plain function to ConditionEvaluator.
type EvaluatorFunc func(ctx context.Context, c Condition, param string) bool

func (f EvaluatorFunc) Evaluate(ctx context.Context, c Condition, param string) bool {
	return f(ctx, c, param)
}

// WorkerOptions tunes a Worker. Zero values select the defaults.
type WorkerOptions struct {
	Capacity    int
	StopTimeout time.Duration
	Logger      *log.Logger
}

// Worker serializes condition checks on one background goroutine.
//
// Enqueue never blocks. Results are delivered on Results() in the order
// the checks were accepted. After Stop returns no further result is sent.
type Worker struct {
	eval    ConditionEvaluator
	logger  *log.Logger
	timeout time.Duration

	tasks   chan PendingCheck
	results chan CheckResult
	quit    chan struct{}
	done    chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc

	mu    sync.Mutex
	state State

	// emitMu guards halted. Lock order is mu then emitMu.
	emitMu sync.Mutex
	halted bool
}

// NewWorker creates an idle worker. Checks may be enqueued before Start;
// they wait in the queue.
func NewWorker(eval ConditionEvaluator, opts WorkerOptions) *Worker {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		eval:    eval,
		logger:  opts.Logger,
		timeout: opts.StopTimeout,
		tasks:   make(chan PendingCheck, opts.Capacity),
		results: make(chan CheckResult, opts.Capacity),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Results returns the channel CheckResults are delivered on.
func (w *Worker) Results() <-chan CheckResult {
	return w.results
}

// State returns the current lifecycle state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Pending returns the number of queued checks not yet picked up.
func (w *Worker) Pending() int {
	return len(w.tasks)
}

// Enqueue submits a check without blocking. It returns ErrQueueFull when
// the queue is at capacity and ErrWorkerStopped once Stop has been called.
// Rejected checks are not retried.
func (w *Worker) Enqueue(c PendingCheck) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StateStopping || w.state == StateStopped {
		return ErrWorkerStopped
	}
	select {
	case w.tasks <- c:
		return nil
	default:
		return ErrQueueFull
	}
}

// Start launches the background goroutine. Calling it on a running worker
// is a no-op; a stopped worker cannot be restarted.
func (w *Worker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.state {
	case StateRunning:
		w.logger.Printf("Trigger worker already running")
		return
	case StateStopping, StateStopped:
		w.logger.Printf("Trigger worker is %s and cannot be restarted", w.state)
		return
	}
	w.state = StateRunning
	go w.run()
}

// Stop requests shutdown and waits for the in-flight check, if any, to
// return. Queued checks are abandoned. If the goroutine does not exit within
// the stop timeout it is abandoned and ErrStopTimeout is returned; it still
// never emits.
func (w *Worker) Stop() error {
	w.mu.Lock()
	prev := w.state
	switch prev {
	case StateStopping, StateStopped:
		w.mu.Unlock()
		return nil
	case StateIdle:
		w.state = StateStopped
	default:
		w.state = StateStopping
	}
	w.logger.Printf("Stopping trigger worker, %d checks pending", w.Pending())
	close(w.quit)
	w.cancel()
	w.emitMu.Lock()
	w.halted = true
	w.emitMu.Unlock()
	w.mu.Unlock()

	if prev == StateIdle {
		return nil
	}

	t := time.NewTimer(w.timeout)
	defer t.Stop()

	var err error
	select {
	case <-w.done:
		w.logger.Printf("Trigger worker stopped")
	case <-t.C:
		w.logger.Printf("Trigger worker did not stop within %v, abandoning it", w.timeout)
		err = ErrStopTimeout
	}

	w.mu.Lock()
	w.state = StateStopped
	w.mu.Unlock()
	return err
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			return
		case task := <-w.tasks:
			select {
			case <-w.quit:
				return
			default:
			}
			w.emit(CheckResult{
				Boss:      task.Boss,
				SkillName: task.SkillName,
				Satisfied: w.check(task),
				Depth:     task.Depth,
			})
		}
	}
}

func (w *Worker) check(task PendingCheck) (satisfied bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("Condition check for skill %s panicked: %v", task.SkillName, r)
			satisfied = false
		}
	}()
	return w.eval.Evaluate(w.ctx, task.Condition, task.Param)
}

func (w *Worker) emit(r CheckResult) {
	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	if w.halted {
		w.logger.Printf("Dropping result for skill %s, worker is stopping", r.SkillName)
		return
	}
	select {
	case <-w.quit:
		return
	default:
	}
	select {
	case w.results <- r:
	case <-w.quit:
	}
}
