// Package trigger evaluates skill start conditions off the interactive
// goroutine. A single Worker drains a bounded queue of PendingChecks and
// reports CheckResults in the order the checks were accepted.
package trigger

import (
	"errors"
	"fmt"
	"strings"
)

// Condition is the predicate gating a skill's start.
type Condition string

const (
	// Unconditional always starts.
	Unconditional Condition = "unconditional"
	// ConditionImage starts only when the image named by the check's param
	// is found on screen.
	ConditionImage Condition = "condition_image"
)

var (
	ErrQueueFull        = errors.New("trigger: queue full")
	ErrWorkerStopped    = errors.New("trigger: worker stopped")
	ErrStopTimeout      = errors.New("trigger: worker did not stop in time")
	ErrUnknownCondition = errors.New("trigger: unknown condition")
)

// Known reports whether c is a condition the evaluator understands.
func (c Condition) Known() bool {
	switch c {
	case Unconditional, ConditionImage:
		return true
	}
	return false
}

// ParseCondition normalizes s. Unknown values are returned as-is together
// with ErrUnknownCondition so callers can keep the raw value for logging.
func ParseCondition(s string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(s)))
	if !c.Known() {
		return c, fmt.Errorf("%w: %q", ErrUnknownCondition, s)
	}
	return c, nil
}

// PendingCheck is a condition check request. Ownership moves to the worker
// on a successful Enqueue.
type PendingCheck struct {
	Boss      string
	SkillName string
	Condition Condition
	Param     string
	// Depth is carried through to the result unchanged.
	Depth int
}

// CheckResult is emitted exactly once per accepted PendingCheck unless the
// worker is stopped before the result is delivered.
type CheckResult struct {
	Boss      string
	SkillName string
	Satisfied bool
	Depth     int
}
