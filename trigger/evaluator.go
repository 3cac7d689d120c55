package trigger

import (
	"context"
	"log"
)

// MatchFunc reports whether the image identified by imageID is currently
// visible on screen.
type MatchFunc func(ctx context.Context, imageID string) (bool, error)

// Evaluator turns a condition into a boolean. It never returns an error:
// every failure is logged and reported as false.
type Evaluator struct {
	match  MatchFunc
	logger *log.Logger
}

// NewEvaluator creates an evaluator backed by match. A nil match makes
// every image condition fail.
func NewEvaluator(match MatchFunc, logger *log.Logger) *Evaluator {
	if logger == nil {
		logger = log.Default()
	}
	return &Evaluator{match: match, logger: logger}
}

// Evaluate checks a single condition.
func (e *Evaluator) Evaluate(ctx context.Context, c Condition, param string) (ok bool) {
	switch c {
	case Unconditional:
		return true
	case ConditionImage:
		if param == "" {
			e.logger.Printf("Image condition has no image configured, treating as not matched")
			return false
		}
		if e.match == nil {
			e.logger.Printf("No screen matcher available, image %s treated as not matched", param)
			return false
		}
		defer func() {
			if r := recover(); r != nil {
				e.logger.Printf("Screen match for %s panicked: %v", param, r)
				ok = false
			}
		}()
		matched, err := e.match(ctx, param)
		if err != nil {
			e.logger.Printf("Screen match for %s failed: %v", param, err)
			return false
		}
		return matched
	default:
		e.logger.Printf("%v: %q", ErrUnknownCondition, string(c))
		return false
	}
}
