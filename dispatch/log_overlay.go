package dispatch

import (
	"log"

	"BossTimers/timer"
)

// LogOverlay is an Overlay for headless runs. It logs starts and ends and
// stays quiet on ticks.
type LogOverlay struct {
	Logger *log.Logger
}

func (o LogOverlay) logger() *log.Logger {
	if o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

func (o LogOverlay) Attach(h *timer.Handle) {
	o.logger().Printf("[%s] %s", h.Skill, timer.BarText(h, h.RemainingMs()))
}

func (o LogOverlay) Update(*timer.Handle, int64, int64) {}

func (o LogOverlay) Detach(h *timer.Handle, completed bool) {
	if completed {
		o.logger().Printf("[%s] done after %ss", h.Skill, timer.FormatRemaining(h.ElapsedMs()))
		return
	}
	o.logger().Printf("[%s] stopped with %ss left", h.Skill, timer.FormatRemaining(h.RemainingMs()))
}
