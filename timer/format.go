package timer

import (
	"fmt"
)

// FormatRemaining converts milliseconds into seconds with two decimals.
func FormatRemaining(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%.2f", float64(ms)/1000)
}

// BarText is the label shown on a running timer's bar.
func BarText(h *Handle, remainingMs int64) string {
	if h.Display.Text == "" {
		return fmt.Sprintf("%s - %s s", h.Skill, FormatRemaining(remainingMs))
	}
	return fmt.Sprintf("%s - %s - %s s", h.Skill, h.Display.Text, FormatRemaining(remainingMs))
}
