package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"BossTimers/dispatch"
	"BossTimers/i18n"
)

func TestStatusText(t *testing.T) {
	t.Cleanup(func() { i18n.Setup("en") })
	i18n.Setup("en")

	assert.Equal(t, "", statusText(nil))
	assert.Equal(t, "Busy, try again", statusText(dispatch.ErrBusy))
	assert.Equal(t, "Busy, try again", statusText(fmt.Errorf("select: %w", context.DeadlineExceeded)))
	assert.Equal(t, "boom", statusText(errors.New("boom")))

	i18n.Setup("es")
	assert.Equal(t, "Ocupado, inténtalo de nuevo", statusText(dispatch.ErrBusy))
}
