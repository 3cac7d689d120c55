package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillBarTapStopsTimer(t *testing.T) {
	stopped := make(chan string, 1)
	o := &Overlay{}
	o.OnStopRequest(func(id string) { stopped <- id })

	b := NewSkillBar(DefaultBarColor, "Slam - 3.00 s")
	b.OnTapped = o.stopper("timer-1")
	b.Tapped(&fyne.PointEvent{})

	select {
	case id := <-stopped:
		assert.Equal(t, "timer-1", id)
	case <-time.After(time.Second):
		t.Fatal("tap did not request a stop")
	}
}

func TestSkillBarWithoutHandler(t *testing.T) {
	o := &Overlay{}
	require.Nil(t, o.stopper("timer-1"))

	b := NewSkillBar(DefaultBarColor, "Slam - 3.00 s")
	b.OnTapped = o.stopper("timer-1")
	assert.NotPanics(t, func() { b.Tapped(&fyne.PointEvent{}) })
}
