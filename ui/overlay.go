package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"BossTimers/i18n"
	"BossTimers/timer"
)

const (
	// refreshEvery limits redraws; the engine ticks much faster than a
	// bar needs to move.
	refreshEvery int64 = 50
	doneLinger         = 1500 * time.Millisecond
)

type barState struct {
	bar         *SkillBar
	lastElapsed int64
}

// Overlay shows one SkillBar per running visible timer. Attach, Update and
// Detach are called from the dispatcher goroutine; widget changes are
// handed to fyne with fyne.Do.
type Overlay struct {
	window fyne.Window
	box    *fyne.Container

	// stop is called with a timer ID when its bar is tapped. Set it with
	// OnStopRequest before the dispatcher starts.
	stop func(timerID string)

	// owned by the dispatcher goroutine
	bars map[*timer.Handle]*barState
}

func NewOverlay(fyneApp fyne.App) *Overlay {
	o := &Overlay{
		box:  container.NewVBox(),
		bars: make(map[*timer.Handle]*barState),
	}
	o.window = fyneApp.NewWindow(i18n.T("Timers"))
	o.window.SetContent(container.NewPadded(o.box))
	o.window.Resize(fyne.NewSize(barWidth, barHeight))
	return o
}

func (o *Overlay) Window() fyne.Window { return o.window }

// OnStopRequest sets what a tap on a running bar does.
func (o *Overlay) OnStopRequest(stop func(timerID string)) {
	o.stop = stop
}

// stopper returns the tap handler for one timer. The request leaves the
// fyne goroutine so a busy dispatcher never stalls the UI.
func (o *Overlay) stopper(timerID string) func() {
	stop := o.stop
	if stop == nil {
		return nil
	}
	return func() { go stop(timerID) }
}

func (o *Overlay) Attach(h *timer.Handle) {
	text := timer.BarText(h, h.RemainingMs())
	b := NewSkillBar(barColor(h.Display.Color), text)
	b.OnTapped = o.stopper(h.ID)
	o.bars[h] = &barState{bar: b}
	fyne.Do(func() {
		o.box.Add(b)
	})
}

func (o *Overlay) Update(h *timer.Handle, elapsedMs, remainingMs int64) {
	st, ok := o.bars[h]
	if !ok {
		return
	}
	if elapsedMs-st.lastElapsed < refreshEvery && remainingMs > 0 {
		return
	}
	st.lastElapsed = elapsedMs
	progress := h.Progress()
	text := timer.BarText(h, remainingMs)
	fyne.Do(func() {
		st.bar.Set(progress, text)
	})
}

func (o *Overlay) Detach(h *timer.Handle, completed bool) {
	st, ok := o.bars[h]
	if !ok {
		return
	}
	delete(o.bars, h)
	b := st.bar
	if !completed {
		fyne.Do(func() { o.remove(b) })
		return
	}
	text := h.Skill + " - " + i18n.T("done")
	fyne.Do(func() {
		b.OnTapped = nil
		b.Set(1, text)
	})
	time.AfterFunc(doneLinger, func() {
		fyne.Do(func() { o.remove(b) })
	})
}

func (o *Overlay) remove(b *SkillBar) {
	o.box.Remove(b)
	o.window.Resize(o.box.MinSize().AddWidthHeight(8, 8))
}
