package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	barWidth  float32 = 320
	barHeight float32 = 26
)

// SkillBar is one countdown row on the overlay: a colored fill that shrinks
// as the timer runs, with the bar text on top. Fields are only touched from
// the fyne goroutine.
type SkillBar struct {
	widget.BaseWidget

	// OnTapped runs on a primary tap, if set.
	OnTapped func()

	fill     color.NRGBA
	text     string
	progress float64
}

func NewSkillBar(fill color.NRGBA, text string) *SkillBar {
	b := &SkillBar{fill: fill, text: text}
	b.ExtendBaseWidget(b)
	return b
}

func (b *SkillBar) Tapped(_ *fyne.PointEvent) {
	if b.OnTapped != nil {
		b.OnTapped()
	}
}

// Set updates the remaining fraction and text.
func (b *SkillBar) Set(progress float64, text string) {
	b.progress = progress
	b.text = text
	b.Refresh()
}

func (b *SkillBar) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(withAlpha(b.fill, 0x50))
	bg.CornerRadius = 4
	fg := canvas.NewRectangle(b.fill)
	fg.CornerRadius = 4
	label := canvas.NewText(b.text, color.White)
	label.TextSize = theme.TextSize()
	label.TextStyle.Bold = true
	r := &skillBarRenderer{bar: b, bg: bg, fg: fg, label: label}
	r.Refresh()
	return r
}

type skillBarRenderer struct {
	bar   *SkillBar
	bg    *canvas.Rectangle
	fg    *canvas.Rectangle
	label *canvas.Text
}

func (r *skillBarRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	remaining := float32(1 - r.bar.progress)
	if remaining < 0 {
		remaining = 0
	}
	r.fg.Resize(fyne.NewSize(size.Width*remaining, size.Height))
	r.fg.Move(fyne.NewPos(0, 0))

	ts := r.label.MinSize()
	r.label.Move(fyne.NewPos(theme.Padding()*2, (size.Height-ts.Height)/2))
	r.label.Resize(ts)
}

func (r *skillBarRenderer) MinSize() fyne.Size {
	return fyne.NewSize(barWidth, barHeight)
}

func (r *skillBarRenderer) Refresh() {
	r.label.Text = r.bar.text
	r.label.Refresh()
	r.Layout(r.bar.Size())
	canvas.Refresh(r.bg)
	canvas.Refresh(r.fg)
}

func (r *skillBarRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.fg, r.label}
}

func (r *skillBarRenderer) Destroy() {}
