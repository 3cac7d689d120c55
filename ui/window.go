package ui

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"BossTimers/catalog"
	"BossTimers/dispatch"
	"BossTimers/i18n"
)

const (
	windowWidth  float32 = 360
	windowHeight float32 = 480
	rowSpacing   float32 = 2
)

// App is what the main window needs from the application.
type App interface {
	BossNames() []string
	Boss(name string) (catalog.Boss, bool)
	SelectBoss(name string) error
	StartSkill(name string) error
	StartEncounter() error
	StopAll() error
	HandleKeyRune(rune)
}

// MainWindow holds the widgets that change with the selected boss.
type MainWindow struct {
	Window fyne.Window

	app         App
	description *widget.Label
	skills      *fyne.Container
	status      *widget.Label
}

func CreateMainWindow(a App, fyneApp fyne.App) *MainWindow {
	title := fyneApp.Metadata().Name
	if title == "" {
		title = "BossTimers"
	}
	m := &MainWindow{
		Window:      fyneApp.NewWindow(title),
		app:         a,
		description: widget.NewLabel(""),
		skills:      container.NewVBox(),
		status:      widget.NewLabel(""),
	}
	m.description.Wrapping = fyne.TextWrapWord

	bossSelect := widget.NewSelect(a.BossNames(), m.selectBoss)
	bossSelect.PlaceHolder = i18n.T("Select a boss")

	header := container.NewBorder(nil, nil, widget.NewLabel(i18n.T("Boss")), nil, bossSelect)
	body := container.NewVBox(
		m.description,
		widget.NewLabelWithStyle(i18n.T("Skills"), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVScroll(m.skills),
	)

	m.Window.Canvas().SetOnTypedRune(a.HandleKeyRune)
	m.Window.SetContent(container.NewBorder(header, m.buildFooter(), nil, nil, body))
	m.Window.Resize(fyne.NewSize(windowWidth, windowHeight))

	if names := a.BossNames(); len(names) > 0 {
		bossSelect.SetSelected(names[0])
	}
	return m
}

func (m *MainWindow) buildFooter() fyne.CanvasObject {
	encounter := widget.NewButton(i18n.T("Start encounter"), func() {
		m.report(m.app.StartEncounter())
	})
	stop := widget.NewButton(i18n.T("Stop all"), func() {
		m.report(m.app.StopAll())
	})

	gap := canvas.NewRectangle(color.Transparent)
	gap.SetMinSize(fyne.NewSize(8, 0))

	buttons := container.NewHBox(layout.NewSpacer(), encounter, gap, stop, layout.NewSpacer())
	return container.NewVBox(buttons, m.status)
}

func (m *MainWindow) selectBoss(name string) {
	if err := m.app.SelectBoss(name); err != nil {
		m.report(err)
		return
	}
	b, _ := m.app.Boss(name)
	m.description.SetText(b.Description)
	m.ShowSkills(b.Skills)
	m.status.SetText("")
}

// ShowSkills rebuilds the skill rows. Tapping a row starts that skill.
func (m *MainWindow) ShowSkills(skills []catalog.Skill) {
	m.skills.RemoveAll()
	for i, s := range skills {
		name := s.Name
		label := fmt.Sprintf("%s  (%gs, %s)", name, s.CountdownDuration, s.TriggerCondition)
		if i < 9 {
			label = fmt.Sprintf("%d. %s", i+1, label)
		}
		row := NewTappableContainer(widget.NewLabel(label), func() {
			m.report(m.app.StartSkill(name))
		}, nil)
		m.skills.Add(row)

		spacer := canvas.NewRectangle(color.Transparent)
		spacer.SetMinSize(fyne.NewSize(0, rowSpacing))
		m.skills.Add(spacer)
	}
	m.skills.Refresh()
}

func (m *MainWindow) report(err error) {
	m.status.SetText(statusText(err))
}

// statusText turns an action result into the footer status line. A full
// command queue or a dispatcher that did not answer in time reads as busy.
func statusText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, dispatch.ErrBusy), errors.Is(err, context.DeadlineExceeded):
		return i18n.T("Busy, try again")
	}
	return err.Error()
}

type TappableContainer struct {
	widget.BaseWidget
	Content           fyne.CanvasObject
	OnTappedPrimary   func()
	OnTappedSecondary func(e *fyne.PointEvent)
}

func NewTappableContainer(c fyne.CanvasObject, onP func(), onS func(e *fyne.PointEvent)) *TappableContainer {
	t := &TappableContainer{
		Content:           c,
		OnTappedPrimary:   onP,
		OnTappedSecondary: onS,
	}
	t.ExtendBaseWidget(t)
	return t
}

func (t *TappableContainer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewHBox(t.Content, layout.NewSpacer()))
}

func (t *TappableContainer) Tapped(_ *fyne.PointEvent) {
	if t.OnTappedPrimary != nil {
		t.OnTappedPrimary()
	}
}

func (t *TappableContainer) TappedSecondary(e *fyne.PointEvent) {
	if t.OnTappedSecondary != nil {
		t.OnTappedSecondary(e)
	}
}
