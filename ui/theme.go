package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

var overlayBackground = color.NRGBA{R: 0x12, G: 0x14, B: 0x18, A: 0xff}

// CustomTheme keeps the default look with a dark background and an
// adjustable text size for reading bars at a glance.
type CustomTheme struct {
	fyne.Theme
	textSize float32
}

// NewCustomTheme wraps the default theme. A textSize of 0 keeps the
// default size.
func NewCustomTheme(textSize float32) fyne.Theme {
	return &CustomTheme{Theme: theme.DefaultTheme(), textSize: textSize}
}

func (t *CustomTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground {
		return overlayBackground
	}
	return t.Theme.Color(name, theme.VariantDark)
}

func (t *CustomTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNameText && t.textSize > 0 {
		return t.textSize
	}
	return t.Theme.Size(name)
}
