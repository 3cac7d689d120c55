package ui

import (
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// DefaultBarColor is used when a skill has no color or an unreadable one.
var DefaultBarColor = color.NRGBA{R: 0x3d, G: 0x8b, B: 0xd9, A: 0xff}

// ParseColor reads "#rgb", "#rrggbb", "#rrggbbaa" or an SVG color name.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("ui: unknown color %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("ui: bad color length %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("ui: bad color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func barColor(s string) color.NRGBA {
	if s == "" {
		return DefaultBarColor
	}
	c, err := ParseColor(s)
	if err != nil {
		log.Printf("Unreadable bar color, using default: %v", err)
		return DefaultBarColor
	}
	return c
}

func withAlpha(c color.Color, alpha uint8) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}
