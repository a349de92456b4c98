// Package colorutil provides shared color utilities for the SnapSpot viewer.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common marker and overlay colors used throughout the application.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Gray    = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	Red     = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	Green   = color.RGBA{R: 64, G: 160, B: 43, A: 255}
	Blue    = color.RGBA{R: 38, G: 100, B: 210, A: 255}
	Yellow  = color.RGBA{R: 255, G: 200, B: 0, A: 255}
	Orange  = color.RGBA{R: 230, G: 130, B: 20, A: 255}
	Magenta = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

var names = map[string]color.RGBA{
	"black":   Black,
	"white":   White,
	"gray":    Gray,
	"grey":    Gray,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"yellow":  Yellow,
	"orange":  Orange,
	"magenta": Magenta,
}

// Parse interprets a color string as either a well-known name ("red") or
// a hex value ("#RRGGBB" or "#RGB").
func Parse(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := names[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(hex string) (color.RGBA, error) {
	switch len(hex) {
	case 3:
		r, err1 := hexNibble(hex[0])
		g, err2 := hexNibble(hex[1])
		b, err3 := hexNibble(hex[2])
		if err1 != nil || err2 != nil || err3 != nil {
			return color.RGBA{}, fmt.Errorf("invalid hex color #%s", hex)
		}
		return color.RGBA{R: r * 17, G: g * 17, B: b * 17, A: 255}, nil
	case 6:
		var r, g, b uint8
		for i, dst := range []*uint8{&r, &g, &b} {
			hi, err1 := hexNibble(hex[i*2])
			lo, err2 := hexNibble(hex[i*2+1])
			if err1 != nil || err2 != nil {
				return color.RGBA{}, fmt.Errorf("invalid hex color #%s", hex)
			}
			*dst = hi<<4 | lo
		}
		return color.RGBA{R: r, G: g, B: b, A: 255}, nil
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color #%s", hex)
	}
}

func hexNibble(b byte) (uint8, error) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', nil
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, nil
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, nil
	}
	return 0, fmt.Errorf("invalid hex digit %q", b)
}

// Luminance returns the perceived brightness of a color in the range 0-255.
func Luminance(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// ContrastText returns black or white, whichever reads better on the
// given background.
func ContrastText(bg color.RGBA) color.RGBA {
	if Luminance(bg) > 140 {
		return Black
	}
	return White
}

// Darken returns the color scaled toward black by the given factor
// (0 = unchanged, 1 = black).
func Darken(c color.RGBA, factor float64) color.RGBA {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	f := 1 - factor
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
