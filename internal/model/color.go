package model

import (
	"strconv"
	"strings"
)

var namedColors = map[Color][3]uint8{
	"red":     {255, 0, 0},
	"orange":  {255, 165, 0},
	"yellow":  {255, 255, 0},
	"green":   {0, 128, 0},
	"purple":  {128, 0, 128},
	"cyan":    {0, 255, 255},
	"magenta": {255, 0, 255},
	"brown":   {165, 42, 42},
	"white":   {255, 255, 255},
	"black":   {0, 0, 0},
}

// RGB resolves the color to its components. Named colors match
// case-insensitively; anything else must be "#rrggbb". ok is false for an
// unrecognised token.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	if rgb, found := namedColors[Color(strings.ToLower(string(c)))]; found {
		return rgb[0], rgb[1], rgb[2], true
	}
	s := string(c)
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// Valid reports whether the color resolves.
func (c Color) Valid() bool {
	_, _, _, ok := c.RGB()
	return ok
}
