package canvas

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned by ParseColor for unrecognised input.
var ErrInvalidColor = errors.New("canvas: invalid color")

// ParseColor parses a CSS colour: "#rgb", "#rgba", "#rrggbb",
// "#rrggbbaa", "rgb(r, g, b)", "rgba(r, g, b, a)", "transparent" or a
// named SVG colour.
func ParseColor(s string) (gg.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return gg.RGBA{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	case s == "transparent":
		return gg.Transparent, nil
	case s[0] == '#':
		if !isHex(s[1:]) {
			return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		switch len(s) - 1 {
		case 3, 4, 6, 8:
			return gg.Hex(s), nil
		}
		return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseFunctional(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return gg.FromColor(c), nil
	}
	return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// MustParseColor is like ParseColor but panics on error.
func MustParseColor(s string) gg.RGBA {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}

func parseFunctional(s string) (gg.RGBA, error) {
	open := strings.IndexByte(s, '(')
	if !strings.HasSuffix(s, ")") {
		return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return gg.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	var v [4]float64
	v[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return gg.RGBA{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
		}
		v[i] = f
	}
	return gg.RGBA{
		R: clamp01(v[0] / 255),
		G: clamp01(v[1] / 255),
		B: clamp01(v[2] / 255),
		A: clamp01(v[3]),
	}, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ParseLineCap maps "butt", "round" and "square" to gg line caps.
// Unknown names map to round.
func ParseLineCap(s string) gg.LineCap {
	switch s {
	case "butt":
		return gg.LineCapButt
	case "square":
		return gg.LineCapSquare
	}
	return gg.LineCapRound
}

// ParseLineJoin maps "miter", "round" and "bevel" to gg line joins.
// Unknown names map to round.
func ParseLineJoin(s string) gg.LineJoin {
	switch s {
	case "miter":
		return gg.LineJoinMiter
	case "bevel":
		return gg.LineJoinBevel
	}
	return gg.LineJoinRound
}
