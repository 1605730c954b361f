package style

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"

	"github.com/gogpu/gg"
)

// Fill describes how polygon interiors and text glyphs are painted.
type Fill struct {
	color    gg.Brush
	hooks    Hooks
	checksum string
}

// FillOptions configures NewFill. Replays paint a nil Color as black.
type FillOptions struct {
	Color gg.Brush
	Hooks
}

// NewFill creates a fill style.
func NewFill(opts FillOptions) *Fill {
	return &Fill{color: opts.Color, hooks: opts.Hooks}
}

// NewSolidFill is shorthand for a fill with one color.
func NewSolidFill(c gg.RGBA) *Fill {
	return NewFill(FillOptions{Color: gg.Solid(c)})
}

// Color returns the fill brush.
func (f *Fill) Color() gg.Brush { return f.color }

// SetColor replaces the fill brush.
func (f *Fill) SetColor(b gg.Brush) {
	f.color = b
	f.checksum = ""
}

// Hooks returns the render hooks attached to the fill.
func (f *Fill) Hooks() Hooks { return f.hooks }

// SetHooks replaces the render hooks.
func (f *Fill) SetHooks(h Hooks) { f.hooks = h }

// Checksum identifies the paint of the fill. Two fills with the same
// checksum paint identically.
func (f *Fill) Checksum() string {
	if f.checksum == "" {
		f.checksum = digest("f" + brushKey(f.color))
	}
	return f.checksum
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// brushKey renders a brush as a stable string. Solid brushes are keyed by
// color, any other brush by its printed value.
func brushKey(b gg.Brush) string {
	switch v := b.(type) {
	case nil:
		return "-"
	case gg.SolidBrush:
		return colorKey(v.Color)
	case *gg.SolidBrush:
		return colorKey(v.Color)
	default:
		return fmt.Sprintf("%T%v", b, b)
	}
}

func colorKey(c gg.RGBA) string {
	return fmt.Sprintf("rgba(%g,%g,%g,%g)", c.R, c.G, c.B, c.A)
}

// SameBrush reports whether two brushes paint the same. Brushes other
// than solid colors are never considered equal, since their contents
// cannot be compared.
func SameBrush(a, b gg.Brush) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ca, okA := solidColor(a)
	cb, okB := solidColor(b)
	return okA && okB && ca == cb
}

func solidColor(b gg.Brush) (gg.RGBA, bool) {
	switch v := b.(type) {
	case gg.SolidBrush:
		return v.Color, true
	case *gg.SolidBrush:
		return v.Color, true
	}
	return gg.RGBA{}, false
}
