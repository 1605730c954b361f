package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

// Line style defaults applied when a stroke leaves them unset.
const (
	DefaultLineCap    = "round"
	DefaultLineJoin   = "round"
	DefaultMiterLimit = 10.0
)

// Stroke describes how lines and polygon outlines are painted.
type Stroke struct {
	color      gg.Brush
	lineCap    string
	lineDash   []float64
	lineJoin   string
	miterLimit float64
	width      float64
	hooks      Hooks
	checksum   string
}

// StrokeOptions configures NewStroke. Empty LineCap and LineJoin fall back
// to DefaultLineCap and DefaultLineJoin, a zero MiterLimit to
// DefaultMiterLimit. A zero Width draws nothing and replays paint a nil
// Color as black.
type StrokeOptions struct {
	Color      gg.Brush
	LineCap    string
	LineDash   []float64
	LineJoin   string
	MiterLimit float64
	Width      float64
	Hooks
}

// NewStroke creates a stroke style.
func NewStroke(opts StrokeOptions) *Stroke {
	return &Stroke{
		color:      opts.Color,
		lineCap:    opts.LineCap,
		lineDash:   opts.LineDash,
		lineJoin:   opts.LineJoin,
		miterLimit: opts.MiterLimit,
		width:      opts.Width,
		hooks:      opts.Hooks,
	}
}

// NewSolidStroke is shorthand for a stroke with one color and width.
func NewSolidStroke(c gg.RGBA, width float64) *Stroke {
	return NewStroke(StrokeOptions{Color: gg.Solid(c), Width: width})
}

// Color returns the stroke brush.
func (s *Stroke) Color() gg.Brush { return s.color }

// LineCap returns the cap style as set, possibly empty.
func (s *Stroke) LineCap() string { return s.lineCap }

// LineDash returns the dash pattern, nil for solid lines.
func (s *Stroke) LineDash() []float64 { return s.lineDash }

// LineJoin returns the join style as set, possibly empty.
func (s *Stroke) LineJoin() string { return s.lineJoin }

// MiterLimit returns the miter limit as set, possibly zero.
func (s *Stroke) MiterLimit() float64 { return s.miterLimit }

// Width returns the line width in pixels.
func (s *Stroke) Width() float64 { return s.width }

// Hooks returns the render hooks attached to the stroke.
func (s *Stroke) Hooks() Hooks { return s.hooks }

func (s *Stroke) SetColor(b gg.Brush)     { s.color = b; s.checksum = "" }
func (s *Stroke) SetLineCap(c string)     { s.lineCap = c; s.checksum = "" }
func (s *Stroke) SetLineDash(d []float64) { s.lineDash = d; s.checksum = "" }
func (s *Stroke) SetLineJoin(j string)    { s.lineJoin = j; s.checksum = "" }
func (s *Stroke) SetMiterLimit(l float64) { s.miterLimit = l; s.checksum = "" }
func (s *Stroke) SetWidth(w float64)      { s.width = w; s.checksum = "" }
func (s *Stroke) SetHooks(h Hooks)        { s.hooks = h }

// Checksum identifies the paint of the stroke.
func (s *Stroke) Checksum() string {
	if s.checksum != "" {
		return s.checksum
	}
	var b strings.Builder
	b.WriteString("s")
	b.WriteString(brushKey(s.color))
	b.WriteString(",")
	b.WriteString(orDash(s.lineCap))
	b.WriteString(",")
	if s.lineDash == nil {
		b.WriteString("-")
	} else {
		for i, d := range s.lineDash {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(strconv.FormatFloat(d, 'g', -1, 64))
		}
	}
	fmt.Fprintf(&b, ",%s,", orDash(s.lineJoin))
	if s.miterLimit == 0 {
		b.WriteString("-")
	} else {
		b.WriteString(strconv.FormatFloat(s.miterLimit, 'g', -1, 64))
	}
	b.WriteString(",")
	b.WriteString(strconv.FormatFloat(s.width, 'g', -1, 64))
	s.checksum = digest(b.String())
	return s.checksum
}

// Resolved returns the stroke parameters with defaults applied.
func (s *Stroke) Resolved() (lineCap, lineJoin string, miterLimit float64) {
	lineCap, lineJoin, miterLimit = s.lineCap, s.lineJoin, s.miterLimit
	if lineCap == "" {
		lineCap = DefaultLineCap
	}
	if lineJoin == "" {
		lineJoin = DefaultLineJoin
	}
	if miterLimit == 0 {
		miterLimit = DefaultMiterLimit
	}
	return lineCap, lineJoin, miterLimit
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
