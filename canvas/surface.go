// Package canvas provides Surface, a Canvas2D-like drawing surface on top of
// a gg context and pixmap. Replays and render hooks draw through it.
package canvas

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/ggmap/transform"
)

// Default paint state, matching a freshly created HTML canvas.
const (
	DefaultFont         = "10px sans-serif"
	DefaultTextAlign    = "start"
	DefaultTextBaseline = "alphabetic"
	DefaultMiterLimit   = 10
)

type state struct {
	fill       gg.Brush
	stroke     gg.Brush
	lineWidth  float64
	lineCap    gg.LineCap
	lineJoin   gg.LineJoin
	miterLimit float64
	dash       []float64
	alpha      float64
	font       string
	align      string
	baseline   string
}

func defaultState() state {
	return state{
		fill:       gg.Solid(gg.Black),
		stroke:     gg.Solid(gg.Black),
		lineWidth:  1,
		lineCap:    gg.LineCapButt,
		lineJoin:   gg.LineJoinMiter,
		miterLimit: DefaultMiterLimit,
		alpha:      1,
		font:       DefaultFont,
		align:      DefaultTextAlign,
		baseline:   DefaultTextBaseline,
	}
}

// Surface is a raster drawing surface with Canvas2D paint semantics:
// separate fill and stroke styles, global alpha, a save/restore stack and
// a current path that survives Fill and Stroke.
//
// Surface is not safe for concurrent use.
type Surface struct {
	pm    *gg.Pixmap
	dc    *gg.Context
	st    state
	stack []state

	extractor *text.OutlineExtractor
}

// New creates a transparent surface of the given size in device pixels.
func New(width, height int) *Surface {
	pm := gg.NewPixmap(width, height)
	return &Surface{
		pm:        pm,
		dc:        gg.NewContext(width, height, gg.WithPixmap(pm)),
		st:        defaultState(),
		extractor: text.NewOutlineExtractor(),
	}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.pm.Width() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.pm.Height() }

// Context returns the underlying gg context for drawing that Surface does
// not wrap. Paint state set directly on it is overwritten by the next
// Fill or Stroke.
func (s *Surface) Context() *gg.Context { return s.dc }

// Pixmap returns the backing pixel buffer.
func (s *Surface) Pixmap() *gg.Pixmap { return s.pm }

// Image returns a copy of the current pixels.
func (s *Surface) Image() image.Image { return s.pm.ToImage() }

// Clear resets every pixel to transparent. Paint state is unchanged.
func (s *Surface) Clear() {
	s.pm.Clear(gg.Transparent)
}

// AlphaAt returns the opacity of pixel (x, y) in [0, 1]. Pixels outside the
// surface are transparent.
func (s *Surface) AlphaAt(x, y int) float64 {
	return s.pm.GetPixel(x, y).A
}

// Save pushes the paint state, transform and clip.
func (s *Surface) Save() {
	saved := s.st
	saved.dash = append([]float64(nil), s.st.dash...)
	s.stack = append(s.stack, saved)
	s.dc.Push()
}

// Restore pops the state pushed by the matching Save. Extra calls are
// ignored.
func (s *Surface) Restore() {
	if len(s.stack) == 0 {
		return
	}
	s.st = s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.dc.Pop()
}

// SetFillStyle sets the brush used by Fill and FillText.
func (s *Surface) SetFillStyle(b gg.Brush) { s.st.fill = b }

// FillStyle returns the current fill brush.
func (s *Surface) FillStyle() gg.Brush { return s.st.fill }

// SetStrokeStyle sets the brush used by Stroke and StrokeText.
func (s *Surface) SetStrokeStyle(b gg.Brush) { s.st.stroke = b }

// StrokeStyle returns the current stroke brush.
func (s *Surface) StrokeStyle() gg.Brush { return s.st.stroke }

// SetLineWidth sets the stroke width. Widths <= 0 disable stroking.
func (s *Surface) SetLineWidth(w float64) { s.st.lineWidth = w }

// LineWidth returns the stroke width.
func (s *Surface) LineWidth() float64 { return s.st.lineWidth }

func (s *Surface) SetLineCap(c gg.LineCap)   { s.st.lineCap = c }
func (s *Surface) SetLineJoin(j gg.LineJoin) { s.st.lineJoin = j }
func (s *Surface) SetMiterLimit(l float64)   { s.st.miterLimit = l }

// SetLineDash sets the dash pattern. An empty or all-zero pattern draws
// solid lines; a pattern with a negative entry is ignored. Odd-length
// patterns repeat once, as in Canvas2D.
func (s *Surface) SetLineDash(d []float64) {
	positive := false
	for _, v := range d {
		if v < 0 {
			return
		}
		if v > 0 {
			positive = true
		}
	}
	if !positive {
		s.st.dash = nil
		return
	}
	dash := append([]float64(nil), d...)
	if len(dash)%2 == 1 {
		dash = append(dash, d...)
	}
	s.st.dash = dash
}

// LineDash returns the dash pattern.
func (s *Surface) LineDash() []float64 { return s.st.dash }

// SetGlobalAlpha sets the opacity applied to every subsequent drawing.
// Values outside [0, 1] are ignored.
func (s *Surface) SetGlobalAlpha(a float64) {
	if a >= 0 && a <= 1 {
		s.st.alpha = a
	}
}

// GlobalAlpha returns the current global opacity.
func (s *Surface) GlobalAlpha() float64 { return s.st.alpha }

// SetFont sets the CSS font shorthand used for text.
func (s *Surface) SetFont(f string) { s.st.font = f }

// Font returns the current CSS font shorthand.
func (s *Surface) Font() string { return s.st.font }

// SetTextAlign sets the horizontal anchor: start, left, center, right or end.
func (s *Surface) SetTextAlign(a string) { s.st.align = a }

// TextAlign returns the horizontal text anchor.
func (s *Surface) TextAlign() string { return s.st.align }

// SetTextBaseline sets the vertical anchor: top, hanging, middle,
// alphabetic, ideographic or bottom.
func (s *Surface) SetTextBaseline(b string) { s.st.baseline = b }

// TextBaseline returns the vertical text anchor.
func (s *Surface) TextBaseline() string { return s.st.baseline }

// SetTransform replaces the current transform.
func (s *Surface) SetTransform(m transform.Transform) { s.dc.SetTransform(m.Matrix()) }

// Transform multiplies the current transform by m.
func (s *Surface) Transform(m transform.Transform) { s.dc.Transform(m.Matrix()) }

// ResetTransform sets the identity transform.
func (s *Surface) ResetTransform() { s.dc.Identity() }

// CurrentTransform returns the current transform.
func (s *Surface) CurrentTransform() transform.Transform {
	m := s.dc.GetTransform()
	return transform.Transform{A: m.A, B: m.B, C: m.C, D: m.D, E: m.E, F: m.F}
}

// BeginPath discards the current path.
func (s *Surface) BeginPath() { s.dc.ClearPath() }

func (s *Surface) MoveTo(x, y float64) { s.dc.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64) { s.dc.LineTo(x, y) }
func (s *Surface) ClosePath()          { s.dc.ClosePath() }

// Arc adds a closed circle of radius r around (x, y) as a new sub-path.
func (s *Surface) Arc(x, y, r float64) { s.dc.DrawCircle(x, y, r) }

// Rect adds a closed rectangle as a new sub-path.
func (s *Surface) Rect(x, y, w, h float64) { s.dc.DrawRectangle(x, y, w, h) }

// Fill paints the interior of the current path with the fill style. The
// path is kept.
func (s *Surface) Fill() error {
	s.dc.SetFillBrush(withAlpha(s.st.fill, s.st.alpha))
	return s.dc.FillPreserve()
}

// Stroke outlines the current path with the stroke style. The path is
// kept. Nothing is drawn when the line width is not positive.
func (s *Surface) Stroke() error {
	if s.st.lineWidth <= 0 {
		return nil
	}
	s.applyStroke()
	return s.dc.StrokePreserve()
}

// FillRect fills a rectangle without touching the current path.
func (s *Surface) FillRect(x, y, w, h float64) error {
	s.dc.ClearPath()
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.SetFillBrush(withAlpha(s.st.fill, s.st.alpha))
	return s.dc.Fill()
}

// Clip intersects the clip region with the current path. The path is kept.
func (s *Surface) Clip() { s.dc.ClipPreserve() }

func (s *Surface) applyStroke() {
	s.dc.SetStrokeBrush(withAlpha(s.st.stroke, s.st.alpha))
	s.dc.SetLineWidth(s.st.lineWidth)
	s.dc.SetLineCap(s.st.lineCap)
	s.dc.SetLineJoin(s.st.lineJoin)
	s.dc.SetMiterLimit(s.st.miterLimit)
	if len(s.st.dash) > 0 {
		s.dc.SetDash(s.st.dash...)
	} else {
		s.dc.ClearDash()
	}
}

// withAlpha scales the opacity of b by a.
func withAlpha(b gg.Brush, a float64) gg.Brush {
	if a >= 1 {
		return b
	}
	switch b := b.(type) {
	case gg.SolidBrush:
		return b.WithAlpha(b.Color.A * a)
	default:
		return gg.NewCustomBrush(func(x, y float64) gg.RGBA {
			c := b.ColorAt(x, y)
			c.A *= a
			return c
		})
	}
}
