package style

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/css"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/transform"
)

var (
	// ErrNilCoordinates is returned when a hull is requested from nil
	// coordinates.
	ErrNilCoordinates = errors.New("style: nil coordinates")

	// ErrHullIndex is returned for a hull index outside the recorded rings.
	ErrHullIndex = errors.New("style: hull index out of range")
)

// RenderArgs is the argument bundle passed to render hooks. The concrete
// type is one of *ReplayArgs, *ImageRenderArgs, *FillRenderArgs,
// *StrokeRenderArgs or *TextRenderArgs.
type RenderArgs interface {
	Common() *ReplayArgs
}

// ReplayArgs carries the frame parameters every hook receives. The
// renderer refreshes Resolution, ViewRotation, PixelRatio and Projection
// right before each hook call.
type ReplayArgs struct {
	Tolerance    float64
	MaxExtent    extent.Extent
	Resolution   float64
	Projection   string
	PixelRatio   float64
	ViewRotation float64
}

// NewReplayArgs returns frame parameters with a pixel ratio of 1.
func NewReplayArgs(tolerance float64, maxExtent extent.Extent, resolution float64, projection string) ReplayArgs {
	return ReplayArgs{
		Tolerance:  tolerance,
		MaxExtent:  maxExtent,
		Resolution: resolution,
		Projection: projection,
		PixelRatio: 1,
	}
}

// Common returns a.
func (a *ReplayArgs) Common() *ReplayArgs { return a }

// Refresh updates the per-frame parameters.
func (a *ReplayArgs) Refresh(resolution, viewRotation, pixelRatio float64, projection string) {
	a.Resolution = resolution
	a.ViewRotation = viewRotation
	a.PixelRatio = pixelRatio
	a.Projection = projection
}

func (a *ReplayArgs) pixelRatio() float64 {
	if a.PixelRatio == 0 {
		return 1
	}
	return a.PixelRatio
}

// ----------------------------------------------------------------------------
// Image
// ----------------------------------------------------------------------------

// ImageRenderArgs describes an icon being drawn. AnchorOffset, Origin and
// Size are in image pixels.
type ImageRenderArgs struct {
	ReplayArgs
	AnchorOffset   [2]float64
	Origin         [2]float64
	Size           [2]float64
	Opacity        float64
	Scale          float64
	Rotation       float64
	RotateWithView bool
	SnapToPixel    bool
}

// Extent returns the pixel extent covered by the icon anchored at (x, y),
// grown by margin and transformed by the icon scale and rotation.
func (a *ImageRenderArgs) Extent(x, y, margin float64) extent.Extent {
	pr := a.pixelRatio()
	left := x - a.AnchorOffset[0]*pr
	top := y - a.AnchorOffset[1]*pr
	box := extent.Extent{
		left - margin,
		top - margin,
		left + a.Size[0]*pr + margin,
		top + a.Size[1]*pr + margin,
	}
	rotation := a.Rotation
	if a.RotateWithView {
		rotation += a.ViewRotation
	}
	m := transform.Compose(x, y, a.Scale, a.Scale, rotation, -x, -y)
	corners := m.Apply2D(box.Corners(), 0, 8, 2, nil)
	return ExtentFromFlatCoordinates(corners)
}

// ----------------------------------------------------------------------------
// Fill and stroke
// ----------------------------------------------------------------------------

// hulls records ring boundaries within a geometry's pixel coordinates.
type hulls struct {
	ends []int
}

// SetEnds records the end offset of each ring relative to the first
// coordinate handed to the hook.
func (h *hulls) SetEnds(ends []int) {
	h.ends = append([]int(nil), ends...)
}

// HullCount returns the number of recorded rings.
func (h *hulls) HullCount() int { return len(h.ends) }

func (h *hulls) hull(coords []float64, i int) ([]float64, error) {
	if coords == nil {
		return nil, ErrNilCoordinates
	}
	if i < 0 || i >= len(h.ends) {
		return nil, fmt.Errorf("%w: %d of %d", ErrHullIndex, i, len(h.ends))
	}
	start := 0
	if i > 0 {
		start = h.ends[i-1]
	}
	end := h.ends[i]
	if end > len(coords) || start > end {
		return nil, fmt.Errorf("%w: ring %d spans [%d, %d) of %d values", ErrHullIndex, i, start, end, len(coords))
	}
	return coords[start:end], nil
}

func tracePath(s *canvas.Surface, coords []float64, closePath bool) {
	for j := 0; j+1 < len(coords); j += 2 {
		if j == 0 {
			s.MoveTo(coords[j], coords[j+1])
		} else {
			s.LineTo(coords[j], coords[j+1])
		}
	}
	if closePath {
		s.ClosePath()
	}
}

// FillRenderArgs describes a polygon fill.
type FillRenderArgs struct {
	ReplayArgs
	hulls
	Fill      gg.Brush
	ClosePath bool
}

// HullCoordinates returns the coordinates of ring i.
func (a *FillRenderArgs) HullCoordinates(coords []float64, i int) ([]float64, error) {
	return a.hull(coords, i)
}

// SetPath rebuilds the polygon path on s from coords.
func (a *FillRenderArgs) SetPath(s *canvas.Surface, coords []float64) error {
	s.BeginPath()
	for i := range a.ends {
		ring, err := a.hull(coords, i)
		if err != nil {
			return err
		}
		tracePath(s, ring, a.ClosePath)
	}
	return nil
}

// StrokeRenderArgs describes a line or outline stroke. Line strings carry
// no rings; their hull is the whole coordinate slice.
type StrokeRenderArgs struct {
	ReplayArgs
	hulls
	Color      gg.Brush
	LineCap    string
	LineDash   []float64
	LineJoin   string
	MiterLimit float64
	Width      float64
	ClosePath  bool
}

// HullCoordinates returns the coordinates of ring i, or all of coords when
// no rings are recorded.
func (a *StrokeRenderArgs) HullCoordinates(coords []float64, i int) ([]float64, error) {
	if len(a.ends) == 0 {
		if coords == nil {
			return nil, ErrNilCoordinates
		}
		return coords, nil
	}
	return a.hull(coords, i)
}

// SetPath rebuilds the stroked path on s from coords.
func (a *StrokeRenderArgs) SetPath(s *canvas.Surface, coords []float64) error {
	s.BeginPath()
	if len(a.ends) == 0 {
		tracePath(s, coords, a.ClosePath)
		return nil
	}
	for i := range a.ends {
		ring, err := a.hull(coords, i)
		if err != nil {
			return err
		}
		tracePath(s, ring, a.ClosePath)
	}
	return nil
}

// ----------------------------------------------------------------------------
// Text
// ----------------------------------------------------------------------------

// TextRenderArgs describes a label.
type TextRenderArgs struct {
	ReplayArgs
	Font         string
	OffsetX      float64
	OffsetY      float64
	Scale        float64
	Rotation     float64
	Text         string
	TextAlign    string
	TextBaseline string
	Fill         *FillRenderArgs
	Stroke       *StrokeRenderArgs
}

// Height returns the line height of the font in pixels.
func (a *TextRenderArgs) Height() float64 {
	return css.Height(a.Font)
}

// LineHeight returns the distance between the baselines of a multi-line
// label, estimated from the width of a capital M.
func LineHeight(s *canvas.Surface) float64 {
	return math.Round(s.MeasureText("M") * 1.5)
}

// TextBlockCorners returns the corners of the text anchored at (x, y) in
// the order top-left, top-right, bottom-right, bottom-left, after scale
// and rotation are applied. Lines of a multi-line label are centred
// vertically on y.
func (a *TextRenderArgs) TextBlockCorners(s *canvas.Surface, x, y, padding float64) []float64 {
	prev := s.Font()
	s.SetFont(a.Font)
	lines := strings.Split(a.Text, "\n")
	var width float64
	for _, line := range lines {
		width = math.Max(width, s.MeasureText(line))
	}
	lineHeight := a.Height()
	height := lineHeight
	var shift float64
	if n := len(lines); n > 1 {
		between := LineHeight(s)
		shift = float64(n-1) / 2 * between
		height += float64(n-1) * between
	}
	s.SetFont(prev)

	var offsetX, offsetY float64
	switch a.TextAlign {
	case "center":
		offsetX = -width / 2
	case "end", "right":
		offsetX = -width
	}
	switch a.TextBaseline {
	case "hanging", "middle", "alphabetic", "ideographic":
		offsetY = -lineHeight / 2
	case "bottom":
		offsetY = -lineHeight
	}
	offsetY -= shift

	left := x + offsetX
	top := y + offsetY
	box := extent.Extent{left - padding, top - padding, left + width + padding, top + height + padding}
	scale := a.Scale * a.pixelRatio()
	m := transform.Compose(x, y, scale, scale, a.Rotation, -x, -y)
	return m.Apply2D(box.Corners(), 0, 8, 2, nil)
}

// Extent returns the bounding box of TextBlockCorners.
func (a *TextRenderArgs) Extent(s *canvas.Surface, x, y, padding float64) extent.Extent {
	return ExtentFromFlatCoordinates(a.TextBlockCorners(s, x, y, padding))
}

// ----------------------------------------------------------------------------
// Flat coordinate helpers
// ----------------------------------------------------------------------------

// ExtentFromFlatCoordinates returns the bounding box of xy pairs. Nil
// coordinates yield an empty extent.
func ExtentFromFlatCoordinates(coords []float64) extent.Extent {
	e := extent.CreateEmpty()
	for i := 0; i+1 < len(coords); i += 2 {
		e = e.ExtendXY(coords[i], coords[i+1])
	}
	return e
}

// ExtentToFlatCoordinates returns the four corners of e as an open ring
// starting at the minimum corner.
func ExtentToFlatCoordinates(e extent.Extent) []float64 {
	return e.Corners()
}

// Midpoints returns the floored midpoint of each segment. When polygon is
// true the segment from the last vertex back to the first is included.
func Midpoints(coords []float64, polygon bool) []float64 {
	n := len(coords) / 2
	if n < 2 {
		return nil
	}
	out := make([]float64, 0, len(coords))
	mid := func(i, j int) {
		out = append(out,
			math.Floor((coords[2*i]+coords[2*j])/2),
			math.Floor((coords[2*i+1]+coords[2*j+1])/2))
	}
	for i := 0; i+1 < n; i++ {
		mid(i, i+1)
	}
	if polygon {
		mid(n-1, 0)
	}
	return out
}
