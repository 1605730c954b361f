package scene

import (
	"sort"
	"sync"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/vec"
)

// Size of the built-in markers in CSS pixels.
const (
	crossSize = 6.0
	arrowSize = 5.0
)

var (
	renderersMu sync.RWMutex
	renderers   = map[string]*style.CustomRendering{
		"cross":  {Render: renderCross, Extent: crossExtent},
		"bbox":   {Render: renderBBox, NoHitDetection: true},
		"arrows": {Render: renderArrows},
	}
)

// RegisterRenderer makes c available to scene styles as name, replacing
// any renderer registered under the same name.
func RegisterRenderer(name string, c *style.CustomRendering) {
	renderersMu.Lock()
	defer renderersMu.Unlock()
	renderers[name] = c
}

// Renderers returns the sorted names of the registered renderers.
func Renderers() []string {
	renderersMu.RLock()
	defer renderersMu.RUnlock()
	names := make([]string, 0, len(renderers))
	for name := range renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupRenderer(name string) (*style.CustomRendering, bool) {
	renderersMu.RLock()
	defer renderersMu.RUnlock()
	c, ok := renderers[name]
	return c, ok
}

var markerColor = gg.Solid(gg.RGBA{R: 0.8, G: 0.1, B: 0.1, A: 1})

func markerStroke(s *canvas.Surface, pixelRatio float64) {
	s.SetStrokeStyle(markerColor)
	s.SetLineWidth(2 * pixelRatio)
	s.SetLineCap(canvas.ParseLineCap("round"))
	s.SetLineDash(nil)
}

func strokeMarker(s *canvas.Surface, renderer string) {
	if err := s.Stroke(); err != nil {
		ggmap.Logger().Warn("scene: marker stroke failed", "renderer", renderer, "err", err)
	}
}

// renderCross draws an X over every vertex.
func renderCross(s *canvas.Surface, coords []float64, _ style.RenderArgs, _ *feature.Feature, pixelRatio float64) {
	markerStroke(s, pixelRatio)
	d := crossSize / 2 * pixelRatio
	s.BeginPath()
	for i := 0; i+1 < len(coords); i += 2 {
		x, y := coords[i], coords[i+1]
		s.MoveTo(x-d, y-d)
		s.LineTo(x+d, y+d)
		s.MoveTo(x-d, y+d)
		s.LineTo(x+d, y-d)
	}
	strokeMarker(s, "cross")
}

func crossExtent(_ *canvas.Surface, coords []float64, _ style.RenderArgs, _ *feature.Feature, pixelRatio float64) extent.Extent {
	return style.ExtentFromFlatCoordinates(coords).Buffer(crossSize / 2 * pixelRatio)
}

// renderBBox outlines the pixel bounds of the geometry.
func renderBBox(s *canvas.Surface, coords []float64, _ style.RenderArgs, _ *feature.Feature, pixelRatio float64) {
	e := style.ExtentFromFlatCoordinates(coords)
	if e.IsEmpty() {
		return
	}
	markerStroke(s, pixelRatio)
	s.SetLineDash([]float64{4 * pixelRatio, 4 * pixelRatio})
	s.BeginPath()
	s.Rect(e[0], e[1], e.Width(), e.Height())
	strokeMarker(s, "bbox")
}

// renderArrows draws a chevron at the middle of every segment pointing
// along the segment.
func renderArrows(s *canvas.Surface, coords []float64, _ style.RenderArgs, _ *feature.Feature, pixelRatio float64) {
	markerStroke(s, pixelRatio)
	size := arrowSize * pixelRatio
	s.BeginPath()
	for _, seg := range vec.SegmentsFromFlatCoordinates(coords) {
		if seg.Length() < 2*size {
			continue
		}
		dir := seg.Vector().Normalize()
		tip := seg.Start.Add(seg.End).Divide(2).Add(dir.Multiply(size / 2))
		back := tip.Sub(dir.Multiply(size))
		side := dir.Rotate90Left().Multiply(size / 2)
		left, right := back.Add(side), back.Sub(side)
		s.MoveTo(left.X, left.Y)
		s.LineTo(tip.X, tip.Y)
		s.LineTo(right.X, right.Y)
	}
	strokeMarker(s, "arrows")
}
