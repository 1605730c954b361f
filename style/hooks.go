// Package style holds the paint descriptions replays record: fills,
// strokes, text, icons and custom rendering callbacks.
//
// Styles are option bags. The renderer reads them once per draw call and
// never retains them beyond the recorded instructions, so mutating a style
// only affects geometries drawn afterwards.
package style

import (
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
)

// RenderFunc is a user render hook. coords holds the pixel-space flat
// coordinates of the geometry being drawn. args is refreshed with the
// current frame parameters right before each call.
type RenderFunc func(s *canvas.Surface, coords []float64, args RenderArgs, f *feature.Feature, pixelRatio float64)

// ExtentFunc reports the pixel extent a custom render function covers.
type ExtentFunc func(s *canvas.Surface, coords []float64, args RenderArgs, f *feature.Feature, pixelRatio float64) extent.Extent

// Hooks are the optional callbacks shared by fill, stroke, icon and
// custom rendering styles. PreRender runs before the geometry is drawn,
// PostRender after it, and ForegroundRender once the whole frame is done.
type Hooks struct {
	PreRender        RenderFunc
	PostRender       RenderFunc
	ForegroundRender RenderFunc
}

// Any reports whether at least one hook is set.
func (h Hooks) Any() bool {
	return h.PreRender != nil || h.PostRender != nil || h.ForegroundRender != nil
}
