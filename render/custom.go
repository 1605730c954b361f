package render

import (
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// CustomRenderingReplay hands geometries of any type to user render
// functions.
type CustomRenderingReplay struct {
	replay

	render style.RenderFunc
	hit    style.RenderFunc
	extent style.ExtentFunc
	hooks  style.Hooks
}

// NewCustomRenderingReplay returns an empty custom replay.
func NewCustomRenderingReplay(opts ReplayOptions) *CustomRenderingReplay {
	return &CustomRenderingReplay{replay: newReplay(opts)}
}

func (*CustomRenderingReplay) Type() ReplayType { return ReplayCustomRendering }

// SetCustomRenderingStyle sets the functions of the following geometries.
// A nil style or one without a Render function draws nothing.
func (r *CustomRenderingReplay) SetCustomRenderingStyle(c *style.CustomRendering) {
	if c == nil || c.Render == nil {
		*r = CustomRenderingReplay{replay: r.replay}
		return
	}
	r.render = c.Render
	r.hit = c.HitDetectionFunc()
	r.extent = c.Extent
	r.hooks = c.Hooks
}

// DrawGeometry encodes g. The render functions receive all of its pixel
// coordinates, ring boundaries included, as one flat slice.
func (r *CustomRenderingReplay) DrawGeometry(g geom.Geometry, f *feature.Feature) {
	r.checkOpen()
	if r.render == nil {
		return
	}
	flat := g.FlatCoordinates()
	begin := len(r.coordinates)
	end := r.appendFlatCoordinates(flat, 0, len(flat), g.Stride(), false)
	common := r.commonArgs()
	call := hookCall{Args: &common, Feature: f, Begin: begin, End: end}

	r.beginGeometry(g, f)
	if h := r.hooks.PreRender; h != nil {
		call.Func = h
		r.emit(PreRenderCommand{call})
	}
	call.Func = r.render
	r.emit(CustomRenderCommand{hookCall: call, Extent: r.extent})
	if r.hit != nil {
		hit := call
		hit.Func = r.hit
		r.emitHit(CustomRenderCommand{hookCall: hit, Extent: r.extent})
	}
	if h := r.hooks.PostRender; h != nil {
		call.Func = h
		r.emit(PostRenderCommand{call})
	}
	if h := r.hooks.ForegroundRender; h != nil {
		call.Func = h
		r.emit(ForegroundRenderCommand{call})
	}
	r.endGeometry(f)
}

// Finish freezes the replay.
func (r *CustomRenderingReplay) Finish() {
	r.finish()
	r.render = nil
	r.hit = nil
	r.extent = nil
}
