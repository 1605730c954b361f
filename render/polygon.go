package render

import (
	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// PolygonReplay encodes filled and stroked polygons and circles. Every
// polygon is drawn with its own path; nothing is batched.
type PolygonReplay struct {
	replay

	fill        gg.Brush // nil when unfilled
	stroke      *strokeState
	fillHooks   style.Hooks
	strokeHooks style.Hooks
}

// NewPolygonReplay returns an empty polygon replay.
func NewPolygonReplay(opts ReplayOptions) *PolygonReplay {
	r := &PolygonReplay{replay: newReplay(opts)}
	r.bufferLines = true
	return r
}

func (*PolygonReplay) Type() ReplayType { return ReplayPolygon }

// SetFillStrokeStyle sets the paint of the following geometries. With
// both nil they draw nothing.
func (r *PolygonReplay) SetFillStrokeStyle(fill *style.Fill, stroke *style.Stroke) {
	r.fill = nil
	r.fillHooks = style.Hooks{}
	if fill != nil {
		r.fill = fillBrush(fill)
		r.fillHooks = fill.Hooks()
	}
	r.stroke = nil
	r.strokeHooks = style.Hooks{}
	if stroke != nil {
		st := newStrokeState(stroke)
		r.stroke = &st
		r.strokeHooks = stroke.Hooks()
		r.updateLineWidth(st.Width)
	}
}

func (r *PolygonReplay) drawable() bool {
	r.checkOpen()
	return r.fill != nil || r.stroke != nil
}

// beginHit opens a geometry block and sets the hit paint for it.
func (r *PolygonReplay) beginHit(g geom.Geometry, f *feature.Feature) {
	r.beginGeometry(g, f)
	r.emitHit(SetFillStyleCommand{Brush: hitStyle})
	if r.stroke != nil {
		hit := *r.stroke
		hit.Brush = hitStyle
		r.emitHit(SetStrokeStyleCommand{strokeState: hit, UsePixelRatio: true})
	}
}

// DrawPolygon encodes p.
func (r *PolygonReplay) DrawPolygon(p *geom.Polygon, f *feature.Feature) {
	if !r.drawable() {
		return
	}
	r.beginHit(p, f)
	r.drawRings(p.OrientedFlatCoordinates(), 0, p.Ends(), p.Stride(), f)
	r.endGeometry(f)
}

// DrawMultiPolygon encodes every polygon of m in one geometry block.
func (r *PolygonReplay) DrawMultiPolygon(m *geom.MultiPolygon, f *feature.Feature) {
	if !r.drawable() {
		return
	}
	r.beginHit(m, f)
	flat := m.OrientedFlatCoordinates()
	offset := 0
	for _, ends := range m.Endss() {
		offset = r.drawRings(flat, offset, ends, m.Stride(), f)
	}
	r.endGeometry(f)
}

// DrawCircle encodes c. Circles do not run render hooks.
func (r *PolygonReplay) DrawCircle(c *geom.Circle, f *feature.Feature) {
	if !r.drawable() {
		return
	}
	r.beginHit(c, f)
	flat := c.FlatCoordinates()
	begin := len(r.coordinates)
	r.appendFlatCoordinates(flat, 0, len(flat), c.Stride(), false)
	r.emitBoth(BeginPathCommand{}, CircleCommand{Offset: begin})
	r.emitHit(FillCommand{})
	if r.fill != nil {
		r.emit(SetFillStyleCommand{Brush: r.fill}, FillCommand{})
	}
	if r.stroke != nil {
		r.emit(SetStrokeStyleCommand{strokeState: *r.stroke, UsePixelRatio: true}, StrokeCommand{})
		r.emitHit(StrokeCommand{})
	}
	r.endGeometry(f)
}

// drawRings encodes the rings of one polygon and returns the offset past
// its last ring.
func (r *PolygonReplay) drawRings(flat []float64, offset int, ends []int, stride int, f *feature.Feature) int {
	begin := len(r.coordinates)
	var paths []Command
	var relEnds []int
	for _, end := range ends {
		b := len(r.coordinates)
		e := r.appendFlatCoordinates(flat, offset, end, stride, true)
		paths = append(paths, MoveToLineToCommand{Begin: b, End: e}, ClosePathCommand{})
		relEnds = append(relEnds, e-begin)
		offset = end
	}
	end := len(r.coordinates)

	r.emitHit(BeginPathCommand{})
	r.emitHit(paths...)
	r.emitHit(FillCommand{})
	if r.stroke != nil {
		r.emitHit(StrokeCommand{})
	}

	common := r.commonArgs()
	pathDrawn := false
	if r.fill != nil {
		args := &style.FillRenderArgs{ReplayArgs: common, Fill: r.fill, ClosePath: true}
		args.SetEnds(relEnds)
		call := hookCall{Args: args, Feature: f, Begin: begin, End: end}
		if h := r.fillHooks.PreRender; h != nil {
			call.Func = h
			r.emit(PreRenderCommand{call})
		}
		r.emit(BeginPathCommand{})
		r.emit(paths...)
		r.emit(SetFillStyleCommand{Brush: r.fill}, FillCommand{})
		pathDrawn = true
		if h := r.fillHooks.PostRender; h != nil {
			call.Func = h
			r.emit(PostRenderCommand{call})
			pathDrawn = false
		}
		if h := r.fillHooks.ForegroundRender; h != nil {
			call.Func = h
			r.emit(ForegroundRenderCommand{call})
		}
	}
	if r.stroke != nil {
		args := r.stroke.args(common, true)
		args.SetEnds(relEnds)
		call := hookCall{Args: args, Feature: f, Begin: begin, End: end}
		if h := r.strokeHooks.PreRender; h != nil {
			call.Func = h
			r.emit(PreRenderCommand{call})
			pathDrawn = false
		}
		if !pathDrawn {
			r.emit(BeginPathCommand{})
			r.emit(paths...)
		}
		r.emit(SetStrokeStyleCommand{strokeState: *r.stroke, UsePixelRatio: true}, StrokeCommand{})
		if h := r.strokeHooks.PostRender; h != nil {
			call.Func = h
			r.emit(PostRenderCommand{call})
		}
		if h := r.strokeHooks.ForegroundRender; h != nil {
			call.Func = h
			r.emit(ForegroundRenderCommand{call})
		}
	}
	return offset
}

// Finish snaps the coordinates to the tolerance grid and freezes the
// replay.
func (r *PolygonReplay) Finish() {
	if r.finished {
		return
	}
	r.snapCoordinates()
	r.finish()
	r.fill = nil
	r.stroke = nil
}
