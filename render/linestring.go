package render

import (
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// LineStringReplay encodes stroked lines. Consecutive lines sharing a
// stroke are batched into one path and stroked once.
type LineStringReplay struct {
	replay

	state   *strokeState // requested stroke, nil draws nothing
	current *strokeState // last stroke emitted to the draw stream
	hooks   style.Hooks

	// lastStroke is the buffer length at the last emitted Stroke. Lines
	// appended after it are still waiting for one.
	lastStroke int
}

// NewLineStringReplay returns an empty line replay.
func NewLineStringReplay(opts ReplayOptions) *LineStringReplay {
	r := &LineStringReplay{replay: newReplay(opts)}
	r.bufferLines = true
	return r
}

func (*LineStringReplay) Type() ReplayType { return ReplayLineString }

// SetFillStrokeStyle sets the stroke of the following lines. Lines have no
// fill; fill is accepted for symmetry with PolygonReplay and ignored. A nil
// stroke makes the following lines draw nothing.
func (r *LineStringReplay) SetFillStrokeStyle(fill *style.Fill, stroke *style.Stroke) {
	if stroke == nil {
		r.state = nil
		r.hooks = style.Hooks{}
		return
	}
	st := newStrokeState(stroke)
	r.state = &st
	r.hooks = stroke.Hooks()
	r.updateLineWidth(st.Width)
}

// DrawLineString encodes one line.
func (r *LineStringReplay) DrawLineString(l *geom.LineString, f *feature.Feature) {
	flat := l.FlatCoordinates()
	r.drawLines(l, f, flat, []int{len(flat)}, l.Stride(), false)
}

// DrawMultiLineString encodes every line of m in one geometry block.
func (r *LineStringReplay) DrawMultiLineString(m *geom.MultiLineString, f *feature.Feature) {
	r.drawLines(m, f, m.FlatCoordinates(), m.Ends(), m.Stride(), true)
}

func (r *LineStringReplay) drawLines(g geom.Geometry, f *feature.Feature, flat []float64, ends []int, stride int, multi bool) {
	r.checkOpen()
	if r.state == nil {
		return
	}
	r.setStrokeStyle()
	hooked := r.hooks.Any()
	if hooked {
		r.flushStroke()
	}

	begin := len(r.coordinates)
	var paths []Command
	var relEnds []int
	offset := 0
	for _, end := range ends {
		b := len(r.coordinates)
		e := r.appendFlatCoordinates(flat, offset, end, stride, false)
		paths = append(paths, MoveToLineToCommand{Begin: b, End: e})
		relEnds = append(relEnds, e-begin)
		offset = end
	}
	end := len(r.coordinates)

	r.beginGeometry(g, f)

	hit := *r.state
	hit.Brush = hitStyle
	r.emitHit(SetStrokeStyleCommand{strokeState: hit, UsePixelRatio: true}, BeginPathCommand{})
	r.emitHit(paths...)
	r.emitHit(StrokeCommand{})

	if !hooked {
		r.emit(paths...)
		r.endGeometry(f)
		return
	}

	args := r.state.args(r.commonArgs(), false)
	if multi {
		args.SetEnds(relEnds)
	}
	call := hookCall{Args: args, Feature: f, Begin: begin, End: end}
	set := SetStrokeStyleCommand{strokeState: *r.state, UsePixelRatio: true}
	if h := r.hooks.PreRender; h != nil {
		call.Func = h
		r.emit(PreRenderCommand{call})
	}
	r.emit(set, BeginPathCommand{})
	r.emit(paths...)
	r.emit(StrokeCommand{})
	if h := r.hooks.PostRender; h != nil {
		call.Func = h
		r.emit(PostRenderCommand{call})
	}
	r.emit(set, BeginPathCommand{})
	if h := r.hooks.ForegroundRender; h != nil {
		call.Func = h
		r.emit(ForegroundRenderCommand{call})
	}
	r.endGeometry(f)
	r.lastStroke = len(r.coordinates)
}

// setStrokeStyle emits a stroke change to the draw stream when the
// requested stroke differs from the last one emitted. Lines already on the
// path are stroked first.
func (r *LineStringReplay) setStrokeStyle() {
	if r.current != nil && r.current.equal(*r.state) {
		return
	}
	r.flushStroke()
	st := *r.state
	r.emit(SetStrokeStyleCommand{strokeState: st, UsePixelRatio: true}, BeginPathCommand{})
	r.current = &st
}

// flushStroke strokes the lines waiting on the path.
func (r *LineStringReplay) flushStroke() {
	if r.lastStroke == len(r.coordinates) {
		return
	}
	r.emit(StrokeCommand{}, BeginPathCommand{})
	r.lastStroke = len(r.coordinates)
}

// Finish strokes the last batch and freezes the replay.
func (r *LineStringReplay) Finish() {
	if r.finished {
		return
	}
	if r.lastStroke != len(r.coordinates) {
		r.emit(StrokeCommand{})
		r.lastStroke = len(r.coordinates)
	}
	r.finish()
	r.state = nil
	r.current = nil
}
