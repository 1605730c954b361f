package render

import (
	"github.com/gogpu/gg"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// TextReplay encodes labels. Paint changes in the draw stream are emitted
// only when they differ from the previous label; the hit stream sets the
// full paint in every block.
type TextReplay struct {
	replay

	text     string
	offsetX  float64
	offsetY  float64
	rotation float64
	scale    float64
	font     textState
	fill     gg.Brush // nil when unfilled
	stroke   *strokeState
	hooks    style.Hooks

	// Paint last emitted to the draw stream.
	lastFont   *textState
	lastFill   gg.Brush
	lastStroke *strokeState
}

// NewTextReplay returns an empty label replay.
func NewTextReplay(opts ReplayOptions) *TextReplay {
	return &TextReplay{replay: newReplay(opts)}
}

func (*TextReplay) Type() ReplayType { return ReplayText }

// SetTextStyle sets the label of the following points. The text is
// normalized to NFC. A nil style, an empty text or a text with neither
// fill nor stroke draws nothing.
func (r *TextReplay) SetTextStyle(t *style.Text) {
	if t == nil {
		r.text = ""
		return
	}
	r.text = norm.NFC.String(t.Text)
	r.offsetX = t.OffsetX
	r.offsetY = t.OffsetY
	r.rotation = t.Rotation
	r.scale = t.ResolvedScale()
	r.font = textState{
		Font:         t.ResolvedFont(),
		TextAlign:    t.ResolvedAlign(),
		TextBaseline: t.ResolvedBaseline(),
	}
	r.fill = nil
	if t.Fill != nil {
		r.fill = fillBrush(t.Fill)
	}
	r.stroke = nil
	if t.Stroke != nil {
		st := newStrokeState(t.Stroke)
		r.stroke = &st
	}
	r.hooks = t.Hooks
}

// DrawText encodes the label at every point in flat[offset:end]. g and f
// identify the labelled geometry and feature.
func (r *TextReplay) DrawText(flat []float64, offset, end, stride int, g geom.Geometry, f *feature.Feature) {
	r.checkOpen()
	if r.text == "" || (r.fill == nil && r.stroke == nil) {
		return
	}
	hooked := r.hooks.Any()
	if !hooked {
		r.setReplayPaint()
	}

	begin := len(r.coordinates)
	stop := r.appendFlatCoordinates(flat, offset, end, stride, false)
	cmd := DrawTextCommand{
		Begin:    begin,
		End:      stop,
		Text:     r.text,
		OffsetX:  r.offsetX,
		OffsetY:  r.offsetY,
		Rotation: r.rotation,
		Scale:    r.scale,
		Fill:     r.fill != nil,
		Stroke:   r.stroke != nil,
	}

	r.beginGeometry(g, f)
	r.emitHit(SetTextStyleCommand{r.font})
	if r.fill != nil {
		r.emitHit(SetFillStyleCommand{Brush: hitStyle})
	}
	if r.stroke != nil {
		hit := *r.stroke
		hit.Brush = hitStyle
		r.emitHit(SetStrokeStyleCommand{strokeState: hit})
	}
	r.emitHit(cmd)

	if !hooked {
		r.emit(cmd)
		r.endGeometry(f)
		return
	}

	call := hookCall{Args: r.renderArgs(), Feature: f, Begin: begin, End: stop}
	if h := r.hooks.PreRender; h != nil {
		call.Func = h
		r.emit(PreRenderCommand{call})
	}
	r.emitPaint()
	r.emit(cmd)
	if h := r.hooks.PostRender; h != nil {
		call.Func = h
		r.emit(PostRenderCommand{call})
	}
	if h := r.hooks.ForegroundRender; h != nil {
		call.Func = h
		r.emit(ForegroundRenderCommand{call})
	}
	r.endGeometry(f)
	// Hooks may have changed the surface paint.
	r.lastFont = nil
	r.lastFill = nil
	r.lastStroke = nil
}

// setReplayPaint emits the paint that differs from what the draw stream
// last set.
func (r *TextReplay) setReplayPaint() {
	if r.lastFont == nil || *r.lastFont != r.font {
		font := r.font
		r.emit(SetTextStyleCommand{font})
		r.lastFont = &font
	}
	if r.fill != nil && (r.lastFill == nil || !style.SameBrush(r.lastFill, r.fill)) {
		r.emit(SetFillStyleCommand{Brush: r.fill})
		r.lastFill = r.fill
	}
	if r.stroke != nil && (r.lastStroke == nil || !r.lastStroke.equal(*r.stroke)) {
		st := *r.stroke
		r.emit(SetStrokeStyleCommand{strokeState: st})
		r.lastStroke = &st
	}
}

// emitPaint emits the full paint unconditionally.
func (r *TextReplay) emitPaint() {
	r.emit(SetTextStyleCommand{r.font})
	if r.fill != nil {
		r.emit(SetFillStyleCommand{Brush: r.fill})
	}
	if r.stroke != nil {
		r.emit(SetStrokeStyleCommand{strokeState: *r.stroke})
	}
}

func (r *TextReplay) renderArgs() *style.TextRenderArgs {
	common := r.commonArgs()
	args := &style.TextRenderArgs{
		ReplayArgs:   common,
		Font:         r.font.Font,
		OffsetX:      r.offsetX,
		OffsetY:      r.offsetY,
		Scale:        r.scale,
		Rotation:     r.rotation,
		Text:         r.text,
		TextAlign:    r.font.TextAlign,
		TextBaseline: r.font.TextBaseline,
	}
	if r.fill != nil {
		args.Fill = &style.FillRenderArgs{ReplayArgs: common, Fill: r.fill}
	}
	if r.stroke != nil {
		args.Stroke = r.stroke.args(common, false)
	}
	return args
}

// Finish freezes the replay.
func (r *TextReplay) Finish() {
	r.finish()
	r.text = ""
}
