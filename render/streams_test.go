package render

import (
	"image"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/transform"
)

func noopHook(*canvas.Surface, []float64, style.RenderArgs, *feature.Feature, float64) {}

func TestLineStringBatching(t *testing.T) {
	r := NewLineStringReplay(testOptions())
	r.SetFillStrokeStyle(nil, style.NewSolidStroke(gg.RGBA{B: 1, A: 1}, 2))
	r.DrawLineString(geom.NewLineString([]float64{0, 0, 10, 10}), feature.New(nil))
	r.DrawLineString(geom.NewLineString([]float64{20, 20, 30, 30}), feature.New(nil))
	r.Finish()

	draw, hit := r.Commands()
	assertTypes(t, "draw", draw,
		CmdSetStrokeStyle, CmdBeginPath,
		CmdBeginGeometry, CmdMoveToLineTo, CmdEndGeometry,
		CmdBeginGeometry, CmdMoveToLineTo, CmdEndGeometry,
		CmdStroke)
	assertTypes(t, "hit", hit,
		CmdBeginGeometry, CmdSetStrokeStyle, CmdBeginPath, CmdMoveToLineTo, CmdStroke, CmdEndGeometry,
		CmdBeginGeometry, CmdSetStrokeStyle, CmdBeginPath, CmdMoveToLineTo, CmdStroke, CmdEndGeometry)
	if m := hit[3].(MoveToLineToCommand); m.Begin != 4 {
		t.Errorf("first hit block starts at %d, want 4 (last drawn line first)", m.Begin)
	}
	if s := hit[1].(SetStrokeStyleCommand); !style.SameBrush(s.Brush, hitStyle) || s.Width != 2 {
		t.Errorf("hit stroke = %+v, want hit brush with width 2", s.strokeState)
	}
}

func TestLineStringStyleChangeFlushes(t *testing.T) {
	r := NewLineStringReplay(testOptions())
	r.SetFillStrokeStyle(nil, style.NewSolidStroke(gg.RGBA{B: 1, A: 1}, 2))
	r.DrawLineString(geom.NewLineString([]float64{0, 0, 10, 10}), feature.New(nil))
	r.SetFillStrokeStyle(nil, style.NewSolidStroke(gg.RGBA{R: 1, A: 1}, 2))
	r.DrawLineString(geom.NewLineString([]float64{20, 20, 30, 30}), feature.New(nil))
	r.Finish()

	draw, _ := r.Commands()
	assertTypes(t, "draw", draw,
		CmdSetStrokeStyle, CmdBeginPath,
		CmdBeginGeometry, CmdMoveToLineTo, CmdEndGeometry,
		CmdStroke, CmdBeginPath,
		CmdSetStrokeStyle, CmdBeginPath,
		CmdBeginGeometry, CmdMoveToLineTo, CmdEndGeometry,
		CmdStroke)
}

func TestLineStringHooks(t *testing.T) {
	st := style.NewSolidStroke(gg.RGBA{A: 1}, 1)
	st.SetHooks(style.Hooks{PreRender: noopHook, PostRender: noopHook})
	r := NewLineStringReplay(testOptions())
	r.SetFillStrokeStyle(nil, st)
	r.DrawMultiLineString(geom.NewMultiLineString([]float64{0, 0, 10, 10, 20, 20, 30, 30}, []int{4, 8}), feature.New(nil))
	r.Finish()

	draw, _ := r.Commands()
	assertTypes(t, "draw", draw,
		CmdSetStrokeStyle, CmdBeginPath,
		CmdBeginGeometry, CmdPreRender,
		CmdSetStrokeStyle, CmdBeginPath, CmdMoveToLineTo, CmdMoveToLineTo, CmdStroke,
		CmdPostRender, CmdSetStrokeStyle, CmdBeginPath,
		CmdEndGeometry)
	pre := draw[3].(PreRenderCommand)
	args, ok := pre.Args.(*style.StrokeRenderArgs)
	if !ok {
		t.Fatalf("PreRender args = %T, want *style.StrokeRenderArgs", pre.Args)
	}
	if args.HullCount() != 2 {
		t.Errorf("HullCount() = %d, want 2", args.HullCount())
	}
	if pre.Begin != 0 || pre.End != 8 {
		t.Errorf("hook range = [%d, %d), want [0, 8)", pre.Begin, pre.End)
	}
}

func TestLineStringNilStroke(t *testing.T) {
	r := NewLineStringReplay(testOptions())
	r.SetFillStrokeStyle(nil, nil)
	r.DrawLineString(geom.NewLineString([]float64{0, 0, 10, 10}), feature.New(nil))
	r.Finish()
	if !r.IsEmpty() {
		t.Error("IsEmpty() = false, want true without a stroke")
	}
}

func TestPolygonFillAndStroke(t *testing.T) {
	r := NewPolygonReplay(testOptions())
	r.SetFillStrokeStyle(style.NewSolidFill(gg.RGBA{R: 1, A: 1}), style.NewSolidStroke(gg.RGBA{A: 1}, 1))
	r.DrawPolygon(geom.NewPolygon([]float64{0, 0, 10, 0, 10, 10, 0, 10}, []int{8}), feature.New(nil))
	r.Finish()

	draw, hit := r.Commands()
	assertTypes(t, "draw", draw,
		CmdBeginGeometry, CmdBeginPath, CmdMoveToLineTo, CmdClosePath,
		CmdSetFillStyle, CmdFill, CmdSetStrokeStyle, CmdStroke,
		CmdEndGeometry)
	assertTypes(t, "hit", hit,
		CmdBeginGeometry, CmdSetFillStyle, CmdSetStrokeStyle,
		CmdBeginPath, CmdMoveToLineTo, CmdClosePath, CmdFill, CmdStroke,
		CmdEndGeometry)
	if n := len(r.Coordinates()); n != 10 {
		t.Errorf("len(Coordinates()) = %d, want 10 with the closing vertex", n)
	}
}

func TestPolygonStrokeOnly(t *testing.T) {
	r := NewPolygonReplay(testOptions())
	r.SetFillStrokeStyle(nil, style.NewSolidStroke(gg.RGBA{A: 1}, 1))
	r.DrawPolygon(geom.NewPolygon([]float64{0, 0, 10, 0, 10, 10}, []int{6}), feature.New(nil))
	r.Finish()

	draw, hit := r.Commands()
	assertTypes(t, "draw", draw,
		CmdBeginGeometry, CmdBeginPath, CmdMoveToLineTo, CmdClosePath,
		CmdSetStrokeStyle, CmdStroke, CmdEndGeometry)
	// The interior of a stroke-only polygon is still hittable.
	assertTypes(t, "hit", hit,
		CmdBeginGeometry, CmdSetFillStyle, CmdSetStrokeStyle,
		CmdBeginPath, CmdMoveToLineTo, CmdClosePath, CmdFill, CmdStroke,
		CmdEndGeometry)
}

func TestPolygonHooksRebuildPath(t *testing.T) {
	fill := style.NewSolidFill(gg.RGBA{R: 1, A: 1})
	fill.SetHooks(style.Hooks{PostRender: noopHook})
	stroke := style.NewSolidStroke(gg.RGBA{A: 1}, 1)
	stroke.SetHooks(style.Hooks{PreRender: noopHook, ForegroundRender: noopHook})
	r := NewPolygonReplay(testOptions())
	r.SetFillStrokeStyle(fill, stroke)
	r.DrawMultiPolygon(geom.NewMultiPolygon(
		[]float64{0, 0, 10, 0, 10, 10, 20, 20, 30, 20, 30, 30},
		[][]int{{6}, {12}},
	), feature.New(nil))
	r.Finish()

	draw, _ := r.Commands()
	poly := []CommandType{
		CmdBeginPath, CmdMoveToLineTo, CmdClosePath, CmdSetFillStyle, CmdFill, CmdPostRender,
		CmdPreRender, CmdBeginPath, CmdMoveToLineTo, CmdClosePath, CmdSetStrokeStyle, CmdStroke,
		CmdForegroundRender,
	}
	want := []CommandType{CmdBeginGeometry}
	want = append(want, poly...)
	want = append(want, poly...)
	want = append(want, CmdEndGeometry)
	assertTypes(t, "draw", draw, want...)

	// Hook ranges address each polygon on its own.
	second := draw[1+len(poly)+5].(PostRenderCommand)
	if second.Begin != 8 || second.End != 16 {
		t.Errorf("second polygon range = [%d, %d), want [8, 16)", second.Begin, second.End)
	}
	args := second.Args.(*style.FillRenderArgs)
	ring, err := args.HullCoordinates(make([]float64, 8), 0)
	if err != nil || len(ring) != 8 {
		t.Errorf("HullCoordinates() = %v, %v, want 8 values", ring, err)
	}
}

func TestPolygonCircle(t *testing.T) {
	r := NewPolygonReplay(testOptions())
	r.SetFillStrokeStyle(style.NewSolidFill(gg.RGBA{A: 1}), nil)
	r.DrawCircle(geom.NewCircle(50, 50, 5), feature.New(nil))
	r.Finish()

	draw, hit := r.Commands()
	assertTypes(t, "draw", draw,
		CmdBeginGeometry, CmdBeginPath, CmdCircle, CmdSetFillStyle, CmdFill, CmdEndGeometry)
	assertTypes(t, "hit", hit,
		CmdBeginGeometry, CmdSetFillStyle, CmdBeginPath, CmdCircle, CmdFill, CmdEndGeometry)
}

func TestImageReplayStreams(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	icon := style.NewIcon(img)
	pool := canvas.NewImagePool()
	r := NewImageReplay(testOptions(), pool)
	r.SetImageStyle(icon)
	r.DrawMultiPoint(geom.NewMultiPoint([]float64{10, 10, 20, 20}), feature.New(nil))
	r.Finish()

	draw, hit := r.Commands()
	assertTypes(t, "draw", draw, CmdBeginGeometry, CmdDrawImage, CmdEndGeometry)
	assertTypes(t, "hit", hit, CmdBeginGeometry, CmdDrawImage, CmdEndGeometry)
	d := draw[1].(DrawImageCommand)
	h := hit[1].(DrawImageCommand)
	if d.Image == h.Image {
		t.Error("hit stream draws the display image, want the silhouette")
	}
	if d.Begin != 0 || d.End != 4 {
		t.Errorf("DrawImage range = [%d, %d), want [0, 4)", d.Begin, d.End)
	}
	if pool.Len() != 1 {
		t.Errorf("pool.Len() = %d, want 1", pool.Len())
	}
}

func TestTextReplayCachesPaint(t *testing.T) {
	txt := &style.Text{Text: "e\u0301", Fill: style.NewSolidFill(gg.RGBA{A: 1})}
	r := NewTextReplay(testOptions())
	r.SetTextStyle(txt)
	r.DrawText([]float64{10, 10}, 0, 2, 2, geom.NewPoint(10, 10), feature.New(nil))
	r.SetTextStyle(txt)
	r.DrawText([]float64{20, 20}, 0, 2, 2, geom.NewPoint(20, 20), feature.New(nil))
	r.Finish()

	draw, hit := r.Commands()
	assertTypes(t, "draw", draw,
		CmdSetTextStyle, CmdSetFillStyle,
		CmdBeginGeometry, CmdDrawText, CmdEndGeometry,
		CmdBeginGeometry, CmdDrawText, CmdEndGeometry)
	assertTypes(t, "hit", hit,
		CmdBeginGeometry, CmdSetTextStyle, CmdSetFillStyle, CmdDrawText, CmdEndGeometry,
		CmdBeginGeometry, CmdSetTextStyle, CmdSetFillStyle, CmdDrawText, CmdEndGeometry)

	d := draw[3].(DrawTextCommand)
	if d.Text != "\u00e9" {
		t.Errorf("Text = %q, want NFC %q", d.Text, "\u00e9")
	}
	if !d.Fill || d.Stroke {
		t.Errorf("Fill, Stroke = %v, %v, want true, false", d.Fill, d.Stroke)
	}
	if s := draw[0].(SetTextStyleCommand); s.Font != style.DefaultFont || s.TextAlign != "center" || s.TextBaseline != "middle" {
		t.Errorf("SetTextStyle = %+v, want defaults", s.textState)
	}
}

func TestTextReplayHooks(t *testing.T) {
	txt := &style.Text{
		Text:   "a",
		Stroke: style.NewSolidStroke(gg.RGBA{A: 1}, 2),
		Hooks:  style.Hooks{PreRender: noopHook},
	}
	r := NewTextReplay(testOptions())
	r.SetTextStyle(txt)
	r.DrawText([]float64{10, 10}, 0, 2, 2, geom.NewPoint(10, 10), feature.New(nil))
	r.Finish()

	draw, _ := r.Commands()
	assertTypes(t, "draw", draw,
		CmdBeginGeometry, CmdPreRender, CmdSetTextStyle, CmdSetStrokeStyle, CmdDrawText, CmdEndGeometry)
	args := draw[1].(PreRenderCommand).Args.(*style.TextRenderArgs)
	if args.Stroke == nil || args.Stroke.Width != 2 || args.Fill != nil {
		t.Errorf("TextRenderArgs = %+v, want stroke width 2 and no fill", args)
	}
	if s := draw[3].(SetStrokeStyleCommand); s.UsePixelRatio {
		t.Error("text stroke width scales with pixel ratio, want unscaled")
	}
}

func TestTextReplayNothingToDraw(t *testing.T) {
	r := NewTextReplay(testOptions())
	r.SetTextStyle(&style.Text{Text: "a"})
	r.DrawText([]float64{10, 10}, 0, 2, 2, geom.NewPoint(10, 10), feature.New(nil))
	r.SetTextStyle(&style.Text{Fill: style.NewSolidFill(gg.RGBA{A: 1})})
	r.DrawText([]float64{10, 10}, 0, 2, 2, geom.NewPoint(10, 10), feature.New(nil))
	r.Finish()
	if !r.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
}

func TestCustomRenderingStreams(t *testing.T) {
	var rendered, hitRendered int
	c := &style.CustomRendering{
		Render: func(*canvas.Surface, []float64, style.RenderArgs, *feature.Feature, float64) { rendered++ },
		HitDetection: func(*canvas.Surface, []float64, style.RenderArgs, *feature.Feature, float64) {
			hitRendered++
		},
		Hooks: style.Hooks{PostRender: noopHook},
	}
	r := NewCustomRenderingReplay(testOptions())
	r.SetCustomRenderingStyle(c)
	r.DrawGeometry(geom.NewLineString([]float64{10, 10, 20, 20}), feature.New(nil))
	r.Finish()

	draw, hit := r.Commands()
	assertTypes(t, "draw", draw, CmdBeginGeometry, CmdCustomRender, CmdPostRender, CmdEndGeometry)
	assertTypes(t, "hit", hit, CmdBeginGeometry, CmdCustomRender, CmdEndGeometry)

	s := canvas.New(32, 32)
	r.Replay(s, 1, transform.Identity(), 0, nil, nil)
	r.ReplayHitDetection(s, transform.Identity(), 1, 0, nil, func(*feature.Feature) bool { return false }, nil, nil)
	if rendered != 1 || hitRendered != 1 {
		t.Errorf("render calls = %d, hit calls = %d, want 1, 1", rendered, hitRendered)
	}
}

func TestCustomRenderingWithoutRender(t *testing.T) {
	r := NewCustomRenderingReplay(testOptions())
	r.SetCustomRenderingStyle(&style.CustomRendering{Render: noopHook})
	r.SetCustomRenderingStyle(&style.CustomRendering{})
	r.DrawGeometry(geom.NewPoint(1, 1), feature.New(nil))
	r.Finish()
	if !r.IsEmpty() {
		t.Error("IsEmpty() = false, want true for a style without Render")
	}
}

func TestCustomRenderingNoHitDetection(t *testing.T) {
	r := NewCustomRenderingReplay(testOptions())
	r.SetCustomRenderingStyle(&style.CustomRendering{Render: noopHook, NoHitDetection: true})
	r.DrawGeometry(geom.NewPoint(1, 1), feature.New(nil))
	r.Finish()
	_, hit := r.Commands()
	assertTypes(t, "hit", hit, CmdBeginGeometry, CmdEndGeometry)
}
