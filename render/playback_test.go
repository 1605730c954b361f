package render

import (
	"image"
	"math"
	"testing"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/transform"
)

type unknownCommand struct{}

func (unknownCommand) Type() CommandType { return CommandType(255) }

func TestUnknownCommandPanics(t *testing.T) {
	r := newReplay(testOptions())
	r.emit(unknownCommand{})
	r.finish()
	mustPanic(t, "unknown command", func() {
		r.Replay(canvas.New(4, 4), 1, transform.Identity(), 0, nil, nil)
	})
}

func TestStrokeWidthInFeatureExtent(t *testing.T) {
	group := newTestGroup()
	line := feature.New(geom.NewLineString([]float64{0, 5, 20, 5}))
	outline := feature.New(square(30, 30, 40, 40))
	DrawFeature(group, line, &style.Style{Stroke: style.NewSolidStroke(gg.RGBA{A: 1}, 8)})
	DrawFeature(group, outline, &style.Style{Stroke: style.NewSolidStroke(gg.RGBA{A: 1}, 6)})
	group.Finish()

	s := canvas.New(64, 64)
	group.Replay(s, 1, transform.Identity(), 0, nil, nil)
	group.ProcessFeatureExtents()

	tests := []struct {
		name  string
		pixel [2]float64
		want  *feature.Feature
	}{
		{"line edge", [2]float64{10.5, 8.5}, line},
		{"outline edge", [2]float64{27.5, 35.5}, outline},
	}
	for _, tt := range tests {
		if a := s.AlphaAt(int(tt.pixel[0]), int(tt.pixel[1])); a == 0 {
			t.Errorf("%s: AlphaAt(%v) = 0, want painted", tt.name, tt.pixel)
		}
		if got := group.ForEachFeatureAtPixel(tt.pixel, tt.pixel, 1, 0, 1, nil, first); got != tt.want {
			t.Errorf("%s: ForEachFeatureAtPixel(%v) = %v, want the stroked feature", tt.name, tt.pixel, got)
		}
	}
}

func TestHitAtPixelWithPixelRatio(t *testing.T) {
	group := newTestGroup()
	f := feature.New(square(12, 12, 20, 20))
	DrawFeature(group, f, &style.Style{Fill: style.NewSolidFill(gg.RGBA{A: 1})})
	group.Finish()

	s := canvas.New(128, 128)
	group.Replay(s, 2, transform.Compose(0, 0, 2, 2, 0, 0, 0), 0, nil, nil)
	group.ProcessFeatureExtents()

	if a := s.AlphaAt(30, 30); a == 0 {
		t.Errorf("AlphaAt(30, 30) = 0, want the polygon in device pixels")
	}
	if got := group.ForEachFeatureAtPixel([2]float64{15, 15}, [2]float64{15, 15}, 1, 0, 2, nil, first); got != f {
		t.Errorf("ForEachFeatureAtPixel(15, 15) = %v, want the polygon", got)
	}
	if got := group.ForEachFeatureAtPixel([2]float64{8, 8}, [2]float64{8, 8}, 1, 0, 2, nil, first); got != nil {
		t.Errorf("ForEachFeatureAtPixel(8, 8) = %v, want nil", got.ID())
	}
}

func TestHookArgsFollowPass(t *testing.T) {
	var drawRotation, hitResolution, hitRotation float64
	group := newTestGroup()
	DrawFeature(group, feature.New(geom.NewPoint(10, 10)), &style.Style{CustomRendering: &style.CustomRendering{
		Render: func(_ *canvas.Surface, _ []float64, args style.RenderArgs, _ *feature.Feature, _ float64) {
			drawRotation = args.Common().ViewRotation
		},
		HitDetection: func(_ *canvas.Surface, _ []float64, args style.RenderArgs, _ *feature.Feature, _ float64) {
			c := args.Common()
			hitResolution, hitRotation = c.Resolution, c.ViewRotation
		},
	}})
	group.Finish()

	group.Replay(canvas.New(64, 64), 1, transform.Identity(), 0.3, nil, nil)
	if drawRotation != 0.3 {
		t.Errorf("render hook ViewRotation = %v, want 0.3", drawRotation)
	}

	group.ForEachFeatureAtCoordinate([2]float64{10, 10}, 4, 0.5, nil, first)
	if hitResolution != 4 || hitRotation != 0.5 {
		t.Errorf("hit hook args resolution=%v rotation=%v, want 4 and 0.5", hitResolution, hitRotation)
	}
}

func TestImageRotateWithView(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	tests := []struct {
		rotateWithView bool
		painted, clear [2]int
	}{
		{false, [2]int{25, 32}, [2]int{32, 25}},
		{true, [2]int{32, 25}, [2]int{25, 32}},
	}
	for _, tt := range tests {
		group := newTestGroup()
		f := feature.New(geom.NewPoint(32, 32))
		DrawFeature(group, f, &style.Style{Image: style.NewIcon(img, style.WithRotateWithView(tt.rotateWithView))})
		group.Finish()

		s := canvas.New(64, 64)
		group.Replay(s, 1, transform.Identity(), math.Pi/2, nil, nil)
		group.ProcessFeatureExtents()

		if a := s.AlphaAt(tt.painted[0], tt.painted[1]); a == 0 {
			t.Errorf("rotateWithView=%v: AlphaAt(%v) = 0, want painted", tt.rotateWithView, tt.painted)
		}
		if a := s.AlphaAt(tt.clear[0], tt.clear[1]); a != 0 {
			t.Errorf("rotateWithView=%v: AlphaAt(%v) = %v, want 0", tt.rotateWithView, tt.clear, a)
		}
		got := group.SpatialIndex().GetAtPixel(float64(tt.painted[0])+0.5, float64(tt.painted[1])+0.5)
		if len(got) != 1 || got[0] != f {
			t.Errorf("rotateWithView=%v: GetAtPixel(%v) = %d features, want the icon", tt.rotateWithView, tt.painted, len(got))
		}
	}
}

// paintedRowRuns returns the first row of every run of consecutive rows
// holding a pixel with alpha above one half.
func paintedRowRuns(s *canvas.Surface) []int {
	var starts []int
	prev := false
	for y := 0; y < s.Height(); y++ {
		painted := false
		for x := 0; x < s.Width() && !painted; x++ {
			painted = s.AlphaAt(x, y) > 0.5
		}
		if painted && !prev {
			starts = append(starts, y)
		}
		prev = painted
	}
	return starts
}

func labelGroup(size float64) *ReplayGroup {
	return NewReplayGroup(GroupOptions{MaxExtent: extent.Extent{0, 0, size, size}, Resolution: 1})
}

func TestMultiLineTextLayout(t *testing.T) {
	const font = "20px sans-serif"
	group := labelGroup(200)
	DrawFeature(group, feature.New(geom.NewPoint(100, 100)), &style.Style{Text: &style.Text{
		Font: font,
		Text: "M\nM\nM",
		Fill: style.NewSolidFill(gg.RGBA{A: 1}),
	}})
	group.Finish()

	s := canvas.New(200, 200)
	group.Replay(s, 1, transform.Identity(), 0, nil, nil)

	s.SetFont(font)
	lh := style.LineHeight(s)
	if want := math.Round(s.MeasureText("M") * 1.5); lh != want {
		t.Fatalf("LineHeight() = %v, want %v", lh, want)
	}
	starts := paintedRowRuns(s)
	if len(starts) != 3 {
		t.Fatalf("painted line runs = %v, want 3", starts)
	}
	for i := 1; i < len(starts); i++ {
		if d := float64(starts[i] - starts[i-1]); d != lh {
			t.Errorf("line %d starts %v rows after line %d, want %v", i, d, i-1, lh)
		}
	}
}

func TestTextFillBeforeStroke(t *testing.T) {
	group := labelGroup(100)
	DrawFeature(group, feature.New(geom.NewPoint(50, 50)), &style.Style{Text: &style.Text{
		Font:   "20px sans-serif",
		Text:   "I",
		Fill:   style.NewSolidFill(gg.RGBA{R: 1, A: 1}),
		Stroke: style.NewSolidStroke(gg.RGBA{B: 1, A: 1}, 6),
	}})
	group.Finish()

	s := canvas.New(100, 100)
	group.Replay(s, 1, transform.Identity(), 0, nil, nil)

	var stroked, filled int
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			p := s.Pixmap().GetPixel(x, y)
			switch {
			case p.A == 0:
			case p.R > p.B:
				filled++
			default:
				stroked++
			}
		}
	}
	if stroked == 0 {
		t.Fatal("label stroke painted no pixels")
	}
	if filled != 0 {
		t.Errorf("%d pixels show the fill over the stroke, want 0", filled)
	}
}

func TestMultiLineLabelIndexed(t *testing.T) {
	group := labelGroup(200)
	f := feature.New(geom.NewPoint(100, 100))
	DrawFeature(group, f, &style.Style{Text: &style.Text{
		Font: "20px sans-serif",
		Text: "NORTH\nEAST\nHILL\nWEST\nMEADOW",
		Fill: style.NewSolidFill(gg.RGBA{A: 1}),
	}})
	group.Finish()

	s := canvas.New(200, 200)
	group.Replay(s, 1, transform.Identity(), 0, nil, nil)
	group.ProcessFeatureExtents()

	idx := group.SpatialIndex()
	var painted, missed int
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if s.AlphaAt(x, y) < 1 {
				continue
			}
			painted++
			if len(idx.GetAtPixel(float64(x)+0.5, float64(y)+0.5)) == 0 {
				missed++
			}
		}
	}
	if painted == 0 {
		t.Fatal("label painted no pixels")
	}
	if missed != 0 {
		t.Errorf("%d of %d painted label pixels lie outside the indexed extent", missed, painted)
	}
}
