package scene

import (
	"bytes"
	"image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// Two overlapping squares on a 64×64 view where coordinate (x, y) lands on
// pixel (x, 64-y).
const squares = `
view:
  width: 64
  height: 64
  center: [32, 32]
  resolution: 1
  background: white
features:
  - id: park
    geometry:
      type: Polygon
      coordinates: [[[0, 0], [40, 0], [40, 40], [0, 40], [0, 0]]]
    properties: {kind: green}
    styles:
      - fill: {color: "#4caf50"}
  - id: pond
    geometry:
      type: Polygon
      coordinates: [[[20, 20], [60, 20], [60, 60], [20, 60], [20, 20]]]
    styles:
      - z_index: 1
        fill: {color: blue}
        stroke: {color: black, width: 1}
`

func mustBuild(t *testing.T, doc string) *Map {
	t.Helper()
	s, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	m, err := s.Build(Options{})
	require.NoError(t, err)
	return m
}

func ids(fs []*feature.Feature) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.ID()
	}
	return out
}

func TestLoadEmpty(t *testing.T) {
	for _, doc := range []string{"", "features: []\n", "view: {width: 10}\n"} {
		_, err := Load(strings.NewReader(doc))
		assert.ErrorIs(t, err, ErrEmptyScene, "doc %q", doc)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	_, err := Load(strings.NewReader("features:\n  - id: a\n    colour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(t.TempDir() + "/missing.yaml")
	require.Error(t, err)
}

func TestGeometryBuild(t *testing.T) {
	tests := []struct {
		doc    string
		typ    geom.Type
		coords []float64
	}{
		{"{type: Point, coordinates: [1, 2]}", geom.TypePoint, []float64{1, 2}},
		{"{type: MultiPoint, coordinates: [[1, 2], [3, 4]]}", geom.TypeMultiPoint, []float64{1, 2, 3, 4}},
		{"{type: LineString, coordinates: [[0, 0], [5, 5]]}", geom.TypeLineString, []float64{0, 0, 5, 5}},
		{"{type: MultiLineString, coordinates: [[[0, 0], [1, 1]], [[2, 2], [3, 3]]]}",
			geom.TypeMultiLineString, []float64{0, 0, 1, 1, 2, 2, 3, 3}},
		{"{type: Polygon, coordinates: [[[0, 0], [1, 0], [1, 1], [0, 0]]]}",
			geom.TypePolygon, []float64{0, 0, 1, 0, 1, 1, 0, 0}},
		{"{type: MultiPolygon, coordinates: [[[[0, 0], [1, 0], [1, 1], [0, 0]]], [[[5, 5], [6, 5], [6, 6], [5, 5]]]]}",
			geom.TypeMultiPolygon, []float64{0, 0, 1, 0, 1, 1, 0, 0, 5, 5, 6, 5, 6, 6, 5, 5}},
		{"{type: Circle, coordinates: [3, 4], radius: 2}", geom.TypeCircle, []float64{3, 4, 5, 4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			var g Geometry
			require.NoError(t, yamlUnmarshal(tt.doc, &g))
			got, err := g.Build()
			require.NoError(t, err)
			assert.Equal(t, tt.typ, got.Type())
			if tt.typ != geom.TypeCircle {
				assert.Equal(t, tt.coords, got.FlatCoordinates())
			} else {
				c := got.(*geom.Circle)
				x, y := c.Center()
				assert.Equal(t, []float64{3, 4}, []float64{x, y})
				assert.InDelta(t, 2, c.Radius(), 1e-9)
			}
		})
	}
}

func TestGeometryBuildMultiPolygonEnds(t *testing.T) {
	var g Geometry
	require.NoError(t, yamlUnmarshal(
		"{type: MultiPolygon, coordinates: [[[[0, 0], [1, 0], [1, 1], [0, 0]]], [[[5, 5], [6, 5], [6, 6], [5, 5]]]]}", &g))
	got, err := g.Build()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{8}, {16}}, got.(*geom.MultiPolygon).Endss())
}

func TestGeometryBuildErrors(t *testing.T) {
	for _, doc := range []string{
		"{type: Point}",
		"{type: Point, coordinates: [1, 2, 3]}",
		"{type: LineString, coordinates: [[0, 0]]}",
		"{type: Polygon, coordinates: [[[0, 0], [1]]]}",
		"{type: Circle, coordinates: [0, 0]}",
		"{type: Point, coordinates: [[0, 0]]}",
		"{type: Triangle, coordinates: [0, 0]}",
	} {
		var g Geometry
		require.NoError(t, yamlUnmarshal(doc, &g), doc)
		_, err := g.Build()
		assert.ErrorIs(t, err, ErrGeometry, doc)
	}
}

func TestStyleBuild(t *testing.T) {
	s := Style{
		ZIndex: 3,
		Fill:   &FillSpec{Color: "red"},
		Stroke: &StrokeSpec{Color: "#000", Width: 2, LineDash: []float64{1, 1}},
		Circle: &CircleSpec{Radius: 4, Fill: &FillSpec{Color: "blue"}},
		Text:   &TextSpec{Text: "A"},
		Custom: "cross",
	}
	st, err := s.build("12px serif")
	require.NoError(t, err)

	assert.Equal(t, 3, st.ZIndex)
	require.NotNil(t, st.Fill)
	assert.True(t, style.SameBrush(st.Fill.Color(), style.NewSolidFill(canvas.MustParseColor("red")).Color()))
	assert.Equal(t, 2.0, st.Stroke.Width())
	assert.Equal(t, []float64{1, 1}, st.Stroke.LineDash())
	require.NotNil(t, st.Image)
	require.NotNil(t, st.Text)
	assert.Equal(t, "12px serif", st.Text.Font)
	assert.NotNil(t, st.Text.Fill, "labels without paint are filled")
	require.NotNil(t, st.CustomRendering)
	assert.NotNil(t, st.CustomRendering.Extent)
}

func TestStyleBuildErrors(t *testing.T) {
	_, err := (&Style{Fill: &FillSpec{Color: "not-a-colour"}}).build("")
	assert.ErrorIs(t, err, canvas.ErrInvalidColor)

	_, err = (&Style{Custom: "nope"}).build("")
	assert.ErrorIs(t, err, ErrUnknownRenderer)
}

func TestRegisterRenderer(t *testing.T) {
	assert.Subset(t, Renderers(), []string{"arrows", "bbox", "cross"})

	RegisterRenderer("test-dot", &style.CustomRendering{Render: renderCross})
	t.Cleanup(func() {
		renderersMu.Lock()
		delete(renderers, "test-dot")
		renderersMu.Unlock()
	})
	_, ok := lookupRenderer("test-dot")
	assert.True(t, ok)
}

func TestBuildDefaults(t *testing.T) {
	s := &Scene{Features: []Feature{{Geometry: Geometry{}}}}
	_, err := s.Build(Options{})
	assert.ErrorIs(t, err, ErrGeometry)

	m := mustBuild(t, "features:\n  - geometry: {type: Point, coordinates: [0, 0]}\n")
	assert.Equal(t, DefaultWidth, m.View.Width)
	assert.Equal(t, DefaultHeight, m.View.Height)
	assert.Equal(t, 1.0, m.View.PixelRatio)
	assert.NotEmpty(t, m.Features[0].ID(), "features without id get one")
	assert.False(t, m.Group.IsEmpty(), "default style draws the point")
}

func TestBuildOptionsFillView(t *testing.T) {
	s, err := Load(strings.NewReader("view: {width: 10}\nfeatures:\n  - geometry: {type: Point, coordinates: [0, 0]}\n"))
	require.NoError(t, err)
	m, err := s.Build(Options{Width: 99, Height: 20, PixelRatio: 2})
	require.NoError(t, err)
	assert.Equal(t, 10, m.View.Width, "scene values win")
	assert.Equal(t, 20, m.View.Height)
	assert.Equal(t, 2.0, m.View.PixelRatio)
}

func TestMapPixelCoordinate(t *testing.T) {
	m := mustBuild(t, squares)
	assert.Equal(t, [2]float64{10, 54}, m.Pixel([2]float64{10, 10}))
	c := m.Coordinate(10, 54)
	assert.InDelta(t, 10, c[0], 1e-9)
	assert.InDelta(t, 10, c[1], 1e-9)
}

func TestMapRenderAndHit(t *testing.T) {
	m := mustBuild(t, squares)
	assert.Equal(t, "green", mustGet(t, m.Features[0], "kind"))

	s := m.Render()
	assert.Equal(t, 64, s.Width())
	assert.InDelta(t, 1, s.AlphaAt(62, 2), 1e-6, "background")
	park := s.Pixmap().GetPixel(10, 54)
	assert.Greater(t, park.G, park.B, "park is green")
	pond := s.Pixmap().GetPixel(30, 34)
	assert.Greater(t, pond.B, pond.G, "pond paints over park")

	hit := m.Hit(30, 34)
	require.NotNil(t, hit)
	assert.Equal(t, "pond", hit.ID())
	assert.Equal(t, []string{"pond", "park"}, ids(m.HitAll(30, 34)))
	assert.Equal(t, []string{"park"}, ids(m.HitAll(10, 54)))
	assert.Nil(t, m.Hit(62, 2))

	got := m.HitCoordinate([2]float64{10, 10})
	require.NotNil(t, got)
	assert.Equal(t, "park", got.ID())
}

func TestMapHitRendersFirst(t *testing.T) {
	m := mustBuild(t, squares)
	hit := m.Hit(10, 54)
	require.NotNil(t, hit)
	assert.Equal(t, "park", hit.ID())
}

func TestMapEncode(t *testing.T) {
	m := mustBuild(t, squares)
	var buf bytes.Buffer
	require.NoError(t, m.Encode(&buf, "png"))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestMapCustomRenderers(t *testing.T) {
	m := mustBuild(t, `
view: {width: 64, height: 64, center: [32, 32]}
features:
  - id: route
    geometry:
      type: LineString
      coordinates: [[4, 32], [60, 32]]
    styles:
      - custom: arrows
      - custom: bbox
  - id: marker
    geometry: {type: Point, coordinates: [32, 10]}
    styles:
      - custom: cross
`)
	s := m.Render()
	assert.Greater(t, s.AlphaAt(32, 32), 0.0, "arrow at the segment middle")
	assert.Greater(t, s.AlphaAt(32, 54), 0.0, "cross over the marker")

	hit := m.Hit(32, 54)
	require.NotNil(t, hit)
	assert.Equal(t, "marker", hit.ID())
}

func TestStrokeMarker(t *testing.T) {
	orig := ggmap.Logger()
	t.Cleanup(func() { ggmap.SetLogger(orig) })
	var buf bytes.Buffer
	ggmap.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	s := canvas.New(16, 16)
	renderCross(s, []float64{8, 8}, nil, nil, 1)
	assert.Greater(t, s.AlphaAt(8, 8), 0.0, "cross center")
	assert.Empty(t, buf.String(), "a successful stroke logs nothing")
}

func mustGet(t *testing.T, f *feature.Feature, key string) any {
	t.Helper()
	v, ok := f.Get(key)
	require.True(t, ok, key)
	return v
}

func yamlUnmarshal(doc string, v any) error {
	return yaml.Unmarshal([]byte(doc), v)
}
