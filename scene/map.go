package scene

import (
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/render"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/transform"
)

// Fallbacks for view values neither the scene nor the Options set.
const (
	DefaultWidth      = 256
	DefaultHeight     = 256
	DefaultResolution = 1.0
	DefaultProjection = "EPSG:3857"
)

// Options supplies the view values a scene leaves unset.
type Options struct {
	Width        int
	Height       int
	PixelRatio   float64
	RenderBuffer float64
	DefaultFont  string
}

// Map is a built scene: a finished replay group and the view it is drawn
// for. A Map is safe for concurrent use.
type Map struct {
	View     View
	Features []*feature.Feature
	Group    *render.ReplayGroup

	background gg.Brush
	// css maps coordinates to CSS pixels, device to device pixels.
	css    transform.Transform
	device transform.Transform

	mu       sync.Mutex
	surface  *canvas.Surface
	rendered bool
}

func (v View) resolve(opts Options) View {
	if v.Width <= 0 {
		v.Width = opts.Width
	}
	if v.Width <= 0 {
		v.Width = DefaultWidth
	}
	if v.Height <= 0 {
		v.Height = opts.Height
	}
	if v.Height <= 0 {
		v.Height = DefaultHeight
	}
	if v.PixelRatio <= 0 {
		v.PixelRatio = opts.PixelRatio
	}
	if v.PixelRatio <= 0 {
		v.PixelRatio = 1
	}
	if v.Resolution <= 0 {
		v.Resolution = DefaultResolution
	}
	if v.Projection == "" {
		v.Projection = DefaultProjection
	}
	return v
}

// Build resolves the view, converts every feature and encodes it into a
// new replay group, which is finished before Build returns.
func (s *Scene) Build(opts Options) (*Map, error) {
	v := s.View.resolve(opts)
	m := &Map{
		View: v,
		css: transform.Compose(float64(v.Width)/2, float64(v.Height)/2,
			1/v.Resolution, -1/v.Resolution, -v.Rotation, -v.Center[0], -v.Center[1]),
		device: transform.Compose(float64(v.Width)*v.PixelRatio/2, float64(v.Height)*v.PixelRatio/2,
			v.PixelRatio/v.Resolution, -v.PixelRatio/v.Resolution, -v.Rotation, -v.Center[0], -v.Center[1]),
	}
	if v.Background != "" {
		c, err := canvas.ParseColor(v.Background)
		if err != nil {
			return nil, fmt.Errorf("scene: background: %w", err)
		}
		m.background = gg.Solid(c)
	}

	m.Group = render.NewReplayGroup(render.GroupOptions{
		Tolerance:    v.Tolerance,
		MaxExtent:    m.viewExtent(),
		Resolution:   v.Resolution,
		Projection:   v.Projection,
		RenderBuffer: opts.RenderBuffer,
	})

	m.Features = make([]*feature.Feature, 0, len(s.Features))
	for i := range s.Features {
		sf := &s.Features[i]
		f, styles, err := sf.build(opts.DefaultFont)
		if err != nil {
			name := sf.ID
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, fmt.Errorf("scene: feature %s: %w", name, err)
		}
		for _, st := range styles {
			render.DrawFeature(m.Group, f, st)
		}
		m.Features = append(m.Features, f)
	}
	m.Group.Finish()
	ggmap.Logger().Info("scene: built", "features", len(m.Features), "width", v.Width, "height", v.Height)
	return m, nil
}

func (sf *Feature) build(defaultFont string) (*feature.Feature, []*style.Style, error) {
	g, err := sf.Geometry.Build()
	if err != nil {
		return nil, nil, err
	}
	var f *feature.Feature
	if sf.ID != "" {
		f = feature.NewWithID(sf.ID, g)
	} else {
		f = feature.New(g)
	}
	for k, v := range sf.Properties {
		f.Set(k, v)
	}
	if len(sf.Styles) == 0 {
		return f, style.Default(f, 0), nil
	}
	styles := make([]*style.Style, 0, len(sf.Styles))
	for i := range sf.Styles {
		st, err := sf.Styles[i].build(defaultFont)
		if err != nil {
			return nil, nil, fmt.Errorf("style %d: %w", i, err)
		}
		styles = append(styles, st)
	}
	return f, styles, nil
}

// viewExtent returns the coordinate bounds of the visible area.
func (m *Map) viewExtent() extent.Extent {
	w, h := float64(m.View.Width), float64(m.View.Height)
	corners := []float64{0, 0, w, 0, w, h, 0, h}
	inv := m.css.Invert()
	coords := inv.Apply2D(corners, 0, len(corners), 2, nil)
	return extent.FromFlatCoordinates(coords, 0, len(coords), 2)
}

// Coordinate returns the map coordinate under the CSS pixel (x, y).
func (m *Map) Coordinate(x, y float64) [2]float64 {
	cx, cy := m.css.Invert().Apply(x, y)
	return [2]float64{cx, cy}
}

// Pixel returns the CSS pixel of a map coordinate.
func (m *Map) Pixel(c [2]float64) [2]float64 {
	x, y := m.css.Apply(c[0], c[1])
	return [2]float64{x, y}
}

// Render draws the map and refreshes the spatial index used by Hit. The
// returned surface is reused by later calls.
func (m *Map) Render() *canvas.Surface {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.render()
}

func (m *Map) render() *canvas.Surface {
	v := m.View
	w := int(float64(v.Width) * v.PixelRatio)
	h := int(float64(v.Height) * v.PixelRatio)
	if m.surface == nil {
		m.surface = canvas.New(w, h)
	}
	s := m.surface
	s.Clear()
	if m.background != nil {
		s.SetFillStyle(m.background)
		if err := s.FillRect(0, 0, float64(w), float64(h)); err != nil {
			ggmap.Logger().Warn("scene: background fill failed", "err", err)
		}
	}

	frame := render.NewFrameState(render.ViewState{
		Resolution: v.Resolution,
		Rotation:   v.Rotation,
		Projection: v.Projection,
	})
	m.Group.Replay(s, v.PixelRatio, m.device, v.Rotation, nil, frame)
	frame.Flush()
	m.Group.ProcessFeatureExtents()
	m.rendered = true
	return s
}

// Encode renders the map and writes it in format.
func (m *Map) Encode(w io.Writer, format string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.render().Encode(w, format)
}

// Hit returns the topmost feature drawn at the CSS pixel (x, y), or nil.
// The map is rendered first if it has not been yet.
func (m *Map) Hit(x, y float64) *feature.Feature {
	var hit *feature.Feature
	m.forEachAt(x, y, func(f *feature.Feature) bool {
		hit = f
		return true
	})
	return hit
}

// HitAll returns every feature drawn at the CSS pixel (x, y), topmost
// first.
func (m *Map) HitAll(x, y float64) []*feature.Feature {
	var hits []*feature.Feature
	seen := render.NewFeatureSet()
	m.forEachAt(x, y, func(f *feature.Feature) bool {
		if !seen.Has(f) {
			seen.Add(f)
			hits = append(hits, f)
		}
		return false
	})
	return hits
}

func (m *Map) forEachAt(x, y float64, cb func(*feature.Feature) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.rendered {
		m.render()
	}
	v := m.View
	m.Group.ForEachFeatureAtPixel([2]float64{x, y}, m.Coordinate(x, y), v.Resolution, v.Rotation, v.PixelRatio, nil, cb)
}

// HitCoordinate returns the topmost feature whose rendering covers the
// map coordinate c, without consulting the spatial index.
func (m *Map) HitCoordinate(c [2]float64) *feature.Feature {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.View
	return m.Group.ForEachFeatureAtCoordinate(c, v.Resolution, v.Rotation, nil, func(*feature.Feature) bool {
		return true
	})
}
