package render

import (
	"sort"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/transform"
)

// GroupOptions configures a ReplayGroup.
type GroupOptions struct {
	Tolerance  float64
	MaxExtent  extent.Extent
	Resolution float64
	Projection string

	// RenderBuffer is the margin in pixels around a coordinate that
	// ForEachFeatureAtCoordinate uses to pre-select geometries by extent.
	// Zero disables the pre-selection.
	RenderBuffer float64

	// ImagePool caches icon silhouettes. Nil uses canvas.DefaultImagePool.
	ImagePool *canvas.ImagePool
}

// ReplayGroup owns the replays of one layer, keyed by z-index and
// category, together with the spatial index of the last draw pass.
type ReplayGroup struct {
	opts    GroupOptions
	replays map[int]map[ReplayType]Replay
	extents []IndexItem
	index   *SpatialIndex
	probe   *canvas.Surface
}

// NewReplayGroup returns an empty group.
func NewReplayGroup(opts GroupOptions) *ReplayGroup {
	return &ReplayGroup{
		opts:    opts,
		replays: make(map[int]map[ReplayType]Replay),
		index:   NewSpatialIndex(),
		probe:   canvas.New(1, 1),
	}
}

// GetReplay returns the replay for z and t, creating it on first use.
func (g *ReplayGroup) GetReplay(z int, t ReplayType) Replay {
	byType, ok := g.replays[z]
	if !ok {
		byType = make(map[ReplayType]Replay)
		g.replays[z] = byType
	}
	if r, ok := byType[t]; ok {
		return r
	}
	opts := ReplayOptions{
		Tolerance:  g.opts.Tolerance,
		MaxExtent:  g.opts.MaxExtent,
		Resolution: g.opts.Resolution,
		Projection: g.opts.Projection,
	}
	var r Replay
	switch t {
	case ReplayPolygon:
		r = NewPolygonReplay(opts)
	case ReplayLineString:
		r = NewLineStringReplay(opts)
	case ReplayImage:
		r = NewImageReplay(opts, g.opts.ImagePool)
	case ReplayText:
		r = NewTextReplay(opts)
	case ReplayCustomRendering:
		r = NewCustomRenderingReplay(opts)
	default:
		panic("render: unknown replay type " + string(t))
	}
	r.base().parent = g
	byType[t] = r
	return r
}

// Polygon returns the polygon replay for z.
func (g *ReplayGroup) Polygon(z int) *PolygonReplay {
	return g.GetReplay(z, ReplayPolygon).(*PolygonReplay)
}

// LineString returns the line replay for z.
func (g *ReplayGroup) LineString(z int) *LineStringReplay {
	return g.GetReplay(z, ReplayLineString).(*LineStringReplay)
}

// Image returns the icon replay for z.
func (g *ReplayGroup) Image(z int) *ImageReplay {
	return g.GetReplay(z, ReplayImage).(*ImageReplay)
}

// Text returns the label replay for z.
func (g *ReplayGroup) Text(z int) *TextReplay {
	return g.GetReplay(z, ReplayText).(*TextReplay)
}

// CustomRendering returns the custom replay for z.
func (g *ReplayGroup) CustomRendering(z int) *CustomRenderingReplay {
	return g.GetReplay(z, ReplayCustomRendering).(*CustomRenderingReplay)
}

// Finish freezes every replay.
func (g *ReplayGroup) Finish() {
	n := 0
	for _, byType := range g.replays {
		for _, r := range byType {
			r.Finish()
			draw, hit := r.Commands()
			n += len(draw) + len(hit)
		}
	}
	ggmap.Logger().Debug("render: replay group finished", "zindices", len(g.replays), "commands", n)
}

// IsEmpty reports whether no replay holds any command.
func (g *ReplayGroup) IsEmpty() bool {
	for _, byType := range g.replays {
		for _, r := range byType {
			if !r.base().IsEmpty() {
				return false
			}
		}
	}
	return true
}

// SpatialIndex returns the index built by the last ProcessFeatureExtents.
func (g *ReplayGroup) SpatialIndex() *SpatialIndex { return g.index }

// addFeatureExtent records the pixel box of a feature drawn in the
// current pass.
func (g *ReplayGroup) addFeatureExtent(e extent.Extent, f *feature.Feature) {
	if f == nil || e.IsEmpty() {
		return
	}
	g.extents = append(g.extents, IndexItem{Extent: e, Feature: f})
}

// ProcessFeatureExtents rebuilds the spatial index from the boxes
// collected since the previous call. Call it after each draw pass and
// before hit detection by pixel.
func (g *ReplayGroup) ProcessFeatureExtents() {
	g.index.Load(g.extents)
	ggmap.Logger().Debug("render: spatial index reloaded", "entries", g.index.Len())
	g.extents = nil
}

func (g *ReplayGroup) zIndices() []int {
	zs := make([]int, 0, len(g.replays))
	for z := range g.replays {
		zs = append(zs, z)
	}
	sort.Ints(zs)
	return zs
}

// Replay draws the group onto s, clipped to the max extent, in ascending
// z and ReplayOrder within each z. When types is non-empty only those
// categories are drawn.
func (g *ReplayGroup) Replay(s *canvas.Surface, pixelRatio float64, tr transform.Transform, viewRotation float64,
	skipped FeatureSet, frame *FrameState, types ...ReplayType) {
	order := ReplayOrder[:]
	if len(types) > 0 {
		order = types
	}
	corners := tr.Apply2D(g.opts.MaxExtent.Corners(), 0, 8, 2, nil)

	s.Save()
	defer s.Restore()
	s.BeginPath()
	s.MoveTo(corners[0], corners[1])
	for i := 2; i < len(corners); i += 2 {
		s.LineTo(corners[i], corners[i+1])
	}
	s.ClosePath()
	s.Clip()
	s.BeginPath()

	for _, z := range g.zIndices() {
		byType := g.replays[z]
		for _, t := range order {
			if r, ok := byType[t]; ok {
				r.Replay(s, pixelRatio, tr, viewRotation, skipped, frame)
			}
		}
	}
}

// replayHitDetection probes the replays in reverse paint order.
func (g *ReplayGroup) replayHitDetection(tr transform.Transform, resolution, viewRotation float64, skipped FeatureSet,
	cb func(*feature.Feature) bool, hitExtent *extent.Extent, filter func(*feature.Feature) bool) *feature.Feature {
	zs := g.zIndices()
	for i := len(zs) - 1; i >= 0; i-- {
		byType := g.replays[zs[i]]
		for j := len(ReplayOrder) - 1; j >= 0; j-- {
			r, ok := byType[ReplayOrder[j]]
			if !ok {
				continue
			}
			if f := r.ReplayHitDetection(g.probe, tr, resolution, viewRotation, skipped, cb, hitExtent, filter); f != nil {
				return f
			}
		}
	}
	return nil
}

// probeCallback wraps cb so that it only runs for features that painted
// the probe pixel.
func (g *ReplayGroup) probeCallback(cb func(*feature.Feature) bool) func(*feature.Feature) bool {
	g.probe.Clear()
	return func(f *feature.Feature) bool {
		if g.probe.AlphaAt(0, 0) <= 0 {
			return false
		}
		if cb(f) {
			return true
		}
		g.probe.Clear()
		return false
	}
}

// probeTransform maps coordinate to the center of the 1×1 probe.
func probeTransform(coordinate [2]float64, resolution, rotation float64) transform.Transform {
	return transform.Compose(0.5, 0.5, 1/resolution, -1/resolution, -rotation, -coordinate[0], -coordinate[1])
}

// ForEachFeatureAtPixel calls cb, topmost first, for every feature that
// painted pixel in the last draw pass. coordinate is the map coordinate
// under pixel. Only features the spatial index places at the pixel are
// probed. It returns the feature for which cb reported true, if any.
func (g *ReplayGroup) ForEachFeatureAtPixel(pixel, coordinate [2]float64, resolution, rotation, pixelRatio float64,
	skipped FeatureSet, cb func(*feature.Feature) bool) *feature.Feature {
	candidates := NewFeatureSet(g.index.GetAtPixel(pixel[0]*pixelRatio, pixel[1]*pixelRatio)...)
	ggmap.Logger().Debug("render: hit candidates", "x", pixel[0], "y", pixel[1], "count", len(candidates))
	if len(candidates) == 0 {
		return nil
	}
	tr := probeTransform(coordinate, resolution, rotation)
	return g.replayHitDetection(tr, resolution, rotation, skipped, g.probeCallback(cb), nil, candidates.Has)
}

// ForEachFeatureAtCoordinate calls cb, topmost first, for every feature
// whose rendering covers coordinate. With a RenderBuffer only geometries
// whose extent lies within that many pixels are probed.
func (g *ReplayGroup) ForEachFeatureAtCoordinate(coordinate [2]float64, resolution, rotation float64,
	skipped FeatureSet, cb func(*feature.Feature) bool) *feature.Feature {
	var hitExtent *extent.Extent
	if g.opts.RenderBuffer > 0 {
		e := extent.FromXY(coordinate[0], coordinate[1]).Buffer(resolution * g.opts.RenderBuffer)
		hitExtent = &e
	}
	tr := probeTransform(coordinate, resolution, rotation)
	return g.replayHitDetection(tr, resolution, rotation, skipped, g.probeCallback(cb), hitExtent, nil)
}
