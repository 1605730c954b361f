package style

import (
	"sync"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
)

// GeometryFunc picks the geometry a style renders for a feature.
type GeometryFunc func(f *feature.Feature) geom.Geometry

// Style groups the paint of one rendering pass over a feature. Styles with
// a higher ZIndex paint above those with a lower one.
type Style struct {
	Fill            *Fill
	Stroke          *Stroke
	Image           *Icon
	Text            *Text
	CustomRendering *CustomRendering
	ZIndex          int

	// Geometry overrides the feature geometry when set.
	Geometry GeometryFunc
}

// GeometryOf returns the geometry the style renders for f.
func (s *Style) GeometryOf(f *feature.Feature) geom.Geometry {
	if s.Geometry != nil {
		return s.Geometry(f)
	}
	return f.Geometry()
}

// GeometryProperty returns a GeometryFunc reading the named feature
// property. Properties that do not hold a geometry yield nil.
func GeometryProperty(name string) GeometryFunc {
	return func(f *feature.Feature) geom.Geometry {
		v, ok := f.Get(name)
		if !ok {
			return nil
		}
		g, _ := v.(geom.Geometry)
		return g
	}
}

// StaticGeometry returns a GeometryFunc that always yields g.
func StaticGeometry(g geom.Geometry) GeometryFunc {
	return func(*feature.Feature) geom.Geometry { return g }
}

// Func resolves the styles of a feature at a resolution.
type Func func(f *feature.Feature, resolution float64) []*Style

// Static returns a Func yielding the same styles for every feature.
func Static(styles ...*Style) Func {
	return func(*feature.Feature, float64) []*Style { return styles }
}

var (
	defaultOnce   sync.Once
	defaultStyles []*Style
)

// Default is the style used when a layer has none: a translucent white
// fill, a thin blue outline and a small circle for points.
func Default(*feature.Feature, float64) []*Style {
	defaultOnce.Do(func() {
		fill := NewSolidFill(canvas.MustParseColor("rgba(255,255,255,0.4)"))
		stroke := NewSolidStroke(canvas.MustParseColor("#3399CC"), 1.25)
		defaultStyles = []*Style{{
			Image:  NewCircleIcon(5, fill, stroke),
			Fill:   fill,
			Stroke: stroke,
		}}
	})
	return defaultStyles
}

// EditingStyles returns the styles used to highlight geometries being
// edited, keyed by geometry type.
func EditingStyles() map[geom.Type][]*Style {
	white := gg.RGBA{R: 1, G: 1, B: 1, A: 1}
	blue := gg.RGBA{R: 0, G: 153.0 / 255, B: 1, A: 1}
	const width = 3.0

	polygon := []*Style{{Fill: NewSolidFill(gg.RGBA{R: 1, G: 1, B: 1, A: 0.5})}}
	line := []*Style{
		{Stroke: NewSolidStroke(white, width+2)},
		{Stroke: NewSolidStroke(blue, width)},
	}
	point := []*Style{{
		Image: NewCircleIcon(width*2, NewSolidFill(blue), NewSolidStroke(white, width/2)),
		// Points stay above every other edit highlight.
		ZIndex: 1 << 30,
	}}

	styles := map[geom.Type][]*Style{
		geom.TypePolygon:         polygon,
		geom.TypeMultiPolygon:    polygon,
		geom.TypeLineString:      line,
		geom.TypeMultiLineString: line,
		geom.TypePoint:           point,
		geom.TypeMultiPoint:      point,
	}
	styles[geom.TypeCircle] = append(append([]*Style{}, polygon...), line...)
	return styles
}
