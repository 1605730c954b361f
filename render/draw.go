package render

import (
	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// DrawFeature encodes f with st into the replays of group at st.ZIndex.
// The geometry is the style's geometry function result, or the feature's
// own. Features without a geometry are ignored.
func DrawFeature(group *ReplayGroup, f *feature.Feature, st *style.Style) {
	if st == nil || f == nil {
		return
	}
	g := st.GeometryOf(f)
	if g == nil {
		return
	}
	if err := geom.Validate(g); err != nil {
		ggmap.Logger().Warn("render: invalid geometry", "feature", f.ID(), "err", err)
		return
	}
	z := st.ZIndex

	switch g := g.(type) {
	case *geom.Point:
		drawImage(group, z, st, g, f)
		drawText(group, z, st, g.FlatCoordinates(), g, f)
	case *geom.MultiPoint:
		drawImage(group, z, st, g, f)
		drawText(group, z, st, g.FlatCoordinates(), g, f)
	case *geom.LineString:
		if st.Stroke != nil {
			r := group.LineString(z)
			r.SetFillStrokeStyle(nil, st.Stroke)
			r.DrawLineString(g, f)
		}
		drawText(group, z, st, g.FlatMidpoint(), g, f)
	case *geom.MultiLineString:
		if st.Stroke != nil {
			r := group.LineString(z)
			r.SetFillStrokeStyle(nil, st.Stroke)
			r.DrawMultiLineString(g, f)
		}
		drawText(group, z, st, g.FlatMidpoints(), g, f)
	case *geom.Polygon:
		if st.Fill != nil || st.Stroke != nil {
			r := group.Polygon(z)
			r.SetFillStrokeStyle(st.Fill, st.Stroke)
			r.DrawPolygon(g, f)
		}
		drawText(group, z, st, g.FlatInteriorPoint(), g, f)
	case *geom.MultiPolygon:
		if st.Fill != nil || st.Stroke != nil {
			r := group.Polygon(z)
			r.SetFillStrokeStyle(st.Fill, st.Stroke)
			r.DrawMultiPolygon(g, f)
		}
		drawText(group, z, st, g.FlatInteriorPoints(), g, f)
	case *geom.Circle:
		if st.Fill != nil || st.Stroke != nil {
			r := group.Polygon(z)
			r.SetFillStrokeStyle(st.Fill, st.Stroke)
			r.DrawCircle(g, f)
		}
		x, y := g.Center()
		drawText(group, z, st, []float64{x, y}, g, f)
	default:
		ggmap.Logger().Warn("render: unsupported geometry", "type", g.Type())
		return
	}

	if st.CustomRendering != nil {
		r := group.CustomRendering(z)
		r.SetCustomRenderingStyle(st.CustomRendering)
		r.DrawGeometry(g, f)
	}
}

func drawImage(group *ReplayGroup, z int, st *style.Style, g geom.Geometry, f *feature.Feature) {
	if st.Image == nil {
		return
	}
	r := group.Image(z)
	r.SetImageStyle(st.Image)
	switch g := g.(type) {
	case *geom.Point:
		r.DrawPoint(g, f)
	case *geom.MultiPoint:
		r.DrawMultiPoint(g, f)
	}
}

func drawText(group *ReplayGroup, z int, st *style.Style, anchors []float64, g geom.Geometry, f *feature.Feature) {
	if st.Text == nil || len(anchors) == 0 {
		return
	}
	r := group.Text(z)
	r.SetTextStyle(st.Text)
	r.DrawText(anchors, 0, len(anchors), geom.Stride, g, f)
}

// DrawFeatures encodes every feature with the styles fn returns for it at
// resolution. A nil fn uses style.Default.
func DrawFeatures(group *ReplayGroup, features []*feature.Feature, fn style.Func, resolution float64) {
	if fn == nil {
		fn = style.Default
	}
	for _, f := range features {
		for _, st := range fn(f, resolution) {
			DrawFeature(group, f, st)
		}
	}
}
