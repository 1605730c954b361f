package render

import (
	"github.com/tidwall/rtree"

	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
)

// IndexItem is a feature's rendered pixel box.
type IndexItem struct {
	Extent  extent.Extent
	Feature *feature.Feature
}

// SpatialIndex answers which features were rendered at a pixel. It is
// rebuilt wholesale after every draw pass.
type SpatialIndex struct {
	tree rtree.RTreeG[*feature.Feature]
	n    int
}

// NewSpatialIndex returns an empty index.
func NewSpatialIndex() *SpatialIndex {
	return &SpatialIndex{}
}

// Load replaces the content of the index with items. Empty extents are
// skipped.
func (i *SpatialIndex) Load(items []IndexItem) {
	i.Clear()
	for _, it := range items {
		if it.Feature == nil || it.Extent.IsEmpty() {
			continue
		}
		e := it.Extent
		i.tree.Insert([2]float64{e[0], e[1]}, [2]float64{e[2], e[3]}, it.Feature)
		i.n++
	}
}

// Clear removes every entry.
func (i *SpatialIndex) Clear() {
	i.tree = rtree.RTreeG[*feature.Feature]{}
	i.n = 0
}

// Len returns the number of stored boxes.
func (i *SpatialIndex) Len() int { return i.n }

// GetAtPixel returns the features whose box contains (x, y).
func (i *SpatialIndex) GetAtPixel(x, y float64) []*feature.Feature {
	return i.GetInExtent(extent.FromXY(x, y))
}

// GetInExtent returns the features whose box intersects e, each listed
// once.
func (i *SpatialIndex) GetInExtent(e extent.Extent) []*feature.Feature {
	var out []*feature.Feature
	seen := make(map[*feature.Feature]struct{})
	i.tree.Search([2]float64{e[0], e[1]}, [2]float64{e[2], e[3]},
		func(_, _ [2]float64, f *feature.Feature) bool {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				out = append(out, f)
			}
			return true
		})
	return out
}
