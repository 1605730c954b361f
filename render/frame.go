package render

import (
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/style"
)

// FeatureSet is a set of features compared by identity.
type FeatureSet map[*feature.Feature]struct{}

// NewFeatureSet returns a set holding fs.
func NewFeatureSet(fs ...*feature.Feature) FeatureSet {
	set := make(FeatureSet, len(fs))
	for _, f := range fs {
		set[f] = struct{}{}
	}
	return set
}

// Add inserts f.
func (s FeatureSet) Add(f *feature.Feature) { s[f] = struct{}{} }

// Has reports whether f is in the set. A nil set is empty.
func (s FeatureSet) Has(f *feature.Feature) bool {
	_, ok := s[f]
	return ok
}

// ViewState describes the view a frame is drawn for.
type ViewState struct {
	Resolution float64
	Rotation   float64
	Projection string
}

// ForegroundCall is a foreground hook queued during playback.
type ForegroundCall struct {
	Func       style.RenderFunc
	Surface    *canvas.Surface
	Coords     []float64
	Args       style.RenderArgs
	Feature    *feature.Feature
	PixelRatio float64
}

// FrameState carries per-frame data through playback. Hooks read the view
// parameters from it and foreground hooks are queued on it.
type FrameState struct {
	View              ViewState
	ForegroundRenders []ForegroundCall
}

// NewFrameState returns a frame state for view.
func NewFrameState(view ViewState) *FrameState {
	return &FrameState{View: view}
}

// Flush runs the queued foreground hooks in order and empties the queue.
// Hooks queued by a running hook are run too.
func (fs *FrameState) Flush() {
	for len(fs.ForegroundRenders) > 0 {
		calls := fs.ForegroundRenders
		fs.ForegroundRenders = nil
		for _, c := range calls {
			c.Func(c.Surface, c.Coords, c.Args, c.Feature, c.PixelRatio)
		}
	}
}
