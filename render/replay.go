package render

import (
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/transform"
)

// ReplayType names the geometry category a replay encodes.
type ReplayType string

const (
	ReplayPolygon         ReplayType = "Polygon"
	ReplayLineString      ReplayType = "LineString"
	ReplayImage           ReplayType = "Image"
	ReplayText            ReplayType = "Text"
	ReplayCustomRendering ReplayType = "CustomRendering"
)

// ReplayOrder is the paint order of the categories within one z-index.
// Hit detection walks it backwards.
var ReplayOrder = [...]ReplayType{
	ReplayPolygon,
	ReplayLineString,
	ReplayImage,
	ReplayText,
	ReplayCustomRendering,
}

// Replay is a build-once, play-many instruction stream for one geometry
// category. The implementations are *PolygonReplay, *LineStringReplay,
// *ImageReplay, *TextReplay and *CustomRenderingReplay.
//
// A replay is filled by its Draw methods, frozen by Finish, and then played
// any number of times. Drawing and playing must not overlap.
type Replay interface {
	// Type returns the category of the replay.
	Type() ReplayType

	// Finish freezes the replay. Drawing afterwards panics.
	Finish()

	// Replay draws the recorded features onto s. frame may be nil, in
	// which case foreground hooks are dropped.
	Replay(s *canvas.Surface, pixelRatio float64, tr transform.Transform, viewRotation float64, skipped FeatureSet, frame *FrameState)

	// ReplayHitDetection draws hit silhouettes onto s, calling cb after each
	// feature. It returns the first feature for which cb reports true.
	ReplayHitDetection(s *canvas.Surface, tr transform.Transform, resolution, viewRotation float64, skipped FeatureSet,
		cb func(*feature.Feature) bool, hitExtent *extent.Extent, filter func(*feature.Feature) bool) *feature.Feature

	// Commands returns the draw and hit-detection streams.
	Commands() (draw, hit []Command)

	base() *replay
}

// ReplayOptions are the frame-independent parameters of a replay.
type ReplayOptions struct {
	// Tolerance snaps coordinates to multiples of itself at Finish. Zero
	// disables snapping.
	Tolerance float64

	// MaxExtent is the visible area in map units. Vertex runs outside it
	// are dropped while encoding.
	MaxExtent extent.Extent

	// Resolution is map units per pixel.
	Resolution float64

	// Projection is passed through to render hooks.
	Projection string
}

// replay is the state shared by every category: the coordinate buffer,
// the two command streams and the playback caches.
type replay struct {
	opts ReplayOptions

	// bufferLines grows the clip extent by the widest stroke seen.
	bufferLines    bool
	maxLineWidth   float64
	bufferedExtent extent.Extent
	bufferedValid  bool

	coordinates     []float64
	instructions    []Command
	hitInstructions []Command
	jumps           []int
	hitJumps        []int
	beginIndex      int
	hitBeginIndex   int
	finished        bool

	parent *ReplayGroup

	pixelCoordinates  []float64
	renderedTransform transform.Transform
	rendered          bool
	featureExtent     extent.Extent
}

func newReplay(opts ReplayOptions) replay {
	return replay{opts: opts, beginIndex: -1, hitBeginIndex: -1}
}

func (r *replay) base() *replay { return r }

// Commands returns the draw and hit-detection streams.
func (r *replay) Commands() (draw, hit []Command) {
	return r.instructions, r.hitInstructions
}

// Coordinates returns the encoded coordinate buffer.
func (r *replay) Coordinates() []float64 { return r.coordinates }

// IsEmpty reports whether nothing was encoded.
func (r *replay) IsEmpty() bool {
	return len(r.instructions) == 0 && len(r.hitInstructions) == 0
}

func (r *replay) commonArgs() style.ReplayArgs {
	return style.NewReplayArgs(r.opts.Tolerance, r.opts.MaxExtent, r.opts.Resolution, r.opts.Projection)
}

// bufferedMaxExtent is the max extent grown by half the widest stroke, so
// that strokes crossing the border keep their outer half.
func (r *replay) bufferedMaxExtent() extent.Extent {
	if !r.bufferLines {
		return r.opts.MaxExtent
	}
	if !r.bufferedValid {
		r.bufferedExtent = r.opts.MaxExtent
		if r.maxLineWidth > 0 {
			r.bufferedExtent = r.bufferedExtent.Buffer(r.opts.Resolution * (r.maxLineWidth + 1) / 2)
		}
		r.bufferedValid = true
	}
	return r.bufferedExtent
}

func (r *replay) updateLineWidth(w float64) {
	if w > r.maxLineWidth {
		r.maxLineWidth = w
		r.bufferedValid = false
	}
}

// appendFlatCoordinates copies flat[offset:end] into the buffer, dropping
// vertices that stay on the same side outside the buffered max extent.
// One vertex is kept on each side of every transition so clipped paths
// still enter and leave the extent along the original segments. When
// closed is set the first vertex is repeated at the end. It returns the
// new buffer length.
func (r *replay) appendFlatCoordinates(flat []float64, offset, end, stride int, closed bool) int {
	if end-offset < stride {
		return len(r.coordinates)
	}
	e := r.bufferedMaxExtent()
	lastX, lastY := flat[offset], flat[offset+1]
	var lastRel extent.Relationship
	first := true
	skipped := true
	i := offset + stride
	for ; i < end; i += stride {
		x, y := flat[i], flat[i+1]
		rel := e.CoordinateRelationship(x, y)
		switch {
		case first || rel != lastRel:
			if skipped {
				r.coordinates = append(r.coordinates, lastX, lastY)
			}
			r.coordinates = append(r.coordinates, x, y)
			skipped = false
		case rel == extent.Intersecting:
			r.coordinates = append(r.coordinates, x, y)
			skipped = false
		default:
			skipped = true
		}
		lastX, lastY = x, y
		lastRel = rel
		first = false
	}
	// A lone vertex, or the tail of a dropped run, still ends the path.
	if i == offset+stride || skipped {
		r.coordinates = append(r.coordinates, lastX, lastY)
	}
	if closed {
		r.coordinates = append(r.coordinates, flat[offset], flat[offset+1])
	}
	return len(r.coordinates)
}

func (r *replay) checkOpen() {
	if r.finished {
		panic("render: draw on a finished replay")
	}
}

// beginGeometry opens a geometry block in both streams.
func (r *replay) beginGeometry(g geom.Geometry, f *feature.Feature) {
	r.checkOpen()
	if r.beginIndex >= 0 {
		panic("render: nested geometry block")
	}
	r.beginIndex = len(r.instructions)
	r.hitBeginIndex = len(r.hitInstructions)
	c := BeginGeometryCommand{Feature: f, Geometry: g}
	r.instructions = append(r.instructions, c)
	r.hitInstructions = append(r.hitInstructions, c)
}

// endGeometry closes the open geometry block in both streams.
func (r *replay) endGeometry(f *feature.Feature) {
	if r.beginIndex < 0 {
		panic("render: endGeometry without beginGeometry")
	}
	c := EndGeometryCommand{Feature: f}
	r.instructions = append(r.instructions, c)
	r.hitInstructions = append(r.hitInstructions, c)
	r.beginIndex = -1
	r.hitBeginIndex = -1
}

func (r *replay) emit(cmds ...Command) {
	r.instructions = append(r.instructions, cmds...)
}

func (r *replay) emitHit(cmds ...Command) {
	r.hitInstructions = append(r.hitInstructions, cmds...)
}

func (r *replay) emitBoth(cmds ...Command) {
	r.instructions = append(r.instructions, cmds...)
	r.hitInstructions = append(r.hitInstructions, cmds...)
}

// finish freezes the streams: it reverses the hit stream so that the last
// drawn geometry is probed first and builds the jump tables.
func (r *replay) finish() {
	if r.finished {
		return
	}
	if r.beginIndex >= 0 {
		panic("render: Finish with an open geometry block")
	}
	reverseGeometryBlocks(r.hitInstructions)
	r.jumps = buildJumpTable(r.instructions)
	r.hitJumps = buildJumpTable(r.hitInstructions)
	r.finished = true
}

// snapCoordinates rounds every buffered coordinate to the tolerance grid.
func (r *replay) snapCoordinates() {
	if r.opts.Tolerance == 0 {
		return
	}
	for i, v := range r.coordinates {
		r.coordinates[i] = geom.Snap(v, r.opts.Tolerance)
	}
}

// reverseGeometryBlocks reverses the order of the geometry blocks in cmds
// while keeping the order of commands inside each block.
func reverseGeometryBlocks(cmds []Command) {
	reverseCommands(cmds)
	begin := -1
	for i, c := range cmds {
		switch c.Type() {
		case CmdEndGeometry:
			begin = i
		case CmdBeginGeometry:
			if begin < 0 {
				panic("render: unbalanced geometry block in hit stream")
			}
			reverseCommands(cmds[begin : i+1])
			begin = -1
		}
	}
}

func reverseCommands(cmds []Command) {
	for i, j := 0, len(cmds)-1; i < j; i, j = i+1, j-1 {
		cmds[i], cmds[j] = cmds[j], cmds[i]
	}
}

// buildJumpTable pairs every BeginGeometryCommand with the following
// EndGeometryCommand in a single backwards scan. The entry of a begin
// index holds the index of its end; other entries are -1.
func buildJumpTable(cmds []Command) []int {
	jumps := make([]int, len(cmds))
	end := -1
	for i := len(cmds) - 1; i >= 0; i-- {
		jumps[i] = -1
		switch cmds[i].Type() {
		case CmdEndGeometry:
			if end >= 0 {
				panic("render: EndGeometry without BeginGeometry")
			}
			end = i
		case CmdBeginGeometry:
			if end < 0 {
				panic("render: BeginGeometry without EndGeometry")
			}
			jumps[i] = end
			end = -1
		}
	}
	if end >= 0 {
		panic("render: EndGeometry without BeginGeometry")
	}
	return jumps
}
