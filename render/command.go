// Package render compiles styled features into replayable command
// streams and plays them back onto a canvas.Surface.
//
// Every replay keeps two streams: one that paints the features and a hit
// stream, reversed by geometry block, that paints their silhouettes onto
// a 1×1 surface so the topmost feature under a coordinate can be found.
// A ReplayGroup orders replays by z-index and category and keeps the
// spatial index of the pixel boxes painted by the last frame.
package render

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// CommandType identifies the kind of a recorded instruction.
type CommandType uint8

const (
	// Geometry blocks
	CmdBeginGeometry CommandType = iota // Start of one feature geometry
	CmdBeginPath                        // Start a new path
	CmdCircle                           // Add a circle to the path
	CmdClosePath                        // Close the current sub-path
	CmdDrawImage                        // Draw an icon at each point
	CmdDrawText                         // Draw a label at each point
	CmdEndGeometry                      // End of one feature geometry
	CmdFill                             // Fill the current path
	CmdMoveToLineTo                     // Add a polyline to the path

	// Style commands
	CmdSetFillStyle   // Set fill brush
	CmdSetStrokeStyle // Set stroke brush and line parameters
	CmdSetTextStyle   // Set font and alignment
	CmdStroke         // Stroke the current path

	// Hook commands
	CmdPreRender        // Call a hook before the geometry
	CmdPostRender       // Call a hook after the geometry
	CmdForegroundRender // Defer a hook until the frame is flushed
	CmdCustomRender     // Call a custom render function
)

var commandTypeNames = [...]string{
	CmdBeginGeometry:    "BeginGeometry",
	CmdBeginPath:        "BeginPath",
	CmdCircle:           "Circle",
	CmdClosePath:        "ClosePath",
	CmdDrawImage:        "DrawImage",
	CmdDrawText:         "DrawText",
	CmdEndGeometry:      "EndGeometry",
	CmdFill:             "Fill",
	CmdMoveToLineTo:     "MoveToLineTo",
	CmdSetFillStyle:     "SetFillStyle",
	CmdSetStrokeStyle:   "SetStrokeStyle",
	CmdSetTextStyle:     "SetTextStyle",
	CmdStroke:           "Stroke",
	CmdPreRender:        "PreRender",
	CmdPostRender:       "PostRender",
	CmdForegroundRender: "ForegroundRender",
	CmdCustomRender:     "CustomRender",
}

// String returns the name of the command type.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded instruction. Commands never hold geometry
// directly; coordinate operands are index ranges into the owning replay's
// coordinate buffer.
type Command interface {
	Type() CommandType
}

// ----------------------------------------------------------------------------
// Geometry commands
// ----------------------------------------------------------------------------

// BeginGeometryCommand opens the block of one feature geometry. The
// matching EndGeometryCommand is found through the replay's jump table.
// Geometry is the geometry actually drawn, which a style may have
// substituted for the feature's own.
type BeginGeometryCommand struct {
	Feature  *feature.Feature
	Geometry geom.Geometry
}

func (BeginGeometryCommand) Type() CommandType { return CmdBeginGeometry }

// EndGeometryCommand closes the block of one feature geometry.
type EndGeometryCommand struct {
	Feature *feature.Feature
}

func (EndGeometryCommand) Type() CommandType { return CmdEndGeometry }

// BeginPathCommand discards the current path.
type BeginPathCommand struct{}

func (BeginPathCommand) Type() CommandType { return CmdBeginPath }

// ClosePathCommand closes the current sub-path.
type ClosePathCommand struct{}

func (ClosePathCommand) Type() CommandType { return CmdClosePath }

// CircleCommand adds a circle whose center is the coordinate at Offset and
// whose radius is the distance to the following coordinate.
type CircleCommand struct {
	Offset int
}

func (CircleCommand) Type() CommandType { return CmdCircle }

// MoveToLineToCommand adds the polyline stored in [Begin, End).
type MoveToLineToCommand struct {
	Begin, End int
}

func (MoveToLineToCommand) Type() CommandType { return CmdMoveToLineTo }

// FillCommand fills the current path with the fill style.
type FillCommand struct{}

func (FillCommand) Type() CommandType { return CmdFill }

// StrokeCommand strokes the current path with the stroke style.
type StrokeCommand struct{}

func (StrokeCommand) Type() CommandType { return CmdStroke }

// DrawImageCommand draws Image anchored at every point in [Begin, End).
// Anchor, Origin and Size are in image pixels.
type DrawImageCommand struct {
	Begin, End     int
	Image          image.Image
	Anchor         [2]float64
	Origin         [2]float64
	Size           [2]float64
	Opacity        float64
	Scale          float64
	Rotation       float64
	RotateWithView bool
	SnapToPixel    bool
}

func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// DrawTextCommand draws Text at every point in [Begin, End).
type DrawTextCommand struct {
	Begin, End int
	Text       string
	OffsetX    float64
	OffsetY    float64
	Rotation   float64
	Scale      float64
	Fill       bool
	Stroke     bool
}

func (DrawTextCommand) Type() CommandType { return CmdDrawText }

// ----------------------------------------------------------------------------
// Style commands
// ----------------------------------------------------------------------------

// SetFillStyleCommand sets the fill brush.
type SetFillStyleCommand struct {
	Brush gg.Brush
}

func (SetFillStyleCommand) Type() CommandType { return CmdSetFillStyle }

// SetStrokeStyleCommand sets the stroke brush and line parameters. When
// UsePixelRatio is set the width is multiplied by the pixel ratio at
// playback.
type SetStrokeStyleCommand struct {
	strokeState
	UsePixelRatio bool
}

func (SetStrokeStyleCommand) Type() CommandType { return CmdSetStrokeStyle }

// SetTextStyleCommand sets the font and alignment.
type SetTextStyleCommand struct {
	textState
}

func (SetTextStyleCommand) Type() CommandType { return CmdSetTextStyle }

// ----------------------------------------------------------------------------
// Hook commands
// ----------------------------------------------------------------------------

// hookCall is the payload shared by the hook commands.
type hookCall struct {
	Func       style.RenderFunc
	Args       style.RenderArgs
	Feature    *feature.Feature
	Begin, End int
}

// PreRenderCommand calls Func before the geometry is drawn.
type PreRenderCommand struct{ hookCall }

func (PreRenderCommand) Type() CommandType { return CmdPreRender }

// PostRenderCommand calls Func after the geometry is drawn.
type PostRenderCommand struct{ hookCall }

func (PostRenderCommand) Type() CommandType { return CmdPostRender }

// ForegroundRenderCommand queues Func on the frame state.
type ForegroundRenderCommand struct{ hookCall }

func (ForegroundRenderCommand) Type() CommandType { return CmdForegroundRender }

// CustomRenderCommand computes the geometry extent with Extent, when set,
// and then draws it with Func.
type CustomRenderCommand struct {
	hookCall
	Extent style.ExtentFunc
}

func (CustomRenderCommand) Type() CommandType { return CmdCustomRender }

// ----------------------------------------------------------------------------
// Paint state
// ----------------------------------------------------------------------------

// strokeState is the stroke paint compared field by field before a replay
// emits a state change.
type strokeState struct {
	Brush      gg.Brush
	Width      float64
	LineCap    string
	LineJoin   string
	MiterLimit float64
	LineDash   []float64
}

func (s strokeState) equal(o strokeState) bool {
	if !style.SameBrush(s.Brush, o.Brush) || s.Width != o.Width || s.LineCap != o.LineCap ||
		s.LineJoin != o.LineJoin || s.MiterLimit != o.MiterLimit || len(s.LineDash) != len(o.LineDash) {
		return false
	}
	for i := range s.LineDash {
		if s.LineDash[i] != o.LineDash[i] {
			return false
		}
	}
	return true
}

// newStrokeState resolves st against the line defaults. A nil color paints
// black.
func newStrokeState(st *style.Stroke) strokeState {
	lineCap, lineJoin, miter := st.Resolved()
	brush := st.Color()
	if brush == nil {
		brush = defaultStrokeStyle
	}
	var dash []float64
	if d := st.LineDash(); d != nil {
		dash = append([]float64(nil), d...)
	}
	return strokeState{
		Brush:      brush,
		Width:      st.Width(),
		LineCap:    lineCap,
		LineJoin:   lineJoin,
		MiterLimit: miter,
		LineDash:   dash,
	}
}

func (s strokeState) args(common style.ReplayArgs, closePath bool) *style.StrokeRenderArgs {
	return &style.StrokeRenderArgs{
		ReplayArgs: common,
		Color:      s.Brush,
		LineCap:    s.LineCap,
		LineDash:   s.LineDash,
		LineJoin:   s.LineJoin,
		MiterLimit: s.MiterLimit,
		Width:      s.Width,
		ClosePath:  closePath,
	}
}

type textState struct {
	Font         string
	TextAlign    string
	TextBaseline string
}

var (
	defaultFillStyle   gg.Brush = gg.Solid(gg.Black)
	defaultStrokeStyle gg.Brush = gg.Solid(gg.Black)

	// hitStyle paints hit silhouettes. Only its alpha matters.
	hitStyle gg.Brush = gg.Solid(gg.Black)
)

// fillBrush resolves the fill color, painting black when it is unset.
func fillBrush(f *style.Fill) gg.Brush {
	if c := f.Color(); c != nil {
		return c
	}
	return defaultFillStyle
}
