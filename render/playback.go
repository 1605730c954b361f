package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/extent"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/style"
	"github.com/gogpu/ggmap/transform"
)

// playState holds the arguments of one pass over a command stream.
type playState struct {
	surface      *canvas.Surface
	pixelRatio   float64
	transform    transform.Transform
	resolution   float64
	viewRotation float64
	skipped      FeatureSet
	cmds         []Command
	jumps        []int
	frame        *FrameState

	// Hit detection only.
	callback  func(*feature.Feature) bool
	hitExtent *extent.Extent
	filter    func(*feature.Feature) bool
}

// Replay draws the recorded features onto s.
func (r *replay) Replay(s *canvas.Surface, pixelRatio float64, tr transform.Transform, viewRotation float64, skipped FeatureSet, frame *FrameState) {
	r.play(&playState{
		surface:      s,
		pixelRatio:   pixelRatio,
		transform:    tr,
		viewRotation: viewRotation,
		skipped:      skipped,
		cmds:         r.instructions,
		jumps:        r.jumps,
		frame:        frame,
	})
}

// ReplayHitDetection draws the hit silhouettes of the recorded features
// onto s in reverse drawing order. Skipped features, features filter
// rejects and geometries outside hitExtent are left out. cb runs after
// each drawn feature. Hooks see resolution and viewRotation.
func (r *replay) ReplayHitDetection(s *canvas.Surface, tr transform.Transform, resolution, viewRotation float64,
	skipped FeatureSet, cb func(*feature.Feature) bool, hitExtent *extent.Extent, filter func(*feature.Feature) bool) *feature.Feature {
	return r.play(&playState{
		surface:      s,
		pixelRatio:   1,
		transform:    tr,
		resolution:   resolution,
		viewRotation: viewRotation,
		skipped:      skipped,
		cmds:         r.hitInstructions,
		jumps:        r.hitJumps,
		callback:     cb,
		hitExtent:    hitExtent,
		filter:       filter,
	})
}

// projectCoordinates returns the buffer mapped through tr, reusing the
// previous result while the transform is unchanged.
func (r *replay) projectCoordinates(tr transform.Transform) []float64 {
	if !r.rendered || !tr.Equals(r.renderedTransform) {
		r.pixelCoordinates = tr.Apply2D(r.coordinates, 0, len(r.coordinates), 2, r.pixelCoordinates)
		r.renderedTransform = tr
		r.rendered = true
	}
	return r.pixelCoordinates
}

// refresh updates hook arguments with the current frame parameters. The
// frame view wins; without one the pass's own parameters are used.
func (p *playState) refresh(args style.RenderArgs) {
	c := args.Common()
	if p.frame != nil {
		v := p.frame.View
		c.Refresh(v.Resolution, v.Rotation, p.pixelRatio, v.Projection)
		return
	}
	c.PixelRatio = p.pixelRatio
	c.ViewRotation = p.viewRotation
	if p.resolution > 0 {
		c.Resolution = p.resolution
	}
}

func roundHalfUp(v float64) float64 { return math.Floor(v + 0.5) }

func sliceCoords(pc []float64, begin, end int) []float64 {
	return append([]float64(nil), pc[begin:end]...)
}

// play interprets one command stream and returns the feature for which
// the hit callback reported true, if any.
func (r *replay) play(p *playState) *feature.Feature {
	if !r.finished {
		panic("render: replay played before Finish")
	}
	pc := r.projectCoordinates(p.transform)
	s := p.surface
	pr := p.pixelRatio
	var fillSet, strokeSet bool
	// Width of the current stroke in pixels; feature extents grow by half
	// of it.
	var lineWidth float64
	r.featureExtent = extent.CreateEmpty()

	for i := 0; i < len(p.cmds); i++ {
		switch c := p.cmds[i].(type) {
		case BeginGeometryCommand:
			if r.skipGeometry(p, c) {
				i = p.jumps[i]
				continue
			}
			r.featureExtent = extent.CreateEmpty()

		case BeginPathCommand:
			s.BeginPath()

		case CircleCommand:
			d := c.Offset
			x1, y1 := pc[d], pc[d+1]
			radius := math.Hypot(pc[d+2]-x1, pc[d+3]-y1)
			s.Arc(x1, y1, radius)
			r.featureExtent = extent.Extent{x1 - radius, y1 - radius, x1 + radius, y1 + radius}

		case ClosePathCommand:
			s.ClosePath()

		case DrawImageCommand:
			r.drawImage(p, pc, c)

		case DrawTextCommand:
			r.drawText(p, pc, c)

		case EndGeometryCommand:
			if p.callback != nil {
				if p.callback(c.Feature) {
					return c.Feature
				}
			} else if r.parent != nil {
				e := r.featureExtent
				if lineWidth > 0 && !e.IsEmpty() {
					e = e.Buffer(lineWidth / 2)
				}
				r.parent.addFeatureExtent(e, c.Feature)
			}
			r.featureExtent = extent.CreateEmpty()

		case FillCommand:
			if !fillSet {
				panic("render: Fill before SetFillStyle")
			}
			if s.FillStyle() == nil {
				continue
			}
			if err := s.Fill(); err != nil {
				ggmap.Logger().Warn("render: fill failed", "err", err)
			}

		case MoveToLineToCommand:
			if c.End-c.Begin < 2 {
				continue
			}
			x, y := pc[c.Begin], pc[c.Begin+1]
			prevX, prevY := roundHalfUp(x), roundHalfUp(y)
			s.MoveTo(x, y)
			r.featureExtent = r.featureExtent.ExtendXY(prevX, prevY)
			for d := c.Begin + 2; d < c.End; d += 2 {
				x, y = pc[d], pc[d+1]
				rx, ry := roundHalfUp(x), roundHalfUp(y)
				r.featureExtent = r.featureExtent.ExtendXY(rx, ry)
				if d == c.End-2 || rx != prevX || ry != prevY {
					s.LineTo(x, y)
					prevX, prevY = rx, ry
				}
			}

		case SetFillStyleCommand:
			s.SetFillStyle(c.Brush)
			fillSet = true

		case SetStrokeStyleCommand:
			width := c.Width
			if c.UsePixelRatio {
				width *= pr
			}
			s.SetStrokeStyle(c.Brush)
			s.SetLineWidth(width)
			s.SetLineCap(canvas.ParseLineCap(c.LineCap))
			s.SetLineJoin(canvas.ParseLineJoin(c.LineJoin))
			s.SetMiterLimit(c.MiterLimit)
			s.SetLineDash(c.LineDash)
			strokeSet = true
			lineWidth = 0
			if c.Brush != nil {
				lineWidth = width
			}

		case SetTextStyleCommand:
			s.SetFont(c.Font)
			s.SetTextAlign(c.TextAlign)
			s.SetTextBaseline(c.TextBaseline)

		case StrokeCommand:
			if !strokeSet {
				panic("render: Stroke before SetStrokeStyle")
			}
			if s.StrokeStyle() == nil {
				continue
			}
			if err := s.Stroke(); err != nil {
				ggmap.Logger().Warn("render: stroke failed", "err", err)
			}

		case PreRenderCommand:
			p.refresh(c.Args)
			c.Func(s, sliceCoords(pc, c.Begin, c.End), c.Args, c.Feature, pr)

		case PostRenderCommand:
			p.refresh(c.Args)
			c.Func(s, sliceCoords(pc, c.Begin, c.End), c.Args, c.Feature, pr)

		case ForegroundRenderCommand:
			if p.frame == nil {
				continue
			}
			p.refresh(c.Args)
			p.frame.ForegroundRenders = append(p.frame.ForegroundRenders, ForegroundCall{
				Func:       c.Func,
				Surface:    s,
				Coords:     sliceCoords(pc, c.Begin, c.End),
				Args:       c.Args,
				Feature:    c.Feature,
				PixelRatio: pr,
			})

		case CustomRenderCommand:
			p.refresh(c.Args)
			coords := sliceCoords(pc, c.Begin, c.End)
			if c.Extent != nil {
				r.featureExtent = c.Extent(s, coords, c.Args, c.Feature, pr)
			} else {
				r.featureExtent = style.ExtentFromFlatCoordinates(coords)
			}
			c.Func(s, coords, c.Args, c.Feature, pr)

		default:
			panic(fmt.Sprintf("render: unknown command %T", c))
		}
	}
	return nil
}

// skipGeometry reports whether the block opened by c is left out of this
// pass.
func (r *replay) skipGeometry(p *playState, c BeginGeometryCommand) bool {
	if p.skipped.Has(c.Feature) || c.Geometry == nil {
		return true
	}
	if p.filter != nil && !p.filter(c.Feature) {
		return true
	}
	return p.hitExtent != nil && !p.hitExtent.Intersects(c.Geometry.Extent())
}

func (r *replay) drawImage(p *playState, pc []float64, c DrawImageCommand) {
	s := p.surface
	pr := p.pixelRatio
	args := &style.ImageRenderArgs{
		ReplayArgs:     r.commonArgs(),
		AnchorOffset:   c.Anchor,
		Origin:         c.Origin,
		Size:           c.Size,
		Opacity:        c.Opacity,
		Scale:          c.Scale,
		Rotation:       c.Rotation,
		RotateWithView: c.RotateWithView,
		SnapToPixel:    c.SnapToPixel,
	}
	args.PixelRatio = pr
	args.ViewRotation = p.viewRotation

	rotation := c.Rotation
	if c.RotateWithView {
		rotation += p.viewRotation
	}
	anchorX, anchorY := c.Anchor[0]*pr, c.Anchor[1]*pr
	b := c.Image.Bounds()
	imgW, imgH := float64(b.Dx()), float64(b.Dy())
	w, h := c.Size[0], c.Size[1]
	if w+c.Origin[0] > imgW {
		w = imgW - c.Origin[0]
	}
	if h+c.Origin[1] > imgH {
		h = imgH - c.Origin[1]
	}

	for d := c.Begin; d+1 < c.End; d += 2 {
		r.featureExtent = r.featureExtent.Extend(args.Extent(pc[d], pc[d+1], 0))
		x := pc[d] - anchorX
		y := pc[d+1] - anchorY
		if c.SnapToPixel {
			x, y = roundHalfUp(x), roundHalfUp(y)
		}
		local := c.Scale != 1 || rotation != 0
		if local {
			cx, cy := x+anchorX, y+anchorY
			s.Save()
			s.Transform(transform.Compose(cx, cy, c.Scale, c.Scale, rotation, -cx, -cy))
		}
		alpha := s.GlobalAlpha()
		if c.Opacity != 1 {
			s.SetGlobalAlpha(alpha * c.Opacity)
		}
		s.DrawImage(c.Image, c.Origin[0], c.Origin[1], w, h, x, y, w*pr, h*pr)
		if c.Opacity != 1 {
			s.SetGlobalAlpha(alpha)
		}
		if local {
			s.Restore()
		}
	}
}

func (r *replay) drawText(p *playState, pc []float64, c DrawTextCommand) {
	s := p.surface
	pr := p.pixelRatio
	offsetX, offsetY := c.OffsetX*pr, c.OffsetY*pr
	scale := c.Scale * pr
	args := &style.TextRenderArgs{
		ReplayArgs:   r.commonArgs(),
		Font:         s.Font(),
		OffsetX:      offsetX,
		OffsetY:      offsetY,
		Scale:        c.Scale,
		Rotation:     c.Rotation,
		Text:         c.Text,
		TextAlign:    s.TextAlign(),
		TextBaseline: s.TextBaseline(),
	}
	args.PixelRatio = pr

	lines := strings.Split(c.Text, "\n")
	for d := c.Begin; d+1 < c.End; d += 2 {
		x := pc[d] + offsetX
		y := pc[d+1] + offsetY
		r.featureExtent = r.featureExtent.Extend(args.Extent(s, x, y, 0))
		local := scale != 1 || c.Rotation != 0
		if local {
			s.Save()
			s.Transform(transform.Compose(x, y, scale, scale, c.Rotation, -x, -y))
		}
		var lineHeight float64
		lineY := y
		if len(lines) > 1 {
			lineHeight = style.LineHeight(s)
			lineY = y - float64(len(lines)-1)/2*lineHeight
		}
		for _, line := range lines {
			if c.Fill {
				if err := s.FillText(line, x, lineY); err != nil {
					ggmap.Logger().Warn("render: fill text failed", "text", line, "err", err)
				}
			}
			if c.Stroke {
				if err := s.StrokeText(line, x, lineY); err != nil {
					ggmap.Logger().Warn("render: stroke text failed", "text", line, "err", err)
				}
			}
			lineY += lineHeight
		}
		if local {
			s.Restore()
		}
	}
}
