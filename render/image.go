package render

import (
	"image"

	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/style"
)

// ImageReplay encodes icons drawn at points. The hit stream draws the
// icon's hit-detection image in its place.
type ImageReplay struct {
	replay

	icon     *style.Icon
	hitImage image.Image
	pool     *canvas.ImagePool
}

// NewImageReplay returns an empty icon replay. Silhouettes for hit
// detection are cached in pool, or in canvas.DefaultImagePool when pool is
// nil.
func NewImageReplay(opts ReplayOptions, pool *canvas.ImagePool) *ImageReplay {
	if pool == nil {
		pool = canvas.DefaultImagePool
	}
	return &ImageReplay{replay: newReplay(opts), pool: pool}
}

func (*ImageReplay) Type() ReplayType { return ReplayImage }

// SetImageStyle sets the icon of the following points. A nil icon makes
// them draw nothing.
func (r *ImageReplay) SetImageStyle(icon *style.Icon) {
	r.icon = icon
	r.hitImage = nil
	if icon != nil {
		r.hitImage = icon.HitDetectionImage(r.pool)
	}
}

// DrawPoint encodes p.
func (r *ImageReplay) DrawPoint(p *geom.Point, f *feature.Feature) {
	r.drawPoints(p, f)
}

// DrawMultiPoint encodes every point of m in one geometry block.
func (r *ImageReplay) DrawMultiPoint(m *geom.MultiPoint, f *feature.Feature) {
	r.drawPoints(m, f)
}

func (r *ImageReplay) drawPoints(g geom.Geometry, f *feature.Feature) {
	r.checkOpen()
	if r.icon == nil {
		return
	}
	icon := r.icon
	flat := g.FlatCoordinates()
	begin := len(r.coordinates)
	end := r.appendFlatCoordinates(flat, 0, len(flat), g.Stride(), false)

	cmd := DrawImageCommand{
		Begin:          begin,
		End:            end,
		Image:          icon.Image(),
		Anchor:         icon.Anchor(),
		Origin:         icon.Origin(),
		Size:           icon.Size(),
		Opacity:        icon.Opacity(),
		Scale:          icon.Scale(),
		Rotation:       icon.Rotation(),
		RotateWithView: icon.RotateWithView(),
		SnapToPixel:    icon.SnapToPixel(),
	}
	hit := cmd
	hit.Image = r.hitImage

	hooks := icon.Hooks()
	call := hookCall{Feature: f, Begin: begin, End: end}
	if hooks.Any() {
		call.Args = &style.ImageRenderArgs{
			ReplayArgs:     r.commonArgs(),
			AnchorOffset:   cmd.Anchor,
			Origin:         cmd.Origin,
			Size:           cmd.Size,
			Opacity:        cmd.Opacity,
			Scale:          cmd.Scale,
			Rotation:       cmd.Rotation,
			RotateWithView: cmd.RotateWithView,
			SnapToPixel:    cmd.SnapToPixel,
		}
	}

	r.beginGeometry(g, f)
	if h := hooks.PreRender; h != nil {
		call.Func = h
		r.emit(PreRenderCommand{call})
	}
	r.emit(cmd)
	r.emitHit(hit)
	if h := hooks.PostRender; h != nil {
		call.Func = h
		r.emit(PostRenderCommand{call})
	}
	if h := hooks.ForegroundRender; h != nil {
		call.Func = h
		r.emit(ForegroundRenderCommand{call})
	}
	r.endGeometry(f)
}

// Finish freezes the replay.
func (r *ImageReplay) Finish() {
	r.finish()
	r.icon = nil
	r.hitImage = nil
}
