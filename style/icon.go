package style

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/canvas"
)

// Icon draws an image anchored at a point.
type Icon struct {
	img            image.Image
	hitImg         image.Image
	anchor         [2]float64
	origin         [2]float64
	size           [2]float64
	opacity        float64
	scale          float64
	rotation       float64
	rotateWithView bool
	snapToPixel    bool
	hooks          Hooks
}

// IconOption configures an Icon.
type IconOption func(*Icon)

// WithAnchor sets the anchor in image pixels, measured from the top-left
// corner of the cropped area. The default is the center.
func WithAnchor(x, y float64) IconOption {
	return func(i *Icon) { i.anchor = [2]float64{x, y} }
}

// WithOrigin sets the top-left corner of the cropped area.
func WithOrigin(x, y float64) IconOption {
	return func(i *Icon) { i.origin = [2]float64{x, y} }
}

// WithSize sets the size of the cropped area.
func WithSize(w, h float64) IconOption {
	return func(i *Icon) { i.size = [2]float64{w, h} }
}

// WithOpacity sets the opacity in [0, 1].
func WithOpacity(o float64) IconOption {
	return func(i *Icon) { i.opacity = o }
}

// WithScale sets the scale factor.
func WithScale(s float64) IconOption {
	return func(i *Icon) { i.scale = s }
}

// WithRotation sets the rotation in radians, clockwise.
func WithRotation(r float64) IconOption {
	return func(i *Icon) { i.rotation = r }
}

// WithRotateWithView makes the icon follow the view rotation.
func WithRotateWithView(v bool) IconOption {
	return func(i *Icon) { i.rotateWithView = v }
}

// WithSnapToPixel controls rounding of the draw position. Enabled by
// default.
func WithSnapToPixel(v bool) IconOption {
	return func(i *Icon) { i.snapToPixel = v }
}

// WithHitDetectionImage sets the image drawn into hit probes. By default
// an opaque silhouette of the icon is used.
func WithHitDetectionImage(img image.Image) IconOption {
	return func(i *Icon) { i.hitImg = img }
}

// WithIconHooks attaches render hooks.
func WithIconHooks(h Hooks) IconOption {
	return func(i *Icon) { i.hooks = h }
}

// NewIcon creates an icon style for img.
func NewIcon(img image.Image, opts ...IconOption) *Icon {
	b := img.Bounds()
	i := &Icon{
		img:         img,
		size:        [2]float64{float64(b.Dx()), float64(b.Dy())},
		opacity:     1,
		scale:       1,
		snapToPixel: true,
	}
	i.anchor = [2]float64{i.size[0] / 2, i.size[1] / 2}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// NewCircleIcon renders a circle with an optional fill and stroke into an
// icon anchored at its center.
func NewCircleIcon(radius float64, fill *Fill, stroke *Stroke) *Icon {
	strokeWidth := 0.0
	if stroke != nil {
		strokeWidth = stroke.Width()
	}
	size := int(math.Ceil(2*(radius+strokeWidth))) + 1
	c := float64(size) / 2

	s := canvas.New(size, size)
	s.BeginPath()
	s.Arc(c, c, radius)
	if fill != nil && fill.Color() != nil {
		s.SetFillStyle(fill.Color())
		_ = s.Fill()
	}
	if stroke != nil && stroke.Color() != nil {
		applyStroke(s, stroke, 1)
		_ = s.Stroke()
	}

	// Hit silhouettes cover the whole disc even when it is not filled.
	hit := canvas.New(size, size)
	hit.BeginPath()
	hit.Arc(c, c, radius+strokeWidth/2)
	hit.SetFillStyle(gg.Solid(gg.Black))
	_ = hit.Fill()

	return NewIcon(s.Image(), WithHitDetectionImage(hit.Image()))
}

// applyStroke copies the stroke parameters onto a surface.
func applyStroke(s *canvas.Surface, st *Stroke, pixelRatio float64) {
	lineCap, lineJoin, miter := st.Resolved()
	s.SetStrokeStyle(st.Color())
	s.SetLineWidth(st.Width() * pixelRatio)
	s.SetLineCap(canvas.ParseLineCap(lineCap))
	s.SetLineJoin(canvas.ParseLineJoin(lineJoin))
	s.SetMiterLimit(miter)
	s.SetLineDash(st.LineDash())
}

// Image returns the icon image.
func (i *Icon) Image() image.Image { return i.img }

// HitDetectionImage returns the image drawn into hit probes, using pool to
// cache generated silhouettes.
func (i *Icon) HitDetectionImage(pool *canvas.ImagePool) image.Image {
	if i.hitImg != nil {
		return i.hitImg
	}
	if pool == nil {
		pool = canvas.DefaultImagePool
	}
	return pool.Silhouette(i.img)
}

// ImageSize returns the full image size.
func (i *Icon) ImageSize() [2]float64 {
	b := i.img.Bounds()
	return [2]float64{float64(b.Dx()), float64(b.Dy())}
}

func (i *Icon) Anchor() [2]float64   { return i.anchor }
func (i *Icon) Origin() [2]float64   { return i.origin }
func (i *Icon) Size() [2]float64     { return i.size }
func (i *Icon) Opacity() float64     { return i.opacity }
func (i *Icon) Scale() float64       { return i.scale }
func (i *Icon) Rotation() float64    { return i.rotation }
func (i *Icon) RotateWithView() bool { return i.rotateWithView }
func (i *Icon) SnapToPixel() bool    { return i.snapToPixel }
func (i *Icon) Hooks() Hooks         { return i.hooks }

// SetOpacity changes the opacity.
func (i *Icon) SetOpacity(o float64) { i.opacity = o }

// SetRotation changes the rotation.
func (i *Icon) SetRotation(r float64) { i.rotation = r }

// SetScale changes the scale.
func (i *Icon) SetScale(s float64) { i.scale = s }
