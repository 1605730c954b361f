package canvas

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/ggmap/transform"
)

// DrawImage draws the source rectangle (sx, sy, sw, sh) of img into the
// destination rectangle (dx, dy, dw, dh) under the current transform and
// global alpha. Source coordinates are relative to img.Bounds().Min. The
// clip region does not apply to images.
func (s *Surface) DrawImage(img image.Image, sx, sy, sw, sh, dx, dy, dw, dh float64) {
	if img == nil || sw <= 0 || sh <= 0 || dw == 0 || dh == 0 || s.st.alpha == 0 {
		return
	}
	b := img.Bounds()
	sr := image.Rect(
		b.Min.X+int(math.Floor(sx)), b.Min.Y+int(math.Floor(sy)),
		b.Min.X+int(math.Ceil(sx+sw)), b.Min.Y+int(math.Ceil(sy+sh)),
	).Intersect(b)
	if sr.Empty() {
		return
	}

	src := img
	if s.st.alpha < 1 {
		faded := image.NewRGBA(sr)
		mask := image.NewUniform(color.Alpha16{A: uint16(s.st.alpha * 0xffff)})
		draw.DrawMask(faded, sr, img, sr.Min, mask, image.Point{}, draw.Src)
		src = faded
	}

	m := s.CurrentTransform().
		Multiply(transform.Translate(dx, dy)).
		Multiply(transform.Scale(dw/sw, dh/sh)).
		Multiply(transform.Translate(-(float64(b.Min.X) + sx), -(float64(b.Min.Y) + sy)))
	aff := f64.Aff3{m.A, m.B, m.C, m.D, m.E, m.F}

	draw.BiLinear.Transform(s.rgba(), aff, src, sr, draw.Over, nil)
}

// rgba exposes the pixmap memory as an image.RGBA without copying.
func (s *Surface) rgba() *image.RGBA {
	w, h := s.pm.Width(), s.pm.Height()
	return &image.RGBA{
		Pix:    s.pm.Data(),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}
}

// Silhouette returns an opaque copy of img: every pixel with non-zero alpha
// becomes fully opaque black, every other pixel stays transparent. Used as
// hit-detection artwork so that translucent edges still register hits.
func Silhouette(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				out.SetNRGBA(x, y, color.NRGBA{A: 0xff})
			}
		}
	}
	return out
}

// ImagePool caches derived images keyed by their source. The zero value is
// not usable; create pools with NewImagePool.
//
// ImagePool is safe for concurrent use.
type ImagePool struct {
	mu          sync.Mutex
	silhouettes map[image.Image]image.Image
}

// NewImagePool creates an empty pool.
func NewImagePool() *ImagePool {
	return &ImagePool{silhouettes: make(map[image.Image]image.Image)}
}

// DefaultImagePool is shared by icon styles.
var DefaultImagePool = NewImagePool()

// Silhouette returns the cached silhouette of img, computing it on first
// use. img must be a comparable image value such as a pointer.
func (p *ImagePool) Silhouette(img image.Image) image.Image {
	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.silhouettes[img]; ok {
		return s
	}
	s := Silhouette(img)
	p.silhouettes[img] = s
	return s
}

// Len returns the number of cached images.
func (p *ImagePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.silhouettes)
}

// Reset drops every cached image.
func (p *ImagePool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.silhouettes)
}
