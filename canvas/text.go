package canvas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/ggmap/css"
)

type fontKey struct {
	family string
	bold   bool
	italic bool
}

type faceKey struct {
	fontKey
	size float64
}

// fontCache maps CSS font shorthands to gg text faces. Families that were
// not registered fall back to the embedded Go fonts.
type fontCache struct {
	mu      sync.Mutex
	sources map[fontKey]*text.FontSource
	faces   map[faceKey]text.Face
}

var fonts = &fontCache{
	sources: make(map[fontKey]*text.FontSource),
	faces:   make(map[faceKey]text.Face),
}

// RegisterFont makes a TrueType or OpenType font available under a CSS
// family name for the given weight and style.
func RegisterFont(family string, bold, italic bool, data []byte) error {
	src, err := text.NewFontSource(data)
	if err != nil {
		return fmt.Errorf("canvas: register font %q: %w", family, err)
	}
	fonts.mu.Lock()
	defer fonts.mu.Unlock()
	fonts.sources[fontKey{strings.ToLower(family), bold, italic}] = src
	for k := range fonts.faces {
		if k.family == strings.ToLower(family) {
			delete(fonts.faces, k)
		}
	}
	return nil
}

func goFontData(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

// face resolves a CSS font shorthand to a face sized in pixels.
func (c *fontCache) face(spec string) (text.Face, error) {
	f := css.ParseFont(spec)
	size := f.SizePx()
	bold, italic := f.Bold(), f.Italic()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, fam := range strings.Split(f.Family, ",") {
		fam = strings.ToLower(strings.Trim(strings.TrimSpace(fam), `"`))
		key := faceKey{fontKey{fam, bold, italic}, size}
		if face, ok := c.faces[key]; ok {
			return face, nil
		}
		if src, ok := c.sources[key.fontKey]; ok {
			face := src.Face(size)
			c.faces[key] = face
			return face, nil
		}
	}

	key := faceKey{fontKey{"", bold, italic}, size}
	if face, ok := c.faces[key]; ok {
		return face, nil
	}
	src, ok := c.sources[key.fontKey]
	if !ok {
		var err error
		src, err = text.NewFontSource(goFontData(bold, italic))
		if err != nil {
			return nil, fmt.Errorf("canvas: load embedded font: %w", err)
		}
		c.sources[key.fontKey] = src
	}
	face := src.Face(size)
	c.faces[key] = face
	return face, nil
}

// MeasureText returns the advance width of txt in the current font.
func (s *Surface) MeasureText(txt string) float64 {
	face, err := fonts.face(s.st.font)
	if err != nil {
		return 0
	}
	return face.Advance(txt)
}

// FillText fills txt at (x, y) honouring the current font, alignment,
// baseline and transform. The current path is replaced by the glyph
// outlines.
func (s *Surface) FillText(txt string, x, y float64) error {
	if err := s.textPath(txt, x, y); err != nil {
		return err
	}
	return s.Fill()
}

// StrokeText outlines txt at (x, y) with the stroke style. The current path
// is replaced by the glyph outlines.
func (s *Surface) StrokeText(txt string, x, y float64) error {
	if err := s.textPath(txt, x, y); err != nil {
		return err
	}
	return s.Stroke()
}

func (s *Surface) textPath(txt string, x, y float64) error {
	face, err := fonts.face(s.st.font)
	if err != nil {
		return err
	}
	m := face.Metrics()
	width := face.Advance(txt)

	switch s.st.align {
	case "center":
		x -= width / 2
	case "right", "end":
		x -= width
	}
	switch s.st.baseline {
	case "top":
		y += m.Ascent
	case "hanging":
		y += m.Ascent * 0.8
	case "middle":
		y += (m.Ascent - m.Descent) / 2
	case "ideographic", "bottom":
		y -= m.Descent
	}

	s.dc.ClearPath()
	parsed := face.Source().Parsed()
	size := face.Size()
	for g := range face.Glyphs(txt) {
		o, err := s.extractor.ExtractOutline(parsed, g.GID, size)
		if err != nil || o == nil || o.IsEmpty() {
			continue
		}
		ox, oy := x+g.X, y+g.Y
		open := false
		for _, seg := range o.Segments {
			p := seg.Points
			switch seg.Op {
			case text.OutlineOpMoveTo:
				if open {
					s.dc.ClosePath()
				}
				s.dc.MoveTo(ox+float64(p[0].X), oy+float64(p[0].Y))
				open = true
			case text.OutlineOpLineTo:
				s.dc.LineTo(ox+float64(p[0].X), oy+float64(p[0].Y))
			case text.OutlineOpQuadTo:
				s.dc.QuadraticTo(ox+float64(p[0].X), oy+float64(p[0].Y),
					ox+float64(p[1].X), oy+float64(p[1].Y))
			case text.OutlineOpCubicTo:
				s.dc.CubicTo(ox+float64(p[0].X), oy+float64(p[0].Y),
					ox+float64(p[1].X), oy+float64(p[1].Y),
					ox+float64(p[2].X), oy+float64(p[2].Y))
			}
		}
		if open {
			s.dc.ClosePath()
		}
	}
	return nil
}
