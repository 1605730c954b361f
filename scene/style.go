package scene

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/gogpu/ggmap/canvas"
	"github.com/gogpu/ggmap/style"
)

// ErrUnknownRenderer is returned for a custom renderer nobody registered.
var ErrUnknownRenderer = errors.New("scene: unknown custom renderer")

// Style is the YAML form of style.Style.
type Style struct {
	ZIndex int         `yaml:"z_index,omitempty"`
	Fill   *FillSpec   `yaml:"fill,omitempty"`
	Stroke *StrokeSpec `yaml:"stroke,omitempty"`
	Circle *CircleSpec `yaml:"circle,omitempty"`
	Text   *TextSpec   `yaml:"text,omitempty"`
	// Custom names a renderer registered with RegisterRenderer.
	Custom string `yaml:"custom,omitempty"`
	// Geometry names a feature property holding the geometry to draw.
	Geometry string `yaml:"geometry,omitempty"`
}

// FillSpec is a fill. An empty color paints black.
type FillSpec struct {
	Color string `yaml:"color,omitempty"`
}

// StrokeSpec is a stroke.
type StrokeSpec struct {
	Color      string    `yaml:"color,omitempty"`
	Width      float64   `yaml:"width"`
	LineCap    string    `yaml:"line_cap,omitempty"`
	LineJoin   string    `yaml:"line_join,omitempty"`
	LineDash   []float64 `yaml:"line_dash,omitempty"`
	MiterLimit float64   `yaml:"miter_limit,omitempty"`
}

// CircleSpec is a circle icon drawn at points.
type CircleSpec struct {
	Radius float64     `yaml:"radius"`
	Fill   *FillSpec   `yaml:"fill,omitempty"`
	Stroke *StrokeSpec `yaml:"stroke,omitempty"`
}

// TextSpec is a label.
type TextSpec struct {
	Text     string      `yaml:"text"`
	Font     string      `yaml:"font,omitempty"`
	OffsetX  float64     `yaml:"offset_x,omitempty"`
	OffsetY  float64     `yaml:"offset_y,omitempty"`
	Scale    float64     `yaml:"scale,omitempty"`
	Rotation float64     `yaml:"rotation,omitempty"`
	Align    string      `yaml:"align,omitempty"`
	Baseline string      `yaml:"baseline,omitempty"`
	Fill     *FillSpec   `yaml:"fill,omitempty"`
	Stroke   *StrokeSpec `yaml:"stroke,omitempty"`
}

func parseBrush(s string) (gg.Brush, error) {
	if s == "" {
		return nil, nil
	}
	c, err := canvas.ParseColor(s)
	if err != nil {
		return nil, err
	}
	return gg.Solid(c), nil
}

func (f *FillSpec) build() (*style.Fill, error) {
	if f == nil {
		return nil, nil
	}
	b, err := parseBrush(f.Color)
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}
	return style.NewFill(style.FillOptions{Color: b}), nil
}

func (s *StrokeSpec) build() (*style.Stroke, error) {
	if s == nil {
		return nil, nil
	}
	b, err := parseBrush(s.Color)
	if err != nil {
		return nil, fmt.Errorf("stroke: %w", err)
	}
	return style.NewStroke(style.StrokeOptions{
		Color:      b,
		Width:      s.Width,
		LineCap:    s.LineCap,
		LineJoin:   s.LineJoin,
		LineDash:   s.LineDash,
		MiterLimit: s.MiterLimit,
	}), nil
}

// build converts s. defaultFont applies to labels without a font.
func (s *Style) build(defaultFont string) (*style.Style, error) {
	out := &style.Style{ZIndex: s.ZIndex}
	var err error
	if out.Fill, err = s.Fill.build(); err != nil {
		return nil, err
	}
	if out.Stroke, err = s.Stroke.build(); err != nil {
		return nil, err
	}
	if c := s.Circle; c != nil {
		fill, err := c.Fill.build()
		if err != nil {
			return nil, fmt.Errorf("circle %w", err)
		}
		stroke, err := c.Stroke.build()
		if err != nil {
			return nil, fmt.Errorf("circle %w", err)
		}
		out.Image = style.NewCircleIcon(c.Radius, fill, stroke)
	}
	if t := s.Text; t != nil {
		fill, err := t.Fill.build()
		if err != nil {
			return nil, fmt.Errorf("text %w", err)
		}
		stroke, err := t.Stroke.build()
		if err != nil {
			return nil, fmt.Errorf("text %w", err)
		}
		if fill == nil && stroke == nil {
			fill = style.NewFill(style.FillOptions{})
		}
		font := t.Font
		if font == "" {
			font = defaultFont
		}
		out.Text = &style.Text{
			Font:         font,
			OffsetX:      t.OffsetX,
			OffsetY:      t.OffsetY,
			Scale:        t.Scale,
			Rotation:     t.Rotation,
			Text:         t.Text,
			TextAlign:    t.Align,
			TextBaseline: t.Baseline,
			Fill:         fill,
			Stroke:       stroke,
		}
	}
	if s.Custom != "" {
		c, ok := lookupRenderer(s.Custom)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownRenderer, s.Custom)
		}
		out.CustomRendering = c
	}
	if s.Geometry != "" {
		out.Geometry = style.GeometryProperty(s.Geometry)
	}
	return out, nil
}
