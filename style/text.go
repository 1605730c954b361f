package style

// Text defaults applied when a text style leaves them unset.
const (
	DefaultFont         = "10px sans-serif"
	DefaultTextAlign    = "center"
	DefaultTextBaseline = "middle"
)

// Text describes a label drawn at a point. Only the hooks of the Text
// itself run; those of its Fill and Stroke are ignored.
type Text struct {
	Font         string
	OffsetX      float64
	OffsetY      float64
	Scale        float64
	Rotation     float64
	Text         string
	TextAlign    string
	TextBaseline string
	Fill         *Fill
	Stroke       *Stroke
	Hooks
}

// ResolvedFont returns Font or DefaultFont.
func (t *Text) ResolvedFont() string {
	if t.Font == "" {
		return DefaultFont
	}
	return t.Font
}

// ResolvedAlign returns TextAlign or DefaultTextAlign.
func (t *Text) ResolvedAlign() string {
	if t.TextAlign == "" {
		return DefaultTextAlign
	}
	return t.TextAlign
}

// ResolvedBaseline returns TextBaseline or DefaultTextBaseline.
func (t *Text) ResolvedBaseline() string {
	if t.TextBaseline == "" {
		return DefaultTextBaseline
	}
	return t.TextBaseline
}

// ResolvedScale returns Scale, treating zero as 1.
func (t *Text) ResolvedScale() float64 {
	if t.Scale == 0 {
		return 1
	}
	return t.Scale
}
