// Package css parses the CSS font shorthand used by text styles and
// derives pixel sizes from it.
package css

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MediumSize is the pixel size of the "medium" keyword and the reference
// for relative units.
const MediumSize = 16

// ErrInvalidSize is returned when a size carries no numeric value.
var ErrInvalidSize = errors.New("css: invalid size")

// UnknownUnitError is returned for a size whose unit is not supported.
type UnknownUnitError struct {
	Value string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("css: unknown size unit in %q", e.Value)
}

// Font is a parsed CSS font shorthand.
type Font struct {
	Style   string
	Variant string
	Weight  string
	Stretch string
	Size    string
	// LineHeight is "normal" unless given after a slash.
	LineHeight string
	Family     string

	SizeDefined       bool
	LineHeightDefined bool
}

// Bold reports whether the weight is bold or heavier than 500.
func (f Font) Bold() bool {
	switch f.Weight {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

// Italic reports whether the style is italic or oblique.
func (f Font) Italic() bool {
	return f.Style == "italic" || f.Style == "oblique"
}

var fontRE = regexp.MustCompile(`\b(italic|oblique|normal)?\s*` +
	`(small-caps|common-ligatures small-caps|normal)?\s*` +
	`(bold|bolder|lighter|normal|[1-9]00)?\s*` +
	`(ultra-condensed|extra-condensed|condensed|semi-condensed|normal|semi-expanded|expanded|extra-expanded|ultra-expanded)?\s*` +
	`(xx-small|x-small|small|medium|large|x-large|xx-large|[.\d]+(?:%|in|[cem]m|ex|p[ctx]))?` +
	`(?:[\s*/\s*](normal|[.\d]+(?:%|in|[cem]m|ex|p[ctx])))?\s*` +
	`(["\-,\w ]+)?`)

var (
	sizeUnitRE  = regexp.MustCompile(`^[.\d]*([a-z%-]+)?$`)
	sizeValueRE = regexp.MustCompile(`^([.\d]+)`)
)

// ParseFont parses a CSS font shorthand such as "bold 12px/14px Arial".
// Missing parts take their CSS initial values.
func ParseFont(spec string) Font {
	if strings.TrimSpace(spec) == "" {
		return Font{
			Style: "normal", Variant: "normal", Weight: "normal", Stretch: "normal",
			Size: "10px", LineHeight: "normal", Family: "sans-serif",
			SizeDefined: true,
		}
	}
	m := fontRE.FindStringSubmatch(spec)
	or := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}
	f := Font{
		Style:             or(m[1], "normal"),
		Variant:           or(m[2], "normal"),
		Weight:            or(m[3], "normal"),
		Stretch:           or(m[4], "normal"),
		Size:              m[5],
		LineHeight:        m[6],
		Family:            or(strings.TrimSpace(m[7]), "sans-serif"),
		SizeDefined:       true,
		LineHeightDefined: true,
	}
	if f.Size == "" {
		f.Size = "medium"
		f.SizeDefined = false
	}
	if f.LineHeight == "" {
		f.LineHeight = "normal"
		f.LineHeightDefined = false
	}
	return f
}

// ParseSize converts a CSS size (length, percentage or absolute keyword)
// to pixels. Relative units are resolved against MediumSize.
func ParseSize(size string) (float64, error) {
	size = strings.TrimSpace(size)
	switch size {
	case "xx-small":
		return MediumSize / 4, nil
	case "x-small":
		return MediumSize * 2 / 4, nil
	case "small":
		return MediumSize * 3 / 4, nil
	case "medium":
		return MediumSize, nil
	case "large":
		return MediumSize * 5 / 4, nil
	case "x-large":
		return MediumSize * 6 / 4, nil
	case "xx-large":
		return MediumSize * 7 / 4, nil
	}

	um := sizeUnitRE.FindStringSubmatch(size)
	vm := sizeValueRE.FindStringSubmatch(size)
	if um == nil || vm == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}
	v, err := strconv.ParseFloat(vm[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, size)
	}
	switch um[1] {
	case "px", "":
		return v, nil
	case "pt":
		return v * 96 / 72, nil
	case "pc":
		return v * 96 * 12 / 72, nil
	case "em":
		return v * MediumSize, nil
	case "ex":
		return v * MediumSize / 2, nil
	case "cm":
		return v * 96 / 2.54, nil
	case "mm":
		return v * 96 / 25.4, nil
	case "in":
		return v * 96, nil
	case "%":
		return v * MediumSize / 100, nil
	}
	return 0, &UnknownUnitError{Value: size}
}

// normalLineHeight is the factor applied to the font size for
// "line-height: normal".
const normalLineHeight = 1.2

// Height returns the pixel height of a text line described by a CSS font
// shorthand: the larger of the font size and the line height when both are
// given, otherwise whichever one is given. Unparsable sizes fall back to
// MediumSize.
func Height(spec string) float64 {
	f := ParseFont(spec)
	size, err := ParseSize(f.Size)
	if err != nil {
		size = MediumSize
	}
	if !f.LineHeightDefined {
		return size
	}
	var lh float64
	if f.LineHeight == "normal" {
		lh = size * normalLineHeight
	} else if lh, err = ParseSize(f.LineHeight); err != nil {
		return size
	}
	if !f.SizeDefined {
		return lh
	}
	if size > lh {
		return size
	}
	return lh
}

// SizePx returns the font size in pixels, falling back to MediumSize.
func (f Font) SizePx() float64 {
	v, err := ParseSize(f.Size)
	if err != nil {
		return MediumSize
	}
	return v
}
