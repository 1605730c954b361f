// Package scene loads YAML map scenes and turns them into finished replay
// groups.
//
// A scene is a view (size, center, resolution, rotation) and a list of
// features, each with a geometry and zero or more styles:
//
//	view:
//	  width: 256
//	  height: 256
//	  center: [50, 50]
//	  resolution: 0.5
//	features:
//	  - id: park
//	    geometry:
//	      type: Polygon
//	      coordinates: [[[0, 0], [40, 0], [40, 40], [0, 40]]]
//	    styles:
//	      - fill: {color: "#4caf50"}
//	        stroke: {color: black, width: 2}
//	        text: {text: Park, font: bold 12px sans-serif}
//
// Features without styles use style.Default.
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyScene is returned by Load for a document without features.
var ErrEmptyScene = errors.New("scene: no features")

// Scene is a decoded scene document.
type Scene struct {
	View     View      `yaml:"view"`
	Features []Feature `yaml:"features"`
}

// View places the scene on the output image. Zero values are filled from
// the Options passed to Build.
type View struct {
	Width      int        `yaml:"width,omitempty"`
	Height     int        `yaml:"height,omitempty"`
	Center     [2]float64 `yaml:"center"`
	Resolution float64    `yaml:"resolution,omitempty"`
	Rotation   float64    `yaml:"rotation,omitempty"`
	PixelRatio float64    `yaml:"pixel_ratio,omitempty"`
	Projection string     `yaml:"projection,omitempty"`
	Tolerance  float64    `yaml:"tolerance,omitempty"`
	Background string     `yaml:"background,omitempty"`
}

// Feature is one scene feature.
type Feature struct {
	ID         string         `yaml:"id,omitempty"`
	Geometry   Geometry       `yaml:"geometry"`
	Properties map[string]any `yaml:"properties,omitempty"`
	Styles     []Style        `yaml:"styles,omitempty"`
}

// Load decodes a scene. Unknown keys are rejected.
func Load(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScene
		}
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	if len(s.Features) == 0 {
		return nil, ErrEmptyScene
	}
	return &s, nil
}

// LoadFile decodes the scene stored at path.
func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	defer f.Close()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load scene %q: %w", path, err)
	}
	return s, nil
}
