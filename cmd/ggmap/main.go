// Command ggmap renders YAML map scenes, looks up the features under a pixel
// and serves both over HTTP.
//
// Usage:
//
//	ggmap render -scene city.yaml -o city.png
//	ggmap hit -scene city.yaml -x 120 -y 80
//	ggmap serve -scene city.yaml -addr :8080
//
// Defaults come from GGMAP_* environment variables; flags override them.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/feature"
	"github.com/gogpu/ggmap/internal/config"
	"github.com/gogpu/ggmap/scene"
)

var errUsage = errors.New("usage: ggmap render|hit|serve [flags]")

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ggmap: load config:", err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	ggmap.SetLogger(logger)

	if err := run(os.Args[1:], cfg, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("ggmap failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, cfg *config.Config, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "render":
		return runRender(args[1:], cfg)
	case "hit":
		return runHit(args[1:], cfg, stdout)
	case "serve":
		return runServe(args[1:], cfg)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

// sceneFlags are shared by every command.
type sceneFlags struct {
	path       string
	width      int
	height     int
	pixelRatio float64
	cfg        *config.Config
}

func newSceneFlags(fs *flag.FlagSet, cfg *config.Config) *sceneFlags {
	sf := &sceneFlags{cfg: cfg}
	fs.StringVar(&sf.path, "scene", "", "scene file (YAML)")
	fs.IntVar(&sf.width, "width", cfg.Width, "image width in CSS pixels")
	fs.IntVar(&sf.height, "height", cfg.Height, "image height in CSS pixels")
	fs.Float64Var(&sf.pixelRatio, "pixel-ratio", cfg.PixelRatio, "device pixels per CSS pixel")
	return sf
}

func (sf *sceneFlags) load() (*scene.Map, error) {
	if sf.path == "" {
		return nil, errors.New("missing -scene")
	}
	s, err := scene.LoadFile(sf.path)
	if err != nil {
		return nil, err
	}
	slog.Info("scene loaded", "path", sf.path, "features", len(s.Features))
	return s.Build(scene.Options{
		Width:        sf.width,
		Height:       sf.height,
		PixelRatio:   sf.pixelRatio,
		RenderBuffer: sf.cfg.RenderBuffer,
		DefaultFont:  sf.cfg.Font,
	})
}

func runRender(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	sf := newSceneFlags(fs, cfg)
	output := fs.String("o", "map.png", "output file")
	format := fs.String("format", "", "image format; defaults to the output extension")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := *format
	if f == "" {
		f = formatOf(*output)
	}
	m, err := sf.load()
	if err != nil {
		return err
	}

	out, err := os.Create(*output)
	if err != nil {
		return err
	}
	if err := m.Encode(out, f); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", *output, err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	slog.Info("map rendered", "output", *output, "format", f)
	return nil
}

// formatOf maps a file name to an image format name.
func formatOf(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "", "png":
		return "png"
	case "jpg":
		return "jpeg"
	case "tif":
		return "tiff"
	}
	return ext
}

func runHit(args []string, cfg *config.Config, stdout io.Writer) error {
	fs := flag.NewFlagSet("hit", flag.ContinueOnError)
	sf := newSceneFlags(fs, cfg)
	x := fs.Float64("x", 0, "pixel x in CSS pixels")
	y := fs.Float64("y", 0, "pixel y in CSS pixels")
	all := fs.Bool("all", false, "report every feature at the pixel, not only the topmost")
	if err := fs.Parse(args); err != nil {
		return err
	}

	m, err := sf.load()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(hitAt(m, *x, *y, *all))
}

// hitResult is the JSON form of a hit-detection answer.
type hitResult struct {
	X          float64      `json:"x"`
	Y          float64      `json:"y"`
	Coordinate [2]float64   `json:"coordinate"`
	Features   []hitFeature `json:"features"`
}

type hitFeature struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

func hitAt(m *scene.Map, x, y float64, all bool) hitResult {
	var fs []*feature.Feature
	if all {
		fs = m.HitAll(x, y)
	} else if f := m.Hit(x, y); f != nil {
		fs = []*feature.Feature{f}
	}
	res := hitResult{X: x, Y: y, Coordinate: m.Coordinate(x, y), Features: make([]hitFeature, 0, len(fs))}
	for _, f := range fs {
		hf := hitFeature{ID: f.ID(), Properties: f.Properties()}
		if g := f.Geometry(); g != nil {
			hf.Type = string(g.Type())
		}
		res.Features = append(res.Features, hf)
	}
	return res
}
