package config

import (
	"log/slog"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, as in GGMAP_WIDTH.
const Prefix = "ggmap"

type Config struct {
	Width        int        `envconfig:"WIDTH" default:"256"`
	Height       int        `envconfig:"HEIGHT" default:"256"`
	PixelRatio   float64    `envconfig:"PIXEL_RATIO" default:"1"`
	RenderBuffer float64    `envconfig:"RENDER_BUFFER" default:"0"`
	Font         string     `envconfig:"FONT" default:"10px sans-serif"`
	LogLevel     slog.Level `envconfig:"LOG_LEVEL" default:"info"`
	Addr         string     `envconfig:"ADDR" default:":8080"`
	RenderRate   float64    `envconfig:"RENDER_RATE" default:"20"`
	RenderBurst  int        `envconfig:"RENDER_BURST" default:"5"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
