// Package ggmap renders vector map features onto a gg raster surface and
// hit-tests them at pixel precision.
//
// # Overview
//
// Geometry and style are compiled once into replayable instruction streams
// (see package render). A stream is played back every frame against the
// current view transform, and a second, reversed stream is played against a
// 1x1 probe surface to find the topmost feature under a pixel.
//
// # Quick Start
//
//	group := render.NewReplayGroup(render.GroupOptions{
//	    Tolerance:    0,
//	    MaxExtent:    extent.Extent{0, 0, 256, 256},
//	    Resolution:   1,
//	    RenderBuffer: 10,
//	})
//	f := feature.New(geom.NewPolygon([]float64{0, 0, 10, 0, 10, 10, 0, 10}, []int{8}))
//	render.DrawFeature(group, f, st)
//	group.Finish()
//
//	s := canvas.New(256, 256)
//	frame := render.NewFrameState(render.ViewState{Resolution: 1})
//	group.Replay(s, 1, tr, 0, nil, frame)
//	frame.Flush()
//
// # Packages
//
//   - render: replays, replay group, spatial index, hit testing
//   - canvas: Canvas2D-like drawing surface over gg
//   - style: fill, stroke, text, icon and custom rendering styles, render args
//   - geom, extent, transform, vec, css: geometry and math helpers
//   - scene: YAML scene files for the ggmap command
//
// # Coordinate System
//
// Map coordinates are y-up. The frame transform maps them to device pixels
// with the origin at the top-left, x to the right and y down.
package ggmap
