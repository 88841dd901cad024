// Package raster provides the 2D drawing surface displays are painted on.
//
// Surface is the contract widget renderers and the hit-testing engine draw
// against; Canvas is the implementation backed by an *image.RGBA and the
// golang.org/x/image rasterizer.
package raster

import (
	"image"
	"image/color"
)

// Surface is a 2D raster drawing surface.
//
// Coordinates passed to drawing calls are user coordinates: they are shifted
// by the current translation and limited to the current clip. At reads device
// pixels and ignores both.
type Surface interface {
	Bounds() image.Rectangle

	// Save pushes the current translation, clip, fill and stroke; Restore pops them.
	Save()
	Restore()
	Translate(dx, dy float64)
	// Clip intersects the current clip with the given user-space rectangle.
	Clip(x, y, w, h float64)

	SetFill(c color.Color)
	SetLinearGradient(x0, y0, x1, y1 float64, from, to color.Color)
	SetStroke(c color.Color, width float64, dash []float64)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillRoundRect(x, y, w, h, rx, ry float64)
	StrokeRoundRect(x, y, w, h, rx, ry float64)
	FillEllipse(cx, cy, rx, ry float64)
	StrokeEllipse(cx, cy, rx, ry float64)
	FillPath(p *Path)
	StrokePath(p *Path)

	DrawText(x, y float64, text string, c color.Color)
	DrawImage(img image.Image, x, y, w, h float64)

	Clear(c color.Color)
	At(x, y int) color.RGBA
}
