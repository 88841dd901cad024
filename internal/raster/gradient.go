package raster

import (
	"image"
	"image/color"
)

// linearGradient is an unbounded image whose color varies along the axis
// from (x0, y0) to (x1, y1) in device space.
type linearGradient struct {
	x0, y0, dx, dy, len2 float64
	from, to           color.RGBA64
}

func newLinearGradient(x0, y0, x1, y1 float64, from, to color.Color) *linearGradient {
	dx, dy := x1-x0, y1-y0
	return &linearGradient{
		x0: x0, y0: y0, dx: dx, dy: dy, len2: dx*dx + dy*dy,
		from: color.RGBA64Model.Convert(from).(color.RGBA64),
		to:   color.RGBA64Model.Convert(to).(color.RGBA64),
	}
}

func (g *linearGradient) ColorModel() color.Model { return color.RGBA64Model }

func (g *linearGradient) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (g *linearGradient) At(x, y int) color.Color {
	t := 0.0
	if g.len2 > 0 {
		t = ((float64(x)+0.5-g.x0)*g.dx + (float64(y)+0.5-g.y0)*g.dy) / g.len2
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	lerp := func(a, b uint16) uint16 {
		return uint16(float64(a) + (float64(b)-float64(a))*t)
	}
	return color.RGBA64{
		R: lerp(g.from.R, g.to.R),
		G: lerp(g.from.G, g.to.G),
		B: lerp(g.from.B, g.to.B),
		A: lerp(g.from.A, g.to.A),
	}
}
