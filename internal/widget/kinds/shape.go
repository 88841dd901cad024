package kinds

import (
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// shape is the common body of the closed shape kinds: a background fill,
// a fill level in the foreground color and an outline.
type shape struct {
	*widget.Base

	fillLevel   *property.Typed[float64]
	horizontal  *property.Typed[bool]
	transparent *property.Typed[bool]
	lineWidth   *property.Typed[int]
	lineColor   *property.Typed[document.Color]
	gradient    *property.Typed[bool]
	bgGradient  *property.Typed[document.Color]
	fgGradient  *property.Typed[document.Color]

	fill    func(s raster.Surface, b geom.Box)
	outline func(s raster.Surface, b geom.Box)
}

func newShape(kind string) *shape {
	sh := &shape{
		Base:        widget.NewBase(kind),
		fillLevel:   property.Float("fill_level", 0),
		horizontal:  property.Bool("horizontal_fill", false),
		transparent: property.Bool("transparent", false),
		lineWidth:   property.Int("line_width", 0),
		lineColor:   property.Color("line_color", document.Color{R: 128, G: 128, B: 128}),
		gradient:    property.Bool("gradient", false),
		bgGradient:  property.Color("bg_gradient_color", document.White),
		fgGradient:  property.Color("fg_gradient_color", document.White),
	}
	for _, p := range []property.Property{
		sh.fillLevel, sh.horizontal, sh.transparent, sh.lineWidth,
		sh.lineColor, sh.gradient, sh.bgGradient, sh.fgGradient,
	} {
		sh.Props.Add(p)
	}
	return sh
}

func newRectangle() widget.Widget {
	sh := newShape("rectangle")
	sh.fill = func(s raster.Surface, b geom.Box) { s.FillRect(b.X, b.Y, b.Width, b.Height) }
	sh.outline = func(s raster.Surface, b geom.Box) { s.StrokeRect(b.X, b.Y, b.Width, b.Height) }
	return sh
}

func newRoundedRectangle() widget.Widget {
	sh := newShape("roundedrectangle")
	cw := property.Int("corner_width", 16)
	ch := property.Int("corner_height", 16)
	sh.Props.Add(cw)
	sh.Props.Add(ch)
	radii := func() (float64, float64) { return float64(cw.Value()) / 2, float64(ch.Value()) / 2 }
	sh.fill = func(s raster.Surface, b geom.Box) {
		rx, ry := radii()
		s.FillRoundRect(b.X, b.Y, b.Width, b.Height, rx, ry)
	}
	sh.outline = func(s raster.Surface, b geom.Box) {
		rx, ry := radii()
		s.StrokeRoundRect(b.X, b.Y, b.Width, b.Height, rx, ry)
	}
	return sh
}

func newEllipse() widget.Widget {
	sh := newShape("ellipse")
	sh.fill = func(s raster.Surface, b geom.Box) {
		cx, cy := b.Center()
		s.FillEllipse(cx, cy, b.Width/2, b.Height/2)
	}
	sh.outline = func(s raster.Surface, b geom.Box) {
		cx, cy := b.Center()
		s.StrokeEllipse(cx, cy, b.Width/2, b.Height/2)
	}
	return sh
}

// paint sets the fill for one layer: a flat color, or a gradient from start
// to c running along the fill direction.
func (sh *shape) paint(s raster.Surface, b geom.Box, start, c document.Color) {
	if !sh.gradient.Value() {
		s.SetFill(c.RGBA())
		return
	}
	if sh.horizontal.Value() {
		s.SetLinearGradient(b.X, b.Y, b.X, b.Y+b.Height, start.RGBA(), c.RGBA())
		return
	}
	s.SetLinearGradient(b.X, b.Y, b.X+b.Width, b.Y, start.RGBA(), c.RGBA())
}

// levelBox is the part of b covered by a fill level in percent. Horizontal
// fills grow from the left, vertical ones from the bottom.
func levelBox(b geom.Box, level float64, horizontal bool) geom.Box {
	level = min(max(level, 0), 100) / 100
	if horizontal {
		return geom.Box{X: b.X, Y: b.Y, Width: b.Width * level, Height: b.Height}
	}
	h := b.Height * level
	return geom.Box{X: b.X, Y: b.Y + b.Height - h, Width: b.Width, Height: h}
}

func (sh *shape) Draw(s raster.Surface, _ *hit.Canvas) {
	c := sh.Content()
	if !sh.transparent.Value() {
		sh.paint(s, c, sh.bgGradient.Value(), sh.Background.Value())
		sh.fill(s, c)
	}
	if level := sh.fillLevel.Value(); level > 0 {
		lb := levelBox(c, level, sh.horizontal.Value())
		s.Save()
		s.Clip(lb.X, lb.Y, lb.Width, lb.Height)
		sh.paint(s, c, sh.fgGradient.Value(), sh.Foreground.Value())
		sh.fill(s, c)
		s.Restore()
	}
	if lw := float64(sh.lineWidth.Value()); lw > 0 {
		bb := geom.ToBorderBox(c.X, c.Y, c.Width, c.Height, lw)
		s.SetStroke(sh.lineColor.Value().RGBA(), lw, nil)
		sh.outline(s, bb)
	}
}
