package widget

import (
	"image/color"

	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/raster"
)

var (
	bevelLight  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	bevelShadow = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	bevelDark   = color.RGBA{R: 64, G: 64, B: 64, A: 255}
)

func dashPattern(style geom.BorderStyle, w float64) []float64 {
	switch style {
	case geom.BorderDot:
		return []float64{w, w}
	case geom.BorderDash:
		return []float64{3 * w, w}
	case geom.BorderDashDot:
		return []float64{3 * w, w, w, w}
	case geom.BorderDashDotDot:
		return []float64{3 * w, w, w, w, w, w}
	}
	return nil
}

// drawBorder paints the border of b at its holder box.
func drawBorder(s raster.Surface, b *Base) {
	h := b.holder
	w := float64(b.BorderWidth.Value())
	bc := b.BorderColor.Value().RGBA()

	switch style := b.Style(); style {
	case geom.BorderNone, geom.BorderEmpty:
		// An alarm-sensitive None border reserves its inset but draws nothing.
	case geom.BorderLine, geom.BorderDot, geom.BorderDash, geom.BorderDashDot, geom.BorderDashDotDot:
		if w <= 0 {
			return
		}
		bb := geom.ToBorderBox(h.X, h.Y, h.Width, h.Height, w)
		s.SetStroke(bc, w, dashPattern(style, w))
		s.StrokeRect(bb.X, bb.Y, bb.Width, bb.Height)
	case geom.BorderRaised:
		bevel(s, h, 1, bevelLight, bevelDark)
	case geom.BorderLowered:
		bevel(s, h, 1, bevelDark, bevelLight)
	case geom.BorderEtched:
		bevel(s, h, 1, bevelShadow, bevelLight)
		bevel(s, inset(h, 1), 1, bevelLight, bevelShadow)
	case geom.BorderRidged:
		bevel(s, h, 1, bevelLight, bevelShadow)
		bevel(s, inset(h, 1), 1, bevelShadow, bevelLight)
	case geom.BorderButtonRaised:
		DrawBevel(s, h, false)
	case geom.BorderButtonPressed:
		DrawBevel(s, h, true)
	case geom.BorderTitleBar:
		s.SetFill(bc)
		s.FillRect(h.X, h.Y, h.Width, 17)
		s.SetStroke(bc, 1, nil)
		bb := geom.ToBorderBox(h.X, h.Y, h.Width, h.Height, 1)
		s.StrokeRect(bb.X, bb.Y, bb.Width, bb.Height)
		if name := b.Name(); name != "" {
			s.Save()
			s.Clip(h.X, h.Y, h.Width, 17)
			s.DrawText(h.X+3, h.Y+13, name, b.Foreground.Value().RGBA())
			s.Restore()
		}
	case geom.BorderGroupBox:
		bb := geom.ToBorderBox(h.X+8, h.Y+8, h.Width-16, h.Height-16, 1)
		s.SetStroke(bc, 1, nil)
		s.StrokeRect(bb.X, bb.Y, bb.Width, bb.Height)
		if name := b.Name(); name != "" {
			tw, _ := raster.MeasureText(name)
			s.SetFill(b.Background.Value().RGBA())
			s.FillRect(h.X+12, h.Y+2, tw+4, 13)
			s.DrawText(h.X+14, h.Y+12, name, b.Foreground.Value().RGBA())
		}
	case geom.BorderRoundRectangleBackground:
		if w <= 0 {
			return
		}
		bb := geom.ToBorderBox(h.X, h.Y, h.Width, h.Height, w)
		s.SetStroke(bc, w, nil)
		s.StrokeRoundRect(bb.X, bb.Y, bb.Width, bb.Height, 8, 8)
	}
}

// bevel strokes a 1px frame: tl on the top and left edges, br on the bottom
// and right ones.
func bevel(s raster.Surface, b geom.Box, w float64, tl, br color.Color) {
	s.SetFill(tl)
	s.FillRect(b.X, b.Y, b.Width, w)
	s.FillRect(b.X, b.Y, w, b.Height)
	s.SetFill(br)
	s.FillRect(b.X, b.Y+b.Height-w, b.Width, w)
	s.FillRect(b.X+b.Width-w, b.Y, w, b.Height)
}

// DrawBevel paints the two-tone button frame around b, sunken when pressed.
func DrawBevel(s raster.Surface, b geom.Box, pressed bool) {
	if pressed {
		bevel(s, b, 1, bevelDark, bevelLight)
		bevel(s, inset(b, 1), 1, bevelShadow, bevelLight)
		return
	}
	bevel(s, b, 1, bevelLight, bevelDark)
	bevel(s, inset(b, 1), 1, bevelLight, bevelShadow)
}

func inset(b geom.Box, d float64) geom.Box {
	return geom.Box{X: b.X + d, Y: b.Y + d, Width: b.Width - 2*d, Height: b.Height - 2*d}
}

// FillBackground paints the content box with the widget's background color.
// Kinds that are not transparent call it first in Draw.
func (b *Base) FillBackground(s raster.Surface) {
	c := b.content
	s.SetFill(b.Background.Value().RGBA())
	s.FillRect(c.X, c.Y, c.Width, c.Height)
}
