package geom

import (
	"image"
	"math"
)

// Box is an axis-aligned rectangle in surface coordinates.
type Box struct {
	X, Y, Width, Height float64
}

// ToBorderBox centers a stroke of lineWidth inside the box (x, y, w, h) so a
// 1px line lands on pixel centers.
func ToBorderBox(x, y, w, h, lineWidth float64) Box {
	half := lineWidth / 2
	return Box{
		X:      x + half,
		Y:      y + half,
		Width:  w - lineWidth,
		Height: h - lineWidth,
	}
}

// Shrink returns the box reduced by the given insets on each side.
func (b Box) Shrink(in Insets) Box {
	return Box{
		X:      b.X + float64(in.Left),
		Y:      b.Y + float64(in.Top),
		Width:  b.Width - float64(in.Left+in.Right),
		Height: b.Height - float64(in.Top+in.Bottom),
	}
}

// Contains reports whether (x, y) lies inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Rect converts the box to an integer rectangle, rounding outward.
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		int(math.Floor(b.X)),
		int(math.Floor(b.Y)),
		int(math.Ceil(b.X+b.Width)),
		int(math.Ceil(b.Y+b.Height)),
	)
}

// Ints returns the box as [x, y, width, height] rounded to integers.
func (b Box) Ints() [4]int {
	return [4]int{
		int(math.Round(b.X)),
		int(math.Round(b.Y)),
		int(math.Round(b.Width)),
		int(math.Round(b.Height)),
	}
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}
