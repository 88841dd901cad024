package session

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/mj1618/opi-cli/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelMode controls what text is drawn on each annotated widget.
type LabelMode int

const (
	// LabelCoords draws "(x,y)" click-point coordinates.
	LabelCoords LabelMode = iota
	// LabelWUIDs draws the widget's wuid.
	LabelWUIDs
)

var (
	boxColor     = color.RGBA{R: 255, A: 160}
	textColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	outlineColor = color.RGBA{A: 200}
)

// Annotate returns a copy of img with a box and label drawn for every
// element that takes clicks, or for every element when all is set.
func Annotate(img image.Image, elements []model.Element, mode LabelMode, all bool) *image.RGBA {
	rgba := toRGBA(img)
	for _, el := range model.FlattenElements(elements) {
		if !all && !el.Clickable && el.Role != "btn" {
			continue
		}
		drawElementBox(rgba, el, mode)
	}
	return rgba
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba
}

func drawElementBox(img *image.RGBA, el model.FlatElement, mode LabelMode) {
	x, y, w, h := el.Bounds[0], el.Bounds[1], el.Bounds[2], el.Bounds[3]
	drawRectangle(img, x, y, x+w, y+h, boxColor)

	cx, cy := model.Center(el.Bounds)
	label := fmt.Sprintf("(%d,%d)", cx, cy)
	if mode == LabelWUIDs {
		label = el.WUID
	}
	drawTextWithOutline(img, label, cx, cy)
}

// drawRectangle draws a one pixel outline clamped to the image.
func drawRectangle(img *image.RGBA, x1, y1, x2, y2 int, c color.Color) {
	r := image.Rect(x1, y1, x2, y2).Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.Set(x, r.Min.Y, c)
		img.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.Set(r.Min.X, y, c)
		img.Set(r.Max.X-1, y, c)
	}
}

// drawTextWithOutline centers text on (x, y) in the 7x13 bitmap face with
// a dark halo.
func drawTextWithOutline(img *image.RGBA, text string, x, y int) {
	ox := x - len(text)*7/2
	oy := y + 13/2 - 2

	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	d.Src = image.NewUniform(outlineColor)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(ox+dx, oy+dy)
			d.DrawString(text)
		}
	}
	d.Src = image.NewUniform(textColor)
	d.Dot = fixed.P(ox, oy)
	d.DrawString(text)
}
