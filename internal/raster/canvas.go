package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

type state struct {
	tx, ty      float64
	clip        image.Rectangle
	fill        image.Image
	stroke      color.Color
	strokeWidth float64
	dash        []float64
}

// Canvas is a Surface backed by an *image.RGBA.
type Canvas struct {
	img   *image.RGBA
	st    state
	stack []state
	z     *vector.Rasterizer

	// Aliased disables anti-aliasing: every pixel is either fully painted or
	// left untouched. Hit surfaces rely on this so painted pixels carry exact
	// colors.
	Aliased bool
}

// NewCanvas returns a transparent canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Canvas{
		img: img,
		st: state{
			clip:        img.Bounds(),
			fill:        image.NewUniform(color.Black),
			stroke:      color.Black,
			strokeWidth: 1,
		},
		z: vector.NewRasterizer(1, 1),
	}
}

// Image exposes the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *Canvas) Save() {
	c.stack = append(c.stack, c.st)
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.st = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) Translate(dx, dy float64) {
	c.st.tx += dx
	c.st.ty += dy
}

func (c *Canvas) Clip(x, y, w, h float64) {
	r := image.Rect(
		int(math.Floor(x+c.st.tx)),
		int(math.Floor(y+c.st.ty)),
		int(math.Ceil(x+w+c.st.tx)),
		int(math.Ceil(y+h+c.st.ty)),
	)
	c.st.clip = c.st.clip.Intersect(r)
}

func (c *Canvas) SetFill(col color.Color) {
	c.st.fill = image.NewUniform(col)
}

func (c *Canvas) SetLinearGradient(x0, y0, x1, y1 float64, from, to color.Color) {
	c.st.fill = newLinearGradient(x0+c.st.tx, y0+c.st.ty, x1+c.st.tx, y1+c.st.ty, from, to)
}

func (c *Canvas) SetStroke(col color.Color, width float64, dash []float64) {
	c.st.stroke = col
	c.st.strokeWidth = width
	c.st.dash = dash
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.fillPolys(Rect(x, y, w, h).Subpaths(), c.st.fill)
}

func (c *Canvas) StrokeRect(x, y, w, h float64) {
	c.StrokePath(Rect(x, y, w, h))
}

func (c *Canvas) FillRoundRect(x, y, w, h, rx, ry float64) {
	c.fillPolys(RoundRect(x, y, w, h, rx, ry).Subpaths(), c.st.fill)
}

func (c *Canvas) StrokeRoundRect(x, y, w, h, rx, ry float64) {
	c.StrokePath(RoundRect(x, y, w, h, rx, ry))
}

func (c *Canvas) FillEllipse(cx, cy, rx, ry float64) {
	c.fillPolys(Ellipse(cx, cy, rx, ry).Subpaths(), c.st.fill)
}

func (c *Canvas) StrokeEllipse(cx, cy, rx, ry float64) {
	c.StrokePath(Ellipse(cx, cy, rx, ry))
}

func (c *Canvas) FillPath(p *Path) {
	c.fillPolys(p.Subpaths(), c.st.fill)
}

func (c *Canvas) StrokePath(p *Path) {
	if c.st.strokeWidth <= 0 {
		return
	}
	var polys [][]Point
	for _, sp := range p.Subpaths() {
		for _, run := range dashed(sp, c.st.dash) {
			polys = append(polys, strokeOutline(run, c.st.strokeWidth)...)
		}
	}
	c.fillPolys(polys, image.NewUniform(c.st.stroke))
}

// DrawText draws text with its baseline-left corner at (x, y) using the
// built-in 7x13 face.
func (c *Canvas) DrawText(x, y float64, text string, col color.Color) {
	dst, ok := c.img.SubImage(c.st.clip).(*image.RGBA)
	if !ok || dst.Bounds().Empty() {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6((x + c.st.tx) * 64),
			Y: fixed.Int26_6((y + c.st.ty) * 64),
		},
	}
	d.DrawString(text)
}

// MeasureText returns the advance width and line height of text in the
// built-in face.
func MeasureText(text string) (float64, float64) {
	adv := font.MeasureString(basicfont.Face7x13, text)
	return float64(adv) / 64, 13
}

func (c *Canvas) DrawImage(img image.Image, x, y, w, h float64) {
	dst, ok := c.img.SubImage(c.st.clip).(*image.RGBA)
	if !ok || dst.Bounds().Empty() {
		return
	}
	dr := image.Rect(
		int(math.Round(x+c.st.tx)),
		int(math.Round(y+c.st.ty)),
		int(math.Round(x+w+c.st.tx)),
		int(math.Round(y+h+c.st.ty)),
	)
	var scaler draw.Scaler = draw.ApproxBiLinear
	if c.Aliased {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dr, img, img.Bounds(), draw.Over, nil)
}

// Clear fills the whole canvas with col, ignoring the clip.
func (c *Canvas) Clear(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *Canvas) At(x, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}).In(c.img.Bounds()) {
		return color.RGBA{}
	}
	return c.img.RGBAAt(x, y)
}

// fillPolys rasterizes polygons (user space) within their device bounding
// box and composites src through the resulting mask.
func (c *Canvas) fillPolys(polys [][]Point, src image.Image) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, poly := range polys {
		for _, p := range poly {
			minX = math.Min(minX, p.X+c.st.tx)
			minY = math.Min(minY, p.Y+c.st.ty)
			maxX = math.Max(maxX, p.X+c.st.tx)
			maxY = math.Max(maxY, p.Y+c.st.ty)
		}
	}
	if math.IsInf(minX, 0) {
		return
	}
	box := image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	box = box.Intersect(c.st.clip)
	if box.Empty() {
		return
	}

	ox := float64(box.Min.X) - c.st.tx
	oy := float64(box.Min.Y) - c.st.ty
	c.z.Reset(box.Dx(), box.Dy())
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		c.z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			c.z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		c.z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, box.Dx(), box.Dy()))
	c.z.DrawOp = draw.Src
	c.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	if c.Aliased {
		for i, a := range mask.Pix {
			if a >= 0x80 {
				mask.Pix[i] = 0xff
			} else {
				mask.Pix[i] = 0
			}
		}
	}
	draw.DrawMask(c.img, box, src, box.Min, mask, image.Point{}, draw.Over)
}
