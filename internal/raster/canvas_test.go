package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func TestCanvas_FillRectAliased(t *testing.T) {
	c := NewCanvas(40, 40)
	c.Aliased = true
	c.Clear(white)
	c.SetFill(red)
	c.FillRect(10, 10, 10, 10)

	assert.Equal(t, red, c.At(10, 10))
	assert.Equal(t, red, c.At(19, 19))
	assert.Equal(t, white, c.At(20, 20))
	assert.Equal(t, white, c.At(9, 15))
}

func TestCanvas_AliasedEllipseHasOnlyExactColors(t *testing.T) {
	c := NewCanvas(50, 50)
	c.Aliased = true
	c.Clear(white)
	c.SetFill(blue)
	c.FillEllipse(25, 25, 17.3, 9.1)

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			px := c.At(x, y)
			if px != white && px != blue {
				t.Fatalf("pixel (%d,%d) = %v, want exact fill or background", x, y, px)
			}
		}
	}
	assert.Equal(t, blue, c.At(25, 25))
}

func TestCanvas_TranslateAndClip(t *testing.T) {
	c := NewCanvas(40, 40)
	c.Aliased = true
	c.Clear(white)

	c.Save()
	c.Translate(10, 10)
	c.Clip(0, 0, 5, 5)
	c.SetFill(red)
	c.FillRect(0, 0, 20, 20)
	c.Restore()

	assert.Equal(t, red, c.At(10, 10))
	assert.Equal(t, red, c.At(14, 14))
	assert.Equal(t, white, c.At(15, 15), "clip must limit the fill")
	assert.Equal(t, white, c.At(5, 5))

	// Restore drops the translation and clip.
	c.SetFill(blue)
	c.FillRect(0, 0, 2, 2)
	assert.Equal(t, blue, c.At(0, 0))
}

func TestCanvas_StrokeRectLeavesInterior(t *testing.T) {
	c := NewCanvas(30, 30)
	c.Aliased = true
	c.Clear(white)
	c.SetStroke(red, 2, nil)
	c.StrokeRect(5, 5, 20, 20)

	assert.Equal(t, red, c.At(5, 15))
	assert.Equal(t, white, c.At(15, 15))
}

func TestCanvas_DrawImageScales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, blue)
	src.SetRGBA(0, 1, blue)
	src.SetRGBA(1, 1, red)

	c := NewCanvas(20, 20)
	c.Aliased = true
	c.DrawImage(src, 0, 0, 20, 20)

	assert.Equal(t, red, c.At(2, 2))
	assert.Equal(t, blue, c.At(15, 2))
	assert.Equal(t, red, c.At(15, 15))
}

func TestCanvas_AtOutOfBounds(t *testing.T) {
	c := NewCanvas(4, 4)
	assert.Equal(t, color.RGBA{}, c.At(-1, 0))
	assert.Equal(t, color.RGBA{}, c.At(4, 4))
}

func TestLinearGradient(t *testing.T) {
	g := newLinearGradient(0, 0, 100, 0, color.Black, white)
	r0, _, _, _ := g.At(0, 0).RGBA()
	r1, _, _, _ := g.At(99, 0).RGBA()
	rm, _, _, _ := g.At(50, 0).RGBA()
	require.Less(t, r0, rm)
	require.Less(t, rm, r1)
}

func TestDashed(t *testing.T) {
	runs := dashed([]Point{{0, 0}, {10, 0}}, []float64{2, 2})
	require.Len(t, runs, 3)
	assert.Equal(t, Point{0, 0}, runs[0][0])
	assert.Equal(t, Point{2, 0}, runs[0][len(runs[0])-1])
	assert.Equal(t, Point{4, 0}, runs[1][0])
}
