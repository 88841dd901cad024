package session

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// ImageOptions controls how a frame is encoded.
type ImageOptions struct {
	Format  string  // "png" (default) or "jpg"
	Quality int     // JPEG quality 1-100
	Scale   float64 // 0 or 1 keeps the display size
}

// EncodeImage scales img and writes it in the requested format.
func EncodeImage(w io.Writer, img image.Image, opts ImageOptions) error {
	if opts.Scale < 0 || opts.Scale > 1 {
		return fmt.Errorf("scale %.2f: must be between 0 and 1", opts.Scale)
	}
	if opts.Scale > 0 && opts.Scale < 1 {
		img = scaleImage(img, opts.Scale)
	}
	switch opts.Format {
	case "", "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	case "jpg", "jpeg":
		q := opts.Quality
		if q <= 0 || q > 100 {
			q = 80
		}
		if err := jpeg.Encode(w, img, &jpeg.Options{Quality: q}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	default:
		return fmt.Errorf("unsupported image format %q: use png or jpg", opts.Format)
	}
	return nil
}

func scaleImage(img image.Image, scale float64) image.Image {
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
