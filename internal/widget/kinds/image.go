package kinds

import (
	"image"

	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/loader"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// imageWidget shows a picture loaded in the background. Until the load
// completes, or if it fails, only the background is painted.
type imageWidget struct {
	*widget.Base

	file    *property.Typed[string]
	stretch *property.Typed[bool]

	img    image.Image
	format string
	err    error
}

func newImage() widget.Widget {
	w := &imageWidget{
		Base:    widget.NewBase("image"),
		file:    property.String("image_file", ""),
		stretch: property.Bool("stretch_to_fit", false),
	}
	w.Props.Add(w.file)
	w.Props.Add(w.stretch)
	return w
}

func (w *imageWidget) Init() error {
	path := w.file.Value()
	if path == "" {
		return nil
	}
	w.Fetch(path, func(data []byte, err error) {
		if err == nil {
			w.img, w.format, err = loader.DecodeImage(data)
		}
		if err != nil {
			w.err = err
			w.Log().WithError(err).WithField("path", path).Debug("image unavailable")
		}
	})
	return nil
}

// Image returns the decoded picture, or nil while it is not available.
func (w *imageWidget) Image() image.Image { return w.img }

func (w *imageWidget) DisplayValue() string { return w.file.Value() }

func (w *imageWidget) Dispose() { w.img = nil }

func (w *imageWidget) Draw(s raster.Surface, _ *hit.Canvas) {
	c := w.Content()
	if w.img == nil {
		w.FillBackground(s)
		return
	}
	if w.stretch.Value() {
		s.DrawImage(w.img, c.X, c.Y, c.Width, c.Height)
		return
	}
	b := w.img.Bounds()
	s.Clip(c.X, c.Y, c.Width, c.Height)
	s.DrawImage(w.img, c.X, c.Y, float64(b.Dx()), float64(b.Dy()))
}
