package kinds

import (
	"path/filepath"

	"github.com/mj1618/opi-cli/internal/display"
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// Resize behaviours of a linking container.
const (
	resizeScale = 0 // scale the display into the container
	resizeFit   = 1 // resize the container to the display
	resizeCrop  = 2 // draw at natural size, clipped
	resizeNone  = 3 // as crop; scrolling is not supported
)

// linking embeds another display file. The file is loaded in the
// background; once built, the embedded display is painted offscreen with a
// child hit canvas and both are composited into the content box.
type linking struct {
	*widget.Base

	file   *property.Typed[string]
	resize *property.Typed[int]

	inst *display.Instance
	err  error
}

func newLinking() widget.Widget {
	l := &linking{
		Base:   widget.NewBase("linkingcontainer"),
		file:   property.String("opi_file", ""),
		resize: property.Int("resize_behaviour", resizeScale),
	}
	l.Props.Add(l.file)
	l.Props.Add(l.resize)
	return l
}

// macros returns the container's own macro definitions.
func (l *linking) macros() map[string]string {
	n := l.Node()
	if n == nil || !n.Has("macros") {
		return nil
	}
	m, err := n.Map("macros")
	if err != nil {
		l.Log().WithError(err).Debug("macros ignored")
		return nil
	}
	delete(m, "include_parent_macros")
	return m
}

func (l *linking) Init() error {
	path := l.file.Value()
	if path == "" {
		return nil
	}
	parent := l.Context()
	if parent == nil {
		parent = &widget.Context{}
	}
	resolved := filepath.Clean(parent.Resolve(l.ExpandMacro(path)))
	if parent.Within(resolved) {
		l.Log().WithField("path", resolved).Warn("recursive embedded display skipped")
		return nil
	}
	ctx := parent.Derive(l.macros())
	ctx.BaseDir = filepath.Dir(resolved)
	ctx.Ancestors = append(ctx.Ancestors, resolved)
	ctx.Lookup = nil

	l.Fetch(path, func(data []byte, err error) {
		var inst *display.Instance
		if err == nil {
			var root document.Node
			if root, err = document.ParseBytes(data); err == nil {
				inst, err = display.Load(root, ctx)
			}
		}
		if err != nil {
			l.err = err
			l.Log().WithError(err).WithField("path", path).Warn("embedded display unavailable")
			return
		}
		l.attach(inst)
	})
	return nil
}

func (l *linking) attach(inst *display.Instance) {
	if l.inst != nil {
		l.inst.Dispose()
	}
	l.inst = inst
	l.err = nil
	if l.resize.Value() == resizeFit {
		w, h := inst.Size()
		in := l.Insets()
		l.Width.Set(w + in.Left + in.Right)
		l.Height.Set(h + in.Top + in.Bottom)
		l.UpdateBounds()
	}
}

// Embedded returns the loaded display, or nil before it is available.
func (l *linking) Embedded() *display.Instance { return l.inst }

func (l *linking) DisplayValue() string { return l.file.Value() }

func (l *linking) Dispose() {
	if l.inst != nil {
		l.inst.Dispose()
	}
}

func (l *linking) scale() (float64, float64) {
	if l.inst == nil || l.resize.Value() != resizeScale {
		return 1, 1
	}
	w, h := l.inst.Size()
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	c := l.Content()
	return c.Width / float64(w), c.Height / float64(h)
}

func (l *linking) ChildTransform() (dx, dy, sx, sy float64) {
	c := l.Content()
	sx, sy = l.scale()
	return c.X, c.Y, sx, sy
}

func (l *linking) Draw(s raster.Surface, hc *hit.Canvas) {
	c := l.Content()
	if l.inst == nil {
		l.FillBackground(s)
		return
	}
	w, h := l.inst.Size()
	if w <= 0 || h <= 0 {
		return
	}
	off := raster.NewCanvas(w, h)
	var child *hit.Canvas
	if hc != nil {
		child = hc.CreateChild(w, h)
	}
	l.inst.Paint(off, child)

	sx, sy := l.scale()
	dw, dh := float64(w)*sx, float64(h)*sy
	s.Clip(c.X, c.Y, c.Width, c.Height)
	s.DrawImage(off.Image(), c.X, c.Y, dw, dh)
	if child != nil {
		hc.Surface().Clip(c.X, c.Y, c.Width, c.Height)
		child.TransferToParent(c.X, c.Y, dw, dh)
	}
}
