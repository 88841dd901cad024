package display

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/loader"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// ErrNoWidget is returned when a wuid names no widget of the display.
var ErrNoWidget = errors.New("no such widget")

// Viewer owns one loaded display together with its visible raster, its hit
// canvas, a pointer dispatcher and the loader whose completions it pumps.
// All methods must be called from one goroutine.
type Viewer struct {
	inst   *Instance
	canvas *raster.Canvas
	hit    *hit.Canvas
	disp   *Dispatcher
	loader *loader.Loader

	dirty  bool
	frames int
}

// NewViewer loads root and paints the first frame. ctx supplies the host
// collaborators; the viewer installs its own Fetcher (when l is non-nil)
// and chains its repaint flag in front of ctx.Repaint.
func NewViewer(root document.Node, ctx *widget.Context, l *loader.Loader, opts ...hit.Option) (*Viewer, error) {
	v := &Viewer{loader: l}
	var c widget.Context
	if ctx != nil {
		c = *ctx
	}
	if l != nil {
		c.Fetcher = l
	}
	outer := c.Repaint
	c.Repaint = func() {
		v.dirty = true
		if outer != nil {
			outer()
		}
	}

	inst, err := Load(root, &c)
	if err != nil {
		return nil, err
	}
	v.inst = inst
	w, h := inst.Size()
	v.canvas = raster.NewCanvas(w, h)
	v.hit = hit.NewCanvas(w, h, opts...)
	v.disp = NewDispatcher(func() *hit.Canvas { return v.hit })
	v.Render()
	return v, nil
}

// Render paints a full frame: the hit canvas is cleared and every region
// is registered again.
func (v *Viewer) Render() {
	v.canvas.Clear(document.White.RGBA())
	v.hit.Clear()
	v.inst.Paint(v.canvas, v.hit)
	v.dirty = false
	v.frames++
}

func (v *Viewer) renderIfDirty() {
	if v.dirty {
		v.Render()
	}
}

// Pump runs completed loads and repaints if any of them asked for it.
func (v *Viewer) Pump() int {
	n := 0
	if v.loader != nil {
		n = v.loader.Pump()
	}
	v.renderIfDirty()
	return n
}

// Settle waits for every pending load, including loads started by
// completions, then repaints. It returns ctx's error if ctx ends first.
func (v *Viewer) Settle(ctx context.Context) error {
	var err error
	if v.loader != nil {
		err = v.loader.Settle(ctx)
	}
	v.renderIfDirty()
	return err
}

// Dirty reports whether a repaint was requested since the last frame.
func (v *Viewer) Dirty() bool { return v.dirty }

// Frames counts rendered frames.
func (v *Viewer) Frames() int { return v.frames }

func (v *Viewer) Instance() *Instance { return v.inst }

// Image is the visible frame.
func (v *Viewer) Image() *image.RGBA { return v.canvas.Image() }

// Hit is the current hit canvas.
func (v *Viewer) Hit() *hit.Canvas { return v.hit }

func (v *Viewer) Dispatcher() *Dispatcher { return v.disp }

// Probe returns the region under (x, y) without dispatching anything.
func (v *Viewer) Probe(x, y int) *hit.Region { return v.disp.Probe(x, y) }

// Click runs a full click gesture at (x, y) and repaints if a handler
// changed anything.
func (v *Viewer) Click(x, y, button int) *hit.Region {
	r := v.disp.Tap(x, y, button)
	v.renderIfDirty()
	return r
}

// Move moves the pointer to (x, y).
func (v *Viewer) Move(x, y int) *hit.Region {
	r := v.disp.Move(x, y)
	v.renderIfDirty()
	return r
}

func (v *Viewer) Down(x, y, button int) *hit.Region {
	r := v.disp.Down(x, y, button)
	v.renderIfDirty()
	return r
}

func (v *Viewer) Up(x, y, button int) *hit.Region {
	r := v.disp.Up(x, y, button)
	v.renderIfDirty()
	return r
}

// Execute runs action i of the widget with the given wuid directly, as if
// its trigger had been clicked.
func (v *Viewer) Execute(wuid string, i int) error {
	w := v.Widget(wuid)
	if w == nil {
		return fmt.Errorf("%q: %w", wuid, ErrNoWidget)
	}
	err := w.Core().ExecuteAction(i)
	v.renderIfDirty()
	return err
}

// Close disposes the display. Loads still in flight complete into nothing.
func (v *Viewer) Close() {
	v.inst.Dispose()
}
