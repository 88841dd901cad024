package display

import "github.com/mj1618/opi-cli/internal/hit"

// Dispatcher resolves pointer input against a hit canvas and invokes the
// matching region callbacks synchronously.
type Dispatcher struct {
	canvas func() *hit.Canvas
	hover  *hit.Region
	press  *hit.Region
}

// NewDispatcher returns a dispatcher probing whatever canvas returns at the
// time of each event, so it keeps working across repaints.
func NewDispatcher(canvas func() *hit.Canvas) *Dispatcher {
	return &Dispatcher{canvas: canvas}
}

// Probe returns the region under (x, y), or nil.
func (d *Dispatcher) Probe(x, y int) *hit.Region {
	hc := d.canvas()
	if hc == nil {
		return nil
	}
	return hc.RegionAt(x, y)
}

// Hovered returns the region the pointer is over.
func (d *Dispatcher) Hovered() *hit.Region { return d.hover }

// Cursor returns the cursor hint of the hovered region.
func (d *Dispatcher) Cursor() string {
	if d.hover == nil {
		return ""
	}
	return d.hover.Cursor
}

// Move handles pointer motion: mouse-out on the region left, mouse-enter on
// the region entered, then mouse-move on the current one.
func (d *Dispatcher) Move(x, y int) *hit.Region {
	r := d.Probe(x, y)
	ev := hit.Event{X: x, Y: y}
	if r != d.hover {
		if d.hover != nil {
			d.hover.OnMouseOut.Fire(ev)
		}
		if r != nil {
			r.OnMouseEnter.Fire(ev)
		}
		d.hover = r
	}
	if r != nil {
		r.OnMouseMove.Fire(ev)
	}
	return r
}

// Leave handles the pointer leaving the surface.
func (d *Dispatcher) Leave() {
	if d.hover != nil {
		d.hover.OnMouseOut.Fire(hit.Event{X: -1, Y: -1})
		d.hover = nil
	}
}

func (d *Dispatcher) Down(x, y, button int) *hit.Region {
	r := d.Probe(x, y)
	d.press = r
	if r != nil {
		r.OnMouseDown.Fire(hit.Event{X: x, Y: y, Button: button})
	}
	return r
}

func (d *Dispatcher) Up(x, y, button int) *hit.Region {
	r := d.Probe(x, y)
	if r != nil {
		r.OnMouseUp.Fire(hit.Event{X: x, Y: y, Button: button})
	}
	// A region pressed but released elsewhere still gets its up.
	if d.press != nil && d.press != r {
		d.press.OnMouseUp.Fire(hit.Event{X: x, Y: y, Button: button})
	}
	d.press = nil
	return r
}

func (d *Dispatcher) Click(x, y, button int) *hit.Region {
	r := d.Probe(x, y)
	if r != nil {
		r.OnClick.Fire(hit.Event{X: x, Y: y, Button: button})
	}
	return r
}

// Tap runs a full click gesture at (x, y): move, down, up, click.
func (d *Dispatcher) Tap(x, y, button int) *hit.Region {
	d.Move(x, y)
	d.Down(x, y, button)
	d.Up(x, y, button)
	return d.Click(x, y, button)
}
