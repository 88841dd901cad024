package display

import (
	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/widget"
)

// transform maps a child space into display coordinates.
type transform struct {
	dx, dy, sx, sy float64
}

var identity = transform{sx: 1, sy: 1}

func (t transform) box(b geom.Box) geom.Box {
	return geom.Box{
		X:      t.dx + b.X*t.sx,
		Y:      t.dy + b.Y*t.sy,
		Width:  b.Width * t.sx,
		Height: b.Height * t.sy,
	}
}

// then composes t with a child-local transform.
func (t transform) then(dx, dy, sx, sy float64) transform {
	return transform{
		dx: t.dx + dx*t.sx,
		dy: t.dy + dy*t.sy,
		sx: t.sx * sx,
		sy: t.sy * sy,
	}
}

// Snapshot describes the widget tree with display-coordinate bounds.
// Grouped and embedded widgets appear as children of their container.
func (d *Instance) Snapshot() []model.Element {
	id := 0
	return snapshot(d.widgets, identity, &id)
}

// Snapshot describes the viewer's current display.
func (v *Viewer) Snapshot() []model.Element { return v.inst.Snapshot() }

// Locate returns the display-coordinate holder box of the widget with the
// given wuid, searching embedded displays too.
func (v *Viewer) Locate(wuid string) (geom.Box, bool) {
	el := model.FindByWUID(v.Snapshot(), wuid)
	if el == nil {
		return geom.Box{}, false
	}
	b := el.Bounds
	return geom.Box{X: float64(b[0]), Y: float64(b[1]), Width: float64(b[2]), Height: float64(b[3])}, true
}

// Widget returns the first widget in paint order with the given wuid,
// searching containers and embedded displays.
func (v *Viewer) Widget(wuid string) widget.Widget {
	return findWidget(v.inst.Widgets(), wuid)
}

func findWidget(ws []widget.Widget, wuid string) widget.Widget {
	for _, w := range ws {
		if w.Core().WUID() == wuid {
			return w
		}
		var found widget.Widget
		switch c := w.(type) {
		case widget.Container:
			found = findWidget(c.Children(), wuid)
		case Embedder:
			if inst := c.Embedded(); inst != nil {
				found = findWidget(inst.Widgets(), wuid)
			}
		}
		if found != nil {
			return found
		}
	}
	return nil
}

func snapshot(ws []widget.Widget, t transform, id *int) []model.Element {
	var out []model.Element
	for _, w := range ws {
		out = append(out, element(w, t, id))
	}
	return out
}

func element(w widget.Widget, t transform, id *int) model.Element {
	b := w.Core()
	el := model.Element{
		ID:        *id,
		WUID:      b.WUID(),
		Role:      model.MapRole(b.Kind()),
		Kind:      b.Kind(),
		Name:      b.Name(),
		Bounds:    t.box(b.Holder()).Ints(),
		Content:   t.box(b.Content()).Ints(),
		Visible:   model.Bool(b.Visible.Value()),
		Enabled:   model.Bool(b.Enabled.Value()),
		Clickable: b.HolderRegion != nil,
	}
	*id++
	if vr, ok := w.(widget.Valuer); ok {
		el.Value = vr.DisplayValue()
	}
	if b.Actions != nil {
		for i := 0; i < b.Actions.Len(); i++ {
			if a := b.Actions.At(i); a != nil {
				el.Actions = append(el.Actions, a.Description())
			} else {
				el.Actions = append(el.Actions, "")
			}
		}
	}

	ct := t
	if tr, ok := w.(widget.Transformer); ok {
		ct = t.then(tr.ChildTransform())
	}
	switch c := w.(type) {
	case widget.Container:
		el.Children = snapshot(c.Children(), ct, id)
	case Embedder:
		if inst := c.Embedded(); inst != nil {
			el.Children = snapshot(inst.Widgets(), ct, id)
		}
	}
	return el
}
