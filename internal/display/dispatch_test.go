package display

import (
	"testing"

	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/stretchr/testify/assert"
)

func paintRegion(hc *hit.Canvas, r *hit.Region, x, y, w, h float64) {
	hc.BeginRegion(r)
	hc.Surface().FillRect(x, y, w, h)
}

func TestDispatcher_EnterOutMove(t *testing.T) {
	var log []string
	rec := func(name string) hit.Handler {
		return func(hit.Event) { log = append(log, name) }
	}
	a := &hit.Region{ID: "a", OnMouseEnter: rec("enter a"), OnMouseOut: rec("out a"), OnMouseMove: rec("move a"), Cursor: "pointer"}
	b := &hit.Region{ID: "b", OnMouseEnter: rec("enter b"), OnMouseOut: rec("out b")}

	hc := hit.NewCanvas(100, 100, hit.WithSeed(3))
	paintRegion(hc, a, 0, 0, 50, 50)
	paintRegion(hc, b, 50, 0, 50, 50)
	d := NewDispatcher(func() *hit.Canvas { return hc })

	d.Move(10, 10)
	d.Move(20, 20)
	assert.Equal(t, "pointer", d.Cursor())
	d.Move(60, 10)
	assert.Same(t, b, d.Hovered())
	d.Move(60, 80)
	assert.Nil(t, d.Hovered())
	assert.Equal(t, "", d.Cursor())

	assert.Equal(t, []string{"enter a", "move a", "move a", "out a", "enter b", "out b"}, log)
}

func TestDispatcher_UpOutsidePressedRegion(t *testing.T) {
	var ups []string
	a := &hit.Region{ID: "a", OnMouseUp: func(hit.Event) { ups = append(ups, "a") }}
	b := &hit.Region{ID: "b", OnMouseUp: func(hit.Event) { ups = append(ups, "b") }}
	hc := hit.NewCanvas(100, 100, hit.WithSeed(4))
	paintRegion(hc, a, 0, 0, 50, 50)
	paintRegion(hc, b, 50, 0, 50, 50)
	d := NewDispatcher(func() *hit.Canvas { return hc })

	d.Down(10, 10, 1)
	d.Up(60, 10, 1)
	assert.Equal(t, []string{"b", "a"}, ups)
}

func TestDispatcher_NilCanvasAndLeave(t *testing.T) {
	d := NewDispatcher(func() *hit.Canvas { return nil })
	assert.Nil(t, d.Tap(1, 1, 1))

	out := 0
	r := &hit.Region{OnMouseOut: func(hit.Event) { out++ }}
	hc := hit.NewCanvas(10, 10, hit.WithSeed(5))
	paintRegion(hc, r, 0, 0, 10, 10)
	d = NewDispatcher(func() *hit.Canvas { return hc })
	d.Move(5, 5)
	d.Leave()
	d.Leave()
	assert.Equal(t, 1, out)
}
