package kinds

import (
	"github.com/mj1618/opi-cli/internal/display"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// group holds nested widgets positioned relative to its content box and
// clipped to it.
type group struct {
	*widget.Base

	transparent *property.Typed[bool]
	children    []widget.Widget
}

func newGroup() widget.Widget {
	g := &group{
		Base:        widget.NewBase("groupingcontainer"),
		transparent: property.Bool("transparent", false),
	}
	g.Props.Add(g.transparent)
	return g
}

func (g *group) Init() error {
	g.children = display.BuildChildren(g.Node(), g.Context())
	return nil
}

func (g *group) Children() []widget.Widget { return g.children }

func (g *group) ChildTransform() (dx, dy, sx, sy float64) {
	c := g.Content()
	return c.X, c.Y, 1, 1
}

func (g *group) Draw(s raster.Surface, hc *hit.Canvas) {
	if !g.transparent.Value() {
		g.FillBackground(s)
	}
	c := g.Content()
	s.Translate(c.X, c.Y)
	s.Clip(0, 0, c.Width, c.Height)
	if hc != nil {
		hc.Surface().Translate(c.X, c.Y)
		hc.Surface().Clip(0, 0, c.Width, c.Height)
	}
	for _, child := range g.children {
		widget.Paint(child, s, hc)
	}
}
