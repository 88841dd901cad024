// Package display assembles a parsed display document into a widget tree
// with connections, paints it, and routes pointer input to hit regions.
package display

import (
	"errors"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "display")

// Instance is one loaded display: ordered widgets, ordered connections and
// display-level settings. It is rebuilt wholesale on every load.
type Instance struct {
	ctx   *widget.Context
	props *property.Bag

	width, height *property.Typed[int]
	name          *property.Typed[string]
	background    *property.Typed[document.Color]
	foreground    *property.Typed[document.Color]
	gridSpace     *property.Typed[int]
	showGrid      *property.Typed[bool]

	widgets     []widget.Widget
	connections []*Connection
	index       map[string]widget.Widget
}

// Embedder is implemented by widgets that host a separately loaded
// display. The embedded widgets keep their own wuid namespace: Find and
// Walk do not descend into them.
type Embedder interface {
	Embedded() *Instance
}

func newInstance() *Instance {
	d := &Instance{
		props:      property.NewBag("display"),
		width:      property.Int("width", 800),
		height:     property.Int("height", 600),
		name:       property.String("name", ""),
		background: property.Color("background_color", document.White),
		foreground: property.Color("foreground_color", document.Color{R: 192, G: 192, B: 192}),
		gridSpace:  property.Int("grid_space", 6),
		showGrid:   property.Bool("show_grid", false),
		index:      make(map[string]widget.Widget),
	}
	for _, p := range []property.Property{d.width, d.height, d.name, d.background, d.foreground, d.gridSpace, d.showGrid} {
		d.props.Add(p)
	}
	return d
}

// Load builds an Instance from a <display> root. Display-level property
// errors fail the load. Widget and connection problems are logged and
// skip only the offending element.
func Load(root document.Node, ctx *widget.Context) (*Instance, error) {
	d := newInstance()
	if err := d.props.Load(root); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = &widget.Context{}
	}
	c := *ctx
	outer := ctx.Lookup
	c.Lookup = func(wuid string) widget.Widget {
		if w := d.Find(wuid); w != nil {
			return w
		}
		if outer != nil {
			return outer(wuid)
		}
		return nil
	}
	d.ctx = &c

	d.widgets = BuildChildren(root, d.ctx)
	d.reindex()

	for i, n := range document.Connections(root) {
		conn, err := newConnection(n)
		if err != nil {
			log.WithField("index", i).WithError(err).Warn("connection aborted")
			continue
		}
		conn.resolve(d)
		d.connections = append(d.connections, conn)
	}
	return d, nil
}

// BuildChildren builds the <widget> children of parent in document order.
// Unknown kinds and widgets with structural errors are logged and skipped.
func BuildChildren(parent document.Node, ctx *widget.Context) []widget.Widget {
	var out []widget.Widget
	for i, n := range document.Widgets(parent) {
		typeID, _ := n.Attr("typeId")
		kind := widget.KindFromTypeID(typeID)
		w, err := widget.Build(kind, n, ctx)
		if err != nil {
			entry := log.WithFields(logrus.Fields{"index": i, "type": typeID})
			if errors.Is(err, widget.ErrUnknownKind) {
				entry.Warn("unknown widget kind skipped")
			} else {
				entry.WithError(err).Warn("widget aborted")
			}
			continue
		}
		out = append(out, w)
	}
	return out
}

func (d *Instance) reindex() {
	d.index = make(map[string]widget.Widget)
	Walk(d.widgets, func(w widget.Widget, _ int) {
		d.index[w.Core().WUID()] = w
	})
}

// Walk visits ws depth first in paint order. Container children follow
// their container.
func Walk(ws []widget.Widget, fn func(w widget.Widget, depth int)) {
	var walk func(ws []widget.Widget, depth int)
	walk = func(ws []widget.Widget, depth int) {
		for _, w := range ws {
			fn(w, depth)
			if c, ok := w.(widget.Container); ok {
				walk(c.Children(), depth+1)
			}
		}
	}
	walk(ws, 0)
}

// Size returns the preferred display size.
func (d *Instance) Size() (int, int) { return d.width.Value(), d.height.Value() }

func (d *Instance) Name() string { return d.name.Value() }

// Widgets returns the top-level widgets in paint order.
func (d *Instance) Widgets() []widget.Widget { return d.widgets }

func (d *Instance) Connections() []*Connection { return d.connections }

// Context is the context widgets of this display were built with.
func (d *Instance) Context() *widget.Context { return d.ctx }

// Find returns the widget with the given wuid anywhere in this display's
// tree, or nil. Widgets inside embedded displays are not visible here.
func (d *Instance) Find(wuid string) widget.Widget {
	return d.index[wuid]
}

// Paint draws the display onto s and registers its hit regions on hc:
// background, optional grid, widgets in order, then connections.
func (d *Instance) Paint(s raster.Surface, hc *hit.Canvas) {
	w, h := d.Size()
	s.SetFill(d.background.Value().RGBA())
	s.FillRect(0, 0, float64(w), float64(h))
	if d.showGrid.Value() && d.gridSpace.Value() > 0 {
		d.paintGrid(s, w, h)
	}
	for _, wd := range d.widgets {
		widget.Paint(wd, s, hc)
	}
	for _, c := range d.connections {
		c.paint(s)
	}
}

func (d *Instance) paintGrid(s raster.Surface, w, h int) {
	step := d.gridSpace.Value()
	s.SetFill(d.foreground.Value().RGBA())
	for x := 0; x < w; x += step {
		for y := 0; y < h; y += step {
			s.FillRect(float64(x), float64(y), 1, 1)
		}
	}
}

// Dispose tears down every widget. Pending async continuations of those
// widgets become no-ops.
func (d *Instance) Dispose() {
	for _, w := range d.widgets {
		widget.Dispose(w)
	}
}
