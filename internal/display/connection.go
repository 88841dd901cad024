package display

import (
	"errors"
	"fmt"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// ErrUnknownTerminal is returned for a connection endpoint naming a
// terminal that does not exist.
var ErrUnknownTerminal = errors.New("unknown connection terminal")

// Terminal is an anchor point on a widget's holder box.
type Terminal string

const (
	TerminalTop         Terminal = "TOP"
	TerminalBottom      Terminal = "BOTTOM"
	TerminalLeft        Terminal = "LEFT"
	TerminalRight       Terminal = "RIGHT"
	TerminalTopLeft     Terminal = "TOP_LEFT"
	TerminalTopRight    Terminal = "TOP_RIGHT"
	TerminalBottomLeft  Terminal = "BOTTOM_LEFT"
	TerminalBottomRight Terminal = "BOTTOM_RIGHT"
	TerminalCenter      Terminal = "CENTER"
)

// anchors holds each terminal's position as fractions of the holder box.
var anchors = map[Terminal][2]float64{
	TerminalTop:         {0.5, 0},
	TerminalBottom:      {0.5, 1},
	TerminalLeft:        {0, 0.5},
	TerminalRight:       {1, 0.5},
	TerminalTopLeft:     {0, 0},
	TerminalTopRight:    {1, 0},
	TerminalBottomLeft:  {0, 1},
	TerminalBottomRight: {1, 1},
	TerminalCenter:      {0.5, 0.5},
}

// ParseTerminal validates a terminal name.
func ParseTerminal(s string) (Terminal, error) {
	t := Terminal(s)
	if _, ok := anchors[t]; !ok {
		return "", fmt.Errorf("%q: %w", s, ErrUnknownTerminal)
	}
	return t, nil
}

// Anchor returns the terminal's position on box b.
func (t Terminal) Anchor(b geom.Box) raster.Point {
	f := anchors[t]
	return raster.Point{X: b.X + f[0]*b.Width, Y: b.Y + f[1]*b.Height}
}

// Router values of a connection.
const (
	RouterManhattan = 0
	RouterStraight  = 1
)

// Connection is a line linking two widget terminals.
type Connection struct {
	props *property.Bag

	srcWUID, tgtWUID *property.Typed[string]
	srcTerm, tgtTerm *property.Typed[string]
	lineColor        *property.Typed[document.Color]
	lineWidth        *property.Typed[int]
	lineStyle        *property.Typed[int]
	router           *property.Typed[int]

	Source, Target             Terminal
	SourceWidget, TargetWidget widget.Widget
}

func newConnection(n document.Node) (*Connection, error) {
	c := &Connection{
		props:     property.NewBag("connection"),
		srcWUID:   property.String("src_wuid", "").NoDefault(),
		tgtWUID:   property.String("tgt_wuid", "").NoDefault(),
		srcTerm:   property.String("src_term", "").NoDefault(),
		tgtTerm:   property.String("tgt_term", "").NoDefault(),
		lineColor: property.Color("line_color", document.Black),
		lineWidth: property.Int("line_width", 1),
		lineStyle: property.Int("line_style", 0),
		router:    property.Int("router", RouterManhattan),
	}
	for _, p := range []property.Property{c.srcWUID, c.tgtWUID, c.srcTerm, c.tgtTerm, c.lineColor, c.lineWidth, c.lineStyle, c.router} {
		c.props.Add(p)
	}
	if err := c.props.Load(n); err != nil {
		return nil, err
	}
	if err := c.props.Validate(); err != nil {
		return nil, err
	}
	var err error
	if c.Source, err = ParseTerminal(c.srcTerm.Value()); err != nil {
		return nil, err
	}
	if c.Target, err = ParseTerminal(c.tgtTerm.Value()); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Connection) resolve(d *Instance) {
	c.SourceWidget = d.Find(c.srcWUID.Value())
	c.TargetWidget = d.Find(c.tgtWUID.Value())
	if c.SourceWidget == nil || c.TargetWidget == nil {
		log.WithField("src", c.srcWUID.Value()).WithField("tgt", c.tgtWUID.Value()).
			Warn("connection endpoint not found, connection will not be drawn")
	}
}

// SourceWUID and TargetWUID return the declared endpoints.
func (c *Connection) SourceWUID() string { return c.srcWUID.Value() }
func (c *Connection) TargetWUID() string { return c.tgtWUID.Value() }

// Resolved reports whether both endpoints were found.
func (c *Connection) Resolved() bool {
	return c.SourceWidget != nil && c.TargetWidget != nil
}

// Route returns the polyline the connection is drawn along.
func (c *Connection) Route() []raster.Point {
	if !c.Resolved() {
		return nil
	}
	a := c.Source.Anchor(c.SourceWidget.Core().Holder())
	b := c.Target.Anchor(c.TargetWidget.Core().Holder())
	if c.router.Value() == RouterStraight || a.X == b.X || a.Y == b.Y {
		return []raster.Point{a, b}
	}
	return []raster.Point{a, {X: b.X, Y: a.Y}, b}
}

func (c *Connection) paint(s raster.Surface) {
	pts := c.Route()
	if len(pts) < 2 {
		return
	}
	w := float64(c.lineWidth.Value())
	s.SetStroke(c.lineColor.Value().RGBA(), w, linePattern(c.lineStyle.Value(), w))
	s.StrokePath(raster.Polyline(pts))
}

// linePattern maps a document line style to a dash pattern.
func linePattern(style int, w float64) []float64 {
	if w < 1 {
		w = 1
	}
	switch style {
	case 1:
		return []float64{3 * w, w}
	case 2:
		return []float64{w, w}
	case 3:
		return []float64{3 * w, w, w, w}
	case 4:
		return []float64{3 * w, w, w, w, w, w}
	}
	return nil
}
