package kinds

import (
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// led shows the truthiness of a PV as one of two colors.
type led struct {
	*widget.Base

	pvName      *property.Typed[string]
	onColor     *property.Typed[document.Color]
	offColor    *property.Typed[document.Color]
	square      *property.Typed[bool]
	bulbBorder  *property.Typed[int]
	bulbBorderC *property.Typed[document.Color]
}

func newLED() widget.Widget {
	l := &led{
		Base:        widget.NewBase("led"),
		pvName:      property.String("pv_name", ""),
		onColor:     property.Color("on_color", document.Green),
		offColor:    property.Color("off_color", document.DarkGreen),
		square:      property.Bool("square_led", false),
		bulbBorder:  property.Int("bulb_border", 3),
		bulbBorderC: property.Color("bulb_border_color", document.DarkGray),
	}
	for _, p := range []property.Property{l.pvName, l.onColor, l.offColor, l.square, l.bulbBorder, l.bulbBorderC} {
		l.Props.Add(p)
	}
	return l
}

func (l *led) Init() error {
	ensurePV(l.Base, l.pvName.Value())
	return nil
}

// On reports the current state.
func (l *led) On() bool {
	v, ok := readPV(l.Base, l.pvName.Value())
	return ok && truthy(v)
}

func (l *led) DisplayValue() string {
	if l.On() {
		return "on"
	}
	return "off"
}

func (l *led) Draw(s raster.Surface, _ *hit.Canvas) {
	c := l.Content()
	col := l.offColor.Value()
	if l.On() {
		col = l.onColor.Value()
	}
	bw := float64(l.bulbBorder.Value())

	if l.square.Value() {
		s.SetFill(col.RGBA())
		s.FillRect(c.X, c.Y, c.Width, c.Height)
		if bw > 0 {
			s.SetStroke(l.bulbBorderC.Value().RGBA(), bw, nil)
			s.StrokeRect(c.X+bw/2, c.Y+bw/2, c.Width-bw, c.Height-bw)
		}
		return
	}

	cx, cy := c.Center()
	r := min(c.Width, c.Height) / 2
	if bw > 0 {
		s.SetFill(l.bulbBorderC.Value().RGBA())
		s.FillEllipse(cx, cy, r, r)
	}
	if r-bw > 0 {
		s.SetFill(col.RGBA())
		s.FillEllipse(cx, cy, r-bw, r-bw)
	}
}
