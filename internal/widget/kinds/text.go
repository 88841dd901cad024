package kinds

import (
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// label is static text.
type label struct {
	*widget.Base

	text        *property.Typed[string]
	font        *property.Typed[document.Font]
	hAlign      *property.Typed[int]
	vAlign      *property.Typed[int]
	transparent *property.Typed[bool]
}

func newLabelOf(kind, text string, hAlign int, transparent bool) *label {
	l := &label{
		Base:        widget.NewBase(kind),
		text:        property.String("text", text),
		font:        property.Font("font", document.DefaultFont),
		hAlign:      property.Int("horizontal_alignment", hAlign),
		vAlign:      property.Int("vertical_alignment", alignCenter),
		transparent: property.Bool("transparent", transparent),
	}
	for _, p := range []property.Property{l.text, l.font, l.hAlign, l.vAlign, l.transparent} {
		l.Props.Add(p)
	}
	return l
}

func newLabel() widget.Widget { return newLabelOf("label", "", alignCenter, true) }

func (l *label) DisplayValue() string { return l.ExpandMacro(l.text.Value()) }

func (l *label) paintText(s raster.Surface, text string) {
	if !l.transparent.Value() {
		l.FillBackground(s)
	}
	drawText(s, l.Content(), text, l.hAlign.Value(), l.vAlign.Value(), l.Foreground.Value().RGBA())
}

func (l *label) Draw(s raster.Surface, _ *hit.Canvas) {
	l.paintText(s, l.DisplayValue())
}

// textUpdate shows the value of a PV, or its placeholder text while the PV
// has no value.
type textUpdate struct {
	*label

	pvName    *property.Typed[string]
	precision *property.Typed[int]
	units     *property.Typed[string]
}

func newTextUpdate() widget.Widget {
	t := &textUpdate{
		label:     newLabelOf("textupdate", "######", alignStart, false),
		pvName:    property.String("pv_name", ""),
		precision: property.Int("precision", -1),
		units:     property.String("units", ""),
	}
	t.Props.Add(t.pvName)
	t.Props.Add(t.precision)
	t.Props.Add(t.units)
	return t
}

func (t *textUpdate) Init() error {
	ensurePV(t.Base, t.pvName.Value())
	return nil
}

func (t *textUpdate) DisplayValue() string {
	v, ok := readPV(t.Base, t.pvName.Value())
	if !ok || v == nil {
		return t.label.DisplayValue()
	}
	text := formatValue(v, t.precision.Value())
	if u := t.units.Value(); u != "" {
		text += " " + u
	}
	return text
}

func (t *textUpdate) Draw(s raster.Surface, _ *hit.Canvas) {
	t.paintText(s, t.DisplayValue())
}
