// Package kinds implements the concrete widget kinds. Importing it
// registers every kind with the widget registry.
package kinds

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

func init() {
	widget.Register("rectangle", newRectangle)
	widget.Register("roundedrectangle", newRoundedRectangle)
	widget.Register("ellipse", newEllipse)
	widget.Register("label", newLabel)
	widget.Register("textupdate", newTextUpdate)
	widget.Register("actionbutton", newActionButton)
	widget.Register("led", newLED)
	widget.Register("polyline", newPolyline)
	widget.Register("polygon", newPolygon)
	widget.Register("image", newImage)
	widget.Register("groupingcontainer", newGroup)
	widget.Register("linkingcontainer", newLinking)
}

// Alignment codes as stored in documents.
const (
	alignStart  = 0
	alignCenter = 1
	alignEnd    = 2
)

// faceAscent is the baseline offset of the built-in face.
const faceAscent = 11

// drawText draws text aligned inside b, one line per newline, clipped to b.
func drawText(s raster.Surface, b geom.Box, text string, h, v int, c color.Color) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	_, lh := raster.MeasureText(text)
	total := lh * float64(len(lines))

	top := b.Y + (b.Height-total)/2
	switch v {
	case alignStart:
		top = b.Y
	case alignEnd:
		top = b.Y + b.Height - total
	}

	s.Save()
	s.Clip(b.X, b.Y, b.Width, b.Height)
	for i, line := range lines {
		w, _ := raster.MeasureText(line)
		x := b.X + (b.Width-w)/2
		switch h {
		case alignStart:
			x = b.X + 1
		case alignEnd:
			x = b.X + b.Width - w - 1
		}
		s.DrawText(x, top+float64(i)*lh+faceAscent, line, c)
	}
	s.Restore()
}

// truthy interprets a PV value as an on/off state.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "0", "false", "off":
			return false
		}
		return true
	}
	return true
}

// formatValue renders a PV value. A negative precision keeps the shortest
// exact representation.
func formatValue(v any, precision int) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		if precision >= 0 {
			return strconv.FormatFloat(x, 'f', precision, 64)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	}
	return fmt.Sprint(v)
}

// ensurePV registers the widget's PV with the engine so it shows up as soon
// as the widget is drawable.
func ensurePV(b *widget.Base, name string) {
	eng := b.PV()
	if name == "" || eng == nil {
		return
	}
	if err := eng.CreatePV(b.ExpandMacro(name)); err != nil {
		b.Log().WithError(err).WithField("pv", name).Debug("pv not created")
	}
}

// readPV returns the current value of the widget's PV.
func readPV(b *widget.Base, name string) (any, bool) {
	eng := b.PV()
	if name == "" || eng == nil {
		return nil, false
	}
	return eng.Get(b.ExpandMacro(name))
}
