package kinds

import (
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/mj1618/opi-cli/internal/widget"
)

// poly draws a point list given in the parent's coordinates. A polyline is
// stroked in the background color; a polygon is filled with it and outlined
// in its line color.
type poly struct {
	*widget.Base

	points    *property.Typed[[]document.Point]
	lineWidth *property.Typed[int]
	lineStyle *property.Typed[int]
	lineColor *property.Typed[document.Color]
	closed    bool
}

func newPoly(kind string, closed bool) *poly {
	p := &poly{
		Base:      widget.NewBase(kind),
		points:    property.Points("points"),
		lineWidth: property.Int("line_width", 1),
		lineStyle: property.Int("line_style", 0),
		lineColor: property.Color("line_color", document.Color{R: 128, G: 128, B: 128}),
		closed:    closed,
	}
	for _, pr := range []property.Property{p.points, p.lineWidth, p.lineStyle, p.lineColor} {
		p.Props.Add(pr)
	}
	return p
}

func newPolyline() widget.Widget { return newPoly("polyline", false) }
func newPolygon() widget.Widget  { return newPoly("polygon", true) }

// Points returns the vertices as drawing points.
func (p *poly) Points() []raster.Point {
	pts := p.points.Value()
	out := make([]raster.Point, len(pts))
	for i, pt := range pts {
		out[i] = raster.Point{X: float64(pt.X), Y: float64(pt.Y)}
	}
	return out
}

func dash(style int, w float64) []float64 {
	w = max(w, 1)
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

func (p *poly) Draw(s raster.Surface, _ *hit.Canvas) {
	pts := p.Points()
	if len(pts) < 2 {
		return
	}
	w := float64(p.lineWidth.Value())
	if !p.closed {
		if w > 0 {
			s.SetStroke(p.Background.Value().RGBA(), w, dash(p.lineStyle.Value(), w))
			s.StrokePath(raster.Polyline(pts))
		}
		return
	}
	s.SetFill(p.Background.Value().RGBA())
	s.FillPath(raster.Polygon(pts))
	if w > 0 {
		s.SetStroke(p.lineColor.Value().RGBA(), w, dash(p.lineStyle.Value(), w))
		s.StrokePath(raster.Polygon(pts))
	}
}
