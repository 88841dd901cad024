package raster

import "math"

// Point is a position in user coordinates.
type Point struct {
	X, Y float64
}

// Path is a sequence of flattened subpaths.
type Path struct {
	subpaths [][]Point
	closed   []bool
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) *Path {
	p.subpaths = append(p.subpaths, []Point{{x, y}})
	p.closed = append(p.closed, false)
	return p
}

// LineTo extends the current subpath to (x, y).
func (p *Path) LineTo(x, y float64) *Path {
	if len(p.subpaths) == 0 {
		return p.MoveTo(x, y)
	}
	last := len(p.subpaths) - 1
	p.subpaths[last] = append(p.subpaths[last], Point{x, y})
	return p
}

// Close marks the current subpath closed.
func (p *Path) Close() *Path {
	if len(p.closed) > 0 {
		p.closed[len(p.closed)-1] = true
	}
	return p
}

// Polyline returns an open path through the points.
func Polyline(pts []Point) *Path {
	p := NewPath()
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
		} else {
			p.LineTo(pt.X, pt.Y)
		}
	}
	return p
}

// Polygon returns a closed path through the points.
func Polygon(pts []Point) *Path {
	return Polyline(pts).Close()
}

// Rect returns a closed rectangular path.
func Rect(x, y, w, h float64) *Path {
	return NewPath().MoveTo(x, y).LineTo(x+w, y).LineTo(x+w, y+h).LineTo(x, y+h).Close()
}

// ellipseSegments is the number of chords used to flatten a full ellipse.
const ellipseSegments = 72

// Ellipse returns a closed path approximating an ellipse.
func Ellipse(cx, cy, rx, ry float64) *Path {
	p := NewPath()
	for i := 0; i < ellipseSegments; i++ {
		a := 2 * math.Pi * float64(i) / ellipseSegments
		x, y := cx+rx*math.Cos(a), cy+ry*math.Sin(a)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	return p.Close()
}

// RoundRect returns a closed rectangle path with elliptical corners.
func RoundRect(x, y, w, h, rx, ry float64) *Path {
	rx = math.Min(math.Max(rx, 0), w/2)
	ry = math.Min(math.Max(ry, 0), h/2)
	if rx == 0 || ry == 0 {
		return Rect(x, y, w, h)
	}
	p := NewPath()
	corners := []struct{ cx, cy, start float64 }{
		{x + w - rx, y + ry, -math.Pi / 2},
		{x + w - rx, y + h - ry, 0},
		{x + rx, y + h - ry, math.Pi / 2},
		{x + rx, y + ry, math.Pi},
	}
	const steps = ellipseSegments / 4
	for ci, c := range corners {
		for i := 0; i <= steps; i++ {
			a := c.start + (math.Pi/2)*float64(i)/steps
			px, py := c.cx+rx*math.Cos(a), c.cy+ry*math.Sin(a)
			if ci == 0 && i == 0 {
				p.MoveTo(px, py)
			} else {
				p.LineTo(px, py)
			}
		}
	}
	return p.Close()
}

// Subpaths returns each subpath's points, repeating the first point at the
// end of closed subpaths.
func (p *Path) Subpaths() [][]Point {
	out := make([][]Point, 0, len(p.subpaths))
	for i, sp := range p.subpaths {
		pts := sp
		if p.closed[i] && len(sp) > 1 && sp[0] != sp[len(sp)-1] {
			pts = append(append([]Point(nil), sp...), sp[0])
		}
		out = append(out, pts)
	}
	return out
}

// dashed splits a polyline into the "on" segments of a dash pattern.
func dashed(pts []Point, pattern []float64) [][]Point {
	if len(pattern) == 0 || len(pts) < 2 {
		return [][]Point{pts}
	}
	var total float64
	for _, d := range pattern {
		total += d
	}
	if total <= 0 {
		return [][]Point{pts}
	}

	var out [][]Point
	idx := 0
	remaining := pattern[0]
	on := true
	cur := []Point{pts[0]}
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		segLen := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for segLen-pos > remaining {
			pos += remaining
			t := pos / segLen
			q := Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
			if on {
				cur = append(cur, q)
				out = append(out, cur)
				cur = nil
			} else {
				cur = []Point{q}
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			remaining = pattern[idx]
		}
		remaining -= segLen - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}

// strokeOutline converts a polyline into quads (one per segment) plus small
// squares at interior joints, all wound the same way so overlaps stay solid.
func strokeOutline(pts []Point, width float64) [][]Point {
	half := width / 2
	var polys [][]Point
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		polys = append(polys, []Point{
			{a.X + nx, a.Y + ny},
			{b.X + nx, b.Y + ny},
			{b.X - nx, b.Y - ny},
			{a.X - nx, a.Y - ny},
		})
		if i < len(pts)-1 && width > 1 {
			polys = append(polys, []Point{
				{b.X - half, b.Y - half},
				{b.X - half, b.Y + half},
				{b.X + half, b.Y + half},
				{b.X + half, b.Y - half},
			})
		}
	}
	return polys
}
