package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type element struct {
	tag      string
	attrs    []xml.Attr
	text     strings.Builder
	children []*element
}

// Parse reads an XML document and returns its root element.
func Parse(r io.Reader) (Node, error) {
	dec := xml.NewDecoder(r)
	var stack []*element
	var root *element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{tag: t.Name.Local, attrs: append([]xml.Attr(nil), t.Attr...)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("parse document: no root element")
	}
	return root, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(data []byte) (Node, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile parses the document at path.
func ParseFile(path string) (Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func (e *element) Tag() string { return e.tag }

func (e *element) Attr(name string) (string, bool) {
	for _, a := range e.attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *element) Text() string { return strings.TrimSpace(e.text.String()) }

func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.tag == name {
			return c
		}
	}
	return nil
}

func (e *element) Has(name string) bool { return e.child(name) != nil }

func (e *element) Child(name string) (Node, bool) {
	c := e.child(name)
	if c == nil {
		return nil, false
	}
	return c, true
}

func (e *element) Children() []Node {
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

func (e *element) lookup(name string) (*element, error) {
	c := e.child(name)
	if c == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return c, nil
}

func invalid(name, want, got string) error {
	return fmt.Errorf("%s: %q is not a %s: %w", name, got, want, ErrInvalid)
}

func (e *element) String(name string) (string, error) {
	c, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	// Strings keep inner whitespace; only surrounding newlines from
	// pretty-printed documents are dropped.
	return strings.Trim(c.text.String(), "\r\n"), nil
}

func (e *element) Int(name string) (int, error) {
	c, err := e.lookup(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(c.Text())
	if err != nil {
		return 0, invalid(name, "int", c.Text())
	}
	return v, nil
}

func (e *element) Float(name string) (float64, error) {
	c, err := e.lookup(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(c.Text(), 64)
	if err != nil {
		return 0, invalid(name, "float", c.Text())
	}
	return v, nil
}

func (e *element) Bool(name string) (bool, error) {
	c, err := e.lookup(name)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(c.Text())
	if err != nil {
		return false, invalid(name, "bool", c.Text())
	}
	return v, nil
}

func (e *element) Color(name string) (Color, error) {
	c, err := e.lookup(name)
	if err != nil {
		return Color{}, err
	}
	col := c.child("color")
	if col == nil {
		return Color{}, invalid(name, "color", c.Text())
	}
	out := Color{}
	out.Name, _ = col.Attr("name")
	for _, ch := range []struct {
		attr string
		dst  *uint8
	}{{"red", &out.R}, {"green", &out.G}, {"blue", &out.B}} {
		s, ok := col.Attr(ch.attr)
		if !ok {
			return Color{}, invalid(name, "color", "missing "+ch.attr)
		}
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 255 {
			return Color{}, invalid(name, "color", s)
		}
		*ch.dst = uint8(v)
	}
	return out, nil
}

func (e *element) Font(name string) (Font, error) {
	c, err := e.lookup(name)
	if err != nil {
		return Font{}, err
	}
	fd := c.child("fontdata")
	if fd == nil {
		fd = c.child("opifont.name")
	}
	if fd == nil {
		return Font{}, invalid(name, "font", c.Text())
	}
	out := Font{Family: DefaultFont.Family, Size: DefaultFont.Size}
	if fd.tag == "opifont.name" {
		out.Name = fd.Text()
	}
	if s, ok := fd.Attr("fontName"); ok {
		out.Family = s
	}
	if s, ok := fd.Attr("height"); ok {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Font{}, invalid(name, "font", s)
		}
		out.Size = v
	}
	if s, ok := fd.Attr("style"); ok {
		v, err := strconv.Atoi(s)
		if err != nil {
			return Font{}, invalid(name, "font", s)
		}
		out.Style = v
	}
	return out, nil
}

func (e *element) Actions(name string) (ActionList, error) {
	c, err := e.lookup(name)
	if err != nil {
		return ActionList{}, err
	}
	var out ActionList
	for _, flag := range []struct {
		attr string
		dst  *bool
	}{{"hook", &out.HookFirst}, {"hook_all", &out.HookAll}} {
		if s, ok := c.Attr(flag.attr); ok {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return ActionList{}, invalid(name, "action list", s)
			}
			*flag.dst = v
		}
	}
	for _, a := range c.children {
		if a.tag == "action" {
			out.Entries = append(out.Entries, a)
		}
	}
	return out, nil
}

func (e *element) Points(name string) ([]Point, error) {
	c, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	var pts []Point
	for _, p := range c.children {
		if p.tag != "point" {
			continue
		}
		xs, _ := p.Attr("x")
		ys, _ := p.Attr("y")
		x, errX := strconv.Atoi(xs)
		y, errY := strconv.Atoi(ys)
		if errX != nil || errY != nil {
			return nil, invalid(name, "point list", xs+","+ys)
		}
		pts = append(pts, Point{X: x, Y: y})
	}
	return pts, nil
}

func (e *element) Map(name string) (map[string]string, error) {
	c, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(c.children))
	for _, ch := range c.children {
		out[ch.tag] = ch.Text()
	}
	return out, nil
}
