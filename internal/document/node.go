// Package document reads display documents.
//
// A display document is an XML tree: a <display> root holding display-level
// settings, <widget> elements (which may nest further widgets) and
// <connection> elements. Node is the read-only view the rest of the program
// hydrates from; XML parsing is one implementation of it.
package document

import "errors"

var (
	// ErrNotFound is returned by typed getters when the named child is absent.
	ErrNotFound = errors.New("node not found")
	// ErrInvalid is returned by typed getters when the child cannot be parsed
	// as the requested type.
	ErrInvalid = errors.New("invalid value")
)

// Node is one element of a parsed document.
type Node interface {
	Tag() string
	Attr(name string) (string, bool)
	Text() string

	// Has reports whether a child element with the given tag exists.
	Has(name string) bool
	Child(name string) (Node, bool)
	// Children returns every child element in document order.
	Children() []Node

	String(name string) (string, error)
	Int(name string) (int, error)
	Float(name string) (float64, error)
	Bool(name string) (bool, error)
	Color(name string) (Color, error)
	Font(name string) (Font, error)
	Actions(name string) (ActionList, error)
	Points(name string) ([]Point, error)
	// Map returns the text of each child of the named element keyed by tag.
	Map(name string) (map[string]string, error)
}

// ChildrenByTag returns the children of n whose tag is tag.
func ChildrenByTag(n Node, tag string) []Node {
	var out []Node
	for _, c := range n.Children() {
		if c.Tag() == tag {
			out = append(out, c)
		}
	}
	return out
}

// Widgets returns the <widget> children of n.
func Widgets(n Node) []Node { return ChildrenByTag(n, "widget") }

// Connections returns the <connection> children of n.
func Connections(n Node) []Node { return ChildrenByTag(n, "connection") }
