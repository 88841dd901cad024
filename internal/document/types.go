package document

import (
	"fmt"
	"image/color"
)

// Color is a named or literal RGB color.
type Color struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	R    uint8  `yaml:"r"              json:"r"`
	G    uint8  `yaml:"g"              json:"g"`
	B    uint8  `yaml:"b"              json:"b"`
}

// RGBA returns the opaque color.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c Color) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}

// Common colors used as property defaults.
var (
	Black     = Color{R: 0, G: 0, B: 0}
	White     = Color{R: 255, G: 255, B: 255}
	Gray      = Color{R: 240, G: 240, B: 240}
	DarkGray  = Color{R: 150, G: 150, B: 150}
	Green     = Color{R: 0, G: 255, B: 0}
	DarkGreen = Color{R: 0, G: 100, B: 0}
	Blue      = Color{R: 0, G: 0, B: 255}
)

// Font style bits as stored in documents.
const (
	FontNormal = 0
	FontBold   = 1
	FontItalic = 2
)

// Font is a font reference; metrics resolution happens elsewhere.
type Font struct {
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	Family string  `yaml:"family"         json:"family"`
	Size   float64 `yaml:"size"           json:"size"`
	Style  int     `yaml:"style"          json:"style"`
}

// DefaultFont is used when a widget declares no font.
var DefaultFont = Font{Family: "Sans", Size: 10}

// Point is a vertex of a point-list property.
type Point struct {
	X, Y int
}

// ActionList is the raw action block of a widget: the hook flags plus one
// node per declared action, in document order.
type ActionList struct {
	HookFirst bool
	HookAll   bool
	Entries   []Node
}
