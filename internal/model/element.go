package model

// Element is one widget in a display snapshot.
//
// Bounds and Content are [x, y, width, height] in display coordinates, after
// the offsets and scaling of any enclosing containers are applied.
type Element struct {
	ID        int       `yaml:"i"             json:"i"`             // Sequential paint-order index
	WUID      string    `yaml:"w"             json:"w"`             // Widget unique id
	Role      string    `yaml:"r"             json:"r"`             // Compact role code
	Kind      string    `yaml:"k"             json:"k"`             // Registry kind
	Name      string    `yaml:"t,omitempty"   json:"t,omitempty"`   // Widget name
	Value     string    `yaml:"v,omitempty"   json:"v,omitempty"`   // Displayed text or value
	Bounds    [4]int    `yaml:"b"             json:"b"`             // Holder box
	Content   [4]int    `yaml:"cb,omitempty"  json:"cb,omitempty"`  // Content box
	Visible   *bool     `yaml:"vis,omitempty" json:"vis,omitempty"` // nil = visible; false included
	Enabled   *bool     `yaml:"e,omitempty"   json:"e,omitempty"`   // nil = enabled; false included
	Clickable bool      `yaml:"c,omitempty"   json:"c,omitempty"`   // Holder region is click-hooked
	Actions   []string  `yaml:"a,omitempty"   json:"a,omitempty"`   // Action descriptions in index order
	Children  []Element `yaml:"ch,omitempty"  json:"ch,omitempty"`  // Container children
}

// Bool returns a pointer for the optional flags, nil when v is true.
func Bool(v bool) *bool {
	if v {
		return nil
	}
	return &v
}
