package model

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	ID        int      `yaml:"i"             json:"i"`
	WUID      string   `yaml:"w"             json:"w"`
	Role      string   `yaml:"r"             json:"r"`
	Kind      string   `yaml:"k"             json:"k"`
	Name      string   `yaml:"t,omitempty"   json:"t,omitempty"`
	Value     string   `yaml:"v,omitempty"   json:"v,omitempty"`
	Bounds    [4]int   `yaml:"b"             json:"b"`
	Visible   *bool    `yaml:"vis,omitempty" json:"vis,omitempty"`
	Enabled   *bool    `yaml:"e,omitempty"   json:"e,omitempty"`
	Clickable bool     `yaml:"c,omitempty"   json:"c,omitempty"`
	Actions   []string `yaml:"a,omitempty"   json:"a,omitempty"`
	Path      string   `yaml:"p,omitempty"   json:"p,omitempty"`
}

// FlattenElements converts a tree of elements into a flat list.
// Each element gets a path string showing its location in the tree
// using the names (or roles, for unnamed widgets) of its ancestors
// joined with " > ".
func FlattenElements(elements []Element) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, result *[]FlatElement) {
	label := el.Name
	if label == "" {
		label = el.Role
	}
	currentPath := label
	if parentPath != "" {
		currentPath = parentPath + " > " + label
	}

	*result = append(*result, FlatElement{
		ID:        el.ID,
		WUID:      el.WUID,
		Role:      el.Role,
		Kind:      el.Kind,
		Name:      el.Name,
		Value:     el.Value,
		Bounds:    el.Bounds,
		Visible:   el.Visible,
		Enabled:   el.Enabled,
		Clickable: el.Clickable,
		Actions:   el.Actions,
		Path:      currentPath,
	})

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, result)
	}
}
