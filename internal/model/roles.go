package model

// RoleMap maps widget kinds to compact role codes.
var RoleMap = map[string]string{
	"actionbutton":      "btn",
	"label":             "txt",
	"textupdate":        "txt",
	"led":               "led",
	"image":             "img",
	"rectangle":         "shape",
	"roundedrectangle":  "shape",
	"ellipse":           "shape",
	"polyline":          "shape",
	"polygon":           "shape",
	"groupingcontainer": "group",
	"linkingcontainer":  "embed",
}

// MetaRoles maps meta-role names to the concrete roles they expand to.
var MetaRoles = map[string][]string{
	"interactive": {"btn", "led", "txt"},
	"container":   {"group", "embed"},
}

// ExpandRoles expands any meta-roles in the given list to their concrete roles.
// Non-meta roles are passed through unchanged. Duplicates are removed.
func ExpandRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	var expanded []string
	for _, r := range roles {
		if concrete, ok := MetaRoles[r]; ok {
			for _, c := range concrete {
				if !seen[c] {
					seen[c] = true
					expanded = append(expanded, c)
				}
			}
		} else if !seen[r] {
			seen[r] = true
			expanded = append(expanded, r)
		}
	}
	return expanded
}

// MapRole converts a widget kind to a compact code.
func MapRole(kind string) string {
	if short, ok := RoleMap[kind]; ok {
		return short
	}
	return "other"
}
