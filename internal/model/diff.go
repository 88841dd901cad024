package model

import (
	"fmt"
	"time"
)

// ChangeType represents the kind of display change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// Change represents a single change between two snapshots.
type Change struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	TS      int64                `yaml:"ts"                json:"ts"`
	Element *FlatElement         `yaml:"el,omitempty"      json:"el,omitempty"`      // For added: the full element
	Path    string               `yaml:"p,omitempty"       json:"p,omitempty"`       // For added: path in tree
	WUID    string               `yaml:"w,omitempty"       json:"w,omitempty"`       // For removed/changed
	Role    string               `yaml:"r,omitempty"       json:"r,omitempty"`       // For removed: role
	Name    string               `yaml:"t,omitempty"       json:"t,omitempty"`       // For removed: name
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // For changed: field diffs
}

// DiffElements compares two flat element lists and returns the changes.
// Elements are matched by wuid, so reordering alone is not a change.
func DiffElements(prev, curr []FlatElement) []Change {
	prevMap := make(map[string]FlatElement, len(prev))
	for _, el := range prev {
		prevMap[el.WUID] = el
	}
	currMap := make(map[string]FlatElement, len(curr))
	for _, el := range curr {
		currMap[el.WUID] = el
	}

	var changes []Change
	now := time.Now().Unix()

	for _, el := range curr {
		prevEl, existed := prevMap[el.WUID]
		if !existed {
			elCopy := el
			changes = append(changes, Change{
				Type:    ChangeAdded,
				TS:      now,
				Element: &elCopy,
				Path:    el.Path,
			})
			continue
		}
		if diffs := diffProperties(prevEl, el); len(diffs) > 0 {
			changes = append(changes, Change{
				Type:    ChangeChanged,
				TS:      now,
				WUID:    el.WUID,
				Changes: diffs,
			})
		}
	}

	for _, el := range prev {
		if _, exists := currMap[el.WUID]; !exists {
			changes = append(changes, Change{
				Type: ChangeRemoved,
				TS:   now,
				WUID: el.WUID,
				Role: el.Role,
				Name: el.Name,
			})
		}
	}

	return changes
}

func flag(b *bool) string {
	if b == nil || *b {
		return "true"
	}
	return "false"
}

// diffProperties compares two elements and returns changed fields.
func diffProperties(prev, curr FlatElement) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Name != curr.Name {
		diffs["t"] = [2]string{prev.Name, curr.Name}
	}
	if prev.Value != curr.Value {
		diffs["v"] = [2]string{prev.Value, curr.Value}
	}
	if prev.Kind != curr.Kind {
		diffs["k"] = [2]string{prev.Kind, curr.Kind}
	}
	if prev.Bounds != curr.Bounds {
		diffs["b"] = [2]string{
			fmt.Sprintf("%v", prev.Bounds),
			fmt.Sprintf("%v", curr.Bounds),
		}
	}
	if flag(prev.Visible) != flag(curr.Visible) {
		diffs["vis"] = [2]string{flag(prev.Visible), flag(curr.Visible)}
	}
	if flag(prev.Enabled) != flag(curr.Enabled) {
		diffs["e"] = [2]string{flag(prev.Enabled), flag(curr.Enabled)}
	}
	if prev.Clickable != curr.Clickable {
		diffs["c"] = [2]string{
			fmt.Sprintf("%v", prev.Clickable),
			fmt.Sprintf("%v", curr.Clickable),
		}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
