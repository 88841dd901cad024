package model

import "strings"

// FilterElements applies filters to a slice of elements, returning only
// matching elements. It filters by roles and bounding box. Elements that do
// not match but have matching descendants are replaced by those descendants.
func FilterElements(elements []Element, roles []string, bbox *[4]int) []Element {
	if len(roles) == 0 && bbox == nil {
		return elements
	}

	roleSet := make(map[string]bool, len(roles))
	for _, r := range ExpandRoles(roles) {
		roleSet[r] = true
	}

	var result []Element
	for _, el := range elements {
		var filteredChildren []Element
		if len(el.Children) > 0 {
			filteredChildren = FilterElements(el.Children, roles, bbox)
		}

		roleMatch := len(roleSet) == 0 || roleSet[el.Role] || roleSet[el.Kind]
		bboxMatch := bbox == nil || boundsIntersect(el.Bounds, *bbox)

		if roleMatch && bboxMatch {
			filtered := el
			filtered.Children = filteredChildren
			result = append(result, filtered)
		} else if len(filteredChildren) > 0 {
			result = append(result, filteredChildren...)
		}
	}
	return result
}

// FilterByText keeps elements whose wuid, name or value contains text
// (case-insensitive), plus the ancestors of any match.
func FilterByText(elements []Element, text string) []Element {
	if text == "" {
		return elements
	}
	textLower := strings.ToLower(text)
	var result []Element
	for _, el := range elements {
		matched := textMatchesElement(el, textLower)
		childMatches := FilterByText(el.Children, text)

		if matched || len(childMatches) > 0 {
			filtered := el
			filtered.Children = childMatches
			result = append(result, filtered)
		}
	}
	return result
}

func textMatchesElement(el Element, textLower string) bool {
	return strings.Contains(strings.ToLower(el.WUID), textLower) ||
		strings.Contains(strings.ToLower(el.Name), textLower) ||
		strings.Contains(strings.ToLower(el.Value), textLower)
}

// PruneHidden removes invisible elements together with their subtrees.
func PruneHidden(elements []Element) []Element {
	var result []Element
	for _, el := range elements {
		if el.Visible != nil && !*el.Visible {
			continue
		}
		pruned := el
		pruned.Children = PruneHidden(el.Children)
		result = append(result, pruned)
	}
	return result
}

// FindByWUID returns the element with the given wuid anywhere in the tree.
func FindByWUID(elements []Element, wuid string) *Element {
	for i := range elements {
		if elements[i].WUID == wuid {
			return &elements[i]
		}
		if found := FindByWUID(elements[i].Children, wuid); found != nil {
			return found
		}
	}
	return nil
}

// FindByName returns the first element, in paint order, with the given name.
func FindByName(elements []Element, name string) *Element {
	for i := range elements {
		if elements[i].Name == name {
			return &elements[i]
		}
		if found := FindByName(elements[i].Children, name); found != nil {
			return found
		}
	}
	return nil
}

// Center returns the center of an [x, y, width, height] box.
func Center(b [4]int) (int, int) {
	return b[0] + b[2]/2, b[1] + b[3]/2
}

// boundsIntersect checks if two [x, y, width, height] rectangles overlap.
func boundsIntersect(a, b [4]int) bool {
	ax1, ay1, ax2, ay2 := a[0], a[1], a[0]+a[2], a[1]+a[3]
	bx1, by1, bx2, by2 := b[0], b[1], b[0]+b[2], b[1]+b[3]
	return ax1 < bx2 && ax2 > bx1 && ay1 < by2 && ay2 > by1
}
