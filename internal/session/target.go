package session

import (
	"fmt"
	"strings"

	"github.com/mj1618/opi-cli/internal/model"
)

// Target names a widget or a point. Exactly one of WUID, Text or the point
// is used, in that order of preference.
type Target struct {
	WUID  string
	Text  string
	Roles string
	Exact bool

	X, Y  int
	Point bool
}

// Resolve finds the element t names and the display point to act at. For a
// bare point the element is the topmost one containing it, or nil.
func Resolve(elements []model.Element, t Target) (*model.Element, int, int, error) {
	switch {
	case t.WUID != "":
		el := model.FindByWUID(elements, t.WUID)
		if el == nil {
			return nil, 0, 0, fmt.Errorf("no widget with wuid %q", t.WUID)
		}
		x, y := aim(el)
		return el, x, y, nil
	case t.Text != "":
		el, err := ResolveByText(elements, t.Text, t.Roles, t.Exact)
		if err != nil {
			return nil, 0, 0, err
		}
		x, y := aim(el)
		return el, x, y, nil
	case t.Point:
		return ElementAt(elements, t.X, t.Y), t.X, t.Y, nil
	}
	return nil, 0, 0, fmt.Errorf("specify a wuid, text, or x/y coordinates")
}

// aim returns the center of an element's content box, falling back to its
// holder box for borderless zero-size content.
func aim(el *model.Element) (int, int) {
	if el.Content[2] > 0 && el.Content[3] > 0 {
		return model.Center(el.Content)
	}
	return model.Center(el.Bounds)
}

// ElementAt returns the deepest, last-painted element whose bounds contain
// (x, y).
func ElementAt(elements []model.Element, x, y int) *model.Element {
	var hit *model.Element
	for i := range elements {
		b := elements[i].Bounds
		if x < b[0] || y < b[1] || x >= b[0]+b[2] || y >= b[1]+b[3] {
			continue
		}
		hit = &elements[i]
		if inner := ElementAt(elements[i].Children, x, y); inner != nil {
			hit = inner
		}
	}
	return hit
}

// ResolveByText finds a single element matching text (and the optional
// comma-separated role filter). Zero or several matches are an error; the
// error for several lists the candidates so the caller can refine.
func ResolveByText(elements []model.Element, text, roles string, exact bool) (*model.Element, error) {
	matches := collectLeafMatches(elements, strings.ToLower(text), roleSet(roles), exact)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no widget found matching text %q", text)
	}
	if len(matches) == 1 {
		return matches[0], nil
	}

	// Without an explicit role filter a button beats a label with the
	// same caption.
	if roles == "" {
		matches = preferInteractive(matches)
		if len(matches) == 1 {
			return matches[0], nil
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "multiple widgets match text %q", text)
	if roles != "" {
		fmt.Fprintf(&b, " with roles %q", roles)
	}
	fmt.Fprintf(&b, ", use --wuid, --exact, or --roles to narrow:\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "  wuid=%s %s (%d,%d,%d,%d)", m.WUID, m.Role,
			m.Bounds[0], m.Bounds[1], m.Bounds[2], m.Bounds[3])
		if m.Name != "" {
			fmt.Fprintf(&b, " name=%q", m.Name)
		}
		if path := rolePath(elements, m.ID); path != "" {
			fmt.Fprintf(&b, " path=%q", path)
		}
		fmt.Fprintln(&b)
	}
	return nil, fmt.Errorf("%s", b.String())
}

// Matches returns every deepest element matching text, in paint order.
func Matches(elements []model.Element, text, roles string, exact bool) []*model.Element {
	return collectLeafMatches(elements, strings.ToLower(text), roleSet(roles), exact)
}

// SplitRoles parses a comma-separated role list.
func SplitRoles(roles string) []string {
	var out []string
	for _, r := range strings.Split(roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func roleSet(roles string) map[string]bool {
	set := make(map[string]bool)
	for _, r := range model.ExpandRoles(SplitRoles(roles)) {
		set[r] = true
	}
	return set
}

// collectLeafMatches returns the deepest elements matching text: a
// container only matches when none of its descendants do.
func collectLeafMatches(elements []model.Element, textLower string, roles map[string]bool, exact bool) []*model.Element {
	var results []*model.Element
	for i := range elements {
		el := &elements[i]
		childMatches := collectLeafMatches(el.Children, textLower, roles, exact)
		selfMatch := textMatches(*el, textLower, exact) && (len(roles) == 0 || roles[el.Role] || roles[el.Kind])
		if selfMatch && len(childMatches) == 0 {
			results = append(results, el)
		} else {
			results = append(results, childMatches...)
		}
	}
	return results
}

func textMatches(el model.Element, textLower string, exact bool) bool {
	fields := []string{el.WUID, el.Name, el.Value}
	for _, f := range fields {
		if exact && strings.EqualFold(f, textLower) {
			return true
		}
		if !exact && strings.Contains(strings.ToLower(f), textLower) {
			return true
		}
	}
	return false
}

func interactive(el *model.Element) bool {
	return el.Clickable || el.Role == "btn"
}

// preferInteractive keeps the interactive matches when the set mixes
// interactive and static widgets.
func preferInteractive(matches []*model.Element) []*model.Element {
	var out []*model.Element
	for _, m := range matches {
		if interactive(m) {
			out = append(out, m)
		}
	}
	if len(out) > 0 && len(out) < len(matches) {
		return out
	}
	return matches
}

// rolePath returns e.g. "group > embed > btn" for the element with id.
func rolePath(elements []model.Element, id int) string {
	parts := rolePathParts(elements, id)
	return strings.Join(parts, " > ")
}

func rolePathParts(elements []model.Element, id int) []string {
	for i := range elements {
		if elements[i].ID == id {
			return []string{elements[i].Role}
		}
		if child := rolePathParts(elements[i].Children, id); child != nil {
			return append([]string{elements[i].Role}, child...)
		}
	}
	return nil
}
