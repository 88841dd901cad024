package session

import (
	"fmt"
	"strings"

	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/output"
)

// Assertion lists the widget properties to check. Zero fields are not
// checked, except Value when HasValue is set.
type Assertion struct {
	Value         string
	HasValue      bool
	ValueContains string
	Enabled       bool
	Disabled      bool
	Visible       bool
	Hidden        bool
	Clickable     bool
	Gone          bool
}

// AssertResult is the output of an assert.
type AssertResult struct {
	OK      bool                `yaml:"ok"                json:"ok"`
	Action  string              `yaml:"action"            json:"action"`
	Pass    bool                `yaml:"pass"              json:"pass"`
	Error   string              `yaml:"error,omitempty"   json:"error,omitempty"`
	Element *output.ElementInfo `yaml:"element,omitempty" json:"element,omitempty"`
}

// Check resolves t in elements and checks a against it.
func Check(elements []model.Element, t Target, a Assertion) AssertResult {
	el, _, _, err := Resolve(elements, t)
	if t.Point && el == nil && err == nil {
		err = fmt.Errorf("no widget at (%d,%d)", t.X, t.Y)
	}

	if a.Gone {
		if err != nil {
			return AssertResult{OK: true, Action: "assert", Pass: true}
		}
		return AssertResult{
			Action:  "assert",
			Error:   fmt.Sprintf("expected widget to be gone but found: %s", describe(el)),
			Element: output.Info(el),
		}
	}
	if err != nil {
		return AssertResult{Action: "assert", Error: err.Error()}
	}
	if err := checkProperties(el, a); err != nil {
		return AssertResult{Action: "assert", Error: err.Error(), Element: output.Info(el)}
	}
	return AssertResult{OK: true, Action: "assert", Pass: true, Element: output.Info(el)}
}

func checkProperties(el *model.Element, a Assertion) error {
	if a.HasValue && el.Value != a.Value {
		return fmt.Errorf("expected value %q but got %q", a.Value, el.Value)
	}
	if a.ValueContains != "" && !strings.Contains(strings.ToLower(el.Value), strings.ToLower(a.ValueContains)) {
		return fmt.Errorf("expected value to contain %q but got %q", a.ValueContains, el.Value)
	}
	enabled := el.Enabled == nil || *el.Enabled
	if a.Enabled && !enabled {
		return fmt.Errorf("expected widget to be enabled but it is disabled")
	}
	if a.Disabled && enabled {
		return fmt.Errorf("expected widget to be disabled but it is enabled")
	}
	visible := el.Visible == nil || *el.Visible
	if a.Visible && !visible {
		return fmt.Errorf("expected widget to be visible but it is hidden")
	}
	if a.Hidden && visible {
		return fmt.Errorf("expected widget to be hidden but it is visible")
	}
	if a.Clickable && !el.Clickable {
		return fmt.Errorf("expected widget to take clicks but it does not")
	}
	return nil
}

// describe returns a brief human-readable description of an element.
func describe(el *model.Element) string {
	parts := []string{"wuid=" + el.WUID, "role=" + el.Role}
	if el.Name != "" {
		parts = append(parts, fmt.Sprintf("name=%q", el.Name))
	}
	if el.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%q", el.Value))
	}
	return strings.Join(parts, " ")
}
