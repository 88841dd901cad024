package session

import (
	"testing"

	"github.com/mj1618/opi-cli/internal/model"
	"github.com/stretchr/testify/assert"
)

// assertTree is a small panel:
//
//	panel (group)
//	├── start (btn, enabled, clickable)
//	├── stop (btn, disabled)
//	├── speed (txt, value "12.5 rpm")
//	└── alarm (led, hidden)
func assertTree() []model.Element {
	return []model.Element{{
		ID: 0, WUID: "panel", Role: "group",
		Children: []model.Element{
			{ID: 1, WUID: "start", Role: "btn", Name: "Start", Clickable: true, Bounds: [4]int{10, 10, 60, 20}},
			{ID: 2, WUID: "stop", Role: "btn", Name: "Stop", Enabled: model.Bool(false), Bounds: [4]int{80, 10, 60, 20}},
			{ID: 3, WUID: "speed", Role: "txt", Value: "12.5 rpm", Bounds: [4]int{10, 40, 100, 20}},
			{ID: 4, WUID: "alarm", Role: "led", Visible: model.Bool(false), Bounds: [4]int{120, 40, 20, 20}},
		},
	}}
}

func TestCheckProperties(t *testing.T) {
	tree := assertTree()
	tests := []struct {
		name string
		wuid string
		a    Assertion
		pass bool
	}{
		{"value equal", "speed", Assertion{HasValue: true, Value: "12.5 rpm"}, true},
		{"value wrong", "speed", Assertion{HasValue: true, Value: "12"}, false},
		{"empty value checked", "speed", Assertion{HasValue: true}, false},
		{"contains case-insensitive", "speed", Assertion{ValueContains: "RPM"}, true},
		{"contains missing", "speed", Assertion{ValueContains: "bar"}, false},
		{"enabled by default", "start", Assertion{Enabled: true}, true},
		{"disabled", "stop", Assertion{Disabled: true}, true},
		{"disabled but enabled", "start", Assertion{Disabled: true}, false},
		{"enabled but disabled", "stop", Assertion{Enabled: true}, false},
		{"hidden", "alarm", Assertion{Hidden: true}, true},
		{"visible but hidden", "alarm", Assertion{Visible: true}, false},
		{"clickable", "start", Assertion{Clickable: true}, true},
		{"not clickable", "stop", Assertion{Clickable: true}, false},
		{"no checks", "stop", Assertion{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(tree, Target{WUID: tt.wuid}, tt.a)
			assert.Equal(t, tt.pass, r.Pass, r.Error)
			assert.Equal(t, tt.pass, r.OK)
			if assert.NotNil(t, r.Element) {
				assert.Equal(t, tt.wuid, r.Element.WUID)
			}
		})
	}
}

func TestCheck_Gone(t *testing.T) {
	tree := assertTree()

	r := Check(tree, Target{Text: "missing"}, Assertion{Gone: true})
	assert.True(t, r.Pass)
	assert.Nil(t, r.Element)

	r = Check(tree, Target{Text: "Stop", Roles: "btn"}, Assertion{Gone: true})
	assert.False(t, r.Pass)
	assert.Contains(t, r.Error, `wuid=stop role=btn name="Stop"`)
}

func TestCheck_NotFound(t *testing.T) {
	r := Check(assertTree(), Target{WUID: "nope"}, Assertion{Enabled: true})
	assert.False(t, r.Pass)
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, `no widget with wuid "nope"`)
}
