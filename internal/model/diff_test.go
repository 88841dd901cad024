package model

import "testing"

func TestDiffElements_NoChanges(t *testing.T) {
	elements := []FlatElement{
		{ID: 1, WUID: "a", Role: "btn", Name: "OK", Bounds: [4]int{10, 20, 100, 30}, Path: "OK"},
	}
	changes := DiffElements(elements, elements)
	if len(changes) != 0 {
		t.Errorf("expected no changes, got %d", len(changes))
	}
}

func TestDiffElements_Added(t *testing.T) {
	prev := []FlatElement{
		{ID: 1, WUID: "a", Role: "btn", Name: "OK"},
	}
	curr := []FlatElement{
		{ID: 1, WUID: "a", Role: "btn", Name: "OK"},
		{ID: 2, WUID: "b", Role: "btn", Name: "Cancel"},
	}
	changes := DiffElements(prev, curr)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Type != ChangeAdded {
		t.Errorf("expected added, got %s", changes[0].Type)
	}
	if changes[0].Element.Name != "Cancel" {
		t.Errorf("expected Cancel, got %s", changes[0].Element.Name)
	}
}

func TestDiffElements_Removed(t *testing.T) {
	prev := []FlatElement{
		{ID: 1, WUID: "a", Role: "btn", Name: "OK"},
		{ID: 2, WUID: "b", Role: "led", Name: "Pump"},
	}
	curr := []FlatElement{
		{ID: 1, WUID: "a", Role: "btn", Name: "OK"},
	}
	changes := DiffElements(prev, curr)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Type != ChangeRemoved {
		t.Errorf("expected removed, got %s", changes[0].Type)
	}
	if changes[0].WUID != "b" || changes[0].Name != "Pump" {
		t.Errorf("unexpected removed change %+v", changes[0])
	}
}

func TestDiffElements_Changed(t *testing.T) {
	hidden := false
	prev := []FlatElement{
		{ID: 1, WUID: "a", Role: "txt", Value: "1.0", Bounds: [4]int{0, 0, 10, 10}},
	}
	curr := []FlatElement{
		{ID: 1, WUID: "a", Role: "txt", Value: "2.5", Bounds: [4]int{0, 0, 20, 10}, Visible: &hidden},
	}
	changes := DiffElements(prev, curr)
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Type != ChangeChanged {
		t.Errorf("expected changed, got %s", c.Type)
	}
	if got := c.Changes["v"]; got != [2]string{"1.0", "2.5"} {
		t.Errorf("value diff = %v", got)
	}
	if _, ok := c.Changes["b"]; !ok {
		t.Error("expected bounds diff")
	}
	if got := c.Changes["vis"]; got != [2]string{"true", "false"} {
		t.Errorf("visibility diff = %v", got)
	}
}

func TestDiffElements_ReorderIsNotAChange(t *testing.T) {
	prev := []FlatElement{{ID: 1, WUID: "a"}, {ID: 2, WUID: "b"}}
	curr := []FlatElement{{ID: 1, WUID: "b"}, {ID: 2, WUID: "a"}}
	if changes := DiffElements(prev, curr); len(changes) != 0 {
		t.Errorf("expected no changes, got %+v", changes)
	}
}
