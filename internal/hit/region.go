// Package hit implements color-keyed hit testing.
//
// Interactive areas are painted onto an offscreen surface that is never
// shown, each in a flat color unique to its Region. Resolving a pointer
// position is a single pixel read plus a table lookup.
package hit

// Event is passed to region callbacks.
type Event struct {
	X, Y   int
	Button int
}

// Handler is a pointer callback attached to a Region.
type Handler func(ev Event)

// Region is a named set of optional pointer callbacks plus a cursor hint.
// A region belongs to exactly one owner: a widget holder, a widget sub-area
// or an action trigger.
type Region struct {
	ID string

	OnClick      Handler
	OnMouseEnter Handler
	OnMouseMove  Handler
	OnMouseOut   Handler
	OnMouseDown  Handler
	OnMouseUp    Handler

	Cursor string
}

// Fire invokes h when it is set.
func (h Handler) Fire(ev Event) {
	if h != nil {
		h(ev)
	}
}
