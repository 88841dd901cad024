package property

import (
	"fmt"

	"github.com/mj1618/opi-cli/internal/document"
)

// Bag is the ordered set of properties owned by one widget or action.
type Bag struct {
	owner string
	order []string
	props map[string]Property
}

// NewBag returns an empty bag. owner names the owning kind in errors.
func NewBag(owner string) *Bag {
	return &Bag{owner: owner, props: make(map[string]Property)}
}

func (b *Bag) Owner() string { return b.owner }

// Add registers p under its name. A second registration under the same
// name replaces the first and keeps its position.
func (b *Bag) Add(p Property) {
	if _, ok := b.props[p.Name()]; !ok {
		b.order = append(b.order, p.Name())
	}
	b.props[p.Name()] = p
}

// Names returns property names in registration order.
func (b *Bag) Names() []string {
	return append([]string(nil), b.order...)
}

func (b *Bag) Lookup(name string) (Property, bool) {
	p, ok := b.props[name]
	return p, ok
}

func (b *Bag) fail(name string, err, cause error) error {
	return &Error{Owner: b.owner, Name: name, Err: err, Cause: cause}
}

// Load hydrates every registered property present in n, in registration
// order. It stops at the first value that fails to parse.
func (b *Bag) Load(n document.Node) error {
	for _, name := range b.order {
		if err := b.props[name].Load(n); err != nil {
			return b.fail(name, ErrUnexpectedType, err)
		}
	}
	return nil
}

// Value returns the current value of name. An undefined value is an
// ErrMissingProperty unless optional is set, in which case it is nil.
func (b *Bag) Value(name string, optional bool) (any, error) {
	p, ok := b.props[name]
	if !ok {
		if optional {
			return nil, nil
		}
		return nil, b.fail(name, ErrMissingProperty, nil)
	}
	v, ok := p.Any()
	if !ok {
		if optional {
			return nil, nil
		}
		return nil, b.fail(name, ErrMissingProperty, nil)
	}
	return v, nil
}

// Set assigns v to name at runtime.
func (b *Bag) Set(name string, v any) error {
	p, ok := b.props[name]
	if !ok {
		return b.fail(name, ErrUnknownProperty, nil)
	}
	if err := p.Assign(v); err != nil {
		return b.fail(name, ErrUnexpectedType, err)
	}
	return nil
}

// Validate fails on the first undefined property in registration order.
func (b *Bag) Validate() error {
	for _, name := range b.order {
		if !b.props[name].Defined() {
			return b.fail(name, ErrMissingProperty, nil)
		}
	}
	return nil
}

// Snapshot returns every defined value keyed by name.
func (b *Bag) Snapshot() map[string]any {
	out := make(map[string]any, len(b.order))
	for _, name := range b.order {
		if v, ok := b.props[name].Any(); ok {
			out[name] = v
		}
	}
	return out
}

// Get returns the value of name as a T.
func Get[T any](b *Bag, name string) (T, error) {
	var zero T
	v, err := b.Value(name, false)
	if err != nil {
		return zero, err
	}
	tv, ok := v.(T)
	if !ok {
		return zero, b.fail(name, ErrUnexpectedType, fmt.Errorf("want %T, got %T", zero, v))
	}
	return tv, nil
}
