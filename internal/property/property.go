// Package property implements the named, typed, defaulted configuration
// cells that widgets and actions are built from.
package property

import (
	"errors"
	"fmt"

	"github.com/mj1618/opi-cli/internal/document"
)

// Kind is the closed set of value types a property can hold.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindColor
	KindFont
	KindActions
	KindPoints
)

var kindNames = [...]string{"string", "int", "float", "boolean", "color", "font", "action-list", "point-list"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var (
	// ErrMissingProperty reports a required property that has no value.
	ErrMissingProperty = errors.New("missing required property")
	// ErrUnexpectedType reports a value that does not match the property's kind.
	ErrUnexpectedType = errors.New("property has unexpected type")
	// ErrUnknownProperty reports an assignment to a name the bag does not hold.
	ErrUnknownProperty = errors.New("unknown property")
)

// Error identifies the owner and property a failure belongs to.
type Error struct {
	Owner string
	Name  string
	Err   error
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %q: %v", e.Owner, e.Err, e.Name, e.Cause)
	}
	return fmt.Sprintf("%s: %s %q", e.Owner, e.Err, e.Name)
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// Property is the accessor contract shared by every typed variant.
type Property interface {
	Name() string
	Kind() Kind
	// Defined reports whether the property holds a value, either a default
	// or one assigned since.
	Defined() bool
	// Any returns the current value boxed; ok is false when undefined.
	Any() (v any, ok bool)
	// Assign sets the value from a boxed one of the property's type.
	Assign(v any) error
	// Load assigns the value found under the property's name in n. A missing
	// child leaves the current value untouched.
	Load(n document.Node) error

	sealed()
}

// Typed is a property holding a T.
type Typed[T any] struct {
	name    string
	kind    Kind
	value   T
	def     T
	defined bool
	hasDef  bool
	read    func(n document.Node, name string) (T, error)
}

func newTyped[T any](kind Kind, name string, def T, read func(document.Node, string) (T, error)) *Typed[T] {
	return &Typed[T]{name: name, kind: kind, value: def, def: def, defined: true, hasDef: true, read: read}
}

// NoDefault drops the default so the property is undefined until hydrated
// or set. It returns p for chaining at construction.
func (p *Typed[T]) NoDefault() *Typed[T] {
	var zero T
	p.value, p.def = zero, zero
	p.defined, p.hasDef = false, false
	return p
}

func (*Typed[T]) sealed() {}

func (p *Typed[T]) Name() string  { return p.name }
func (p *Typed[T]) Kind() Kind    { return p.kind }
func (p *Typed[T]) Defined() bool { return p.defined }

// Value returns the current value, or the zero T when undefined.
func (p *Typed[T]) Value() T { return p.value }

// Default returns the value the property was constructed with.
func (p *Typed[T]) Default() (T, bool) { return p.def, p.hasDef }

func (p *Typed[T]) Set(v T) {
	p.value = v
	p.defined = true
}

// Reset restores the construction-time default.
func (p *Typed[T]) Reset() {
	p.value = p.def
	p.defined = p.hasDef
}

func (p *Typed[T]) Any() (any, bool) {
	if !p.defined {
		return nil, false
	}
	return p.value, true
}

func (p *Typed[T]) Assign(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf("want %s, got %T: %w", p.kind, v, ErrUnexpectedType)
	}
	p.Set(tv)
	return nil
}

func (p *Typed[T]) Load(n document.Node) error {
	if !n.Has(p.name) {
		return nil
	}
	v, err := p.read(n, p.name)
	if errors.Is(err, document.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	p.Set(v)
	return nil
}

func String(name, def string) *Typed[string] {
	return newTyped(KindString, name, def, document.Node.String)
}

func Int(name string, def int) *Typed[int] {
	return newTyped(KindInt, name, def, document.Node.Int)
}

func Float(name string, def float64) *Typed[float64] {
	return newTyped(KindFloat, name, def, document.Node.Float)
}

func Bool(name string, def bool) *Typed[bool] {
	return newTyped(KindBool, name, def, document.Node.Bool)
}

func Color(name string, def document.Color) *Typed[document.Color] {
	return newTyped(KindColor, name, def, document.Node.Color)
}

func Font(name string, def document.Font) *Typed[document.Font] {
	return newTyped(KindFont, name, def, document.Node.Font)
}

func Actions(name string) *Typed[document.ActionList] {
	return newTyped(KindActions, name, document.ActionList{}, document.Node.Actions)
}

func Points(name string) *Typed[[]document.Point] {
	return newTyped(KindPoints, name, nil, document.Node.Points)
}
