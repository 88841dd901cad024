// Package widget defines the widget model shared by every widget kind: the
// property bag, derived holder and content boxes, the holder hit region,
// the action set and the draw lifecycle.
package widget

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/mj1618/opi-cli/internal/action"
	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/geom"
	"github.com/mj1618/opi-cli/internal/hit"
	"github.com/mj1618/opi-cli/internal/property"
	"github.com/mj1618/opi-cli/internal/raster"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "widget")

// ErrUnknownKind is returned by Build for kinds nothing registered.
var ErrUnknownKind = errors.New("unknown widget kind")

// State is a widget's lifecycle stage.
type State int

const (
	Constructed State = iota
	Hydrated
	Drawable
	Disposed
)

func (s State) String() string {
	switch s {
	case Constructed:
		return "constructed"
	case Hydrated:
		return "hydrated"
	case Drawable:
		return "drawable"
	case Disposed:
		return "disposed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Widget is implemented by every widget kind. Kinds embed *Base, which
// supplies Core, and implement Init and Draw.
type Widget interface {
	Core() *Base
	// Init creates kind-specific hit regions after hydration.
	Init() error
	// Draw paints content and sub-regions at the content box.
	Draw(s raster.Surface, hc *hit.Canvas)
}

// Disposer is implemented by kinds holding resources beyond their Base.
type Disposer interface {
	Dispose()
}

// Container is implemented by kinds that own child widgets.
type Container interface {
	Children() []Widget
}

// Transformer is implemented by kinds whose children are laid out in a
// shifted or scaled space. A child point p maps to (dx+p.X*sx, dy+p.Y*sy)
// in the parent's space.
type Transformer interface {
	ChildTransform() (dx, dy, sx, sy float64)
}

// Valuer is implemented by kinds that show a text or a live value.
type Valuer interface {
	DisplayValue() string
}

var wuidSeq atomic.Int64

// Base is the state common to all widgets.
type Base struct {
	kind  string
	state State
	ctx   *Context
	node  document.Node

	Props *property.Bag

	X, Y, Width, Height  *property.Typed[int]
	BorderStyle          *property.Typed[int]
	BorderWidth          *property.Typed[int]
	BorderColor          *property.Typed[document.Color]
	BorderAlarmSensitive *property.Typed[bool]
	Background           *property.Typed[document.Color]
	Foreground           *property.Typed[document.Color]
	Visible              *property.Typed[bool]
	Enabled              *property.Typed[bool]
	WUIDProp             *property.Typed[string]
	NameProp             *property.Typed[string]
	Tooltip              *property.Typed[string]
	ActionsProp          *property.Typed[document.ActionList]

	Actions *action.Set

	holder  geom.Box
	content geom.Box
	insets  geom.Insets

	// HolderRegion is painted over the holder box when the action set is
	// click-hooked; nil otherwise.
	HolderRegion *hit.Region
	fallbackID   string
}

// NewBase returns a constructed Base with the common properties registered.
// Kinds add their own properties to Props before hydration.
func NewBase(kind string) *Base {
	b := &Base{
		kind:                 kind,
		Props:                property.NewBag(kind),
		X:                    property.Int("x", 0),
		Y:                    property.Int("y", 0),
		Width:                property.Int("width", 100),
		Height:               property.Int("height", 20),
		BorderStyle:          property.Int("border_style", int(geom.BorderNone)),
		BorderWidth:          property.Int("border_width", 1),
		BorderColor:          property.Color("border_color", document.Black),
		BorderAlarmSensitive: property.Bool("border_alarm_sensitive", false),
		Background:           property.Color("background_color", document.Gray),
		Foreground:           property.Color("foreground_color", document.Black),
		Visible:              property.Bool("visible", true),
		Enabled:              property.Bool("enabled", true),
		WUIDProp:             property.String("wuid", ""),
		NameProp:             property.String("name", ""),
		Tooltip:              property.String("tooltip", ""),
		ActionsProp:          property.Actions("actions"),
		fallbackID:           fmt.Sprintf("%s-%d", kind, wuidSeq.Add(1)),
	}
	for _, p := range []property.Property{
		b.X, b.Y, b.Width, b.Height,
		b.BorderStyle, b.BorderWidth, b.BorderColor, b.BorderAlarmSensitive,
		b.Background, b.Foreground, b.Visible, b.Enabled,
		b.WUIDProp, b.NameProp, b.Tooltip, b.ActionsProp,
	} {
		b.Props.Add(p)
	}
	return b
}

func (b *Base) Core() *Base { return b }

// Init is the no-op hook for kinds without sub-regions.
func (b *Base) Init() error { return nil }

func (b *Base) Kind() string        { return b.kind }
func (b *Base) State() State        { return b.state }
func (b *Base) Context() *Context   { return b.ctx }
func (b *Base) Node() document.Node { return b.node }

// Disposed reports whether the widget was torn down. Async continuations
// check it before touching widget state.
func (b *Base) Disposed() bool { return b.state == Disposed }

// WUID returns the document wuid, or a generated identifier when the
// document declares none.
func (b *Base) WUID() string {
	if id := b.WUIDProp.Value(); id != "" {
		return id
	}
	return b.fallbackID
}

func (b *Base) Name() string { return b.NameProp.Value() }

// Holder is the outer box from x, y, width and height.
func (b *Base) Holder() geom.Box { return b.holder }

// Content is the holder box shrunk by the border insets.
func (b *Base) Content() geom.Box { return b.content }

func (b *Base) Insets() geom.Insets { return b.insets }

// Style returns the declared border style.
func (b *Base) Style() geom.BorderStyle { return geom.BorderStyle(b.BorderStyle.Value()) }

// UpdateBounds recomputes insets, the holder box and the content box from
// the current property values.
func (b *Base) UpdateBounds() {
	b.insets = geom.ComputeInsets(b.Style(), b.BorderWidth.Value(), b.BorderAlarmSensitive.Value())
	b.holder = geom.Box{
		X:      float64(b.X.Value()),
		Y:      float64(b.Y.Value()),
		Width:  float64(b.Width.Value()),
		Height: float64(b.Height.Value()),
	}
	b.content = b.holder.Shrink(b.insets)
}

// Hydrate loads w's properties from n, builds its action set, derives its
// bounds and creates the holder region when the action set is
// click-hooked. Errors are structural: the widget must not be drawn.
func Hydrate(w Widget, n document.Node, ctx *Context) error {
	b := w.Core()
	b.ctx = ctx
	b.node = n
	if err := b.Props.Load(n); err != nil {
		return err
	}
	if err := b.Props.Validate(); err != nil {
		return err
	}
	b.Actions = action.NewSet(b.kind, b.ActionsProp.Value())
	b.UpdateBounds()
	b.HolderRegion = nil
	if b.Actions.IsClickable() {
		b.HolderRegion = &hit.Region{
			ID:      b.WUID(),
			OnClick: func(hit.Event) { b.click() },
			Cursor:  "pointer",
		}
	}
	b.state = Hydrated
	return nil
}

// Build constructs, hydrates and initializes a widget of kind.
func Build(kind string, n document.Node, ctx *Context) (Widget, error) {
	f, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	w := f()
	if err := Hydrate(w, n, ctx); err != nil {
		return nil, err
	}
	if err := w.Init(); err != nil {
		return nil, fmt.Errorf("%s %s: init: %w", kind, w.Core().WUID(), err)
	}
	w.Core().state = Drawable
	return w, nil
}

func (b *Base) click() {
	if !b.Enabled.Value() {
		return
	}
	if err := b.Actions.ExecuteClick(b); err != nil {
		b.Log().WithError(err).Warn("action failed")
	}
}

// ExecuteAction runs the action at index i against this widget.
func (b *Base) ExecuteAction(i int) error {
	return b.Actions.Execute(i, b)
}

// Log returns an entry tagged with the widget's kind and wuid.
func (b *Base) Log() *logrus.Entry {
	return b.ctx.logger().WithFields(logrus.Fields{"kind": b.kind, "wuid": b.WUID()})
}

// Repaint asks the host for a new paint pass.
func (b *Base) Repaint() { b.ctx.requestRepaint() }

// Fetch loads path out of band. done is dropped if the widget has been
// disposed by the time the load completes; otherwise a repaint follows it.
func (b *Base) Fetch(path string, done func(data []byte, err error)) {
	if b.ctx == nil || b.ctx.Fetcher == nil {
		b.Log().WithField("path", path).Debug("no fetcher, resource skipped")
		return
	}
	b.ctx.Fetcher.Fetch(b.ctx.Resolve(b.ExpandMacro(path)), func(data []byte, err error) {
		if b.Disposed() {
			return
		}
		done(data, err)
		b.Repaint()
	})
}

// DrawHolder recomputes bounds, then paints the border at the holder box and
// the holder region into hc.
func (b *Base) DrawHolder(s raster.Surface, hc *hit.Canvas) {
	b.UpdateBounds()
	if !b.Visible.Value() {
		return
	}
	drawBorder(s, b)
	if b.HolderRegion != nil && hc != nil {
		hc.BeginRegion(b.HolderRegion)
		h := b.holder
		hc.Surface().FillRect(h.X, h.Y, h.Width, h.Height)
	}
}

// Paint runs one frame of w: holder then content. Invisible and disposed
// widgets paint nothing.
func Paint(w Widget, s raster.Surface, hc *hit.Canvas) {
	b := w.Core()
	if b.state != Drawable {
		return
	}
	b.DrawHolder(s, hc)
	if !b.Visible.Value() {
		return
	}
	s.Save()
	if hc != nil {
		hc.Surface().Save()
	}
	w.Draw(s, hc)
	if hc != nil {
		hc.Surface().Restore()
	}
	s.Restore()
}

// Dispose tears w down. Later async continuations become no-ops.
func Dispose(w Widget) {
	b := w.Core()
	if b.state == Disposed {
		return
	}
	if c, ok := w.(Container); ok {
		for _, child := range c.Children() {
			Dispose(child)
		}
	}
	if d, ok := w.(Disposer); ok {
		d.Dispose()
	}
	b.state = Disposed
}

// action.Target

func (b *Base) ExpandMacro(text string) string {
	if b.ctx == nil {
		return text
	}
	return ExpandMacros(text, b.ctx.Macros)
}

func (b *Base) PV() action.PVEngine {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.PV
}

func (b *Base) Dialogs() action.DialogHost {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Dialogs
}

func (b *Base) Events() action.EventSink {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Events
}

func (b *Base) Scripts() action.ScriptRunner {
	if b.ctx == nil {
		return nil
	}
	return b.ctx.Scripts
}
