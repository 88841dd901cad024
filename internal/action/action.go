// Package action implements the user-triggerable behaviours widgets carry.
//
// An action never navigates, spawns processes or touches files itself. It
// either writes through the live-data engine or fires an event for the host
// to act on.
package action

import (
	"fmt"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/mj1618/opi-cli/internal/property"
)

// Action is one declared behaviour.
type Action interface {
	// Kind is the document type tag, e.g. "WRITE_PV".
	Kind() string
	Properties() *property.Bag
	// Description is the user-facing label, falling back to a generated one.
	Description() string
	Hydrate(n document.Node) error
	Execute(t Target) error
}

type base struct {
	kind        string
	bag         *property.Bag
	description *property.Typed[string]
}

func newBase(kind string) base {
	b := base{
		kind:        kind,
		bag:         property.NewBag(kind),
		description: property.String("description", ""),
	}
	b.bag.Add(b.description)
	return b
}

func (b *base) Kind() string              { return b.kind }
func (b *base) Properties() *property.Bag { return b.bag }

func (b *base) Hydrate(n document.Node) error {
	if err := b.bag.Load(n); err != nil {
		return err
	}
	return b.bag.Validate()
}

func (b *base) describe(fallback string) string {
	if d := b.description.Value(); d != "" {
		return d
	}
	return fallback
}

// emit fires kind with payload, tagged with the owning widget.
func emit(t Target, kind string, payload map[string]any) error {
	sink := t.Events()
	if sink == nil {
		return fmt.Errorf("%s: no event sink", kind)
	}
	payload["wuid"] = t.WUID()
	sink.FireEvent(kind, payload)
	return nil
}

// OpenDisplay requests that another display be opened.
type OpenDisplay struct {
	base
	path   *property.Typed[string]
	mode   *property.Typed[int]
	macros map[string]string
}

func NewOpenDisplay() *OpenDisplay {
	a := &OpenDisplay{
		base: newBase("OPEN_DISPLAY"),
		path: property.String("path", "").NoDefault(),
		mode: property.Int("mode", 0),
	}
	a.bag.Add(a.path)
	a.bag.Add(a.mode)
	return a
}

func (a *OpenDisplay) Hydrate(n document.Node) error {
	if err := a.base.Hydrate(n); err != nil {
		return err
	}
	a.macros = nil
	if n.Has("macros") {
		m, err := n.Map("macros")
		if err != nil {
			return err
		}
		delete(m, "include_parent_macros")
		a.macros = m
	}
	return nil
}

func (a *OpenDisplay) Description() string { return a.describe("Open " + a.path.Value()) }

func (a *OpenDisplay) Execute(t Target) error {
	macros := make(map[string]string, len(a.macros))
	for k, v := range a.macros {
		macros[k] = t.ExpandMacro(v)
	}
	return emit(t, EventOpenDisplay, map[string]any{
		"path":   t.ExpandMacro(a.path.Value()),
		"mode":   a.mode.Value(),
		"macros": macros,
	})
}

// WritePV writes a value to a process variable, optionally after the user
// confirms.
type WritePV struct {
	base
	pvName  *property.Typed[string]
	value   *property.Typed[string]
	timeout *property.Typed[int]
	confirm *property.Typed[string]
}

func NewWritePV() *WritePV {
	a := &WritePV{
		base:    newBase("WRITE_PV"),
		pvName:  property.String("pv_name", "").NoDefault(),
		value:   property.String("value", ""),
		timeout: property.Int("timeout", 10),
		confirm: property.String("confirm_message", ""),
	}
	for _, p := range []property.Property{a.pvName, a.value, a.timeout, a.confirm} {
		a.bag.Add(p)
	}
	return a
}

func (a *WritePV) Description() string {
	return a.describe(fmt.Sprintf("Write %s to %s", a.value.Value(), a.pvName.Value()))
}

func (a *WritePV) Execute(t Target) error {
	if msg := a.confirm.Value(); msg != "" {
		d := t.Dialogs()
		if d == nil || !d.Confirm(t.ExpandMacro(msg)) {
			return nil
		}
	}
	pvs := t.PV()
	if pvs == nil {
		return fmt.Errorf("%s: no live-data engine", a.kind)
	}
	name := t.ExpandMacro(a.pvName.Value())
	if _, ok := pvs.Get(name); !ok {
		if err := pvs.CreatePV(name); err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
	}
	if err := pvs.SetValue(name, t.ExpandMacro(a.value.Value())); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ExecuteScript hands a script to the host's script runner.
type ExecuteScript struct {
	base
	language string
	path     *property.Typed[string]
	text     *property.Typed[string]
	embedded *property.Typed[bool]
}

func newExecuteScript(kind, language string) *ExecuteScript {
	a := &ExecuteScript{
		base:     newBase(kind),
		language: language,
		path:     property.String("path", ""),
		text:     property.String("scriptText", ""),
		embedded: property.Bool("embedded", false),
	}
	a.bag.Add(a.path)
	a.bag.Add(a.text)
	a.bag.Add(a.embedded)
	return a
}

func NewExecuteJavaScript() *ExecuteScript {
	return newExecuteScript("EXECUTE_JAVASCRIPT", "javascript")
}

func NewExecutePythonScript() *ExecuteScript {
	return newExecuteScript("EXECUTE_PYTHONSCRIPT", "python")
}

func (a *ExecuteScript) Description() string {
	if a.embedded.Value() {
		return a.describe("Execute embedded " + a.language)
	}
	return a.describe("Execute " + a.path.Value())
}

func (a *ExecuteScript) Execute(t Target) error {
	req := ScriptRequest{
		WUID:     t.WUID(),
		Language: a.language,
		Embedded: a.embedded.Value(),
	}
	if req.Embedded {
		req.Text = a.text.Value()
	} else {
		req.Path = t.ExpandMacro(a.path.Value())
	}
	r := t.Scripts()
	if r == nil {
		return fmt.Errorf("%s: no script runner", a.kind)
	}
	return r.RunScript(req)
}

// eventAction covers the variants whose only effect is one event carrying
// their string properties.
type eventAction struct {
	base
	event   string
	verb    string
	fields  []*property.Typed[string]
	numbers []*property.Typed[int]
}

func newEventAction(kind, event, verb string, fields []*property.Typed[string], numbers ...*property.Typed[int]) *eventAction {
	a := &eventAction{base: newBase(kind), event: event, verb: verb, fields: fields, numbers: numbers}
	for _, f := range fields {
		a.bag.Add(f)
	}
	for _, n := range numbers {
		a.bag.Add(n)
	}
	return a
}

func (a *eventAction) Description() string {
	return a.describe(a.verb + " " + a.fields[0].Value())
}

func (a *eventAction) Execute(t Target) error {
	payload := make(map[string]any, len(a.fields)+len(a.numbers)+1)
	for _, f := range a.fields {
		payload[f.Name()] = t.ExpandMacro(f.Value())
	}
	for _, n := range a.numbers {
		payload[n.Name()] = n.Value()
	}
	return emit(t, a.event, payload)
}

func NewRunCommand() Action {
	return newEventAction("RUN_COMMAND", EventRunCommand, "Run",
		[]*property.Typed[string]{property.String("command", "").NoDefault()})
}

func NewRunProcedure() Action {
	return newEventAction("RUN_PROCEDURE", EventRunProcedure, "Run procedure",
		[]*property.Typed[string]{property.String("procedure", "").NoDefault(), property.String("arguments", "")})
}

func NewRunStack() Action {
	return newEventAction("RUN_STACK", EventRunStack, "Run stack",
		[]*property.Typed[string]{property.String("stack", "").NoDefault(), property.String("arguments", "")})
}

func NewOpenWebpage() Action {
	return newEventAction("OPEN_WEBPAGE", EventOpenWebpage, "Open",
		[]*property.Typed[string]{property.String("hyperlink", "").NoDefault()})
}

func NewPlaySound() Action {
	return newEventAction("PLAY_SOUND", EventPlaySound, "Play",
		[]*property.Typed[string]{property.String("path", "").NoDefault()})
}

func NewOpenFile() Action {
	return newEventAction("OPEN_FILE", EventOpenFile, "Open",
		[]*property.Typed[string]{property.String("path", "").NoDefault()})
}

func NewExecuteCommand() Action {
	return newEventAction("EXECUTE_CMD", EventExecuteCmd, "Execute",
		[]*property.Typed[string]{property.String("command", "").NoDefault(), property.String("command_directory", "$(user.home)")},
		property.Int("wait_time", 10))
}
