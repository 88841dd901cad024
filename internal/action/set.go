package action

import (
	"sort"
	"sync"

	"github.com/mj1618/opi-cli/internal/document"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "action")

// Factory constructs an empty action of one kind.
type Factory func() Action

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		"OPEN_DISPLAY":         func() Action { return NewOpenDisplay() },
		"WRITE_PV":             func() Action { return NewWritePV() },
		"EXECUTE_JAVASCRIPT":   func() Action { return NewExecuteJavaScript() },
		"EXECUTE_PYTHONSCRIPT": func() Action { return NewExecutePythonScript() },
		"RUN_COMMAND":          NewRunCommand,
		"RUN_PROCEDURE":        NewRunProcedure,
		"RUN_STACK":            NewRunStack,
		"OPEN_WEBPAGE":         NewOpenWebpage,
		"PLAY_SOUND":           NewPlaySound,
		"OPEN_FILE":            NewOpenFile,
		"EXECUTE_CMD":          NewExecuteCommand,
	}
)

// Register adds or replaces the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// Lookup returns the factory for kind.
func Lookup(kind string) (Factory, bool) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := factories[kind]
	return f, ok
}

// Kinds returns every registered kind, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Set is the ordered action list of a widget. Nil entries stand for actions
// that could not be built; they keep later indices stable.
type Set struct {
	Actions   []Action
	HookFirst bool
	HookAll   bool
}

// NewSet builds a Set from a widget's action block. Entries of unknown kind
// or that fail to hydrate are logged and kept as nil.
func NewSet(owner string, list document.ActionList) *Set {
	s := &Set{HookFirst: list.HookFirst, HookAll: list.HookAll}
	for i, n := range list.Entries {
		kind, _ := n.Attr("type")
		f, ok := Lookup(kind)
		if !ok {
			log.WithFields(logrus.Fields{"owner": owner, "index": i, "type": kind}).Warn("unknown action type")
			s.Actions = append(s.Actions, nil)
			continue
		}
		a := f()
		if err := a.Hydrate(n); err != nil {
			log.WithFields(logrus.Fields{"owner": owner, "index": i, "type": kind}).WithError(err).Warn("invalid action")
			s.Actions = append(s.Actions, nil)
			continue
		}
		s.Actions = append(s.Actions, a)
	}
	return s
}

func (s *Set) Len() int { return len(s.Actions) }

// At returns the action at i, or nil when out of range or unbuilt.
func (s *Set) At(i int) Action {
	if s == nil || i < 0 || i >= len(s.Actions) {
		return nil
	}
	return s.Actions[i]
}

// IsClickable reports whether a generic click on the owner runs actions.
func (s *Set) IsClickable() bool {
	return s != nil && len(s.Actions) > 0 && (s.HookFirst || s.HookAll)
}

// Execute runs the action at index i. Out-of-range indices and nil entries
// are no-ops.
func (s *Set) Execute(i int, t Target) error {
	a := s.At(i)
	if a == nil {
		return nil
	}
	return a.Execute(t)
}

// ExecuteClick runs what a generic click on the owner triggers: every action
// when HookAll is set, otherwise the first when HookFirst is set. It returns
// the first error but still runs the remaining actions.
func (s *Set) ExecuteClick(t Target) error {
	if !s.IsClickable() {
		return nil
	}
	if !s.HookAll {
		return s.Execute(0, t)
	}
	var first error
	for i := range s.Actions {
		if err := s.Execute(i, t); err != nil && first == nil {
			first = err
		}
	}
	return first
}
