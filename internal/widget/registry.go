package widget

import (
	"sort"
	"strings"
	"sync"
)

// Factory constructs an unhydrated widget of one kind.
type Factory func() Widget

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register maps kind to its factory. Kinds call it from init.
func Register(kind string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[kind] = f
}

// Lookup returns the factory registered for kind.
func Lookup(kind string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := factories[kind]
	return f, ok
}

// Kinds returns every registered kind, sorted.
func Kinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KindFromTypeID maps a document typeId such as
// "org.csstudio.opibuilder.widgets.ActionButton" to its registry kind
// "actionbutton".
func KindFromTypeID(typeID string) string {
	s := typeID
	if i := strings.LastIndex(s, ".widgets."); i >= 0 {
		s = s[i+len(".widgets."):]
	} else if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}
