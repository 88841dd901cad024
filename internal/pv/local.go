// Package pv provides an in-process live-data engine.
//
// Names follow the loc:// convention: "loc://speed(42)" names the PV
// "speed" with initial value 42. Any other name is used verbatim and
// starts without a value.
package pv

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "pv")

// ErrUnknownPV is returned when writing to a PV that was never created.
var ErrUnknownPV = errors.New("unknown pv")

// ErrBadName is returned for a loc:// name with a malformed initializer.
var ErrBadName = errors.New("malformed pv name")

const localScheme = "loc://"

// ParseName splits a PV name into its key and optional initial value.
func ParseName(name string) (key string, initial any, err error) {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, localScheme) {
		return name, nil, nil
	}
	rest := name[len(localScheme):]
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return rest, nil, nil
	}
	if !strings.HasSuffix(rest, ")") {
		return "", nil, fmt.Errorf("%q: %w", name, ErrBadName)
	}
	key = rest[:open]
	if key == "" {
		return "", nil, fmt.Errorf("%q: %w", name, ErrBadName)
	}
	return key, Coerce(strings.Trim(rest[open+1:len(rest)-1], `"`)), nil
}

// Coerce turns numeric strings into float64 and leaves anything else as is.
func Coerce(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return s
}

// Local is a thread-safe map of PV values.
type Local struct {
	mu     sync.RWMutex
	values map[string]any
	known  map[string]bool

	// OnChange, when set, is called after every successful write.
	OnChange func(key string, v any)
}

// NewLocal returns an empty engine.
func NewLocal() *Local {
	return &Local{values: make(map[string]any), known: make(map[string]bool)}
}

// CreatePV registers name. An existing PV keeps its value; a new one
// takes the name's initial value, if any.
func (l *Local) CreatePV(name string) error {
	key, initial, err := ParseName(name)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.known[key] {
		return nil
	}
	l.known[key] = true
	if initial != nil {
		l.values[key] = initial
	}
	log.WithField("pv", key).Debug("pv created")
	return nil
}

// SetValue writes v to a created PV. Numeric strings are stored as numbers.
func (l *Local) SetValue(name string, v any) error {
	key, _, err := ParseName(name)
	if err != nil {
		return err
	}
	v = Coerce(v)
	l.mu.Lock()
	if !l.known[key] {
		l.mu.Unlock()
		return fmt.Errorf("%q: %w", key, ErrUnknownPV)
	}
	l.values[key] = v
	cb := l.OnChange
	l.mu.Unlock()

	log.WithFields(logrus.Fields{"pv": key, "value": v}).Debug("pv written")
	if cb != nil {
		cb(key, v)
	}
	return nil
}

// Get returns the current value. ok is false for unknown PVs and for PVs
// that have not received a value yet.
func (l *Local) Get(name string) (any, bool) {
	key, _, err := ParseName(name)
	if err != nil {
		return nil, false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

// Names returns every created PV key, sorted.
func (l *Local) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.known))
	for k := range l.known {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Values returns a copy of every PV that has a value.
func (l *Local) Values() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]any, len(l.values))
	for k, v := range l.values {
		out[k] = v
	}
	return out
}
