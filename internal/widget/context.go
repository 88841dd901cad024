package widget

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mj1618/opi-cli/internal/action"
	"github.com/sirupsen/logrus"
)

// Fetcher loads resources out of band. done runs later on the UI goroutine,
// never from inside Fetch.
type Fetcher interface {
	Fetch(path string, done func(data []byte, err error))
}

// Context is what widgets reach the outside world through. One Context is
// shared by every widget of a display; nested displays get a derived copy.
type Context struct {
	PV      action.PVEngine
	Dialogs action.DialogHost
	Events  action.EventSink
	Scripts action.ScriptRunner
	Macros  map[string]string
	Fetcher Fetcher
	// Repaint requests a new paint pass.
	Repaint func()
	// Lookup finds a widget of the same display by wuid.
	Lookup func(wuid string) Widget
	// BaseDir resolves relative resource paths.
	BaseDir string
	// Ancestors holds the cleaned paths of the display files enclosing
	// this one, outermost first.
	Ancestors []string
	Log     *logrus.Entry
}

// Derive returns a copy of c whose macros are c's overlaid with extra.
func (c *Context) Derive(extra map[string]string) *Context {
	d := *c
	d.Macros = make(map[string]string, len(c.Macros)+len(extra))
	for k, v := range c.Macros {
		d.Macros[k] = v
	}
	for k, v := range extra {
		d.Macros[k] = v
	}
	d.Ancestors = append([]string(nil), c.Ancestors...)
	return &d
}

// Resolve returns path joined to BaseDir unless it is absolute or a URL.
func (c *Context) Resolve(path string) string {
	if c == nil || c.BaseDir == "" || filepath.IsAbs(path) || strings.Contains(path, "://") {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// Within reports whether path is one of the enclosing display files.
func (c *Context) Within(path string) bool {
	if c == nil {
		return false
	}
	path = filepath.Clean(path)
	for _, a := range c.Ancestors {
		if a == path {
			return true
		}
	}
	return false
}

func (c *Context) requestRepaint() {
	if c != nil && c.Repaint != nil {
		c.Repaint()
	}
}

func (c *Context) logger() *logrus.Entry {
	if c != nil && c.Log != nil {
		return c.Log
	}
	return log
}

var macroRef = regexp.MustCompile(`\$[({]([A-Za-z0-9_.\-]+)[)}]`)

// ExpandMacros substitutes $(NAME) and ${NAME} references. Unknown names
// are left as written.
func ExpandMacros(text string, macros map[string]string) string {
	if len(macros) == 0 {
		return text
	}
	return macroRef.ReplaceAllStringFunc(text, func(ref string) string {
		if v, ok := macros[ref[2:len(ref)-1]]; ok {
			return v
		}
		return ref
	})
}
