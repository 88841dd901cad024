// Package host provides the collaborators a display reaches through its
// widgets when it runs without a surrounding application: a local PV
// engine, an event log standing in for the host's navigation and process
// handling, scripted dialog answers and a script recorder.
package host

import (
	"github.com/mj1618/opi-cli/internal/pv"
	"github.com/mj1618/opi-cli/internal/widget"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "host")

// Options configures a Provider.
type Options struct {
	// AutoConfirm is the answer given to every confirmation prompt.
	AutoConfirm bool
	// MaxEvents bounds the event log; 0 keeps 1000 events.
	MaxEvents int
}

// Provider bundles all host collaborators.
type Provider struct {
	PV      *pv.Local
	Events  *EventLog
	Dialogs *Dialogs
	Scripts *Scripts
}

// NewProvider returns a Provider with fresh, empty collaborators.
func NewProvider(opts Options) *Provider {
	events := NewEventLog(opts.MaxEvents)
	return &Provider{
		PV:      pv.NewLocal(),
		Events:  events,
		Dialogs: &Dialogs{AutoConfirm: opts.AutoConfirm},
		Scripts: &Scripts{events: events},
	}
}

// Context returns a widget context wired to p. Relative resources resolve
// against baseDir.
func (p *Provider) Context(baseDir string, macros map[string]string) *widget.Context {
	return &widget.Context{
		PV:      p.PV,
		Dialogs: p.Dialogs,
		Events:  p.Events,
		Scripts: p.Scripts,
		Macros:  macros,
		BaseDir: baseDir,
		Log:     log,
	}
}
