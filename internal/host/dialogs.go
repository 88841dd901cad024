package host

import (
	"sync"

	"github.com/mj1618/opi-cli/internal/action"
)

// Prompt is one dialog shown on behalf of an action.
type Prompt struct {
	Kind    string `yaml:"kind"   json:"kind"` // "confirm" or "inform"
	Message string `yaml:"msg"    json:"msg"`
	Answer  bool   `yaml:"answer" json:"answer"`
}

// Dialogs answers confirmations with a fixed reply and records every prompt.
type Dialogs struct {
	AutoConfirm bool

	mu      sync.Mutex
	prompts []Prompt
}

func (d *Dialogs) record(p Prompt) {
	d.mu.Lock()
	d.prompts = append(d.prompts, p)
	d.mu.Unlock()
	log.WithField("dialog", p.Kind).WithField("answer", p.Answer).Info(p.Message)
}

// Confirm implements action.DialogHost.
func (d *Dialogs) Confirm(message string) bool {
	d.record(Prompt{Kind: "confirm", Message: message, Answer: d.AutoConfirm})
	return d.AutoConfirm
}

// Inform implements action.DialogHost.
func (d *Dialogs) Inform(message string) {
	d.record(Prompt{Kind: "inform", Message: message, Answer: true})
}

// Prompts returns every recorded prompt.
func (d *Dialogs) Prompts() []Prompt {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Prompt(nil), d.prompts...)
}

// Scripts records script requests instead of running them, and reports
// each as an executescript event.
type Scripts struct {
	events action.EventSink

	mu       sync.Mutex
	requests []action.ScriptRequest
}

// RunScript implements action.ScriptRunner.
func (s *Scripts) RunScript(req action.ScriptRequest) error {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.events != nil {
		s.events.FireEvent(action.EventExecuteScript, map[string]any{
			"wuid":     req.WUID,
			"language": req.Language,
			"path":     req.Path,
			"embedded": req.Embedded,
		})
	}
	return nil
}

// Requests returns every recorded request.
func (s *Scripts) Requests() []action.ScriptRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]action.ScriptRequest(nil), s.requests...)
}
