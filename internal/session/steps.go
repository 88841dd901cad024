package session

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/output"
)

// Step is one batch entry: a single step name mapped to its parameters.
type Step map[string]map[string]interface{}

// StepResult is the output for a single step within a batch.
type StepResult struct {
	Step    int                 `yaml:"step"              json:"step"`
	OK      bool                `yaml:"ok"                json:"ok"`
	Action  string              `yaml:"action"            json:"action"`
	Error   string              `yaml:"error,omitempty"   json:"error,omitempty"`
	Target  *output.ElementInfo `yaml:"target,omitempty"  json:"target,omitempty"`
	Region  *output.RegionInfo  `yaml:"region,omitempty"  json:"region,omitempty"`
	Events  []host.Event        `yaml:"events,omitempty"  json:"events,omitempty"`
	Elapsed string              `yaml:"elapsed,omitempty" json:"elapsed,omitempty"`
	Count   int                 `yaml:"count,omitempty"   json:"count,omitempty"`
}

// BatchResult is the output of a batch run.
type BatchResult struct {
	OK        bool         `yaml:"ok"              json:"ok"`
	Action    string       `yaml:"action"          json:"action"`
	Steps     int          `yaml:"steps"           json:"steps"`
	Completed int          `yaml:"completed"       json:"completed"`
	Error     string       `yaml:"error,omitempty" json:"error,omitempty"`
	Results   []StepResult `yaml:"results"         json:"results"`
}

// StepNames lists the supported step types.
var StepNames = []string{"click", "hover", "probe", "action", "set-pv", "assert", "settle", "sleep", "tree"}

// Run executes steps in order. With stopOnError the first failing step
// ends the batch. Completed counts the steps that succeeded.
func (s *Session) Run(ctx context.Context, steps []Step, stopOnError bool) BatchResult {
	res := BatchResult{Action: "do", Steps: len(steps), Results: make([]StepResult, 0, len(steps))}
	failed := false
	for i, step := range steps {
		r := s.runStep(ctx, step)
		r.Step = i + 1
		res.Results = append(res.Results, r)
		if r.OK {
			res.Completed++
			continue
		}
		failed = true
		if stopOnError {
			res.Error = fmt.Sprintf("step %d: %s", r.Step, r.Error)
			break
		}
	}
	res.OK = !failed
	return res
}

func (s *Session) runStep(ctx context.Context, step Step) StepResult {
	if len(step) != 1 {
		return StepResult{Error: fmt.Sprintf("expected exactly one action key, got %d", len(step))}
	}
	for name, params := range step {
		r, err := s.ExecuteStep(ctx, name, params)
		r.Action = name
		if err != nil {
			r.OK = false
			r.Error = err.Error()
			return r
		}
		r.OK = true
		return r
	}
	return StepResult{}
}

// ExecuteStep runs one named step.
func (s *Session) ExecuteStep(ctx context.Context, name string, params map[string]interface{}) (StepResult, error) {
	switch name {
	case "click":
		button, err := host.ParseMouseButton(StringParam(params, "button", "left"))
		if err != nil {
			return StepResult{}, err
		}
		r, err := s.Click(TargetParams(params), button)
		return StepResult{Target: r.Target, Region: r.Region, Events: r.Events}, err
	case "hover":
		r, err := s.Hover(TargetParams(params))
		return StepResult{Target: r.Target, Region: r.Region}, err
	case "probe":
		r, err := s.Probe(TargetParams(params))
		return StepResult{Target: r.Target, Region: r.Region}, err
	case "action":
		wuid := StringParam(params, "wuid", "")
		if wuid == "" {
			return StepResult{}, fmt.Errorf("wuid is required")
		}
		r, err := s.Execute(wuid, IntParam(params, "index", 0))
		return StepResult{Target: r.Target, Events: r.Events}, err
	case "set-pv":
		pvName := StringParam(params, "name", "")
		if pvName == "" {
			return StepResult{}, fmt.Errorf("name is required")
		}
		return StepResult{}, s.SetPV(pvName, StringParam(params, "value", ""))
	case "assert":
		a := AssertParams(params)
		r := Check(s.Snapshot(), TargetParams(params), a)
		if !r.Pass {
			return StepResult{Target: r.Element}, fmt.Errorf("assert failed: %s", r.Error)
		}
		return StepResult{Target: r.Element}, nil
	case "settle":
		start := time.Now()
		err := s.Settle(ctx)
		return StepResult{Elapsed: time.Since(start).Round(time.Millisecond).String()}, err
	case "sleep":
		ms := IntParam(params, "ms", 0)
		if ms <= 0 {
			return StepResult{}, fmt.Errorf("ms must be > 0")
		}
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-ctx.Done():
			return StepResult{}, ctx.Err()
		}
		s.Viewer.Pump()
		return StepResult{Elapsed: fmt.Sprintf("%dms", ms)}, nil
	case "tree":
		return StepResult{Count: len(model.FlattenElements(s.Snapshot()))}, nil
	}
	return StepResult{}, fmt.Errorf("unknown step type %q, supported: %v", name, StepNames)
}

// TargetParams reads wuid, text, roles, exact, x and y from a step.
func TargetParams(params map[string]interface{}) Target {
	_, hasX := params["x"]
	_, hasY := params["y"]
	return Target{
		WUID:  StringParam(params, "wuid", ""),
		Text:  StringParam(params, "text", ""),
		Roles: StringParam(params, "roles", ""),
		Exact: BoolParam(params, "exact", false),
		X:     IntParam(params, "x", 0),
		Y:     IntParam(params, "y", 0),
		Point: hasX && hasY,
	}
}

// AssertParams reads the assertion keys from a step.
func AssertParams(params map[string]interface{}) Assertion {
	_, hasValue := params["value"]
	return Assertion{
		Value:         StringParam(params, "value", ""),
		HasValue:      hasValue,
		ValueContains: StringParam(params, "value-contains", ""),
		Enabled:       BoolParam(params, "enabled", false),
		Disabled:      BoolParam(params, "disabled", false),
		Visible:       BoolParam(params, "visible", false),
		Hidden:        BoolParam(params, "hidden", false),
		Clickable:     BoolParam(params, "clickable", false),
		Gone:          BoolParam(params, "gone", false),
	}
}

// Parameter extraction helpers for step maps

func StringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		// YAML and JSON decode bare numbers as int or float64
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

func IntParam(params map[string]interface{}, key string, defaultVal int) int {
	if v, ok := params[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case float64:
			return int(n)
		case int64:
			return int(n)
		}
	}
	return defaultVal
}

func BoolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
