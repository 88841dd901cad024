package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Out is where results are written.
var Out io.Writer = os.Stdout

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatYAML, FormatJSON:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid format %q: use yaml or json", s)
}

// TreeResult is the top-level output of the `tree` command.
type TreeResult struct {
	File     string          `yaml:"file,omitempty"    json:"file,omitempty"`
	Display  string          `yaml:"display,omitempty" json:"display,omitempty"`
	Size     [2]int          `yaml:"size"              json:"size"`
	TS       int64           `yaml:"ts"                json:"ts"`
	Elements []model.Element `yaml:"elements"          json:"elements"`
}

// TreeFlatResult is the top-level output when --flat is used.
type TreeFlatResult struct {
	File     string              `yaml:"file,omitempty"    json:"file,omitempty"`
	Display  string              `yaml:"display,omitempty" json:"display,omitempty"`
	Size     [2]int              `yaml:"size"              json:"size"`
	TS       int64               `yaml:"ts"                json:"ts"`
	Elements []model.FlatElement `yaml:"elements"          json:"elements"`
}

// RegionInfo describes the hit region found at a point.
type RegionInfo struct {
	ID     string `yaml:"id"               json:"id"`
	Cursor string `yaml:"cursor,omitempty" json:"cursor,omitempty"`
}

// ProbeResult is the output of `probe` and `hover`.
type ProbeResult struct {
	OK     bool         `yaml:"ok"               json:"ok"`
	Action string       `yaml:"action"           json:"action"`
	X      int          `yaml:"x"                json:"x"`
	Y      int          `yaml:"y"                json:"y"`
	Region *RegionInfo  `yaml:"region,omitempty" json:"region,omitempty"`
	Target *ElementInfo `yaml:"target,omitempty" json:"target,omitempty"`
}

// ElementInfo is a compact single-element representation used in command
// responses to report the target widget.
type ElementInfo struct {
	ID     int    `yaml:"i"           json:"i"`
	WUID   string `yaml:"w"           json:"w"`
	Role   string `yaml:"r"           json:"r"`
	Kind   string `yaml:"k"           json:"k"`
	Name   string `yaml:"t,omitempty" json:"t,omitempty"`
	Value  string `yaml:"v,omitempty" json:"v,omitempty"`
	Bounds [4]int `yaml:"b"           json:"b"`
}

// Info converts an element to its compact form.
func Info(el *model.Element) *ElementInfo {
	if el == nil {
		return nil
	}
	return &ElementInfo{
		ID:     el.ID,
		WUID:   el.WUID,
		Role:   el.Role,
		Kind:   el.Kind,
		Name:   el.Name,
		Value:  el.Value,
		Bounds: el.Bounds,
	}
}

// ActionResult is the output of `click` and `action`.
type ActionResult struct {
	OK     bool         `yaml:"ok"               json:"ok"`
	Action string       `yaml:"action"           json:"action"`
	X      int          `yaml:"x,omitempty"      json:"x,omitempty"`
	Y      int          `yaml:"y,omitempty"      json:"y,omitempty"`
	Region *RegionInfo  `yaml:"region,omitempty" json:"region,omitempty"`
	Target *ElementInfo `yaml:"target,omitempty" json:"target,omitempty"`
	Events []host.Event `yaml:"events,omitempty" json:"events,omitempty"`
}

// Print serializes v to Out in the current output format.
func Print(v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(v)
		}
		return PrintJSON(v)
	case FormatYAML:
		return PrintYAML(v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to Out as compact single-line JSON.
func PrintJSON(v interface{}) error {
	enc := json.NewEncoder(Out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintPrettyJSON serializes v to Out as indented JSON.
func PrintPrettyJSON(v interface{}) error {
	enc := json.NewEncoder(Out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to Out as YAML.
func PrintYAML(v interface{}) error {
	enc := yaml.NewEncoder(Out)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
