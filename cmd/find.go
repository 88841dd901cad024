package cmd

import (
	"fmt"

	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/mj1618/opi-cli/internal/session"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find FILE...",
	Short: "Search for widgets across displays",
	Long:  "Search for widgets by text across one or more displays, including the displays embedded in linking containers. Useful to find which screen holds a control.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().String("text", "", "Text to search for (case-insensitive substring match on wuid/name/value)")
	findCmd.Flags().String("roles", "", "Filter by role (e.g. \"btn\", \"btn,led\")")
	findCmd.Flags().Int("limit", 10, "Max total matching widgets to return")
	findCmd.Flags().Bool("exact", false, "Require exact match instead of substring")
	findCmd.Flags().Bool("visible-only", true, "Skip hidden widgets")
}

// findDisplayMatch groups matching widgets with their display.
type findDisplayMatch struct {
	File     string               `yaml:"file"     json:"file"`
	Display  string               `yaml:"display"  json:"display"`
	Elements []output.ElementInfo `yaml:"elements" json:"elements"`
}

// findResult is the top-level output of the find command.
type findResult struct {
	OK      bool               `yaml:"ok"      json:"ok"`
	Action  string             `yaml:"action"  json:"action"`
	Text    string             `yaml:"text"    json:"text"`
	Matches []findDisplayMatch `yaml:"matches" json:"matches"`
	Total   int                `yaml:"total"   json:"total"`
	Errors  []string           `yaml:"errors,omitempty" json:"errors,omitempty"`
}

func runFind(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	roles, _ := cmd.Flags().GetString("roles")
	limit, _ := cmd.Flags().GetInt("limit")
	exact, _ := cmd.Flags().GetBool("exact")
	visibleOnly, _ := cmd.Flags().GetBool("visible-only")

	if text == "" {
		return fmt.Errorf("--text is required")
	}

	result := findResult{OK: true, Action: "find", Text: text, Matches: []findDisplayMatch{}}
	for _, file := range args {
		if result.Total >= limit {
			break
		}
		sess, err := openSession(cmd.Context(), []string{file})
		if err != nil {
			// Keep searching the other displays.
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", file, err))
			continue
		}
		elements := sess.Snapshot()
		name, _ := sess.Name()
		sess.Close()

		if visibleOnly {
			elements = model.PruneHidden(elements)
		}
		found := limitMatches(session.Matches(elements, text, roles, exact), limit-result.Total)
		if len(found) == 0 {
			continue
		}
		result.Matches = append(result.Matches, findDisplayMatch{File: file, Display: name, Elements: found})
		result.Total += len(found)
	}
	return output.Print(result)
}

// limitMatches converts at most n matches to element infos.
func limitMatches(matches []*model.Element, n int) []output.ElementInfo {
	if len(matches) > n {
		matches = matches[:n]
	}
	infos := make([]output.ElementInfo, 0, len(matches))
	for _, m := range matches {
		infos = append(infos, *output.Info(m))
	}
	return infos
}
