package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/spf13/cobra"
)

var setPVCmd = &cobra.Command{
	Use:   "set-pv FILE",
	Short: "Write local PVs and show the widgets that changed",
	Long: `Write one or more local PVs (loc://...) and print the widget tree after the
display repainted. Numeric values are stored as numbers.

Examples:
  opi-cli set-pv pump.opi --pv loc://pump=1
  opi-cli set-pv pump.opi --pv loc://speed=2.5 --pv loc://mode=auto --changed`,
	Args: cobra.ExactArgs(1),
	RunE: runSetPV,
}

func init() {
	rootCmd.AddCommand(setPVCmd)
	setPVCmd.Flags().StringArray("pv", nil, "PV assignment as NAME=VALUE (repeatable)")
	setPVCmd.Flags().Bool("changed", false, "Only report the widgets whose state changed")
}

// parseAssignments splits NAME=VALUE pairs, keeping their order.
func parseAssignments(pairs []string) ([][2]string, error) {
	out := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid PV assignment %q: expected NAME=VALUE", p)
		}
		out = append(out, [2]string{strings.TrimSpace(name), value})
	}
	return out, nil
}

func runSetPV(cmd *cobra.Command, args []string) error {
	pairs, _ := cmd.Flags().GetStringArray("pv")
	changedOnly, _ := cmd.Flags().GetBool("changed")
	assignments, err := parseAssignments(pairs)
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		return fmt.Errorf("--pv is required")
	}

	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	before := model.FlattenElements(sess.Snapshot())
	for _, a := range assignments {
		if err := sess.SetPV(a[0], a[1]); err != nil {
			return err
		}
	}
	after := sess.Snapshot()

	if changedOnly {
		return output.Print(map[string]interface{}{
			"ok":      true,
			"action":  "set-pv",
			"changes": model.DiffElements(before, model.FlattenElements(after)),
		})
	}
	name, size := sess.Name()
	return output.Print(output.TreeResult{
		File:     sess.File,
		Display:  name,
		Size:     size,
		TS:       time.Now().Unix(),
		Elements: after,
	})
}
