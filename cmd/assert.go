package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/opi-cli/internal/output"
	"github.com/mj1618/opi-cli/internal/session"
	"github.com/spf13/cobra"
)

var assertCmd = &cobra.Command{
	Use:   "assert FILE",
	Short: "Assert a widget condition is met",
	Long: `Check that a widget exists with expected properties.

Returns pass/fail with structured output and exit code 0 (pass) or 1 (fail).
With --timeout the check is repeated while images and linked displays finish
loading.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssert,
}

func init() {
	rootCmd.AddCommand(assertCmd)
	addTargetFlags(assertCmd)

	// Property assertions
	assertCmd.Flags().String("value", "", "Assert widget value equals this string")
	assertCmd.Flags().String("value-contains", "", "Assert widget value contains this substring")
	assertCmd.Flags().Bool("enabled", false, "Assert widget is enabled")
	assertCmd.Flags().Bool("disabled", false, "Assert widget is disabled")
	assertCmd.Flags().Bool("visible", false, "Assert widget is visible")
	assertCmd.Flags().Bool("hidden", false, "Assert widget is hidden")
	assertCmd.Flags().Bool("clickable", false, "Assert widget takes clicks")
	assertCmd.Flags().Bool("gone", false, "Assert widget does NOT exist")

	// Timing
	assertCmd.Flags().Int("timeout", 0, "Max seconds to poll (0 = single check, no polling)")
	assertCmd.Flags().Int("interval", 100, "Polling interval in milliseconds")
}

// assertionFromFlags reads the property assertion flags.
func assertionFromFlags(cmd *cobra.Command) session.Assertion {
	var a session.Assertion
	a.Value, _ = cmd.Flags().GetString("value")
	a.HasValue = cmd.Flags().Changed("value")
	a.ValueContains, _ = cmd.Flags().GetString("value-contains")
	a.Enabled, _ = cmd.Flags().GetBool("enabled")
	a.Disabled, _ = cmd.Flags().GetBool("disabled")
	a.Visible, _ = cmd.Flags().GetBool("visible")
	a.Hidden, _ = cmd.Flags().GetBool("hidden")
	a.Clickable, _ = cmd.Flags().GetBool("clickable")
	a.Gone, _ = cmd.Flags().GetBool("gone")
	return a
}

func runAssert(cmd *cobra.Command, args []string) error {
	target, err := targetFromFlags(cmd)
	if err != nil {
		return err
	}
	assertion := assertionFromFlags(cmd)
	timeoutSec, _ := cmd.Flags().GetInt("timeout")
	intervalMs, _ := cmd.Flags().GetInt("interval")

	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	deadline := time.Now().Add(time.Duration(timeoutSec) * time.Second)
	for {
		result := session.Check(sess.Snapshot(), target, assertion)
		if result.Pass {
			return output.Print(result)
		}
		if timeoutSec <= 0 || time.Now().After(deadline) {
			_ = output.Print(result)
			return fmt.Errorf("assert failed: %s", result.Error)
		}
		time.Sleep(time.Duration(intervalMs) * time.Millisecond)
		sess.Viewer.Pump()
	}
}
