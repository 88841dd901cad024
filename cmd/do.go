package cmd

import (
	"fmt"
	"io"

	"github.com/mj1618/opi-cli/internal/output"
	"github.com/mj1618/opi-cli/internal/session"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var doCmd = &cobra.Command{
	Use:   "do FILE",
	Short: "Execute multiple steps against one display",
	Long: `Execute a sequence of steps from a YAML list on stdin against a single
loaded display, so PV writes and pointer state carry from step to step.

Each step is a step name with its parameters as a map. Steps execute
sequentially, and by default execution stops on the first error.

Supported step types: click, hover, probe, action, set-pv, assert, settle, sleep, tree

Example:
  opi-cli do pump.opi <<'EOF'
  - assert: { wuid: "pump_led", value: "off" }
  - click: { text: "Start", roles: "btn" }
  - assert: { wuid: "pump_led", value: "on" }
  - set-pv: { name: "loc://speed", value: 2.5 }
  - assert: { wuid: "speed", value-contains: "2.5" }
  EOF`,
	Args: cobra.ExactArgs(1),
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error")
}

// parseSteps reads a YAML list of single-key step maps.
func parseSteps(data []byte) ([]session.Step, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no steps provided on stdin, pipe a YAML list of steps")
	}
	var steps []session.Step
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("no steps provided, expected a YAML list of steps")
	}
	for i, step := range steps {
		for name, params := range step {
			if params == nil {
				steps[i][name] = map[string]interface{}{}
			}
		}
	}
	return steps, nil
}

func runDo(cmd *cobra.Command, args []string) error {
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	steps, err := parseSteps(data)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	result := sess.Run(cmd.Context(), steps, stopOnError)
	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%d of %d steps completed", result.Completed, result.Steps)
	}
	return nil
}
