package cmd

import (
	"fmt"

	"github.com/mj1618/opi-cli/internal/output"
	"github.com/spf13/cobra"
)

var actionCmd = &cobra.Command{
	Use:   "action FILE",
	Short: "Run one of a widget's actions directly",
	Long: `Run a widget action by index, as listed in the 'a' field of tree output:
  OPEN_DISPLAY   - open a linked display (reported as an event)
  WRITE_PV       - write a value to a PV
  EXECUTE_CMD    - run a command (reported as an event)
  PLAY_SOUND     - play a sound (reported as an event)
  ...

Unlike 'click', this does NOT go through the hit regions, so it works for
widgets that are hidden, disabled, or covered by another widget.`,
	Args: cobra.ExactArgs(1),
	RunE: runAction,
}

func init() {
	rootCmd.AddCommand(actionCmd)
	actionCmd.Flags().String("wuid", "", "Widget wuid (required)")
	actionCmd.Flags().Int("index", 0, "Action index (default: 0)")
}

func runAction(cmd *cobra.Command, args []string) error {
	wuid, _ := cmd.Flags().GetString("wuid")
	index, _ := cmd.Flags().GetInt("index")
	if wuid == "" {
		return fmt.Errorf("--wuid is required")
	}

	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.Execute(wuid, index)
	if err != nil {
		return err
	}
	return output.Print(result)
}
