package cmd

import (
	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click FILE",
	Short: "Click a widget or a point",
	Long: `Click a widget (by wuid or text) or a display point. The click goes through
the display's hit regions exactly as a pointer would: move, press, release,
click. The result names the region hit and the events the display fired
(opened displays, commands, dialogs, PV writes...).`,
	Args: cobra.ExactArgs(1),
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	addTargetFlags(clickCmd)
	clickCmd.Flags().String("button", "left", "Mouse button: left, right, middle")
}

func runClick(cmd *cobra.Command, args []string) error {
	target, err := targetFromFlags(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("button")
	button, err := host.ParseMouseButton(name)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.Click(target, button)
	if err != nil {
		return err
	}
	return output.Print(result)
}
