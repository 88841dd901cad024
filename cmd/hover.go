package cmd

import (
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/spf13/cobra"
)

var hoverCmd = &cobra.Command{
	Use:   "hover FILE",
	Short: "Move the pointer onto a widget or a point",
	Long:  "Move the pointer onto a widget or point, firing mouse-enter and mouse-move on the region under it, and report the region and cursor.",
	Args:  cobra.ExactArgs(1),
	RunE:  runHover,
}

func init() {
	rootCmd.AddCommand(hoverCmd)
	addTargetFlags(hoverCmd)
}

func runHover(cmd *cobra.Command, args []string) error {
	target, err := targetFromFlags(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.Hover(target)
	if err != nil {
		return err
	}
	return output.Print(result)
}
