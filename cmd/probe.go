package cmd

import (
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe FILE",
	Short: "Report what is under a point without dispatching input",
	Long: `Look up the hit region and widget under a point (or at a widget's click
point) without firing any pointer events.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	addTargetFlags(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	target, err := targetFromFlags(cmd)
	if err != nil {
		return err
	}
	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	result, err := sess.Probe(target)
	if err != nil {
		return err
	}
	return output.Print(result)
}
