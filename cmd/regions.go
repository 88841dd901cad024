package cmd

import (
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/session"
	"github.com/spf13/cobra"
)

var regionsCmd = &cobra.Command{
	Use:   "regions FILE",
	Short: "Render a display with click coordinates labelled",
	Long: `Render the display and annotate it with a bounding box and the click-point
coordinates of every clickable widget, so a vision model can pick a target
and pass the coordinates to click --x/--y.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegions,
}

func init() {
	rootCmd.AddCommand(regionsCmd)
	addImageFlags(regionsCmd)
	regionsCmd.Flags().Bool("all-elements", false, "Label all widgets (default: clickable widgets only)")
	regionsCmd.Flags().String("roles", "", "Comma-separated roles to include (e.g. \"btn,led\")")
	regionsCmd.Flags().String("text", "", "Only label widgets whose wuid, name or value contains this text")
	regionsCmd.Flags().Bool("wuids", false, "Label with wuids instead of coordinates")
}

func runRegions(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	all, _ := cmd.Flags().GetBool("all-elements")
	roles, _ := cmd.Flags().GetString("roles")
	text, _ := cmd.Flags().GetString("text")
	wuids, _ := cmd.Flags().GetBool("wuids")

	elements := model.PruneHidden(sess.Snapshot())
	if roles != "" || text != "" {
		elements = model.FilterByText(model.FilterElements(elements, session.SplitRoles(roles), nil), text)
		all = true
	}
	mode := session.LabelCoords
	if wuids {
		mode = session.LabelWUIDs
	}
	return writeImage(cmd, session.Annotate(sess.Viewer.Image(), elements, mode, all))
}
