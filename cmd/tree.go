package cmd

import (
	"time"

	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/model"
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/mj1618/opi-cli/internal/server"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree FILE",
	Short: "Read the widget tree of a display",
	Long: `Load a display and print its widget tree: wuid, role, kind, name, value,
display-coordinate bounds, state flags and actions of every widget.

Roles: btn, txt, led, img, shape, group, embed, other.
Meta-roles: interactive (btn, led, txt), container (group, embed).`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
	treeCmd.Flags().String("roles", "", "Comma-separated roles to include (e.g. \"btn,led\")")
	treeCmd.Flags().String("text", "", "Keep widgets whose wuid, name or value contains this text")
	treeCmd.Flags().String("bbox", "", "Only include widgets within bounding box (x,y,w,h)")
	treeCmd.Flags().Bool("visible-only", false, "Drop hidden widgets")
	treeCmd.Flags().Bool("flat", false, "Flatten the tree into a list with path breadcrumbs")
}

func runTree(cmd *cobra.Command, args []string) error {
	roles, _ := cmd.Flags().GetString("roles")
	text, _ := cmd.Flags().GetString("text")
	bboxStr, _ := cmd.Flags().GetString("bbox")
	visibleOnly, _ := cmd.Flags().GetBool("visible-only")
	flat, _ := cmd.Flags().GetBool("flat")

	var bbox *[4]int
	if bboxStr != "" {
		b, err := host.ParseBBox(bboxStr)
		if err != nil {
			return err
		}
		arr := b.Array()
		bbox = &arr
	}

	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	elements := server.FilterTree(sess.Snapshot(), roles, text, visibleOnly)
	elements = model.FilterElements(elements, nil, bbox)

	name, size := sess.Name()
	ts := time.Now().Unix()
	if flat {
		return output.Print(output.TreeFlatResult{
			File: sess.File, Display: name, Size: size, TS: ts,
			Elements: model.FlattenElements(elements),
		})
	}
	return output.Print(output.TreeResult{
		File: sess.File, Display: name, Size: size, TS: ts,
		Elements: elements,
	})
}
