package cmd

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"os"

	"github.com/mj1618/opi-cli/internal/session"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render a display to an image",
	Long: `Load a display, wait for its images and linked displays to load, and write
the rendered frame as PNG (or JPEG). Without --output the image is written to
stdout as base64.

--hit writes the hit-region key surface instead: every interactive region is
painted in its own key color, which is useful for debugging pointer dispatch.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	addImageFlags(renderCmd)
	renderCmd.Flags().Bool("annotate", false, "Outline clickable widgets and label them with their wuid")
	renderCmd.Flags().Bool("hit", false, "Render the hit-region key surface")
}

// addImageFlags registers the flags shared by commands that write images.
func addImageFlags(cmd *cobra.Command) {
	cmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	cmd.Flags().String("image-format", "png", "Image format: png, jpg")
	cmd.Flags().Int("quality", 80, "JPEG quality 1-100")
	cmd.Flags().Float64("scale", 1, "Scale factor 0.1-1.0")
}

func runRender(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd.Context(), args)
	if err != nil {
		return err
	}
	defer sess.Close()

	annotate, _ := cmd.Flags().GetBool("annotate")
	hitKeys, _ := cmd.Flags().GetBool("hit")

	var img image.Image = sess.Viewer.Image()
	switch {
	case hitKeys:
		img = sess.Viewer.Hit().Image()
	case annotate:
		img = session.Annotate(img, sess.Snapshot(), session.LabelWUIDs, false)
	}
	return writeImage(cmd, img)
}

// writeImage encodes img per the image flags to --output or to stdout as
// base64.
func writeImage(cmd *cobra.Command, img image.Image) error {
	outPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("image-format")
	quality, _ := cmd.Flags().GetInt("quality")
	scale, _ := cmd.Flags().GetFloat64("scale")

	var buf bytes.Buffer
	if err := session.EncodeImage(&buf, img, session.ImageOptions{Format: format, Quality: quality, Scale: scale}); err != nil {
		return err
	}
	if outPath != "" {
		return os.WriteFile(outPath, buf.Bytes(), 0644)
	}

	encoder := base64.NewEncoder(base64.StdEncoding, cmd.OutOrStdout())
	if _, err := encoder.Write(buf.Bytes()); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
