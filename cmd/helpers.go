package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/opi-cli/internal/host"
	"github.com/mj1618/opi-cli/internal/session"
	"github.com/spf13/cobra"
)

// sessionOptions builds session options from the loaded configuration and
// the root macro and seed flags.
func sessionOptions() (session.Options, error) {
	pairs, _ := rootCmd.PersistentFlags().GetStringSlice("macro")
	macros, err := host.ParseMacros(pairs)
	if err != nil {
		return session.Options{}, err
	}
	seed, _ := rootCmd.PersistentFlags().GetUint64("seed")
	return session.Options{Config: cfg, Macros: macros, Seed: seed}, nil
}

// openSession loads the display named by the single positional argument.
func openSession(ctx context.Context, args []string) (*session.Session, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected exactly one display file argument")
	}
	opts, err := sessionOptions()
	if err != nil {
		return nil, err
	}
	return session.Open(ctx, args[0], opts)
}

// addTargetFlags registers the flags shared by commands that aim at a
// widget or a point.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("wuid", "", "Target widget by wuid")
	cmd.Flags().String("text", "", "Target widget by wuid, name or displayed text (case-insensitive substring)")
	cmd.Flags().String("roles", "", "Filter text targeting by role (e.g. \"btn\", \"btn,led\")")
	cmd.Flags().Bool("exact", false, "Require exact text match instead of substring")
	cmd.Flags().Int("x", 0, "Target X coordinate in display pixels")
	cmd.Flags().Int("y", 0, "Target Y coordinate in display pixels")
	cmd.Flags().String("at", "", "Target point as x,y (same as --x/--y)")
}

// targetFromFlags reads the target flags. A point is used only when --x,
// --y or --at was given.
func targetFromFlags(cmd *cobra.Command) (session.Target, error) {
	var t session.Target
	t.WUID, _ = cmd.Flags().GetString("wuid")
	t.Text, _ = cmd.Flags().GetString("text")
	t.Roles, _ = cmd.Flags().GetString("roles")
	t.Exact, _ = cmd.Flags().GetBool("exact")
	t.X, _ = cmd.Flags().GetInt("x")
	t.Y, _ = cmd.Flags().GetInt("y")
	t.Point = cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
	if at, _ := cmd.Flags().GetString("at"); at != "" {
		x, y, err := host.ParsePoint(at)
		if err != nil {
			return t, err
		}
		t.X, t.Y, t.Point = x, y, true
	}
	if t.WUID == "" && t.Text == "" && !t.Point {
		return t, fmt.Errorf("specify --wuid, --text, or --x/--y")
	}
	return t, nil
}
