package cmd

import (
	"fmt"
	"os"

	goerrors "github.com/go-errors/errors"
	"github.com/mj1618/opi-cli/internal/config"
	"github.com/mj1618/opi-cli/internal/output"
	"github.com/mj1618/opi-cli/internal/version"
	"github.com/spf13/cobra"
)

// cfg is the environment configuration, loaded before every command runs.
var cfg = config.Defaults()

var rootCmd = &cobra.Command{
	Use:   "opi-cli",
	Short: "Render and drive BOY operator-interface displays",
	Long: `A CLI tool that loads .opi display files headlessly, renders them to PNG,
reports the widget tree, and dispatches pointer input through the display's
hit regions so agents can operate a control-system screen without a GUI.`,
	SilenceUsage: true,
}

// Execute runs the root command. A panic inside a command is reported
// with its stack and exit code 2.
func Execute() {
	defer func() {
		if r := recover(); r != nil {
			err := goerrors.Wrap(r, 2)
			fmt.Fprintln(os.Stderr, err.ErrorStack())
			os.Exit(2)
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides OPI_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("env-file", "", "Load settings from this .env file (default: ./.env when present)")
	rootCmd.PersistentFlags().StringSlice("macro", nil, "Display macro as NAME=VALUE (repeatable)")
	rootCmd.PersistentFlags().Bool("tolerant", false, "Use perturbation-tolerant hit keys")
	rootCmd.PersistentFlags().Uint64("seed", 0, "Seed for hit key allocation (0 = random)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Read the root persistent flags directly so a subcommand's local
		// flag of the same name cannot shadow them.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")

		var files []string
		if envFile, _ := rootCmd.PersistentFlags().GetString("env-file"); envFile != "" {
			files = append(files, envFile)
		}
		if cfg, err = config.Load(files...); err != nil {
			return err
		}
		if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}
		if tolerant, _ := rootCmd.PersistentFlags().GetBool("tolerant"); tolerant {
			cfg.Tolerant = true
		}
		return cfg.ConfigureLogging()
	}
}
