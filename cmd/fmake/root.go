// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fmake/internal/config"
	"fmake/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	// verbose enables debug-level output.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string
}

// newRootCommand creates the fmake command tree.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "fmake",
		Short: "A dependency-ordering build tool for Fortran and C",
		Long: TitleStyle.Render("fmake") + SubtitleStyle.Render(" - A dependency-ordering build tool for Fortran and C") + `

fmake scans a directory of Fortran (.f, .f90, .for, .fpp) and C/C++
(.c, .cpp) sources, derives a compile order in which every Fortran
module is compiled before its first use, and drives the selected
toolchain (gfortran/ifort, gcc/clang/cl) through compile and link.

The order is deterministic: discovery order breaks all ties, so the
same tree always builds the same way. Duplicate module definitions
and dependency cycles degrade to warnings, never to a refusal to
build.

` + SubtitleStyle.Render("Examples:") + `
  fmake build ./src myprog        Compile and link ./src into myprog
  fmake build --dry-run ./src p   Print the commands without running them
  fmake order ./src               Print the compile order only
  fmake makefile ./src myprog     Emit a makefile instead of compiling
  fmake config show               Show current configuration`,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (default is $HOME/.config/fmake/config.toml)")

	rootCmd.AddCommand(newBuildCommand(app, flags))
	rootCmd.AddCommand(newOrderCommand(app, flags))
	rootCmd.AddCommand(newMakefileCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the command tree.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	app := NewApp(Dependencies{})

	// Use fang.Execute for enhanced Cobra styling.
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// loadConfig reads the configuration honoring the --config flag, falling
// back to defaults (with a warning) when loading fails.
func loadConfig(ctx context.Context, app *App, flags *rootFlags) *config.Config {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.cfgFile})
	if err != nil {
		fmt.Fprintln(app.Stderr(), WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		return config.DefaultConfig()
	}
	return cfg
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
