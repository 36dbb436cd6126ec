// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"fmake/internal/config"
	"fmake/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `fmake config` command tree.
// Subcommands that read configuration use the App's config provider.
func newConfigCommand(app *App, root *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage fmake configuration",
		Long: `Manage fmake configuration.

Configuration is stored in:
  - Linux: ~/.config/fmake/config.toml
  - macOS: ~/Library/Application Support/fmake/config.toml
  - Windows: %APPDATA%\fmake\config.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app, root)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, root *rootFlags) error {
	cfg, resolved, err := config.LoadResolved(ctx, config.LoadOptions{ConfigFilePath: root.cfgFile})
	if err != nil {
		renderIssue(app.Stderr(), issue.ConfigLoadFailedId)
		return err
	}

	fmt.Fprintln(app.Stdout(), TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.Stdout())

	if resolved != "" {
		fmt.Fprintf(app.Stdout(), "%s: %s\n", CmdStyle.Render("Config file"), resolved)
	} else {
		fmt.Fprintf(app.Stdout(), "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.Stdout())

	fmt.Fprintf(app.Stdout(), "%s: %s\n", CmdStyle.Render("fortran_compiler"), SuccessStyle.Render(string(cfg.FortranCompiler)))
	fmt.Fprintf(app.Stdout(), "%s: %s\n", CmdStyle.Render("c_compiler"), SuccessStyle.Render(string(cfg.CCompiler)))
	fmt.Fprintf(app.Stdout(), "%s: %s\n", CmdStyle.Render("arch"), SuccessStyle.Render(string(cfg.Arch)))
	fmt.Fprintf(app.Stdout(), "%s: %s\n", CmdStyle.Render("ui.color_scheme"), SuccessStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(app.Stdout(), "%s: %v\n", CmdStyle.Render("ui.verbose"), cfg.UI.Verbose)

	return nil
}

func initConfig(app *App) error {
	if err := config.CreateDefaultConfig(); err != nil {
		renderIssue(app.Stderr(), issue.ConfigLoadFailedId)
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	fmt.Fprintln(app.Stdout(), SuccessStyle.Render("wrote ")+CmdStyle.Render(cfgPath))
	return nil
}

func showConfigPath(app *App) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(cfgPath); statErr != nil {
		fmt.Fprintln(app.Stdout(), cfgPath+" "+SubtitleStyle.Render("(not created yet; run 'fmake config init')"))
		return nil
	}
	fmt.Fprintln(app.Stdout(), cfgPath)
	return nil
}
