// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"fmake/internal/discovery"
	"fmake/internal/issue"
	"fmake/internal/order"

	"github.com/spf13/cobra"
)

// newOrderCommand creates the `fmake order` command, which prints the
// compile order without touching the toolchain or the filesystem beyond
// reading sources.
func newOrderCommand(app *App, root *rootFlags) *cobra.Command {
	var subdirs bool

	orderCmd := &cobra.Command{
		Use:   "order SRCDIR",
		Short: "Print the dependency-resolved compile order",
		Long: `Print the dependency-resolved compile order for a source directory.

Fortran sources come first, ordered so every module is compiled before
its first use; C/C++ sources follow in discovery order. Duplicate
module definitions and dependency cycles are reported as warnings on
stderr while the order is still printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrder(cmd.Context(), app, args[0], subdirs)
		},
	}

	orderCmd.Flags().BoolVar(&subdirs, "subdirs", false, "include sources in subdirectories of SRCDIR")

	return orderCmd
}

func runOrder(_ context.Context, app *App, srcdir string, subdirs bool) error {
	walker := &discovery.Walker{IncludeSubdirs: subdirs}
	set, err := walker.Walk(srcdir)
	if err != nil {
		renderIssue(app.Stderr(), issue.SourceDirNotFoundId)
		return err
	}
	if set.IsEmpty() {
		renderIssue(app.Stderr(), issue.NoSourceFilesId)
		return fmt.Errorf("no Fortran or C/C++ sources in %s", srcdir)
	}

	res := order.Files(set.Fortran, set.C)
	renderDiagnostics(app.Stderr(), res.Diagnostics)

	for _, path := range res.Ordered {
		fmt.Fprintln(app.Stdout(), path)
	}
	return nil
}
