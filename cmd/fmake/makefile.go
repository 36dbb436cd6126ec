// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fmake/internal/discovery"
	"fmake/internal/issue"
	"fmake/internal/makefile"
	"fmake/internal/order"

	"github.com/spf13/cobra"
)

// makefileFlags holds the `fmake makefile` flag values.
type makefileFlags struct {
	fc        string
	cc        string
	arch      string
	double    bool
	debug     bool
	subdirs   bool
	fflags    string
	commonsrc string
	output    string
}

// newMakefileCommand creates the `fmake makefile` command, which emits a
// makefile for the ordered sources without compiling anything.
func newMakefileCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &makefileFlags{}

	mkCmd := &cobra.Command{
		Use:   "makefile SRCDIR TARGET",
		Short: "Write a makefile for the dependency-resolved compile order",
		Long: `Write a makefile for the dependency-resolved compile order.

The makefile compiles objects into obj_temp and links TARGET, with the
source directories on VPATH. Nothing is compiled by this command; run
make afterwards.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMakefile(cmd.Context(), app, root, flags, args[0], args[1])
		},
	}

	mkCmd.Flags().StringVar(&flags.fc, "fc", "", "Fortran compiler (gfortran or ifort)")
	mkCmd.Flags().StringVar(&flags.cc, "cc", "", "C/C++ compiler (gcc, clang or cl)")
	mkCmd.Flags().StringVar(&flags.arch, "arch", "", "ifort target architecture (ia32, ia32_intel64, intel64)")
	mkCmd.Flags().BoolVar(&flags.double, "double", false, "force 8-byte default reals")
	mkCmd.Flags().BoolVar(&flags.debug, "debug", false, "use debug flags instead of optimized ones")
	mkCmd.Flags().BoolVar(&flags.subdirs, "subdirs", false, "include sources in subdirectories of SRCDIR")
	mkCmd.Flags().StringVar(&flags.fflags, "fflags", "", "extra Fortran compiler flags, space separated")
	mkCmd.Flags().StringVar(&flags.commonsrc, "commonsrc", "", "additional source directory added to VPATH")
	mkCmd.Flags().StringVar(&flags.output, "output", "makefile", "path of the makefile to write")

	return mkCmd
}

func runMakefile(ctx context.Context, app *App, root *rootFlags, flags *makefileFlags, srcdir, target string) error {
	cfg := loadConfig(ctx, app, root)

	walker := &discovery.Walker{IncludeSubdirs: flags.subdirs}
	set, err := walker.Walk(srcdir)
	if err != nil {
		renderIssue(app.Stderr(), issue.SourceDirNotFoundId)
		return err
	}
	if flags.commonsrc != "" {
		common, err := walker.Walk(flags.commonsrc)
		if err != nil {
			renderIssue(app.Stderr(), issue.SourceDirNotFoundId)
			return err
		}
		set.Fortran = append(set.Fortran, common.Fortran...)
		set.C = append(set.C, common.C...)
	}
	if set.IsEmpty() {
		renderIssue(app.Stderr(), issue.NoSourceFilesId)
		return fmt.Errorf("no Fortran or C/C++ sources in %s", srcdir)
	}

	res := order.Files(set.Fortran, set.C)
	renderDiagnostics(app.Stderr(), res.Diagnostics)

	tc, err := selectToolchain(cfg, &buildFlags{
		fc:     flags.fc,
		cc:     flags.cc,
		arch:   flags.arch,
		double: flags.double,
		debug:  flags.debug,
		fflags: flags.fflags,
	}, withISOCBinding(res.UsesISOCBinding))
	if err != nil {
		renderIssue(app.Stderr(), issue.UnsupportedCompilerId)
		return err
	}

	dirs, err := makefile.SourceDirs(srcdir, flags.commonsrc)
	if err != nil {
		return err
	}
	objDir := "obj_temp"
	objects := make([]string, 0, len(res.Ordered))
	for _, srcfile := range res.Ordered {
		base := filepath.Base(srcfile)
		name := base[:len(base)-len(filepath.Ext(base))]
		objects = append(objects, filepath.Join(objDir, name+tc.ObjExt))
	}

	content := makefile.Render(makefile.Input{
		Target:     target,
		ObjDir:     objDir,
		SourceDirs: dirs,
		Objects:    objects,
		Toolchain:  tc,
	})
	if err := os.WriteFile(flags.output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write makefile: %w", err)
	}

	fmt.Fprintln(app.Stdout(), SuccessStyle.Render("wrote ")+CmdStyle.Render(flags.output))
	return nil
}
