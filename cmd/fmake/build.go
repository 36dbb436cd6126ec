// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fmake/internal/build"
	"fmake/internal/compiler"
	"fmake/internal/config"
	"fmake/internal/discovery"
	"fmake/internal/issue"
	"fmake/internal/makefile"
	"fmake/internal/order"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// buildScriptName is the file the --script mode writes before executing it.
const buildScriptName = "makebuild.sh"

// buildFlags holds the `fmake build` flag values. Compiler selections left
// empty fall back to the config file defaults.
type buildFlags struct {
	fc        string
	cc        string
	arch      string
	makeclean bool
	double    bool
	debug     bool
	expedite  bool
	dryRun    bool
	subdirs   bool
	fflags    string
	makefile  bool
	commonsrc string
	script    bool
}

// newBuildCommand creates the `fmake build` command.
func newBuildCommand(app *App, root *rootFlags) *cobra.Command {
	flags := &buildFlags{}

	buildCmd := &cobra.Command{
		Use:   "build SRCDIR TARGET",
		Short: "Compile and link a source directory into an executable",
		Long: `Compile and link a source directory into an executable.

Sources are staged into src_temp, ordered so every Fortran module is
compiled before its first use, compiled into obj_temp/mod_temp, and
linked into TARGET. C/C++ sources are appended after the Fortran
sources in discovery order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), app, root, flags, args[0], args[1])
		},
	}

	buildCmd.Flags().StringVar(&flags.fc, "fc", "", "Fortran compiler (gfortran or ifort)")
	buildCmd.Flags().StringVar(&flags.cc, "cc", "", "C/C++ compiler (gcc, clang or cl)")
	buildCmd.Flags().StringVar(&flags.arch, "arch", "", "ifort target architecture (ia32, ia32_intel64, intel64)")
	buildCmd.Flags().BoolVar(&flags.makeclean, "makeclean", false, "remove the temporary build directories afterwards")
	buildCmd.Flags().BoolVar(&flags.double, "double", false, "force 8-byte default reals")
	buildCmd.Flags().BoolVar(&flags.debug, "debug", false, "build a debug binary instead of an optimized one")
	buildCmd.Flags().BoolVar(&flags.expedite, "expedite", false, "skip units whose object file is newer than the source")
	buildCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the commands without executing anything")
	buildCmd.Flags().BoolVar(&flags.subdirs, "subdirs", false, "include sources in subdirectories of SRCDIR")
	buildCmd.Flags().StringVar(&flags.fflags, "fflags", "", "extra Fortran compiler flags, space separated")
	buildCmd.Flags().BoolVar(&flags.makefile, "makefile", false, "also write a makefile for the ordered sources")
	buildCmd.Flags().StringVar(&flags.commonsrc, "commonsrc", "", "additional source directory staged alongside SRCDIR")
	buildCmd.Flags().BoolVar(&flags.script, "script", false, "emit a build script and run it in the embedded shell")

	return buildCmd
}

// runBuild is the full pipeline: stage, order, select toolchain, compile,
// link, optionally emit a makefile, optionally clean up.
func runBuild(ctx context.Context, app *App, root *rootFlags, flags *buildFlags, srcdir, target string) error {
	cfg := loadConfig(ctx, app, root)

	tc, err := selectToolchain(cfg, flags)
	if err != nil {
		renderIssue(app.Stderr(), issue.UnsupportedCompilerId)
		return err
	}
	if !flags.dryRun && !compiler.Available(tc.FC) {
		renderIssue(app.Stderr(), issue.CompilerNotFoundId)
		return fmt.Errorf("compiler %s not found on PATH", tc.FC)
	}

	// Fail on an empty or missing source tree before staging anything.
	walker := &discovery.Walker{IncludeSubdirs: flags.subdirs}
	set, err := walker.Walk(srcdir)
	if err != nil {
		renderIssue(app.Stderr(), issue.SourceDirNotFoundId)
		return err
	}
	if set.IsEmpty() {
		renderIssue(app.Stderr(), issue.NoSourceFilesId)
		return fmt.Errorf("no Fortran or C/C++ sources in %s", srcdir)
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			renderIssue(app.Stderr(), issue.PermissionDeniedId)
			return fmt.Errorf("failed to create target directory: %w", err)
		}
	}

	ws, err := build.Stage(".", srcdir, target, flags.commonsrc)
	if err != nil {
		renderIssue(app.Stderr(), issue.PermissionDeniedId)
		return issue.WrapWithContext(err, "stage sources", srcdir)
	}
	if _, err := build.RewriteOpenSpec(ws.SrcDir); err != nil {
		return issue.WrapWithContext(err, "rewrite openspec include", ws.SrcDir)
	}

	// Order the staged copies; those are the paths the compiler sees.
	// The common source directory is staged as a subdirectory, so it
	// forces a recursive walk.
	stagedWalker := &discovery.Walker{IncludeSubdirs: flags.subdirs || flags.commonsrc != ""}
	staged, err := stagedWalker.Walk(ws.SrcDir)
	if err != nil {
		return err
	}
	res := order.Files(staged.Fortran, staged.C)
	renderDiagnostics(app.Stderr(), res.Diagnostics)

	// iso_c_binding changes the C flags, so the toolchain is reassembled
	// now that the sources have been scanned.
	tc, err = selectToolchain(cfg, flags, withISOCBinding(res.UsesISOCBinding))
	if err != nil {
		return err
	}

	if flags.makefile {
		if err := writeMakefile(ws, tc, res.Ordered, target); err != nil {
			return issue.WrapWithOperation(err, "write makefile")
		}
		fmt.Fprintln(app.Stdout(), SuccessStyle.Render("wrote makefile"))
	}

	result := runToolchain(ctx, app, root, flags, tc, ws, res.Ordered, target)
	if result.Error != nil {
		if result.LinkFailed {
			renderIssue(app.Stderr(), issue.LinkFailedId)
		} else {
			renderIssue(app.Stderr(), issue.CompileFailedId)
		}
		return &ExitError{Code: result.ExitCode, Err: result.Error}
	}

	if flags.makeclean {
		if err := ws.Clean(tc.ObjExt); err != nil {
			return issue.WrapWithOperation(err, "clean build workspace")
		}
	}

	if !flags.dryRun {
		fmt.Fprintln(app.Stdout(), SuccessStyle.Render("built ")+CmdStyle.Render(target))
	}
	return nil
}

// runToolchain executes the compile-and-link sequence either directly or
// through a generated shell script.
func runToolchain(ctx context.Context, app *App, root *rootFlags, flags *buildFlags,
	tc *compiler.Toolchain, ws *build.Workspace, srcfiles []string, target string,
) *build.Result {
	if flags.script {
		script, err := build.Script(tc, ws, srcfiles, target)
		if err != nil {
			return &build.Result{ExitCode: 1, Error: err}
		}
		if err := os.WriteFile(buildScriptName, []byte(script), 0o755); err != nil {
			return &build.Result{ExitCode: 1, Error: err}
		}
		if flags.dryRun {
			fmt.Fprint(app.Stdout(), script)
			return &build.Result{}
		}
		return build.RunScript(ctx, script, ".", app.Stdout(), app.Stderr())
	}

	driver := &build.Driver{
		Toolchain: tc,
		Workspace: ws,
		Expedite:  flags.expedite,
		DryRun:    flags.dryRun,
		Logger:    buildLogger(app.Stderr(), root.verbose),
		Stdout:    app.Stdout(),
	}
	return driver.Run(ctx, srcfiles, target)
}

// writeMakefile renders and writes a makefile next to the build.
func writeMakefile(ws *build.Workspace, tc *compiler.Toolchain, srcfiles []string, target string) error {
	dirs, err := makefile.SourceDirs(ws.SrcDir, "")
	if err != nil {
		return err
	}
	objects := make([]string, 0, len(srcfiles))
	for _, srcfile := range srcfiles {
		objects = append(objects, ws.ObjectPath(srcfile, tc.ObjExt))
	}
	content := makefile.Render(makefile.Input{
		Target:     target,
		ObjDir:     ws.ObjDir,
		SourceDirs: dirs,
		Objects:    objects,
		Toolchain:  tc,
	})
	return os.WriteFile("makefile", []byte(content), 0o644)
}

// toolchainOption tweaks the assembled compiler options.
type toolchainOption func(*compiler.Options)

// withISOCBinding records the scanned iso_c_binding fact.
func withISOCBinding(uses bool) toolchainOption {
	return func(o *compiler.Options) { o.UsesISOCBinding = uses }
}

// selectToolchain merges config defaults with command-line overrides and
// assembles the toolchain. Flags win over the config file.
func selectToolchain(cfg *config.Config, flags *buildFlags, opts ...toolchainOption) (*compiler.Toolchain, error) {
	options := compiler.Options{
		Fortran:         cfg.FortranCompiler,
		C:               cfg.CCompiler,
		Arch:            cfg.Arch,
		Debug:           flags.debug,
		DoublePrecision: flags.double,
		ExtraFFlags:     strings.Fields(flags.fflags),
	}
	if flags.fc != "" {
		options.Fortran = compiler.FortranCompiler(flags.fc)
	}
	if flags.cc != "" {
		options.C = compiler.CCompiler(flags.cc)
	}
	if flags.arch != "" {
		options.Arch = compiler.Arch(flags.arch)
	}
	for _, opt := range opts {
		opt(&options)
	}
	return compiler.Select(options)
}

// buildLogger builds the progress logger for the driver.
func buildLogger(w io.Writer, verbose bool) *log.Logger {
	opts := log.Options{Prefix: "fmake"}
	if verbose {
		opts.Level = log.DebugLevel
	}
	return log.NewWithOptions(w, opts)
}

// renderIssue writes the styled issue card for a fatal condition.
func renderIssue(w io.Writer, id issue.Id) {
	card, err := issue.Get(id).Render("dark")
	if err != nil {
		return
	}
	fmt.Fprint(w, card)
}
