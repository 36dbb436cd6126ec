// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"fmake/internal/compiler"
	"fmake/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// Driver runs the compile-and-link sequence with the system toolchain.
	Driver struct {
		// Toolchain supplies compilers and flags.
		Toolchain *compiler.Toolchain
		// Workspace supplies the staged source and output directories.
		Workspace *Workspace
		// Expedite skips units whose object file is newer than the source.
		Expedite bool
		// DryRun prints commands without executing anything.
		DryRun bool
		// Logger receives build progress. Defaults to stderr.
		Logger *log.Logger
		// Stdout receives the echoed command lines. Defaults to os.Stdout.
		Stdout io.Writer
	}

	// Result is the outcome of a driver run.
	Result struct {
		// ExitCode is the process exit status of the failing step, or 0.
		ExitCode types.ExitCode
		// Objects lists the object files of all units, including ones
		// skipped by expedite mode; the link step consumes this list.
		Objects []string
		// LinkFailed reports whether the failing step was the final link
		// rather than a compile.
		LinkFailed bool
		// Error describes the failure, including captured compiler output.
		Error error
	}
)

// logger returns the configured logger or a stderr default.
func (d *Driver) logger() *log.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: "build"})
}

// stdout returns the configured command echo writer or os.Stdout.
func (d *Driver) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}

// Run compiles every source file in order and links the target. The source
// list must already be in dependency order; the driver trusts it blindly.
// The first failing step stops the run and its captured output is attached
// to the returned error.
func (d *Driver) Run(ctx context.Context, srcfiles []string, target string) *Result {
	logger := d.logger()
	result := &Result{}

	cmds := Commands(d.Toolchain, d.Workspace, srcfiles, target)
	for _, cmd := range cmds {
		if cmd.IsLink() {
			logger.Info("linking", "target", target, "objects", len(result.Objects))
		} else {
			result.Objects = append(result.Objects, cmd.Object)
			if d.Expedite && !OutOfDate(cmd.Source, cmd.Object) {
				logger.Debug("up to date", "source", cmd.Source)
				continue
			}
		}

		fmt.Fprintln(d.stdout(), cmd.String())
		if d.DryRun {
			continue
		}
		if err := runCommand(ctx, cmd); err != nil {
			result.ExitCode = exitCodeOf(err)
			result.LinkFailed = cmd.IsLink()
			result.Error = err
			return result
		}
	}

	return result
}

// runCommand executes one toolchain invocation, folding captured output
// into the error on failure.
func runCommand(ctx context.Context, cmd Command) error {
	proc := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...)
	out, err := proc.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\n%s", cmd.String(), err, out)
	}
	return nil
}

// exitCodeOf extracts the process exit status from a command error,
// defaulting to 1 for errors that never produced a status.
func exitCodeOf(err error) types.ExitCode {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return types.ExitCode(exitErr.ExitCode())
	}
	return 1
}
