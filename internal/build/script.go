// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"fmake/internal/compiler"
	"fmake/pkg/types"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Script renders the compile-and-link sequence as a standalone shell
// script. The script is parsed before being returned, so a quoting problem
// in a path or flag surfaces here rather than at execution time.
func Script(tc *compiler.Toolchain, ws *Workspace, srcfiles []string, target string) (string, error) {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	b.WriteString("# generated by fmake; compile order is dependency-resolved, do not reorder\n")
	b.WriteString("set -e\n\n")
	for _, cmd := range Commands(tc, ws, srcfiles, target) {
		if cmd.IsLink() {
			b.WriteString("\n")
		} else {
			fmt.Fprintf(&b, "echo %s\n", quoteArg(cmd.Source))
		}
		b.WriteString(quoteCommand(cmd.Args))
		b.WriteString("\n")
	}

	script := b.String()
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "build.sh"); err != nil {
		return "", fmt.Errorf("generated script failed to parse: %w", err)
	}
	return script, nil
}

// RunScript executes a generated build script in the embedded shell
// interpreter, so script-mode builds behave identically on platforms
// without a POSIX /bin/sh.
func RunScript(ctx context.Context, script, dir string, stdout, stderr io.Writer) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "build.sh")
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to parse build script: %w", err)}
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return &Result{ExitCode: 1, Error: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &Result{ExitCode: types.ExitCode(status), Error: fmt.Errorf("build script failed: %w", err)}
		}
		return &Result{ExitCode: 1, Error: fmt.Errorf("build script failed: %w", err)}
	}
	return &Result{}
}

// quoteCommand renders an argument vector as one shell line.
func quoteCommand(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		quoted[i] = quoteArg(arg)
	}
	return strings.Join(quoted, " ")
}

// quoteArg single-quotes an argument when it contains shell metacharacters.
func quoteArg(arg string) string {
	if arg != "" && !strings.ContainsAny(arg, " \t'\"\\$&|;<>()*?[]#~`") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}
