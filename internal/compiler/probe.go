// SPDX-License-Identifier: MPL-2.0

package compiler

import (
	"os/exec"
	"strings"
)

// Available reports whether the named compiler executable can be found on
// the PATH.
func Available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// HasFlag reports whether the installed compiler documents the given flag.
// The check runs `<fc> --help -v` and scans the output; any failure to run
// the compiler is treated as "flag not available" so flag assembly can
// proceed conservatively.
func HasFlag(fc, flag string) bool {
	out, err := exec.Command(fc, "--help", "-v").CombinedOutput()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(out)), strings.ToLower(flag))
}
