// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"

	"fmake/internal/order"
)

// renderDiagnostics writes ordering diagnostics in the warning/error styles.
// The ordering engine returns diagnostics instead of logging so this is the
// single place rendering policy lives.
func renderDiagnostics(w io.Writer, diags []order.Diagnostic) {
	for _, d := range diags {
		label := WarningStyle.Render("Warning: ")
		if d.Severity == order.SeverityError {
			label = ErrorStyle.Render("Error: ")
		}
		fmt.Fprintln(w, label+d.Message)
	}
}
