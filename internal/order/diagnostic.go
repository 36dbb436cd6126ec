// SPDX-License-Identifier: MPL-2.0

package order

const (
	// SeverityWarning indicates a recoverable ordering warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal ordering error diagnostic.
	SeverityError Severity = "error"
)

const (
	// CodeUnreadableSource flags a file that could not be read; the unit is
	// treated as providing and requiring nothing.
	CodeUnreadableSource = "unreadable_source"
	// CodeDefinitionConflict flags two units defining the same module name;
	// the first-discovered binding wins.
	CodeDefinitionConflict = "definition_conflict"
	// CodeCyclicDependency flags a group of mutually dependent units that
	// was collapsed into a single ordering block.
	CodeCyclicDependency = "cyclic_dependency"
)

type (
	// Severity represents ordering diagnostic severity.
	Severity string

	// Diagnostic represents a structured ordering diagnostic that is
	// returned to callers (rather than logged) so the CLI layer owns all
	// rendering policy. Nothing the orderer reports is fatal: it always
	// produces a best-effort deterministic order alongside these.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "definition_conflict").
		Code string
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)
