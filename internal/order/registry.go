// SPDX-License-Identifier: MPL-2.0

package order

import "fmt"

type (
	// Registry maps each module name to its single defining unit. It is an
	// explicit object passed through the ordering pipeline, never a
	// package-level table, so repeated runs (and parallel tests) cannot
	// leak bindings between each other.
	Registry struct {
		// definedBy maps lower-cased module names to defining unit paths.
		definedBy map[string]string
	}
)

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{definedBy: make(map[string]string)}
}

// Register binds the given module names to the defining unit path. When a
// name is already bound to a different unit the first binding is kept and a
// definition-conflict diagnostic naming both units is returned; silently
// picking a winner would hide a real source-tree problem. Callers must
// register units in discovery order so bindings are reproducible.
func (r *Registry) Register(path string, names []string) []Diagnostic {
	var diags []Diagnostic
	for _, name := range names {
		first, bound := r.definedBy[name]
		if !bound {
			r.definedBy[name] = path
			continue
		}
		if first == path {
			continue
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeDefinitionConflict,
			Message: fmt.Sprintf("module %q defined in both %s and %s; keeping %s",
				name, first, path, first),
			Path: path,
		})
	}
	return diags
}

// Resolve returns the unit path defining the named module. Modules with no
// known definition (system or vendor modules) are simply not found; that is
// never an error.
func (r *Registry) Resolve(name string) (string, bool) {
	path, ok := r.definedBy[name]
	return path, ok
}

// Len returns the number of registered module names.
func (r *Registry) Len() int {
	return len(r.definedBy)
}
