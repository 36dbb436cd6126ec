// SPDX-License-Identifier: MPL-2.0

package scan

// isoCBindingModule is the C-interop intrinsic module. Its presence anywhere
// in a source set changes the C compiler flags the build driver assembles.
const isoCBindingModule = "iso_c_binding"

// intrinsicModules is the curated set of modules supplied by the compiler
// runtime rather than by any scanned source file. They are never resolved
// against the module registry and never become graph edges.
var intrinsicModules = map[string]bool{
	"iso_c_binding":   true,
	"iso_fortran_env": true,
	"ieee_arithmetic": true,
	"ieee_exceptions": true,
	"ieee_features":   true,
	"omp_lib":         true,
	"omp_lib_kinds":   true,
	"openacc":         true,
}

// UsesISOCBinding reports whether any unit in the set references the
// iso_c_binding intrinsic module.
func UsesISOCBinding(units []Unit) bool {
	for _, u := range units {
		if u.UsesISOCBinding {
			return true
		}
	}
	return false
}
