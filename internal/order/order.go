// SPDX-License-Identifier: MPL-2.0

// Package order turns scanned compilation units into a deterministic compile
// order. Fortran units are sorted over a module dependency graph; C/C++
// units keep their discovery order and are appended, since their build-order
// dependencies are resolved by the preprocessor rather than by this engine.
//
// The orderer never fails a run: unreadable files, duplicate module
// definitions and dependency cycles all degrade to structured diagnostics
// on the Result while a best-effort order is still produced.
package order

import (
	"fmt"
	"strings"

	"fmake/internal/dag"
	"fmake/internal/scan"
)

type (
	// Result is the outcome of one ordering run. It is produced once and
	// consumed immediately by the build driver; nothing is persisted.
	Result struct {
		// Ordered holds all unit paths in compile order: Fortran units in
		// dependency order first, then C/C++ units in discovery order.
		Ordered []string
		// Cycles records each collapsed dependency cycle as the member
		// paths in discovery order.
		Cycles [][]string
		// Diagnostics holds every non-fatal problem found during the run.
		Diagnostics []Diagnostic
		// UsesISOCBinding reports whether any Fortran unit references the
		// iso_c_binding intrinsic module; the compiler-flag selector
		// consumes this fact.
		UsesISOCBinding bool
	}
)

// Files scans the given Fortran and C/C++ source paths and orders them.
// The path lists are expected to be pre-bucketed by extension and in
// deterministic discovery order; the orderer does no tree walking itself.
// An unreadable file yields a diagnostic and an empty unit, never a failure.
func Files(fortranPaths, cPaths []string) Result {
	fortran := make([]scan.Unit, 0, len(fortranPaths))
	var diags []Diagnostic
	for _, path := range fortranPaths {
		unit, err := scan.File(path)
		if err != nil {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeUnreadableSource,
				Message:  fmt.Sprintf("could not read %s; treated as providing and requiring nothing", path),
				Path:     path,
				Cause:    err,
			})
		}
		fortran = append(fortran, unit)
	}

	cUnits := make([]scan.Unit, 0, len(cPaths))
	for _, path := range cPaths {
		cUnits = append(cUnits, scan.CUnit(path))
	}

	result := Units(fortran, cUnits)
	result.Diagnostics = append(diags, result.Diagnostics...)
	return result
}

// Units orders already-scanned units. Pure and deterministic: the edge set
// is a function of the units' provide/require sets alone, and ties in the
// topological sort are broken by the order units appear in the slice.
func Units(fortran, c []scan.Unit) Result {
	var result Result
	result.UsesISOCBinding = scan.UsesISOCBinding(fortran)

	// Single sequential registry pass after all scans, in discovery order.
	registry := NewRegistry()
	for _, unit := range fortran {
		result.Diagnostics = append(result.Diagnostics, registry.Register(unit.Path, unit.Provides)...)
	}

	g := dag.New()
	for _, unit := range fortran {
		g.AddNode(unit.Path)
	}
	for _, unit := range fortran {
		for _, name := range unit.Requires {
			defining, found := registry.Resolve(name)
			if !found || defining == unit.Path {
				// Unresolved names are system/vendor modules; same-unit
				// references never become self-edges.
				continue
			}
			g.AddEdge(defining, unit.Path)
		}
	}

	ordered, cycles := g.Sort()
	result.Ordered = ordered
	result.Cycles = cycles
	for _, cycle := range cycles {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeCyclicDependency,
			Message: fmt.Sprintf("circular module dependency between %s; compiling members in discovery order",
				strings.Join(cycle, ", ")),
		})
	}

	for _, unit := range c {
		result.Ordered = append(result.Ordered, unit.Path)
	}
	return result
}
