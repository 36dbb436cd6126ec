// SPDX-License-Identifier: MPL-2.0

// Package scan extracts module provide/require information from individual
// compilation units. The recognizer is deliberately tolerant: it identifies
// module-definition and use statements line by line and ignores everything
// else, so no syntax variant can ever fail a whole ordering run. It is not
// a Fortran parser and must never become one.
package scan

import (
	"fmt"
	"os"
	"strings"
)

const (
	// LanguageFortran tags units of the module language (.f, .f90, .for, .fpp).
	LanguageFortran Language = iota
	// LanguageC tags units of the header-based language (.c, .cpp).
	LanguageC
)

type (
	// Language identifies the language family of a compilation unit.
	Language int

	// Unit is one compilation unit: a single source file together with the
	// module names it defines and the module names it consumes. Units are
	// immutable after scanning.
	Unit struct {
		// Path is the file path and the unit's unique identity.
		Path string
		// Language is the unit's language family.
		Language Language
		// Provides lists the module names this unit defines, lower-cased,
		// in source order.
		Provides []string
		// Requires lists the module names this unit consumes, lower-cased,
		// in first-use order. Self-references and intrinsic modules are
		// excluded.
		Requires []string
		// UsesISOCBinding records whether the unit references the
		// iso_c_binding intrinsic module. Intrinsics never enter Requires,
		// but this fact drives C compiler flag selection.
		UsesISOCBinding bool
	}
)

// String returns a human-readable language name.
func (l Language) String() string {
	switch l {
	case LanguageFortran:
		return "fortran"
	case LanguageC:
		return "c"
	default:
		return "unknown"
	}
}

// CUnit creates a unit for a header-based-language file. No scanning is
// performed: that language resolves dependencies at preprocessing time, so
// the unit carries no provide/require sets.
func CUnit(path string) Unit {
	return Unit{Path: path, Language: LanguageC}
}

// File reads and scans one Fortran source file. The returned error reports
// an unreadable file; callers treat it as a non-fatal diagnostic and the
// returned Unit (empty provide/require sets) remains usable, so a single
// bad file never aborts an ordering run.
func File(path string) (Unit, error) {
	unit := Unit{Path: path, Language: LanguageFortran}
	data, err := os.ReadFile(path)
	if err != nil {
		return unit, fmt.Errorf("failed to read source file: %w", err)
	}
	scanLines(&unit, decodeLines(data))
	return unit, nil
}

// Source scans already-loaded Fortran source text. Identical recognizer to
// File; used by tests and by callers that stage content themselves.
func Source(path, content string) Unit {
	unit := Unit{Path: path, Language: LanguageFortran}
	scanLines(&unit, decodeLines([]byte(content)))
	return unit
}

// decodeLines splits raw file bytes into lines, replacing undecodable byte
// sequences instead of failing. Legacy Fortran trees routinely contain
// latin-1 comments.
func decodeLines(data []byte) []string {
	text := strings.ToValidUTF8(string(data), "�")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// scanLines runs the statement recognizer over the unit's lines and fills
// the provide/require sets.
func scanLines(unit *Unit, lines []string) {
	provided := make(map[string]bool)
	required := make(map[string]bool)

	var provides, requires []string
	for _, stmt := range statements(lines) {
		if name, ok := moduleDefinition(stmt); ok {
			if !provided[name] {
				provided[name] = true
				provides = append(provides, name)
			}
			continue
		}
		if name, ok := useStatement(stmt); ok {
			if name == isoCBindingModule {
				unit.UsesISOCBinding = true
			}
			if intrinsicModules[name] || required[name] {
				continue
			}
			required[name] = true
			requires = append(requires, name)
		}
	}

	// A unit requiring a module it defines itself must not create a
	// self-edge later, so self-references are dropped here.
	unit.Provides = provides
	for _, name := range requires {
		if !provided[name] {
			unit.Requires = append(unit.Requires, name)
		}
	}
}

// statements normalizes source lines into candidate statements: comments
// stripped, whitespace trimmed, case folded, free-form continuation lines
// joined. Lines that cannot possibly open a module or use statement come
// out unchanged and are simply not recognized downstream.
func statements(lines []string) []string {
	var stmts []string
	var pending string

	for _, raw := range lines {
		if isFixedFormComment(raw) {
			continue
		}
		line := stripInlineComment(raw)
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}

		if pending != "" {
			line = strings.TrimPrefix(line, "&")
			line = strings.TrimSpace(line)
			line = pending + " " + line
			pending = ""
		}
		if rest, ok := strings.CutSuffix(line, "&"); ok {
			pending = strings.TrimSpace(rest)
			continue
		}
		stmts = append(stmts, line)
	}
	if pending != "" {
		stmts = append(stmts, pending)
	}
	return stmts
}

// isFixedFormComment reports whether the raw (untrimmed) line is a
// fixed-form comment: c, C, * or ! in column one. Free-form statements the
// scanner cares about never start with those characters, so the check is
// safe for both layouts.
func isFixedFormComment(raw string) bool {
	if raw == "" {
		return false
	}
	switch raw[0] {
	case 'c', 'C', '*', '!':
		return true
	}
	return false
}

// stripInlineComment removes a trailing ! comment. A ! inside a character
// literal would be misread, but module and use statements carry no literals
// before the module name, which is all the recognizer extracts.
func stripInlineComment(line string) string {
	if i := strings.IndexByte(line, '!'); i >= 0 {
		return line[:i]
	}
	return line
}

// moduleDefinition recognizes `module NAME`. Rejects `module procedure`,
// `module subroutine` and `module function`, which reopen an existing
// module rather than defining one.
func moduleDefinition(stmt string) (string, bool) {
	rest, ok := keywordRest(stmt, "module")
	if !ok {
		return "", false
	}
	name := firstToken(rest)
	switch name {
	case "", "procedure", "subroutine", "function":
		return "", false
	}
	if !validModuleName(name) {
		return "", false
	}
	return name, true
}

// useStatement recognizes the use/import statement shapes:
//
//	use foo
//	use foo, only: bar
//	use :: foo
//	use, intrinsic :: foo
//
// The only-qualifier list never matters for ordering; just the name does.
func useStatement(stmt string) (string, bool) {
	rest, ok := keywordRest(stmt, "use")
	if !ok {
		return "", false
	}
	if strings.HasPrefix(rest, ",") || strings.HasPrefix(rest, "::") {
		// Module-nature form: everything before :: is the nature spec.
		_, after, found := strings.Cut(rest, "::")
		if !found {
			return "", false
		}
		rest = strings.TrimSpace(after)
	}
	name := firstToken(rest)
	if !validModuleName(name) {
		return "", false
	}
	return name, true
}

// keywordRest returns the remainder of stmt after the given keyword when the
// statement opens with it as a full word.
func keywordRest(stmt, keyword string) (string, bool) {
	rest, ok := strings.CutPrefix(stmt, keyword)
	if !ok {
		return "", false
	}
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != ',' && rest[0] != ':' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// firstToken cuts the leading identifier-like token, stopping at whitespace,
// comma or colon.
func firstToken(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', ',', ':', ';':
			return s[:i]
		}
	}
	return s
}

// validModuleName reports whether name is a plausible Fortran identifier:
// a letter followed by letters, digits or underscores.
func validModuleName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c == '_' && i > 0:
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
