// SPDX-License-Identifier: MPL-2.0

// Package discovery enumerates source files under a source directory and
// buckets them by language family. Discovery order is deterministic
// (directories and entries visited in sorted order), which the ordering
// engine relies on for reproducible output and for first-seen-wins module
// bindings.
package discovery

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

type (
	// SourceSet is the result of one source-tree walk: file paths bucketed
	// by language family, each bucket in discovery order.
	SourceSet struct {
		// Fortran holds the module-language files (.f, .f90, .for, .fpp).
		Fortran []string
		// C holds the header-based-language files (.c, .cpp).
		C []string
	}

	// Walker enumerates source files. The zero value walks only the top
	// level of the source directory, matching the historical default.
	Walker struct {
		// IncludeSubdirs walks into subdirectories when set.
		IncludeSubdirs bool
	}
)

// fortranExtensions and cExtensions define the extension buckets, compared
// case-insensitively.
var (
	fortranExtensions = map[string]bool{".f": true, ".f90": true, ".for": true, ".fpp": true}
	cExtensions       = map[string]bool{".c": true, ".cpp": true}
)

// IsEmpty reports whether the set contains no source files of either family.
func (s *SourceSet) IsEmpty() bool {
	return len(s.Fortran) == 0 && len(s.C) == 0
}

// Walk enumerates source files under srcdir. Files with extensions outside
// both buckets are ignored. A missing or unreadable source directory is the
// one fatal condition: there is nothing to order without it.
func (w *Walker) Walk(srcdir string) (*SourceSet, error) {
	set := &SourceSet{}
	err := filepath.WalkDir(srcdir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if !w.IncludeSubdirs && path != srcdir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		switch {
		case fortranExtensions[ext]:
			set.Fortran = append(set.Fortran, path)
		case cExtensions[ext]:
			set.C = append(set.C, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source directory %s: %w", srcdir, err)
	}
	return set, nil
}
