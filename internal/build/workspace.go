// SPDX-License-Identifier: MPL-2.0

// Package build drives the compile-and-link step over an ordered source
// list. It owns everything the ordering engine deliberately does not:
// staging temporary build trees, invoking the toolchain, emitting build
// scripts, and cleaning up afterwards.
package build

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	srcTempDir = "src_temp"
	objTempDir = "obj_temp"
	modTempDir = "mod_temp"
)

type (
	// Workspace is the temporary build tree for one run: a private copy of
	// the sources plus directories for object and module files. Keeping the
	// originals untouched means a failed build never corrupts the source
	// tree.
	Workspace struct {
		// Root is the directory the temporary trees live under.
		Root string
		// SrcDir is the staged copy of the source directory.
		SrcDir string
		// ObjDir receives object files.
		ObjDir string
		// ModDir receives compiled module files.
		ModDir string
	}
)

// Stage prepares a Workspace under root: removes a stale target and any
// previous staged sources, copies srcdir (and optionally commonsrc) into
// the staging tree, and creates the object and module directories.
func Stage(root, srcdir, target, commonsrc string) (*Workspace, error) {
	ws := &Workspace{
		Root:   root,
		SrcDir: filepath.Join(root, srcTempDir),
		ObjDir: filepath.Join(root, objTempDir),
		ModDir: filepath.Join(root, modTempDir),
	}

	// A stale target would mask a failed link.
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale target %s: %w", target, err)
	}
	if err := os.RemoveAll(ws.SrcDir); err != nil {
		return nil, fmt.Errorf("failed to remove stale staging directory: %w", err)
	}
	if err := copyTree(srcdir, ws.SrcDir); err != nil {
		return nil, fmt.Errorf("failed to stage sources: %w", err)
	}
	if commonsrc != "" {
		dest := filepath.Join(ws.SrcDir, filepath.Base(filepath.Clean(commonsrc)))
		if err := copyTree(commonsrc, dest); err != nil {
			return nil, fmt.Errorf("failed to stage common sources: %w", err)
		}
	}

	for _, dir := range []string{ws.ObjDir, ws.ModDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return ws, nil
}

// Clean removes the workspace trees and any stray module or object files
// the toolchain dropped into the root directory.
func (w *Workspace) Clean(objExt string) error {
	entries, err := os.ReadDir(w.Root)
	if err != nil {
		return fmt.Errorf("failed to list build root: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".mod") || (objExt != "" && strings.HasSuffix(name, objExt)) {
			if err := os.Remove(filepath.Join(w.Root, name)); err != nil {
				return fmt.Errorf("failed to remove %s: %w", name, err)
			}
		}
	}
	for _, dir := range []string{w.SrcDir, w.ObjDir, w.ModDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	return nil
}

// ObjectPath returns the object file path in the workspace for a source file.
func (w *Workspace) ObjectPath(srcfile, objExt string) string {
	base := filepath.Base(srcfile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(w.ObjDir, name+objExt)
}

// copyTree recursively copies the directory at src to dst, preserving the
// layout, file modes and modification times. Mtimes must survive the copy:
// expedite mode compares the staged source against a previous run's object
// file, and a freshly-stamped copy would always look newer.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dest := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if err := os.WriteFile(dest, data, info.Mode().Perm()); err != nil {
			return err
		}
		return os.Chtimes(dest, info.ModTime(), info.ModTime())
	})
}

// OutOfDate reports whether the object file is missing or older than its
// source. Used by expedite mode to skip up-to-date units; anything beyond
// this single timestamp comparison is out of scope.
func OutOfDate(srcfile, objfile string) bool {
	obj, err := os.Stat(objfile)
	if err != nil {
		return true
	}
	src, err := os.Stat(srcfile)
	if err != nil {
		return true
	}
	return !obj.ModTime().After(src.ModTime())
}
