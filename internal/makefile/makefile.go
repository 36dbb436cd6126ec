// SPDX-License-Identifier: MPL-2.0

// Package makefile renders a standalone makefile for an ordered source
// list, so a tree analyzed once can be rebuilt later with plain make and
// no further dependency analysis.
package makefile

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"fmake/internal/compiler"
)

var (
	fortranSuffixes = []string{".f", ".f90", ".F90", ".fpp"}
	cSuffixes       = []string{".c", ".cpp"}
)

type (
	// Input is everything the makefile needs. Rendering is a pure
	// transform over it: no filesystem access, no clock, so the same
	// input always yields the same makefile.
	Input struct {
		// Target is the executable path.
		Target string
		// ObjDir is the directory object and module files are written to.
		ObjDir string
		// SourceDirs are the directories searched through VPATH, in order.
		SourceDirs []string
		// Objects are the object files in dependency order.
		Objects []string
		// Toolchain supplies compilers and flags.
		Toolchain *compiler.Toolchain
	}
)

// SourceDirs lists srcdir and every directory below it, followed by
// commonsrc and its subdirectories when set. The order matters: it becomes
// the VPATH search order.
func SourceDirs(srcdir, commonsrc string) ([]string, error) {
	var dirs []string
	collect := func(root string) error {
		return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				dirs = append(dirs, path)
			}
			return nil
		})
	}
	if err := collect(srcdir); err != nil {
		return nil, fmt.Errorf("failed to list source directories: %w", err)
	}
	if commonsrc != "" {
		if err := collect(commonsrc); err != nil {
			return nil, fmt.Errorf("failed to list common source directories: %w", err)
		}
	}
	return dirs, nil
}

// Render produces the makefile text.
func Render(in Input) string {
	tc := in.Toolchain
	var b strings.Builder

	fmt.Fprintf(&b, "# makefile created by fmake\n")
	fmt.Fprintf(&b, "# using the %s fortran and %s c/c++ compilers.\n\n", tc.FC, tc.CC)

	b.WriteString("# Define the directories for the object and module files,\n")
	b.WriteString("# the executable, and the executable name and path.\n")
	fmt.Fprintf(&b, "OBJDIR = %s\n", makePath(in.ObjDir))
	fmt.Fprintf(&b, "BINDIR = %s\n", makePath(filepath.Dir(in.Target)))
	fmt.Fprintf(&b, "PROGRAM = %s\n\n", makePath(in.Target))

	for i, dir := range in.SourceDirs {
		fmt.Fprintf(&b, "SOURCEDIR%d=%s\n", i+1, makePath(dir))
	}
	b.WriteString("\nVPATH = \\\n")
	for i := range in.SourceDirs {
		fmt.Fprintf(&b, "${SOURCEDIR%d} ", i+1)
		if i+1 < len(in.SourceDirs) {
			b.WriteString("\\")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	suffixes := append(append([]string{}, cSuffixes...), fortranSuffixes...)
	fmt.Fprintf(&b, ".SUFFIXES: %s %s\n\n", strings.Join(suffixes, " "), tc.ObjExt)

	b.WriteString("# Define the Fortran compile flags\n")
	fmt.Fprintf(&b, "F90 = %s\n", tc.FC)
	fmt.Fprintf(&b, "F90FLAGS = %s\n\n", strings.Join(tc.FFlags, " "))

	b.WriteString("# Define the C compile flags\n")
	fmt.Fprintf(&b, "CC = %s\n", tc.CC)
	fmt.Fprintf(&b, "CFLAGS = %s\n\n", strings.Join(tc.CFlags, " "))

	b.WriteString("# Define the libraries\n")
	fmt.Fprintf(&b, "SYSLIBS = %s\n\n", strings.Join(tc.SysLibs, " "))

	b.WriteString("OBJECTS = \\\n")
	for i, object := range in.Objects {
		fmt.Fprintf(&b, "$(OBJDIR)/%s ", filepath.Base(object))
		if i+1 < len(in.Objects) {
			b.WriteString("\\")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("# Define task functions\n\n")

	name := targetName(in.Target)
	b.WriteString("# Create the bin directory and compile and link the executable\n")
	fmt.Fprintf(&b, "all: makebin | %s\n\n", name)

	b.WriteString("# Make the bin directory for the executable\n")
	b.WriteString("makebin :\n\tmkdir -p $(BINDIR)\n\n")

	fmt.Fprintf(&b, "# Define the objects that make up %s\n", filepath.Base(in.Target))
	fmt.Fprintf(&b, "%s: $(OBJECTS)\n", name)
	fmt.Fprintf(&b, "\t-$(F90) $(F90FLAGS) -o $(PROGRAM) $(OBJECTS) $(SYSLIBS) %s\n\n", moduleDirRefs(tc))

	for _, suffix := range fortranSuffixes {
		fmt.Fprintf(&b, "$(OBJDIR)/%%%s : %%%s\n", tc.ObjExt, suffix)
		b.WriteString("\t@mkdir -p $(@D)\n")
		fmt.Fprintf(&b, "\t$(F90) $(F90FLAGS) -c $< -o $@ %s\n\n", moduleDirRefs(tc))
	}
	for _, suffix := range cSuffixes {
		fmt.Fprintf(&b, "$(OBJDIR)/%%%s : %%%s\n", tc.ObjExt, suffix)
		b.WriteString("\t@mkdir -p $(@D)\n")
		b.WriteString("\t$(CC) $(CFLAGS) -c $< -o $@\n\n")
	}

	b.WriteString("# Clean the object and module files and the executable\n")
	b.WriteString(".PHONY : clean\nclean :\n\t-rm -rf $(OBJDIR)\n\t-rm -rf $(BINDIR)\n\n")

	b.WriteString("# Clean the object and module files\n")
	b.WriteString(".PHONY : cleanobj\ncleanobj :\n\t-rm -rf $(OBJDIR)\n")

	return b.String()
}

// moduleDirRefs renders the module search flags pointing at $(OBJDIR),
// using the toolchain's flag spelling.
func moduleDirRefs(tc *compiler.Toolchain) string {
	refs := make([]string, 0, len(tc.ModuleFlags))
	for _, flag := range tc.ModuleFlags {
		if flag == "-module" {
			refs = append(refs, flag+" $(OBJDIR)")
			continue
		}
		refs = append(refs, flag+"$(OBJDIR)")
	}
	return strings.Join(refs, " ")
}

// targetName is the bare target name used for the link rule.
func targetName(target string) string {
	base := filepath.Base(target)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// makePath renders a path with forward slashes, which make expects on
// every platform.
func makePath(path string) string {
	return filepath.ToSlash(path)
}
