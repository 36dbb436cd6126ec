// SPDX-License-Identifier: MPL-2.0

package build

import (
	"path/filepath"
	"strings"

	"fmake/internal/compiler"
)

type (
	// Command is one toolchain invocation: a compile step producing an
	// object file, or the final link step (Source and Object empty).
	Command struct {
		// Args is the full argument vector, executable first.
		Args []string
		// Source is the source file being compiled ("" for the link step).
		Source string
		// Object is the object file produced ("" for the link step).
		Object string
	}
)

// IsLink reports whether this is the final link step.
func (c Command) IsLink() bool { return c.Source == "" }

// String renders the command the way it would be typed in a shell.
func (c Command) String() string { return strings.Join(c.Args, " ") }

// Commands assembles the full compile-and-link command sequence for the
// ordered source list. Pure: no filesystem access, so the same inputs
// always produce the same commands (dry runs, scripts and makefiles all
// share this).
func Commands(tc *compiler.Toolchain, ws *Workspace, srcfiles []string, target string) []Command {
	cmds := make([]Command, 0, len(srcfiles)+1)
	objects := make([]string, 0, len(srcfiles))

	for _, srcfile := range srcfiles {
		object := ws.ObjectPath(srcfile, tc.ObjExt)
		objects = append(objects, object)

		var args []string
		if isCSource(srcfile) {
			args = append([]string{tc.CC}, tc.CFlags...)
			args = append(args, "-c", srcfile, "-o", object)
		} else {
			args = append([]string{tc.FC}, tc.FFlags...)
			args = append(args, "-c", srcfile, "-o", object)
			args = append(args, moduleDirArgs(tc, ws)...)
		}
		cmds = append(cmds, Command{Args: args, Source: srcfile, Object: object})
	}

	link := append([]string{tc.FC}, tc.FFlags...)
	link = append(link, "-o", target)
	link = append(link, objects...)
	link = append(link, tc.SysLibs...)
	cmds = append(cmds, Command{Args: link})

	return cmds
}

// moduleDirArgs points the Fortran compiler at the workspace's object and
// module directories using the toolchain's flag spelling: -I/-J take the
// directory glued on, -module takes it as a separate argument.
func moduleDirArgs(tc *compiler.Toolchain, ws *Workspace) []string {
	var args []string
	for _, flag := range tc.ModuleFlags {
		switch flag {
		case "-I":
			args = append(args, "-I"+ws.ObjDir)
		case "-J":
			args = append(args, "-J"+ws.ModDir)
		case "-module":
			args = append(args, "-module", ws.ModDir)
		}
	}
	return args
}

// isCSource reports whether the file belongs to the C/C++ bucket.
func isCSource(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".c", ".cpp":
		return true
	}
	return false
}
