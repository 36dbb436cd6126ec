// SPDX-License-Identifier: MPL-2.0

package makefile

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"fmake/internal/compiler"
)

func testInput() Input {
	return Input{
		Target:     "bin/prog",
		ObjDir:     "obj_temp",
		SourceDirs: []string{"src", "src/sub"},
		Objects:    []string{"obj_temp/a.o", "obj_temp/b.o", "obj_temp/util.o"},
		Toolchain: &compiler.Toolchain{
			FC:          "gfortran",
			CC:          "gcc",
			FFlags:      []string{"-O2", "-fbacktrace"},
			CFlags:      []string{"-O3", "-D_UF"},
			SysLibs:     []string{"-lc"},
			ModuleFlags: []string{"-I", "-J"},
			ObjExt:      ".o",
		},
	}
}

func TestRender_Variables(t *testing.T) {
	t.Parallel()
	out := Render(testInput())

	for _, want := range []string{
		"OBJDIR = obj_temp\n",
		"BINDIR = bin\n",
		"PROGRAM = bin/prog\n",
		"SOURCEDIR1=src\n",
		"SOURCEDIR2=src/sub\n",
		"F90 = gfortran\n",
		"F90FLAGS = -O2 -fbacktrace\n",
		"CC = gcc\n",
		"CFLAGS = -O3 -D_UF\n",
		"SYSLIBS = -lc\n",
		".SUFFIXES: .c .cpp .f .f90 .F90 .fpp .o\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("makefile missing %q", want)
		}
	}
}

func TestRender_ObjectsKeepOrder(t *testing.T) {
	t.Parallel()
	out := Render(testInput())

	a := strings.Index(out, "$(OBJDIR)/a.o")
	b := strings.Index(out, "$(OBJDIR)/b.o")
	u := strings.Index(out, "$(OBJDIR)/util.o")
	if a < 0 || b < 0 || u < 0 || !(a < b && b < u) {
		t.Errorf("objects out of order: a=%d b=%d util=%d", a, b, u)
	}
	if !strings.Contains(out, "$(OBJDIR)/a.o \\\n") {
		t.Error("object list must use continuation lines")
	}
	if strings.Contains(out, "$(OBJDIR)/util.o \\\n") {
		t.Error("last object must not carry a continuation")
	}
}

func TestRender_Rules(t *testing.T) {
	t.Parallel()
	out := Render(testInput())

	for _, want := range []string{
		"all: makebin | prog\n",
		"prog: $(OBJECTS)\n",
		"\t-$(F90) $(F90FLAGS) -o $(PROGRAM) $(OBJECTS) $(SYSLIBS) -I$(OBJDIR) -J$(OBJDIR)\n",
		"$(OBJDIR)/%.o : %.f90\n",
		"\t$(F90) $(F90FLAGS) -c $< -o $@ -I$(OBJDIR) -J$(OBJDIR)\n",
		"$(OBJDIR)/%.o : %.c\n",
		"\t$(CC) $(CFLAGS) -c $< -o $@\n",
		".PHONY : clean\n",
		".PHONY : cleanobj\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("makefile missing %q", want)
		}
	}
}

func TestRender_IfortModuleFlag(t *testing.T) {
	t.Parallel()
	in := testInput()
	in.Toolchain.FC = "ifort"
	in.Toolchain.ModuleFlags = []string{"-module"}

	out := Render(in)
	if !strings.Contains(out, "-c $< -o $@ -module $(OBJDIR)\n") {
		t.Error("ifort module flag must take the directory as a separate argument")
	}
	if strings.Contains(out, "-J$(OBJDIR)") {
		t.Error("gnu module flags must not leak into an ifort makefile")
	}
}

func TestRender_BareTargetUsesDotBinDir(t *testing.T) {
	t.Parallel()
	in := testInput()
	in.Target = "prog"

	out := Render(in)
	if !strings.Contains(out, "BINDIR = .\n") {
		t.Errorf("bare target must map to BINDIR = .:\n%s", out)
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()
	first := Render(testInput())
	for i := 0; i < 5; i++ {
		if Render(testInput()) != first {
			t.Fatal("rendering must be deterministic")
		}
	}
}

func TestSourceDirs(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	common := filepath.Join(root, "common")
	for _, dir := range []string{filepath.Join(src, "sub"), common} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	dirs, err := SourceDirs(src, common)
	if err != nil {
		t.Fatalf("SourceDirs failed: %v", err)
	}
	want := []string{src, filepath.Join(src, "sub"), common}
	if !slices.Equal(dirs, want) {
		t.Errorf("dirs = %v, want %v", dirs, want)
	}
}

func TestSourceDirs_MissingDir(t *testing.T) {
	t.Parallel()
	if _, err := SourceDirs(filepath.Join(t.TempDir(), "nope"), ""); err == nil {
		t.Error("expected an error for a missing source directory")
	}
}
