// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalk_BucketsByExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, "b.f90", "a.f", "legacy.FOR", "pre.fpp", "util.c", "wrap.cpp", "readme.txt", "data.dat")

	set, err := (&Walker{}).Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantFortran := []string{
		filepath.Join(dir, "a.f"),
		filepath.Join(dir, "b.f90"),
		filepath.Join(dir, "legacy.FOR"),
		filepath.Join(dir, "pre.fpp"),
	}
	if !slices.Equal(set.Fortran, wantFortran) {
		t.Errorf("fortran = %v, want %v", set.Fortran, wantFortran)
	}
	wantC := []string{
		filepath.Join(dir, "util.c"),
		filepath.Join(dir, "wrap.cpp"),
	}
	if !slices.Equal(set.C, wantC) {
		t.Errorf("c = %v, want %v", set.C, wantC)
	}
}

func TestWalk_TopLevelOnlyByDefault(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, "top.f90", filepath.Join("nested", "deep.f90"))

	set, err := (&Walker{}).Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(set.Fortran, []string{filepath.Join(dir, "top.f90")}) {
		t.Errorf("fortran = %v", set.Fortran)
	}
}

func TestWalk_IncludeSubdirs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, "top.f90", filepath.Join("sub", "deep.f90"), filepath.Join("sub", "util.c"))

	set, err := (&Walker{IncludeSubdirs: true}).Walk(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantFortran := []string{
		filepath.Join(dir, "sub", "deep.f90"),
		filepath.Join(dir, "top.f90"),
	}
	if !slices.Equal(set.Fortran, wantFortran) {
		t.Errorf("fortran = %v, want %v", set.Fortran, wantFortran)
	}
	if !slices.Equal(set.C, []string{filepath.Join(dir, "sub", "util.c")}) {
		t.Errorf("c = %v", set.C)
	}
}

func TestWalk_Deterministic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFiles(t, dir, "z.f90", "a.f90", "m.f90", "k.c", "b.c")

	first, err := (&Walker{}).Walk(dir)
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := (&Walker{}).Walk(dir)
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(again.Fortran, first.Fortran) || !slices.Equal(again.C, first.C) {
			t.Fatalf("discovery order not deterministic: %v vs %v", again, first)
		}
	}
}

func TestWalk_MissingDirectory(t *testing.T) {
	t.Parallel()
	_, err := (&Walker{}).Walk(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected an error for a missing source directory")
	}
}

func TestWalk_EmptyDirectory(t *testing.T) {
	t.Parallel()
	set, err := (&Walker{}).Walk(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.IsEmpty() {
		t.Errorf("expected empty set, got %+v", set)
	}
}
