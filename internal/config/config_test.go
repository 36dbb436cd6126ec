// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fmake/internal/compiler"
	"fmake/internal/issue"
)

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigDirPath: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want empty", resolved)
	}
	if cfg.FortranCompiler != compiler.FortranGNU {
		t.Errorf("fortran_compiler = %q", cfg.FortranCompiler)
	}
	if cfg.CCompiler != compiler.CGcc {
		t.Errorf("c_compiler = %q", cfg.CCompiler)
	}
	if cfg.Arch != compiler.ArchIntel64 {
		t.Errorf("arch = %q", cfg.Arch)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("ui = %+v", cfg.UI)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "fortran_compiler = \"ifort\"\n\n[ui]\nverbose = true\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if resolved != filepath.Join(dir, "config.toml") {
		t.Errorf("resolved path = %q", resolved)
	}
	if cfg.FortranCompiler != compiler.FortranIntel {
		t.Errorf("fortran_compiler = %q", cfg.FortranCompiler)
	}
	if !cfg.UI.Verbose {
		t.Error("ui.verbose must come from the file")
	}
	// Keys the file does not set keep their defaults.
	if cfg.CCompiler != compiler.CGcc {
		t.Errorf("c_compiler = %q", cfg.CCompiler)
	}
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("c_compiler = \"clang\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.CCompiler != compiler.CClang {
		t.Errorf("c_compiler = %q", cfg.CCompiler)
	}
}

func TestLoad_ExplicitConfigFileMissing(t *testing.T) {
	_, err := NewProvider().Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.toml"),
	})
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected an ActionableError, got %T", err)
	}
	if !ae.HasSuggestions() {
		t.Error("missing-file error must carry suggestions")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("fortran_compiler = [broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected an ActionableError, got %T", err)
	}
	if ae.Operation != "load configuration" {
		t.Errorf("operation = %q", ae.Operation)
	}
}

func TestLoad_RejectsUnknownCompiler(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("fortran_compiler = \"g95\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !errors.Is(err, compiler.ErrInvalidFortranCompiler) {
		t.Errorf("cause must be the compiler validation error, got %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := loadWithOptions(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); err == nil {
		t.Fatal("expected an error for a canceled context")
	}
}

func TestCreateDefaultConfig_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "fortran_compiler = 'gfortran'") &&
		!strings.Contains(string(data), "fortran_compiler = \"gfortran\"") {
		t.Errorf("unexpected file content:\n%s", data)
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("round trip changed config: %+v", cfg)
	}
}

func TestCreateDefaultConfig_DoesNotClobber(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("fortran_compiler = \"ifort\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ifort") {
		t.Error("existing config file must not be overwritten")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	cfg := DefaultConfig()
	cfg.Arch = compiler.ArchIA32
	cfg.UI.Verbose = true
	if err := Save(cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.Arch != compiler.ArchIA32 || !loaded.UI.Verbose {
		t.Errorf("reloaded config = %+v", loaded)
	}
}
