// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fmake/internal/config"
)

func TestInitConfig_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	app, stdout, _ := testApp()
	if err := initConfig(app); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config file not created: %v", err)
	}
	if !strings.Contains(stdout.String(), "config.toml") {
		t.Errorf("path not echoed: %q", stdout.String())
	}
}

func TestShowConfigPath(t *testing.T) {
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	app, stdout, _ := testApp()
	if err := showConfigPath(app); err != nil {
		t.Fatalf("path failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "not created yet") {
		t.Errorf("missing file must be flagged: %q", stdout.String())
	}

	if err := config.CreateDefaultConfig(); err != nil {
		t.Fatal(err)
	}
	stdout.Reset()
	if err := showConfigPath(app); err != nil {
		t.Fatalf("path failed: %v", err)
	}
	if !strings.Contains(stdout.String(), filepath.Join(dir, "config.toml")) {
		t.Errorf("path not printed: %q", stdout.String())
	}
}

func TestShowConfig(t *testing.T) {
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	app, stdout, _ := testApp()
	if err := showConfig(context.Background(), app, &rootFlags{}); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"fortran_compiler", "gfortran", "using defaults"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
