// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestId_Constants(t *testing.T) {
	// Verify all IDs are unique and sequential
	ids := []Id{
		SourceDirNotFoundId,
		NoSourceFilesId,
		CompilerNotFoundId,
		UnsupportedCompilerId,
		CompileFailedId,
		LinkFailedId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	}

	seen := make(map[Id]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate ID: %d", id)
		}
		seen[id] = true
	}

	// Verify IDs start at 1 (iota + 1)
	if SourceDirNotFoundId != 1 {
		t.Errorf("SourceDirNotFoundId = %d, want 1", SourceDirNotFoundId)
	}
}

func TestGet(t *testing.T) {
	for _, id := range []Id{
		SourceDirNotFoundId,
		NoSourceFilesId,
		CompilerNotFoundId,
		UnsupportedCompilerId,
		CompileFailedId,
		LinkFailedId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	} {
		issue := Get(id)
		if issue == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if issue.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, issue.Id())
		}
		if issue.MarkdownMsg() == "" {
			t.Errorf("Get(%d) has an empty message", id)
		}
	}
}

func TestGet_UnknownId(t *testing.T) {
	if Get(Id(9999)) != nil {
		t.Error("unknown id must return nil")
	}
}

func TestValues(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Errorf("Values() returned %d issues, want %d", len(values), len(issues))
	}
}

func TestIssue_MessageContent(t *testing.T) {
	cases := []struct {
		id   Id
		want string
	}{
		{CompilerNotFoundId, "gfortran"},
		{UnsupportedCompilerId, "ifort"},
		{ConfigLoadFailedId, "config.toml"},
		{NoSourceFilesId, ".f90"},
		{CompileFailedId, "--dry-run"},
	}
	for _, tc := range cases {
		issue := Get(tc.id)
		if issue == nil {
			t.Fatalf("Get(%d) returned nil", tc.id)
		}
		if !strings.Contains(string(issue.MarkdownMsg()), tc.want) {
			t.Errorf("issue %d message missing %q", tc.id, tc.want)
		}
	}
}

func TestIssue_Render(t *testing.T) {
	// Stub the renderer so the test asserts on composition, not on glamour's
	// terminal styling.
	orig := render
	render = func(in, _ string) (string, error) { return in, nil }
	t.Cleanup(func() { render = orig })

	issue := &Issue{
		id:       CompileFailedId,
		mdMsg:    "# boom",
		docLinks: []HttpLink{"https://example.com/docs"},
	}
	out, err := issue.Render("dark")
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "# boom") || !strings.Contains(out, "See also") {
		t.Errorf("rendered output = %q", out)
	}
}

func TestIssue_LinkClones(t *testing.T) {
	issue := &Issue{
		id:       LinkFailedId,
		docLinks: []HttpLink{"https://example.com/docs"},
		extLinks: []HttpLink{"https://example.com/more"},
	}
	issue.DocLinks()[0] = "mutated"
	issue.ExtLinks()[0] = "mutated"
	if issue.docLinks[0] != "https://example.com/docs" || issue.extLinks[0] != "https://example.com/more" {
		t.Error("accessors must return clones")
	}
}
