// Package testutil provides fixtures for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rosworks/wsclean/internal/cli/output"
)

// Pkg describes a package to materialize in a test workspace.
type Pkg struct {
	Name string
	// Deps become <depend> entries.
	Deps []string
	// BuildDeps become <build_depend> entries.
	BuildDeps []string
	// ExecDeps become <exec_depend> entries.
	ExecDeps []string
}

// SetupWorkspace creates a temporary workspace containing the given
// packages, one directory per package, and returns its root.
func SetupWorkspace(t *testing.T, pkgs ...Pkg) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range pkgs {
		WritePackage(t, filepath.Join(root, p.Name), p)
	}
	return root
}

// WritePackage materializes a single package manifest in dir.
func WritePackage(t *testing.T, dir string, p Pkg) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}

	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\"?>\n<package format=\"3\">\n")
	sb.WriteString("  <name>" + p.Name + "</name>\n")
	sb.WriteString("  <version>0.1.0</version>\n")
	for _, d := range p.Deps {
		sb.WriteString("  <depend>" + d + "</depend>\n")
	}
	for _, d := range p.BuildDeps {
		sb.WriteString("  <build_depend>" + d + "</build_depend>\n")
	}
	for _, d := range p.ExecDeps {
		sb.WriteString("  <exec_depend>" + d + "</exec_depend>\n")
	}
	sb.WriteString("</package>\n")

	if err := os.WriteFile(filepath.Join(dir, "package.xml"), []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("failed to write manifest for %s: %v", p.Name, err)
	}
}

// TestRenderer wraps a Renderer with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer with a pinned TTY state whose
// output is captured for inspection.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}
