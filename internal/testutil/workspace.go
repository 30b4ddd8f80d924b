// Package testutil provides workspace fixture helpers shared by tests that
// exercise the full pipeline against real directories.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Workspace is a throwaway on-disk workspace: a config file, manifests,
// change files, and changelogs under one temp directory.
type Workspace struct {
	t   *testing.T
	Dir string
}

// NewWorkspace creates an empty workspace rooted in a temp directory.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	return &Workspace{t: t, Dir: t.TempDir()}
}

// Path resolves a workspace-relative path.
func (w *Workspace) Path(rel string) string {
	return filepath.Join(w.Dir, rel)
}

// File writes a file under the workspace, creating parent directories.
func (w *Workspace) File(rel, content string) *Workspace {
	w.t.Helper()
	path := w.Path(rel)
	require.NoError(w.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(w.t, os.WriteFile(path, []byte(content), 0o644))
	return w
}

// Config writes the project config at .relver/config.yml.
func (w *Workspace) Config(yaml string) *Workspace {
	return w.File(filepath.Join(".relver", "config.yml"), yaml)
}

// ChangeFile writes a change file under .changes with front matter.
func (w *Workspace) ChangeFile(name, kind, pkg, summary string) *Workspace {
	w.t.Helper()
	header := fmt.Sprintf("---\nkind: %s\n", kind)
	if pkg != "" {
		header += fmt.Sprintf("package: %s\n", pkg)
	}
	header += "---\n\n"
	return w.File(filepath.Join(".changes", name), header+summary+"\n")
}

// Read returns a workspace file's content.
func (w *Workspace) Read(rel string) string {
	w.t.Helper()
	data, err := os.ReadFile(w.Path(rel))
	require.NoError(w.t, err)
	return string(data)
}

// Exists reports whether a workspace file exists.
func (w *Workspace) Exists(rel string) bool {
	_, err := os.Stat(w.Path(rel))
	return err == nil
}
