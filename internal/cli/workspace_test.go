package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relver/internal/errors"
	"github.com/ariel-frischer/relver/internal/release"
	"github.com/ariel-frischer/relver/internal/testutil"
)

func TestCurrentVersion_ReportsWhyLocateFailed(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		File("package.json", "{\n  \"name\": \"widget\"\n}\n")

	pkg := release.Package{
		Name:  "widget",
		Files: []release.FileRef{{Path: filepath.Join(ws.Dir, "package.json")}},
	}

	// The manifest has no version field; the surfaced error carries the
	// locate failure and its file, not a generic all-files-missed message.
	_, err := currentVersion(pkg)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.PatternNotFound))
	re := errors.AsReleaseError(err)
	require.NotNil(t, re)
	assert.Equal(t, filepath.Join(ws.Dir, "package.json"), re.Path)
}

func TestCurrentVersion_LaterFileStillWins(t *testing.T) {
	ws := testutil.NewWorkspace(t).
		File("meta.json", "{\n  \"name\": \"widget\"\n}\n").
		File("package.json", "{\n  \"name\": \"widget\",\n  \"version\": \"1.2.3\"\n}\n")

	pkg := release.Package{
		Name: "widget",
		Files: []release.FileRef{
			{Path: filepath.Join(ws.Dir, "meta.json")},
			{Path: filepath.Join(ws.Dir, "package.json")},
		},
	}

	v, err := currentVersion(pkg)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())
}
