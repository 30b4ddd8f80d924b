package release

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relver/internal/change"
	"github.com/ariel-frischer/relver/internal/errors"
	"github.com/ariel-frischer/relver/internal/semver"
)

var planDate = time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

// memReader returns a Read hook backed by a map; absent paths behave like
// missing files.
func memReader(files map[string]string) func(string) (string, error) {
	return func(path string) (string, error) {
		c, ok := files[path]
		if !ok {
			return "", fs.ErrNotExist
		}
		return c, nil
	}
}

func actionFor(t *testing.T, plan *Plan, path string) WriteAction {
	t.Helper()
	for _, a := range plan.Actions {
		if a.Path == path {
			return a
		}
	}
	t.Fatalf("no write action for %s (have %d actions)", path, len(plan.Actions))
	return WriteAction{}
}

// TestPlan_FeatureRelease covers the canonical single-package flow: a
// package at 1.2.3 with one feature change file resolves to 1.3.0, the
// manifest version line changes and nothing else, and the changelog gains
// a Features section above the existing history.
func TestPlan_FeatureRelease(t *testing.T) {
	manifest := "[package]\nname = \"widget\"\nversion = \"1.2.3\"\nedition = \"2021\"\n"
	history := "# Changelog\n\n## 1.2.3 - 2026-07-01\n\n### Fixes\n\n- old fix\n"

	w := &Workspace{
		Packages: []Package{{
			Name:          "widget",
			Current:       semver.MustParse("1.2.3"),
			Files:         []FileRef{{Path: "Cargo.toml"}},
			ChangelogPath: "CHANGELOG.md",
		}},
		Read: memReader(map[string]string{
			"Cargo.toml":   manifest,
			"CHANGELOG.md": history,
		}),
		Now: func() time.Time { return planDate },
	}

	records := []change.Record{{
		Kind:       change.Feature,
		Summary:    "add polish levels",
		Provenance: change.FileDerived,
		Source:     ".changes/add-polish.md",
	}}

	plan, err := w.Plan(records)
	require.NoError(t, err)

	require.Len(t, plan.Summaries, 1)
	assert.Equal(t, Summary{Name: "widget", Old: "1.2.3", New: "1.3.0", Bump: semver.MinorBump}, plan.Summaries[0])

	patched := actionFor(t, plan, "Cargo.toml")
	assert.Equal(t, "[package]\nname = \"widget\"\nversion = \"1.3.0\"\nedition = \"2021\"\n", patched.Content)

	log := actionFor(t, plan, "CHANGELOG.md")
	newIdx := strings.Index(log.Content, "## 1.3.0 - 2026-08-23")
	oldIdx := strings.Index(log.Content, "## 1.2.3 - 2026-07-01")
	require.Greater(t, newIdx, 0)
	assert.Greater(t, oldIdx, newIdx)
	assert.Contains(t, log.Content, "### Features")
	assert.Contains(t, log.Content, "- add polish levels")

	assert.Equal(t, []string{".changes/add-polish.md"}, plan.ChangeFiles)
}

// TestPlan_EveryFileEndsAtSameVersion verifies the package invariant:
// after a run every declared file carries the identical version string.
func TestPlan_EveryFileEndsAtSameVersion(t *testing.T) {
	w := &Workspace{
		Packages: []Package{{
			Name:    "widget",
			Current: semver.MustParse("1.2.3"),
			Files: []FileRef{
				{Path: "package.json"},
				{Path: "App.csproj"},
				{Path: "version.go", Patterns: []string{`const appVersion = "([^"]+)"`}},
			},
			ChangelogPath: "CHANGELOG.md",
		}},
		Read: memReader(map[string]string{
			"package.json": "{\n  \"name\": \"widget\",\n  \"version\": \"1.2.3\"\n}\n",
			"App.csproj":   "<Project>\n  <Version>1.2.3</Version>\n</Project>\n",
			"version.go":   "package main\n\nconst appVersion = \"1.2.3\"\n",
		}),
		Now: func() time.Time { return planDate },
	}

	plan, err := w.Plan([]change.Record{{Kind: change.Breaking, Summary: "big change"}})
	require.NoError(t, err)

	require.Equal(t, "2.0.0", plan.Summaries[0].New)
	assert.Contains(t, actionFor(t, plan, "package.json").Content, `"version": "2.0.0"`)
	assert.Contains(t, actionFor(t, plan, "App.csproj").Content, "<Version>2.0.0</Version>")
	assert.Contains(t, actionFor(t, plan, "version.go").Content, `const appVersion = "2.0.0"`)
}

// TestPlan_Propagation verifies that when package A bumps and package B
// references A as a dependency, B's referencing file shows A's new
// version even though B has zero change records of its own.
func TestPlan_Propagation(t *testing.T) {
	w := &Workspace{
		Packages: []Package{
			{
				Name:          "gadget",
				Current:       semver.MustParse("0.9.0"),
				Files:         []FileRef{{Path: "gadget/Cargo.toml"}},
				ChangelogPath: "gadget/CHANGELOG.md",
			},
			{
				Name:    "widget",
				Current: semver.MustParse("1.2.3"),
				Files: []FileRef{
					{Path: "widget/Cargo.toml"},
					{Path: "widget/Cargo.toml", Dependency: "gadget"},
					{Path: "widget/Cargo.lock", Dependency: "gadget"},
				},
				ChangelogPath: "widget/CHANGELOG.md",
			},
		},
		Read: memReader(map[string]string{
			"gadget/Cargo.toml": "[package]\nname = \"gadget\"\nversion = \"0.9.0\"\n",
			"widget/Cargo.toml": "[package]\nname = \"widget\"\nversion = \"1.2.3\"\n\n[dependencies]\ngadget = \"0.9.0\"\n",
			"widget/Cargo.lock": "[[package]]\nname = \"gadget\"\nversion = \"0.9.0\"\n\n[[package]]\nname = \"widget\"\nversion = \"1.2.3\"\n",
		}),
		Now: func() time.Time { return planDate },
	}

	records := []change.Record{{Kind: change.Feature, Summary: "new gadget mode", Package: "gadget"}}

	plan, err := w.Plan(records)
	require.NoError(t, err)

	// gadget released, widget did not.
	require.Len(t, plan.Summaries, 2)
	assert.Equal(t, "0.10.0", plan.Summaries[0].New)
	assert.Equal(t, semver.MinorBump, plan.Summaries[0].Bump)
	assert.Equal(t, semver.None, plan.Summaries[1].Bump)
	assert.Equal(t, "1.2.3", plan.Summaries[1].New)

	// widget's own version stays put while its gadget references move.
	manifest := actionFor(t, plan, "widget/Cargo.toml").Content
	assert.Contains(t, manifest, "version = \"1.2.3\"")
	assert.Contains(t, manifest, "gadget = \"0.10.0\"")

	lock := actionFor(t, plan, "widget/Cargo.lock").Content
	assert.Contains(t, lock, "name = \"gadget\"\nversion = \"0.10.0\"")
	assert.Contains(t, lock, "name = \"widget\"\nversion = \"1.2.3\"")

	// No changelog for widget: it produced no records.
	for _, a := range plan.Actions {
		assert.NotEqual(t, "widget/CHANGELOG.md", a.Path)
	}
}

// TestPlan_LockSelfReference verifies a package's own lock entry follows
// its declared manifest name when no override is configured.
func TestPlan_LockSelfReference(t *testing.T) {
	w := &Workspace{
		Packages: []Package{{
			Name:    "widget",
			Current: semver.MustParse("1.2.3"),
			Files: []FileRef{
				{Path: "Cargo.toml"},
				{Path: "Cargo.lock"},
			},
			ChangelogPath: "CHANGELOG.md",
		}},
		Read: memReader(map[string]string{
			"Cargo.toml": "[package]\nname = \"widget\"\nversion = \"1.2.3\"\n",
			"Cargo.lock": "[[package]]\nname = \"widget\"\nversion = \"1.2.3\"\n",
		}),
		Now: func() time.Time { return planDate },
	}

	plan, err := w.Plan([]change.Record{{Kind: change.Fix, Summary: "fix"}})
	require.NoError(t, err)
	assert.Contains(t, actionFor(t, plan, "Cargo.lock").Content, "version = \"1.2.4\"")
}

// TestPlan_NothingToRelease: zero records is a non-error terminal state.
func TestPlan_NothingToRelease(t *testing.T) {
	w := &Workspace{
		Packages: []Package{{
			Name:          "widget",
			Current:       semver.MustParse("1.2.3"),
			Files:         []FileRef{{Path: "package.json"}},
			ChangelogPath: "CHANGELOG.md",
		}},
		Read: memReader(map[string]string{
			"package.json": "{\"name\": \"widget\", \"version\": \"1.2.3\"}",
		}),
		Now: func() time.Time { return planDate },
	}

	plan, err := w.Plan(nil)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
	require.Len(t, plan.Summaries, 1)
	assert.Equal(t, semver.None, plan.Summaries[0].Bump)
}

// TestPlan_FailureProducesNoActions: any package failing resolution
// aborts the whole run with no write plan.
func TestPlan_FailureProducesNoActions(t *testing.T) {
	w := &Workspace{
		Packages: []Package{
			{
				Name:          "widget",
				Current:       semver.MustParse("1.2.3"),
				Files:         []FileRef{{Path: "package.json"}},
				ChangelogPath: "CHANGELOG.md",
			},
			{
				Name:          "gadget",
				Current:       semver.MustParse("0.9.0"),
				Files:         []FileRef{{Path: "gadget.json"}},
				ChangelogPath: "gadget-CHANGELOG.md",
			},
		},
		Read: memReader(map[string]string{
			"package.json": "{\"name\": \"widget\", \"version\": \"1.2.3\"}",
			// gadget's manifest lacks a version field entirely.
			"gadget.json": "{\"name\": \"gadget\"}",
		}),
		Now: func() time.Time { return planDate },
	}

	records := []change.Record{
		{Kind: change.Feature, Summary: "widget work", Package: "widget"},
		{Kind: change.Fix, Summary: "gadget work", Package: "gadget"},
	}

	plan, err := w.Plan(records)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, errors.IsKind(err, errors.PatternNotFound))
	re := errors.AsReleaseError(err)
	require.NotNil(t, re)
	assert.Equal(t, "gadget", re.Package)
	assert.Equal(t, "gadget.json", re.Path)
}

// TestPlan_InvalidLabelFailsBeforeAnyComputation covers the pre-release
// label policy: a disallowed label rejects the run even for packages with
// no changes of their own.
func TestPlan_InvalidLabelFailsBeforeAnyComputation(t *testing.T) {
	w := &Workspace{
		Packages: []Package{{
			Name:          "widget",
			Current:       semver.Version{Major: 1, Minor: 2, Patch: 3, Pre: "betav2"},
			Files:         []FileRef{{Path: "package.json"}},
			ChangelogPath: "CHANGELOG.md",
		}},
		Read: memReader(map[string]string{
			"package.json": "{\"name\": \"widget\", \"version\": \"1.2.3-betav2\"}",
		}),
		Now: func() time.Time { return planDate },
	}

	_, err := w.Plan(nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.InvalidLabel))
}

// TestPlan_UnscopedRecordsApplyToFirstPackage documents the scoping rule
// for records with no package scope.
func TestPlan_UnscopedRecordsApplyToFirstPackage(t *testing.T) {
	w := &Workspace{
		Packages: []Package{
			{
				Name:          "widget",
				Current:       semver.MustParse("1.0.0"),
				Files:         []FileRef{{Path: "widget.json"}},
				ChangelogPath: "widget-CHANGELOG.md",
			},
			{
				Name:          "gadget",
				Current:       semver.MustParse("2.0.0"),
				Files:         []FileRef{{Path: "gadget.json"}},
				ChangelogPath: "gadget-CHANGELOG.md",
			},
		},
		Read: memReader(map[string]string{
			"widget.json": "{\"name\": \"widget\", \"version\": \"1.0.0\"}",
			"gadget.json": "{\"name\": \"gadget\", \"version\": \"2.0.0\"}",
		}),
		Now: func() time.Time { return planDate },
	}

	plan, err := w.Plan([]change.Record{{Kind: change.Fix, Summary: "unscoped"}})
	require.NoError(t, err)
	assert.Equal(t, "1.0.1", plan.Summaries[0].New)
	assert.Equal(t, "2.0.0", plan.Summaries[1].New)
}
