package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/relver/internal/change"
	"github.com/ariel-frischer/relver/internal/config"
	"github.com/ariel-frischer/relver/internal/errors"
	"github.com/ariel-frischer/relver/internal/format"
	"github.com/ariel-frischer/relver/internal/gitlog"
	"github.com/ariel-frischer/relver/internal/release"
	"github.com/ariel-frischer/relver/internal/semver"
)

// buildWorkspace converts the loaded config into the release model,
// reading each package's current version out of its own files.
func buildWorkspace(cfg *config.Workspace) (*release.Workspace, error) {
	w := &release.Workspace{}
	for _, pc := range cfg.Packages {
		pkg, err := buildPackage(pc)
		if err != nil {
			return nil, err
		}
		w.Packages = append(w.Packages, pkg)
	}
	return w, nil
}

func buildPackage(pc config.PackageConfig) (release.Package, error) {
	root := pc.Path
	if root == "" {
		root = "."
	}
	changelogPath := pc.Changelog
	if changelogPath == "" {
		changelogPath = "CHANGELOG.md"
	}

	pkg := release.Package{
		Name:          pc.Name,
		ChangelogPath: filepath.Join(root, changelogPath),
	}
	for _, fc := range pc.Files {
		pkg.Files = append(pkg.Files, release.FileRef{
			Path:       filepath.Join(root, fc.Path),
			Format:     fc.Format,
			Dependency: fc.Dependency,
			Patterns:   fc.Patterns,
		})
	}

	current, err := currentVersion(pkg)
	if err != nil {
		return release.Package{}, fmt.Errorf("package %s: %w", pc.Name, err)
	}
	pkg.Current = current
	return pkg, nil
}

// currentVersion reads the package's version from its first own-version
// file reference.
func currentVersion(pkg release.Package) (semver.Version, error) {
	var lastErr error
	for _, ref := range pkg.Files {
		if ref.Dependency != "" {
			continue
		}
		f, err := refFormat(ref)
		if err != nil || f == format.TOMLLock {
			continue
		}
		data, err := os.ReadFile(ref.Path)
		if err != nil {
			return semver.Version{}, fmt.Errorf("reading %s: %w", ref.Path, err)
		}
		spans, err := format.Locate(f, string(data), format.Target{Patterns: ref.Patterns})
		if err != nil {
			// Keep looking in the remaining files, but remember why this
			// one failed so an all-miss run reports the real cause.
			if re := errors.AsReleaseError(err); re != nil && re.Path == "" {
				err = re.WithPath(ref.Path)
			}
			lastErr = err
			continue
		}
		if len(spans) == 0 {
			continue
		}
		v, err := semver.Parse(spans[0].In(string(data)))
		if err != nil {
			return semver.Version{}, fmt.Errorf("%s: current version: %w", ref.Path, err)
		}
		return v, nil
	}
	if lastErr != nil {
		return semver.Version{}, lastErr
	}
	return semver.Version{}, fmt.Errorf("no file declares a readable current version")
}

func refFormat(ref release.FileRef) (format.Format, error) {
	if len(ref.Patterns) > 0 {
		return format.Generic, nil
	}
	return format.Detect(ref.Path, ref.Format)
}

// collectRecords gathers change records from both sources: change files in
// the changes directory and, unless disabled, conventional commits since
// sinceRev.
func collectRecords(cfg *config.Workspace, sinceRev string, warn func(format string, args ...any)) ([]change.Record, error) {
	changesDir := cfg.ChangesDir
	if changesDir == "" {
		changesDir = ".changes"
	}
	files, err := change.LoadDir(changesDir)
	if err != nil {
		return nil, err
	}

	var messages []string
	if !cfg.IgnoreCommits {
		messages, err = gitlog.Messages("", sinceRev, "")
		if err != nil {
			// Not being a git repository is fine: change files still work.
			warn("Warning: skipping commit messages: %v", err)
			messages = nil
		}
	}

	return change.Collect(messages, files, cfg.IgnoreCommits)
}
