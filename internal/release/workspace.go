package release

import (
	stderrors "errors"
	"io/fs"
	"os"
	"time"

	"github.com/ariel-frischer/relver/internal/change"
	"github.com/ariel-frischer/relver/internal/changelog"
	"github.com/ariel-frischer/relver/internal/errors"
	"github.com/ariel-frischer/relver/internal/format"
	"github.com/ariel-frischer/relver/internal/semver"
)

// Workspace drives every package through resolution and produces the
// write plan. File content enters through the Read hook so the planning
// phase itself is a pure computation over supplied values.
type Workspace struct {
	Packages []Package

	// Read supplies file content; defaults to os.ReadFile.
	Read func(path string) (string, error)
	// Now supplies the changelog date; defaults to time.Now.
	Now func() time.Time
}

// resolution is one package's computed outcome, held until every package
// has resolved successfully.
type resolution struct {
	pkg     *Package
	records []change.Record
	next    semver.Version
	bump    semver.Severity
	// declared is the name the package's primary manifest declares,
	// falling back to the configured package name.
	declared string
}

// Plan computes the workspace-wide write plan from the run's change
// records. No file is modified; every failure aborts with no actions.
func (w *Workspace) Plan(records []change.Record) (*Plan, error) {
	read := w.Read
	if read == nil {
		read = func(path string) (string, error) {
			data, err := os.ReadFile(path)
			return string(data), err
		}
	}
	now := w.Now
	if now == nil {
		now = time.Now
	}

	files := newFileSet(read)

	// Phase 1: resolve every package independently.
	resolutions, err := w.resolveAll(records, files)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}

	// Phase 2a: patch each changed package's own version files.
	for _, r := range resolutions {
		if r.bump == semver.None {
			continue
		}
		if err := patchOwnFiles(r, files); err != nil {
			return nil, err
		}
	}

	// Phase 2b: propagate dependency references. Every edge whose target
	// package changed is updated, even when the referencing package has
	// zero change records of its own.
	if err := propagate(resolutions, files); err != nil {
		return nil, err
	}

	// Phase 2c: compose changelog sections for changed packages.
	for _, r := range resolutions {
		if r.bump == semver.None || len(r.records) == 0 {
			continue
		}
		entry := changelog.NewEntry(r.next.String(), now(), r.records)
		section, err := changelog.RenderString(entry)
		if err != nil {
			return nil, errors.Wrap(err, errors.Parse).WithPackage(r.pkg.Name)
		}
		// A package without a changelog yet starts from an empty document.
		existing, err := files.load(r.pkg.ChangelogPath)
		if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		files.set(r.pkg.ChangelogPath, changelog.Merge(existing, section))

		for _, rec := range r.records {
			if rec.Source != "" {
				plan.ChangeFiles = append(plan.ChangeFiles, rec.Source)
			}
		}
	}

	plan.Actions = files.actions()
	for _, r := range resolutions {
		plan.Summaries = append(plan.Summaries, Summary{
			Name: r.pkg.Name,
			Old:  r.pkg.Current.String(),
			New:  r.next.String(),
			Bump: r.bump,
		})
	}
	return plan, nil
}

// resolveAll runs severity reduction and version resolution for every
// package. Scope-less records apply to the workspace's first package.
func (w *Workspace) resolveAll(records []change.Record, files *fileSet) ([]*resolution, error) {
	defaultPkg := ""
	if len(w.Packages) > 0 {
		defaultPkg = w.Packages[0].Name
	}

	resolutions := make([]*resolution, 0, len(w.Packages))
	for i := range w.Packages {
		pkg := &w.Packages[i]
		rs := change.ForPackage(records, pkg.Name, defaultPkg)
		bump := change.Bump(rs, pkg.Current)

		next, err := semver.Resolve(pkg.Current, bump)
		if err != nil {
			if re := errors.AsReleaseError(err); re != nil {
				return nil, re.WithPackage(pkg.Name)
			}
			return nil, err
		}

		r := &resolution{pkg: pkg, records: rs, next: next, bump: bump, declared: pkg.Name}
		if name := declaredName(pkg, files); name != "" {
			r.declared = name
		}
		resolutions = append(resolutions, r)
	}
	return resolutions, nil
}

// declaredName reads the package's primary manifest (its first structured
// manifest file) for the name it declares. Returns "" when no file
// declares one; the configured package name is the fallback.
func declaredName(pkg *Package, files *fileSet) string {
	for _, ref := range pkg.Files {
		if len(ref.Patterns) > 0 || ref.Dependency != "" {
			continue
		}
		f, err := format.Detect(ref.Path, ref.Format)
		if err != nil || (f != format.JSONManifest && f != format.TOMLManifest) {
			continue
		}
		content, err := files.load(ref.Path)
		if err != nil {
			continue
		}
		if name, err := format.DeclaredName(f, content); err == nil {
			return name
		}
	}
	return ""
}

// isDependencyRef reports whether a file reference points at another
// entity's version rather than the package's own top-level version field.
func isDependencyRef(ref FileRef, f format.Format) bool {
	return ref.Dependency != "" || f == format.TOMLLock
}

// patchOwnFiles updates every non-dependency file reference of one
// changed package to its resolved version.
func patchOwnFiles(r *resolution, files *fileSet) error {
	for _, ref := range r.pkg.Files {
		f, err := refFormat(ref)
		if err != nil {
			return annotate(err, r.pkg.Name)
		}
		if isDependencyRef(ref, f) {
			continue
		}
		if err := files.patch(ref.Path, f, format.Target{Patterns: ref.Patterns}, r.next.String()); err != nil {
			return annotate(err, r.pkg.Name)
		}
	}
	return nil
}

// propagate updates every dependency-style reference whose target package
// changed in this run. The referenced name comes from the explicit
// override or falls back to the owning package's own declared name (the
// lock-table case: a package's lock file lists the package itself).
func propagate(resolutions []*resolution, files *fileSet) error {
	byName := make(map[string]*resolution, len(resolutions))
	for _, r := range resolutions {
		byName[r.declared] = r
		byName[r.pkg.Name] = r
	}

	for _, r := range resolutions {
		for _, ref := range r.pkg.Files {
			f, err := refFormat(ref)
			if err != nil {
				return annotate(err, r.pkg.Name)
			}
			if !isDependencyRef(ref, f) {
				continue
			}

			depName := ref.Dependency
			if depName == "" {
				depName = r.declared
			}
			target, known := byName[depName]
			if !known || target.bump == semver.None {
				// Either an external dependency no package owns, or an
				// unchanged one; nothing to propagate.
				continue
			}

			t := format.Target{Dependency: depName, Patterns: ref.Patterns}
			if err := files.patch(ref.Path, f, t, target.next.String()); err != nil {
				return annotate(err, r.pkg.Name)
			}
		}
	}
	return nil
}

func refFormat(ref FileRef) (format.Format, error) {
	if len(ref.Patterns) > 0 {
		return format.Generic, nil
	}
	return format.Detect(ref.Path, ref.Format)
}

func annotate(err error, pkg string) error {
	if re := errors.AsReleaseError(err); re != nil {
		if re.Package == "" {
			return re.WithPackage(pkg)
		}
	}
	return err
}
