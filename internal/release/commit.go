package release

import (
	"fmt"
	"os"
	"path/filepath"
)

// Commit applies every planned write action and then deletes the consumed
// change files. Each file is written with the temp-file + rename pattern
// so a crash never leaves a partially written file behind.
//
// Commit is the only function in this package that touches disk. All
// validation happened during planning, so a failure here is an I/O fault,
// reported with the path that failed.
func Commit(plan *Plan) error {
	for _, a := range plan.Actions {
		if err := atomicWrite(a.Path, []byte(a.Content)); err != nil {
			return fmt.Errorf("writing %s: %w", a.Path, err)
		}
	}

	// Change files are consumed by the release and removed only after
	// every write landed.
	for _, path := range plan.ChangeFiles {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing change file %s: %w", path, err)
		}
	}
	return nil
}

// atomicWrite writes data to path using the temp file + rename pattern.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
