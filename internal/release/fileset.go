package release

import (
	"fmt"

	"github.com/ariel-frischer/relver/internal/errors"
	"github.com/ariel-frischer/relver/internal/format"
)

// fileSet holds every file touched by a run, loaded once and mutated only
// in memory. The final contents become the plan's write actions; nothing
// reaches disk during planning.
type fileSet struct {
	read    func(path string) (string, error)
	content map[string]string
	dirty   map[string]bool
	// order preserves first-touch order so write actions are
	// deterministic across runs.
	order []string
}

func newFileSet(read func(path string) (string, error)) *fileSet {
	return &fileSet{
		read:    read,
		content: make(map[string]string),
		dirty:   make(map[string]bool),
	}
}

// load returns the in-memory content for path, reading it on first use.
func (fs *fileSet) load(path string) (string, error) {
	if c, ok := fs.content[path]; ok {
		return c, nil
	}
	c, err := fs.read(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	fs.content[path] = c
	fs.order = append(fs.order, path)
	return c, nil
}

// set replaces the in-memory content for path and marks it dirty.
func (fs *fileSet) set(path, content string) {
	if _, ok := fs.content[path]; !ok {
		fs.order = append(fs.order, path)
	}
	fs.content[path] = content
	fs.dirty[path] = true
}

// patch runs a format adapter over the file's current in-memory content.
// Re-patching to a version the file already carries is a no-op by the
// adapters' idempotence contract, so the file is only marked dirty when
// its bytes actually change.
func (fs *fileSet) patch(path string, f format.Format, t format.Target, version string) error {
	content, err := fs.load(path)
	if err != nil {
		return err
	}
	patched, err := format.Patch(f, content, t, version)
	if err != nil {
		if re := errors.AsReleaseError(err); re != nil && re.Path == "" {
			return re.WithPath(path)
		}
		return err
	}
	if patched != content {
		fs.content[path] = patched
		fs.dirty[path] = true
	}
	return nil
}

// actions returns a write action for every dirty file in first-touch
// order.
func (fs *fileSet) actions() []WriteAction {
	var actions []WriteAction
	for _, path := range fs.order {
		if fs.dirty[path] {
			actions = append(actions, WriteAction{Path: path, Content: fs.content[path]})
		}
	}
	return actions
}
