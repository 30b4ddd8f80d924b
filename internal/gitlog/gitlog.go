// Package gitlog extracts commit messages from a git repository using
// go-git. It is the only place that touches the repository: the rest of the
// pipeline consumes plain message strings and never sees git objects.
package gitlog

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default, it's a no-op. Set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens the repository at path (or the current working directory),
// traversing up the directory tree to find the repository root.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[gitlog] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// Messages returns the full commit messages (subject and body) for the
// range fromRev..toRev, newest first. fromRev is exclusive; an empty
// fromRev walks back to the root commit. An empty toRev means HEAD.
//
// The usual fromRev is the tag of the previous release, so the returned
// messages are exactly the commits that feed the next one.
func Messages(repoPath, fromRev, toRev string) ([]string, error) {
	repo, err := openRepo(repoPath)
	if err != nil {
		return nil, err
	}

	if toRev == "" {
		toRev = "HEAD"
	}
	toHash, err := repo.ResolveRevision(plumbing.Revision(toRev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", toRev, err)
	}

	var stop plumbing.Hash
	if fromRev != "" {
		fromHash, err := repo.ResolveRevision(plumbing.Revision(fromRev))
		if err != nil {
			return nil, fmt.Errorf("resolving revision %q: %w", fromRev, err)
		}
		stop = *fromHash
	}

	iter, err := repo.Log(&git.LogOptions{From: *toHash})
	if err != nil {
		return nil, fmt.Errorf("reading log from %s: %w", toRev, err)
	}
	defer iter.Close()

	var messages []string
	err = iter.ForEach(func(c *object.Commit) error {
		if fromRev != "" && c.Hash == stop {
			return storer.ErrStop
		}
		messages = append(messages, c.Message)
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("walking commits: %w", err)
	}

	logDebug("[gitlog] collected %d messages in %s..%s", len(messages), fromRev, toRev)
	return messages, nil
}
