package change

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/relver/internal/errors"
)

// File is a change file supplied to the core as a path + content pair.
// The core never reads the filesystem itself; LoadDir below is the
// collaborator-side helper the CLI uses to build these pairs.
type File struct {
	Path    string
	Content string
}

// frontMatter is the YAML header of a change file.
type frontMatter struct {
	Kind    string `yaml:"kind"`
	Package string `yaml:"package"`
}

// ParseFile parses one change file into a Record. The file format is a
// YAML front-matter header between two "---" lines followed by a free-text
// body; the first non-blank body line is the summary, the remainder the
// body:
//
//	---
//	kind: feature
//	package: widget
//	---
//	Add frobnication support
//
//	Longer explanation rendered as its own changelog sub-section.
func ParseFile(f File) (Record, error) {
	header, body, err := splitFrontMatter(f.Content)
	if err != nil {
		return Record{}, errors.Wrap(err, errors.Parse).WithPath(f.Path)
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return Record{}, errors.Newf(errors.Parse, "invalid change file header: %v", err).WithPath(f.Path)
	}

	kind := Kind(strings.ToLower(strings.TrimSpace(fm.Kind)))
	if kind == "" {
		return Record{}, errors.New(errors.Parse, "change file header is missing 'kind'",
			"Add a kind to the header, e.g. kind: feature").WithPath(f.Path)
	}

	summary, rest := splitSummary(body)
	if summary == "" {
		return Record{}, errors.New(errors.Parse, "change file has an empty body",
			"Write a one-line summary below the closing ---").WithPath(f.Path)
	}

	return Record{
		Kind:       kind,
		Summary:    summary,
		Body:       rest,
		Package:    strings.TrimSpace(fm.Package),
		Provenance: FileDerived,
		Source:     f.Path,
	}, nil
}

// ParseFiles parses every change file, failing on the first malformed one.
// Unlike commit parsing there is no silent skip here: a change file is an
// explicit release instruction and a broken one must stop the run.
func ParseFiles(files []File) ([]Record, error) {
	records := make([]Record, 0, len(files))
	for _, f := range files {
		r, err := ParseFile(f)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// splitFrontMatter separates the YAML header from the body. The content
// must start with a "---" line and contain a closing "---" line.
func splitFrontMatter(content string) (header, body string, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", fmt.Errorf("change file must start with a --- front-matter line")
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", fmt.Errorf("change file front matter is never closed with ---")
}

// splitSummary returns the first non-blank line of the body and the
// remaining text with surrounding blank lines trimmed.
func splitSummary(body string) (summary, rest string) {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		}
	}
	return "", ""
}

// LoadDir reads every .md file in dir into path + content pairs, sorted by
// path for deterministic record ordering. A missing directory yields an
// empty slice: a workspace with no pending change files is a normal state.
func LoadDir(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading change directory %s: %w", dir, err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading change file %s: %w", path, err)
		}
		files = append(files, File{Path: path, Content: string(data)})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Collect merges commit-derived and file-derived records. With
// ignoreCommits set (the workspace toggle) commit messages are not
// consulted at all and only change files feed the run.
func Collect(messages []string, files []File, ignoreCommits bool) ([]Record, error) {
	fileRecords, err := ParseFiles(files)
	if err != nil {
		return nil, err
	}

	var records []Record
	if !ignoreCommits {
		records = append(records, ParseCommits(messages)...)
	}
	records = append(records, fileRecords...)
	return records, nil
}

// ForPackage filters records for one package. Records with an empty scope
// apply to the default package, identified by defaultPkg; records scoped
// to another package are excluded.
func ForPackage(records []Record, name, defaultPkg string) []Record {
	var out []Record
	for _, r := range records {
		scope := r.Package
		if scope == "" {
			scope = defaultPkg
		}
		if scope == name {
			out = append(out, r)
		}
	}
	return out
}
