package config

// deprecatedIgnoreKey is the pre-1.0 name of the ignore_commits flag.
const deprecatedIgnoreKey = "disable_commit_parsing"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# Relver Configuration
# See 'relver config -h' for commands

# Change sources
ignore_commits: false                 # Skip conventional-commit parsing; use change files only
changes_dir: .changes                 # Directory holding pending change files (*.md)

# Packages
# Each package is one release unit: a single version shared by every file
# it declares. Format is inferred from the file name when omitted.
packages:
  - name: my-package
    path: .                           # Package root relative to the workspace
    changelog: CHANGELOG.md           # Changelog path relative to the package
    files:
      - path: package.json            # Own version (top-level "version" field)
      # - path: Cargo.toml            # format inferred: toml
      # - path: Cargo.lock            # format inferred: lock
      # - path: App.csproj            # format inferred: markup
      # - path: internal/version.go   # generic adapter via patterns
      #   patterns:
      #     - 'const appVersion = "([^"]+)"'
      # - path: Cargo.toml            # dependency reference to another package
      #   dependency: other-package
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		// ignore_commits: When true, conventional-commit messages are not
		// read as change sources; only change files count.
		"ignore_commits": false,
		// changes_dir: Directory holding pending change files, consumed
		// (deleted) by a successful release.
		"changes_dir": ".changes",
	}
}
