// relver - Release Automation Engine
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/relver

// Package config provides hierarchical configuration management for relver
// using koanf. Configuration is loaded with priority: environment variables >
// project config (.relver/config.yml) > defaults. It supports both YAML and
// legacy JSON formats, with migration utilities for transitioning from JSON
// to YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileConfig declares one file whose content carries a version that relver
// manages.
type FileConfig struct {
	// Path of the file, relative to the package path.
	Path string `koanf:"path" yaml:"path" validate:"required"`
	// Format is an explicit adapter tag (json, toml, lock, markup, generic).
	// Inferred from the file name when empty.
	Format string `koanf:"format" yaml:"format,omitempty" validate:"omitempty,oneof=json toml lock markup generic"`
	// Dependency names the package whose version this reference carries,
	// for dependency tables and lock files.
	Dependency string `koanf:"dependency" yaml:"dependency,omitempty"`
	// Patterns configures the generic adapter; each pattern is a regular
	// expression with exactly one capture group around the version.
	Patterns []string `koanf:"patterns" yaml:"patterns,omitempty"`
}

// PackageConfig declares one release unit.
type PackageConfig struct {
	Name string `koanf:"name" yaml:"name" validate:"required"`
	// Path is the package root, relative to the workspace root.
	Path string `koanf:"path" yaml:"path,omitempty"`
	// Changelog is the changelog file path relative to the package path.
	// Default: CHANGELOG.md.
	Changelog string       `koanf:"changelog" yaml:"changelog,omitempty"`
	Files     []FileConfig `koanf:"files" yaml:"files" validate:"min=1,dive"`
}

// Workspace is the full relver configuration.
type Workspace struct {
	Packages []PackageConfig `koanf:"packages" yaml:"packages" validate:"min=1,dive"`

	// IgnoreCommits disables conventional-commit parsing; only change files
	// feed the release. Can be set via RELVER_IGNORE_COMMITS.
	IgnoreCommits bool `koanf:"ignore_commits" yaml:"ignore_commits"`

	// ChangesDir holds pending change files. Default: .changes.
	ChangesDir string `koanf:"changes_dir" yaml:"changes_dir"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default:
	// .relver/config.yml).
	ProjectConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr).
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings.
	SkipWarnings bool
}

// Load loads configuration from the project file and environment.
// Priority: Environment variables > Project config > Defaults.
//
// Project config path: .relver/config.yml. A legacy .relver/config.json is
// still read, with a warning pointing at 'relver config migrate'.
func Load(projectConfigPath string) (*Workspace, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Workspace, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	configPath := opts.ProjectConfigPath
	if configPath == "" {
		configPath = ProjectConfigPath()
	}

	loadDefaults(k)

	if err := loadProjectConfig(k, configPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k, configPath, warningWriter, opts.SkipWarnings)
}

// getWarningWriter returns the warning writer or defaults to stderr.
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values.
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadProjectConfig loads the project-level config, YAML preferred with
// legacy JSON supported.
func loadProjectConfig(k *koanf.Koanf, projectYAMLPath string, warningWriter io.Writer, skipWarnings bool) error {
	legacyProjectPath := LegacyProjectConfigPath()

	projectYAMLExists := fileExists(projectYAMLPath)
	legacyProjectExists := fileExists(legacyProjectPath)

	if projectYAMLExists {
		if err := loadYAMLConfig(k, projectYAMLPath); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if legacyProjectExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyProjectPath, projectYAMLPath)
			fmt.Fprintf(warningWriter, "  Run 'relver config migrate' to remove the legacy file.\n\n")
		}
	} else if legacyProjectExists {
		if err := k.Load(file.Provider(legacyProjectPath), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy JSON config %s: %w", legacyProjectPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyProjectPath)
			fmt.Fprintf(warningWriter, "  Run 'relver config migrate' to migrate to YAML format.\n\n")
		}
	}
	return nil
}

// loadYAMLConfig validates and loads a YAML config file.
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return err
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider("RELVER_", ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig applies deprecated-key fallbacks, unmarshals, and validates.
func finalizeConfig(k *koanf.Koanf, configPath string, warningWriter io.Writer, skipWarnings bool) (*Workspace, error) {
	// disable_commit_parsing predates ignore_commits; honor it when the new
	// key is absent so unmigrated configs keep working.
	if k.Exists(deprecatedIgnoreKey) && !k.Exists("ignore_commits") {
		k.Set("ignore_commits", k.Bool(deprecatedIgnoreKey))
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: '%s' is deprecated. Use 'ignore_commits' instead.\n", deprecatedIgnoreKey)
			fmt.Fprintf(warningWriter, "  Run 'relver config migrate' to update the config file.\n\n")
		}
	}

	var cfg Workspace
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateWorkspace(&cfg, configPath); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: RELVER_IGNORE_COMMITS -> ignore_commits
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "RELVER_"))
}
