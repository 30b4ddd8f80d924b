package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MigrationResult describes the outcome of a migration operation.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Success    bool
	DryRun     bool
	Message    string
}

// MigrateProjectConfig runs every applicable migration for the project
// config, in order:
//
//  1. Legacy JSON (.relver/config.json) is converted to YAML, unless a YAML
//     config already exists.
//  2. The deprecated disable_commit_parsing key is renamed to
//     ignore_commits inside the YAML config.
//
// Both steps are idempotent: re-running on an already-migrated config is a
// no-op reported as such.
func MigrateProjectConfig(dryRun bool) ([]*MigrationResult, error) {
	var results []*MigrationResult

	jsonResult, err := MigrateJSONToYAML(LegacyProjectConfigPath(), ProjectConfigPath(), dryRun)
	if err != nil {
		return nil, err
	}
	results = append(results, jsonResult)

	keyResult, err := MigrateDeprecatedKeys(ProjectConfigPath(), dryRun)
	if err != nil {
		return nil, err
	}
	results = append(results, keyResult)

	return results, nil
}

// MigrateJSONToYAML converts a JSON config file to YAML format.
//
// Safety features:
//   - Dry-run mode reports the planned action without writing
//   - Skips if YAML already exists (no overwrite)
//   - Creates parent directories as needed
//   - Adds header comment to output YAML
func MigrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No JSON config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read JSON config: %w", err)
	}

	var configData map[string]interface{}
	if err := json.Unmarshal(jsonData, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse JSON config: %w", err)
	}

	if _, err := os.Stat(yamlPath); err == nil {
		result.Message = fmt.Sprintf("YAML config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would migrate %s to %s", jsonPath, yamlPath)
		return result, nil
	}

	renameDeprecatedKeys(configData)

	yamlData, err := yaml.Marshal(configData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(yamlPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	header := "# Relver Configuration\n# Migrated from JSON format\n\n"
	if err := os.WriteFile(yamlPath, []byte(header+string(yamlData)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write YAML config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Migrated %s to %s", jsonPath, yamlPath)
	return result, nil
}

// MigrateDeprecatedKeys rewrites a YAML config in place, renaming the
// deprecated disable_commit_parsing key to ignore_commits. An explicit
// ignore_commits value always wins; the deprecated key is dropped either
// way.
func MigrateDeprecatedKeys(yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: yamlPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	data, err := os.ReadFile(yamlPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("No config found at %s", yamlPath)
			return result, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var configData map[string]interface{}
	if err := yaml.Unmarshal(data, &configData); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if _, deprecated := configData[deprecatedIgnoreKey]; !deprecated {
		result.Message = fmt.Sprintf("No deprecated keys in %s", yamlPath)
		return result, nil
	}

	if dryRun {
		result.Success = true
		result.Message = fmt.Sprintf("Would rename %s to ignore_commits in %s", deprecatedIgnoreKey, yamlPath)
		return result, nil
	}

	renameDeprecatedKeys(configData)

	yamlData, err := yaml.Marshal(configData)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}

	header := "# Relver Configuration\n\n"
	if err := os.WriteFile(yamlPath, []byte(header+string(yamlData)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}

	result.Success = true
	result.Message = fmt.Sprintf("Renamed %s to ignore_commits in %s", deprecatedIgnoreKey, yamlPath)
	return result, nil
}

// renameDeprecatedKeys applies in-place key renames to raw config data.
func renameDeprecatedKeys(configData map[string]interface{}) {
	if v, ok := configData[deprecatedIgnoreKey]; ok {
		if _, exists := configData["ignore_commits"]; !exists {
			configData["ignore_commits"] = v
		}
		delete(configData, deprecatedIgnoreKey)
	}
}
