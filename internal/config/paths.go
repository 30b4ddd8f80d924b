package config

import "path/filepath"

// ProjectConfigPath returns the path to the project-level config file.
// This is always .relver/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".relver", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".relver"
}

// LegacyProjectConfigPath returns the path to the legacy project-level JSON
// config file. This was the old location: .relver/config.json
func LegacyProjectConfigPath() string {
	return filepath.Join(".relver", "config.json")
}
