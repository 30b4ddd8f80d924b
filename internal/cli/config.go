package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/relver/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relver configuration",
	Long:  `Commands for inspecting and migrating the relver configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the fully resolved configuration: defaults, the project config
file, and environment overrides merged in priority order.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("serializing config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configMigrateDryRunFlag bool

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the config file to the current format",
	Long: `Migrate the project configuration: convert a legacy .relver/config.json
to YAML and rename deprecated keys (disable_commit_parsing becomes
ignore_commits). Safe to re-run; already-migrated configs are left alone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := config.MigrateProjectConfig(configMigrateDryRunFlag)
		if err != nil {
			return err
		}
		for _, r := range results {
			fmt.Fprintln(cmd.OutOrStdout(), r.Message)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented starter config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := writeStarterConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

// writeStarterConfig writes the commented template config, refusing to
// overwrite an existing one.
func writeStarterConfig() (string, error) {
	path := config.ProjectConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(config.ProjectConfigDir(), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return path, nil
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configMigrateCmd)
	configCmd.AddCommand(configInitCmd)

	configMigrateCmd.Flags().BoolVar(&configMigrateDryRunFlag, "dry-run", false, "Report planned migrations without writing")
}
