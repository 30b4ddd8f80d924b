// Package cli implements the relver command surface. Commands are thin:
// they load configuration, assemble the workspace, and delegate to the
// release pipeline.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relver/internal/gitlog"
	"github.com/ariel-frischer/relver/internal/version"
)

var (
	configFlag string
	debugFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "relver",
	Short: "Version resolution and file patching for releases",
	Long: `relver resolves the next version of every package in a workspace from
its pending changes (conventional commits and change files), patches each
declared versioned file in place, and prepends a changelog section -
atomically, across every package at once.`,
	Example: `  # Show what the next release would do
  relver plan

  # Release: patch files, write changelogs, delete consumed change files
  relver release

  # Compute everything but write nothing
  relver release --dry-run

  # Preview the changelog section one package would gain
  relver changelog preview my-package`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debugFlag {
			gitlog.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
			})
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (default .relver/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
}
