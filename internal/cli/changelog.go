package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relver/internal/change"
	"github.com/ariel-frischer/relver/internal/changelog"
	"github.com/ariel-frischer/relver/internal/config"
	"github.com/ariel-frischer/relver/internal/semver"
)

var (
	previewPlainFlag bool
	previewSinceFlag string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Work with changelog sections",
}

var changelogPreviewCmd = &cobra.Command{
	Use:   "preview <package>",
	Short: "Render the changelog section the next release would prepend",
	Long: `Render the changelog section one package would gain from its pending
changes, without touching any file.

Examples:
  relver changelog preview my-package
  relver changelog preview my-package --plain`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pkgName := args[0]

		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}

		var pc *config.PackageConfig
		for i := range cfg.Packages {
			if cfg.Packages[i].Name == pkgName {
				pc = &cfg.Packages[i]
				break
			}
		}
		if pc == nil {
			return fmt.Errorf("unknown package %q", pkgName)
		}

		warn := func(format string, args ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		}
		records, err := collectRecords(cfg, previewSinceFlag, warn)
		if err != nil {
			return formatted(err)
		}

		pkg, err := buildPackage(*pc)
		if err != nil {
			return formatted(err)
		}

		defaultPkg := cfg.Packages[0].Name
		rs := change.ForPackage(records, pkgName, defaultPkg)
		if len(rs) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No pending changes for %s.\n", pkgName)
			return nil
		}

		next, err := semver.Resolve(pkg.Current, change.Bump(rs, pkg.Current))
		if err != nil {
			return formatted(err)
		}

		entry := changelog.NewEntry(next.String(), time.Now(), rs)
		return changelog.Preview(entry, cmd.OutOrStdout(), previewPlainFlag)
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogPreviewCmd)

	changelogPreviewCmd.Flags().BoolVar(&previewPlainFlag, "plain", false, "Plain text output (no colors)")
	changelogPreviewCmd.Flags().StringVar(&previewSinceFlag, "since", "", "Only read commits after this revision")
}
