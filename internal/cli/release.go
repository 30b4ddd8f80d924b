package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ariel-frischer/relver/internal/config"
	"github.com/ariel-frischer/relver/internal/output"
	"github.com/ariel-frischer/relver/internal/release"
)

var (
	releaseDryRunFlag bool
	releaseSinceFlag  string
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Resolve versions, patch files, and update changelogs",
	Long: `Run the full release: resolve every package's next version from its
pending changes, patch each declared file, prepend changelog sections,
and delete the consumed change files.

All computation happens before the first write. If any package fails to
resolve, nothing is written anywhere.

Examples:
  relver release
  relver release --dry-run
  relver release --since v1.2.3`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}

		stop := startSpinner("planning release...")
		plan, err := computePlan(cmd, cfg, releaseSinceFlag)
		stop()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if plan.Empty() {
			output.PrintSummaries(out, plan.Summaries)
			output.PrintNothingToRelease(out)
			return nil
		}

		if releaseDryRunFlag {
			output.PrintDryRunBanner(out)
			output.PrintSummaries(out, plan.Summaries)
			fmt.Fprintln(out, "\nWould write:")
			output.PrintActions(out, plan.Actions)
			return nil
		}

		if err := release.Commit(plan); err != nil {
			return err
		}

		output.PrintSummaries(out, plan.Summaries)
		output.PrintSuccess(out, fmt.Sprintf("Wrote %d files", len(plan.Actions)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)
	releaseCmd.Flags().BoolVar(&releaseDryRunFlag, "dry-run", false, "Compute and print the plan without writing any file")
	releaseCmd.Flags().StringVar(&releaseSinceFlag, "since", "", "Only read commits after this revision (e.g. the last release tag)")
}

// startSpinner starts a stderr spinner when attached to a terminal and
// returns the function that stops it. A no-op otherwise.
func startSpinner(message string) func() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}
