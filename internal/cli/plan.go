package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relver/internal/config"
	"github.com/ariel-frischer/relver/internal/errors"
	"github.com/ariel-frischer/relver/internal/output"
	"github.com/ariel-frischer/relver/internal/release"
)

var planSinceFlag string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what the next release would do without writing anything",
	Long: `Compute the full release plan - next version per package, files that
would change, change files that would be consumed - and print it. Never
writes a file.

Examples:
  relver plan
  relver plan --since v1.2.3   # only commits after the v1.2.3 tag`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFlag)
		if err != nil {
			return err
		}

		plan, err := computePlan(cmd, cfg, planSinceFlag)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		output.PrintSummaries(out, plan.Summaries)
		if plan.Empty() {
			output.PrintNothingToRelease(out)
			return nil
		}
		fmt.Fprintln(out, "\nWould write:")
		output.PrintActions(out, plan.Actions)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&planSinceFlag, "since", "", "Only read commits after this revision (e.g. the last release tag)")
}

// computePlan is the shared plan path for the plan and release commands.
func computePlan(cmd *cobra.Command, cfg *config.Workspace, sinceRev string) (*release.Plan, error) {
	warn := func(format string, args ...any) {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}

	records, err := collectRecords(cfg, sinceRev, warn)
	if err != nil {
		return nil, formatted(err)
	}

	w, err := buildWorkspace(cfg)
	if err != nil {
		return nil, formatted(err)
	}

	p, err := w.Plan(records)
	if err != nil {
		return nil, formatted(err)
	}
	return p, nil
}

// formatted renders release errors with their remediation hints; other
// errors pass through untouched.
func formatted(err error) error {
	if re := errors.AsReleaseError(err); re != nil {
		return fmt.Errorf("%s", errors.FormatError(re))
	}
	return err
}
