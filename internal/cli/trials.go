package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kdiff/internal/ports/secondary"
	"github.com/example/kdiff/internal/wire"
)

// TrialsCmd returns the trials command, querying the durable ledger.
func TrialsCmd() *cobra.Command {
	var (
		runID    string
		arch     string
		failures bool
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "trials",
		Short: "List recorded trial outcomes",
		Long: `Trials queries the ledger database for past trial outcomes.

Examples:
  kdiff trials --failures          # every recorded failure
  kdiff trials --run <id>          # one run's trials
  kdiff trials --arch x86 -n 20    # recent x86 trials`,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := secondary.TrialFilters{
				RunID: runID,
				Arch:  arch,
				Limit: limit,
			}
			if failures {
				filters.Verdict = "fail"
			}

			records, err := wire.LedgerRepository().ListTrials(cmd.Context(), filters)
			if err != nil {
				return fmt.Errorf("failed to query trials: %w", err)
			}
			if len(records) == 0 {
				fmt.Println("No trials recorded.")
				return nil
			}

			failColor := color.New(color.FgRed)
			okColor := color.New(color.FgGreen)
			for _, r := range records {
				verdict := okColor.Sprint("pass")
				if r.Verdict == "fail" {
					verdict = failColor.Sprint("fail")
				}
				line := fmt.Sprintf("%s  %-14s%-12s%s", r.CreatedAt, r.Arch, r.Scenario, verdict)
				if r.Defconfig != "" {
					line += "  " + r.Defconfig
				}
				if r.Detail != "" {
					line += "  (" + r.Detail + ")"
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "only trials from this run")
	cmd.Flags().StringVar(&arch, "arch", "", "only trials for this architecture")
	cmd.Flags().BoolVar(&failures, "failures", false, "only failed trials")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "cap the number of rows (0 = no cap)")

	return cmd
}
