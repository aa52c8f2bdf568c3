// Package cli contains the cobra commands for kdiff.
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kdiff/internal/core/verdict"
	"github.com/example/kdiff/internal/ports/primary"
	"github.com/example/kdiff/internal/wire"
)

// consoleObserver prints progress lines as trials finish.
type consoleObserver struct {
	ok   *color.Color
	fail *color.Color
}

func newConsoleObserver() *consoleObserver {
	return &consoleObserver{
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
	}
}

func (o *consoleObserver) ScenarioStarted(name, description string) {
	fmt.Printf("\n%s: %s\n", name, description)
}

func (o *consoleObserver) TrialFinished(result verdict.TrialResult) {
	if result.Defconfig != "" {
		fmt.Printf("  %-14swith %-60s ", result.Arch, result.Defconfig)
	} else {
		fmt.Printf("  %-14s", result.Arch)
	}
	if result.Failed() {
		o.fail.Println("FAIL")
		if result.Detail != "" {
			fmt.Printf("    %s\n", result.Detail)
		}
	} else {
		o.ok.Println("OK")
	}
}

// RunCmd returns the run command, the full cross-validation.
func RunCmd() *cobra.Command {
	var (
		scenarios       []string
		limitArches     int
		limitDefconfigs int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full differential cross-validation",
		Long: `Run resolves and replays configurations on every enumerated
architecture, invokes the reference tool for the same operation, and
compares the resulting snapshots byte for byte.

A failing trial never aborts the run; the summary reports every failure.

Examples:
  kdiff run                         # all scenarios, all architectures
  kdiff run --scenario allno        # one scenario
  kdiff run --limit-arches 3        # quick smoke pass`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := wire.CrossValidationService()
			opts := primary.RunOptions{
				Scenarios:       scenarios,
				LimitArches:     limitArches,
				LimitDefconfigs: limitDefconfigs,
			}

			summary, err := svc.Run(cmd.Context(), opts, newConsoleObserver())
			if err != nil {
				return err
			}

			fmt.Println()
			if summary.AllOK {
				color.New(color.FgGreen).Printf("All OK\n")
				fmt.Printf("%d trials, %d (arch, defconfig) pairs\n",
					summary.Trials, summary.Defconfigs)
				return nil
			}

			color.New(color.FgRed).Printf("Some tests failed\n")
			fmt.Printf("%d of %d trials failed\n", len(summary.Failures), summary.Trials)
			for _, f := range summary.Failures {
				if f.Defconfig != "" {
					fmt.Printf("  %s/%s with %s: %s\n", f.Arch, f.Scenario, f.Defconfig, f.Detail)
				} else {
					fmt.Printf("  %s/%s: %s\n", f.Arch, f.Scenario, f.Detail)
				}
			}
			os.Exit(1)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scenarios, "scenario", nil,
		"scenario to run (repeatable; default all)")
	cmd.Flags().IntVar(&limitArches, "limit-arches", 0,
		"cap the number of architectures tested (0 = no cap)")
	cmd.Flags().IntVar(&limitDefconfigs, "limit-defconfigs", 0,
		"cap the replay cross product per architecture (0 = no cap)")

	return cmd
}
