package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/kdiff/internal/core/snapshot"
)

// CompareCmd returns the compare command, a standalone run of the
// header-aware snapshot comparator.
func CompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <file> <file>",
		Short: "Compare two configuration snapshots",
		Long: `Compare reads two snapshot files and compares their bodies, skipping
any leading generated-file header on either side. Exits 0 when the
snapshots match and 1 when they differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := snapshot.Load(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			b, err := snapshot.Load(args[1])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[1], err)
			}

			if snapshot.Equal(a, b) {
				color.New(color.FgGreen).Println("match")
				return nil
			}
			color.New(color.FgRed).Println("differ")
			os.Exit(1)
			return nil
		},
	}
}
