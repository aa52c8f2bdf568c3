package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kdiff/internal/wire"
)

// ArchsCmd returns the archs command.
func ArchsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archs",
		Short: "List enumerated architectures",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := wire.ArchSource().ListArches()
			if err != nil {
				return fmt.Errorf("failed to enumerate architectures: %w", err)
			}
			for _, t := range targets {
				if t.Arch == t.SrcArch {
					fmt.Println(t.Arch)
				} else {
					fmt.Printf("%s (srcarch %s)\n", t.Arch, t.SrcArch)
				}
			}
			return nil
		},
	}
}
