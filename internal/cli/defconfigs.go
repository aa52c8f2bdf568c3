package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kdiff/internal/wire"
)

// DefconfigsCmd returns the defconfigs command.
func DefconfigsCmd() *cobra.Command {
	var arch string

	cmd := &cobra.Command{
		Use:   "defconfigs",
		Short: "List enumerated defconfig snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			defconfigs, err := wire.ArchSource().ListDefconfigs()
			if err != nil {
				return fmt.Errorf("failed to enumerate defconfigs: %w", err)
			}
			for _, dc := range defconfigs {
				if arch != "" && dc.Arch != arch {
					continue
				}
				fmt.Println(dc.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&arch, "arch", "", "only list defconfigs from this arch directory")

	return cmd
}
