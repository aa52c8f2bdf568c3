package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/kdiff/internal/cli"
	"github.com/example/kdiff/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "kdiff",
		Short:   "kdiff - differential validation for configuration resolution",
		Version: version.String(),
		Long: `kdiff cross-validates a configuration-resolution engine against the
reference tool of a source tree: it resolves all-no, default, all-yes,
and replayed configurations on every architecture and compares the
written snapshots byte for byte.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.RunCmd())
	rootCmd.AddCommand(cli.ArchsCmd())
	rootCmd.AddCommand(cli.DefconfigsCmd())
	rootCmd.AddCommand(cli.CompareCmd())
	rootCmd.AddCommand(cli.TrialsCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
