package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/kdiff/internal/db"
	"github.com/example/kdiff/internal/wire"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the kdiff environment",
		Long: `Environment health check for kdiff.

Validates:
- Source tree presence (arch/ directory under the configured tree)
- Reference tool binary on PATH
- Ledger database path writable

Examples:
  kdiff doctor            # Run full health check
  kdiff doctor --quiet    # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := []CheckResult{
				checkTree(),
				checkRefTool(),
				checkLedger(),
			}

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						fmt.Printf("%s:\n  %s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\nIssues found.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&quiet, "quiet", false, "exit code only, no output")

	return cmd
}

func checkTree() CheckResult {
	cfg := wire.Config()
	archDir := filepath.Join(cfg.Tree, "arch")
	info, err := os.Stat(archDir)
	if err != nil || !info.IsDir() {
		return CheckResult{
			Name:    "source tree",
			Status:  "✗",
			Details: fmt.Sprintf("no arch/ directory under %s", cfg.Tree),
		}
	}
	return CheckResult{Name: "source tree", Status: "✓"}
}

func checkRefTool() CheckResult {
	cfg := wire.Config()
	if len(cfg.RefCommand) == 0 {
		return CheckResult{
			Name:    "reference tool",
			Status:  "✗",
			Details: "ref_command is empty",
		}
	}
	if _, err := exec.LookPath(cfg.RefCommand[0]); err != nil {
		return CheckResult{
			Name:    "reference tool",
			Status:  "✗",
			Details: fmt.Sprintf("%s not found on PATH", cfg.RefCommand[0]),
		}
	}
	return CheckResult{Name: "reference tool", Status: "✓"}
}

func checkLedger() CheckResult {
	path, err := db.GetDBPath()
	if err != nil {
		return CheckResult{
			Name:    "ledger database",
			Status:  "✗",
			Details: err.Error(),
		}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return CheckResult{
			Name:    "ledger database",
			Status:  "✗",
			Details: fmt.Sprintf("cannot create %s: %v", dir, err),
		}
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return CheckResult{
			Name:    "ledger database",
			Status:  "✗",
			Details: fmt.Sprintf("%s not writable: %v", dir, err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())
	return CheckResult{Name: "ledger database", Status: "✓"}
}
