// Package reftool invokes the trusted reference implementation as an
// external process.
package reftool

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/example/kdiff/internal/config"
	"github.com/example/kdiff/internal/ports/secondary"
)

// Tool runs the reference command inside the tree with the target's
// architecture selection in the child environment.
type Tool struct {
	cfg *config.Config
}

// NewTool creates a reference-tool adapter.
func NewTool(cfg *config.Config) *Tool {
	return &Tool{cfg: cfg}
}

// Invoke runs the configured command with the operation appended, e.g.
// "make allnoconfig". Output is captured and only surfaced on failure.
func (t *Tool) Invoke(ctx context.Context, target secondary.ArchTarget, op secondary.ReferenceOp) error {
	argv := append(append([]string{}, t.cfg.RefCommand...), string(op))
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = t.cfg.Tree
	cmd.Env = t.environ(target)

	output, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, msg)
		}
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}

// environ builds the child environment: the parent environment with
// ARCH/SRCARCH/KERNELVERSION pinned and KCONFIG_ALLCONFIG scrubbed.
func (t *Tool) environ(target secondary.ArchTarget) []string {
	drop := map[string]bool{
		"ARCH":              true,
		"SRCARCH":           true,
		"KERNELVERSION":     true,
		"KCONFIG_ALLCONFIG": true,
	}

	var env []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if !drop[name] {
			env = append(env, kv)
		}
	}
	return append(env,
		"ARCH="+target.Arch,
		"SRCARCH="+target.SrcArch,
		"KERNELVERSION="+t.cfg.KernelVersion,
	)
}

var _ secondary.ReferenceTool = (*Tool)(nil)
