// Package primary defines the primary ports (driving interfaces) for the
// harness.
package primary

import (
	"context"

	"github.com/example/kdiff/internal/core/verdict"
)

// RunOptions controls one cross-validation run.
type RunOptions struct {
	// Scenarios limits the run to the named scenarios. Empty means all.
	Scenarios []string

	// LimitArches caps the number of architectures tested (0 = no cap).
	LimitArches int

	// LimitDefconfigs caps the replay cross product per architecture
	// (0 = no cap).
	LimitDefconfigs int
}

// RunSummary is the aggregated outcome of one cross-validation run.
type RunSummary struct {
	RunID  string
	Trials int

	// Defconfigs counts the (architecture, defconfig) replay pairs tested.
	Defconfigs int

	AllOK    bool
	Failures []verdict.TrialResult
}

// Observer receives progress as the orchestrator works. Implementations
// translate to the presentation layer; the orchestrator never prints.
type Observer interface {
	// ScenarioStarted announces a scenario with its description.
	ScenarioStarted(name, description string)

	// TrialFinished reports one recorded trial result.
	TrialFinished(result verdict.TrialResult)
}

// CrossValidationService drives the full differential run.
type CrossValidationService interface {
	// Run enumerates architectures and scenarios, records every trial in
	// the ledger, and returns the aggregated summary. A failing trial
	// never aborts the run; Run only returns an error when orchestration
	// itself cannot proceed.
	Run(ctx context.Context, opts RunOptions, obs Observer) (*RunSummary, error)
}
