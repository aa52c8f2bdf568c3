package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/example/kdiff/internal/config"
	"github.com/example/kdiff/internal/core/verdict"
	"github.com/example/kdiff/internal/ports/primary"
	"github.com/example/kdiff/internal/ports/secondary"
)

// Orchestrator implements the cross-validation service: it enumerates
// architectures and defconfigs, drives trial after trial, and aggregates
// verdicts. A failing trial is recorded and the run continues; only the
// summary is loud about failures.
type Orchestrator struct {
	cfg        *config.Config
	arches     secondary.ArchSource
	engines    secondary.EngineProvider
	trials     *TrialRunner
	ledgerRepo secondary.LedgerRepository
	now        func() time.Time
}

// NewOrchestrator creates an orchestrator with injected dependencies.
func NewOrchestrator(
	cfg *config.Config,
	arches secondary.ArchSource,
	engines secondary.EngineProvider,
	trials *TrialRunner,
	ledgerRepo secondary.LedgerRepository,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		arches:     arches,
		engines:    engines,
		trials:     trials,
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

// Run executes the full cross-validation.
func (o *Orchestrator) Run(ctx context.Context, opts primary.RunOptions, obs primary.Observer) (*primary.RunSummary, error) {
	if obs == nil {
		obs = nopObserver{}
	}

	scenarios, err := selectScenarios(opts.Scenarios)
	if err != nil {
		return nil, err
	}

	// A stray bulk-override variable would silently change what every
	// trial resolves.
	os.Unsetenv("KCONFIG_ALLCONFIG")

	targets, err := o.arches.ListArches()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate architectures: %w", err)
	}
	if opts.LimitArches > 0 && len(targets) > opts.LimitArches {
		targets = targets[:opts.LimitArches]
	}

	defconfigs, err := o.arches.ListDefconfigs()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate defconfigs: %w", err)
	}
	if opts.LimitDefconfigs > 0 && len(defconfigs) > opts.LimitDefconfigs {
		defconfigs = defconfigs[:opts.LimitDefconfigs]
	}

	ledger := verdict.NewLedger()
	runID := uuid.NewString()
	if err := o.ledgerRepo.CreateRun(ctx, &secondary.RunRecord{
		ID:        runID,
		Tree:      o.cfg.Tree,
		StartedAt: o.now().UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("failed to create run record: %w", err)
	}

	// One engine per architecture for the whole run; state is reset
	// between scenarios. An unloadable architecture fails every one of
	// its trials instead of aborting the run.
	engines := make(map[string]secondary.Engine, len(targets))
	loadErrs := make(map[string]error, len(targets))
	for _, target := range targets {
		eng, err := o.engines.NewEngine(target)
		if err != nil {
			loadErrs[target.Arch] = err
			continue
		}
		engines[target.Arch] = eng
	}

	replayPairs := 0
	for _, sc := range scenarios {
		obs.ScenarioStarted(string(sc), Descriptions[sc])

		for _, target := range targets {
			eng, ok := engines[target.Arch]
			if !ok {
				o.record(ctx, ledger, obs, runID, verdict.TrialResult{
					Arch:     target.Arch,
					Scenario: string(sc),
					Verdict:  verdict.Fail,
					Detail:   fmt.Sprintf("engine load failed: %v", loadErrs[target.Arch]),
				})
				continue
			}
			eng.Reset()

			if sc != ScenarioReplay {
				o.record(ctx, ledger, obs, runID, o.trials.Run(ctx, eng, sc, secondary.Defconfig{}))
				continue
			}

			for _, dc := range defconfigs {
				replayPairs++
				result := o.trials.Run(ctx, eng, sc, dc)
				o.record(ctx, ledger, obs, runID, result)
				if result.Failed() {
					o.logFailure(result)
				}
			}
		}
	}

	passed := ledger.Count() - len(ledger.Failures())
	if err := o.ledgerRepo.FinishRun(ctx, runID, passed, len(ledger.Failures())); err != nil {
		return nil, fmt.Errorf("failed to finish run record: %w", err)
	}

	return &primary.RunSummary{
		RunID:      runID,
		Trials:     ledger.Count(),
		Defconfigs: replayPairs,
		AllOK:      ledger.AllPassed(),
		Failures:   ledger.Failures(),
	}, nil
}

// record stores one result in the ledger and the durable repository and
// notifies the observer. The in-memory ledger is authoritative for the
// run verdict; a failure to persist the durable copy is logged and the
// run continues.
func (o *Orchestrator) record(ctx context.Context, ledger *verdict.Ledger, obs primary.Observer, runID string, result verdict.TrialResult) {
	ledger.Record(result)
	obs.TrialFinished(result)

	record := &secondary.TrialRecord{
		RunID:     runID,
		Arch:      result.Arch,
		Scenario:  result.Scenario,
		Defconfig: result.Defconfig,
		Verdict:   string(result.Verdict),
		Detail:    result.Detail,
	}
	if err := o.ledgerRepo.RecordTrial(ctx, record); err != nil {
		log.Printf("failed to persist trial record: %v", err)
	}
}

// logFailure appends a timestamped record to the persistent failure log.
func (o *Orchestrator) logFailure(result verdict.TrialResult) {
	f, err := os.OpenFile(o.cfg.FailLogPath(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	stamp := o.now().Format("02 Jan 2006 15:04:05")
	fmt.Fprintf(f, "%s  %s with %s did not match\n", stamp, result.Arch, result.Defconfig)
}

func selectScenarios(names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return AllScenarios, nil
	}
	var out []Scenario
	for _, name := range names {
		sc, err := ParseScenario(name)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

type nopObserver struct{}

func (nopObserver) ScenarioStarted(string, string)    {}
func (nopObserver) TrialFinished(verdict.TrialResult) {}

var _ primary.CrossValidationService = (*Orchestrator)(nil)
