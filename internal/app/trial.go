package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/kdiff/internal/config"
	"github.com/example/kdiff/internal/core/resolve"
	"github.com/example/kdiff/internal/core/snapshot"
	"github.com/example/kdiff/internal/core/verdict"
	"github.com/example/kdiff/internal/ports/secondary"
)

// TrialRunner executes exactly one (architecture, scenario) trial.
type TrialRunner struct {
	cfg *config.Config
	ref secondary.ReferenceTool
}

// NewTrialRunner creates a trial runner with injected dependencies.
func NewTrialRunner(cfg *config.Config, ref secondary.ReferenceTool) *TrialRunner {
	return &TrialRunner{cfg: cfg, ref: ref}
}

// Run drives one trial: clear stale snapshots, resolve or replay, invoke
// the reference tool, compare. The returned result is always populated;
// failure of any step becomes a failing verdict, never an error, so a bad
// trial cannot abort the run.
func (r *TrialRunner) Run(ctx context.Context, eng secondary.Engine, sc Scenario, dc secondary.Defconfig) verdict.TrialResult {
	result := verdict.TrialResult{
		Arch:     eng.Arch(),
		Scenario: string(sc),
		Verdict:  verdict.Pass,
	}
	if sc == ScenarioReplay {
		result.Defconfig = dc.Path
	}

	// Stale snapshots are removed at the start, not the end, so a
	// crashed prior trial cannot poison this one.
	if err := r.clearSnapshots(); err != nil {
		return failed(result, err.Error())
	}

	if sc == ScenarioIntrospect {
		if err := introspect(eng); err != nil {
			return failed(result, err.Error())
		}
		return result
	}

	target := secondary.ArchTarget{Arch: eng.Arch(), SrcArch: eng.SrcArch()}
	op, err := r.prepare(eng, sc, dc)
	if err != nil {
		return failed(result, err.Error())
	}
	if err := eng.WriteConfig(r.cfg.OurConfigPath()); err != nil {
		return failed(result, err.Error())
	}

	invokeCtx := ctx
	if r.cfg.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		invokeCtx, cancel = context.WithTimeout(ctx, time.Duration(r.cfg.TimeoutSeconds)*time.Second)
		defer cancel()
	}
	if err := r.ref.Invoke(invokeCtx, target, op); err != nil {
		// Distinguish a broken reference process from a real mismatch.
		return failed(result, fmt.Sprintf("reference tool failed: %v", err))
	}

	refSnap, err := snapshot.Load(r.cfg.RefConfigPath())
	if err != nil {
		return failed(result, err.Error())
	}
	ourSnap, err := snapshot.Load(r.cfg.OurConfigPath())
	if err != nil {
		return failed(result, err.Error())
	}
	if !snapshot.Equal(refSnap, ourSnap) {
		return failed(result, "snapshots differ")
	}
	return result
}

// prepare drives the engine for the scenario and returns the reference
// operation to mirror it.
func (r *TrialRunner) prepare(eng secondary.Engine, sc Scenario, dc secondary.Defconfig) (secondary.ReferenceOp, error) {
	switch sc {
	case ScenarioAllNo:
		resolve.AllNo(eng)
		return secondary.OpAllNo, nil
	case ScenarioAllYes:
		resolve.AllYes(eng)
		return secondary.OpAllYes, nil
	case ScenarioAbsent:
		// No prior snapshot, no resolution: the engine's initial computed
		// state against the reference alldefconfig.
		return secondary.OpAllDef, nil
	case ScenarioReplay:
		path := filepath.Join(r.cfg.Tree, dc.Path)
		if err := eng.LoadConfig(path); err != nil {
			return "", err
		}
		// The reference tool resolves from its own snapshot location, so
		// seed it with the same defconfig rather than going through any
		// per-arch defconfig target; that is what lets nonsensical
		// arch/defconfig pairings run at all.
		if err := copyFile(path, r.cfg.RefConfigPath()); err != nil {
			return "", err
		}
		return secondary.OpDefault, nil
	}
	return "", fmt.Errorf("unknown scenario %q", sc)
}

func (r *TrialRunner) clearSnapshots() error {
	for _, path := range []string{r.cfg.RefConfigPath(), r.cfg.OurConfigPath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear snapshot %s: %w", path, err)
		}
	}
	return nil
}

func failed(result verdict.TrialResult, detail string) verdict.TrialResult {
	result.Verdict = verdict.Fail
	result.Detail = detail
	return result
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// introspect sweeps every accessor on every symbol and choice and probes
// expression evaluation, reporting the first inconsistency found.
func introspect(eng secondary.Engine) error {
	if _, err := eng.Eval("y && ARCH"); err != nil {
		return fmt.Errorf("well-formed expression rejected: %w", err)
	}
	if _, err := eng.Eval("y && && y"); !errors.Is(err, secondary.ErrSyntax) {
		return fmt.Errorf("no syntax error for malformed expression (got %v)", err)
	}

	for _, sym := range eng.Symbols() {
		sym.Type()
		sym.Value()
		sym.UserValue()
		sym.LowerBound()
		sym.UpperBound()
		sym.Visibility()
		sym.IsChoiceMember()
		sym.RefLocations()

		if sym.IsDefined() {
			if len(sym.DefLocations()) == 0 {
				return fmt.Errorf("symbol %s is defined but lacks recorded locations", sym.Name())
			}
		} else {
			if len(sym.DefLocations()) != 0 {
				return fmt.Errorf("symbol %s is undefined but has recorded locations", sym.Name())
			}
			if len(sym.RefLocations()) == 0 {
				return fmt.Errorf("symbol %s is both undefined and unreferenced", sym.Name())
			}
		}

		if lo, ok := sym.LowerBound(); ok {
			hi, hiOK := sym.UpperBound()
			if !hiOK {
				return fmt.Errorf("symbol %s has a lower bound but no upper bound", sym.Name())
			}
			if v := sym.Value(); v < lo || v > hi {
				return fmt.Errorf("symbol %s value %v outside [%v, %v]", sym.Name(), v, lo, hi)
			}
		}
	}

	for _, ch := range eng.Choices() {
		ch.Name()
		ch.Visibility()
		ch.Mode()
		ch.Selection()
		ch.DefaultSelection()
		ch.UserSelection()
		ch.IsOptional()

		for _, member := range ch.Members() {
			if !member.IsChoiceMember() {
				return fmt.Errorf("choice member %s does not report membership", member.Name())
			}
		}
	}
	return nil
}
