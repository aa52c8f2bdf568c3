// Package verdict contains the trial-result and ledger value objects.
// This is part of the Functional Core - no I/O.
package verdict

// Verdict is the outcome of one trial.
type Verdict string

const (
	Pass Verdict = "pass"
	Fail Verdict = "fail"
)

// TrialResult captures the outcome of one (architecture, scenario) trial.
type TrialResult struct {
	Arch     string
	Scenario string

	// Defconfig is the replayed snapshot path, empty for other scenarios.
	Defconfig string

	Verdict Verdict

	// Detail explains a failure: "snapshots differ", a reference-tool
	// process error, or an engine-health finding. Empty on pass.
	Detail string
}

// Failed reports whether the trial failed.
func (r TrialResult) Failed() bool {
	return r.Verdict == Fail
}

// Ledger accumulates trial results over one orchestration run. It is
// created at run start, passed by reference, and read once at run end;
// there is no ambient global state.
type Ledger struct {
	results []TrialResult
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record appends one trial result.
func (l *Ledger) Record(r TrialResult) {
	l.results = append(l.results, r)
}

// AllPassed reports whether every recorded trial passed.
func (l *Ledger) AllPassed() bool {
	for _, r := range l.results {
		if r.Failed() {
			return false
		}
	}
	return true
}

// Count returns the number of recorded trials.
func (l *Ledger) Count() int {
	return len(l.results)
}

// Failures returns the failed trials in record order.
func (l *Ledger) Failures() []TrialResult {
	var failed []TrialResult
	for _, r := range l.results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Results returns all recorded trials in record order.
func (l *Ledger) Results() []TrialResult {
	return l.results
}
