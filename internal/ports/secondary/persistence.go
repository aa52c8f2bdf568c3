package secondary

import "context"

// LedgerRepository defines the secondary port for durable trial records.
// The in-memory Result Ledger stays authoritative for the run verdict;
// this is the historical record.
type LedgerRepository interface {
	// CreateRun persists a new orchestration run.
	CreateRun(ctx context.Context, run *RunRecord) error

	// RecordTrial persists one trial outcome.
	RecordTrial(ctx context.Context, trial *TrialRecord) error

	// FinishRun stores final totals for a run.
	FinishRun(ctx context.Context, runID string, passed, failed int) error

	// ListTrials retrieves trial records matching the given filters.
	ListTrials(ctx context.Context, filters TrialFilters) ([]*TrialRecord, error)
}

// RunRecord represents one orchestration run as stored in persistence.
type RunRecord struct {
	ID        string
	Tree      string
	StartedAt string
	Passed    int
	Failed    int
}

// TrialRecord represents one trial outcome as stored in persistence.
type TrialRecord struct {
	ID        int64
	RunID     string
	Arch      string
	Scenario  string
	Defconfig string
	Verdict   string
	Detail    string
	CreatedAt string
}

// TrialFilters contains filter options for querying trials.
type TrialFilters struct {
	RunID   string
	Arch    string
	Verdict string
	Limit   int
}
