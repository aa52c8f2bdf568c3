// Package sqlite contains the SQLite implementation of the ledger
// repository interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/kdiff/internal/ports/secondary"
)

// LedgerRepository implements secondary.LedgerRepository with SQLite.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateRun persists a new orchestration run.
func (r *LedgerRepository) CreateRun(ctx context.Context, run *secondary.RunRecord) error {
	startedAt := run.StartedAt
	if startedAt == "" {
		startedAt = time.Now().UTC().Format(time.RFC3339)
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO runs (id, tree, started_at) VALUES (?, ?, ?)",
		run.ID, run.Tree, startedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// RecordTrial persists one trial outcome.
func (r *LedgerRepository) RecordTrial(ctx context.Context, trial *secondary.TrialRecord) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO trials (run_id, arch, scenario, defconfig, verdict, detail) VALUES (?, ?, ?, ?, ?, ?)",
		trial.RunID, trial.Arch, trial.Scenario, trial.Defconfig, trial.Verdict, trial.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record trial: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		trial.ID = id
	}
	return nil
}

// FinishRun stores final totals for a run.
func (r *LedgerRepository) FinishRun(ctx context.Context, runID string, passed, failed int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE runs SET passed = ?, failed = ?, finished_at = ? WHERE id = ?",
		passed, failed, time.Now().UTC().Format(time.RFC3339), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("run %s not found", runID)
	}
	return nil
}

// ListTrials retrieves trial records matching the given filters.
func (r *LedgerRepository) ListTrials(ctx context.Context, filters secondary.TrialFilters) ([]*secondary.TrialRecord, error) {
	query := "SELECT id, run_id, arch, scenario, defconfig, verdict, detail, created_at FROM trials WHERE 1=1"
	var args []any

	if filters.RunID != "" {
		query += " AND run_id = ?"
		args = append(args, filters.RunID)
	}
	if filters.Arch != "" {
		query += " AND arch = ?"
		args = append(args, filters.Arch)
	}
	if filters.Verdict != "" {
		query += " AND verdict = ?"
		args = append(args, filters.Verdict)
	}
	query += " ORDER BY id"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trials: %w", err)
	}
	defer rows.Close()

	var trials []*secondary.TrialRecord
	for rows.Next() {
		record := &secondary.TrialRecord{}
		if err := rows.Scan(&record.ID, &record.RunID, &record.Arch, &record.Scenario,
			&record.Defconfig, &record.Verdict, &record.Detail, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trial: %w", err)
		}
		trials = append(trials, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trials: %w", err)
	}
	return trials, nil
}

var _ secondary.LedgerRepository = (*LedgerRepository)(nil)
