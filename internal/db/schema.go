package db

// GetSchemaSQL returns the authoritative schema. Tests must use this
// instead of hardcoding CREATE TABLE statements, so test and production
// schemas cannot drift.
func GetSchemaSQL() string {
	return `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    tree TEXT NOT NULL,
    started_at TEXT NOT NULL,
    passed INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    finished_at TEXT
);

CREATE TABLE IF NOT EXISTS trials (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(id),
    arch TEXT NOT NULL,
    scenario TEXT NOT NULL,
    defconfig TEXT NOT NULL DEFAULT '',
    verdict TEXT NOT NULL,
    detail TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_trials_run ON trials(run_id);
CREATE INDEX IF NOT EXISTS idx_trials_verdict ON trials(verdict);
`
}
