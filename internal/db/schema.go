package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    created_at TEXT,
    baseline_id TEXT,
    baseline_ratio REAL,
    baseline_source TEXT
);

CREATE TABLE IF NOT EXISTS corpus_results (
    id INTEGER PRIMARY KEY,
    run_id TEXT,
    corpus TEXT,
    documents INTEGER,
    total_words INTEGER,
    unique_words INTEGER,
    marker_count INTEGER,
    unique_markers INTEGER,
    marker_percentage REAL,
    coverage REAL,
    is_baseline INTEGER,
    chi_square REAL,
    p_value REAL,
    significant INTEGER
);

CREATE TABLE IF NOT EXISTS marker_counts (
    id INTEGER PRIMARY KEY,
    result_id INTEGER,
    word TEXT,
    count INTEGER
);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
