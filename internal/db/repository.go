package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/freyjadaisy/EPQ/internal/baseline"
)

// Run is one persisted analysis invocation.
type Run struct {
	ID             string
	CreatedAt      time.Time
	BaselineID     string
	BaselineRatio  float64
	BaselineSource string
	Corpora        int
}

// PersistResults stores res as a new run and returns its ID.
func PersistResults(dbPath string, res baseline.Results, at time.Time) (string, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	runID := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO runs(id, created_at, baseline_id, baseline_ratio, baseline_source) VALUES(?,?,?,?,?)`,
		runID,
		at.UTC().Format(time.RFC3339),
		res.Baseline.ID,
		res.Baseline.Ratio,
		string(res.Baseline.Source),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, id := range res.IDs() {
		rec := res.Records[id]
		var chi, p, sig any
		if s := rec.Significance; s != nil && s.Computable {
			chi, p = *s.Statistic, *s.PValue
			sig = boolInt(*s.Significant)
		}
		out, err := tx.Exec(
			`INSERT INTO corpus_results(run_id, corpus, documents, total_words, unique_words, marker_count, unique_markers, marker_percentage, coverage, is_baseline, chi_square, p_value, significant) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			runID, id, rec.Documents, rec.TotalWords, rec.UniqueWords, rec.MarkerCount, rec.UniqueMarkers,
			rec.MarkerPercentage, rec.Coverage, boolInt(rec.IsBaseline), chi, p, sig,
		)
		if err != nil {
			return "", fmt.Errorf("insert corpus result %s: %w", id, err)
		}
		resultID, err := out.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("corpus result last insert id: %w", err)
		}
		for _, c := range rec.MarkerFrequency {
			if _, err := tx.Exec(`INSERT INTO marker_counts(result_id, word, count) VALUES(?,?,?)`, resultID, c.Word, c.Count); err != nil {
				return "", fmt.Errorf("insert marker count: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	return runID, nil
}

// ListRuns returns stored runs, newest first.
func ListRuns(dbPath string) ([]Run, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(`
SELECT r.id, r.created_at, r.baseline_id, r.baseline_ratio, r.baseline_source, COUNT(c.id)
FROM runs r LEFT JOIN corpus_results c ON c.run_id = r.id
GROUP BY r.id
ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &created, &r.BaselineID, &r.BaselineRatio, &r.BaselineSource, &r.Corpora); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("parse run time %q: %w", created, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
