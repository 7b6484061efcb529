// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Archive is an optional SQLite record of terminal jobs. The live registry
// is always in-memory; the archive only keeps completed and failed jobs for
// later inspection, so losing it never affects running jobs.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens or creates the archive database at path, creating
// parent directories and the schema as needed.
func OpenArchive(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening archive database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating archive schema: %w", err)
	}
	return a, nil
}

// Close releases the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createSchema() error {
	_, err := a.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		query TEXT,
		status TEXT,
		created_at TEXT,
		finished_at TEXT,
		total_fetched INTEGER,
		duplicates INTEGER,
		final_count INTEGER,
		error TEXT,
		narrative TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record upserts one terminal job. Pending or running jobs are refused.
func (a *Archive) Record(ctx context.Context, job Job) error {
	if !job.Status.Terminal() {
		return fmt.Errorf("job %s is %s, not terminal", job.ID, job.Status)
	}

	queryJSON, err := json.Marshal(job.Query)
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	var totalFetched, duplicates, finalCount int
	var narrative string
	if job.Result != nil {
		totalFetched = job.Result.Summary.TotalFetched
		duplicates = job.Result.Summary.Duplicates
		finalCount = job.Result.Summary.FinalCount
		narrative = job.Result.Narrative
	}

	_, err = a.db.ExecContext(ctx,
		`INSERT INTO jobs (id, query, status, created_at, finished_at,
			total_fetched, duplicates, final_count, error, narrative)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			status=excluded.status, finished_at=excluded.finished_at,
			total_fetched=excluded.total_fetched, duplicates=excluded.duplicates,
			final_count=excluded.final_count, error=excluded.error,
			narrative=excluded.narrative`,
		job.ID, string(queryJSON), string(job.Status),
		job.CreatedAt.UTC().Format(time.RFC3339Nano),
		job.FinishedAt.UTC().Format(time.RFC3339Nano),
		totalFetched, duplicates, finalCount, job.Error, narrative,
	)
	if err != nil {
		return fmt.Errorf("recording job %s: %w", job.ID, err)
	}
	return nil
}

// ArchivedJob is one row read back from the archive.
type ArchivedJob struct {
	ID         string
	QueryText  string
	Status     Status
	FinishedAt time.Time
	FinalCount int
	Error      string
}

// List returns archived jobs, most recently finished first.
func (a *Archive) List(ctx context.Context, limit int) ([]ArchivedJob, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT id, query, status, finished_at, final_count, error
		 FROM jobs ORDER BY finished_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var out []ArchivedJob
	for rows.Next() {
		var j ArchivedJob
		var queryJSON, status, finished string
		if err := rows.Scan(&j.ID, &queryJSON, &status, &finished, &j.FinalCount, &j.Error); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		j.Status = Status(status)
		if t, err := time.Parse(time.RFC3339Nano, finished); err == nil {
			j.FinishedAt = t
		}
		var q struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal([]byte(queryJSON), &q); err == nil {
			j.QueryText = q.Text
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
