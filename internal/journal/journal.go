// Package journal records per-document processing outcomes in a local
// SQLite database. The journal is best effort: a journaling failure is
// logged and never fails the pipeline.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Entry is one processed document within a run.
type Entry struct {
	Filename string
	DocID    string
	Status   string
	Detail   string
}

// Outcome status values.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS documents (
	run_id       TEXT NOT NULL REFERENCES runs(id),
	filename     TEXT NOT NULL,
	doc_id       TEXT,
	status       TEXT NOT NULL,
	detail       TEXT,
	processed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_run ON documents(run_id);
`

// Journal owns one database handle and the id of the current run.
type Journal struct {
	db     *sql.DB
	runID  string
	logger *slog.Logger
}

// Open connects to the journal database, applies the schema, and starts a
// new run. Pass an empty path to disable journaling entirely; the returned
// nil Journal is safe to use.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, nil
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	j := &Journal{db: db, runID: uuid.New().String(), logger: logger}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		j.runID, time.Now().UTC(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("record run: %w", err)
	}
	logger.Info("journal.run.start", "run_id", j.runID, "path", path)
	return j, nil
}

func (j *Journal) RunID() string {
	if j == nil {
		return ""
	}
	return j.runID
}

// Record stores one document outcome. Nil-safe and best effort.
func (j *Journal) Record(ctx context.Context, e Entry) {
	if j == nil {
		return
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO documents (run_id, filename, doc_id, status, detail, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		j.runID, e.Filename, e.DocID, e.Status, e.Detail, time.Now().UTC(),
	)
	if err != nil {
		j.logger.Warn("journal.record.failed", "filename", e.Filename, "error", err)
	}
}

func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.db.Close()
}
