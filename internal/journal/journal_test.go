package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestOpenDisabled(t *testing.T) {
	j, err := Open(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("Open with empty path: %v", err)
	}
	if j != nil {
		t.Fatal("expected nil journal when disabled")
	}
	// nil journal is safe to use
	j.Record(context.Background(), Entry{Filename: "x.pdf"})
	if j.RunID() != "" {
		t.Error("nil journal must report empty run id")
	}
	if err := j.Close(); err != nil {
		t.Errorf("Close on nil journal: %v", err)
	}
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer j.Close()
	if j.RunID() == "" {
		t.Fatal("run id missing")
	}

	j.Record(ctx, Entry{Filename: "482.pdf", DocID: "482", Status: StatusOK})
	j.Record(ctx, Entry{Filename: "noid.pdf", Status: StatusSkipped, Detail: "no numeric id in filename"})

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM documents WHERE run_id = ?`, j.RunID()).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("got %d journal rows, want 2", n)
	}

	var status, detail string
	err = db.QueryRow(
		`SELECT status, detail FROM documents WHERE filename = ?`, "noid.pdf",
	).Scan(&status, &detail)
	if err != nil {
		t.Fatal(err)
	}
	if status != StatusSkipped || detail == "" {
		t.Errorf("status = %q detail = %q", status, detail)
	}
}

func TestOpenReusesDatabaseAcrossRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	j1, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	first := j1.RunID()
	j1.Close()

	j2, err := Open(ctx, path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer j2.Close()
	if j2.RunID() == first {
		t.Error("second run must get a fresh run id")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("got %d runs, want 2", n)
	}
}
