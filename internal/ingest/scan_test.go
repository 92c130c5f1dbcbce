package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractFileID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"leading digits", "482_contract.pdf", "482"},
		{"digits mid-name", "scan_007_final.png", "007"},
		{"first run wins", "12 and 34.docx", "12"},
		{"no digits", "notes.docx", ""},
		{"digits in extension only", "file.mp3", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFileID(tt.filename); got != tt.want {
				t.Errorf("ExtractFileID(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument("/in/482_contract.PDF")
	if doc.Name != "482_contract.PDF" {
		t.Errorf("Name = %q", doc.Name)
	}
	if doc.Ext != "pdf" {
		t.Errorf("Ext = %q, want pdf", doc.Ext)
	}
	if doc.Format != "PDF" {
		t.Errorf("Format = %q, want PDF", doc.Format)
	}
	if doc.ID != "482" {
		t.Errorf("ID = %q, want 482", doc.ID)
	}
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		"9_b.png",
		"1_a.pdf",
		"~$1_a.pdf",   // lock file, skipped
		"notes.txt",   // unsupported, skipped
		"5_c.docx",
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, stats, err := ScanDirectory(dir, nil)
	if err != nil {
		t.Fatalf("ScanDirectory: %v", err)
	}
	if stats.Scanned != 5 || stats.Matched != 3 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want scanned 5 matched 3 skipped 2", stats)
	}
	wantOrder := []string{"1_a.pdf", "5_c.docx", "9_b.png"}
	if len(docs) != len(wantOrder) {
		t.Fatalf("got %d docs, want %d", len(docs), len(wantOrder))
	}
	for i, want := range wantOrder {
		if docs[i].Name != want {
			t.Errorf("docs[%d].Name = %q, want %q", i, docs[i].Name, want)
		}
	}
}

func TestScanDirectoryMissing(t *testing.T) {
	if _, _, err := ScanDirectory(filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
