package store

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/amitkess/docaspects/constants"
)

func readRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read sheet %q: %v", sheet, err)
	}
	return rows
}

func TestUpsertBootstrapsWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	s := NewStore(path, nil)

	err := s.Upsert("Contract", Row{
		ID:       "482",
		FileType: "pdf",
		Fields:   map[string]string{"Counterparty": "Acme Ltd"},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	rows := readRows(t, path, "Contract")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	header := rows[0]
	if header[0] != ColID || header[1] != ColFileType {
		t.Errorf("identity columns = %v", header[:2])
	}
	if rows[1][0] != "482" || rows[1][1] != "pdf" || rows[1][2] != "Acme Ltd" {
		t.Errorf("row = %v", rows[1])
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, name := range f.GetSheetList() {
		if name == "Sheet1" {
			t.Error("default sheet left behind after bootstrap")
		}
	}
}

func TestUpsertUpdatesExistingRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	s := NewStore(path, nil)

	first := Row{ID: "482", FileType: "pdf", Fields: map[string]string{
		"Counterparty": "Acme Ltd",
		"Total Amount": "1200",
	}}
	if err := s.Upsert("Contract", first); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}

	// Second pass only provides one column; the other must survive.
	second := Row{ID: "482", FileType: "pdf", Fields: map[string]string{
		"Total Amount": "1350",
	}}
	if err := s.Upsert("Contract", second); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	rows := readRows(t, path, "Contract")
	if len(rows) != 2 {
		t.Fatalf("got %d rows after re-run, want 2", len(rows))
	}
	header := rows[0]
	byName := make(map[string]string)
	for i, h := range header {
		if i < len(rows[1]) {
			byName[h] = rows[1][i]
		}
	}
	if byName["Counterparty"] != "Acme Ltd" {
		t.Errorf("Counterparty = %q, want preserved value", byName["Counterparty"])
	}
	if byName["Total Amount"] != "1350" {
		t.Errorf("Total Amount = %q, want 1350", byName["Total Amount"])
	}
}

func TestUpsertAppendsWithSentinelDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	s := NewStore(path, nil)

	if err := s.Upsert("Contract", Row{ID: "1", FileType: "pdf", Fields: map[string]string{
		"Counterparty": "Acme Ltd",
		"Total Amount": "1200",
	}}); err != nil {
		t.Fatal(err)
	}
	// New row provides a subset; uncovered known columns get the sentinel.
	if err := s.Upsert("Contract", Row{ID: "2", FileType: "png", Fields: map[string]string{
		"Counterparty": "Globex",
	}}); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, path, "Contract")
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	header := rows[0]
	byName := make(map[string]string)
	for i, h := range header {
		if i < len(rows[2]) {
			byName[h] = rows[2][i]
		}
	}
	if byName["Total Amount"] != constants.NotFound {
		t.Errorf("Total Amount = %q, want sentinel", byName["Total Amount"])
	}
}

func TestUpsertGrowsColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	s := NewStore(path, nil)

	if err := s.Upsert("Contract", Row{ID: "1", FileType: "pdf", Fields: map[string]string{
		"Counterparty": "Acme Ltd",
	}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert("Contract", Row{ID: "1", FileType: "pdf", Fields: map[string]string{
		"Governing Law": "NY",
	}}); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, path, "Contract")
	header := rows[0]
	want := map[string]bool{"ID": false, "File Type": false, "Counterparty": false, "Governing Law": false}
	for _, h := range header {
		if _, ok := want[h]; ok {
			want[h] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("column %q missing from header %v", name, header)
		}
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want update in place", len(rows))
	}
}

func TestUpsertMatchesNumericIDAsString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	// Seed a workbook where the id cell is a number, not a string.
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Contract"); err != nil {
		t.Fatal(err)
	}
	for i, v := range []any{"ID", "File Type", "Counterparty"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue("Contract", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	for i, v := range []any{482, "pdf", "Acme Ltd"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue("Contract", cell, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, nil)
	if err := s.Upsert("Contract", Row{ID: "482", FileType: "pdf", Fields: map[string]string{
		"Counterparty": "Acme Holdings",
	}}); err != nil {
		t.Fatal(err)
	}

	rows := readRows(t, path, "Contract")
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want the numeric-id row updated, not appended", len(rows))
	}
	if rows[1][2] != "Acme Holdings" {
		t.Errorf("Counterparty = %q", rows[1][2])
	}
}

func TestUpsertSecondSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	s := NewStore(path, nil)

	if err := s.Upsert("Contract", Row{ID: "1", FileType: "pdf", Fields: map[string]string{"A": "1"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert("Invoice", Row{ID: "1", FileType: "pdf", Fields: map[string]string{"B": "2"}}); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("sheets = %v, want 2", sheets)
	}
}
