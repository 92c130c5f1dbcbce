// Package store persists extracted aspects into an XLSX workbook, one row
// per document per sheet, keyed by document id.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/amitkess/docaspects/constants"
	"github.com/amitkess/docaspects/internal/common"
)

// Identity columns present on every sheet, always first, in this order.
const (
	ColID       = "ID"
	ColFileType = "File Type"
)

// Row is the payload of one upsert: identity plus named aspect columns.
type Row struct {
	ID       string
	FileType string
	Fields   map[string]string
}

// Store owns one workbook file. Every Upsert is a whole-file
// read-modify-write; the workbook is small and the batch is sequential, so
// this keeps the on-disk file consistent after every document.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Upsert writes one row into the named sheet. An existing row with the same
// id is updated in place: only the columns present in row.Fields are
// overwritten, other cells keep their values. A new row gets the sentinel in
// every known column the payload does not cover. Columns grow when the
// payload names a column the sheet lacks; they are never removed.
func (s *Store) Upsert(sheet string, row Row) error {
	f, created, err := s.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.ensureSheet(f, sheet, created); err != nil {
		return err
	}

	header, err := s.ensureColumns(f, sheet, row.Fields)
	if err != nil {
		return err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return persistErr(fmt.Errorf("read sheet %q: %w", sheet, err))
	}

	target := findRowByID(rows, row.ID)
	appendNew := target < 0
	if appendNew {
		target = len(rows) // 0-based; header is row 0
	}

	for col, name := range header {
		var value string
		var ok bool
		switch name {
		case ColID:
			value, ok = row.ID, true
		case ColFileType:
			value, ok = row.FileType, true
		default:
			value, ok = row.Fields[name]
		}
		if !ok {
			if !appendNew {
				continue // keep the existing cell
			}
			value = constants.NotFound
		}
		cell, err := excelize.CoordinatesToCellName(col+1, target+1)
		if err != nil {
			return persistErr(err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return persistErr(err)
		}
	}

	if err := s.flush(f); err != nil {
		return err
	}
	s.logger.Info("store.upsert.ok",
		"sheet", sheet,
		"id", row.ID,
		"appended", appendNew,
		"columns", len(header),
	)
	return nil
}

// open returns the workbook, creating a fresh one in memory when the file
// does not exist yet. The second return reports creation.
func (s *Store) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(s.path); err != nil {
		if !os.IsNotExist(err) {
			return nil, false, persistErr(err)
		}
		s.logger.Info("store.bootstrap", "path", s.path)
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, false, persistErr(fmt.Errorf("open workbook: %w", err))
	}
	return f, false, nil
}

// ensureSheet creates the sheet with identity headers when missing. On a
// freshly created workbook the default sheet is renamed instead of leaving
// an empty "Sheet1" behind.
func (s *Store) ensureSheet(f *excelize.File, sheet string, created bool) error {
	for _, name := range f.GetSheetList() {
		if name == sheet {
			return nil
		}
	}
	if created && len(f.GetSheetList()) == 1 {
		if err := f.SetSheetName(f.GetSheetList()[0], sheet); err != nil {
			return persistErr(err)
		}
	} else {
		if _, err := f.NewSheet(sheet); err != nil {
			return persistErr(err)
		}
	}
	for i, name := range []string{ColID, ColFileType} {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return persistErr(err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return persistErr(err)
		}
	}
	return nil
}

// ensureColumns appends headers for any payload field the sheet does not
// know yet and returns the full header in column order.
func (s *Store) ensureColumns(f *excelize.File, sheet string, fields map[string]string) ([]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, persistErr(fmt.Errorf("read header of %q: %w", sheet, err))
	}
	var header []string
	if len(rows) > 0 {
		header = append(header, rows[0]...)
	}
	if len(header) == 0 {
		header = []string{ColID, ColFileType}
		for i, name := range header {
			cell, err := excelize.CoordinatesToCellName(i+1, 1)
			if err != nil {
				return nil, persistErr(err)
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return nil, persistErr(err)
			}
		}
	}

	known := make(map[string]struct{}, len(header))
	for _, h := range header {
		known[strings.TrimSpace(h)] = struct{}{}
	}
	// Deterministic order for new columns: the payload keys sorted would do,
	// but callers pass fields derived from an ordered vocabulary, so we sort
	// here only to keep repeated runs stable.
	var missing []string
	for name := range fields {
		if _, ok := known[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		col := len(header)
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, persistErr(err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, persistErr(err)
		}
		header = append(header, name)
		s.logger.Info("store.column.added", "sheet", sheet, "column", name)
	}

	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out, nil
}

// findRowByID compares ids as trimmed strings so "482" matches a numeric
// cell rendered as 482. Returns the 0-based row index, or -1.
func findRowByID(rows [][]string, id string) int {
	want := strings.TrimSpace(id)
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		if strings.TrimSpace(row[0]) == want {
			return i
		}
	}
	return -1
}

// flush writes to a sibling temp file first so a crash mid-save never
// truncates the workbook.
func (s *Store) flush(f *excelize.File) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".store-*.xlsx")
	if err != nil {
		return persistErr(err)
	}
	tmpName := tmp.Name()
	tmp.Close()
	if err := f.SaveAs(tmpName); err != nil {
		os.Remove(tmpName)
		return persistErr(fmt.Errorf("save workbook: %w", err))
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return persistErr(err)
	}
	return nil
}

// persistErr tags any workbook I/O failure with the persistence sentinel so
// callers can classify the outcome with errors.Is.
func persistErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrPersistenceFailed, err)
}
