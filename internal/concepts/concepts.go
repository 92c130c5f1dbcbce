// Package concepts loads the externally supplied vocabulary of fields to
// extract, grouped into sheets of an XLSX template.
package concepts

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Concept is one {id, value} pair; value doubles as the destination column
// name in the tabular store.
type Concept struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

// Sheet is one logical grouping of concepts.
type Sheet struct {
	Name     string
	Concepts []Concept
}

// Mapping is the whole vocabulary, read-only for the life of a batch run.
type Mapping struct {
	Sheets []Sheet
}

// AllValues returns the ordered union of concept values across all sheets,
// deduplicated, preserving first-seen order.
func (m Mapping) AllValues() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range m.Sheets {
		for _, c := range s.Concepts {
			if _, ok := seen[c.Value]; ok {
				continue
			}
			seen[c.Value] = struct{}{}
			out = append(out, c.Value)
		}
	}
	return out
}

// Load reads every sheet of the vocabulary workbook. Row 0 is a header;
// column 0 is the id, column 1 the concept value. Fully blank rows are
// dropped; sheets with fewer than two remaining rows are skipped entirely.
func Load(path string, logger *slog.Logger) (Mapping, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("open concept workbook: %w", err)
	}
	defer f.Close()

	var m Mapping
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return Mapping{}, fmt.Errorf("read sheet %q: %w", name, err)
		}
		rows = dropBlankRows(rows)
		if len(rows) < 2 {
			logger.Info("concepts.skip.empty_sheet", "sheet", name)
			continue
		}

		var cs []Concept
		for i, row := range rows[1:] { // skip the header row
			id, value := "", ""
			switch {
			case len(row) >= 2:
				id = strings.TrimSpace(row[0])
				value = strings.TrimSpace(row[1])
			case len(row) == 1:
				// single-column sheet: the row index stands in for the id
				id = fmt.Sprintf("%d", i)
				value = strings.TrimSpace(row[0])
			}
			if value == "" {
				continue
			}
			cs = append(cs, Concept{ID: id, Value: value})
		}
		if len(cs) == 0 {
			logger.Info("concepts.skip.empty_sheet", "sheet", name)
			continue
		}
		m.Sheets = append(m.Sheets, Sheet{Name: name, Concepts: cs})
	}
	return m, nil
}

func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0:0]
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}
