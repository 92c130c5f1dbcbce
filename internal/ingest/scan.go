package ingest

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/amitkess/docaspects/constants"
)

// Document is one input file discovered by the scan. Inputs are read-only;
// the pipeline never mutates or moves them.
type Document struct {
	Path   string
	Name   string
	Ext    string // normalized, without dot
	Format constants.Format
	ID     string // natural key from the filename; empty when unrecoverable
}

// ScanStats summarizes one directory scan.
type ScanStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

var idPattern = regexp.MustCompile(`\d+`)

// ExtractFileID returns the first run of digits in a filename, which serves
// as the document's natural key in the tabular store. Empty when absent.
func ExtractFileID(filename string) string {
	return idPattern.FindString(filename)
}

// NewDocument builds a Document for a path without touching the filesystem.
func NewDocument(path string) Document {
	name := filepath.Base(path)
	ext := constants.NormalizeExt(filepath.Ext(path))
	return Document{
		Path:   path,
		Name:   name,
		Ext:    ext,
		Format: constants.MapExtToFormat(ext),
		ID:     ExtractFileID(name),
	}
}

// ScanDirectory lists the input directory in deterministic (sorted) order,
// skipping lock files and unsupported extensions. Skips are logged, never
// errors: a half-usable input directory still yields a batch.
func ScanDirectory(root string, logger *slog.Logger) ([]Document, ScanStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, ScanStats{}, fmt.Errorf("read input directory: %w", err)
	}

	var docs []Document
	var stats ScanStats
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stats.Scanned++
		name := e.Name()
		if strings.HasPrefix(name, constants.LockFilePrefix) {
			logger.Debug("ingest.skip.lockfile", "name", name)
			stats.Skipped++
			continue
		}
		ext := constants.NormalizeExt(filepath.Ext(name))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			logger.Info("ingest.skip.unsupported", "name", name, "ext", ext)
			stats.Skipped++
			continue
		}
		docs = append(docs, NewDocument(filepath.Join(root, name)))
		stats.Matched++
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, stats, nil
}
