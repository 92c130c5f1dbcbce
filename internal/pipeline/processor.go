// Package pipeline orchestrates the per-document flow: normalize, extract
// text, reconcile, extract aspects, persist.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/amitkess/docaspects/constants"
	"github.com/amitkess/docaspects/internal/common"
	"github.com/amitkess/docaspects/internal/concepts"
	"github.com/amitkess/docaspects/internal/convert"
	"github.com/amitkess/docaspects/internal/ingest"
	"github.com/amitkess/docaspects/internal/journal"
	"github.com/amitkess/docaspects/internal/ocr"
	"github.com/amitkess/docaspects/internal/reconcile"
	"github.com/amitkess/docaspects/internal/store"
)

// timestampLayout is the human-readable format recorded in JSON artifacts.
const timestampLayout = "2006-01-02 15:04:05"

// Normalizer turns an input document into a raster image.
type Normalizer interface {
	Normalize(ctx context.Context, path string, format constants.Format) (*convert.Artifact, error)
}

// TextExtractor fans a document out to the OCR providers.
type TextExtractor interface {
	Extract(ctx context.Context, in ocr.Input) map[string]ocr.Result
}

// Fuser reduces provider outputs to one canonical text.
type Fuser interface {
	Reconcile(ctx context.Context, results map[string]ocr.Result, format constants.Format, declared reconcile.Language) (reconcile.ReconciledText, error)
}

// AspectExtractor maps canonical text to one value per concept.
type AspectExtractor interface {
	Extract(ctx context.Context, text string, conceptValues []string, format constants.Format) (map[string]string, error)
}

// Upserter persists one row per sheet.
type Upserter interface {
	Upsert(sheet string, row store.Row) error
}

// Processor runs one document end to end. All collaborators are injected;
// tests swap in fakes.
type Processor struct {
	normalizer Normalizer
	pool       TextExtractor
	fuser      Fuser
	extractor  AspectExtractor
	mapping    concepts.Mapping
	store      Upserter
	journal    *journal.Journal
	outDir     string
	logger     *slog.Logger
}

func NewProcessor(
	normalizer Normalizer,
	pool TextExtractor,
	fuser Fuser,
	extractor AspectExtractor,
	mapping concepts.Mapping,
	st Upserter,
	jn *journal.Journal,
	outDir string,
	logger *slog.Logger,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		normalizer: normalizer,
		pool:       pool,
		fuser:      fuser,
		extractor:  extractor,
		mapping:    mapping,
		store:      st,
		journal:    jn,
		outDir:     outDir,
		logger:     logger,
	}
}

// Process handles a single document. A document without a numeric id is
// skipped, not failed: the store has no key to upsert by. Documents whose
// text cannot be recovered still produce a full sentinel row, so a later
// re-run with better inputs can overwrite it.
func (p *Processor) Process(ctx context.Context, doc ingest.Document) error {
	log := p.logger.With("file", doc.Name, "id", doc.ID)
	start := time.Now()
	log.Info("pipeline.document.start", "format", string(doc.Format))

	if doc.Format == "" {
		log.Warn("pipeline.document.skipped", "reason", "unsupported format", "ext", doc.Ext)
		p.record(ctx, doc, journal.StatusSkipped, "unsupported format")
		return fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, doc.Name)
	}
	if doc.ID == "" {
		log.Warn("pipeline.document.skipped", "reason", "no numeric id in filename")
		p.record(ctx, doc, journal.StatusSkipped, "no numeric id in filename")
		return fmt.Errorf("%w: %s", common.ErrIdentifierMissing, doc.Name)
	}

	in := ocr.Input{DocPath: doc.Path, Format: doc.Format}
	art, err := p.normalizer.Normalize(ctx, doc.Path, doc.Format)
	if err != nil {
		// Vision providers are off the table, but text-layer providers can
		// still read the original file.
		log.Warn("pipeline.convert.failed", "error", err)
	} else {
		defer art.Release()
		in.ImagePath = art.Path
	}

	results := p.pool.Extract(ctx, in)

	var fields map[string]string
	values := p.mapping.AllValues()

	fused, err := p.fuser.Reconcile(ctx, results, doc.Format, "")
	switch {
	case errors.Is(err, common.ErrNoUsableInput):
		log.Warn("pipeline.reconcile.no_usable_input")
		fields = sentinelFields(values)
	case err != nil:
		p.record(ctx, doc, journal.StatusFailed, err.Error())
		return err
	default:
		fields, err = p.extractor.Extract(ctx, fused.Text, values, doc.Format)
		if err != nil {
			p.record(ctx, doc, journal.StatusFailed, err.Error())
			return err
		}
	}

	if err := p.writeArtifact(doc, fields); err != nil {
		// The artifact is a convenience copy; the store is the durable sink.
		log.Warn("pipeline.artifact.failed", "error", err)
	}

	if err := p.persist(doc, fields); err != nil {
		p.record(ctx, doc, journal.StatusFailed, err.Error())
		return err
	}

	p.record(ctx, doc, journal.StatusOK, "")
	log.Info("pipeline.document.ok", "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

// persist upserts one row per vocabulary sheet, each carrying only that
// sheet's concept columns.
func (p *Processor) persist(doc ingest.Document, fields map[string]string) error {
	for _, sheet := range p.mapping.Sheets {
		sub := make(map[string]string, len(sheet.Concepts))
		for _, c := range sheet.Concepts {
			if v, ok := fields[c.Value]; ok {
				sub[c.Value] = v
			} else {
				sub[c.Value] = constants.NotFound
			}
		}
		row := store.Row{ID: doc.ID, FileType: doc.Ext, Fields: sub}
		if err := p.store.Upsert(sheet.Name, row); err != nil {
			return err
		}
	}
	return nil
}

// writeArtifact drops a per-document JSON file next to the batch output so
// results can be inspected without opening the workbook.
func (p *Processor) writeArtifact(doc ingest.Document, fields map[string]string) error {
	if p.outDir == "" {
		return nil
	}
	payload := map[string]any{
		"metadata": map[string]string{
			"filename":     doc.Name,
			"file_type":    doc.Ext,
			"processed_at": time.Now().Format(timestampLayout),
		},
		"aspects": fields,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return err
	}
	stem := strings.TrimSuffix(doc.Name, filepath.Ext(doc.Name))
	path := filepath.Join(p.outDir, stem+"_aspects.json")
	return os.WriteFile(path, b, 0o644)
}

func (p *Processor) record(ctx context.Context, doc ingest.Document, status, detail string) {
	p.journal.Record(ctx, journal.Entry{
		Filename: doc.Name,
		DocID:    doc.ID,
		Status:   status,
		Detail:   detail,
	})
}

func sentinelFields(values []string) map[string]string {
	out := make(map[string]string, len(values))
	for _, v := range values {
		out[v] = constants.NotFound
	}
	return out
}
