package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/amitkess/docaspects/internal/common"
	"github.com/amitkess/docaspects/internal/ingest"
)

// BatchStats summarizes one batch run.
type BatchStats struct {
	Total     int
	Processed int
	Skipped   int
	Failed    int
}

// RunBatch processes the documents in order. A document failure is isolated:
// it is counted and logged, and the batch moves on. Only context
// cancellation stops the run early.
func (p *Processor) RunBatch(ctx context.Context, docs []ingest.Document) BatchStats {
	stats := BatchStats{Total: len(docs)}
	start := time.Now()
	p.logger.Info("pipeline.batch.start", "documents", stats.Total)

	for _, doc := range docs {
		if ctx.Err() != nil {
			p.logger.Warn("pipeline.batch.cancelled", "remaining", stats.Total-stats.Processed-stats.Skipped-stats.Failed)
			break
		}
		err := p.Process(ctx, doc)
		switch {
		case err == nil:
			stats.Processed++
		case isSkip(err):
			stats.Skipped++
		default:
			stats.Failed++
			p.logger.Error("pipeline.document.failed", "file", doc.Name, "error", err)
		}
	}

	p.logger.Info("pipeline.batch.done",
		"processed", stats.Processed,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"total", stats.Total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return stats
}

// isSkip classifies outcomes that are deliberate non-processing rather than
// failures.
func isSkip(err error) bool {
	return errors.Is(err, common.ErrIdentifierMissing) ||
		errors.Is(err, common.ErrUnsupportedFormat)
}
