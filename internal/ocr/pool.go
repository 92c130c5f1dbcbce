package ocr

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pool fans a document out to every configured provider. Providers are
// independent: a provider's failure becomes a failed Result, never an error,
// and never aborts the others. The output always has exactly one entry per
// provider so the reconciler can reason about completeness.
type Pool struct {
	providers []Provider
	timeout   time.Duration
	logger    *slog.Logger
}

func NewPool(providers []Provider, timeout time.Duration, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pool{providers: providers, timeout: timeout, logger: logger}
}

// Providers returns the configured provider ids.
func (p *Pool) Providers() []string {
	ids := make([]string, 0, len(p.providers))
	for _, prov := range p.providers {
		ids = append(ids, prov.ID())
	}
	return ids
}

// Extract runs every provider against the input, concurrently. One attempt
// per provider; no retries.
func (p *Pool) Extract(ctx context.Context, in Input) map[string]Result {
	results := make(map[string]Result, len(p.providers))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, prov := range p.providers {
		g.Go(func() error {
			start := time.Now()
			callCtx := gctx
			if p.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(gctx, p.timeout)
				defer cancel()
			}

			res := Result{Provider: prov.ID()}
			text, err := prov.Extract(callCtx, in)
			if err != nil {
				res.Status = StatusFailure
				res.Err = err.Error()
				res.Text = "Error extracting text with " + prov.ID() + ": " + err.Error()
				p.logger.Warn("ocr.provider.failed",
					"provider", prov.ID(),
					"error", err,
					"elapsed_ms", time.Since(start).Milliseconds(),
				)
			} else {
				res.Status = StatusSuccess
				res.Text = text
				p.logger.Info("ocr.provider.ok",
					"provider", prov.ID(),
					"text_len", len(text),
					"elapsed_ms", time.Since(start).Milliseconds(),
				)
			}

			mu.Lock()
			results[prov.ID()] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // providers never return errors; failures are data
	return results
}
