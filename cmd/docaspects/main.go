// Command docaspects runs the document aspect-extraction pipeline: it scans
// an input directory, normalizes each document to an image, extracts text
// through a pool of OCR providers, fuses the extractions, maps the canonical
// text to a concept vocabulary, and upserts the results into an XLSX store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/amitkess/docaspects/internal/aspects"
	"github.com/amitkess/docaspects/internal/common"
	"github.com/amitkess/docaspects/internal/concepts"
	"github.com/amitkess/docaspects/internal/convert"
	"github.com/amitkess/docaspects/internal/ingest"
	"github.com/amitkess/docaspects/internal/journal"
	"github.com/amitkess/docaspects/internal/llm"
	"github.com/amitkess/docaspects/internal/ocr"
	"github.com/amitkess/docaspects/internal/pipeline"
	"github.com/amitkess/docaspects/internal/reconcile"
	"github.com/amitkess/docaspects/internal/store"
)

func main() {
	var (
		dir          = flag.String("dir", "", "input directory to scan for documents")
		file         = flag.String("file", "", "process a single document instead of a directory")
		conceptsPath = flag.String("concepts", "", "path to the concept vocabulary workbook (XLSX)")
		storePath    = flag.String("store", "aspects.xlsx", "path to the output workbook")
		outDir       = flag.String("out", "", "directory for per-document JSON artifacts (optional)")
		verbose      = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*dir, *file, *conceptsPath, *storePath, *outDir, logger); err != nil {
		logger.Error("docaspects.fatal", "error", err)
		os.Exit(1)
	}
}

func run(dir, file, conceptsPath, storePath, outDir string, logger *slog.Logger) error {
	if dir == "" && file == "" {
		return fmt.Errorf("one of -dir or -file is required")
	}
	if conceptsPath == "" {
		return fmt.Errorf("-concepts is required")
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mapping, err := concepts.Load(conceptsPath, logger)
	if err != nil {
		return err
	}
	if len(mapping.Sheets) == 0 {
		return fmt.Errorf("concept workbook %s has no usable sheets", conceptsPath)
	}

	anthropicClient := llm.NewAnthropicClient(cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicModel, cfg.LLM.MaxTokens, cfg.LLM.Temperature, logger)

	providers, err := buildProviders(cfg, anthropicClient, logger)
	if err != nil {
		return err
	}
	pool := ocr.NewPool(providers, cfg.OCR.Timeout, logger)
	logger.Info("docaspects.providers", "ids", pool.Providers())

	jn, err := journal.Open(ctx, cfg.Journal.Path, logger)
	if err != nil {
		return err
	}
	defer jn.Close()

	proc := pipeline.NewProcessor(
		convert.NewConverter(cfg.Convert, logger),
		pool,
		reconcile.NewReconciler(anthropicClient, logger),
		aspects.NewExtractor(anthropicClient, logger),
		mapping,
		store.NewStore(storePath, logger),
		jn,
		outDir,
		logger,
	)

	var docs []ingest.Document
	if file != "" {
		docs = append(docs, ingest.NewDocument(file))
	} else {
		var stats ingest.ScanStats
		docs, stats, err = ingest.ScanDirectory(dir, logger)
		if err != nil {
			return err
		}
		logger.Info("docaspects.scan",
			"scanned", stats.Scanned, "matched", stats.Matched, "skipped", stats.Skipped)
	}

	bs := proc.RunBatch(ctx, docs)
	fmt.Printf("successfully processed %d of %d documents (%d skipped, %d failed)\n",
		bs.Processed, bs.Total, bs.Skipped, bs.Failed)
	if bs.Failed > 0 {
		return fmt.Errorf("%d documents failed", bs.Failed)
	}
	return nil
}

// buildProviders wires the enabled OCR providers from configuration.
func buildProviders(cfg *common.Config, anthropicClient llm.Client, logger *slog.Logger) ([]ocr.Provider, error) {
	var out []ocr.Provider
	for _, id := range cfg.OCR.Providers {
		switch id {
		case "claude":
			out = append(out, ocr.NewVisionProvider("claude", anthropicClient))
		case "openai":
			out = append(out, ocr.NewVisionProvider("openai",
				llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIModel, cfg.LLM.MaxTokens, cfg.LLM.Temperature, logger)))
		case "tesseract":
			out = append(out, ocr.NewTesseractProvider(cfg.OCR.TesseractLang))
		case "doctext":
			out = append(out, ocr.NewDocTextProvider())
		default:
			return nil, fmt.Errorf("unknown OCR provider %q", id)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no OCR providers enabled")
	}
	return out, nil
}
