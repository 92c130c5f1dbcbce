package convert

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amitkess/docaspects/constants"
	"github.com/amitkess/docaspects/internal/common"
)

// strategy is one way of turning a document into a raster image. Strategies
// are attempted once each, in order; the first success short-circuits.
type strategy struct {
	name    string
	convert func(ctx context.Context, path string) (*Artifact, error)
}

// Converter normalizes any supported input document into a single raster
// image via an ordered, format-specific strategy cascade. Any individual
// renderer may be unavailable on a given host; the cascade produces
// best-effort output whenever at least one strategy is viable.
type Converter struct {
	cfg    common.ConvertConfig
	runner Runner
	logger *slog.Logger
}

func NewConverter(cfg common.ConvertConfig, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Magick == "" {
		cfg.Magick = "magick"
	}
	if cfg.Soffice == "" {
		cfg.Soffice = "soffice"
	}
	if cfg.Antiword == "" {
		cfg.Antiword = "antiword"
	}
	if cfg.Catdoc == "" {
		cfg.Catdoc = "catdoc"
	}
	return &Converter{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Normalize converts the document at path into a raster image suitable for
// vision-based extraction. Images pass through untouched. Returns
// common.ErrUnsupportedFormat for formats outside the cascade, and
// common.ErrConversionFailed when every strategy in the chain failed.
func (c *Converter) Normalize(ctx context.Context, path string, format constants.Format) (*Artifact, error) {
	switch format {
	case constants.IMAGE:
		return keepArtifact(path, "identity"), nil
	case constants.PDF:
		return c.run(ctx, c.pdfChain(), path)
	case constants.DOCX:
		return c.run(ctx, c.docxChain(), path)
	case constants.DOC:
		return c.run(ctx, c.docChain(), path)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
}

func (c *Converter) pdfChain() []strategy {
	return []strategy{
		{"pdf-fitz", c.renderWithFitz},
		{"pdf-poppler", c.renderWithPoppler},
		{"pdf-magick", c.renderWithMagick},
	}
}

func (c *Converter) docxChain() []strategy {
	return []strategy{
		{"docx-soffice-pdf", c.docxViaSofficePDF},
		{"docx-text-pdf", c.docxViaTextPDF},
		{"docx-text-image", c.docxViaTextImage},
	}
}

func (c *Converter) docChain() []strategy {
	return []strategy{
		{"doc-soffice-pdf", c.docViaSofficePDF},
		{"doc-soffice-docx", c.docViaSofficeDOCX},
		{"doc-text-render", c.docViaTextRender},
	}
}

func (c *Converter) run(ctx context.Context, chain []strategy, path string) (*Artifact, error) {
	for _, s := range chain {
		art, err := s.convert(ctx, path)
		if err != nil {
			c.logger.Warn("convert.strategy.failed", "strategy", s.name, "path", path, "error", err)
			continue
		}
		art.Strategy = s.name
		c.logger.Debug("convert.strategy.ok", "strategy", s.name, "path", path, "artifact", art.Path)
		return art, nil
	}
	return nil, fmt.Errorf("%w: %s", common.ErrConversionFailed, path)
}
