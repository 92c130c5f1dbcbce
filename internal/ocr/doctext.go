package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/amitkess/docaspects/constants"
	"github.com/amitkess/docaspects/internal/convert"
)

// DocTextProvider is the parser-based provider: it reads the original
// document bytes directly when the format allows text extraction without
// rasterization. It still runs when the conversion chain failed, which keeps
// born-digital documents extractable on hosts with no working renderer.
type DocTextProvider struct{}

func NewDocTextProvider() *DocTextProvider { return &DocTextProvider{} }

func (p *DocTextProvider) ID() string { return "doctext" }

func (p *DocTextProvider) Extract(ctx context.Context, in Input) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	switch in.Format {
	case constants.PDF:
		return extractPDFText(in.DocPath)
	case constants.DOCX:
		text, err := convert.ExtractDOCXText(in.DocPath)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("docx contains no text")
		}
		return text, nil
	default:
		return "", fmt.Errorf("direct text extraction not supported for %s", in.Format)
	}
}

func extractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return b.String(), nil
}
