package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// docxViaSofficePDF converts a DOCX to PDF with headless LibreOffice, then
// recurses into the PDF chain. The intermediate PDF is removed regardless of
// which PDF strategy ultimately wins.
func (c *Converter) docxViaSofficePDF(ctx context.Context, path string) (*Artifact, error) {
	pdfPath, cleanup, err := c.sofficeConvert(ctx, path, "pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return c.run(ctx, c.pdfChain(), pdfPath)
}

// docxViaTextPDF extracts the DOCX plain text, lays it out into a synthetic
// PDF, and recurses into the PDF chain.
func (c *Converter) docxViaTextPDF(ctx context.Context, path string) (*Artifact, error) {
	text, err := ExtractDOCXText(path)
	if err != nil {
		return nil, err
	}
	pdfPath, cleanup, err := writeTextPDF(text)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return c.run(ctx, c.pdfChain(), pdfPath)
}

// docxViaTextImage paints the DOCX plain text directly onto a raster image.
// Last resort: layout fidelity is lost but the content survives.
func (c *Converter) docxViaTextImage(ctx context.Context, path string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := ExtractDOCXText(path)
	if err != nil {
		return nil, err
	}
	return renderTextImage(text)
}

func (c *Converter) docViaSofficePDF(ctx context.Context, path string) (*Artifact, error) {
	pdfPath, cleanup, err := c.sofficeConvert(ctx, path, "pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return c.run(ctx, c.pdfChain(), pdfPath)
}

// docViaSofficeDOCX upgrades a legacy DOC to DOCX and recurses into the DOCX
// chain, which has more fallbacks than the legacy format does.
func (c *Converter) docViaSofficeDOCX(ctx context.Context, path string) (*Artifact, error) {
	docxPath, cleanup, err := c.sofficeConvert(ctx, path, "docx")
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return c.run(ctx, c.docxChain(), docxPath)
}

// docViaTextRender pulls plain text out of a legacy DOC with antiword or
// catdoc, tries a synthetic PDF first, and falls back to painting the text
// onto an image.
func (c *Converter) docViaTextRender(ctx context.Context, path string) (*Artifact, error) {
	text, err := c.extractDOCText(ctx, path)
	if err != nil {
		return nil, err
	}
	if pdfPath, cleanup, err := writeTextPDF(text); err == nil {
		defer cleanup()
		if art, err := c.run(ctx, c.pdfChain(), pdfPath); err == nil {
			return art, nil
		}
	}
	return renderTextImage(text)
}

// sofficeConvert runs `soffice --headless --convert-to <target>` into a temp
// directory and returns the produced file plus a cleanup for the directory.
func (c *Converter) sofficeConvert(ctx context.Context, path, target string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "da-so-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	_, errb, err := c.runner.Run(ctx, c.cfg.Soffice,
		"--headless", "--convert-to", target, "--outdir", tmpDir, path)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("soffice convert-to %s: %w (%s)", target, err, truncate(string(errb), 512))
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	out := filepath.Join(tmpDir, stem+"."+target)
	if _, statErr := os.Stat(out); statErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("soffice produced no %s output: %v", target, statErr)
	}
	return out, cleanup, nil
}

// extractDOCText shells out to antiword, then catdoc, for legacy DOC text.
func (c *Converter) extractDOCText(ctx context.Context, path string) (string, error) {
	out, _, err := c.runner.Run(ctx, c.cfg.Antiword, path)
	if err == nil && len(strings.TrimSpace(string(out))) > 0 {
		return string(out), nil
	}
	out, errb, err := c.runner.Run(ctx, c.cfg.Catdoc, path)
	if err != nil {
		return "", fmt.Errorf("antiword and catdoc both failed: %w (%s)", err, truncate(string(errb), 512))
	}
	if len(strings.TrimSpace(string(out))) == 0 {
		return "", fmt.Errorf("catdoc produced no text")
	}
	return string(out), nil
}
