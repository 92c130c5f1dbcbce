package convert

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// renderWithFitz renders the first PDF page to PNG with the MuPDF binding.
// No external binary is needed, so this is the preferred strategy.
func (c *Converter) renderWithFitz(ctx context.Context, path string) (*Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("fitz open: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return nil, fmt.Errorf("fitz: pdf has no pages")
	}
	img, err := doc.ImageDPI(0, float64(c.cfg.DPI))
	if err != nil {
		return nil, fmt.Errorf("fitz render page 0: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "da-fitz-*")
	if err != nil {
		return nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")
	f, err := os.Create(out)
	if err != nil {
		cleanup()
		return nil, err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		cleanup()
		return nil, fmt.Errorf("encode png: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return nil, err
	}
	return newTempArtifact(out, "pdf-fitz", cleanup), nil
}

// renderWithPoppler renders the first page via the external pdftoppm tool.
func (c *Converter) renderWithPoppler(ctx context.Context, path string) (*Artifact, error) {
	src, srcCleanup := c.firstPagePDF(path)
	defer srcCleanup()

	tmpDir, err := os.MkdirTemp("", "da-pp-*")
	if err != nil {
		return nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f 1 -l 1 -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := c.runner.Run(ctx, c.cfg.Pdftoppm,
		"-f", "1", "-l", "1", "-r", fmt.Sprintf("%d", c.cfg.DPI), "-png", src, prefix)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("pdftoppm: %w (%s)", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		cleanup()
		return nil, fmt.Errorf("pdftoppm produced no images")
	}
	return newTempArtifact(matches[0], "pdf-poppler", cleanup), nil
}

// renderWithMagick rasterizes the first page via ImageMagick as a last
// resort for hosts with neither MuPDF nor poppler.
func (c *Converter) renderWithMagick(ctx context.Context, path string) (*Artifact, error) {
	src, srcCleanup := c.firstPagePDF(path)
	defer srcCleanup()

	tmpDir, err := os.MkdirTemp("", "da-im-*")
	if err != nil {
		return nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")

	// magick -density <dpi> <in.pdf>[0] <out.png>
	_, errb, err := c.runner.Run(ctx, c.cfg.Magick,
		"-density", fmt.Sprintf("%d", c.cfg.DPI), src+"[0]", out)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("magick: %w (%s)", err, truncate(string(errb), 512))
	}
	if _, statErr := os.Stat(out); statErr != nil {
		cleanup()
		return nil, fmt.Errorf("magick produced no output: %v", statErr)
	}
	return newTempArtifact(out, "pdf-magick", cleanup), nil
}

// firstPagePDF trims the PDF to its first page so external renderers only
// touch what will actually be consumed. Falls back to the original file when
// trimming fails; the returned cleanup is always safe to call.
func (c *Converter) firstPagePDF(path string) (string, func()) {
	tmpDir, err := os.MkdirTemp("", "da-trim-*")
	if err != nil {
		return path, func() {}
	}
	out := filepath.Join(tmpDir, "first.pdf")
	if err := api.TrimFile(path, out, []string{"1"}, nil); err != nil {
		c.logger.Debug("convert.pdfcpu.trim_failed", "path", path, "error", err)
		_ = os.RemoveAll(tmpDir)
		return path, func() {}
	}
	return out, func() { _ = os.RemoveAll(tmpDir) }
}
