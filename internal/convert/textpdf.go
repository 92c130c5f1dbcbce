package convert

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// writeTextPDF lays extracted plain text out into a temporary synthetic PDF
// so the regular PDF raster chain can be reused on it.
func writeTextPDF(text string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "da-txtpdf-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "text.pdf")

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 11)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			pdf.Ln(5)
			continue
		}
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	if err := pdf.OutputFileAndClose(out); err != nil {
		cleanup()
		return "", nil, err
	}
	return out, cleanup, nil
}
