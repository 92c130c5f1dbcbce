package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractProvider runs the local Tesseract engine against the raster.
// It needs no network or credentials, which makes it the cheap baseline the
// reconciler can cross-check the vision models against.
type TesseractProvider struct {
	lang string // "+"-separated, e.g. "heb+eng"
}

func NewTesseractProvider(lang string) *TesseractProvider {
	if lang == "" {
		lang = "eng"
	}
	return &TesseractProvider{lang: lang}
}

func (p *TesseractProvider) ID() string { return "tesseract" }

func (p *TesseractProvider) Extract(ctx context.Context, in Input) (string, error) {
	if in.ImagePath == "" {
		return "", fmt.Errorf("no raster image available for tesseract")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(strings.Split(p.lang, "+")...); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImage(in.ImagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return strings.TrimSpace(text), nil
}
