package ocr

import (
	"context"
	"fmt"
	"os"

	"github.com/amitkess/docaspects/internal/llm"
)

// ocrPrompt is the instruction sent with the raster image.
const ocrPrompt = "Please extract all text from this document."

// VisionProvider reads the conversion chain's raster through a
// vision-capable chat model.
type VisionProvider struct {
	id     string
	client llm.Client
}

// NewVisionProvider wraps a chat client as an OCR provider. The id becomes
// the provider key in pool results.
func NewVisionProvider(id string, client llm.Client) *VisionProvider {
	return &VisionProvider{id: id, client: client}
}

func (p *VisionProvider) ID() string { return p.id }

func (p *VisionProvider) Extract(ctx context.Context, in Input) (string, error) {
	if in.ImagePath == "" {
		return "", fmt.Errorf("no raster image available for %s", p.id)
	}
	data, err := os.ReadFile(in.ImagePath)
	if err != nil {
		return "", fmt.Errorf("read raster: %w", err)
	}
	text, err := p.client.Complete(ctx, llm.Request{
		Prompt:    ocrPrompt,
		ImageData: data,
		ImageMIME: "image/png",
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
