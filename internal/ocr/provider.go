package ocr

import (
	"context"

	"github.com/amitkess/docaspects/constants"
)

// Input is what one document offers the provider pool: the raster produced
// by the conversion chain plus the original file for parser-based providers
// that can bypass rasterization.
type Input struct {
	ImagePath string // empty when conversion failed
	DocPath   string
	Format    constants.Format
}

// Provider is one independent text-extraction backend.
type Provider interface {
	ID() string
	Extract(ctx context.Context, in Input) (string, error)
}

// Status tags an extraction outcome explicitly instead of sniffing the text
// for failure prefixes.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result is one provider's outcome for one document. Failures carry a
// human-readable sentinel in Text so legacy consumers that only look at text
// still see an unmistakable non-transcription.
type Result struct {
	Provider string
	Status   Status
	Text     string
	Err      string
}

// Failed reports whether the result must not be treated as extractable
// content downstream.
func (r Result) Failed() bool {
	return r.Status != StatusSuccess
}
