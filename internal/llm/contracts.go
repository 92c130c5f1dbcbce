package llm

import "context"

// Request is a single-turn completion request, optionally carrying one
// raster image for vision-capable models.
type Request struct {
	System      string
	Prompt      string
	ImageData   []byte // optional raster attachment
	ImageMIME   string // defaults to image/png when ImageData is set
	MaxTokens   int
	Temperature float32
}

// Client is the minimal chat surface the pipeline depends on. Every call is
// a single attempt: these front paid services, and silent retries would cause
// cost and latency surprises.
type Client interface {
	Name() string
	Complete(ctx context.Context, req Request) (string, error)
}

// pick returns the per-request override when set, the client default
// otherwise.
func pick(override, fallback float32) float32 {
	if override > 0 {
		return override
	}
	return fallback
}
