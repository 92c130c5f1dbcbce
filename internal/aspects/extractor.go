// Package aspects maps canonical text plus a concept vocabulary to a
// structured field map via one chat-model call.
package aspects

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amitkess/docaspects/constants"
	"github.com/amitkess/docaspects/internal/common"
	"github.com/amitkess/docaspects/internal/llm"
)

type Extractor struct {
	client llm.Client
	logger *slog.Logger
}

func NewExtractor(client llm.Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, logger: logger}
}

// Extract returns one entry per requested concept value: the extracted
// string, or the "Not found" sentinel when the document gives no support.
// Requested values are never omitted from the output.
func (e *Extractor) Extract(ctx context.Context, text string, conceptValues []string, format constants.Format) (map[string]string, error) {
	rid := uuid.New().String()
	start := time.Now()
	e.logger.Info("aspects.extract.start",
		"req_id", rid,
		"text_len", len(text),
		"concepts", len(conceptValues),
		"format", string(format),
	)

	raw, err := e.client.Complete(ctx, llm.Request{
		System: "You are a precise information-extraction engine. You return only JSON.",
		Prompt: buildExtractionPrompt(text, conceptValues, format),
	})
	if err != nil {
		e.logger.Error("aspects.extract.call_failed", "req_id", rid, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}

	parsed, err := decodeObject(raw)
	if err != nil {
		e.logger.Error("aspects.extract.decode_failed", "req_id", rid, "error", err, "raw_len", len(raw))
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}

	out, dropped := normalize(parsed, conceptValues)

	// Validate the normalized shape; by construction this only fails on a
	// programming error, which is exactly when we want to hear about it.
	nb, _ := json.Marshal(out)
	if err := ValidateJSONAgainstSchema(BuildAspectsJSONSchema(conceptValues), nb); err != nil {
		return nil, fmt.Errorf("%w: schema validation: %v", common.ErrExtractionFailed, err)
	}

	if len(dropped) > 0 {
		e.logger.Warn("aspects.extract.dropped_keys", "req_id", rid, "keys", dropped)
	}
	e.logger.Info("aspects.extract.ok",
		"req_id", rid,
		"concepts", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// normalize coerces model output values to strings, drops keys that were
// never requested, and fills missing concepts with the sentinel.
func normalize(parsed map[string]any, conceptValues []string) (map[string]string, []string) {
	out := make(map[string]string, len(conceptValues))
	requested := make(map[string]struct{}, len(conceptValues))
	for _, v := range conceptValues {
		requested[v] = struct{}{}
	}

	var dropped []string
	for k, v := range parsed {
		if _, ok := requested[k]; !ok {
			dropped = append(dropped, k)
			continue
		}
		out[k] = stringify(v)
	}
	for _, v := range conceptValues {
		if s, ok := out[v]; !ok || strings.TrimSpace(s) == "" {
			out[v] = constants.NotFound
		}
	}
	return out, dropped
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case nil:
		return ""
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

// decodeObject tolerates markdown fencing and prose around the JSON object.
func decodeObject(raw string) (map[string]any, error) {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			s = s[i : j+1]
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("model output is not a JSON object: %w", err)
	}
	return m, nil
}

func buildExtractionPrompt(text string, conceptValues []string, format constants.Format) string {
	var b strings.Builder
	b.WriteString("Extract the following aspects from the document text below.\n")
	if format != "" {
		fmt.Fprintf(&b, "The text was transcribed from a %s file.\n", format)
	}
	b.WriteString("\nAspects to extract:\n")
	for _, v := range conceptValues {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	b.WriteString("\nDocument text:\n---\n")
	b.WriteString(text)
	b.WriteString("\n---\n\n")
	b.WriteString(`Return ONLY a JSON object. Use each aspect name above, exactly as written, as a key. ` +
		`The value is the string extracted from the document, verbatim where possible. ` +
		`If the document contains no support for an aspect, use the exact value "Not found". ` +
		`Include every requested aspect. Do not add keys, comments, or explanations.`)
	return b.String()
}
