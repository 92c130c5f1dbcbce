package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/amitkess/docaspects/constants"
	"github.com/amitkess/docaspects/internal/common"
	"github.com/amitkess/docaspects/internal/llm"
	"github.com/amitkess/docaspects/internal/ocr"
)

// failurePrefixes recognizes legacy failure sentinels embedded in provider
// text. The explicit status tag is authoritative; the prefix check is a
// second guard so a sentinel can never be folded into the canonical text.
var failurePrefixes = []string{"Error", "Failed"}

// ReconciledText is the canonical transcription for one document. Immutable
// once produced.
type ReconciledText struct {
	Text     string
	Sources  int
	Language Language
}

// Reconciler fuses independent OCR extractions into a single canonical text
// with one chat-model call.
type Reconciler struct {
	client llm.Client
	detect Detector
	logger *slog.Logger
}

func NewReconciler(client llm.Client, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{client: client, detect: DetectLanguage, logger: logger}
}

// SetDetector overrides language detection; the default detector only
// distinguishes Hebrew.
func (r *Reconciler) SetDetector(d Detector) {
	if d != nil {
		r.detect = d
	}
}

// Reconcile filters failed extractions and fuses the survivors. With zero
// usable inputs it returns common.ErrNoUsableInput and an empty canonical
// text; nothing is ever fabricated.
func (r *Reconciler) Reconcile(ctx context.Context, results map[string]ocr.Result, format constants.Format, declared Language) (ReconciledText, error) {
	usable := make(map[string]string, len(results))
	for id, res := range results {
		if res.Failed() || isFailureText(res.Text) {
			continue
		}
		if strings.TrimSpace(res.Text) == "" {
			continue
		}
		usable[id] = res.Text
	}
	if len(usable) == 0 {
		r.logger.Warn("reconcile.no_usable_input", "providers", len(results))
		return ReconciledText{Language: declared}, common.ErrNoUsableInput
	}

	ids := make([]string, 0, len(usable))
	texts := make([]string, 0, len(usable))
	for id := range usable {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		texts = append(texts, usable[id])
	}

	lang := declared
	if lang == "" {
		lang = r.detect(texts)
	}

	start := time.Now()
	fused, err := r.client.Complete(ctx, llm.Request{
		Prompt: buildFusionPrompt(ids, usable, format, lang),
	})
	if err != nil {
		return ReconciledText{Language: lang}, fmt.Errorf("reconcile fusion call: %w", err)
	}
	out := ReconciledText{
		Text:     strings.TrimSpace(fused),
		Sources:  len(usable),
		Language: lang,
	}
	r.logger.Info("reconcile.ok",
		"sources", out.Sources,
		"language", string(lang),
		"text_len", len(out.Text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func isFailureText(text string) bool {
	for _, p := range failurePrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// buildFusionPrompt instructs the model how to merge the extractions. The
// guideline order encodes the fusion policy: completeness first, then local
// error correction, structure, entity fidelity, grammatical tie-break, and
// artifact suppression.
func buildFusionPrompt(ids []string, texts map[string]string, format constants.Format, lang Language) string {
	var b strings.Builder
	b.WriteString(`You are an expert OCR text optimizer. You've been given multiple text extractions from the same document,
each produced by a different OCR method. Your task is to create a single, optimized version that combines the best elements
from each extraction.

Follow these guidelines:
1. Prioritize completeness - include all meaningful content from all versions
2. Fix obvious OCR errors (e.g., misrecognized characters, broken words)
3. Maintain the original document structure (paragraphs, lists, tables)
4. Preserve proper names, numbers, and technical terms accurately
5. If versions conflict, prefer the version that appears most grammatically and contextually correct
6. Remove any extraction artifacts or error messages that aren't part of the original document
7. For Hebrew text, ensure proper right-to-left formatting and character recognition
8. Pay special attention to numbers, dates, and other critical information
9. Maintain the original formatting as much as possible (bullet points, numbering, etc.)
10. If a section appears in one version but not others, include it if it seems legitimate
`)

	if format != "" {
		fmt.Fprintf(&b, "\nThis text was extracted from a %s file. ", format)
	}
	fmt.Fprintf(&b, "\nThe primary language of the document is %s. ", strings.ToUpper(string(lang)))
	if lang == LangHebrew {
		b.WriteString("Pay special attention to right-to-left text direction and Hebrew characters. Do not transliterate or reorder Hebrew text. ")
	}

	b.WriteString("\n\nHere are the different OCR extractions:\n\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "--- %s ---\n%s\n\n", id, texts[id])
	}
	b.WriteString("\nPlease provide a single, optimized version of the text that combines the best elements from all extractions. Return ONLY the optimized text without any explanations or notes:")
	return b.String()
}
