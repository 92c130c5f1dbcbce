package common

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"CONVERT_DPI", "OCR_PROVIDERS", "OCR_TIMEOUT", "TESSERACT_LANG",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "LLM_MAX_TOKENS", "JOURNAL_PATH",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Convert.DPI != 300 {
		t.Errorf("DPI = %d, want 300", cfg.Convert.DPI)
	}
	if len(cfg.OCR.Providers) != 4 {
		t.Errorf("Providers = %v, want all four by default", cfg.OCR.Providers)
	}
	if cfg.OCR.TesseractLang != "heb+eng" {
		t.Errorf("TesseractLang = %q", cfg.OCR.TesseractLang)
	}
	if cfg.LLM.MaxTokens != 4096 {
		t.Errorf("MaxTokens = %d", cfg.LLM.MaxTokens)
	}
	if cfg.Journal.Path != "" {
		t.Errorf("Journal.Path = %q, want disabled by default", cfg.Journal.Path)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("CONVERT_DPI", "150")
	t.Setenv("OCR_PROVIDERS", "tesseract, doctext")
	t.Setenv("OCR_TIMEOUT", "30s")

	cfg := LoadConfig()
	if cfg.Convert.DPI != 150 {
		t.Errorf("DPI = %d", cfg.Convert.DPI)
	}
	if len(cfg.OCR.Providers) != 2 || cfg.OCR.Providers[0] != "tesseract" || cfg.OCR.Providers[1] != "doctext" {
		t.Errorf("Providers = %v", cfg.OCR.Providers)
	}
	if cfg.OCR.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.OCR.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		providers []string
		anthropic string
		openai    string
		wantErr   bool
	}{
		{"all keys present", []string{"claude", "openai"}, "sk-a", "sk-o", false},
		{"claude without key", []string{"claude"}, "", "", true},
		{"openai without key", []string{"openai"}, "sk-a", "", true},
		{"anthropic always required", []string{"tesseract"}, "", "", true},
		{"local providers with anthropic key", []string{"tesseract", "doctext"}, "sk-a", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				OCR: OCRConfig{Providers: tt.providers},
				LLM: LLMConfig{AnthropicAPIKey: tt.anthropic, OpenAIAPIKey: tt.openai},
			}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
