package reconcile

import (
	"strings"
	"unicode"
)

// Language tags the detected document language. Hebrew is the only language
// with specified special-casing; everything else is the default.
type Language string

const (
	LangDefault Language = "english"
	LangHebrew  Language = "hebrew"
)

// Detector maps surviving provider texts to a Language. It is pluggable so
// further languages can be added without touching the fusion logic.
type Detector func(texts []string) Language

// DetectLanguage is the default Detector: a result is Hebrew when any
// provider output mentions the marker token, or when Hebrew script carries a
// meaningful share of the letters. The rune check catches documents the
// marker heuristic misses; the marker keeps parity with provider notes like
// "the document is in Hebrew".
func DetectLanguage(texts []string) Language {
	for _, t := range texts {
		if strings.Contains(strings.ToLower(t), "hebrew") {
			return LangHebrew
		}
		if hebrewShare(t) > 0.2 {
			return LangHebrew
		}
	}
	return LangDefault
}

func hebrewShare(s string) float64 {
	var letters, hebrew int
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Hebrew, r) {
			hebrew++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(hebrew) / float64(letters)
}
