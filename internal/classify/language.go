package classify

import (
	"strings"

	"github.com/alexanderramin/taxis/internal/langid"
)

// Values written to the language column when no code is available.
const (
	LanguageUnknown = "unknown"
	LanguageError   = "error"
)

// DetectLanguage returns the ISO 639-1 code of text, LanguageUnknown for
// empty or unidentifiable text and LanguageError when the identifier fails.
func DetectLanguage(id langid.Identifier, text string) (code string) {
	if strings.TrimSpace(text) == "" {
		return LanguageUnknown
	}
	defer func() {
		if recover() != nil {
			code = LanguageError
		}
	}()

	g, err := id.Identify(text)
	if err != nil {
		return LanguageError
	}
	if g.Code == "" {
		return LanguageUnknown
	}
	return g.Code
}

// DetectLanguages runs DetectLanguage over docs in order.
func DetectLanguages(id langid.Identifier, docs []Document) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = DetectLanguage(id, d.Text)
	}
	return out
}
