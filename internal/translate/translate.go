// Package translate renders Ukrainian event fields into English via the
// extraction model. Translation failure is never fatal: the original text
// is kept.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// Completer is the single LLM call translation needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Translator converts Ukrainian text to English.
type Translator struct {
	llm Completer
}

func New(llm Completer) *Translator {
	return &Translator{llm: llm}
}

// HasUkrainian reports whether text contains Cyrillic characters.
func HasUkrainian(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}

// Translate returns the English rendering of text, or the original when
// it is not Ukrainian or the model call fails.
func (t *Translator) Translate(ctx context.Context, text, kind string) string {
	if text == "" || !HasUkrainian(text) {
		return t.cleanup(text)
	}
	system := fmt.Sprintf("You are a professional translator. Translate Ukrainian text to English. Preserve the meaning and tone. For %s, keep it concise and professional. Return only the translation.", kind)
	out, err := t.llm.Complete(ctx, system, "Translate this Ukrainian text to English: "+text)
	if err != nil {
		slog.Warn("translation failed, keeping original", "kind", kind, "err", err)
		return text
	}
	out = t.cleanup(out)
	if out == "" {
		return text
	}
	return out
}

func (t *Translator) cleanup(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}
