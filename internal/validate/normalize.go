// Package validate implements the event validation and correction
// pipeline: duplicate detection, URL classification and link following,
// date extraction with confidence scoring, relevance filtering, and the
// orchestrator that ties them into accept/correct/reject verdicts.
package validate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes to NFD, drops combining marks, and recomposes,
// so "café" and "cafe" normalize identically.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer canonicalizes titles before similarity comparison.
type Normalizer struct {
	stop map[string]bool
}

// NewNormalizer builds a Normalizer with the given stop-word list.
func NewNormalizer(stopWords []string) *Normalizer {
	stop := make(map[string]bool, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = true
	}
	return &Normalizer{stop: stop}
}

// Normalize lowercases, strips diacritics and punctuation, and removes
// stop-words. Case and accent differences must never affect matching.
func (n *Normalizer) Normalize(title string) string {
	folded, _, err := transform.String(foldDiacritics, strings.ToLower(title))
	if err != nil {
		folded = strings.ToLower(title)
	}

	var b strings.Builder
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var kept []string
	for _, w := range strings.Fields(b.String()) {
		if !n.stop[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// Tokens returns the normalized title as a token set.
func (n *Normalizer) Tokens(title string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(n.Normalize(title)) {
		set[w] = true
	}
	return set
}
