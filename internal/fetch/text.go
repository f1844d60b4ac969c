package fetch

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	stripper  = bluemonday.StrictPolicy()
	spaceRe   = regexp.MustCompile(`\s+`)
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	headingRe = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	scriptRe  = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
)

// Text reduces an HTML document to plain text for the keyword and date
// heuristics. Script and style bodies are removed before sanitizing so
// their contents never leak into the text.
func Text(htmlBody string) string {
	cleaned := scriptRe.ReplaceAllString(htmlBody, " ")
	text := stripper.Sanitize(cleaned)
	text = html.UnescapeString(text)
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// Title returns the document title, preferring <title> over the first
// <h1>. Empty when neither is present.
func Title(htmlBody string) string {
	if m := titleRe.FindStringSubmatch(htmlBody); m != nil {
		if t := strings.TrimSpace(html.UnescapeString(stripper.Sanitize(m[1]))); t != "" {
			return t
		}
	}
	if m := headingRe.FindStringSubmatch(htmlBody); m != nil {
		return strings.TrimSpace(html.UnescapeString(stripper.Sanitize(m[1])))
	}
	return ""
}
