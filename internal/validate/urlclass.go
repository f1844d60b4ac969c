package validate

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/uaplan/eventradar/internal/config"
)

// PageClass is the outcome of URL classification.
type PageClass int

const (
	ClassEventPage PageClass = iota // specific event page
	ClassNewsPage                   // news/article page
	ClassListing                    // listing/aggregator page
	ClassGeneric                    // domain root, home/contact/about
	ClassInaccessible
)

func (c PageClass) String() string {
	switch c {
	case ClassEventPage:
		return "event-page"
	case ClassNewsPage:
		return "news-page"
	case ClassListing:
		return "listing"
	case ClassGeneric:
		return "generic"
	case ClassInaccessible:
		return "inaccessible"
	}
	return "unknown"
}

// newsDatePath matches date-stamped article paths like /2025/11/28/ or
// /news/2025-11-28.
var newsDatePath = regexp.MustCompile(`/20\d{2}[/-]\d{1,2}[/-]\d{1,2}(/|$)`)

// Classifier assigns a PageClass to a URL from its shape alone.
// Precedence is fixed: event > news > listing > generic, and anything
// unmatched defaults to the most permissive class, event page.
type Classifier struct {
	eventPatterns   []*regexp.Regexp
	listingPatterns []*regexp.Regexp
	genericPages    []string
	newsHosts       []string
	spamHosts       []string
	socialHosts     []string
}

func NewClassifier(kw config.KeywordsConf) *Classifier {
	return &Classifier{
		eventPatterns:   compileAll(kw.EventPathPatterns),
		listingPatterns: compileAll(kw.ListingPathPattern),
		genericPages:    kw.GenericPages,
		newsHosts:       kw.NewsHosts,
		spamHosts:       kw.SpamHosts,
		socialHosts:     kw.SocialHosts,
	}
}

func compileAll(patterns []string) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			out = append(out, re)
		}
	}
	return out
}

// Classify evaluates the precedence rules in order; the first match wins,
// so a URL carrying both a news-date segment and an event-detail segment
// classifies deterministically.
func (c *Classifier) Classify(rawURL string) PageClass {
	u, err := url.Parse(strings.ToLower(rawURL))
	if err != nil || u.Host == "" {
		return ClassInaccessible
	}
	path := u.Path

	for _, re := range c.eventPatterns {
		if re.MatchString(path) {
			return ClassEventPage
		}
	}

	if hostIn(u.Host, c.newsHosts) || newsDatePath.MatchString(path) ||
		strings.Contains(path, "/news/") || strings.Contains(path, "/article/") {
		return ClassNewsPage
	}

	for _, re := range c.listingPatterns {
		if re.MatchString(path) {
			return ClassListing
		}
	}

	if path == "" || path == "/" {
		return ClassGeneric
	}
	trimmed := strings.TrimSuffix(path, "/")
	for _, g := range c.genericPages {
		if trimmed == g {
			return ClassGeneric
		}
	}

	return ClassEventPage
}

// IsSpamHost reports whether the URL belongs to a known spam conference
// aggregator.
func (c *Classifier) IsSpamHost(rawURL string) bool {
	return hostMatches(rawURL, c.spamHosts)
}

// IsSocialHost reports whether the URL points at a social-media platform;
// failures there trigger a fallback search rather than rejection.
func (c *Classifier) IsSocialHost(rawURL string) bool {
	return hostMatches(rawURL, c.socialHosts)
}

func hostMatches(rawURL string, hosts []string) bool {
	u, err := url.Parse(strings.ToLower(rawURL))
	if err != nil {
		return false
	}
	return hostIn(u.Host, hosts)
}

func hostIn(host string, hosts []string) bool {
	for _, h := range hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
