package validate

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/uaplan/eventradar/internal/fetch"
)

// Follower crawls outward from listing and generic pages looking for the
// specific event page a candidate actually refers to.
type Follower struct {
	fetcher    *fetch.Client
	classifier *Classifier
	norm       *Normalizer
	maxDepth   int
	topLinks   int
}

func NewFollower(fetcher *fetch.Client, classifier *Classifier, norm *Normalizer, maxDepth, topLinks int) *Follower {
	return &Follower{
		fetcher:    fetcher,
		classifier: classifier,
		norm:       norm,
		maxDepth:   maxDepth,
		topLinks:   topLinks,
	}
}

type scoredLink struct {
	url   string
	score int
}

// numericID matches product-style numeric identifiers in paths,
// a strong signal for an event detail page.
var numericID = regexp.MustCompile(`\d{4,}`)

// FindEventURL walks from pageURL toward a specific event page, following
// at most topLinks scored links per page and maxDepth hops in total. A
// visited set makes self-referential link cycles terminate. The boolean
// reports whether a better URL was found.
func (f *Follower) FindEventURL(ctx context.Context, pageURL, title string) (string, bool) {
	visited := map[string]bool{}
	found := f.crawl(ctx, pageURL, title, f.maxDepth, visited)
	return found, found != ""
}

func (f *Follower) crawl(ctx context.Context, pageURL, title string, depth int, visited map[string]bool) string {
	if depth <= 0 || visited[pageURL] {
		return ""
	}
	visited[pageURL] = true

	body, finalURL, err := f.fetcher.Page(ctx, pageURL)
	if err != nil {
		return ""
	}
	if finalURL != pageURL {
		visited[finalURL] = true
	}

	links := f.scoreLinks(body, finalURL, title)
	if len(links) > f.topLinks {
		links = links[:f.topLinks]
	}

	// First pass: any already specific event page wins outright.
	for _, l := range links {
		if f.classifier.Classify(l.url) == ClassEventPage && !visited[l.url] {
			return l.url
		}
	}

	// Second pass: descend into listing/generic links.
	for _, l := range links {
		if visited[l.url] {
			continue
		}
		switch f.classifier.Classify(l.url) {
		case ClassListing, ClassGeneric:
			if better := f.crawl(ctx, l.url, title, depth-1, visited); better != "" {
				return better
			}
		}
	}
	return ""
}

// scoreLinks extracts all anchors and ranks them by how likely each is
// the candidate's own event page: event-path shape, anchor-text overlap
// with the title, a numeric detail ID, and path specificity.
func (f *Follower) scoreLinks(body, baseURL, title string) []scoredLink {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	anchors := extractAnchors(body)
	seen := map[string]bool{}
	var links []scoredLink

	for _, a := range anchors {
		resolved := resolveLink(base, a.href)
		if resolved == "" || seen[resolved] {
			continue
		}
		seen[resolved] = true

		if f.classifier.IsSpamHost(resolved) {
			continue
		}

		score := 0
		switch f.classifier.Classify(resolved) {
		case ClassEventPage:
			score += 10
		case ClassListing:
			score += 2
		case ClassNewsPage, ClassGeneric:
			continue
		}
		if numericID.MatchString(resolved) {
			score += 3
		}
		score += 2 * overlapCount(f.norm, title, a.text)
		// Short generic paths carry less information.
		if u, err := url.Parse(resolved); err == nil && len(strings.Trim(u.Path, "/")) < 8 {
			score--
		}
		if score > 0 {
			links = append(links, scoredLink{url: resolved, score: score})
		}
	}

	sort.SliceStable(links, func(i, j int) bool { return links[i].score > links[j].score })
	return links
}

type anchor struct {
	href string
	text string
}

// extractAnchors parses the document and returns every <a href> with its
// visible text. A parse error returns whatever was collected so far.
func extractAnchors(body string) []anchor {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		slog.Debug("html parse failed", "err", err)
		return nil
	}

	var anchors []anchor
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" {
					anchors = append(anchors, anchor{href: attr.Val, text: nodeText(n)})
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return anchors
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
