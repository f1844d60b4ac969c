package validate

import (
	"strings"

	"github.com/uaplan/eventradar/internal/config"
)

// RelevanceFilter decides whether a candidate is in scope. It is tuned
// conservative: a deleted true positive costs more than a displayed false
// positive, so ambiguity always keeps the event.
type RelevanceFilter struct {
	norm     *Normalizer
	positive []string
	types    []string
	locales  []string
	denylist []string
	clashes  []config.ClashRule
}

func NewRelevanceFilter(norm *Normalizer, kw config.KeywordsConf) *RelevanceFilter {
	return &RelevanceFilter{
		norm:     norm,
		positive: lowerAll(kw.DomainPositive),
		types:    lowerAll(kw.EventTypes),
		locales:  lowerAll(kw.Locations),
		denylist: lowerAll(kw.Denylist),
		clashes:  kw.TopicClashes,
	}
}

// Relevant rejects only when a denylisted phrase occurs AND none of the
// three positive sets (domain, event-type, location) match anywhere in
// the title or summary. Everything else is kept.
func (f *RelevanceFilter) Relevant(title, summary string) (bool, string) {
	combined := strings.ToLower(title + " " + summary)

	denied := firstContained(combined, f.denylist)
	if denied == "" {
		return true, ""
	}
	if kw := firstContained(combined, f.positive); kw != "" {
		return true, ""
	}
	if kw := firstContained(combined, f.types); kw != "" {
		return true, ""
	}
	if kw := firstContained(combined, f.locales); kw != "" {
		return true, ""
	}
	return false, "denylisted phrase \"" + denied + "\" with no positive topic match"
}

// TitleClash compares the candidate title against the fetched page title.
// Only a hard clash from the configured pair list rejects; low overlap on
// its own is reported as a warning and the event is kept.
func (f *RelevanceFilter) TitleClash(candidateTitle, pageTitle string) (clash bool, warning string) {
	if pageTitle == "" {
		return false, ""
	}
	candLower := strings.ToLower(candidateTitle)
	pageLower := strings.ToLower(pageTitle)

	for _, rule := range f.clashes {
		left := firstContained(candLower, lowerAll(rule.Left))
		right := firstContained(pageLower, lowerAll(rule.Right))
		if left != "" && right != "" && !f.sharesDomainTerm(candLower, pageLower) {
			return true, "topic clash: \"" + left + "\" vs \"" + right + "\""
		}
	}

	if overlapCount(f.norm, candidateTitle, pageTitle) == 0 {
		return false, "low title overlap with page"
	}
	return false, ""
}

func (f *RelevanceFilter) sharesDomainTerm(a, b string) bool {
	for _, kw := range f.positive {
		if strings.Contains(a, kw) && strings.Contains(b, kw) {
			return true
		}
	}
	return false
}

func firstContained(text string, phrases []string) string {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return p
		}
	}
	return ""
}
