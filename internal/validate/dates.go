package validate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/uaplan/eventradar/internal/config"
	"github.com/uaplan/eventradar/internal/model"
)

// Confidence levels for the priority-ordered extraction rules. These are
// heuristic ranks, not probabilities: they only order competing rules.
const (
	confMarker   = 0.95 // date following an explicit event-date marker
	confWithTime = 0.85 // date adjacent to a time-of-day token
	confGeneral  = 0.40 // any other date on the page
)

// pubWindow is how many bytes around a publication marker disqualify a
// date from consideration.
const pubWindow = 100

// markerWindow is how far past a date marker we look for the date itself.
const markerWindow = 200

// Extraction is the outcome of one date-extraction attempt.
type Extraction struct {
	Date       model.Date
	Confidence float64
	Source     string
}

// Found reports whether any usable date was extracted.
func (e Extraction) Found() bool { return !e.Date.IsZero() }

// DateExtractor pulls event dates out of page text and flags events the
// page describes in the past tense.
type DateExtractor struct {
	markers        []string
	pubMarkers     []string
	pastIndicators []string
	months         map[string]int

	dmy      *regexp.Regexp // 4 грудня 2025 / 4 December 2025
	mdy      *regexp.Regexp // December 4, 2025
	iso      *regexp.Regexp // 2025-12-04
	withTime *regexp.Regexp // 4 грудня 2025 року, об 11:00 / 4 December 2025 at 11:00
	yearRe   *regexp.Regexp
}

func NewDateExtractor(kw config.KeywordsConf) *DateExtractor {
	names := make([]string, 0, len(kw.Months))
	for name := range kw.Months {
		names = append(names, regexp.QuoteMeta(name))
	}
	// Longest first so "листопада" is not shadowed by a shorter prefix.
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	monthAlt := strings.Join(names, "|")

	return &DateExtractor{
		markers:        lowerAll(kw.DateMarkers),
		pubMarkers:     lowerAll(kw.PublicationMarkers),
		pastIndicators: lowerAll(kw.PastIndicators),
		months:         kw.Months,
		dmy:            regexp.MustCompile(`(\d{1,2})\s+(` + monthAlt + `)\s+(\d{4})`),
		mdy:            regexp.MustCompile(`(` + monthAlt + `)\s+(\d{1,2})\s*,?\s*(\d{4})`),
		iso:            regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`),
		withTime:       regexp.MustCompile(`(\d{1,2})\s+(` + monthAlt + `)\s+(\d{4})\s*(?:року)?\s*,?\s*(?:об?|at)\s*\d{1,2}[:.]\d{2}`),
		yearRe:         regexp.MustCompile(`\b(20\d{2})\b`),
	}
}

func lowerAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}

// Extract applies the priority rules in order and returns the first
// conclusive match. No date at all yields a zero Extraction, which the
// pipeline treats as "keep the candidate date, reduced trust" — never as
// an error.
func (x *DateExtractor) Extract(text string) Extraction {
	if text == "" {
		return Extraction{}
	}
	lower := strings.ToLower(text)

	// Rule 1: date right after an event-date marker phrase.
	for _, marker := range x.markers {
		for idx := 0; ; {
			pos := strings.Index(lower[idx:], marker)
			if pos < 0 {
				break
			}
			pos += idx
			end := pos + len(marker)
			window := lower[end:min(end+markerWindow, len(lower))]
			if d, ok := x.parseAny(window); ok {
				return Extraction{Date: d, Confidence: confMarker, Source: "date-marker"}
			}
			idx = pos + 1
		}
	}

	// Rule 2: a date adjacent to a time-of-day token.
	if m := x.withTime.FindStringSubmatch(lower); m != nil {
		if d, ok := x.composeDMY(m[1], m[2], m[3]); ok {
			return Extraction{Date: d, Confidence: confWithTime, Source: "date-with-time"}
		}
	}

	// Rule 4 (rule 3, publication-adjacent exclusion, is applied inside):
	// any remaining date on the page.
	if d, ok := x.firstFreeDate(lower); ok {
		return Extraction{Date: d, Confidence: confGeneral, Source: "general"}
	}
	return Extraction{}
}

// IsPastEvent scans for explicit past-tense indicators combined with a
// year strictly before the current one. When both appear, the event is
// past no matter what else was extracted.
func (x *DateExtractor) IsPastEvent(text string, today model.Date) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	hasIndicator := false
	for _, ind := range x.pastIndicators {
		if strings.Contains(lower, ind) {
			hasIndicator = true
			break
		}
	}
	if !hasIndicator {
		return false
	}
	for _, m := range x.yearRe.FindAllStringSubmatch(lower, -1) {
		if y, err := strconv.Atoi(m[1]); err == nil && y < today.Year {
			return true
		}
	}
	return false
}

// firstFreeDate finds the first date pattern that is not inside the
// exclusion window of a publication marker.
func (x *DateExtractor) firstFreeDate(lower string) (model.Date, bool) {
	type hit struct {
		start, end int
		date       model.Date
	}
	var hits []hit

	collect := func(re *regexp.Regexp, compose func([]string) (model.Date, bool)) {
		for _, loc := range re.FindAllStringSubmatchIndex(lower, -1) {
			m := submatches(lower, loc)
			if d, ok := compose(m); ok {
				hits = append(hits, hit{start: loc[0], end: loc[1], date: d})
			}
		}
	}
	collect(x.dmy, func(m []string) (model.Date, bool) { return x.composeDMY(m[1], m[2], m[3]) })
	collect(x.mdy, func(m []string) (model.Date, bool) { return x.composeMDY(m[1], m[2], m[3]) })
	collect(x.iso, func(m []string) (model.Date, bool) { return composeISO(m[1], m[2], m[3]) })

	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })

	for _, h := range hits {
		if !x.nearPublicationMarker(lower, h.start, h.end) {
			return h.date, true
		}
	}
	return model.Date{}, false
}

func (x *DateExtractor) nearPublicationMarker(lower string, start, end int) bool {
	ctxStart := max(0, start-pubWindow)
	ctxEnd := min(len(lower), end+pubWindow)
	context := lower[ctxStart:ctxEnd]
	for _, marker := range x.pubMarkers {
		if strings.Contains(context, marker) {
			return true
		}
	}
	return false
}

// parseAny tries the supported formats in order on a short text window.
func (x *DateExtractor) parseAny(window string) (model.Date, bool) {
	if m := x.dmy.FindStringSubmatch(window); m != nil {
		if d, ok := x.composeDMY(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := x.mdy.FindStringSubmatch(window); m != nil {
		if d, ok := x.composeMDY(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	if m := x.iso.FindStringSubmatch(window); m != nil {
		if d, ok := composeISO(m[1], m[2], m[3]); ok {
			return d, true
		}
	}
	return model.Date{}, false
}

func (x *DateExtractor) composeDMY(day, monthName, year string) (model.Date, bool) {
	month, ok := x.months[monthName]
	if !ok {
		return model.Date{}, false
	}
	return composeDate(year, month, day)
}

func (x *DateExtractor) composeMDY(monthName, day, year string) (model.Date, bool) {
	month, ok := x.months[monthName]
	if !ok {
		return model.Date{}, false
	}
	return composeDate(year, month, day)
}

func composeISO(year, month, day string) (model.Date, bool) {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return model.Date{}, false
	}
	return composeDate(year, m, day)
}

func composeDate(year string, month int, day string) (model.Date, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return model.Date{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return model.Date{}, false
	}
	return model.NewDate(y, time.Month(month), d), true
}

func submatches(s string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}
