package validate

import (
	"github.com/uaplan/eventradar/internal/model"
)

// DuplicateDetector flags candidates that re-report an already known
// event, by URL equality or by fuzzy title match on the same calendar
// day.
type DuplicateDetector struct {
	norm      *Normalizer
	threshold float64
}

func NewDuplicateDetector(norm *Normalizer, threshold float64) *DuplicateDetector {
	return &DuplicateDetector{norm: norm, threshold: threshold}
}

// Match is one stored event a candidate collided with.
type Match struct {
	Event      model.StoredEvent
	Similarity float64
	ByURL      bool
}

// Find returns the stored event the candidate duplicates, if any. When
// several stored events clear the threshold, the highest similarity wins;
// ties go to the earliest-created record. Comparison never fails: an
// empty stored set means no candidate is ever a duplicate.
func (d *DuplicateDetector) Find(candidate model.CandidateEvent, stored []model.StoredEvent) (Match, bool) {
	var best Match
	found := false

	for _, ev := range stored {
		if ev.URL != "" && ev.URL == candidate.URL {
			return Match{Event: ev, Similarity: 1, ByURL: true}, true
		}
		if !ev.Date.Equal(candidate.Date) {
			continue // identical titles on different days are different events
		}
		sim := d.norm.TitleSimilarity(candidate.Title, ev.Title)
		if sim < d.threshold {
			continue
		}
		if !found || sim > best.Similarity ||
			(sim == best.Similarity && ev.CreatedAt.Before(best.Event.CreatedAt)) {
			best = Match{Event: ev, Similarity: sim}
			found = true
		}
	}
	return best, found
}

// IsPair reports whether two candidates from the same run describe the
// same event. Used to catch intra-run duplicates before they reach the
// store.
func (d *DuplicateDetector) IsPair(a, b model.CandidateEvent) bool {
	if a.URL != "" && a.URL == b.URL {
		return true
	}
	if !a.Date.Equal(b.Date) {
		return false
	}
	return d.norm.TitleSimilarity(a.Title, b.Title) >= d.threshold
}
