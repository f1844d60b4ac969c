package validate

import (
	"testing"
	"time"

	"github.com/uaplan/eventradar/internal/model"
)

func storedEvent(id, title, url string, date model.Date, created time.Time) model.StoredEvent {
	return model.StoredEvent{
		ID: id,
		CandidateEvent: model.CandidateEvent{
			Title: title,
			Date:  date,
			URL:   url,
		},
		CreatedAt: created,
	}
}

func TestFindDuplicateByURL(t *testing.T) {
	d := NewDuplicateDetector(defaultNormalizer(), 0.85)
	day := model.NewDate(2026, time.March, 5)
	stored := []model.StoredEvent{
		storedEvent("a", "Completely Different Title Here", "https://example.org/ev/1", day.AddDays(30), time.Now()),
	}

	cand := model.CandidateEvent{Title: "Urban Recovery Forum", Date: day, URL: "https://example.org/ev/1"}
	m, ok := d.Find(cand, stored)
	if !ok || !m.ByURL {
		t.Fatal("identical URL must match regardless of title and date")
	}
	if m.Event.ID != "a" {
		t.Errorf("matched %s", m.Event.ID)
	}
}

func TestFindDuplicateByTitleSameDay(t *testing.T) {
	d := NewDuplicateDetector(defaultNormalizer(), 0.85)
	day := model.NewDate(2026, time.March, 5)
	stored := []model.StoredEvent{
		storedEvent("a", "Urban Recovery Forum Kyiv", "https://one.example/ev", day, time.Now()),
	}

	cand := model.CandidateEvent{Title: "urban recovery forum kyiv", Date: day, URL: "https://two.example/ev"}
	if _, ok := d.Find(cand, stored); !ok {
		t.Error("same-day identical title must match")
	}

	// Same title on a different day is a different event.
	cand.Date = day.AddDays(7)
	if _, ok := d.Find(cand, stored); ok {
		t.Error("different-day match must not be a duplicate")
	}
}

func TestFindDuplicateBelowThreshold(t *testing.T) {
	d := NewDuplicateDetector(defaultNormalizer(), 0.85)
	day := model.NewDate(2026, time.March, 5)
	stored := []model.StoredEvent{
		storedEvent("a", "Housing Policy Roundtable Lviv", "https://one.example/ev", day, time.Now()),
	}
	cand := model.CandidateEvent{Title: "Urban Recovery Forum Kyiv", Date: day, URL: "https://two.example/ev"}
	if _, ok := d.Find(cand, stored); ok {
		t.Error("dissimilar titles matched")
	}
}

func TestFindDuplicateTieBreak(t *testing.T) {
	d := NewDuplicateDetector(defaultNormalizer(), 0.85)
	day := model.NewDate(2026, time.March, 5)
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)

	stored := []model.StoredEvent{
		storedEvent("newer", "Urban Recovery Forum", "https://a.example/1", day, newer),
		storedEvent("older", "Urban Recovery Forum", "https://b.example/2", day, older),
	}
	cand := model.CandidateEvent{Title: "Urban Recovery Forum", Date: day, URL: "https://c.example/3"}
	m, ok := d.Find(cand, stored)
	if !ok {
		t.Fatal("expected match")
	}
	if m.Event.ID != "older" {
		t.Errorf("tie broke to %s, want the earliest-created record", m.Event.ID)
	}
}

func TestIsPair(t *testing.T) {
	d := NewDuplicateDetector(defaultNormalizer(), 0.85)
	day := model.NewDate(2026, time.March, 5)

	a := model.CandidateEvent{Title: "Urban Recovery Forum", Date: day, URL: "https://a.example/1"}
	b := model.CandidateEvent{Title: "Forum Urban Recovery", Date: day, URL: "https://b.example/2"}
	if !d.IsPair(a, b) {
		t.Error("reordered same-day titles must pair")
	}

	b.Date = day.AddDays(1)
	if d.IsPair(a, b) {
		t.Error("different days must not pair")
	}
}

func TestFindAgainstEmptyStore(t *testing.T) {
	d := NewDuplicateDetector(defaultNormalizer(), 0.85)
	cand := model.CandidateEvent{Title: "Urban Recovery Forum", Date: model.NewDate(2026, time.March, 5), URL: "https://a.example/1"}
	if _, ok := d.Find(cand, nil); ok {
		t.Error("empty store produced a duplicate")
	}
}
