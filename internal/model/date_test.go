package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-12-04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year != 2025 || d.Month != time.December || d.Day != 4 {
		t.Errorf("got %v", d)
	}

	if _, err := ParseDate("04.12.2025"); err == nil {
		t.Error("expected error for non-ISO input")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDateComparisons(t *testing.T) {
	a := NewDate(2025, time.March, 10)
	b := NewDate(2025, time.March, 12)

	if !a.Before(b) || b.Before(a) {
		t.Error("Before is wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After is wrong")
	}
	if !a.Equal(NewDate(2025, time.March, 10)) {
		t.Error("Equal is wrong")
	}
}

func TestAddDaysNormalizes(t *testing.T) {
	d := NewDate(2025, time.December, 30).AddDays(5)
	want := NewDate(2026, time.January, 4)
	if !d.Equal(want) {
		t.Errorf("got %s, want %s", d, want)
	}
}

func TestDaysBetweenIsAbsolute(t *testing.T) {
	a := NewDate(2025, time.June, 1)
	b := NewDate(2025, time.June, 15)
	if got := DaysBetween(a, b); got != 14 {
		t.Errorf("got %d, want 14", got)
	}
	if got := DaysBetween(b, a); got != 14 {
		t.Errorf("got %d, want 14 (reversed)", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.November, 28)
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-11-28"` {
		t.Errorf("got %s", out)
	}

	zero, err := json.Marshal(Date{})
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(zero) != "null" {
		t.Errorf("zero date marshals to %s, want null", zero)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"2025-11-28"`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip got %v", back)
	}
}

func TestCandidateComplete(t *testing.T) {
	base := CandidateEvent{
		Title: "Urban Recovery Forum",
		Date:  NewDate(2026, time.February, 3),
		URL:   "https://example.org/events/recovery-forum",
	}
	if !base.Complete() {
		t.Error("valid candidate reported incomplete")
	}

	cases := []struct {
		name   string
		mutate func(*CandidateEvent)
	}{
		{"short title", func(e *CandidateEvent) { e.Title = "ok" }},
		{"no date", func(e *CandidateEvent) { e.Date = Date{} }},
		{"no url", func(e *CandidateEvent) { e.URL = "" }},
		{"bad scheme", func(e *CandidateEvent) { e.URL = "ftp://example.org/x" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := base
			tc.mutate(&ev)
			if ev.Complete() {
				t.Error("expected incomplete")
			}
		})
	}
}

func TestParseCategory(t *testing.T) {
	if got := ParseCategory("Housing"); got != CategoryHousing {
		t.Errorf("got %s", got)
	}
	if got := ParseCategory(" Recovery "); got != CategoryRecovery {
		t.Errorf("trimmed parse got %s", got)
	}
	if got := ParseCategory("Urbanism"); got != CategoryGeneral {
		t.Errorf("unknown category got %s, want General", got)
	}
	if got := ParseCategory(""); got != CategoryGeneral {
		t.Errorf("empty category got %s, want General", got)
	}
}
