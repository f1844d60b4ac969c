// Package model defines the domain types shared across the discovery pipeline.
package model

import (
	"strings"
	"time"
)

// Category classifies an event into one of a fixed set of topics.
type Category string

const (
	CategoryLegislation Category = "Legislation"
	CategoryHousing     Category = "Housing"
	CategoryRecovery    Category = "Recovery"
	CategoryGeneral     Category = "General"
)

// ParseCategory maps free-form model output onto the enum, defaulting to
// General rather than failing.
func ParseCategory(s string) Category {
	switch Category(strings.TrimSpace(s)) {
	case CategoryLegislation, CategoryHousing, CategoryRecovery, CategoryGeneral:
		return Category(strings.TrimSpace(s))
	}
	return CategoryGeneral
}

// CandidateEvent is a freshly extracted, not-yet-trusted event record.
// Only Title, Date and URL are required; the validation pipeline may
// correct Date and URL before the candidate is promoted.
type CandidateEvent struct {
	Title           string   `json:"event_title"`
	Date            Date     `json:"event_date"`
	Time            string   `json:"event_time,omitempty"` // "HH:MM", optional
	Organizer       string   `json:"organizer,omitempty"`
	URL             string   `json:"url"`
	RegistrationURL string   `json:"registration_url,omitempty"`
	Category        Category `json:"category"`
	Online          bool     `json:"is_online"`
	Audience        string   `json:"target_audience,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// Complete reports whether the candidate carries the fields required to
// enter validation.
func (e CandidateEvent) Complete() bool {
	if len(strings.TrimSpace(e.Title)) < 5 || e.Date.IsZero() {
		return false
	}
	return strings.HasPrefix(e.URL, "http://") || strings.HasPrefix(e.URL, "https://")
}

// StoredEvent is a candidate that passed validation and lives in the
// event store. URL is the de-duplication key and is unique table-wide.
type StoredEvent struct {
	ID string `json:"id"`
	CandidateEvent
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RejectReason names why a candidate was dropped.
type RejectReason string

const (
	RejectPast        RejectReason = "past"
	RejectDuplicate   RejectReason = "duplicate"
	RejectOffTopic    RejectReason = "off-topic"
	RejectUnparseable RejectReason = "unparseable"
)

// VerdictKind is the terminal state of one candidate in a pipeline run.
type VerdictKind int

const (
	VerdictAccepted VerdictKind = iota
	VerdictCorrected
	VerdictRejected
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictAccepted:
		return "accepted"
	case VerdictCorrected:
		return "corrected"
	case VerdictRejected:
		return "rejected"
	}
	return "unknown"
}

// Verdict is the per-candidate outcome of a validation run. It is never
// persisted; it only drives the upsert/discard branch and run counters.
type Verdict struct {
	Kind   VerdictKind
	Event  CandidateEvent
	Reason RejectReason // set only for VerdictRejected
	Notes  []string     // human-readable trail of checks and corrections
}
