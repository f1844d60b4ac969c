package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/uaplan/eventradar/internal/model"
	"github.com/uaplan/eventradar/internal/search"
)

const systemPrompt = `You are an expert event extraction system for urban planning, post-war recovery, and housing policy events in Ukraine.

Your task is to:
1. Identify professional events (conferences, workshops, seminars, webinars) related to:
   - Urban planning and spatial planning
   - Post-war recovery and reconstruction
   - Housing policy and affordable housing
   - Municipal governance and capacity building

2. Filter out:
   - Student projects or academic assignments
   - Protests or political rallies (unless they are professional policy forums)
   - Past events
   - Non-Ukraine related events (unless they are international events specifically about Ukraine)

3. Extract structured data for each valid event:
   - event_title: Clear, descriptive title
   - event_date: Date in YYYY-MM-DD format
   - event_time: Time in HH:MM 24-hour format, or null if unavailable
   - organizer: Name of organizing entity
   - url: The source URL where event information was found
   - registration_url: Direct link to the registration page if available
   - category: One of "Legislation", "Housing", "Recovery", "General"
   - is_online: Boolean indicating whether the event is online/virtual
   - target_audience: Comma-separated list of target audiences
   - summary: 1-2 sentence English description of the event

Return ONLY a valid JSON array of event objects. If no valid events are found, return an empty array [].`

// maxContextResults caps how many search hits go into one prompt.
const maxContextResults = 20

// maxSnippetLen truncates each result's content in the prompt.
const maxSnippetLen = 1000

// Extract prompts the model with a batch of search results and parses the
// returned events. Malformed entries are dropped individually; the error
// return is reserved for the call itself failing.
func (c *Client) Extract(ctx context.Context, results []search.Result, windowDays int) ([]model.CandidateEvent, error) {
	if len(results) == 0 {
		return nil, nil
	}

	today := model.DateOf(c.Now())
	horizon := today.AddDays(windowDays)

	user := fmt.Sprintf(
		"Today's date is %s. Extract events from the following search results that occur between %s and %s.\n\nSearch Results:\n%s\n\nExtract all valid professional events and return as JSON array.",
		today, today, horizon, buildContext(results),
	)

	completion, err := c.Complete(ctx, systemPrompt, user)
	if err != nil {
		return nil, err
	}

	events := parseEvents(completion)

	var valid []model.CandidateEvent
	for _, ev := range events {
		if !ev.Complete() {
			slog.Debug("dropping incomplete extracted event", "title", ev.Title)
			continue
		}
		if ev.Date.Before(today) || ev.Date.After(horizon) {
			slog.Debug("dropping event outside window", "title", ev.Title, "date", ev.Date.String())
			continue
		}
		ev.Category = model.ParseCategory(string(ev.Category))
		if ev.RegistrationURL == "" {
			ev.RegistrationURL = ev.URL
		}
		valid = append(valid, ev)
	}
	return valid, nil
}

func buildContext(results []search.Result) string {
	if len(results) > maxContextResults {
		results = results[:maxContextResults]
	}
	var b strings.Builder
	for i, r := range results {
		content := r.Content
		if len(content) > maxSnippetLen {
			content = content[:maxSnippetLen]
		}
		fmt.Fprintf(&b, "Result %d:\nTitle: %s\nURL: %s\nContent: %s\n\n", i+1, r.Title, r.URL, content)
	}
	return b.String()
}

// parseEvents tolerates the model's habitual formatting drift: markdown
// code fences, an {"events": [...]} envelope instead of a bare array, and
// individually malformed entries inside an otherwise good array.
func parseEvents(completion string) []model.CandidateEvent {
	text := stripFences(completion)

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		var envelope struct {
			Events []json.RawMessage `json:"events"`
		}
		if err := json.Unmarshal([]byte(text), &envelope); err != nil {
			slog.Warn("extraction output is not JSON", "err", err)
			return nil
		}
		raw = envelope.Events
	}

	var events []model.CandidateEvent
	for _, entry := range raw {
		var ev model.CandidateEvent
		if err := json.Unmarshal(entry, &ev); err != nil {
			slog.Debug("dropping unparseable extracted entry", "err", err)
			continue
		}
		events = append(events, ev)
	}
	return events
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 3 {
		return s
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}
