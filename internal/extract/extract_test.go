package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uaplan/eventradar/internal/model"
	"github.com/uaplan/eventradar/internal/search"
)

func TestParseEventsBareArray(t *testing.T) {
	events := parseEvents(`[
		{"event_title": "Urban Recovery Forum", "event_date": "2026-03-12", "url": "https://example.org/ev"},
		{"event_title": "Housing Policy Seminar", "event_date": "2026-03-20", "url": "https://example.org/ev2"}
	]`)
	require.Len(t, events, 2)
	assert.Equal(t, "Urban Recovery Forum", events[0].Title)
	assert.Equal(t, model.NewDate(2026, time.March, 12), events[0].Date)
}

func TestParseEventsFencedAndEnveloped(t *testing.T) {
	fenced := "```json\n{\"events\": [{\"event_title\": \"Forum\", \"event_date\": \"2026-03-12\", \"url\": \"https://e.org/x\"}]}\n```"
	events := parseEvents(fenced)
	require.Len(t, events, 1)
	assert.Equal(t, "Forum", events[0].Title)
}

func TestParseEventsDropsMalformedEntries(t *testing.T) {
	events := parseEvents(`[
		{"event_title": "Good One", "event_date": "2026-03-12", "url": "https://e.org/1"},
		{"event_title": "Bad Date", "event_date": "sometime soon", "url": "https://e.org/2"},
		"not even an object"
	]`)
	require.Len(t, events, 1)
	assert.Equal(t, "Good One", events[0].Title)
}

func TestParseEventsGarbage(t *testing.T) {
	assert.Empty(t, parseEvents("I could not find any events."))
	assert.Empty(t, parseEvents(""))
	assert.Empty(t, parseEvents("[]"))
}

func chatCompletion(content string) string {
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	out, _ := json.Marshal(body)
	return string(out)
}

func TestExtractFiltersWindowAndIncomplete(t *testing.T) {
	content := `[
		{"event_title": "In Window Forum", "event_date": "2026-03-15", "url": "https://e.org/1", "category": "Recovery"},
		{"event_title": "Too Far Out Forum", "event_date": "2026-09-01", "url": "https://e.org/2"},
		{"event_title": "Already Over Forum", "event_date": "2026-02-01", "url": "https://e.org/3"},
		{"event_title": "No URL Forum", "event_date": "2026-03-16"}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chatCompletion(content)))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "test-key", "gpt-4o-mini", 5*time.Second)
	require.NoError(t, err)
	c.Now = func() time.Time { return time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC) }

	events, err := c.Extract(context.Background(), []search.Result{
		{Title: "hit", URL: "https://e.org/hit", Content: "some content"},
	}, 28)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "In Window Forum", events[0].Title)
	assert.Equal(t, model.CategoryRecovery, events[0].Category)
	// Registration URL falls back to the source URL.
	assert.Equal(t, "https://e.org/1", events[0].RegistrationURL)
}

func TestExtractEmptyInput(t *testing.T) {
	c, err := NewClient("http://unused", "test-key", "gpt-4o-mini", time.Second)
	require.NoError(t, err)
	events, err := c.Extract(context.Background(), nil, 28)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("http://x", "", "gpt-4o-mini", time.Second)
	assert.Error(t, err)
}
