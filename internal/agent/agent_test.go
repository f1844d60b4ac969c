package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uaplan/eventradar/internal/config"
	"github.com/uaplan/eventradar/internal/extract"
	"github.com/uaplan/eventradar/internal/fetch"
	"github.com/uaplan/eventradar/internal/model"
	"github.com/uaplan/eventradar/internal/search"
	"github.com/uaplan/eventradar/internal/translate"
	"github.com/uaplan/eventradar/internal/validate"
)

type memStore struct {
	mu     sync.Mutex
	byURL  map[string]model.StoredEvent
	nextID int
}

func newMemStore() *memStore { return &memStore{byURL: make(map[string]model.StoredEvent)} }

func (s *memStore) Snapshot(ctx context.Context) ([]model.StoredEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StoredEvent
	for _, ev := range s.byURL {
		out = append(out, ev)
	}
	return out, nil
}

func (s *memStore) Upsert(ctx context.Context, ev model.CandidateEvent) (model.StoredEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byURL[ev.URL]; ok {
		existing.CandidateEvent = ev
		s.byURL[ev.URL] = existing
		return existing, nil
	}
	s.nextID++
	stored := model.StoredEvent{
		ID:             fmt.Sprintf("ev-%d", s.nextID),
		CandidateEvent: ev,
		CreatedAt:      time.Now(),
	}
	s.byURL[ev.URL] = stored
	return stored, nil
}

func (s *memStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for url, ev := range s.byURL {
		if ev.ID == id {
			delete(s.byURL, url)
			return nil
		}
	}
	return fmt.Errorf("no such event %s", id)
}

func TestFullDiscoveryRun(t *testing.T) {
	today := time.Now().UTC()
	eventDate := today.AddDate(0, 0, 10).Format("2006-01-02")

	// Pages server stands in for the event sites.
	pages := http.NewServeMux()
	pagesSrv := httptest.NewServer(pages)
	defer pagesSrv.Close()
	pages.HandleFunc("/events/recovery-forum", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><title>Urban Recovery Forum Kyiv</title></head>
			<body><p>Event date: %s</p><p>Forum on reconstruction of cities.</p></body></html>`, eventDate)
	})

	// Search provider returns one hit for every query.
	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "Urban Recovery Forum Kyiv", "url": pagesSrv.URL + "/events/recovery-forum", "content": "forum announcement"},
			},
		})
	}))
	defer searchSrv.Close()

	// Extraction model returns one candidate.
	llmSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := fmt.Sprintf(`[{"event_title": "Urban Recovery Forum Kyiv", "event_date": %q, "url": %q, "category": "Recovery", "summary": "Forum on reconstruction."}]`,
			eventDate, pagesSrv.URL+"/events/recovery-forum")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		})
	}))
	defer llmSrv.Close()

	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	cfgBody := fmt.Sprintf("search:\n  base_url: %q\nextract:\n  base_url: %q\npipeline:\n  fetch_workers: 2\n", searchSrv.URL, llmSrv.URL)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgBody), 0o644))
	loader, err := config.NewLoader(cfgPath)
	require.NoError(t, err)
	cfg := loader.Config()

	searcher, err := search.NewClient(cfg.Search.BaseURL, "test-key", 5*time.Second)
	require.NoError(t, err)
	extractor, err := extract.NewClient(cfg.Extract.BaseURL, "test-key", cfg.Extract.Model, 5*time.Second)
	require.NoError(t, err)

	store := newMemStore()
	pipeline := validate.New(cfg, fetch.New(5*time.Second), store, searcher)
	ag := New(loader, searcher, extractor, translate.New(extractor), pipeline)

	stats, err := ag.TryRun(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Results, "identical hits must deduplicate by URL")
	assert.Equal(t, 1, stats.Extracted)
	assert.Equal(t, 1, stats.Counts.Accepted+stats.Counts.Corrected)
	assert.Len(t, store.byURL, 1)

	latest := ag.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, stats.Queries, latest.Queries)
}

func TestTryRunSingleFlight(t *testing.T) {
	loader, err := config.NewLoader("")
	require.NoError(t, err)

	ag := New(loader, nil, nil, nil, nil)
	ag.acquire() // simulate an in-flight run

	_, err = ag.TryRun(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	assert.ErrorIs(t, ag.Start(context.Background()), ErrRunInProgress)
}
