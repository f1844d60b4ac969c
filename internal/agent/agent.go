// Package agent drives a full discovery run: search queries go out, the
// extraction model pulls candidate events from the hits, the validation
// pipeline corrects or rejects them, and survivors land in the store.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uaplan/eventradar/internal/config"
	"github.com/uaplan/eventradar/internal/extract"
	"github.com/uaplan/eventradar/internal/metrics"
	"github.com/uaplan/eventradar/internal/model"
	"github.com/uaplan/eventradar/internal/search"
	"github.com/uaplan/eventradar/internal/translate"
	"github.com/uaplan/eventradar/internal/validate"
)

// ErrRunInProgress is returned by TryRun when a run is already active.
var ErrRunInProgress = errors.New("a discovery run is already in progress")

// Stats summarizes one completed discovery run.
type Stats struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Queries    int             `json:"queries"`
	Results    int             `json:"search_results"`
	Extracted  int             `json:"extracted"`
	Counts     validate.Counts `json:"counts"`
	Errors     []string        `json:"errors,omitempty"`
}

// Agent owns the run lifecycle and guards against overlapping runs.
type Agent struct {
	loader     *config.Loader
	searcher   *search.Client
	extractor  *extract.Client
	translator *translate.Translator
	pipeline   *validate.Pipeline

	mu      sync.Mutex
	running bool
	latest  *Stats
}

func New(loader *config.Loader, searcher *search.Client, extractor *extract.Client, translator *translate.Translator, pipeline *validate.Pipeline) *Agent {
	return &Agent{
		loader:     loader,
		searcher:   searcher,
		extractor:  extractor,
		translator: translator,
		pipeline:   pipeline,
	}
}

// Latest returns the stats of the most recently completed run, or nil if
// none has run yet.
func (a *Agent) Latest() *Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.latest
}

// SwapPipeline replaces the validation pipeline, typically after a
// config hot-reload. The swap takes effect on the next run.
func (a *Agent) SwapPipeline(p *validate.Pipeline) {
	a.mu.Lock()
	a.pipeline = p
	a.mu.Unlock()
}

func (a *Agent) currentPipeline() *validate.Pipeline {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pipeline
}

// TryRun starts a discovery run unless one is active. It blocks until
// the run finishes. The error return is reserved for total failures
// (store or every pipeline stage down); partial failures only show up in
// Stats.Errors.
func (a *Agent) TryRun(ctx context.Context) (*Stats, error) {
	if !a.acquire() {
		return nil, ErrRunInProgress
	}
	stats, err := a.run(ctx)
	a.release(stats)
	return stats, err
}

// Start launches a run in the background. The in-progress check happens
// synchronously, so a 409-style response is race-free.
func (a *Agent) Start(ctx context.Context) error {
	if !a.acquire() {
		return ErrRunInProgress
	}
	go func() {
		stats, err := a.run(ctx)
		a.release(stats)
		if err != nil {
			slog.Error("discovery run failed", "err", err)
		}
	}()
	return nil
}

func (a *Agent) acquire() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return false
	}
	a.running = true
	return true
}

func (a *Agent) release(stats *Stats) {
	a.mu.Lock()
	a.running = false
	a.latest = stats
	a.mu.Unlock()
}

func (a *Agent) run(ctx context.Context) (*Stats, error) {
	cfg := a.loader.Config()
	pipeline := a.currentPipeline()
	stats := &Stats{StartedAt: time.Now().UTC()}
	metrics.RunsStarted.Inc()
	defer func() {
		stats.FinishedAt = time.Now().UTC()
		metrics.RunDuration.Observe(stats.FinishedAt.Sub(stats.StartedAt).Seconds())
	}()

	slog.Info("discovery run started")

	// Stored events are re-checked first, so duplicate comparisons later
	// in the run see a cleaned-up set.
	revCounts, err := pipeline.Revalidate(ctx)
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats, fmt.Errorf("revalidate stored events: %w", err)
	}
	if revCounts.Deleted > 0 {
		slog.Info("stale stored events removed", "deleted", revCounts.Deleted)
	}

	results := a.collect(ctx, cfg, stats)
	if ctx.Err() != nil {
		stats.Errors = append(stats.Errors, ctx.Err().Error())
		return stats, ctx.Err()
	}

	candidates := a.extractAll(ctx, cfg, results, stats)
	stats.Extracted = len(candidates)
	metrics.CandidatesExtracted.Add(float64(len(candidates)))

	for i := range candidates {
		a.translateFields(ctx, &candidates[i])
	}

	counts, _, err := pipeline.ProcessBatch(ctx, candidates)
	counts.Deleted = revCounts.Deleted
	stats.Counts = counts
	if err != nil {
		stats.Errors = append(stats.Errors, err.Error())
		return stats, fmt.Errorf("validation pipeline: %w", err)
	}

	slog.Info("discovery run finished",
		"queries", stats.Queries,
		"results", stats.Results,
		"extracted", stats.Extracted,
		"accepted", counts.Accepted,
		"corrected", counts.Corrected,
		"rejected", rejectedTotal(counts),
		"deleted", counts.Deleted,
		"duration", time.Since(stats.StartedAt).Round(time.Second))
	return stats, nil
}

// collect runs every configured query, deduplicating hits by URL. A
// single failed query degrades the run instead of aborting it.
func (a *Agent) collect(ctx context.Context, cfg *config.Config, stats *Stats) []search.Result {
	queries := search.Queries()
	stats.Queries = len(queries)

	seen := make(map[string]bool)
	var results []search.Result
	for _, q := range queries {
		if ctx.Err() != nil {
			return results
		}
		metrics.SearchQueries.Inc()
		hits, err := a.searcher.Search(ctx, q, cfg.Search.MaxResults)
		if err != nil {
			metrics.SearchErrors.Inc()
			slog.Warn("search query failed", "query", q, "err", err)
			stats.Errors = append(stats.Errors, "search: "+err.Error())
			continue
		}
		for _, h := range hits {
			if h.URL == "" || seen[h.URL] {
				continue
			}
			seen[h.URL] = true
			results = append(results, h)
		}
	}
	stats.Results = len(results)
	return results
}

// extractAll feeds search results to the model in batches.
func (a *Agent) extractAll(ctx context.Context, cfg *config.Config, results []search.Result, stats *Stats) []model.CandidateEvent {
	batch := cfg.Extract.BatchSize
	if batch <= 0 {
		batch = 20
	}

	var candidates []model.CandidateEvent
	for start := 0; start < len(results); start += batch {
		if ctx.Err() != nil {
			return candidates
		}
		end := min(start+batch, len(results))
		events, err := a.extractor.Extract(ctx, results[start:end], cfg.Extract.WindowDays)
		if err != nil {
			slog.Warn("extraction batch failed", "batch_start", start, "err", err)
			stats.Errors = append(stats.Errors, "extract: "+err.Error())
			continue
		}
		candidates = append(candidates, events...)
	}
	return candidates
}

// translateFields renders Ukrainian title and summary into English.
// Translation runs on every candidate up front so relevance checks see
// English text regardless of the source language.
func (a *Agent) translateFields(ctx context.Context, ev *model.CandidateEvent) {
	if a.translator == nil {
		return
	}
	ev.Title = a.translator.Translate(ctx, ev.Title, "event title")
	ev.Summary = a.translator.Translate(ctx, ev.Summary, "event summary")
	ev.Organizer = a.translator.Translate(ctx, ev.Organizer, "organizer name")
}

func rejectedTotal(c validate.Counts) int {
	total := 0
	for _, n := range c.Rejected {
		total += n
	}
	return total
}
