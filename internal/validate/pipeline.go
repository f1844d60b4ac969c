package validate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/uaplan/eventradar/internal/config"
	"github.com/uaplan/eventradar/internal/fetch"
	"github.com/uaplan/eventradar/internal/metrics"
	"github.com/uaplan/eventradar/internal/model"
	"github.com/uaplan/eventradar/internal/search"
)

// Store is the slice of the persistence layer the pipeline needs. The
// stored set is read once per run and treated as a stable snapshot;
// corrections re-enter through the same upsert path as new candidates.
type Store interface {
	Snapshot(ctx context.Context) ([]model.StoredEvent, error)
	Upsert(ctx context.Context, ev model.CandidateEvent) (model.StoredEvent, error)
	Delete(ctx context.Context, id string) error
}

// Researcher finds an alternative source URL for an event whose own URL
// turned out broken. Usually backed by the web-search client; nil
// disables re-search.
type Researcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]search.Result, error)
}

// Counts summarizes one validation pass.
type Counts struct {
	Accepted  int                        `json:"accepted"`
	Corrected int                        `json:"corrected"`
	Rejected  map[model.RejectReason]int `json:"rejected"`
	Deleted   int                        `json:"deleted"`
}

func newCounts() Counts {
	return Counts{Rejected: make(map[model.RejectReason]int)}
}

// Pipeline is the correction orchestrator: each candidate passes through
// UrlCheck, DateCheck, RelevanceCheck and DuplicateCheck and ends up
// Accepted, Corrected or Rejected.
type Pipeline struct {
	cfg        config.PipelineConf
	fetcher    *fetch.Client
	classifier *Classifier
	follower   *Follower
	dates      *DateExtractor
	relevance  *RelevanceFilter
	duplicates *DuplicateDetector
	store      Store
	researcher Researcher

	// Now is injectable so tests can pin "today".
	Now func() time.Time
}

// New wires the pipeline from config. researcher may be nil.
func New(cfg *config.Config, fetcher *fetch.Client, store Store, researcher Researcher) *Pipeline {
	norm := NewNormalizer(cfg.Keywords.StopWords)
	classifier := NewClassifier(cfg.Keywords)
	return &Pipeline{
		cfg:        cfg.Pipeline,
		fetcher:    fetcher,
		classifier: classifier,
		follower:   NewFollower(fetcher, classifier, norm, cfg.Pipeline.FollowDepth, cfg.Pipeline.FollowTopLinks),
		dates:      NewDateExtractor(cfg.Keywords),
		relevance:  NewRelevanceFilter(norm, cfg.Keywords),
		duplicates: NewDuplicateDetector(norm, cfg.Pipeline.TitleSimilarity),
		store:      store,
		researcher: researcher,
		Now:        time.Now,
	}
}

// pageInfo is what the concurrent enrichment stage learned about one
// candidate's URL.
type pageInfo struct {
	accessible bool
	fetched    bool
	class      PageClass
	text       string
	pageTitle  string
	body       string
	finalURL   string
}

// ProcessBatch validates freshly extracted candidates against the stored
// snapshot and persists every Accepted/Corrected survivor. Writes are
// serialized; page fetches run on the worker pool. A store failure on
// snapshot read fails the run, individual candidate failures never do.
func (p *Pipeline) ProcessBatch(ctx context.Context, candidates []model.CandidateEvent) (Counts, []model.Verdict, error) {
	counts := newCounts()

	snapshot, err := p.store.Snapshot(ctx)
	if err != nil {
		return counts, nil, fmt.Errorf("read stored events: %w", err)
	}

	infos := p.enrichAll(ctx, candidates)

	var verdicts []model.Verdict
	var acceptedThisRun []model.CandidateEvent

	for i, cand := range candidates {
		if ctx.Err() != nil {
			// Cancellation abandons the rest; earlier commits stand.
			return counts, verdicts, ctx.Err()
		}
		v := p.decide(ctx, cand, infos[i], snapshot, acceptedThisRun)
		verdicts = append(verdicts, v)

		if v.Kind == model.VerdictRejected {
			counts.Rejected[v.Reason]++
			metrics.CandidatesRejected.WithLabelValues(string(v.Reason)).Inc()
			continue
		}

		if _, err := p.store.Upsert(ctx, v.Event); err != nil {
			slog.Error("upsert failed", "title", v.Event.Title, "err", err)
			continue
		}
		acceptedThisRun = append(acceptedThisRun, v.Event)

		// Counted only once the event actually landed in the store.
		if v.Kind == model.VerdictCorrected {
			counts.Corrected++
			metrics.CandidatesCorrected.Inc()
		} else {
			counts.Accepted++
			metrics.CandidatesAccepted.Inc()
		}
	}
	return counts, verdicts, nil
}

// Revalidate re-runs the checks over already stored events. The deletion
// policy is deliberately asymmetric from admission: only past and
// duplicate rejections delete; an off-topic verdict on a previously
// accepted event downgrades to a warning.
func (p *Pipeline) Revalidate(ctx context.Context) (Counts, error) {
	counts := newCounts()

	snapshot, err := p.store.Snapshot(ctx)
	if err != nil {
		return counts, fmt.Errorf("read stored events: %w", err)
	}

	// Duplicate groups are resolved up front so that exactly one member
	// of each group survives. Deciding member-by-member would flag every
	// member of a pair against the other and delete them all.
	snapshot = p.resolveStoredDuplicates(ctx, snapshot, &counts)

	candidates := make([]model.CandidateEvent, len(snapshot))
	for i, ev := range snapshot {
		candidates[i] = ev.CandidateEvent
	}
	infos := p.enrichAll(ctx, candidates)

	for i, ev := range snapshot {
		if ctx.Err() != nil {
			return counts, ctx.Err()
		}
		others := append(snapshot[:i:i], snapshot[i+1:]...)
		v := p.decide(ctx, ev.CandidateEvent, infos[i], others, nil)

		switch v.Kind {
		case model.VerdictRejected:
			if v.Reason == model.RejectPast || v.Reason == model.RejectDuplicate {
				if err := p.store.Delete(ctx, ev.ID); err != nil {
					slog.Error("delete failed", "id", ev.ID, "err", err)
					continue
				}
				counts.Deleted++
				metrics.EventsDeleted.WithLabelValues(string(v.Reason)).Inc()
			} else {
				slog.Warn("stored event flagged off-topic, keeping",
					"title", ev.Title, "notes", strings.Join(v.Notes, "; "))
			}
			counts.Rejected[v.Reason]++
		case model.VerdictCorrected:
			counts.Corrected++
			if _, err := p.store.Upsert(ctx, v.Event); err != nil {
				slog.Error("upsert correction failed", "title", v.Event.Title, "err", err)
			}
		default:
			counts.Accepted++
		}
	}
	return counts, nil
}

// resolveStoredDuplicates partitions the stored snapshot into duplicate
// groups and deletes all but one member of each. The survivor is the
// member with the most specific URL, ties going to the earliest-created
// record. Returns the surviving events.
func (p *Pipeline) resolveStoredDuplicates(ctx context.Context, snapshot []model.StoredEvent, counts *Counts) []model.StoredEvent {
	var groups [][]model.StoredEvent
	for _, ev := range snapshot {
		joined := false
		for gi, group := range groups {
			if p.duplicates.IsPair(ev.CandidateEvent, group[0].CandidateEvent) {
				groups[gi] = append(group, ev)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, []model.StoredEvent{ev})
		}
	}

	var kept []model.StoredEvent
	for _, group := range groups {
		survivor := 0
		for i := 1; i < len(group); i++ {
			if p.betterSource(group[i], group[survivor]) {
				survivor = i
			}
		}
		kept = append(kept, group[survivor])
		for i, ev := range group {
			if i == survivor {
				continue
			}
			if err := p.store.Delete(ctx, ev.ID); err != nil {
				slog.Error("delete duplicate failed", "id", ev.ID, "err", err)
				kept = append(kept, ev)
				continue
			}
			slog.Info("removed duplicate stored event",
				"title", ev.Title, "kept", group[survivor].ID)
			counts.Deleted++
			counts.Rejected[model.RejectDuplicate]++
			metrics.EventsDeleted.WithLabelValues(string(model.RejectDuplicate)).Inc()
		}
	}
	return kept
}

// betterSource reports whether a points at a more specific event page
// than b. Classification precedence breaks most ties; beyond that the
// older record is canonical.
func (p *Pipeline) betterSource(a, b model.StoredEvent) bool {
	ca, cb := p.classifier.Classify(a.URL), p.classifier.Classify(b.URL)
	if ca != cb {
		return ca < cb
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

// enrichAll fetches page state for all candidates on a bounded worker
// pool. Network failures degrade to "inaccessible"; they never surface
// as errors.
func (p *Pipeline) enrichAll(ctx context.Context, candidates []model.CandidateEvent) []pageInfo {
	infos := make([]pageInfo, len(candidates))
	if len(candidates) == 0 {
		return infos
	}

	type task struct{ idx int }
	done := make(chan struct{}, len(candidates))

	pool := newWorkerPool(ctx, p.cfg.FetchWorkers, len(candidates), func(ctx context.Context, t task) {
		infos[t.idx] = p.inspect(ctx, candidates[t.idx].URL)
		done <- struct{}{}
	})
	for i := range candidates {
		pool.Submit(task{idx: i})
	}

	for range candidates {
		select {
		case <-done:
		case <-ctx.Done():
			pool.Drain()
			return infos
		}
	}
	pool.Drain()
	return infos
}

// inspect classifies a URL and, when reachable, pulls the page body and
// derived text for the date and relevance checks.
func (p *Pipeline) inspect(ctx context.Context, rawURL string) pageInfo {
	fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.FetchTimeoutMs)*time.Millisecond)
	defer cancel()

	info := pageInfo{class: p.classifier.Classify(rawURL), finalURL: rawURL}
	metrics.PagesFetched.Inc()

	body, finalURL, err := p.fetcher.Page(fetchCtx, rawURL)
	if err != nil {
		metrics.FetchErrors.Inc()
		// HEAD probe distinguishes "page too odd to parse" from "dead".
		info.accessible = p.fetcher.Accessible(fetchCtx, rawURL)
		return info
	}
	info.accessible = true
	info.fetched = true
	info.body = body
	info.finalURL = finalURL
	info.text = fetch.Text(body)
	info.pageTitle = fetch.Title(body)
	return info
}

// decide runs one candidate through the orchestrator states. stored is
// the snapshot for duplicate comparison; acceptedThisRun catches
// intra-run duplicates.
func (p *Pipeline) decide(ctx context.Context, cand model.CandidateEvent, info pageInfo, stored []model.StoredEvent, acceptedThisRun []model.CandidateEvent) model.Verdict {
	if !cand.Complete() {
		return model.Verdict{
			Kind: model.VerdictRejected, Event: cand,
			Reason: model.RejectUnparseable,
			Notes:  []string{"candidate missing title or date"},
		}
	}

	today := model.DateOf(p.Now())
	var notes []string
	corrected := false

	// ── UrlCheck ──
	cand, info, urlNotes, urlCorrected := p.checkURL(ctx, cand, info)
	notes = append(notes, urlNotes...)
	corrected = corrected || urlCorrected

	// ── DateCheck ──
	if info.fetched {
		if p.dates.IsPastEvent(info.text, today) {
			return model.Verdict{
				Kind: model.VerdictRejected, Event: cand, Reason: model.RejectPast,
				Notes: append(notes, "page describes the event in the past tense"),
			}
		}
		ext := p.dates.Extract(info.text)
		if ext.Found() {
			newDate, dateNotes, changed := p.reconcileDate(cand.Date, ext, today)
			notes = append(notes, dateNotes...)
			if changed {
				cand.Date = newDate
				corrected = true
			}
		} else {
			notes = append(notes, "no date found on page, keeping extracted date")
		}
	}
	if cand.Date.Before(today) {
		return model.Verdict{
			Kind: model.VerdictRejected, Event: cand, Reason: model.RejectPast,
			Notes: append(notes, "event date "+cand.Date.String()+" already passed"),
		}
	}

	// ── RelevanceCheck ──
	if ok, reason := p.relevance.Relevant(cand.Title, cand.Summary); !ok {
		return model.Verdict{
			Kind: model.VerdictRejected, Event: cand, Reason: model.RejectOffTopic,
			Notes: append(notes, reason),
		}
	}
	if info.fetched && info.class == ClassEventPage {
		clash, warning := p.relevance.TitleClash(cand.Title, info.pageTitle)
		if clash {
			return model.Verdict{
				Kind: model.VerdictRejected, Event: cand, Reason: model.RejectOffTopic,
				Notes: append(notes, warning),
			}
		}
		if warning != "" {
			slog.Warn("title/content mismatch, keeping event", "title", cand.Title, "detail", warning)
			notes = append(notes, warning)
		}
	}

	// ── DuplicateCheck ──
	if match, ok := p.duplicates.Find(cand, stored); ok {
		detail := fmt.Sprintf("duplicate of stored event %s (similarity %.2f)", match.Event.ID, match.Similarity)
		if match.ByURL {
			detail = "duplicate of stored event " + match.Event.ID + " (same URL)"
		}
		return model.Verdict{
			Kind: model.VerdictRejected, Event: cand, Reason: model.RejectDuplicate,
			Notes: append(notes, detail),
		}
	}
	for _, prev := range acceptedThisRun {
		if p.duplicates.IsPair(cand, prev) {
			return model.Verdict{
				Kind: model.VerdictRejected, Event: cand, Reason: model.RejectDuplicate,
				Notes: append(notes, "duplicate of candidate accepted earlier this run"),
			}
		}
	}

	kind := model.VerdictAccepted
	if corrected {
		kind = model.VerdictCorrected
	}
	return model.Verdict{Kind: kind, Event: cand, Notes: notes}
}

// checkURL resolves listing/generic/broken URLs toward a specific event
// page: link-following first, then an external re-search filtered against
// spam hosts. URL quality alone never rejects a candidate that still has
// a plausible future date; the pipeline proceeds with the best URL it
// has.
func (p *Pipeline) checkURL(ctx context.Context, cand model.CandidateEvent, info pageInfo) (model.CandidateEvent, pageInfo, []string, bool) {
	var notes []string
	corrected := false

	needsBetter := !info.accessible || info.class == ClassListing || info.class == ClassGeneric ||
		p.classifier.IsSpamHost(cand.URL)

	if !needsBetter {
		if info.finalURL != "" && info.finalURL != cand.URL {
			cand.URL = info.finalURL // canonical post-redirect location, not a correction
		}
		return cand, info, notes, false
	}

	// Link-following only helps when we could read the page at all.
	if info.fetched && (info.class == ClassListing || info.class == ClassGeneric) {
		if better, ok := p.follower.FindEventURL(ctx, cand.URL, cand.Title); ok {
			notes = append(notes, "replaced "+info.class.String()+" URL via link-following")
			cand.URL = better
			return cand, p.inspect(ctx, better), notes, true
		}
		notes = append(notes, "link-following found no specific event page")
	}

	if p.researcher != nil {
		excludeSocial := p.classifier.IsSocialHost(cand.URL) && !info.accessible
		if better := p.reSearch(ctx, cand, excludeSocial); better != "" {
			notes = append(notes, "replaced URL via re-search")
			cand.URL = better
			return cand, p.inspect(ctx, better), notes, true
		}
		notes = append(notes, "re-search found no better URL")
	}

	notes = append(notes, "proceeding with best available URL ("+info.class.String()+")")
	return cand, info, notes, corrected
}

// reSearch queries the search provider with the event title and scores
// hits by title-word overlap, skipping spam hosts (and social hosts when
// the original social URL is the thing that broke).
func (p *Pipeline) reSearch(ctx context.Context, cand model.CandidateEvent, excludeSocial bool) string {
	results, err := p.researcher.Search(ctx, cand.Title, 5)
	if err != nil {
		slog.Debug("re-search failed", "title", cand.Title, "err", err)
		return ""
	}

	best := ""
	bestScore := 0
	for _, r := range results {
		if !fetch.ValidURL(r.URL) || p.classifier.IsSpamHost(r.URL) {
			continue
		}
		if excludeSocial && p.classifier.IsSocialHost(r.URL) {
			continue
		}
		score := overlapCount(p.follower.norm, cand.Title, r.Title+" "+r.Content)
		if p.classifier.Classify(r.URL) == ClassEventPage {
			score += 2
		}
		if score > bestScore {
			best, bestScore = r.URL, score
		}
	}
	return best
}

// reconcileDate merges the page-extracted date with the candidate's. A
// small difference (multi-day events) is tolerated; beyond a year the
// extracted date always wins; in between it wins only with high
// confidence. The 2-week "materially different" threshold fills the gap
// the heuristics would otherwise leave between "a few days" and "a
// year".
func (p *Pipeline) reconcileDate(current model.Date, ext Extraction, today model.Date) (model.Date, []string, bool) {
	diff := model.DaysBetween(ext.Date, current)
	if diff <= p.cfg.TolerableDateDiffDays {
		return current, nil, false
	}

	yearApart := diff > 365
	material := diff >= p.cfg.MaterialDateDiffDays && ext.Confidence >= p.cfg.DateAdoptConfidence

	if !yearApart && !material {
		return current, []string{fmt.Sprintf("extracted date %s differs by %dd, below correction threshold", ext.Date, diff)}, false
	}
	if ext.Date.After(today.AddDays(p.cfg.MaxFutureDays)) {
		return current, []string{"extracted date beyond future window, keeping original"}, false
	}
	note := fmt.Sprintf("corrected date %s -> %s (%s, confidence %.2f)", current, ext.Date, ext.Source, ext.Confidence)
	return ext.Date, []string{note}, true
}
