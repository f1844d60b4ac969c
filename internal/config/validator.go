package config

import (
	"fmt"
	"strings"
)

// Validate checks invariants the heuristics rely on: thresholds in range,
// a complete month table, and non-empty keyword sets for every concern.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Pipeline.TitleSimilarity <= 0 || cfg.Pipeline.TitleSimilarity > 1 {
		errs = append(errs, fmt.Sprintf("pipeline.title_similarity must be in (0,1], got %v", cfg.Pipeline.TitleSimilarity))
	}
	if cfg.Pipeline.DateAdoptConfidence <= 0 || cfg.Pipeline.DateAdoptConfidence > 1 {
		errs = append(errs, fmt.Sprintf("pipeline.date_adopt_confidence must be in (0,1], got %v", cfg.Pipeline.DateAdoptConfidence))
	}
	if cfg.Pipeline.FollowDepth < 1 || cfg.Pipeline.FollowDepth > 5 {
		errs = append(errs, fmt.Sprintf("pipeline.follow_depth must be 1..5, got %d", cfg.Pipeline.FollowDepth))
	}
	if cfg.Pipeline.TolerableDateDiffDays >= cfg.Pipeline.MaterialDateDiffDays {
		errs = append(errs, "pipeline.tolerable_date_diff_days must be below material_date_diff_days")
	}

	// The month table must cover all twelve months or date parsing
	// silently loses whole months.
	seen := make(map[int]bool)
	for name, n := range cfg.Keywords.Months {
		if n < 1 || n > 12 {
			errs = append(errs, fmt.Sprintf("keywords.months[%q] = %d out of range", name, n))
			continue
		}
		seen[n] = true
	}
	for m := 1; m <= 12; m++ {
		if !seen[m] {
			errs = append(errs, fmt.Sprintf("keywords.months missing month %d", m))
		}
	}

	required := map[string][]string{
		"domain_positive": cfg.Keywords.DomainPositive,
		"event_types":     cfg.Keywords.EventTypes,
		"locations":       cfg.Keywords.Locations,
		"date_markers":    cfg.Keywords.DateMarkers,
		"past_indicators": cfg.Keywords.PastIndicators,
	}
	for name, set := range required {
		if len(set) == 0 {
			errs = append(errs, fmt.Sprintf("keywords.%s must not be empty", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
