package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsOnly(t *testing.T) {
	l, err := NewLoader("")
	if err != nil {
		t.Fatalf("defaults-only load failed: %v", err)
	}
	cfg := l.Config()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Pipeline.TitleSimilarity != 0.85 {
		t.Errorf("title_similarity = %v", cfg.Pipeline.TitleSimilarity)
	}
	if cfg.Extract.BatchSize != 20 {
		t.Errorf("batch_size = %d", cfg.Extract.BatchSize)
	}
	if len(cfg.Keywords.Months) == 0 {
		t.Fatal("default month table is empty")
	}
	if cfg.Keywords.Months["листопада"] != 11 {
		t.Error("genitive Ukrainian month missing from defaults")
	}
	if cfg.Keywords.Months["november"] != 11 {
		t.Error("English month missing from defaults")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := "server:\n  addr: \":9090\"\npipeline:\n  title_similarity: 0.9\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := NewLoader(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	cfg := l.Config()
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Pipeline.TitleSimilarity != 0.9 {
		t.Errorf("title_similarity = %v, want 0.9", cfg.Pipeline.TitleSimilarity)
	}
	// Untouched fields keep their defaults.
	if cfg.Extract.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Extract.Model)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	cfg.Pipeline.TitleSimilarity = 1.5
	err := Validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "title_similarity") {
		t.Errorf("error does not name the field: %v", err)
	}
}

func TestValidateRequiresFullMonthTable(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	cfg.Keywords.Months = map[string]int{"january": 1}
	err := Validate(&cfg)
	if err == nil {
		t.Fatal("expected validation error for incomplete month table")
	}
	if !strings.Contains(err.Error(), "missing month") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateDateDiffOrdering(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)
	cfg.Pipeline.TolerableDateDiffDays = 20
	cfg.Pipeline.MaterialDateDiffDays = 14
	if Validate(&cfg) == nil {
		t.Fatal("expected error when tolerable >= material")
	}
}

func TestReloadPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := NewLoader(path)
	if err != nil {
		t.Fatal(err)
	}

	var notified bool
	l.OnChange(func(*Config) { notified = true })

	if err := os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := l.Reload()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %q after reload", cfg.Server.Addr)
	}
	if !notified {
		t.Error("OnChange callback not invoked")
	}
}
