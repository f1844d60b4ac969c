package config

// Config is the top-level YAML structure. Secrets (API keys, database
// credentials) deliberately stay out of the file and come from the
// environment instead.
type Config struct {
	Server   ServerConf   `yaml:"server"`
	Search   SearchConf   `yaml:"search"`
	Extract  ExtractConf  `yaml:"extract"`
	Pipeline PipelineConf `yaml:"pipeline"`
	Schedule ScheduleConf `yaml:"schedule"`
	Keywords KeywordsConf `yaml:"keywords"`
}

// ServerConf holds HTTP server settings.
type ServerConf struct {
	Addr string `yaml:"addr"`
}

// SearchConf configures the web-search provider client.
type SearchConf struct {
	BaseURL    string `yaml:"base_url"`
	MaxResults int    `yaml:"max_results"`
	TimeoutMs  int    `yaml:"timeout_ms"`
}

// ExtractConf configures the extraction-model client.
type ExtractConf struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	BatchSize  int    `yaml:"batch_size"`
	WindowDays int    `yaml:"window_days"` // extraction horizon, events beyond it are dropped
}

// PipelineConf holds tunables for the validation/correction pipeline.
type PipelineConf struct {
	FetchWorkers          int     `yaml:"fetch_workers"`
	FetchTimeoutMs        int     `yaml:"fetch_timeout_ms"`
	FollowDepth           int     `yaml:"follow_depth"`
	FollowTopLinks        int     `yaml:"follow_top_links"`
	TitleSimilarity       float64 `yaml:"title_similarity"`
	DateAdoptConfidence   float64 `yaml:"date_adopt_confidence"`
	TolerableDateDiffDays int     `yaml:"tolerable_date_diff_days"`
	MaterialDateDiffDays  int     `yaml:"material_date_diff_days"`
	MaxFutureDays         int     `yaml:"max_future_days"`
}

// ScheduleConf configures the automatic pipeline trigger.
type ScheduleConf struct {
	Cron string `yaml:"cron"` // standard 5-field cron spec, empty disables
}

// ClashRule is a hard topic clash: a candidate title matching any Left
// term against a page title matching any Right term (with no shared
// domain term) marks a title/content mismatch.
type ClashRule struct {
	Left  []string `yaml:"left"`
	Right []string `yaml:"right"`
}

// KeywordsConf centralizes every keyword list the heuristics consume, so
// alternate sets can be injected without code changes.
type KeywordsConf struct {
	StopWords          []string       `yaml:"stop_words"`
	DomainPositive     []string       `yaml:"domain_positive"`
	Denylist           []string       `yaml:"denylist"`
	EventTypes         []string       `yaml:"event_types"`
	Locations          []string       `yaml:"locations"`
	DateMarkers        []string       `yaml:"date_markers"`
	PublicationMarkers []string       `yaml:"publication_markers"`
	PastIndicators     []string       `yaml:"past_indicators"`
	Months             map[string]int `yaml:"months"` // localized month name -> 1..12
	EventPathPatterns  []string       `yaml:"event_path_patterns"`
	ListingPathPattern []string       `yaml:"listing_path_patterns"`
	GenericPages       []string       `yaml:"generic_pages"`
	NewsHosts          []string       `yaml:"news_hosts"`
	SpamHosts          []string       `yaml:"spam_hosts"`
	SocialHosts        []string       `yaml:"social_hosts"`
	TopicClashes       []ClashRule    `yaml:"topic_clashes"`
}
