package config

// applyDefaults fills every zero field so the binary runs with a partial
// config file or none at all. Keyword sets default to the tuned Ukrainian
// urban-planning/recovery lists; a config file can replace any of them
// wholesale.
func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}

	if cfg.Search.BaseURL == "" {
		cfg.Search.BaseURL = "https://api.tavily.com"
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = 10
	}
	if cfg.Search.TimeoutMs == 0 {
		cfg.Search.TimeoutMs = 15000
	}

	if cfg.Extract.BaseURL == "" {
		cfg.Extract.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Extract.Model == "" {
		cfg.Extract.Model = "gpt-4o-mini"
	}
	if cfg.Extract.TimeoutMs == 0 {
		cfg.Extract.TimeoutMs = 60000
	}
	if cfg.Extract.BatchSize == 0 {
		cfg.Extract.BatchSize = 20
	}
	if cfg.Extract.WindowDays == 0 {
		cfg.Extract.WindowDays = 28
	}

	if cfg.Pipeline.FetchWorkers == 0 {
		cfg.Pipeline.FetchWorkers = 8
	}
	if cfg.Pipeline.FetchTimeoutMs == 0 {
		cfg.Pipeline.FetchTimeoutMs = 5000
	}
	if cfg.Pipeline.FollowDepth == 0 {
		cfg.Pipeline.FollowDepth = 3
	}
	if cfg.Pipeline.FollowTopLinks == 0 {
		cfg.Pipeline.FollowTopLinks = 5
	}
	if cfg.Pipeline.TitleSimilarity == 0 {
		cfg.Pipeline.TitleSimilarity = 0.85
	}
	if cfg.Pipeline.DateAdoptConfidence == 0 {
		cfg.Pipeline.DateAdoptConfidence = 0.85
	}
	if cfg.Pipeline.TolerableDateDiffDays == 0 {
		cfg.Pipeline.TolerableDateDiffDays = 2
	}
	if cfg.Pipeline.MaterialDateDiffDays == 0 {
		cfg.Pipeline.MaterialDateDiffDays = 14
	}
	if cfg.Pipeline.MaxFutureDays == 0 {
		cfg.Pipeline.MaxFutureDays = 183
	}

	k := &cfg.Keywords
	if len(k.StopWords) == 0 {
		k.StopWords = []string{
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
			"for", "of", "with", "by", "year",
			"та", "і", "й", "у", "в", "на", "до", "для", "з", "із", "про", "рік", "року",
		}
	}
	if len(k.DomainPositive) == 0 {
		k.DomainPositive = []string{
			"urban", "city", "planning", "recovery", "housing", "reconstruction",
			"municipal", "local government", "decentralization", "capacity",
			"green", "sustainable", "resilience", "infrastructure", "partnership",
			"cooperation", "investment", "energy", "efficiency", "smart",
			"affordable", "rebuild", "spatial",
			"урбаністика", "містобудування", "відбудова", "відновлення",
			"громада", "громад", "розвиток", "місто", "житло", "самоврядування",
		}
	}
	if len(k.Denylist) == 0 {
		k.Denylist = []string{
			"teacher education", "pedagogy", "teaching methods",
			"spanish language", "latin american studies", "language studies",
			"biotechnology", "biodiversity", "biology",
			"artificial intelligence", "software engineering", "machine learning",
			"multilingual education", "big data",
			"medical research", "healthcare",
			"benefit concert", "film for ukraine",
			"blockchain", "cryptocurrency", "crypto", "bitcoin", "ethereum",
			"fintech", "defi", "nft", "web3",
		}
	}
	if len(k.EventTypes) == 0 {
		k.EventTypes = []string{
			"forum", "conference", "workshop", "seminar", "webinar", "meeting",
			"summit", "форум", "конференція", "семінар", "вебінар", "зустріч",
		}
	}
	if len(k.Locations) == 0 {
		k.Locations = []string{
			"ukraine", "ukrainian", "kyiv", "lviv", "kharkiv", "odesa", "odessa",
			"dnipro", "sumy", "europe", "україна", "український", "київ", "львів",
		}
	}
	if len(k.DateMarkers) == 0 {
		k.DateMarkers = []string{
			"дата та час:", "дата:", "event date:", "date:", "when:", "коли:",
			"відбудеться:", "дата проведення:",
		}
	}
	if len(k.PublicationMarkers) == 0 {
		k.PublicationMarkers = []string{
			"на читання", "reading time", "min read", "хв читання",
			"опубліковано", "published", "дата публікації", "publication date",
		}
	}
	if len(k.PastIndicators) == 0 {
		k.PastIndicators = []string{
			"took place", "was held", "has ended", "already happened", "completed",
			"відбулося", "відбулася", "вже відбулося", "було проведено", "завершено",
		}
	}
	if len(k.Months) == 0 {
		k.Months = ukrainianMonths()
	}
	if len(k.EventPathPatterns) == 0 {
		k.EventPathPatterns = []string{
			`/events?/[a-z0-9-]`, `eventdetail`, `/podii/[a-z0-9-]`, `/zakhody/[a-z0-9-]`,
			`/conference/`, `/workshop/`, `/webinar/`, `/register`,
		}
	}
	if len(k.ListingPathPattern) == 0 {
		k.ListingPathPattern = []string{
			`/events?/?$`, `/event-list`, `/calendar`, `/upcoming`, `/podii/?$`,
			`/category/`, `/all-events`,
		}
	}
	if len(k.GenericPages) == 0 {
		k.GenericPages = []string{"/home", "/contact", "/about", "/index"}
	}
	if len(k.NewsHosts) == 0 {
		k.NewsHosts = []string{
			"pravda.com.ua", "ukrinform.ua", "ukrinform.net", "suspilne.media",
			"interfax.com.ua", "unian.ua", "unian.net", "nv.ua", "hromadske.ua",
		}
	}
	if len(k.SpamHosts) == 0 {
		k.SpamHosts = []string{
			"conferencealerts.co.in", "allconferencealert.net",
			"internationalconferencealerts.com", "conferencealert.com",
			"waset.org", "conferenceseries.com", "researchera.org",
		}
	}
	if len(k.SocialHosts) == 0 {
		k.SocialHosts = []string{"facebook.com", "instagram.com", "linkedin.com"}
	}
	if len(k.TopicClashes) == 0 {
		k.TopicClashes = []ClashRule{
			{Left: []string{"urban", "planning", "recovery", "housing"},
				Right: []string{"language studies", "linguistics", "philology"}},
			{Left: []string{"urban", "planning", "recovery", "housing"},
				Right: []string{"teacher education", "pedagogy"}},
			{Left: []string{"urban", "planning", "recovery", "housing"},
				Right: []string{"biotechnology", "medical research"}},
		}
	}
}

// ukrainianMonths covers all twelve months in both genitive (as written
// in dates) and nominative forms, plus English names and abbreviations.
func ukrainianMonths() map[string]int {
	return map[string]int{
		"january": 1, "jan": 1, "січня": 1, "січень": 1,
		"february": 2, "feb": 2, "лютого": 2, "лютий": 2,
		"march": 3, "mar": 3, "березня": 3, "березень": 3,
		"april": 4, "apr": 4, "квітня": 4, "квітень": 4,
		"may": 5, "травня": 5, "травень": 5,
		"june": 6, "jun": 6, "червня": 6, "червень": 6,
		"july": 7, "jul": 7, "липня": 7, "липень": 7,
		"august": 8, "aug": 8, "серпня": 8, "серпень": 8,
		"september": 9, "sep": 9, "вересня": 9, "вересень": 9,
		"october": 10, "oct": 10, "жовтня": 10, "жовтень": 10,
		"november": 11, "nov": 11, "листопада": 11, "листопад": 11,
		"december": 12, "dec": 12, "грудня": 12, "грудень": 12,
	}
}
