package config

// SiteConfig describes the fixed result-list shape of the target site:
// which selectors drive the search flow and where each article field
// lives inside a result item.
type SiteConfig struct {
	Search     SearchSelectors     `yaml:"search"`
	Results    ResultSelectors     `yaml:"results"`
	Pagination PaginationSelectors `yaml:"pagination"`
	Popup      PopupSelectors      `yaml:"popup"`
}

// SearchSelectors drive the search-and-sort-by-newest flow.
type SearchSelectors struct {
	ConsentButton string `yaml:"consent_button"`
	OpenButton    string `yaml:"open_button"`
	Input         string `yaml:"input"`
	Submit        string `yaml:"submit"`
	SortSelect    string `yaml:"sort_select"`
	SortValue     string `yaml:"sort_value"`
}

// ResultSelectors locate per-article fields inside one result item.
// TimestampFallback covers the "just now"-style timestamp variant that
// lives under a different class than regular timestamps.
type ResultSelectors struct {
	Item              string `yaml:"item"`
	TimestampPrimary  string `yaml:"timestamp_primary"`
	TimestampFallback string `yaml:"timestamp_fallback"`
	Media             string `yaml:"media"`
	Image             string `yaml:"image"`
	Title             string `yaml:"title"`
	Description       string `yaml:"description"`
}

type PaginationSelectors struct {
	Counts string `yaml:"counts"`
	Next   string `yaml:"next"`
}

// PopupSelectors identify the interstitial obstruction dismiss action.
type PopupSelectors struct {
	Close string `yaml:"close"`
}
