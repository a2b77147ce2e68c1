package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the site selector profile.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given profile path. An empty path
// means the built-in defaults are used as-is.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load returns the site profile: built-in defaults, optionally
// overridden by a YAML file.
func (l *Loader) Load() (*SiteConfig, error) {
	config := Default()

	if l.path != "" {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read site profile: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse site profile: %w", err)
		}
	}

	if err := l.validate(config); err != nil {
		return nil, fmt.Errorf("invalid site profile: %w", err)
	}

	return config, nil
}

func (l *Loader) validate(config *SiteConfig) error {
	required := map[string]string{
		"search.input":              config.Search.Input,
		"search.submit":             config.Search.Submit,
		"results.item":              config.Results.Item,
		"results.timestamp_primary": config.Results.TimestampPrimary,
		"results.title":             config.Results.Title,
		"pagination.counts":         config.Pagination.Counts,
		"pagination.next":           config.Pagination.Next,
		"popup.close":               config.Popup.Close,
	}
	for field, value := range required {
		if value == "" {
			return fmt.Errorf("missing required selector: %s", field)
		}
	}
	return nil
}

// Default returns the selector profile for the AP News search surface.
func Default() *SiteConfig {
	return &SiteConfig{
		Search: SearchSelectors{
			ConsentButton: "#onetrust-accept-btn-handler",
			OpenButton:    ".SearchOverlay-search-button",
			Input:         ".SearchOverlay-search-input",
			Submit:        ".SearchOverlay-search-submit",
			SortSelect:    ".Select-input",
			SortValue:     "3",
		},
		Results: ResultSelectors{
			Item:              ".SearchResultsModule-results .PageList-items .PageList-items-item",
			TimestampPrimary:  ".Timestamp-template",
			TimestampFallback: ".Timestamp-template-now",
			Media:             ".PagePromo-media",
			Image:             ".Image",
			Title:             ".PagePromo-title",
			Description:       ".PagePromo-description",
		},
		Pagination: PaginationSelectors{
			Counts: ".Pagination-pageCounts",
			Next:   ".Pagination-nextPage",
		},
		Popup: PopupSelectors{
			Close: "a.fancybox-item.fancybox-close",
		},
	}
}
