package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Crawl target
	URL         string `long:"url" env:"NEWS_URL" default:"https://apnews.com/" description:"News site to crawl"`
	SiteProfile string `long:"site-profile" env:"SITE_PROFILE" description:"Optional YAML file overriding the built-in site selectors"`

	// Run parameters channel
	WorkItemFile string `long:"work-item" env:"WORK_ITEM_FILE" default:"./devdata/work-items.json" description:"Input work item JSON file with category, search_phrase and time_option"`

	// Output
	OutputDir string `long:"output-dir" env:"OUTPUT_DIR" default:"./output" description:"Directory for crawl outputs (spreadsheet, images, archive, log)"`
	DBFile    string `long:"db-file" env:"DB_FILE" default:"./output/news_comb.db" description:"SQLite file recording run history (empty disables)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"News Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		URL:          raw.URL,
		SiteProfile:  raw.SiteProfile,
		WorkItemFile: raw.WorkItemFile,
		OutputDir:    raw.OutputDir,
		DBFile:       raw.DBFile,
		UserAgent:    raw.UserAgent,
		Timezone:     raw.Timezone,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
