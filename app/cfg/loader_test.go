package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		URL:          "https://apnews.com/",
		SiteProfile:  "./site.yaml",
		WorkItemFile: "./devdata/work-items.json",
		OutputDir:    "./output",
		DBFile:       "./output/news_comb.db",
		UserAgent:    "Test Agent",
		Timezone:     "UTC",
		Debug:        true,
		Version:      "test-version",
	}

	if cfg.URL != "https://apnews.com/" {
		t.Errorf("Expected URL 'https://apnews.com/', got '%s'", cfg.URL)
	}
	if cfg.SiteProfile != "./site.yaml" {
		t.Errorf("Expected site profile './site.yaml', got '%s'", cfg.SiteProfile)
	}
	if cfg.WorkItemFile != "./devdata/work-items.json" {
		t.Errorf("Expected work item file './devdata/work-items.json', got '%s'", cfg.WorkItemFile)
	}
	if cfg.OutputDir != "./output" {
		t.Errorf("Expected output dir './output', got '%s'", cfg.OutputDir)
	}
	if cfg.DBFile != "./output/news_comb.db" {
		t.Errorf("Expected DB file './output/news_comb.db', got '%s'", cfg.DBFile)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}
