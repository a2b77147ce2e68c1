package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lysyi3m/news-comb/app/article"
	"github.com/lysyi3m/news-comb/app/browser"
	"github.com/lysyi3m/news-comb/app/cfg"
	"github.com/lysyi3m/news-comb/app/config"
	"github.com/lysyi3m/news-comb/app/crawler"
	"github.com/lysyi3m/news-comb/app/database"
	"github.com/lysyi3m/news-comb/app/dates"
	"github.com/lysyi3m/news-comb/app/export"
	"github.com/lysyi3m/news-comb/app/images"
	"github.com/lysyi3m/news-comb/app/signals"
	"github.com/lysyi3m/news-comb/app/workitem"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if appConfig == nil {
		return
	}

	logger, closeLog, err := setupLogger(appConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()

	logger.Info("Starting News Comb", "version", appConfig.Version, "url", appConfig.URL)

	item, werr := workitem.Load(appConfig.WorkItemFile)
	if werr != nil {
		logger.Error("Invalid run parameters", "kind", werr.Kind, "code", werr.Code, "message", werr.Message)

		if err := workitem.WriteError(appConfig.OutputDir, werr); err != nil {
			logger.Error("Failed to report work item failure", "error", err)
		}

		closeLog()
		os.Exit(1)
	}

	logger.Info("Work item loaded", "id", item.ID, "category", item.Payload.Category,
		"search_phrase", item.Payload.SearchPhrase, "time_option", item.Payload.TimeOption)

	siteConfig, err := config.NewLoader(appConfig.SiteProfile).Load()
	if err != nil {
		logger.Error("Failed to load site profile", "error", err)
		closeLog()
		os.Exit(1)
	}

	ctx := context.Background()

	interpreter := dates.NewInterpreter(logger)
	window := interpreter.Window(item.Payload.TimeOption)
	logger.Info("Search window computed", "start", window.Start.Format(time.DateOnly),
		"end", window.End.Format(time.DateOnly))

	imagesDir := filepath.Join(appConfig.OutputDir, "images")
	fetcher := images.NewFetcher(imagesDir, logger)
	extractor := signals.NewExtractor(item.Payload.SearchPhrase)
	builder := article.NewBuilder(siteConfig.Results, interpreter, extractor, fetcher, window, logger)

	surface := browser.NewStatic(appConfig.UserAgent, logger)
	if err := surface.Open(ctx, appConfig.URL); err != nil {
		logger.Error("Failed to open the browser", "error", err)
	}

	startedAt := time.Now()

	records := crawler.New(surface, siteConfig, builder, logger).Run(ctx, item.Payload.Category)
	logger.Info("Crawl finished", "articles", len(records))

	files := runExports(appConfig, imagesDir, records, logger)

	storeRun(appConfig, item, startedAt, records, logger)

	if _, err := workitem.WriteOutput(appConfig.OutputDir, files); err != nil {
		logger.Error("Failed to write output work item", "error", err)
	}

	logger.Info("Run complete", "articles", len(records), "files", len(files))
}

func setupLogger(appConfig *cfg.Cfg) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(appConfig.OutputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(appConfig.OutputDir, "news_comb.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := slog.LevelInfo
	if appConfig.Debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, logFile), &slog.HandlerOptions{Level: level})

	return slog.New(handler), func() { logFile.Close() }, nil
}

// runExports writes the result sinks and returns the paths of the ones
// that succeeded. A failing sink is logged and skipped so a partial run
// still produces the remaining artifacts.
func runExports(appConfig *cfg.Cfg, imagesDir string, records []article.Record, logger *slog.Logger) []string {
	files := []string{}

	zipPath := filepath.Join(appConfig.OutputDir, "images.zip")
	if err := export.NewArchiver(imagesDir).Archive(zipPath); err != nil {
		logger.Error("Failed to archive images", "error", err)
	} else {
		files = append(files, zipPath)
		logger.Info("Images archived", "path", zipPath)
	}

	xlsxPath := filepath.Join(appConfig.OutputDir, "result.xlsx")
	if err := export.NewXLSXWriter(xlsxPath).Write(records); err != nil {
		logger.Error("Failed to save the excel file", "error", err)
	} else {
		files = append(files, xlsxPath)
		logger.Info("Excel file saved", "path", xlsxPath)
	}

	return files
}

func storeRun(appConfig *cfg.Cfg, item *workitem.Item, startedAt time.Time, records []article.Record, logger *slog.Logger) {
	if appConfig.DBFile == "" {
		return
	}

	db, err := database.NewConnection(appConfig.DBFile)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return
	}
	defer db.Close()

	version, dirty, err := db.Migrate()
	if err != nil {
		logger.Error("Failed to run migrations", "error", err)
		return
	}
	logger.Debug("Database migrated", "version", version, "dirty", dirty)

	run := database.Run{
		ID:             uuid.NewString(),
		Category:       item.Payload.Category,
		SearchPhrase:   item.Payload.SearchPhrase,
		LookbackMonths: item.Payload.TimeOption,
		StartedAt:      startedAt,
		FinishedAt:     time.Now(),
	}

	repo := database.NewRunRepository(db)
	if err := repo.StoreRun(run, records); err != nil {
		logger.Error("Failed to store the run", "error", err)
		return
	}

	count, err := repo.GetRunCount()
	if err != nil {
		logger.Error("Failed to count runs", "error", err)
		return
	}

	logger.Info("Run recorded", "run_id", run.ID, "total_runs", count)
}
