// Package crawler drives the extraction pipeline across the site's
// paginated search results: submit the search, read the reported page
// count, extract every page, and keep whatever was collected when the
// site stops cooperating.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lysyi3m/news-comb/app/article"
	"github.com/lysyi3m/news-comb/app/browser"
	"github.com/lysyi3m/news-comb/app/config"
)

// RecordBuilder assembles a record from one result element, or drops it.
type RecordBuilder interface {
	Build(ctx context.Context, el browser.Element) *article.Record
}

// Crawler orchestrates the page-advance loop. Strictly sequential: a
// page's extraction, image downloads included, completes before the
// next-page navigation, because pagination state on the surface is not
// safe to interleave.
type Crawler struct {
	browser browser.Browser
	site    *config.SiteConfig
	builder RecordBuilder
	logger  *slog.Logger
	records []article.Record
}

func New(b browser.Browser, site *config.SiteConfig, builder RecordBuilder, logger *slog.Logger) *Crawler {
	return &Crawler{
		browser: b,
		site:    site,
		builder: builder,
		logger:  logger,
	}
}

// Run submits the search for category and collects records from every
// reported result page. It always returns the records accumulated so
// far: a failure mid-crawl stops the loop, it does not discard pages
// already extracted.
func (c *Crawler) Run(ctx context.Context, category string) []article.Record {
	c.records = c.records[:0]

	search := &Recoverable{
		Name:   "search",
		Op:     func() error { return c.search(ctx, category) },
		Clear:  c.closePopup,
		Logger: c.logger,
	}
	if err := search.Run(); err != nil {
		c.logger.Error("failed to run the search", "error", err)
		return c.records
	}

	c.collect(ctx)
	return c.records
}

func (c *Crawler) collect(ctx context.Context) {
	total, err := c.totalPages()
	if err != nil {
		c.logger.Warn("stopped getting the news", "reason", err)
		return
	}
	c.logger.Info("search results paginated", "pages", total)

	extract := &Recoverable{
		Name:   "get_news_info",
		Op:     func() error { return c.extractPage(ctx) },
		Clear:  c.closePopup,
		Logger: c.logger,
	}

	if err := extract.Run(); err != nil {
		c.logger.Warn("stopped getting the news", "reason", err)
		return
	}

	for page := 1; page < total; page++ {
		if err := c.browser.Click(ctx, c.site.Pagination.Next); err != nil {
			c.logger.Warn("stopped getting the news", "reason", err)
			return
		}
		c.logger.Info("navigating to next page", "page", page+1)

		if err := extract.Run(); err != nil {
			c.logger.Warn("stopped getting the news", "reason", err)
			return
		}
	}
}

func (c *Crawler) search(ctx context.Context, category string) error {
	selectors := c.site.Search

	// The consent banner is script-injected and may not be present.
	if err := c.browser.Click(ctx, selectors.ConsentButton); err != nil {
		c.logger.Debug("no consent banner to dismiss", "error", err)
	}

	if err := c.browser.Click(ctx, selectors.OpenButton); err != nil {
		return fmt.Errorf("failed to open the search overlay: %w", err)
	}
	if err := c.browser.Input(selectors.Input, category); err != nil {
		return fmt.Errorf("failed to input the search phrase: %w", err)
	}
	if err := c.browser.Click(ctx, selectors.Submit); err != nil {
		return fmt.Errorf("failed to submit the search: %w", err)
	}
	c.logger.Info("search completed successfully", "category", category)

	if err := c.browser.Select(ctx, selectors.SortSelect, selectors.SortValue); err != nil {
		return fmt.Errorf("failed to sort results by newest: %w", err)
	}
	c.logger.Info("sorted results by newest")

	return nil
}

// totalPages reads the site-reported page count from the pagination
// summary, formatted "<current> of <total>" with thousands separators.
func (c *Crawler) totalPages() (int, error) {
	counts, err := c.browser.Find(c.site.Pagination.Counts)
	if err != nil {
		return 0, fmt.Errorf("failed to find page counts: %w", err)
	}
	return parseTotalPages(counts.Text())
}

func parseTotalPages(text string) (int, error) {
	parts := strings.Split(text, " of ")
	if len(parts) < 2 {
		return 0, fmt.Errorf("unexpected page count format: %q", text)
	}
	total, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(parts[1]), ",", ""))
	if err != nil {
		return 0, fmt.Errorf("failed to parse page count %q: %w", text, err)
	}
	return total, nil
}

func (c *Crawler) extractPage(ctx context.Context) error {
	if err := c.browser.WaitFor(ctx, c.site.Results.Item); err != nil {
		return fmt.Errorf("no results appeared on the page: %w", err)
	}

	items, err := c.browser.FindAll(c.site.Results.Item)
	if err != nil {
		return fmt.Errorf("failed to enumerate articles: %w", err)
	}

	for _, el := range items {
		rec := c.builder.Build(ctx, el)
		if rec == nil {
			continue
		}
		c.records = append(c.records, *rec)
		c.logger.Info("article collected",
			"title", rec.Title,
			"date", rec.PublishedAt,
			"image", rec.ImagePath,
			"occurrences", rec.PhraseOccurrences,
			"money", rec.ContainsMoney)
	}

	return nil
}

func (c *Crawler) closePopup() error {
	if err := c.browser.Click(context.Background(), c.site.Popup.Close); err != nil {
		return fmt.Errorf("failed to close the popup: %w", err)
	}
	c.logger.Info("popup closed successfully")
	return nil
}
