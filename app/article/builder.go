package article

import (
	"context"
	"log/slog"
	"time"

	"github.com/lysyi3m/news-comb/app/browser"
	"github.com/lysyi3m/news-comb/app/config"
	"github.com/lysyi3m/news-comb/app/dates"
	"github.com/lysyi3m/news-comb/app/signals"
)

// Record is one collected article. Fields whose extraction failed hold
// their zero value; a record is only withheld when its resolved date
// falls outside the search window.
type Record struct {
	PublishedAt       *time.Time
	ImageURL          string
	ImagePath         string
	Title             string
	Description       string
	PhraseOccurrences int
	ContainsMoney     bool
}

// ImageFetcher materializes a local copy of an article image.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) string
}

// Builder assembles validated records from raw result elements.
type Builder struct {
	selectors config.ResultSelectors
	dates     *dates.Interpreter
	signals   *signals.Extractor
	images    ImageFetcher
	window    dates.Window
	logger    *slog.Logger
}

func NewBuilder(selectors config.ResultSelectors, interpreter *dates.Interpreter,
	extractor *signals.Extractor, images ImageFetcher, window dates.Window,
	logger *slog.Logger) *Builder {
	return &Builder{
		selectors: selectors,
		dates:     interpreter,
		signals:   extractor,
		images:    images,
		window:    window,
		logger:    logger,
	}
}

// Build extracts one article element into a record. A nil return means
// the article's resolved date lies outside the window; this is the
// single point where articles are dropped. An unresolvable date keeps
// the article, since dropping on unexpected timestamp formats would
// silently lose results.
func (b *Builder) Build(ctx context.Context, el browser.Element) *Record {
	published := b.resolveDate(el)
	if published != nil && !b.window.Contains(published) {
		return nil
	}

	rec := &Record{PublishedAt: published}
	rec.ImageURL = b.extractImageURL(el)
	rec.Title = b.extractText(el, b.selectors.Title, "title")
	rec.Description = b.extractText(el, b.selectors.Description, "description")

	rec.PhraseOccurrences = b.signals.CountOccurrences(rec.Title) +
		b.signals.CountOccurrences(rec.Description)
	rec.ContainsMoney = b.signals.ContainsMoney(rec.Title) ||
		b.signals.ContainsMoney(rec.Description)

	rec.ImagePath = b.images.Fetch(ctx, rec.ImageURL)

	return rec
}

// resolveDate reads the article timestamp, falling back to the
// "just now"-style timestamp element when the regular one is absent.
func (b *Builder) resolveDate(el browser.Element) *time.Time {
	ts, err := el.Find(b.selectors.TimestampPrimary)
	if err != nil {
		b.logger.Warn("failed to get the date, retrying with fallback selector",
			"selector", b.selectors.TimestampFallback, "error", err)
		ts, err = el.Find(b.selectors.TimestampFallback)
		if err != nil {
			b.logger.Warn("failed to get the date", "error", err)
			return nil
		}
	}
	return b.dates.Parse(ts.Text())
}

func (b *Builder) extractImageURL(el browser.Element) string {
	media, err := el.Find(b.selectors.Media)
	if err != nil {
		b.logger.Warn("failed to get the image path", "error", err)
		return ""
	}
	img, err := media.Find(b.selectors.Image)
	if err != nil {
		b.logger.Warn("failed to get the image path", "error", err)
		return ""
	}
	src, ok := img.Attr("src")
	if !ok {
		b.logger.Warn("image element has no src attribute")
		return ""
	}
	return src
}

func (b *Builder) extractText(el browser.Element, selector, field string) string {
	node, err := el.Find(selector)
	if err != nil {
		b.logger.Warn("failed to get the "+field, "error", err)
		return ""
	}
	return node.Text()
}
