package article

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/lysyi3m/news-comb/app/browser"
	"github.com/lysyi3m/news-comb/app/config"
	"github.com/lysyi3m/news-comb/app/dates"
	"github.com/lysyi3m/news-comb/app/signals"
)

// fakeElement implements browser.Element over a static tree.
type fakeElement struct {
	text     string
	attrs    map[string]string
	children map[string]*fakeElement
}

var _ browser.Element = (*fakeElement)(nil)

func (f *fakeElement) Text() string {
	return f.text
}

func (f *fakeElement) Attr(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func (f *fakeElement) Find(selector string) (browser.Element, error) {
	child, ok := f.children[selector]
	if !ok {
		return nil, fmt.Errorf("element not found: %s", selector)
	}
	return child, nil
}

func (f *fakeElement) FindAll(selector string) ([]browser.Element, error) {
	child, err := f.Find(selector)
	if err != nil {
		return nil, err
	}
	return []browser.Element{child}, nil
}

// fakeFetcher records fetch calls without touching the network.
type fakeFetcher struct {
	calls []string
	path  string
}

var _ ImageFetcher = (*fakeFetcher)(nil)

func (f *fakeFetcher) Fetch(_ context.Context, url string) string {
	f.calls = append(f.calls, url)
	if url == "" {
		return ""
	}
	return f.path
}

func testSelectors() config.ResultSelectors {
	return config.Default().Results
}

func newTestBuilder(t *testing.T, now time.Time, months int, phrase string, fetcher *fakeFetcher) *Builder {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	interpreter := dates.NewInterpreter(logger).WithClock(func() time.Time { return now })
	window := interpreter.Window(months)
	return NewBuilder(testSelectors(), interpreter, signals.NewExtractor(phrase), fetcher, window, logger)
}

func articleElement(dateText string) *fakeElement {
	sel := testSelectors()
	return &fakeElement{
		children: map[string]*fakeElement{
			sel.TimestampPrimary: {text: dateText},
			sel.Media: {
				children: map[string]*fakeElement{
					sel.Image: {attrs: map[string]string{"src": "https://example.com/a.jpg"}},
				},
			},
			sel.Title:       {text: "Dollar rises as apple harvest booms"},
			sel.Description: {text: "The apple crop is worth $1,000.00 this year."},
		},
	}
}

func TestBuilder_Build_FullRecord(t *testing.T) {
	now := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{path: "output/images/image_1.jpg"}
	b := newTestBuilder(t, now, 1, "apple", fetcher)

	rec := b.Build(context.Background(), articleElement("July 10, 2024"))
	if rec == nil {
		t.Fatal("Expected a record, got nil")
	}

	if rec.PublishedAt == nil || rec.PublishedAt.Day() != 10 {
		t.Errorf("Unexpected published date: %v", rec.PublishedAt)
	}
	if rec.Title == "" || rec.Description == "" {
		t.Error("Expected title and description to be extracted")
	}
	if rec.PhraseOccurrences != 2 {
		t.Errorf("Expected 2 phrase occurrences over title+description, got %d", rec.PhraseOccurrences)
	}
	if !rec.ContainsMoney {
		t.Error("Expected money mention to be detected")
	}
	if rec.ImageURL != "https://example.com/a.jpg" {
		t.Errorf("Unexpected image URL: %q", rec.ImageURL)
	}
	if rec.ImagePath != "output/images/image_1.jpg" {
		t.Errorf("Unexpected image path: %q", rec.ImagePath)
	}
	if len(fetcher.calls) != 1 || fetcher.calls[0] != "https://example.com/a.jpg" {
		t.Errorf("Unexpected fetch calls: %v", fetcher.calls)
	}
}

func TestBuilder_Build_DateOutsideWindow(t *testing.T) {
	now := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{}
	b := newTestBuilder(t, now, 1, "apple", fetcher)

	// One day before window start
	if rec := b.Build(context.Background(), articleElement("June 30, 2024")); rec != nil {
		t.Errorf("Expected article dated before window start to be discarded, got %+v", rec)
	}
	if len(fetcher.calls) != 0 {
		t.Error("Expected no image fetch for a discarded article")
	}

	// Exactly on window end
	if rec := b.Build(context.Background(), articleElement("July 31, 2024")); rec == nil {
		t.Error("Expected article dated on window end to be kept")
	}
}

func TestBuilder_Build_UnresolvableDateKept(t *testing.T) {
	now := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	b := newTestBuilder(t, now, 1, "apple", &fakeFetcher{})

	rec := b.Build(context.Background(), articleElement("sometime soon"))
	if rec == nil {
		t.Fatal("Expected article with unresolvable date to be kept")
	}
	if rec.PublishedAt != nil {
		t.Errorf("Expected nil published date, got %v", rec.PublishedAt)
	}
}

func TestBuilder_Build_FallbackTimestampSelector(t *testing.T) {
	now := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	b := newTestBuilder(t, now, 1, "apple", &fakeFetcher{})

	sel := testSelectors()
	el := articleElement("ignored")
	delete(el.children, sel.TimestampPrimary)
	el.children[sel.TimestampFallback] = &fakeElement{text: "Now"}

	rec := b.Build(context.Background(), el)
	if rec == nil {
		t.Fatal("Expected a record, got nil")
	}
	if rec.PublishedAt == nil {
		t.Error("Expected date resolved from the fallback timestamp element")
	}
}

func TestBuilder_Build_MissingFieldsTolerated(t *testing.T) {
	now := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	fetcher := &fakeFetcher{}
	b := newTestBuilder(t, now, 1, "apple", fetcher)

	// Element with nothing but a valid date
	sel := testSelectors()
	el := &fakeElement{
		children: map[string]*fakeElement{
			sel.TimestampPrimary: {text: "July 10, 2024"},
		},
	}

	rec := b.Build(context.Background(), el)
	if rec == nil {
		t.Fatal("Expected a record despite missing fields")
	}
	if rec.Title != "" || rec.Description != "" || rec.ImageURL != "" {
		t.Errorf("Expected empty extracted fields, got %+v", rec)
	}
	if rec.PhraseOccurrences != 0 || rec.ContainsMoney {
		t.Error("Expected zero signals for empty fields")
	}
	if rec.ImagePath != "" {
		t.Errorf("Expected no image path, got %q", rec.ImagePath)
	}
}
