package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const pageLoadTimeout = 30 * time.Second

// Static implements Browser over plain HTTP and goquery document
// queries. Clicking an anchor follows its href; clicking a control
// inside a form submits the form via GET with the values recorded by
// Input and Select. Script-driven widgets are approximated: clicking an
// element with no navigation target succeeds as a presence check.
type Static struct {
	client    *http.Client
	logger    *slog.Logger
	userAgent string
	base      *url.URL
	doc       *goquery.Document
	form      url.Values
}

func NewStatic(userAgent string, logger *slog.Logger) *Static {
	return &Static{
		client:    &http.Client{Timeout: pageLoadTimeout},
		logger:    logger,
		userAgent: userAgent,
		form:      url.Values{},
	}
}

// Open fetches rawURL and replaces the current document. Pending form
// values are kept so a multi-step search flow can span a navigation.
func (s *Static) Open(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	s.doc = doc
	s.base = resp.Request.URL
	return nil
}

func (s *Static) Find(selector string) (Element, error) {
	sel, err := s.selection(selector)
	if err != nil {
		return nil, err
	}
	return &element{sel: sel.First()}, nil
}

func (s *Static) FindAll(selector string) ([]Element, error) {
	sel, err := s.selection(selector)
	if err != nil {
		return nil, err
	}
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, node *goquery.Selection) {
		elements = append(elements, &element{sel: node})
	})
	return elements, nil
}

func (s *Static) Click(ctx context.Context, selector string) error {
	sel, err := s.selection(selector)
	if err != nil {
		return err
	}
	node := sel.First()

	if href, ok := node.Attr("href"); ok && href != "" {
		target, err := s.resolve(href)
		if err != nil {
			return fmt.Errorf("failed to resolve link %q: %w", href, err)
		}
		return s.Open(ctx, target.String())
	}

	if form := node.Closest("form"); form.Length() > 0 {
		if isSubmitControl(node) {
			return s.submitForm(ctx, form)
		}
	}

	// No navigation target: a script-driven toggle. The element exists,
	// which is all a static surface can verify.
	return nil
}

// Input records a value for a named form control. The value is applied
// when the enclosing form is submitted.
func (s *Static) Input(selector, value string) error {
	sel, err := s.selection(selector)
	if err != nil {
		return err
	}
	s.form.Set(controlName(sel.First(), selector), value)
	return nil
}

// Select records a value for a list control. A select outside any form
// navigates immediately, re-requesting the current page with the
// control's name as a query parameter, which matches how sort controls
// on search result pages behave.
func (s *Static) Select(ctx context.Context, selector, value string) error {
	sel, err := s.selection(selector)
	if err != nil {
		return err
	}
	node := sel.First()
	name := controlName(node, selector)
	s.form.Set(name, value)

	if node.Closest("form").Length() > 0 || s.base == nil {
		return nil
	}

	target := *s.base
	query := target.Query()
	query.Set(name, value)
	target.RawQuery = query.Encode()
	return s.Open(ctx, target.String())
}

// WaitFor checks that an element is present, refreshing the current
// page once before giving up.
func (s *Static) WaitFor(ctx context.Context, selector string) error {
	if _, err := s.Find(selector); err == nil {
		return nil
	}
	if s.base != nil {
		if err := s.Open(ctx, s.base.String()); err != nil {
			return fmt.Errorf("failed to refresh page: %w", err)
		}
	}
	if _, err := s.Find(selector); err != nil {
		return err
	}
	return nil
}

func (s *Static) selection(selector string) (*goquery.Selection, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("no page open")
	}
	sel := s.doc.Find(selector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("element not found: %s", selector)
	}
	return sel, nil
}

func (s *Static) submitForm(ctx context.Context, form *goquery.Selection) error {
	values := url.Values{}
	form.Find("input[name], select[name]").Each(func(_ int, in *goquery.Selection) {
		name, _ := in.Attr("name")
		if v := s.form.Get(name); v != "" {
			values.Set(name, v)
			return
		}
		values.Set(name, in.AttrOr("value", ""))
	})

	target, err := s.resolve(form.AttrOr("action", ""))
	if err != nil {
		return fmt.Errorf("failed to resolve form action: %w", err)
	}
	target.RawQuery = values.Encode()

	s.logger.Debug("submitting form", "url", target.String())
	return s.Open(ctx, target.String())
}

func (s *Static) resolve(ref string) (*url.URL, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return nil, err
	}
	if s.base == nil {
		return parsed, nil
	}
	return s.base.ResolveReference(parsed), nil
}

func controlName(node *goquery.Selection, fallback string) string {
	if name, ok := node.Attr("name"); ok && name != "" {
		return name
	}
	return fallback
}

func isSubmitControl(node *goquery.Selection) bool {
	if goquery.NodeName(node) == "button" {
		return !strings.EqualFold(node.AttrOr("type", "submit"), "button")
	}
	return strings.EqualFold(node.AttrOr("type", ""), "submit")
}

type element struct {
	sel *goquery.Selection
}

// Text returns the node's text with whitespace collapsed, the way a
// rendered page would display it.
func (e *element) Text() string {
	return strings.Join(strings.Fields(e.sel.Text()), " ")
}

func (e *element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e *element) Find(selector string) (Element, error) {
	sel := e.sel.Find(selector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("element not found: %s", selector)
	}
	return &element{sel: sel.First()}, nil
}

func (e *element) FindAll(selector string) ([]Element, error) {
	sel := e.sel.Find(selector)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("element not found: %s", selector)
	}
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, node *goquery.Selection) {
		elements = append(elements, &element{sel: node})
	})
	return elements, nil
}
