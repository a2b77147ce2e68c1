// Package browser defines the capabilities the crawl loop needs from a
// page-rendering surface, plus a static HTTP implementation of them.
// The core depends only on these interfaces; a script-capable driver
// can be substituted without touching the crawl logic.
package browser

import "context"

// Element is one node on the current page. Lookups scoped to an element
// search only its subtree.
type Element interface {
	Text() string
	Attr(name string) (string, bool)
	Find(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
}

// Browser drives the page surface: navigation, element lookup and the
// interactions the search-and-paginate flow requires.
type Browser interface {
	Open(ctx context.Context, url string) error
	Find(selector string) (Element, error)
	FindAll(selector string) ([]Element, error)
	Click(ctx context.Context, selector string) error
	Input(selector, value string) error
	Select(ctx context.Context, selector, value string) error
	WaitFor(ctx context.Context, selector string) error
}
