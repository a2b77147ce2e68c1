// Package workitem implements the work-item channel run parameters
// arrive on and results are reported to. Input violations are
// classified as business or application errors before any crawling
// begins.
package workitem

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	KindBusiness    = "BUSINESS"
	KindApplication = "APPLICATION"
)

const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeMissingField = "MISSING_FIELD"
	CodeGeneralError = "GENERAL_ERROR"
)

// Error is a classified work-item failure.
type Error struct {
	Kind    string `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Code, e.Message)
}

// Payload carries the validated run parameters.
type Payload struct {
	Category     string `json:"category"`
	SearchPhrase string `json:"search_phrase"`
	TimeOption   int    `json:"time_option"`
}

// Item is one input work item.
type Item struct {
	ID      string  `json:"id"`
	Payload Payload `json:"payload"`
}

// rawPayload keeps fields as pointers so missing keys can be told apart
// from zero values during classification.
type rawPayload struct {
	Category     *string `json:"category"`
	SearchPhrase *string `json:"search_phrase"`
	TimeOption   *int    `json:"time_option"`
}

type rawItem struct {
	ID      string     `json:"id"`
	Payload rawPayload `json:"payload"`
}

// Load reads and validates the input work item at path. A non-nil Error
// means the run must not start.
func Load(path string) (*Item, *Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{KindApplication, CodeGeneralError, fmt.Sprintf("failed to read work item: %v", err)}
	}

	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		if _, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, &Error{KindBusiness, CodeInvalidInput, err.Error()}
		}
		return nil, &Error{KindApplication, CodeGeneralError, fmt.Sprintf("failed to parse work item: %v", err)}
	}

	if raw.Payload.Category == nil {
		return nil, missingField("category")
	}
	if raw.Payload.SearchPhrase == nil {
		return nil, missingField("search_phrase")
	}
	if raw.Payload.TimeOption == nil {
		return nil, missingField("time_option")
	}

	item := &Item{
		ID: raw.ID,
		Payload: Payload{
			Category:     *raw.Payload.Category,
			SearchPhrase: *raw.Payload.SearchPhrase,
			TimeOption:   *raw.Payload.TimeOption,
		},
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	if werr := item.Payload.Validate(); werr != nil {
		return nil, werr
	}

	return item, nil
}

// Validate enforces the run-parameter contract: all three parameters
// present and time_option a positive integer.
func (p *Payload) Validate() *Error {
	if p.Category == "" {
		return &Error{KindBusiness, CodeInvalidInput, "category must be a non-empty string"}
	}
	if p.SearchPhrase == "" {
		return &Error{KindBusiness, CodeInvalidInput, "search phrase must be a non-empty string"}
	}
	if p.TimeOption <= 0 {
		return &Error{KindBusiness, CodeInvalidInput, "time option must be an integer greater than 0"}
	}
	return nil
}

func missingField(name string) *Error {
	return &Error{KindApplication, CodeMissingField, fmt.Sprintf("missing field: %s", name)}
}

// Output is the work item produced at the end of a run, listing the
// files the crawl materialized.
type Output struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Files     []string  `json:"files"`
	Error     *Error    `json:"error,omitempty"`
}

// WriteOutput persists an output work item next to the other run
// artifacts.
func WriteOutput(dir string, files []string) (*Output, error) {
	out := &Output{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Files:     files,
	}
	if err := writeItem(dir, out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteError reports a classified failure through the output channel.
func WriteError(dir string, werr *Error) error {
	return writeItem(dir, &Output{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Error:     werr,
	})
}

func writeItem(dir string, out *Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output work item: %w", err)
	}
	path := filepath.Join(dir, "work-item-output.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output work item: %w", err)
	}
	return nil
}
