package images

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetcher_Fetch_SequentialNaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake image bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(dir, discardLogger())

	first := f.Fetch(context.Background(), srv.URL+"/a.jpg")
	if filepath.Base(first) != "image_1.jpg" {
		t.Errorf("Expected first image named image_1.jpg, got %q", first)
	}

	second := f.Fetch(context.Background(), srv.URL+"/b.jpg")
	if filepath.Base(second) != "image_2.jpg" {
		t.Errorf("Expected second image named image_2.jpg, got %q", second)
	}

	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("Failed to read downloaded file: %v", err)
	}
	if string(data) != "fake image bytes" {
		t.Errorf("Unexpected file contents: %q", data)
	}
}

func TestFetcher_Fetch_EmptyURL(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), discardLogger())

	if got := f.Fetch(context.Background(), ""); got != "" {
		t.Errorf("Expected empty path for empty URL, got %q", got)
	}
	if requests != 0 {
		t.Errorf("Expected no network calls for empty URL, got %d", requests)
	}
}

func TestFetcher_Fetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(dir, discardLogger())

	if got := f.Fetch(context.Background(), srv.URL+"/a.jpg"); got != "" {
		t.Errorf("Expected empty path on server error, got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files after failed download, got %d", len(entries))
	}
}

func TestFetcher_Fetch_FailureDoesNotAdvanceCounter(t *testing.T) {
	fail := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("fake image bytes"))
	}))
	defer srv.Close()

	f := NewFetcher(t.TempDir(), discardLogger())

	if got := f.Fetch(context.Background(), srv.URL+"/a.jpg"); got != "" {
		t.Errorf("Expected empty path on server error, got %q", got)
	}

	fail = false
	got := f.Fetch(context.Background(), srv.URL+"/b.jpg")
	if filepath.Base(got) != "image_1.jpg" {
		t.Errorf("Expected image_1.jpg after a failed attempt, got %q", got)
	}
}

func TestFetcher_Fetch_UnreachableHost(t *testing.T) {
	f := NewFetcher(t.TempDir(), discardLogger())

	if got := f.Fetch(context.Background(), "http://127.0.0.1:0/nope.jpg"); got != "" {
		t.Errorf("Expected empty path for unreachable host, got %q", got)
	}
}
