package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const downloadTimeout = 30 * time.Second

// Fetcher downloads article images into a single directory using a
// sequential image_<n>.jpg naming scheme. The fetcher owns the counter;
// it advances only on a successful download, so the saved files are
// numbered densely from 1 regardless of failures in between. Not safe
// for concurrent use.
type Fetcher struct {
	client *http.Client
	dir    string
	logger *slog.Logger
	saved  int
}

func NewFetcher(dir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: downloadTimeout},
		dir:    dir,
		logger: logger,
	}
}

// Fetch downloads url and returns the saved path. An empty url or any
// retrieval failure yields "" and never an error; the record the image
// belongs to is still emitted.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	if url == "" {
		return ""
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		f.logger.Warn("failed to create image directory", "dir", f.dir, "error", err)
		return ""
	}

	path := filepath.Join(f.dir, fmt.Sprintf("image_%d.jpg", f.saved+1))
	if err := f.download(ctx, url, path); err != nil {
		f.logger.Warn("failed to download image", "url", url, "error", err)
		return ""
	}

	f.saved++
	f.logger.Info("image downloaded", "path", path)
	return path
}

func (f *Fetcher) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
