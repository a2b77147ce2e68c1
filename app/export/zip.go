package export

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
}

// Archiver packages downloaded images into a single zip for the
// external packaging step.
type Archiver struct {
	imagesDir string
}

func NewArchiver(imagesDir string) *Archiver {
	return &Archiver{imagesDir: imagesDir}
}

// Archive writes every image file under the images directory into
// zipPath. A missing or empty images directory yields an empty archive,
// not an error.
func (a *Archiver) Archive(zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	if _, err := os.Stat(a.imagesDir); err == nil {
		if err := a.addImages(zw); err != nil {
			zw.Close()
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}

func (a *Archiver) addImages(zw *zip.Writer) error {
	return filepath.WalkDir(a.imagesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, err := filepath.Rel(a.imagesDir, path)
		if err != nil {
			return fmt.Errorf("failed to compute archive name: %w", err)
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", rel, err)
		}

		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer src.Close()

		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("failed to archive %s: %w", rel, err)
		}
		return nil
	})
}
