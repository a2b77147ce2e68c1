// Package export materializes the collected dataset: a spreadsheet with
// one row per record and a zip archive of the downloaded images.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lysyi3m/news-comb/app/article"
)

// Column order matches the dataset contract consumed downstream.
var columns = []string{"date", "image_path", "title", "description", "words_occurrences", "contain_money"}

// XLSXWriter saves the dataset as an Excel workbook.
type XLSXWriter struct {
	path string
}

func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Path returns the workbook destination.
func (w *XLSXWriter) Path() string {
	return w.path
}

// Write saves one row per record under a header row, preserving record
// order.
func (w *XLSXWriter) Write(records []article.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		row := []interface{}{
			formatDate(rec.PublishedAt),
			rec.ImagePath,
			rec.Title,
			rec.Description,
			rec.PhraseOccurrences,
			rec.ContainsMoney,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save excel file: %w", err)
	}
	return nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
