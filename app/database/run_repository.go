package database

import (
	"fmt"
	"time"

	"github.com/lysyi3m/news-comb/app/article"
)

// Run is one recorded crawl.
type Run struct {
	ID             string
	Category       string
	SearchPhrase   string
	LookbackMonths int
	StartedAt      time.Time
	FinishedAt     time.Time
	ArticleCount   int
}

// RunRepository handles database operations for crawl runs.
type RunRepository struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepository {
	return &RunRepository{db: db}
}

// StoreRun persists a run and its articles in one transaction. Article
// positions preserve page-then-intra-page discovery order.
func (r *RunRepository) StoreRun(run Run, records []article.Record) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO runs (id, category, search_phrase, lookback_months, started_at, finished_at, article_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Category, run.SearchPhrase, run.LookbackMonths,
		run.StartedAt, run.FinishedAt, len(records))
	if err != nil {
		return fmt.Errorf("failed to store run: %w", err)
	}

	for i, rec := range records {
		_, err = tx.Exec(`
			INSERT INTO run_articles (run_id, position, published_at, image_url, image_path,
				title, description, words_occurrences, contain_money)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, rec.PublishedAt, rec.ImageURL, rec.ImagePath,
			rec.Title, rec.Description, rec.PhraseOccurrences, rec.ContainsMoney)
		if err != nil {
			return fmt.Errorf("failed to store article %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRunCount returns the number of recorded runs.
func (r *RunRepository) GetRunCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

// GetRunArticles returns the articles of a run in discovery order.
func (r *RunRepository) GetRunArticles(runID string) ([]article.Record, error) {
	rows, err := r.db.Query(`
		SELECT published_at, image_url, image_path, title, description,
			words_occurrences, contain_money
		FROM run_articles
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run articles: %w", err)
	}
	defer rows.Close()

	var records []article.Record
	for rows.Next() {
		var rec article.Record
		if err := rows.Scan(&rec.PublishedAt, &rec.ImageURL, &rec.ImagePath,
			&rec.Title, &rec.Description, &rec.PhraseOccurrences, &rec.ContainsMoney); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
