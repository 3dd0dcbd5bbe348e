package dedup

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"groundbot/internal/logger"
)

// PostgresBackend stores the dedup state in PostgreSQL, for deployments
// where the working directory is not durable.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend connects and initializes the schema.
func NewPostgresBackend(connectionString string) (*PostgresBackend, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pb := &PostgresBackend{db: db}
	if err := pb.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("postgres dedup backend connected")
	return pb, nil
}

func (pb *PostgresBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posted_articles (
		url TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS posted_titles (
		normalized_title TEXT PRIMARY KEY,
		posted_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posted_titles_posted_at ON posted_titles(posted_at);
	`
	_, err := pb.db.Exec(schema)
	return err
}

func (pb *PostgresBackend) Load() ([]string, map[string]time.Time, error) {
	rows, err := pb.db.Query(`SELECT url FROM posted_articles`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load posted articles: %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, nil, err
		}
		urls = append(urls, u)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	titleRows, err := pb.db.Query(`SELECT normalized_title, posted_at FROM posted_titles`)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load posted titles: %w", err)
	}
	defer titleRows.Close()

	titles := make(map[string]time.Time)
	for titleRows.Next() {
		var t string
		var ts time.Time
		if err := titleRows.Scan(&t, &ts); err != nil {
			return nil, nil, err
		}
		titles[t] = ts
	}
	return urls, titles, titleRows.Err()
}

// Save upserts the in-memory state. Rows are never removed for URLs
// (membership is permanent); stale titles are deleted so the table
// mirrors the purged index.
func (pb *PostgresBackend) Save(urls []string, titles map[string]time.Time) error {
	tx, err := pb.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback()

	for _, u := range urls {
		if _, err := tx.Exec(
			`INSERT INTO posted_articles (url) VALUES ($1) ON CONFLICT (url) DO NOTHING`, u); err != nil {
			return fmt.Errorf("failed to save url: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM posted_titles`); err != nil {
		return fmt.Errorf("failed to clear titles: %w", err)
	}
	for t, ts := range titles {
		if _, err := tx.Exec(
			`INSERT INTO posted_titles (normalized_title, posted_at) VALUES ($1, $2)
			 ON CONFLICT (normalized_title) DO UPDATE SET posted_at = EXCLUDED.posted_at`, t, ts); err != nil {
			return fmt.Errorf("failed to save title: %w", err)
		}
	}

	return tx.Commit()
}

// Close closes the database connection.
func (pb *PostgresBackend) Close() error {
	if pb.db != nil {
		return pb.db.Close()
	}
	return nil
}
