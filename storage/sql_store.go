package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"shoe-report/models"
	"shoe-report/utils"
)

// dialect captures what differs between the supported SQL backends.
type dialect struct {
	driver      string
	schema      string
	placeholder func(n int) string
}

var postgresDialect = dialect{
	driver: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS listings (
			id             SERIAL PRIMARY KEY,
			category       TEXT,
			current_price  NUMERIC(12,2),
			original_price NUMERIC(12,2),
			weight_value   DOUBLE PRECISION,
			brand          TEXT NOT NULL DEFAULT '',
			name           TEXT NOT NULL,
			url            TEXT UNIQUE
		);

		CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
		CREATE INDEX IF NOT EXISTS idx_listings_brand    ON listings(brand);
	`,
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS listings (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			category       TEXT,
			current_price  NUMERIC,
			original_price NUMERIC,
			weight_value   REAL,
			brand          TEXT NOT NULL DEFAULT '',
			name           TEXT NOT NULL,
			url            TEXT UNIQUE
		);

		CREATE INDEX IF NOT EXISTS idx_listings_category ON listings(category);
		CREATE INDEX IF NOT EXISTS idx_listings_brand    ON listings(brand);
	`,
	placeholder: func(int) string { return "?" },
}

// SQLStore persists listings to PostgreSQL or SQLite and serves them back
// as a report table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *utils.Logger
}

// NewPostgresStore connects to PostgreSQL, retrying the initial ping, and
// runs schema migrations.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig, logger *utils.Logger) (*SQLStore, error) {
	return openStore(ctx, postgresDialect, dsn, retry, logger)
}

// NewSQLiteStore opens (or creates) the SQLite database at path and runs
// schema migrations.
func NewSQLiteStore(ctx context.Context, path string, logger *utils.Logger) (*SQLStore, error) {
	return openStore(ctx, sqliteDialect, path, nil, logger)
}

func openStore(ctx context.Context, d dialect, dsn string, retry *utils.RetryConfig, logger *utils.Logger) (*SQLStore, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.driver, err)
	}

	if retry == nil {
		retry = &utils.RetryConfig{MaxAttempts: 1, Logger: logger}
	}
	err = retry.Do(ctx, d.driver+"-ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", d.driver, err)
	}

	s := &SQLStore{db: db, dialect: d, logger: logger.Fields("storage", d.driver)}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", d.driver, err)
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(s.dialect.schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Clear deletes all existing listings from the table.
func (s *SQLStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		return fmt.Errorf("%s: clear: %w", s.dialect.driver, err)
	}
	return nil
}

// Write replaces the stored listings, inserting in batches inside one
// transaction. Rows repeating an already stored URL are skipped.
func (s *SQLStore) Write(ctx context.Context, listings []*models.Listing) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", s.dialect.driver, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM listings"); err != nil {
		return fmt.Errorf("%s: clear: %w", s.dialect.driver, err)
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := s.insertBatch(listings[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%s: insert batch at %d: %w", s.dialect.driver, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", s.dialect.driver, err)
	}
	s.logger.Info("[storage] Stored %d listings", len(listings))
	return nil
}

const insertColumns = 7

func (s *SQLStore) insertBatch(batch []*models.Listing) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*insertColumns)

	for idx, l := range batch {
		base := idx * insertColumns
		ph := make([]string, insertColumns)
		for k := range ph {
			ph[k] = s.dialect.placeholder(base + k + 1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			nullString(l.Category), l.CurrentPrice, l.OriginalPrice, l.WeightValue,
			l.Brand, l.Name, nullString(l.URL))
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (category, current_price, original_price, weight_value, brand, name, url)
		VALUES %s
		ON CONFLICT (url) DO NOTHING
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

// FetchAll retrieves all stored listings in insertion order.
func (s *SQLStore) FetchAll(ctx context.Context) ([]*models.Listing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, current_price, original_price, weight_value, brand, name, url
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch all: %w", s.dialect.driver, err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		var category, url sql.NullString
		l := &models.Listing{}
		if err := rows.Scan(
			&l.ID, &category, &l.CurrentPrice, &l.OriginalPrice, &l.WeightValue,
			&l.Brand, &l.Name, &url,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", s.dialect.driver, err)
		}
		l.Category = category.String
		l.URL = url.String
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// Load implements TableSource.
func (s *SQLStore) Load(ctx context.Context) (*models.Table, error) {
	start := time.Now()
	listings, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("[storage] Loaded %d listings in %v", len(listings), time.Since(start))
	return models.NewTableFromListings(listings), nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
