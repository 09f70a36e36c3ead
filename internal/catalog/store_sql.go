// Animerank - Hybrid Anime Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerank

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
	"github.com/goccy/go-json"
	"github.com/lib/pq"

	"github.com/tomtom215/animerank/internal/config"
	"github.com/tomtom215/animerank/internal/logging"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// DefaultBatchSize is the number of rows written per upsert transaction.
const DefaultBatchSize = 50

// Postgres keeps list columns as native arrays. DuckDB keeps them as
// JSON text so both dialects scan through plain database/sql types.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS anime (
	id             INTEGER PRIMARY KEY,
	title          TEXT,
	all_titles     TEXT[],
	main_picture   JSONB,
	tags           TEXT[],
	synopsis       TEXT,
	rating         TEXT,
	is_nsfw        BOOLEAN DEFAULT FALSE,
	total_episodes INTEGER DEFAULT 0,
	children_ids   INTEGER[],
	last_updated   TIMESTAMPTZ,
	embedding      DOUBLE PRECISION[]
)`

const duckdbSchema = `
CREATE TABLE IF NOT EXISTS anime (
	id             INTEGER PRIMARY KEY,
	title          VARCHAR,
	all_titles     VARCHAR,
	main_picture   VARCHAR,
	tags           VARCHAR,
	synopsis       VARCHAR,
	rating         VARCHAR,
	is_nsfw        BOOLEAN DEFAULT FALSE,
	total_episodes INTEGER DEFAULT 0,
	children_ids   VARCHAR,
	last_updated   TIMESTAMP,
	embedding      VARCHAR
)`

const selectRowsSQL = `
SELECT id, title, all_titles, CAST(main_picture AS VARCHAR), tags, synopsis,
       rating, is_nsfw, total_episodes, children_ids, last_updated, embedding
FROM anime
ORDER BY id`

const upsertRowSQL = `
INSERT INTO anime (
	id, title, all_titles, main_picture, tags, synopsis, rating,
	is_nsfw, total_episodes, children_ids, last_updated, embedding
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (id) DO UPDATE SET
	title = EXCLUDED.title,
	all_titles = EXCLUDED.all_titles,
	main_picture = EXCLUDED.main_picture,
	tags = EXCLUDED.tags,
	synopsis = EXCLUDED.synopsis,
	rating = EXCLUDED.rating,
	is_nsfw = EXCLUDED.is_nsfw,
	total_episodes = EXCLUDED.total_episodes,
	children_ids = EXCLUDED.children_ids,
	last_updated = EXCLUDED.last_updated,
	embedding = EXCLUDED.embedding`

// SQLStore is a Store over database/sql for Postgres (lib/pq) or DuckDB.
type SQLStore struct {
	db        *sql.DB
	driver    string
	batchSize int
}

// OpenSQLStore opens and pings the configured database. With AutoMigrate
// set the anime table is created when missing.
func OpenSQLStore(ctx context.Context, cfg config.DatabaseConfig) (*SQLStore, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	db.SetConnMaxLifetime(time.Hour)

	store, err := NewSQLStore(db, cfg.Driver, cfg.BatchSize)
	if err != nil {
		closeQuietly(db)
		return nil, err
	}

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		closeQuietly(db)
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	if cfg.AutoMigrate {
		if err := store.EnsureSchema(ctx); err != nil {
			closeQuietly(db)
			return nil, err
		}
	}

	logging.Info().Str("driver", cfg.Driver).Msg("Catalog store connected")
	return store, nil
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sql.DB, driver string, batchSize int) (*SQLStore, error) {
	switch driver {
	case DriverPostgres, DriverDuckDB:
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", driver)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &SQLStore{db: db, driver: driver, batchSize: batchSize}, nil
}

// EnsureSchema creates the anime table if it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	schema := postgresSchema
	if s.driver == DriverDuckDB {
		schema = duckdbSchema
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create anime table: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// LoadRows reads the whole catalog ordered by id.
func (s *SQLStore) LoadRows(ctx context.Context) ([]RawRow, error) {
	rows, err := s.db.QueryContext(ctx, selectRowsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var out []RawRow
	for rows.Next() {
		var row RawRow
		if s.driver == DriverPostgres {
			err = scanPostgresRow(rows, &row)
		} else {
			err = scanDuckDBRow(rows, &row)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog rows: %w", err)
	}
	return out, nil
}

// nullableColumns holds the scalar columns shared by both dialects.
type nullableColumns struct {
	id            int64
	title         sql.NullString
	mainPicture   sql.NullString
	synopsis      sql.NullString
	rating        sql.NullString
	isNSFW        sql.NullBool
	totalEpisodes sql.NullInt64
	lastUpdated   sql.NullTime
}

func (c *nullableColumns) apply(row *RawRow) {
	row.ID = int(c.id)
	row.Title = nullString(c.title)
	row.Synopsis = nullString(c.synopsis)
	row.Rating = nullString(c.rating)
	if c.mainPicture.Valid {
		row.MainPicture = json.RawMessage(c.mainPicture.String)
	}
	if c.isNSFW.Valid {
		v := c.isNSFW.Bool
		row.IsNSFW = &v
	}
	if c.totalEpisodes.Valid {
		v := int(c.totalEpisodes.Int64)
		row.TotalEpisodes = &v
	}
	if c.lastUpdated.Valid {
		v := c.lastUpdated.Time
		row.LastUpdated = &v
	}
}

func scanPostgresRow(rows *sql.Rows, row *RawRow) error {
	var (
		c         nullableColumns
		allTitles pq.StringArray
		tags      pq.StringArray
		children  pq.Int64Array
		embedding pq.Float64Array
	)
	if err := rows.Scan(&c.id, &c.title, &allTitles, &c.mainPicture, &tags, &c.synopsis,
		&c.rating, &c.isNSFW, &c.totalEpisodes, &children, &c.lastUpdated, &embedding); err != nil {
		return fmt.Errorf("failed to scan catalog row: %w", err)
	}
	c.apply(row)
	row.AllTitles = []string(allTitles)
	row.Tags = []string(tags)
	row.ChildrenIDs = int64sToInts(children)
	row.Embedding = []float64(embedding)
	return nil
}

func scanDuckDBRow(rows *sql.Rows, row *RawRow) error {
	var c nullableColumns
	var allTitles, tags, children, embedding sql.NullString
	if err := rows.Scan(&c.id, &c.title, &allTitles, &c.mainPicture, &tags, &c.synopsis,
		&c.rating, &c.isNSFW, &c.totalEpisodes, &children, &c.lastUpdated, &embedding); err != nil {
		return fmt.Errorf("failed to scan catalog row: %w", err)
	}
	c.apply(row)
	// Malformed list text is treated as absent, matching NormalizeRow.
	row.AllTitles = decodeJSONList[string](row.ID, "all_titles", allTitles)
	row.Tags = decodeJSONList[string](row.ID, "tags", tags)
	row.ChildrenIDs = decodeJSONList[int](row.ID, "children_ids", children)
	row.Embedding = decodeJSONList[float64](row.ID, "embedding", embedding)
	return nil
}

// Upsert writes rows in batches, one transaction per batch.
func (s *SQLStore) Upsert(ctx context.Context, rows []RawRow) error {
	for start := 0; start < len(rows); start += s.batchSize {
		end := start + s.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		if err := s.upsertBatch(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("failed to upsert rows %d-%d: %w", start, end-1, err)
		}
		logging.Debug().Int("written", end).Int("total", len(rows)).Msg("Upserted catalog batch")
	}
	return nil
}

func (s *SQLStore) upsertBatch(ctx context.Context, batch []RawRow) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Warn().Err(rbErr).Msg("Failed to roll back catalog batch")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertRowSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for i := range batch {
		args, argErr := s.upsertArgs(&batch[i])
		if argErr != nil {
			return argErr
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to upsert anime %d: %w", batch[i].ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

func (s *SQLStore) upsertArgs(row *RawRow) ([]interface{}, error) {
	var picture interface{}
	if len(row.MainPicture) > 0 && string(row.MainPicture) != "null" {
		picture = string(row.MainPicture)
	}

	var embedding interface{}
	args := []interface{}{row.ID, deref(row.Title)}

	if s.driver == DriverPostgres {
		if len(row.Embedding) > 0 {
			embedding = pq.Array(row.Embedding)
		}
		return append(args,
			pq.Array(nonNil(row.AllTitles)),
			picture,
			pq.Array(nonNil(row.Tags)),
			deref(row.Synopsis),
			deref(row.Rating),
			deref(row.IsNSFW),
			deref(row.TotalEpisodes),
			pq.Array(intsToInt64s(row.ChildrenIDs)),
			deref(row.LastUpdated),
			embedding,
		), nil
	}

	titles, err := encodeJSONList(row.AllTitles)
	if err != nil {
		return nil, err
	}
	tags, err := encodeJSONList(row.Tags)
	if err != nil {
		return nil, err
	}
	children, err := encodeJSONList(row.ChildrenIDs)
	if err != nil {
		return nil, err
	}
	if len(row.Embedding) > 0 {
		if embedding, err = encodeJSONList(row.Embedding); err != nil {
			return nil, err
		}
	}
	return append(args,
		titles,
		picture,
		tags,
		deref(row.Synopsis),
		deref(row.Rating),
		deref(row.IsNSFW),
		deref(row.TotalEpisodes),
		children,
		deref(row.LastUpdated),
		embedding,
	), nil
}

func decodeJSONList[T any](id int, column string, s sql.NullString) []T {
	if !s.Valid || s.String == "" {
		return nil
	}
	var out []T
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		logging.Debug().Int("anime_id", id).Str("column", column).Err(err).Msg("Ignoring malformed list column")
		return nil
	}
	return out
}

func encodeJSONList[T any](values []T) (string, error) {
	data, err := json.Marshal(nonNil(values))
	if err != nil {
		return "", fmt.Errorf("failed to encode list column: %w", err)
	}
	return string(data), nil
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

// deref turns a nil pointer into a SQL NULL and otherwise passes the value.
func deref[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func int64sToInts(in []int64) []int {
	if in == nil {
		return nil
	}
	out := make([]int, len(in))
	for i, v := range in {
		out[i] = int(v)
	}
	return out
}

func intsToInt64s(in []int) []int64 {
	out := make([]int64, len(in))
	for i, v := range in {
		out[i] = int64(v)
	}
	return out
}

func closeQuietly(db *sql.DB) {
	if err := db.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close database")
	}
}
