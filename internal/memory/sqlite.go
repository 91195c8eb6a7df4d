package memory

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/legendastv/ltv/internal/model"
)

// SQLiteStore persists choices across batch runs. Only used when the user
// explicitly opts in; the engine defaults to a SessionStore.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

const choicesSchema = `
CREATE TABLE IF NOT EXISTS choices (
	name_key     TEXT PRIMARY KEY,
	title_id     INTEGER NOT NULL,
	title        TEXT NOT NULL,
	native       TEXT NOT NULL DEFAULT '',
	category     TEXT NOT NULL,
	year         INTEGER NOT NULL DEFAULT 0,
	season       INTEGER NOT NULL DEFAULT 0,
	imdb_id      INTEGER NOT NULL DEFAULT 0,
	sub_hash     TEXT,
	sub_release  TEXT,
	sub_language TEXT,
	sub_pack     INTEGER,
	sub_featured INTEGER,
	confirmed_at TIMESTAMP NOT NULL
)`

// NewSQLiteStore opens (creating if needed) the choice database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(choicesSchema); err != nil {
		return nil, fmt.Errorf("failed to create choices table: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Lookup retrieves the choice recorded for key, or nil when absent.
func (s *SQLiteStore) Lookup(ctx context.Context, key model.NameKey) (*model.Choice, error) {
	var (
		choice      model.Choice
		subHash     sql.NullString
		subRelease  sql.NullString
		subLanguage sql.NullString
		subPack     sql.NullBool
		subFeatured sql.NullBool
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT title_id, title, native, category, year, season, imdb_id,
		       sub_hash, sub_release, sub_language, sub_pack, sub_featured,
		       confirmed_at
		FROM choices
		WHERE name_key = ?
	`, string(key)).Scan(
		&choice.Title.ID,
		&choice.Title.Title,
		&choice.Title.Native,
		&choice.Title.Category,
		&choice.Title.Year,
		&choice.Title.Season,
		&choice.Title.IMDBID,
		&subHash,
		&subRelease,
		&subLanguage,
		&subPack,
		&subFeatured,
		&choice.ConfirmedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up choice: %w", err)
	}

	choice.Key = key
	if subHash.Valid && subHash.String != "" {
		choice.Subtitle = &model.SubtitleCandidate{
			Hash:     subHash.String,
			Release:  subRelease.String,
			Language: subLanguage.String,
			Pack:     subPack.Bool,
			Featured: subFeatured.Bool,
			TitleID:  choice.Title.ID,
		}
	}

	return &choice, nil
}

// Remember upserts the choice for its key.
func (s *SQLiteStore) Remember(ctx context.Context, choice model.Choice) error {
	if choice.Key == "" {
		return fmt.Errorf("choice key cannot be empty")
	}
	if choice.ConfirmedAt.IsZero() {
		choice.ConfirmedAt = time.Now()
	}

	var (
		subHash     sql.NullString
		subRelease  sql.NullString
		subLanguage sql.NullString
		subPack     sql.NullBool
		subFeatured sql.NullBool
	)
	if sub := choice.Subtitle; sub != nil {
		subHash = sql.NullString{String: sub.Hash, Valid: true}
		subRelease = sql.NullString{String: sub.Release, Valid: true}
		subLanguage = sql.NullString{String: sub.Language, Valid: true}
		subPack = sql.NullBool{Bool: sub.Pack, Valid: true}
		subFeatured = sql.NullBool{Bool: sub.Featured, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO choices (name_key, title_id, title, native, category,
		                     year, season, imdb_id, sub_hash, sub_release,
		                     sub_language, sub_pack, sub_featured, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name_key) DO UPDATE SET
			title_id = excluded.title_id,
			title = excluded.title,
			native = excluded.native,
			category = excluded.category,
			year = excluded.year,
			season = excluded.season,
			imdb_id = excluded.imdb_id,
			sub_hash = excluded.sub_hash,
			sub_release = excluded.sub_release,
			sub_language = excluded.sub_language,
			sub_pack = excluded.sub_pack,
			sub_featured = excluded.sub_featured,
			confirmed_at = excluded.confirmed_at
	`,
		string(choice.Key),
		choice.Title.ID,
		choice.Title.Title,
		choice.Title.Native,
		string(choice.Title.Category),
		choice.Title.Year,
		choice.Title.Season,
		choice.Title.IMDBID,
		subHash,
		subRelease,
		subLanguage,
		subPack,
		subFeatured,
		choice.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save choice: %w", err)
	}
	return nil
}

// Forget deletes the entry for key, if any.
func (s *SQLiteStore) Forget(ctx context.Context, key model.NameKey) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM choices WHERE name_key = ?`, string(key)); err != nil {
		return fmt.Errorf("failed to forget choice: %w", err)
	}
	return nil
}

// Clear deletes every entry.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM choices`); err != nil {
		return fmt.Errorf("failed to clear choices: %w", err)
	}
	return nil
}
