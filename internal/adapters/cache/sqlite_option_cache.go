package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/luizlzg/mcp-agent-transport/internal/domain"
)

// SQLite backed cache for leg search results. Keys are expected to be
// consistent (e.g., already normalized) by the caller.
type SqliteOptionCache struct {
	DB *sql.DB
}

func NewSqliteOptionCache(db *sql.DB) *SqliteOptionCache {
	return &SqliteOptionCache{DB: db}
}

// Fetch cached options for one leg on one departure date.
func (s *SqliteOptionCache) Get(
	ctx context.Context,
	origin, destination, date string,
) ([]domain.TransportOption, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("option cache: db is nil")
	}

	if origin == "" || destination == "" || date == "" {
		return nil, false, errors.New("get option cache: origin, destination and date must not be empty")
	}

	q := `
	SELECT options
    FROM leg_option_cache
    WHERE origin = ?
        AND destination = ?
        AND departure_date = ?;
	`

	var raw []byte
	err := s.DB.QueryRowContext(ctx, q, origin, destination, date).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get option cache: query leg_option_cache table: %w", err)
	}

	var options []domain.TransportOption
	if err := json.Unmarshal(raw, &options); err != nil {
		return nil, false, fmt.Errorf("get option cache: decode options: %w", err)
	}

	return options, true, nil
}

// Store the search results for one leg on one departure date.
func (s *SqliteOptionCache) Put(
	ctx context.Context,
	origin, destination, date string,
	options []domain.TransportOption,
) error {
	if s.DB == nil {
		return errors.New("option cache: db is nil")
	}

	if origin == "" || destination == "" || date == "" {
		return errors.New("insert option cache: origin, destination and date must not be empty")
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("insert option cache: encode options: %w", err)
	}

	q := `
	INSERT OR REPLACE INTO leg_option_cache (
        origin,
        destination,
        departure_date,
        options
    )
    VALUES (?, ?, ?, ?)
	`

	if _, err := s.DB.ExecContext(ctx, q, origin, destination, date, raw); err != nil {
		return fmt.Errorf("insert option cache %s->%s on %s: %w", origin, destination, date, err)
	}

	return nil
}

// InitSqliteSchema creates the cache table for the embedded database.
func InitSqliteSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: db is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS leg_option_cache (
		origin         TEXT NOT NULL,
		destination    TEXT NOT NULL,
		departure_date TEXT NOT NULL,
		options        TEXT NOT NULL,
		PRIMARY KEY (origin, destination, departure_date)
	);
	`

	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init schema: create leg_option_cache table: %w", err)
	}

	return nil
}
