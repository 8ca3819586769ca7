// Package store keeps the results of finished sessions in a private
// in-memory SQLite database. The data lives as long as the Store, so
// results outlive evicted or reloaded schedules but never the process.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"pitwall/log"
	"pitwall/model"
	"pitwall/weekend"
)

type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open creates an empty in-memory store. Each Store has its own database.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetMaxIdleConns(1)
	s := &Store{db: db, logger: log.Default().Named("store")}
	if err := s.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS session_results (
  season TEXT NOT NULL,
  round TEXT NOT NULL,
  kind TEXT NOT NULL,
  results TEXT NOT NULL,
  stored_at TEXT NOT NULL,
  PRIMARY KEY (season, round, kind)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create session_results table: %w", err)
	}
	return nil
}

// Get returns the stored results of a session. ok is false if the session
// was never stored.
func (s *Store) Get(ctx context.Context, season, round string, kind weekend.Kind) (results []model.Result, ok bool, err error) {
	const query = `SELECT results FROM session_results WHERE season = ? AND round = ? AND kind = ?`
	var raw string
	err = s.db.QueryRowContext(ctx, query, season, round, string(kind)).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query session results: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &results); err != nil {
		return nil, false, fmt.Errorf("decode session results: %w", err)
	}
	return results, true, nil
}

func (s *Store) Put(ctx context.Context, season, round string, kind weekend.Kind, results []model.Result) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encode session results: %w", err)
	}
	const stmt = `
INSERT INTO session_results (season, round, kind, results, stored_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(season, round, kind) DO UPDATE SET
  results=excluded.results,
  stored_at=excluded.stored_at;
`
	_, err = s.db.ExecContext(ctx, stmt, season, round, string(kind), string(raw),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert session results: %w", err)
	}
	return nil
}

// ReadThrough wraps next so stored results are served from the store.
// Results fetched by next are stored once the weekend is over and the
// classification is not empty; store failures are logged, not returned.
func (s *Store) ReadThrough(next weekend.ResultsFetcher) weekend.ResultsFetcher {
	return func(ctx context.Context, w *weekend.Weekend, kind weekend.Kind) ([]model.Result, error) {
		results, ok, err := s.Get(ctx, w.Season(), w.Round(), kind)
		if err != nil {
			s.logger.Warn("store lookup failed", log.ErrorField(err))
		} else if ok {
			return results, nil
		}

		results, err = next(ctx, w, kind)
		if err != nil {
			return nil, err
		}
		if !w.IsUpcoming() && len(results) > 0 {
			if err := s.Put(ctx, w.Season(), w.Round(), kind, results); err != nil {
				s.logger.Warn("could not store session results",
					log.String("season", w.Season()),
					log.String("round", w.Round()),
					log.String("kind", string(kind)),
					log.ErrorField(err))
			}
		}
		return results, nil
	}
}
