// internal/store/sqlite.go
//
// SQLite implementation of PlayerStore.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Bootstrapping the players schema (idempotent).
//   - Get/Upsert/TopN over the players table.
//
// One row per player id; every score-affecting event rewrites that
// player's full record via INSERT ... ON CONFLICT.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    total_score INTEGER NOT NULL DEFAULT 0,
    games_won   INTEGER NOT NULL DEFAULT 0,
    total_games INTEGER NOT NULL DEFAULT 0,
    last_played TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_players_score ON players(total_score DESC);
`

// SQLite is a PlayerStore backed by a local SQLite file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if missing) the database at dsn and
// bootstraps the schema.
//
// - Ensures the parent directory exists for relative DSNs (./data/app.db).
// - Configures busy timeout and WAL journaling mode.
func OpenSQLite(dsn string) (*SQLite, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get loads one player record.
func (s *SQLite) Get(ctx context.Context, id string) (*PlayerRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, total_score, games_won, total_games, last_played
		 FROM players WHERE id=?`, id)

	var rec PlayerRecord
	var last string
	if err := row.Scan(&rec.ID, &rec.Name, &rec.TotalScore, &rec.GamesWon, &rec.TotalGames, &last); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, last); err == nil {
		rec.LastPlayed = t
	} else if last != "" {
		log.Warn().Str("player", rec.ID).Str("lastPlayed", last).Msg("malformed last_played timestamp")
	}
	return &rec, nil
}

// Upsert writes the full record, replacing any existing row for the id.
func (s *SQLite) Upsert(ctx context.Context, rec *PlayerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, name, total_score, games_won, total_games, last_played)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET
		    name=excluded.name,
		    total_score=excluded.total_score,
		    games_won=excluded.games_won,
		    total_games=excluded.total_games,
		    last_played=excluded.last_played`,
		rec.ID, rec.Name, rec.TotalScore, rec.GamesWon, rec.TotalGames,
		rec.LastPlayed.UTC().Format(time.RFC3339))
	return err
}

// TopN returns the ranked players with at least one finished game.
func (s *SQLite) TopN(ctx context.Context, n int) ([]LeaderboardRow, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, total_score, games_won, total_games
		FROM players
		WHERE total_games > 0
		ORDER BY total_score DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, n)
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.ID, &r.Name, &r.TotalScore, &r.GamesWon, &r.TotalGames); err != nil {
			return nil, err
		}
		r.WinRate = winRate(r.GamesWon, r.TotalGames)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

// winRate rounds 100*won/played to the nearest integer.
func winRate(won, played int) int {
	if played == 0 {
		return 0
	}
	return (100*won + played/2) / played
}
