// internal/store/store.go
//
// Durable player records. The rest of the server talks to the PlayerStore
// interface; the SQLite implementation lives in sqlite.go. Records hold
// only cumulative, cross-round statistics — in-round session state is
// owned by the round manager and never persisted.

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no record exists for the player.
var ErrNotFound = errors.New("player not found")

// PlayerRecord is the durable subset of a player's state. Source of truth
// across process restarts.
type PlayerRecord struct {
	ID         string
	Name       string
	TotalScore int
	GamesWon   int
	TotalGames int
	LastPlayed time.Time
}

// LeaderboardRow is one ranked entry derived from player records.
type LeaderboardRow struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalScore int    `json:"totalScore"`
	GamesWon   int    `json:"gamesWon"`
	TotalGames int    `json:"totalGames"`
	WinRate    int    `json:"winRate"` // round(100*won/played)
}

// PlayerStore is the persistence contract for cumulative player stats.
// Implementations may be backed by SQLite (this package) or memory (tests).
type PlayerStore interface {
	// Get loads one record, or ErrNotFound.
	Get(ctx context.Context, id string) (*PlayerRecord, error)

	// Upsert writes the full record for its ID.
	Upsert(ctx context.Context, rec *PlayerRecord) error

	// TopN returns up to n rows with TotalGames > 0, ordered by
	// TotalScore descending.
	TopN(ctx context.Context, n int) ([]LeaderboardRow, error)

	// Close releases the underlying storage.
	Close() error
}
