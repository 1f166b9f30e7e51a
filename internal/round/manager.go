// internal/round/manager.go
//
// Round and session lifecycle for the kitchen game.
// Responsibilities:
//   - Own the single active round (target ingredient drawn from a random
//     dish) and rotate it on demand.
//   - Track per-player sessions: guesses, hints, completion, round score.
//   - Rehydrate cumulative stats from the player store when a player is
//     first seen, and persist them best-effort after every finished game.
//
// All state lives behind one mutex: a rotation is atomic relative to
// guess submissions, and two guesses for the same player can never both
// append past the attempt limit.

package round

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ochakos-kitchen/go-server/internal/catalog"
	"github.com/ochakos-kitchen/go-server/internal/game"
	"github.com/ochakos-kitchen/go-server/internal/store"
)

// ErrPlayerNotFound is returned by RequestHint for an unknown player id.
var ErrPlayerNotFound = errors.New("player not found")

// Manager owns the active round, the session table, and the history log.
// Construct once at startup and share by reference.
type Manager struct {
	mu       sync.Mutex
	store    store.PlayerStore
	round    Round
	sessions map[string]*Session
	history  []ArchivedRound
	now      func() time.Time // injectable clock for tests
}

// NewManager builds a Manager and starts the first round.
func NewManager(ps store.PlayerStore) *Manager {
	m := &Manager{
		store:    ps,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	m.round = m.newRound(1)
	log.Info().
		Str("roundId", m.round.ID).
		Int("round", m.round.Number).
		Str("dish", m.round.Dish.Name).
		Msg("first round started")
	return m
}

// newRound selects a fresh dish and target. Caller holds the lock (or is
// the constructor).
func (m *Manager) newRound(number int) Round {
	dish := catalog.RandomDish()
	idx, target := dish.RandomIngredient()
	return Round{
		ID:              uuid.NewString(),
		Dish:            dish,
		IngredientIndex: idx,
		Target:          target,
		StartTime:       m.now(),
		Number:          number,
	}
}

// getOrCreate returns the session for id, creating and rehydrating it on
// first sight in this process lifetime. Caller holds the lock.
func (m *Manager) getOrCreate(ctx context.Context, id, name string) *Session {
	if s, ok := m.sessions[id]; ok {
		if name != "" {
			s.Name = name
		}
		return s
	}
	s := &Session{Name: name}
	if s.Name == "" {
		s.Name = "Guest"
	}
	if rec, err := m.store.Get(ctx, id); err == nil {
		s.TotalScore = rec.TotalScore
		s.GamesWon = rec.GamesWon
		s.TotalGames = rec.TotalGames
		if name == "" && rec.Name != "" {
			s.Name = rec.Name
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		// Degraded mode: play on with a fresh record.
		log.Warn().Err(err).Str("player", id).Msg("rehydrate failed")
	}
	m.sessions[id] = s
	return s
}

// persist writes the cumulative fields for one session. Failures are
// logged and swallowed: the in-memory session stays authoritative.
func (m *Manager) persist(ctx context.Context, id string, s *Session) {
	rec := &store.PlayerRecord{
		ID:         id,
		Name:       s.Name,
		TotalScore: s.TotalScore,
		GamesWon:   s.GamesWon,
		TotalGames: s.TotalGames,
		LastPlayed: m.now(),
	}
	if err := m.store.Upsert(ctx, rec); err != nil {
		log.Warn().Err(err).Str("player", id).Msg("persist player record failed")
	}
}

// SubmitGuess normalizes, validates, and evaluates one guess for the
// player, handling win/loss bookkeeping and persistence.
func (m *Manager) SubmitGuess(ctx context.Context, playerID, displayName, rawGuess string) GuessOutcome {
	guess := strings.ToUpper(strings.TrimSpace(rawGuess))

	// Validation failures never touch session state.
	if len(guess) != game.WordLength {
		return GuessOutcome{Success: false, Message: "Ingredient must be 5 letters!"}
	}
	if !isUpperAlpha(guess) {
		return GuessOutcome{Success: false, Message: "Only letters allowed!"}
	}
	if !catalog.IsValidWord(guess) {
		return GuessOutcome{Success: false, Message: "Not a known ingredient word!"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.getOrCreate(ctx, playerID, displayName)

	if s.RoundComplete {
		return GuessOutcome{Success: false, Message: "You already completed this round! Wait for the next one."}
	}

	// Unreachable via the terminal-state check above, but kept so the API
	// stays total if the invariant is ever violated.
	if len(s.Guesses) >= game.MaxGuesses {
		s.RoundComplete = true
		s.TotalGames++
		m.persist(ctx, playerID, s)
		return GuessOutcome{
			Success:    false,
			Message:    "No more guesses! The ingredient was: " + m.round.Target,
			GameOver:   true,
			TargetWord: m.round.Target,
		}
	}

	result := game.Evaluate(guess, m.round.Target)
	s.Guesses = append(s.Guesses, GuessEntry{Word: guess, Result: result, Timestamp: m.now()})

	if guess == m.round.Target {
		elapsed := m.now().Sub(m.round.StartTime)
		score := game.Score(len(s.Guesses), s.HintsUsed, elapsed)
		s.RoundScore = score
		s.TotalScore += score
		s.GamesWon++
		s.TotalGames++
		s.RoundComplete = true
		m.persist(ctx, playerID, s)
		log.Info().
			Str("player", playerID).
			Str("roundId", m.round.ID).
			Int("round", m.round.Number).
			Int("guesses", len(s.Guesses)).
			Int("score", score).
			Msg("round won")
		return GuessOutcome{
			Success:    true,
			Correct:    true,
			Result:     result,
			Message:    game.WinMessage(len(s.Guesses)),
			Score:      score,
			TotalScore: s.TotalScore,
			GuessCount: len(s.Guesses),
		}
	}

	if len(s.Guesses) >= game.MaxGuesses {
		s.RoundComplete = true
		s.TotalGames++
		m.persist(ctx, playerID, s)
		log.Info().
			Str("player", playerID).
			Str("roundId", m.round.ID).
			Int("round", m.round.Number).
			Msg("round lost")
		return GuessOutcome{
			Success:    true,
			Correct:    false,
			Result:     result,
			Message:    fmt.Sprintf("Oh no! The ingredient was: %s", m.round.Target),
			GameOver:   true,
			TargetWord: m.round.Target,
			GuessCount: len(s.Guesses),
		}
	}

	remaining := game.MaxGuesses - len(s.Guesses)
	return GuessOutcome{
		Success:          true,
		Correct:          false,
		Result:           result,
		Message:          game.ProgressMessage(remaining),
		GuessesRemaining: remaining,
	}
}

// RequestHint issues the next canned hint for the player and spends one
// unit of the hint budget. The score deduction is applied at solve time,
// not here.
func (m *Manager) RequestHint(ctx context.Context, playerID string) (HintOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[playerID]
	if !ok {
		return HintOutcome{}, ErrPlayerNotFound
	}
	if s.RoundComplete {
		return HintOutcome{Success: false, Message: "Round already complete!"}, nil
	}
	if s.HintsUsed >= game.MaxHints {
		return HintOutcome{Success: false, Message: "No more hints available!"}, nil
	}

	hint := game.Hint(m.round.Target, s.HintsUsed)
	s.HintsUsed++
	return HintOutcome{
		Success:        true,
		Hint:           hint,
		HintsRemaining: game.MaxHints - s.HintsUsed,
		ScoreDeduction: game.HintDeduction(s.HintsUsed),
	}, nil
}

// GetState returns the active round's public fields plus the player's
// session. Read-only except for documented lazy session creation.
func (m *Manager) GetState(ctx context.Context, playerID, displayName string) StateSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s *Session
	if playerID != "" {
		s = m.getOrCreate(ctx, playerID, displayName)
	} else {
		s = &Session{Name: "Guest"}
	}

	snap := StateSnapshot{
		RoundID: m.round.ID,
		Dish:    m.round.Dish.Name,
		IngredientHint: fmt.Sprintf("Ingredient %d of %d",
			m.round.IngredientIndex+1, len(m.round.Dish.Ingredients)),
		RoundNumber:   m.round.Number,
		Guesses:       append([]GuessEntry{}, s.Guesses...),
		HintsUsed:     s.HintsUsed,
		RoundComplete: s.RoundComplete,
		RoundScore:    s.RoundScore,
		TotalScore:    s.TotalScore,
		GamesWon:      s.GamesWon,
		MaxGuesses:    game.MaxGuesses,
		WordLength:    game.WordLength,
	}
	if s.RoundComplete {
		target := m.round.Target
		snap.TargetWord = &target
	}
	return snap
}

// Rotate archives the current round, starts a new one, and resets every
// session's in-round fields. Cumulative fields are untouched.
func (m *Manager) Rotate(ctx context.Context) RotationResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, ArchivedRound{
		RoundID:     m.round.ID,
		RoundNumber: m.round.Number,
		Dish:        m.round.Dish.Name,
		TargetWord:  m.round.Target,
		EndTime:     m.now(),
	})

	m.round = m.newRound(m.round.Number + 1)
	for _, s := range m.sessions {
		s.Guesses = nil
		s.HintsUsed = 0
		s.RoundComplete = false
		s.RoundScore = 0
	}

	log.Info().
		Str("roundId", m.round.ID).
		Int("round", m.round.Number).
		Str("dish", m.round.Dish.Name).
		Msg("new round started")
	return RotationResult{Dish: m.round.Dish.Name, RoundNumber: m.round.Number}
}

// History returns a copy of the rotation archive, oldest first.
func (m *Manager) History() []ArchivedRound {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ArchivedRound{}, m.history...)
}

// Leaderboard returns the durable top-n standings. Sourced from the
// player store rather than live sessions so it survives restarts.
func (m *Manager) Leaderboard(ctx context.Context, n int) ([]store.LeaderboardRow, error) {
	return m.store.TopN(ctx, n)
}

// isUpperAlpha reports whether s is all uppercase ASCII letters.
func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
