// internal/round/types.go
//
// Types for the shared round and per-player sessions.

package round

import (
	"time"

	"github.com/ochakos-kitchen/go-server/internal/catalog"
	"github.com/ochakos-kitchen/go-server/internal/game"
)

// Round is the single active round shared by all players. Created on
// rotation, never mutated mid-round.
type Round struct {
	ID              string
	Dish            catalog.Dish
	IngredientIndex int // index of the target inside Dish.Ingredients
	Target          string
	StartTime       time.Time
	Number          int // monotonically increasing
}

// GuessEntry is one recorded guess inside a session.
type GuessEntry struct {
	Word      string              `json:"word"`
	Result    []game.LetterResult `json:"result"`
	Timestamp time.Time           `json:"timestamp"`
}

// Session is one player's state: in-round progress plus the cumulative
// counters rehydrated from the player store. In-round fields reset on
// every rotation; cumulative fields survive rotations and restarts.
type Session struct {
	Name          string
	Guesses       []GuessEntry
	HintsUsed     int
	RoundComplete bool
	RoundScore    int

	TotalScore int
	GamesWon   int
	TotalGames int
}

// ArchivedRound is one entry in the rotation history log.
type ArchivedRound struct {
	RoundID     string    `json:"roundId"`
	RoundNumber int       `json:"roundNumber"`
	Dish        string    `json:"dish"`
	TargetWord  string    `json:"targetWord"`
	EndTime     time.Time `json:"endTime"`
}

// GuessOutcome is the result of a guess submission. Success=false means
// the guess was rejected (validation or state conflict) without mutating
// the session.
type GuessOutcome struct {
	Success          bool                `json:"success"`
	Correct          bool                `json:"correct,omitempty"`
	Message          string              `json:"message"`
	Result           []game.LetterResult `json:"result,omitempty"`
	GameOver         bool                `json:"gameOver,omitempty"`
	TargetWord       string              `json:"targetWord,omitempty"`
	Score            int                 `json:"score,omitempty"`
	TotalScore       int                 `json:"totalScore,omitempty"`
	GuessCount       int                 `json:"guessCount,omitempty"`
	GuessesRemaining int                 `json:"guessesRemaining,omitempty"`
}

// HintOutcome is the result of a hint request.
type HintOutcome struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	Hint           string `json:"hint,omitempty"`
	HintsRemaining int    `json:"hintsRemaining"`
	ScoreDeduction int    `json:"scoreDeduction"`
}

// StateSnapshot is the read-only view served by the state endpoint. The
// target word is revealed only once the player's round is complete.
type StateSnapshot struct {
	RoundID        string       `json:"roundId"`
	Dish           string       `json:"dish"`
	IngredientHint string       `json:"ingredientHint"`
	RoundNumber    int          `json:"roundNumber"`
	Guesses        []GuessEntry `json:"guesses"`
	HintsUsed      int          `json:"hintsUsed"`
	RoundComplete  bool         `json:"roundComplete"`
	RoundScore     int          `json:"roundScore"`
	TotalScore     int          `json:"totalScore"`
	GamesWon       int          `json:"gamesWon"`
	MaxGuesses     int          `json:"maxGuesses"`
	WordLength     int          `json:"wordLength"`
	TargetWord     *string      `json:"targetWord"`
}

// RotationResult reports a completed rotation.
type RotationResult struct {
	Dish        string
	RoundNumber int
}
