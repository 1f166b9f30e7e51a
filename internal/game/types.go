// internal/game/types.go
//
// Core type definitions for guess evaluation.
// Defines:
//   - LetterStatus: per-letter result of a guess (correct/present/absent).
//   - LetterResult: one evaluated letter of a guess.

package game

// LetterStatus classifies one guess letter against the target word.
// Possible values:
//   - "correct": letter is in the target at this position.
//   - "present": letter is in the target at a different position.
//   - "absent":  letter is not in the target (or all copies are used).
type LetterStatus string

const (
	StatusCorrect LetterStatus = "correct"
	StatusPresent LetterStatus = "present"
	StatusAbsent  LetterStatus = "absent"
)

// LetterResult pairs a guessed letter with its evaluation.
type LetterResult struct {
	Letter string       `json:"letter"`
	Status LetterStatus `json:"status"`
}

const (
	// MaxGuesses is the attempt budget per round.
	MaxGuesses = 6
	// MaxHints is the hint budget per round.
	MaxHints = 4
	// WordLength is the fixed guess/target length.
	WordLength = 5
)
