// internal/game/score.go
//
// Round scoring: flat base reward, linear penalties per extra guess and
// per hint, and a capped speed bonus that decays to zero after 300s.

package game

import "time"

const (
	baseScore      = 1000
	guessPenalty   = 100 // per guess beyond the first
	hintPenalty    = 150 // per hint used
	speedBonusCap  = 300
	speedBonusUnit = time.Second
)

// Score maps (attempt count, hints used, elapsed time) to a round score.
// Never negative.
func Score(attempts, hintsUsed int, elapsed time.Duration) int {
	bonus := speedBonusCap - int(elapsed/speedBonusUnit)
	if bonus < 0 {
		bonus = 0
	}
	s := baseScore - guessPenalty*(attempts-1) - hintPenalty*hintsUsed + bonus
	if s < 0 {
		return 0
	}
	return s
}

// HintDeduction reports the total points a player has forfeited to hints.
func HintDeduction(hintsUsed int) int {
	return hintPenalty * hintsUsed
}
