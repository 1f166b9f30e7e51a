// internal/game/evaluate.go
//
// Guess evaluation for the kitchen game.
// Implements the standard two-pass algorithm so repeated letters resolve
// correctly in both guess and target.

package game

// Evaluate compares a normalized guess to the target word and returns one
// LetterResult per position. Both inputs must be WordLength uppercase
// ASCII words; validation happens before this point.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) target letters.
//
// Pass 2:
//   - For each unmarked guess letter: if there is remaining count for that
//     letter, mark present and decrement it; otherwise mark absent.
//
// A letter appearing twice in the guess but once in the target yields at
// most one correct/present mark. Deterministic, side-effect-free.
func Evaluate(guess, target string) []LetterResult {
	res := make([]LetterResult, WordLength)

	// Letter frequency for the non-correct target positions (A–Z).
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		res[i].Letter = string(guess[i])
		if guess[i] == target[i] {
			res[i].Status = StatusCorrect
		} else {
			counts[target[i]-'A']++
		}
	}

	for i := 0; i < WordLength; i++ {
		if res[i].Status == StatusCorrect {
			continue
		}
		j := int(guess[i] - 'A')
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i].Status = StatusPresent
			counts[j]--
		} else {
			res[i].Status = StatusAbsent
		}
	}
	return res
}

// AllCorrect reports whether every result is a correct mark.
func AllCorrect(res []LetterResult) bool {
	for _, r := range res {
		if r.Status != StatusCorrect {
			return false
		}
	}
	return true
}
