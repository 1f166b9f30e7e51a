// internal/game/hints.go
//
// Canned hint templates and flavour messages. The hint order is fixed:
// first letter, unique-letter count, last letter, middle letter. Requests
// past the last template are clamped to it.

package game

import "fmt"

// Hint returns the hint string for the given target word, selected by how
// many hints the player has already used (0-based).
func Hint(target string, hintsUsed int) string {
	hints := []string{
		fmt.Sprintf("The first letter is %q", string(target[0])),
		fmt.Sprintf("The word has %d unique letters", uniqueLetters(target)),
		fmt.Sprintf("The last letter is %q", string(target[len(target)-1])),
		fmt.Sprintf("The middle letter is %q", string(target[2])),
	}
	if hintsUsed >= len(hints) {
		hintsUsed = len(hints) - 1
	}
	return hints[hintsUsed]
}

func uniqueLetters(w string) int {
	var seen [26]bool
	n := 0
	for i := 0; i < len(w); i++ {
		j := w[i] - 'A'
		if j < 26 && !seen[j] {
			seen[j] = true
			n++
		}
	}
	return n
}

// WinMessage returns the celebration line for a win in guessCount tries.
func WinMessage(guessCount int) string {
	switch guessCount {
	case 1:
		return "LEGENDARY! First try! Chef Ochako is amazed!"
	case 2:
		return "BRILLIANT! You're a true ingredient master!"
	case 3:
		return "EXCELLENT! Chef Ochako approves!"
	case 4:
		return "GREAT JOB! The shopping list is complete!"
	case 5:
		return "GOOD WORK! You found it!"
	case 6:
		return "PHEW! Just in time!"
	default:
		return "Well done!"
	}
}

// ProgressMessage returns the encouragement line after a wrong guess.
func ProgressMessage(remaining int) string {
	switch remaining {
	case 1:
		return "Last chance! Think carefully..."
	case 2:
		return "Getting close! 2 tries left."
	default:
		return fmt.Sprintf("%d guesses remaining.", remaining)
	}
}
