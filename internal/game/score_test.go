package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestScoreConcreteValues(t *testing.T) {
	tests := []struct {
		name     string
		attempts int
		hints    int
		elapsed  time.Duration
		want     int
	}{
		{"fast first-try solve", 1, 0, 5 * time.Second, 1295},
		{"worst case floors at zero", 6, 4, 400 * time.Second, 0},
		{"speed bonus gone after 300s", 1, 0, 301 * time.Second, 1000},
		{"each extra guess costs 100", 3, 0, 400 * time.Second, 800},
		{"each hint costs 150", 1, 2, 400 * time.Second, 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Score(tt.attempts, tt.hints, tt.elapsed))
		})
	}
}

func TestScoreMonotonicity(t *testing.T) {
	for attempts := 1; attempts <= MaxGuesses; attempts++ {
		for hints := 0; hints <= MaxHints; hints++ {
			base := Score(attempts, hints, 30*time.Second)
			require.GreaterOrEqual(t, base, 0)

			if attempts < MaxGuesses {
				require.GreaterOrEqual(t, base, Score(attempts+1, hints, 30*time.Second))
			}
			if hints < MaxHints {
				require.GreaterOrEqual(t, base, Score(attempts, hints+1, 30*time.Second))
			}
			// Slower never scores higher.
			require.GreaterOrEqual(t, base, Score(attempts, hints, 60*time.Second))
		}
	}
}

func TestHintDeduction(t *testing.T) {
	require.Equal(t, 0, HintDeduction(0))
	require.Equal(t, 450, HintDeduction(3))
}
