package round

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ochakos-kitchen/go-server/internal/catalog"
	"github.com/ochakos-kitchen/go-server/internal/game"
	"github.com/ochakos-kitchen/go-server/internal/store"
)

// fakeStore is an in-memory PlayerStore for tests.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]store.PlayerRecord
	failAll bool
	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]store.PlayerRecord)}
}

func (f *fakeStore) Get(ctx context.Context, id string) (*store.PlayerRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("store down")
	}
	if rec, ok := f.records[id]; ok {
		cp := rec
		return &cp, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) Upsert(ctx context.Context, rec *store.PlayerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("store down")
	}
	f.upserts++
	f.records[rec.ID] = *rec
	return nil
}

func (f *fakeStore) TopN(ctx context.Context, n int) ([]store.LeaderboardRow, error) {
	return nil, nil
}

func (f *fakeStore) Close() error { return nil }

// newTestManager builds a manager with a pinned target word so guesses
// are deterministic.
func newTestManager(t *testing.T, fs *fakeStore, target string) *Manager {
	t.Helper()
	require.NoError(t, catalog.Load())
	m := NewManager(fs)
	m.round = Round{
		ID:              m.round.ID,
		Dish:            catalog.Dish{Name: "Test Dish", Ingredients: []string{target, "HERBS", "CREAM", "STOCK", "ONION"}},
		IngredientIndex: 0,
		Target:          target,
		StartTime:       time.Now(),
		Number:          m.round.Number,
	}
	return m
}

func TestSubmitGuessValidation(t *testing.T) {
	m := newTestManager(t, newFakeStore(), "LEMON")
	ctx := context.Background()

	tests := []struct {
		name  string
		guess string
		msg   string
	}{
		{"too short", "ABC", "Ingredient must be 5 letters!"},
		{"too long", "LEMONS", "Ingredient must be 5 letters!"},
		{"non-letters", "LEM0N", "Only letters allowed!"},
		{"unknown word", "QQQQQ", "Not a known ingredient word!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := m.SubmitGuess(ctx, "p1", "Alice", tt.guess)
			require.False(t, out.Success)
			require.Equal(t, tt.msg, out.Message)
		})
	}

	// Rejections never mutate session state.
	snap := m.GetState(ctx, "p1", "Alice")
	require.Empty(t, snap.Guesses)
}

func TestSubmitGuessNormalizesInput(t *testing.T) {
	m := newTestManager(t, newFakeStore(), "LEMON")

	out := m.SubmitGuess(context.Background(), "p1", "Alice", "  lemon ")
	require.True(t, out.Success)
	require.True(t, out.Correct)
}

func TestWinUpdatesScoreAndPersists(t *testing.T) {
	fs := newFakeStore()
	m := newTestManager(t, fs, "LEMON")
	ctx := context.Background()

	out := m.SubmitGuess(ctx, "p1", "Alice", "MELON")
	require.True(t, out.Success)
	require.False(t, out.Correct)
	require.Equal(t, 5, out.GuessesRemaining)

	out = m.SubmitGuess(ctx, "p1", "Alice", "LEMON")
	require.True(t, out.Success)
	require.True(t, out.Correct)
	require.Equal(t, 2, out.GuessCount)
	require.Greater(t, out.Score, 0)
	require.Equal(t, out.Score, out.TotalScore)

	rec := fs.records["p1"]
	require.Equal(t, "Alice", rec.Name)
	require.Equal(t, out.Score, rec.TotalScore)
	require.Equal(t, 1, rec.GamesWon)
	require.Equal(t, 1, rec.TotalGames)
	require.False(t, rec.LastPlayed.IsZero())

	// Terminal: further guesses are rejected.
	out = m.SubmitGuess(ctx, "p1", "Alice", "MELON")
	require.False(t, out.Success)
	require.Equal(t, "You already completed this round! Wait for the next one.", out.Message)
}

func TestSixWrongGuessesLoseAndRevealTarget(t *testing.T) {
	fs := newFakeStore()
	m := newTestManager(t, fs, "LEMON")
	ctx := context.Background()

	wrong := []string{"MELON", "CREAM", "STOCK", "HERBS", "ONION", "SPUDS"}
	var out GuessOutcome
	for i, w := range wrong {
		out = m.SubmitGuess(ctx, "p1", "Alice", w)
		require.True(t, out.Success, "guess %d", i+1)
	}
	require.True(t, out.GameOver)
	require.Equal(t, "LEMON", out.TargetWord)
	require.Equal(t, game.MaxGuesses, out.GuessCount)

	rec := fs.records["p1"]
	require.Equal(t, 0, rec.GamesWon)
	require.Equal(t, 1, rec.TotalGames)

	// A 7th attempt is rejected without appending.
	out = m.SubmitGuess(ctx, "p1", "Alice", "SAUCE")
	require.False(t, out.Success)
	snap := m.GetState(ctx, "p1", "Alice")
	require.Len(t, snap.Guesses, game.MaxGuesses)
}

func TestHintBudget(t *testing.T) {
	m := newTestManager(t, newFakeStore(), "LEMON")
	ctx := context.Background()

	// Unknown player is rejected at the protocol level.
	_, err := m.RequestHint(ctx, "ghost")
	require.ErrorIs(t, err, ErrPlayerNotFound)

	m.GetState(ctx, "p1", "Alice") // lazy session creation

	for i := 0; i < game.MaxHints; i++ {
		out, err := m.RequestHint(ctx, "p1")
		require.NoError(t, err)
		require.True(t, out.Success)
		require.NotEmpty(t, out.Hint)
		require.Equal(t, game.MaxHints-i-1, out.HintsRemaining)
		require.Equal(t, game.HintDeduction(i+1), out.ScoreDeduction)
	}

	out, err := m.RequestHint(ctx, "p1")
	require.NoError(t, err)
	require.False(t, out.Success)
	require.Equal(t, "No more hints available!", out.Message)

	snap := m.GetState(ctx, "p1", "Alice")
	require.Equal(t, game.MaxHints, snap.HintsUsed)
}

func TestHintRejectedOnceComplete(t *testing.T) {
	m := newTestManager(t, newFakeStore(), "LEMON")
	ctx := context.Background()

	out := m.SubmitGuess(ctx, "p1", "Alice", "LEMON")
	require.True(t, out.Correct)

	h, err := m.RequestHint(ctx, "p1")
	require.NoError(t, err)
	require.False(t, h.Success)
	require.Equal(t, "Round already complete!", h.Message)
}

func TestRotateResetsSessionsAndKeepsCumulative(t *testing.T) {
	fs := newFakeStore()
	m := newTestManager(t, fs, "LEMON")
	ctx := context.Background()

	win := m.SubmitGuess(ctx, "p1", "Alice", "LEMON")
	require.True(t, win.Correct)
	m.GetState(ctx, "p2", "Bob")
	_, err := m.RequestHint(ctx, "p2")
	require.NoError(t, err)

	before := m.round.Number
	res := m.Rotate(ctx)
	require.Equal(t, before+1, res.RoundNumber)
	require.NotEmpty(t, res.Dish)

	s1 := m.GetState(ctx, "p1", "Alice")
	require.Empty(t, s1.Guesses)
	require.False(t, s1.RoundComplete)
	require.Zero(t, s1.RoundScore)
	require.Zero(t, s1.HintsUsed)
	require.Equal(t, win.TotalScore, s1.TotalScore)
	require.Equal(t, 1, s1.GamesWon)
	require.Nil(t, s1.TargetWord)

	s2 := m.GetState(ctx, "p2", "Bob")
	require.Zero(t, s2.HintsUsed)

	hist := m.History()
	require.Len(t, hist, 1)
	require.Equal(t, before, hist[0].RoundNumber)
	require.Equal(t, "LEMON", hist[0].TargetWord)
	require.Equal(t, "Test Dish", hist[0].Dish)
	require.False(t, hist[0].EndTime.IsZero())
}

func TestRoundIDIsExposedAndChangesOnRotation(t *testing.T) {
	m := newTestManager(t, newFakeStore(), "LEMON")
	ctx := context.Background()

	before := m.GetState(ctx, "p1", "Alice")
	require.NotEmpty(t, before.RoundID)

	res := m.Rotate(ctx)
	require.NotEmpty(t, res.Dish)

	after := m.GetState(ctx, "p1", "Alice")
	require.NotEmpty(t, after.RoundID)
	require.NotEqual(t, before.RoundID, after.RoundID)

	hist := m.History()
	require.Len(t, hist, 1)
	require.Equal(t, before.RoundID, hist[0].RoundID, "archive keeps the rotated round's id")
}

func TestTargetRevealedOnlyWhenComplete(t *testing.T) {
	m := newTestManager(t, newFakeStore(), "LEMON")
	ctx := context.Background()

	snap := m.GetState(ctx, "p1", "Alice")
	require.Nil(t, snap.TargetWord)

	m.SubmitGuess(ctx, "p1", "Alice", "LEMON")
	snap = m.GetState(ctx, "p1", "Alice")
	require.NotNil(t, snap.TargetWord)
	require.Equal(t, "LEMON", *snap.TargetWord)
}

func TestRehydrationFromStore(t *testing.T) {
	fs := newFakeStore()
	fs.records["p1"] = store.PlayerRecord{
		ID: "p1", Name: "Alice", TotalScore: 2500, GamesWon: 3, TotalGames: 5,
	}
	m := newTestManager(t, fs, "LEMON")

	snap := m.GetState(context.Background(), "p1", "")
	require.Equal(t, 2500, snap.TotalScore)
	require.Equal(t, 3, snap.GamesWon)
	require.Empty(t, snap.Guesses, "in-round state starts fresh")
}

func TestStoreFailuresAreSwallowed(t *testing.T) {
	fs := newFakeStore()
	fs.failAll = true
	m := newTestManager(t, fs, "LEMON")
	ctx := context.Background()

	out := m.SubmitGuess(ctx, "p1", "Alice", "LEMON")
	require.True(t, out.Success)
	require.True(t, out.Correct)

	// In-memory session stays authoritative.
	snap := m.GetState(ctx, "p1", "Alice")
	require.Equal(t, out.Score, snap.TotalScore)
	require.Equal(t, 1, snap.GamesWon)
}

func TestRoundNumberStrictlyIncrements(t *testing.T) {
	m := newTestManager(t, newFakeStore(), "LEMON")
	ctx := context.Background()

	last := m.round.Number
	for i := 0; i < 5; i++ {
		res := m.Rotate(ctx)
		require.Equal(t, last+1, res.RoundNumber)
		last = res.RoundNumber
	}
}
