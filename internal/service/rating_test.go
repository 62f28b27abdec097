package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory records a handful of games through the incremental path,
// including same-date games and a multi-winner pod.
func seedHistory(t *testing.T, env *testEnv) []string {
	t.Helper()

	decks := []string{
		env.newDeck(t, "Alice", "Meren of Clan Nel Toth"),
		env.newDeck(t, "Bob", "Krenko, Mob Boss"),
		env.newDeck(t, "Charlie", "Muldrotha, the Gravetide"),
		env.newDeck(t, "Dave", "The Ur-Dragon"),
	}

	games := []SubmitGameInput{
		{Date: day(1), DeckIDs: decks, WinnerIDs: decks[:1]},
		{Date: day(2), DeckIDs: decks[:2], WinnerIDs: decks[1:2]},
		// two games on the same date; ingestion order is the tie-break
		{Date: day(3), DeckIDs: decks[1:], WinnerIDs: decks[2:3]},
		{Date: day(3), DeckIDs: decks[:3], WinnerIDs: decks[:2]},
		{Date: day(5), DeckIDs: decks, WinnerIDs: decks[3:]},
	}

	for _, g := range games {
		_, err := env.gameSvc.Submit(context.Background(), g)
		require.NoError(t, err)
	}

	return decks
}

func collectHistories(t *testing.T, env *testEnv, decks []string) map[string][][2]int64 {
	t.Helper()
	histories := make(map[string][][2]int64, len(decks))
	for _, deckID := range decks {
		history, err := env.ratingSvc.RatingHistory(context.Background(), deckID)
		require.NoError(t, err)
		histories[deckID] = scoreValues(history)
	}
	return histories
}

func TestReplay_MatchesIncremental(t *testing.T) {
	env := newTestEnv(t)
	decks := seedHistory(t, env)

	incremental := collectHistories(t, env, decks)

	require.NoError(t, env.ratingSvc.ReplayAll(context.Background()))
	replayed := collectHistories(t, env, decks)

	assert.Equal(t, incremental, replayed)
}

func TestReplay_IsDeterministic(t *testing.T) {
	env := newTestEnv(t)
	decks := seedHistory(t, env)
	ctx := context.Background()

	require.NoError(t, env.ratingSvc.ReplayAll(ctx))
	first := collectHistories(t, env, decks)

	require.NoError(t, env.ratingSvc.ReplayAll(ctx))
	second := collectHistories(t, env, decks)

	assert.Equal(t, first, second)
}

func TestReplay_EveryParticipantHasOneRecordPerGame(t *testing.T) {
	env := newTestEnv(t)
	seedHistory(t, env)
	ctx := context.Background()

	require.NoError(t, env.ratingSvc.ReplayAll(ctx))

	games, err := env.gameRepo.ListChronological(ctx)
	require.NoError(t, err)
	for _, game := range games {
		withDecks, err := env.gameRepo.Get(ctx, game.ID)
		require.NoError(t, err)
		scores, err := env.scoreRepo.ListByGame(ctx, game.ID)
		require.NoError(t, err)
		assert.Len(t, scores, len(withDecks.Decks), "game %d", game.ID)
	}
}

func TestReplay_SameDateGamesKeepIngestionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")

	// both games on the same date; the first-ingested one must be
	// rated first, so the second starts from its output
	_, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(1), DeckIDs: []string{a, b}, WinnerIDs: []string{a},
	})
	require.NoError(t, err)
	_, err = env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(1), DeckIDs: []string{a, b}, WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	history, err := env.ratingSvc.RatingHistory(ctx, a)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1012, history[0].Score)
	// second win against a now-weaker opponent gains slightly less
	assert.Equal(t, 1023, history[1].Score)

	// replay preserves the ordering exactly
	incremental := collectHistories(t, env, []string{a, b})
	require.NoError(t, env.ratingSvc.ReplayAll(ctx))
	assert.Equal(t, incremental, collectHistories(t, env, []string{a, b}))
}

func TestCurrentRating_StartingRatingForUnplayedDeck(t *testing.T) {
	env := newTestEnv(t)

	deckID := env.newDeck(t, "Alice", "Meren")

	got, err := env.ratingSvc.CurrentRating(context.Background(), deckID)
	require.NoError(t, err)
	assert.Equal(t, 1000, got)
}

func TestStats_LeaderboardUsesLatestScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")
	env.newDeck(t, "Charlie", "Muldrotha") // never plays

	_, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(1), DeckIDs: []string{a, b}, WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	stats, err := env.statsSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Players)
	assert.Equal(t, int64(3), stats.Decks)
	assert.Equal(t, int64(1), stats.Games)

	require.Len(t, stats.Leaderboard, 3)
	assert.Equal(t, 1012, stats.Leaderboard[0].Score)
	assert.Equal(t, 1000, stats.Leaderboard[1].Score) // unplayed deck at the start value
	assert.Equal(t, 988, stats.Leaderboard[2].Score)
}

func TestWipeAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")
	_, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(1), DeckIDs: []string{a, b}, WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	require.NoError(t, env.statsSvc.WipeAll(ctx))

	stats, err := env.statsSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Players)
	assert.Zero(t, stats.Decks)
	assert.Zero(t, stats.Games)
	assert.Empty(t, stats.Leaderboard)
}
