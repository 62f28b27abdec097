package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren of Clan Nel Toth")
	b := env.newDeck(t, "Bob", "Krenko, Mob Boss")

	tests := []struct {
		name  string
		input SubmitGameInput
		want  error
	}{
		{
			name:  "missing date",
			input: SubmitGameInput{DeckIDs: []string{a, b}, WinnerIDs: []string{a}},
			want:  ErrMissingDate,
		},
		{
			name:  "single participant",
			input: SubmitGameInput{Date: day(1), DeckIDs: []string{a}, WinnerIDs: []string{a}},
			want:  ErrTooFewParticipants,
		},
		{
			name:  "duplicate participant",
			input: SubmitGameInput{Date: day(1), DeckIDs: []string{a, a}, WinnerIDs: []string{a}},
			want:  ErrDuplicateParticipant,
		},
		{
			name:  "empty winners",
			input: SubmitGameInput{Date: day(1), DeckIDs: []string{a, b}},
			want:  ErrNoWinners,
		},
		{
			name:  "winner not a participant",
			input: SubmitGameInput{Date: day(1), DeckIDs: []string{a, b}, WinnerIDs: []string{"someone-else"}},
			want:  ErrWinnerNotParticipant,
		},
		{
			name:  "unknown deck",
			input: SubmitGameInput{Date: day(1), DeckIDs: []string{a, "missing"}, WinnerIDs: []string{a}},
			want:  ErrUnknownDeck,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.gameSvc.Submit(ctx, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// nothing was persisted by any rejected submission
	count, err := env.gameRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubmit_RatingFailureLeavesNoGame(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")

	// break the score store so the rating step fails after the game
	// has been persisted
	_, err := env.db.Exec("DROP TABLE elo_scores")
	require.NoError(t, err)

	_, err = env.gameSvc.Submit(ctx, SubmitGameInput{
		Date:      day(1),
		DeckIDs:   []string{a, b},
		WinnerIDs: []string{a},
	})
	require.Error(t, err)

	// the half-submitted game was backed out
	count, err := env.gameRepo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubmit_TwoPlayerScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren of Clan Nel Toth")
	b := env.newDeck(t, "Bob", "Krenko, Mob Boss")

	// game 1: A beats B, both at the starting rating
	_, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date:      day(1),
		DeckIDs:   []string{a, b},
		WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	ratingA, err := env.ratingSvc.CurrentRating(ctx, a)
	require.NoError(t, err)
	ratingB, err := env.ratingSvc.CurrentRating(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 1012, ratingA)
	assert.Equal(t, 988, ratingB)

	// game 2: B gets revenge
	_, err = env.gameSvc.Submit(ctx, SubmitGameInput{
		Date:      day(2),
		DeckIDs:   []string{a, b},
		WinnerIDs: []string{b},
	})
	require.NoError(t, err)

	ratingA, err = env.ratingSvc.CurrentRating(ctx, a)
	require.NoError(t, err)
	ratingB, err = env.ratingSvc.CurrentRating(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 999, ratingA)
	assert.Equal(t, 1001, ratingB)
}

func TestSubmit_FourPlayerTwoWinners(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	decks := []string{
		env.newDeck(t, "Alice", "Meren"),
		env.newDeck(t, "Bob", "Krenko"),
		env.newDeck(t, "Charlie", "Muldrotha"),
		env.newDeck(t, "Dave", "The Ur-Dragon"),
	}

	_, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date:      day(1),
		DeckIDs:   decks,
		WinnerIDs: decks[:2],
	})
	require.NoError(t, err)

	for i, deckID := range decks {
		got, err := env.ratingSvc.CurrentRating(ctx, deckID)
		require.NoError(t, err)
		if i < 2 {
			assert.Equal(t, 1012, got, "winner %d", i)
		} else {
			assert.Equal(t, 988, got, "loser %d", i)
		}
	}
}

func TestSubmit_OneScoreRecordPerParticipant(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")

	game, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date:      day(1),
		DeckIDs:   []string{a, b},
		WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	scores, err := env.scoreRepo.ListByGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Len(t, scores, 2)

	// re-rating the same game replaces rather than duplicates
	require.NoError(t, env.ratingSvc.RateGame(ctx, game.ID))
	scores, err = env.scoreRepo.ListByGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

func TestDeleteAfter_CascadesAndReplays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")

	g1, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(1), DeckIDs: []string{a, b}, WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	_, err = env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(2), DeckIDs: []string{a, b}, WinnerIDs: []string{b},
	})
	require.NoError(t, err)
	_, err = env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(3), DeckIDs: []string{a, b}, WinnerIDs: []string{b},
	})
	require.NoError(t, err)

	deleted, err := env.gameSvc.DeleteAfter(ctx, g1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	count, err := env.gameRepo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// only game 1's records remain, and their values are untouched
	historyA, err := env.ratingSvc.RatingHistory(ctx, a)
	require.NoError(t, err)
	require.Len(t, historyA, 1)
	assert.Equal(t, g1.ID, historyA[0].GameID)
	assert.Equal(t, 1012, historyA[0].Score)

	// replay over the remaining history reproduces the same values
	require.NoError(t, env.ratingSvc.ReplayAll(ctx))
	historyA, err = env.ratingSvc.RatingHistory(ctx, a)
	require.NoError(t, err)
	require.Len(t, historyA, 1)
	assert.Equal(t, 1012, historyA[0].Score)

	ratingB, err := env.ratingSvc.CurrentRating(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 988, ratingB)
}

func TestUpdateDescription(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")

	game, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(1), DeckIDs: []string{a, b}, WinnerIDs: []string{a},
		Description: "close one",
	})
	require.NoError(t, err)

	require.NoError(t, env.gameSvc.UpdateDescription(ctx, game.ID, "actually a blowout"))

	got, err := env.gameSvc.Get(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "actually a blowout", got.Game.Description)

	// ratings are untouched by metadata edits
	ratingA, err := env.ratingSvc.CurrentRating(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, 1012, ratingA)
}

func TestSubmit_BackdatedGameUsesCanonicalOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")
	c := env.newDeck(t, "Charlie", "Muldrotha")

	// day 2 game arrives first
	_, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(2), DeckIDs: []string{a, b}, WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	// a backdated day 1 game between b and c: b's prior rating for this
	// game is the starting rating, not the day 2 result
	g, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date: day(1), DeckIDs: []string{b, c}, WinnerIDs: []string{b},
	})
	require.NoError(t, err)

	scores, err := env.scoreRepo.ListByGame(ctx, g.ID)
	require.NoError(t, err)
	for _, s := range scores {
		if s.DeckID == b {
			assert.Equal(t, 1012, s.Score)
		} else {
			assert.Equal(t, 988, s.Score)
		}
	}

	// a full replay folds the backdated game into later history
	require.NoError(t, env.ratingSvc.ReplayAll(ctx))

	history, err := env.ratingSvc.RatingHistory(ctx, b)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1012, history[0].Score) // day 1 win from 1000
	assert.True(t, history[0].Date.Before(history[1].Date))

	// day 2 loss now starts from 1012, not 1000
	assert.NotEqual(t, 988, history[1].Score)
}

func TestValidate_DateNormalization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.newDeck(t, "Alice", "Meren")
	b := env.newDeck(t, "Bob", "Krenko")

	offset := time.FixedZone("UTC+10", 10*3600)
	game, err := env.gameSvc.Submit(ctx, SubmitGameInput{
		Date:      time.Date(2024, time.March, 1, 8, 0, 0, 0, offset),
		DeckIDs:   []string{a, b},
		WinnerIDs: []string{a},
	})
	require.NoError(t, err)

	assert.Equal(t, time.UTC, game.Date.Location())
}
