package service

import (
	"context"
	"fmt"
	"time"

	"edh-elo/internal/domain"
	"edh-elo/internal/rating"
	"edh-elo/internal/repository"

	"github.com/rs/zerolog"
)

// RatingService applies the rating engine to stored games. It owns the
// two code paths the tracker depends on agreeing exactly: the
// incremental single-game update and the full replay.
type RatingService struct {
	engine    *rating.Engine
	gameRepo  *repository.GameRepository
	scoreRepo *repository.EloScoreRepository
	logger    zerolog.Logger
}

func NewRatingService(engine *rating.Engine, gameRepo *repository.GameRepository, scoreRepo *repository.EloScoreRepository, logger zerolog.Logger) *RatingService {
	return &RatingService{engine: engine, gameRepo: gameRepo, scoreRepo: scoreRepo, logger: logger}
}

// RateGame computes and persists post-game ratings for every
// participant of one stored game. Each participant's pre-game rating is
// its latest score record strictly earlier than the game in canonical
// order, or the starting rating when none exists. All of the game's
// score records are written in one atomic batch; stale records for the
// game are cleared first.
func (s *RatingService) RateGame(ctx context.Context, gameID int64) error {
	game, err := s.gameRepo.Get(ctx, gameID)
	if err != nil {
		return fmt.Errorf("failed to load game %d: %w", gameID, err)
	}

	participants := make([]rating.Participant, 0, len(game.Decks))
	for _, gd := range game.Decks {
		prior, err := s.scoreRepo.LatestBefore(ctx, gd.DeckID, &game.Game)
		if err != nil {
			// A failed lookup is fatal: substituting a guess here would
			// silently desynchronize every later rating.
			return fmt.Errorf("failed to resolve prior rating for deck %s before game %d: %w", gd.DeckID, gameID, err)
		}

		current := s.engine.StartingElo()
		if prior != nil {
			current = prior.Score
		}

		participants = append(participants, rating.Participant{
			DeckID: gd.DeckID,
			Rating: current,
			Winner: gd.IsWinner,
		})
	}

	updates, err := s.engine.Rate(participants)
	if err != nil {
		return fmt.Errorf("failed to rate game %d: %w", gameID, err)
	}

	now := time.Now()
	records := make([]domain.EloScore, len(updates))
	for i, u := range updates {
		records[i] = domain.EloScore{
			GameID:    gameID,
			DeckID:    u.DeckID,
			Score:     u.NewRating,
			Date:      game.Game.Date,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.logger.Debug().
			Int64("game_id", gameID).
			Str("deck_id", u.DeckID).
			Int("old", u.OldRating).
			Int("new", u.NewRating).
			Msg("rating updated")
	}

	if err := s.scoreRepo.ReplaceForGame(ctx, gameID, records); err != nil {
		return fmt.Errorf("failed to persist scores for game %d: %w", gameID, err)
	}

	return nil
}

// ReplayAll deletes every score record and recomputes the full rating
// history by applying RateGame to each game in canonical chronological
// order, strictly sequentially: a game's scores must be durably visible
// before the next game reads prior ratings.
//
// This is a maintenance operation. It must not run concurrently with
// game ingestion; a failure partway leaves the history partially
// rebuilt and requires another replay before ratings can be trusted.
func (s *RatingService) ReplayAll(ctx context.Context) error {
	s.logger.Info().Msg("starting full rating replay")

	if err := s.scoreRepo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear score records: %w", err)
	}

	games, err := s.gameRepo.ListChronological(ctx)
	if err != nil {
		return fmt.Errorf("failed to list games: %w", err)
	}

	for i, game := range games {
		if err := s.RateGame(ctx, game.ID); err != nil {
			return fmt.Errorf("replay incomplete after %d of %d games, rerun required: %w", i, len(games), err)
		}
	}

	s.logger.Info().Int("games", len(games)).Msg("rating replay completed")
	return nil
}

// CurrentRating returns a deck's rating after its most recent game, or
// the starting rating if it has none.
func (s *RatingService) CurrentRating(ctx context.Context, deckID string) (int, error) {
	latest, err := s.scoreRepo.Latest(ctx, deckID)
	if err != nil {
		return 0, err
	}
	if latest == nil {
		return s.engine.StartingElo(), nil
	}
	return latest.Score, nil
}

// RatingHistory returns a deck's score records in canonical order.
func (s *RatingService) RatingHistory(ctx context.Context, deckID string) ([]domain.EloScore, error) {
	return s.scoreRepo.HistoryFor(ctx, deckID)
}
