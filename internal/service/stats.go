package service

import (
	"context"

	"edh-elo/internal/repository"

	"github.com/rs/zerolog"
)

type Stats struct {
	Players     int64
	Decks       int64
	Games       int64
	Leaderboard []repository.LeaderboardEntry
}

type StatsService struct {
	playerRepo *repository.PlayerRepository
	deckRepo   *repository.DeckRepository
	gameRepo   *repository.GameRepository
	scoreRepo  *repository.EloScoreRepository
	ratingSvc  *RatingService
	logger     zerolog.Logger
}

func NewStatsService(playerRepo *repository.PlayerRepository, deckRepo *repository.DeckRepository, gameRepo *repository.GameRepository, scoreRepo *repository.EloScoreRepository, ratingSvc *RatingService, logger zerolog.Logger) *StatsService {
	return &StatsService{
		playerRepo: playerRepo,
		deckRepo:   deckRepo,
		gameRepo:   gameRepo,
		scoreRepo:  scoreRepo,
		ratingSvc:  ratingSvc,
		logger:     logger,
	}
}

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	players, err := s.playerRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	decks, err := s.deckRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	games, err := s.gameRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	leaderboard, err := s.scoreRepo.Leaderboard(ctx, s.ratingSvc.engine.StartingElo())
	if err != nil {
		return nil, err
	}

	return &Stats{
		Players:     players,
		Decks:       decks,
		Games:       games,
		Leaderboard: leaderboard,
	}, nil
}

// WipeAll permanently deletes every record: scores first, then games
// (participant rows cascade), then decks and players.
func (s *StatsService) WipeAll(ctx context.Context) error {
	s.logger.Warn().Msg("wiping all data")

	if err := s.scoreRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.gameRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.deckRepo.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.playerRepo.DeleteAll(ctx); err != nil {
		return err
	}

	s.logger.Warn().Msg("all data wiped")
	return nil
}
