package service

import (
	"context"
	"errors"
	"strings"

	"edh-elo/internal/domain"
	"edh-elo/internal/repository"

	"github.com/rs/zerolog"
)

var ErrEmptyName = errors.New("name must not be empty")

type PlayerService struct {
	playerRepo *repository.PlayerRepository
	deckRepo   *repository.DeckRepository
	logger     zerolog.Logger
}

func NewPlayerService(playerRepo *repository.PlayerRepository, deckRepo *repository.DeckRepository, logger zerolog.Logger) *PlayerService {
	return &PlayerService{playerRepo: playerRepo, deckRepo: deckRepo, logger: logger}
}

// PlayerWithDecks is a player plus the decks they own.
type PlayerWithDecks struct {
	Player domain.Player
	Decks  []domain.Deck
}

func (s *PlayerService) Create(ctx context.Context, name string) (*domain.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	player, err := s.playerRepo.GetOrCreate(ctx, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("player_id", player.ID).Str("name", player.Name).Msg("player registered")
	return player, nil
}

func (s *PlayerService) Get(ctx context.Context, id string) (*PlayerWithDecks, error) {
	player, err := s.playerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	decks, err := s.deckRepo.ListByOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PlayerWithDecks{Player: *player, Decks: decks}, nil
}

func (s *PlayerService) List(ctx context.Context) ([]PlayerWithDecks, error) {
	players, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]PlayerWithDecks, len(players))
	for i, p := range players {
		decks, err := s.deckRepo.ListByOwner(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		result[i] = PlayerWithDecks{Player: p, Decks: decks}
	}
	return result, nil
}
