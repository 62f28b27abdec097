package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"edh-elo/internal/constants"
	"edh-elo/internal/domain"
	"edh-elo/internal/repository"

	"github.com/rs/zerolog"
)

var (
	ErrUnknownPlayer      = errors.New("player does not exist")
	ErrInvalidColours     = errors.New("colours must be a valid colour identity")
	ErrInvalidDecklistURL = errors.New("decklist URL must be a valid URL")
)

type DeckService struct {
	deckRepo   *repository.DeckRepository
	playerRepo *repository.PlayerRepository
	ratingSvc  *RatingService
	logger     zerolog.Logger
}

func NewDeckService(deckRepo *repository.DeckRepository, playerRepo *repository.PlayerRepository, ratingSvc *RatingService, logger zerolog.Logger) *DeckService {
	return &DeckService{deckRepo: deckRepo, playerRepo: playerRepo, ratingSvc: ratingSvc, logger: logger}
}

// DeckSummary is a deck with its current rating and win/loss record.
type DeckSummary struct {
	Deck        domain.Deck
	Elo         int
	GamesPlayed int
	Wins        int
	Losses      int
}

func (s *DeckService) Create(ctx context.Context, name, ownerID string) (*domain.Deck, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	if _, err := s.playerRepo.Get(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, ownerID)
	}

	deck, err := s.deckRepo.GetOrCreate(ctx, name, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("deck_id", deck.ID).Str("name", deck.Name).Str("owner_id", ownerID).Msg("deck registered")
	return deck, nil
}

func (s *DeckService) Get(ctx context.Context, id string) (*DeckSummary, error) {
	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, *deck)
}

func (s *DeckService) List(ctx context.Context) ([]DeckSummary, error) {
	decks, err := s.deckRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]DeckSummary, len(decks))
	for i, d := range decks {
		summary, err := s.summarize(ctx, d)
		if err != nil {
			return nil, err
		}
		result[i] = *summary
	}
	return result, nil
}

// UpdateMetadata validates and stores a deck's descriptive metadata.
// Metadata never influences ratings.
func (s *DeckService) UpdateMetadata(ctx context.Context, id, colours, decklistURL string) (*domain.Deck, error) {
	deck, err := s.deckRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if colours != "" && !constants.IsValidColours(colours) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColours, colours)
	}
	if decklistURL != "" {
		u, err := url.Parse(decklistURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDecklistURL, decklistURL)
		}
	}

	if err := s.deckRepo.UpdateMetadata(ctx, id, colours, decklistURL); err != nil {
		return nil, err
	}

	deck.Colours = colours
	deck.DecklistURL = decklistURL
	return deck, nil
}

func (s *DeckService) summarize(ctx context.Context, deck domain.Deck) (*DeckSummary, error) {
	elo, err := s.ratingSvc.CurrentRating(ctx, deck.ID)
	if err != nil {
		return nil, err
	}

	record, err := s.deckRepo.Record(ctx, deck.ID)
	if err != nil {
		return nil, err
	}

	return &DeckSummary{
		Deck:        deck,
		Elo:         elo,
		GamesPlayed: record.GamesPlayed,
		Wins:        record.Wins,
		Losses:      record.Losses,
	}, nil
}
