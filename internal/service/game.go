package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"edh-elo/internal/domain"
	"edh-elo/internal/repository"

	"github.com/rs/zerolog"
)

// Validation failures for submitted games. Each is its own kind so
// callers can surface a precise rejection reason.
var (
	ErrMissingDate          = errors.New("game date is missing or invalid")
	ErrTooFewParticipants   = errors.New("a game needs at least 2 distinct decks")
	ErrDuplicateParticipant = errors.New("a deck appears in the game more than once")
	ErrNoWinners            = errors.New("a game needs at least one winner")
	ErrWinnerNotParticipant = errors.New("every winner must be one of the game's decks")
	ErrUnknownDeck          = errors.New("deck does not exist")
)

type SubmitGameInput struct {
	Date               time.Time
	DeckIDs            []string
	WinnerIDs          []string
	WinType            string
	Format             string
	NumberOfTurns      int
	FirstPlayerOutTurn int
	Description        string
}

type GameService struct {
	gameRepo  *repository.GameRepository
	deckRepo  *repository.DeckRepository
	ratingSvc *RatingService
	logger    zerolog.Logger
}

func NewGameService(gameRepo *repository.GameRepository, deckRepo *repository.DeckRepository, ratingSvc *RatingService, logger zerolog.Logger) *GameService {
	return &GameService{gameRepo: gameRepo, deckRepo: deckRepo, ratingSvc: ratingSvc, logger: logger}
}

// Submit validates and persists a game, then runs the single-game
// rating update synchronously. This is the "record new game" path.
func (s *GameService) Submit(ctx context.Context, input SubmitGameInput) (*domain.Game, error) {
	game, err := s.submit(ctx, input)
	if err != nil {
		return nil, err
	}

	if err := s.ratingSvc.RateGame(ctx, game.ID); err != nil {
		// back out the unrated game so a failed submission leaves
		// nothing behind
		if delErr := s.gameRepo.Delete(ctx, game.ID); delErr != nil {
			s.logger.Error().Err(delErr).
				Int64("game_id", game.ID).
				Msg("failed to remove game after rating failure")
		}
		return nil, err
	}

	s.logger.Info().
		Int64("game_id", game.ID).
		Time("date", game.Date).
		Int("decks", len(input.DeckIDs)).
		Msg("game recorded and rated")
	return game, nil
}

// SubmitUnrated validates and persists a game without rating it. The
// bulk-import path uses this and runs one full replay afterwards.
func (s *GameService) SubmitUnrated(ctx context.Context, input SubmitGameInput) (*domain.Game, error) {
	return s.submit(ctx, input)
}

func (s *GameService) submit(ctx context.Context, input SubmitGameInput) (*domain.Game, error) {
	if err := Validate(input); err != nil {
		return nil, err
	}

	for _, deckID := range input.DeckIDs {
		if _, err := s.deckRepo.Get(ctx, deckID); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownDeck, deckID)
		}
	}

	game := &domain.Game{
		Date:               input.Date.UTC(),
		WinType:            input.WinType,
		Format:             input.Format,
		NumberOfTurns:      input.NumberOfTurns,
		FirstPlayerOutTurn: input.FirstPlayerOutTurn,
		Description:        input.Description,
	}

	return s.gameRepo.Create(ctx, game, input.DeckIDs, input.WinnerIDs)
}

// Validate checks the structural invariants of a submitted game. An
// invalid game is rejected before anything is persisted and never
// reaches the rating engine.
func Validate(input SubmitGameInput) error {
	if input.Date.IsZero() {
		return ErrMissingDate
	}

	if len(input.DeckIDs) < 2 {
		return ErrTooFewParticipants
	}

	decks := make(map[string]struct{}, len(input.DeckIDs))
	for _, id := range input.DeckIDs {
		if _, ok := decks[id]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateParticipant, id)
		}
		decks[id] = struct{}{}
	}

	if len(input.WinnerIDs) == 0 {
		return ErrNoWinners
	}
	for _, id := range input.WinnerIDs {
		if _, ok := decks[id]; !ok {
			return fmt.Errorf("%w: %s", ErrWinnerNotParticipant, id)
		}
	}

	return nil
}

func (s *GameService) Get(ctx context.Context, id int64) (*repository.GameWithDecks, error) {
	return s.gameRepo.Get(ctx, id)
}

func (s *GameService) ListRecentFirst(ctx context.Context) ([]domain.Game, error) {
	return s.gameRepo.ListRecentFirst(ctx)
}

func (s *GameService) UpdateDescription(ctx context.Context, id int64, description string) error {
	if _, err := s.gameRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.gameRepo.UpdateDescription(ctx, id, description)
}

// DeleteAfter removes all games dated strictly after the reference
// game. Their score records cascade; earlier ratings stay valid because
// no remaining game can depend on a strictly later one.
func (s *GameService) DeleteAfter(ctx context.Context, referenceGameID int64) (int64, error) {
	return s.gameRepo.DeleteWithDateAfter(ctx, referenceGameID)
}
