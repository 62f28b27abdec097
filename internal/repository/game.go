package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"edh-elo/internal/db"
	"edh-elo/internal/domain"

	"github.com/rs/zerolog"
)

type GameRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewGameRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *GameRepository {
	return &GameRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// GameWithDecks is a game plus its participant rows.
type GameWithDecks struct {
	Game  domain.Game
	Decks []domain.GameDeck
}

// Create persists the game and all participant rows in one transaction.
// winners must already be validated as a subset of deckIDs.
func (r *GameRepository) Create(ctx context.Context, game *domain.Game, deckIDs []string, winnerIDs []string) (*domain.Game, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	now := time.Now()
	id, err := qtx.CreateGame(ctx, db.CreateGameParams{
		Date:               game.Date,
		WinType:            game.WinType,
		Format:             game.Format,
		NumberOfTurns:      int64(game.NumberOfTurns),
		FirstPlayerOutTurn: int64(game.FirstPlayerOutTurn),
		Description:        game.Description,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	winners := make(map[string]bool, len(winnerIDs))
	for _, w := range winnerIDs {
		winners[w] = true
	}

	for _, deckID := range deckIDs {
		err := qtx.CreateGameDeck(ctx, db.CreateGameDeckParams{
			GameID:   id,
			DeckID:   deckID,
			IsWinner: winners[deckID],
		})
		if err != nil {
			return nil, fmt.Errorf("failed to add deck %s to game: %w", deckID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit game: %w", err)
	}

	created := *game
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *GameRepository) Get(ctx context.Context, id int64) (*GameWithDecks, error) {
	game, err := r.queries.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	decks, err := r.queries.GetGameDecks(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &GameWithDecks{Game: *toDomainGame(game)}
	for _, d := range decks {
		result.Decks = append(result.Decks, domain.GameDeck{
			GameID:   d.GameID,
			DeckID:   d.DeckID,
			IsWinner: d.IsWinner,
		})
	}
	return result, nil
}

// ListChronological returns all games in canonical order: by date, then
// by ingestion id for games sharing a date.
func (r *GameRepository) ListChronological(ctx context.Context) ([]domain.Game, error) {
	games, err := r.queries.ListGamesChronological(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainGames(games), nil
}

func (r *GameRepository) ListRecentFirst(ctx context.Context) ([]domain.Game, error) {
	games, err := r.queries.ListGamesRecentFirst(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainGames(games), nil
}

// FindDuplicate reports an already-stored game with the same date,
// participant set, winner set and description, or nil if none exists.
func (r *GameRepository) FindDuplicate(ctx context.Context, date time.Time, deckIDs, winnerIDs []string, description string) (*domain.Game, error) {
	candidates, err := r.queries.ListGamesByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	want := participantSet(deckIDs, winnerIDs)
	for _, c := range candidates {
		if c.Description != description {
			continue
		}
		decks, err := r.queries.GetGameDecks(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		got := make(map[string]bool, len(decks))
		for _, d := range decks {
			got[d.DeckID] = d.IsWinner
		}
		if sameParticipants(want, got) {
			return toDomainGame(c), nil
		}
	}
	return nil, nil
}

func (r *GameRepository) UpdateDescription(ctx context.Context, id int64, description string) error {
	return r.queries.UpdateGameDescription(ctx, db.UpdateGameDescriptionParams{
		Description: description,
		UpdatedAt:   time.Now(),
		ID:          id,
	})
}

// DeleteWithDateAfter removes every game dated strictly after the
// reference game, cascading to participant rows and rating records.
func (r *GameRepository) DeleteWithDateAfter(ctx context.Context, referenceGameID int64) (int64, error) {
	reference, err := r.queries.GetGame(ctx, referenceGameID)
	if err != nil {
		return 0, err
	}

	count, err := r.queries.DeleteGamesWithDateAfter(ctx, reference.Date)
	if err != nil {
		return 0, err
	}

	r.logger.Info().Int64("reference_game", referenceGameID).Int64("deleted", count).Msg("deleted games after reference date")
	return count, nil
}

// Delete removes a single game. Its game_decks and elo_scores rows
// cascade.
func (r *GameRepository) Delete(ctx context.Context, id int64) error {
	return r.queries.DeleteGame(ctx, id)
}

func (r *GameRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountGames(ctx)
}

func (r *GameRepository) DeleteAll(ctx context.Context) error {
	return r.queries.DeleteAllGames(ctx)
}

func toDomainGame(g db.Game) *domain.Game {
	return &domain.Game{
		ID:                 g.ID,
		Date:               g.Date,
		WinType:            g.WinType,
		Format:             g.Format,
		NumberOfTurns:      int(g.NumberOfTurns),
		FirstPlayerOutTurn: int(g.FirstPlayerOutTurn),
		Description:        g.Description,
		CreatedAt:          g.CreatedAt,
		UpdatedAt:          g.UpdatedAt,
	}
}

func toDomainGames(games []db.Game) []domain.Game {
	result := make([]domain.Game, len(games))
	for i, g := range games {
		result[i] = *toDomainGame(g)
	}
	return result
}

func participantSet(deckIDs, winnerIDs []string) map[string]bool {
	winners := make(map[string]bool, len(winnerIDs))
	for _, w := range winnerIDs {
		winners[w] = true
	}
	set := make(map[string]bool, len(deckIDs))
	for _, d := range deckIDs {
		set[d] = winners[d]
	}
	return set
}

func sameParticipants(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id, winner := range a {
		got, ok := b[id]
		if !ok || got != winner {
			return false
		}
	}
	return true
}
