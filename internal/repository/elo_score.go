package repository

import (
	"context"
	"database/sql"
	"fmt"

	"edh-elo/internal/db"
	"edh-elo/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type EloScoreRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewEloScoreRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *EloScoreRepository {
	return &EloScoreRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

// ReplaceForGame atomically swaps in the full set of score records for
// one game. Stale records for the game are cleared first, so re-rating
// a game can never leave duplicate (deck, game) rows or a partially
// written batch.
func (r *EloScoreRepository) ReplaceForGame(ctx context.Context, gameID int64, records []domain.EloScore) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	if err := qtx.DeleteEloScoresByGame(ctx, gameID); err != nil {
		return fmt.Errorf("failed to clear stale scores for game %d: %w", gameID, err)
	}

	for _, record := range records {
		id := record.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}

		err := qtx.CreateEloScore(ctx, db.CreateEloScoreParams{
			ID:        id,
			GameID:    record.GameID,
			DeckID:    record.DeckID,
			Score:     int64(record.Score),
			Date:      record.Date,
			CreatedAt: record.CreatedAt,
			UpdatedAt: record.UpdatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to insert score for deck %s: %w", record.DeckID, err)
		}
	}

	return tx.Commit()
}

// Latest returns the deck's most recent score record in canonical order,
// or nil if the deck has no rated games yet.
func (r *EloScoreRepository) Latest(ctx context.Context, deckID string) (*domain.EloScore, error) {
	record, err := r.queries.GetLatestEloScore(ctx, deckID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainEloScore(record), nil
}

// LatestBefore returns the deck's score record strictly earlier than
// (date, gameID) in canonical order, or nil if the deck had no prior
// rated game.
func (r *EloScoreRepository) LatestBefore(ctx context.Context, deckID string, game *domain.Game) (*domain.EloScore, error) {
	record, err := r.queries.GetLatestEloScoreBefore(ctx, db.GetLatestEloScoreBeforeParams{
		DeckID: deckID,
		Date:   game.Date,
		GameID: game.ID,
	})
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainEloScore(record), nil
}

func (r *EloScoreRepository) HistoryFor(ctx context.Context, deckID string) ([]domain.EloScore, error) {
	records, err := r.queries.ListEloScoresByDeck(ctx, deckID)
	if err != nil {
		return nil, err
	}
	result := make([]domain.EloScore, len(records))
	for i, rec := range records {
		result[i] = *toDomainEloScore(rec)
	}
	return result, nil
}

func (r *EloScoreRepository) ListByGame(ctx context.Context, gameID int64) ([]domain.EloScore, error) {
	records, err := r.queries.ListEloScoresByGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	result := make([]domain.EloScore, len(records))
	for i, rec := range records {
		result[i] = *toDomainEloScore(rec)
	}
	return result, nil
}

func (r *EloScoreRepository) DeleteAll(ctx context.Context) error {
	return r.queries.DeleteAllEloScores(ctx)
}

// LeaderboardEntry is a deck with its current rating.
type LeaderboardEntry struct {
	DeckID   string
	DeckName string
	OwnerID  string
	Score    int
}

func (r *EloScoreRepository) Leaderboard(ctx context.Context, startingElo int) ([]LeaderboardEntry, error) {
	rows, err := r.queries.Leaderboard(ctx, int64(startingElo))
	if err != nil {
		return nil, err
	}
	result := make([]LeaderboardEntry, len(rows))
	for i, row := range rows {
		result[i] = LeaderboardEntry{
			DeckID:   row.ID,
			DeckName: row.Name,
			OwnerID:  row.OwnerID,
			Score:    int(row.Score),
		}
	}
	return result, nil
}

func toDomainEloScore(e db.EloScore) *domain.EloScore {
	return &domain.EloScore{
		ID:        e.ID,
		GameID:    e.GameID,
		DeckID:    e.DeckID,
		Score:     int(e.Score),
		Date:      e.Date,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
