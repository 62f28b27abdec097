package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"edh-elo/internal/db"
	"edh-elo/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type DeckRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewDeckRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *DeckRepository {
	return &DeckRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *DeckRepository) Create(ctx context.Context, name, ownerID string) (*domain.Deck, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now()
	err = r.queries.CreateDeck(ctx, db.CreateDeckParams{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	return &domain.Deck{ID: id, Name: name, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}, nil
}

// GetOrCreate resolves a deck by owner-scoped exact name, creating it on
// first appearance, with re-fetch on a concurrent-create conflict.
func (r *DeckRepository) GetOrCreate(ctx context.Context, name, ownerID string) (*domain.Deck, error) {
	deck, err := r.GetByOwnerAndName(ctx, ownerID, name)
	if err == nil {
		return deck, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	deck, err = r.Create(ctx, name, ownerID)
	if err == nil {
		return deck, nil
	}
	if isUniqueViolation(err) {
		r.logger.Debug().Str("name", name).Str("owner_id", ownerID).Msg("deck created concurrently, re-fetching")
		return r.GetByOwnerAndName(ctx, ownerID, name)
	}
	return nil, fmt.Errorf("failed to create deck %q: %w", name, err)
}

func (r *DeckRepository) Get(ctx context.Context, id string) (*domain.Deck, error) {
	deck, err := r.queries.GetDeck(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainDeck(deck), nil
}

func (r *DeckRepository) GetByOwnerAndName(ctx context.Context, ownerID, name string) (*domain.Deck, error) {
	deck, err := r.queries.GetDeckByOwnerAndName(ctx, db.GetDeckByOwnerAndNameParams{
		OwnerID: ownerID,
		Name:    name,
	})
	if err != nil {
		return nil, err
	}
	return toDomainDeck(deck), nil
}

func (r *DeckRepository) List(ctx context.Context) ([]domain.Deck, error) {
	decks, err := r.queries.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Deck, len(decks))
	for i, d := range decks {
		result[i] = *toDomainDeck(d)
	}
	return result, nil
}

func (r *DeckRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Deck, error) {
	decks, err := r.queries.ListDecksByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Deck, len(decks))
	for i, d := range decks {
		result[i] = *toDomainDeck(d)
	}
	return result, nil
}

func (r *DeckRepository) UpdateMetadata(ctx context.Context, id, colours, decklistURL string) error {
	return r.queries.UpdateDeckMetadata(ctx, db.UpdateDeckMetadataParams{
		Colours:     colours,
		DecklistUrl: decklistURL,
		UpdatedAt:   time.Now(),
		ID:          id,
	})
}

// DeckRecord is a deck's win/loss tally derived from game participation.
type DeckRecord struct {
	GamesPlayed int
	Wins        int
	Losses      int
}

func (r *DeckRepository) Record(ctx context.Context, id string) (DeckRecord, error) {
	row, err := r.queries.GetDeckRecord(ctx, id)
	if err != nil {
		return DeckRecord{}, err
	}
	return DeckRecord{
		GamesPlayed: int(row.GamesPlayed),
		Wins:        int(row.Wins),
		Losses:      int(row.GamesPlayed - row.Wins),
	}, nil
}

func (r *DeckRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountDecks(ctx)
}

func (r *DeckRepository) DeleteAll(ctx context.Context) error {
	return r.queries.DeleteAllDecks(ctx)
}

func toDomainDeck(d db.Deck) *domain.Deck {
	return &domain.Deck{
		ID:          d.ID,
		Name:        d.Name,
		OwnerID:     d.OwnerID,
		Colours:     d.Colours,
		DecklistURL: d.DecklistUrl,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
