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
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *PlayerRepository) Create(ctx context.Context, name string) (*domain.Player, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nanoid: %w", err)
	}

	now := time.Now()
	err = r.queries.CreatePlayer(ctx, db.CreatePlayerParams{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	return &domain.Player{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// GetOrCreate resolves a player by exact name, creating it on first
// appearance. A concurrent create racing on the unique name constraint
// falls back to re-fetching by name.
func (r *PlayerRepository) GetOrCreate(ctx context.Context, name string) (*domain.Player, error) {
	player, err := r.GetByName(ctx, name)
	if err == nil {
		return player, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	player, err = r.Create(ctx, name)
	if err == nil {
		return player, nil
	}
	if isUniqueViolation(err) {
		r.logger.Debug().Str("name", name).Msg("player created concurrently, re-fetching")
		return r.GetByName(ctx, name)
	}
	return nil, fmt.Errorf("failed to create player %q: %w", name, err)
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	player, err := r.queries.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) GetByName(ctx context.Context, name string) (*domain.Player, error) {
	player, err := r.queries.GetPlayerByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return toDomainPlayer(player), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]domain.Player, error) {
	players, err := r.queries.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]domain.Player, len(players))
	for i, p := range players {
		result[i] = *toDomainPlayer(p)
	}
	return result, nil
}

func (r *PlayerRepository) Count(ctx context.Context) (int64, error) {
	return r.queries.CountPlayers(ctx)
}

func (r *PlayerRepository) DeleteAll(ctx context.Context) error {
	return r.queries.DeleteAllPlayers(ctx)
}

func toDomainPlayer(p db.Player) *domain.Player {
	return &domain.Player{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
