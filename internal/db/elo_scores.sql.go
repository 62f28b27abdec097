package db

import (
	"context"
	"time"
)

const createEloScore = `
INSERT INTO elo_scores (id, game_id, deck_id, score, date, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateEloScoreParams struct {
	ID        string
	GameID    int64
	DeckID    string
	Score     int64
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateEloScore(ctx context.Context, arg CreateEloScoreParams) error {
	_, err := q.db.ExecContext(ctx, createEloScore,
		arg.ID, arg.GameID, arg.DeckID, arg.Score, arg.Date, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getLatestEloScore = `
SELECT id, game_id, deck_id, score, date, created_at, updated_at
FROM elo_scores WHERE deck_id = ?
ORDER BY date DESC, game_id DESC LIMIT 1
`

func (q *Queries) GetLatestEloScore(ctx context.Context, deckID string) (EloScore, error) {
	row := q.db.QueryRowContext(ctx, getLatestEloScore, deckID)
	var i EloScore
	err := row.Scan(&i.ID, &i.GameID, &i.DeckID, &i.Score, &i.Date, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getLatestEloScoreBefore = `
SELECT id, game_id, deck_id, score, date, created_at, updated_at
FROM elo_scores
WHERE deck_id = ? AND (date < ? OR (date = ? AND game_id < ?))
ORDER BY date DESC, game_id DESC LIMIT 1
`

type GetLatestEloScoreBeforeParams struct {
	DeckID string
	Date   time.Time
	GameID int64
}

// GetLatestEloScoreBefore returns the score record strictly earlier than
// (date, game_id) in canonical order, never relying on row order.
func (q *Queries) GetLatestEloScoreBefore(ctx context.Context, arg GetLatestEloScoreBeforeParams) (EloScore, error) {
	row := q.db.QueryRowContext(ctx, getLatestEloScoreBefore,
		arg.DeckID, arg.Date, arg.Date, arg.GameID)
	var i EloScore
	err := row.Scan(&i.ID, &i.GameID, &i.DeckID, &i.Score, &i.Date, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listEloScoresByDeck = `
SELECT id, game_id, deck_id, score, date, created_at, updated_at
FROM elo_scores WHERE deck_id = ?
ORDER BY date ASC, game_id ASC
`

func (q *Queries) ListEloScoresByDeck(ctx context.Context, deckID string) ([]EloScore, error) {
	rows, err := q.db.QueryContext(ctx, listEloScoresByDeck, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EloScore
	for rows.Next() {
		var i EloScore
		if err := rows.Scan(&i.ID, &i.GameID, &i.DeckID, &i.Score, &i.Date, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listEloScoresByGame = `
SELECT id, game_id, deck_id, score, date, created_at, updated_at
FROM elo_scores WHERE game_id = ? ORDER BY deck_id
`

func (q *Queries) ListEloScoresByGame(ctx context.Context, gameID int64) ([]EloScore, error) {
	rows, err := q.db.QueryContext(ctx, listEloScoresByGame, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EloScore
	for rows.Next() {
		var i EloScore
		if err := rows.Scan(&i.ID, &i.GameID, &i.DeckID, &i.Score, &i.Date, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteEloScoresByGame = `
DELETE FROM elo_scores WHERE game_id = ?
`

func (q *Queries) DeleteEloScoresByGame(ctx context.Context, gameID int64) error {
	_, err := q.db.ExecContext(ctx, deleteEloScoresByGame, gameID)
	return err
}

const deleteAllEloScores = `
DELETE FROM elo_scores
`

func (q *Queries) DeleteAllEloScores(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllEloScores)
	return err
}

const leaderboard = `
SELECT d.id, d.name, d.owner_id,
       COALESCE((
           SELECT e.score FROM elo_scores e
           WHERE e.deck_id = d.id
           ORDER BY e.date DESC, e.game_id DESC LIMIT 1
       ), ?) AS score
FROM decks d
ORDER BY score DESC, d.name ASC
`

type LeaderboardRow struct {
	ID      string
	Name    string
	OwnerID string
	Score   int64
}

func (q *Queries) Leaderboard(ctx context.Context, startingElo int64) ([]LeaderboardRow, error) {
	rows, err := q.db.QueryContext(ctx, leaderboard, startingElo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LeaderboardRow
	for rows.Next() {
		var i LeaderboardRow
		if err := rows.Scan(&i.ID, &i.Name, &i.OwnerID, &i.Score); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
