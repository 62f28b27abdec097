package db

import (
	"context"
	"time"
)

const createGame = `
INSERT INTO games (date, win_type, format, number_of_turns, first_player_out_turn, description, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateGameParams struct {
	Date               time.Time
	WinType            string
	Format             string
	NumberOfTurns      int64
	FirstPlayerOutTurn int64
	Description        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createGame,
		arg.Date, arg.WinType, arg.Format, arg.NumberOfTurns, arg.FirstPlayerOutTurn,
		arg.Description, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const getGame = `
SELECT id, date, win_type, format, number_of_turns, first_player_out_turn, description, created_at, updated_at
FROM games WHERE id = ?
`

func (q *Queries) GetGame(ctx context.Context, id int64) (Game, error) {
	row := q.db.QueryRowContext(ctx, getGame, id)
	var i Game
	err := row.Scan(&i.ID, &i.Date, &i.WinType, &i.Format, &i.NumberOfTurns,
		&i.FirstPlayerOutTurn, &i.Description, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listGamesChronological = `
SELECT id, date, win_type, format, number_of_turns, first_player_out_turn, description, created_at, updated_at
FROM games ORDER BY date ASC, id ASC
`

// ListGamesChronological returns every game in canonical order:
// date first, ingestion id as the same-date tie-break.
func (q *Queries) ListGamesChronological(ctx context.Context) ([]Game, error) {
	return q.listGames(ctx, listGamesChronological)
}

const listGamesRecentFirst = `
SELECT id, date, win_type, format, number_of_turns, first_player_out_turn, description, created_at, updated_at
FROM games ORDER BY date DESC, id DESC
`

func (q *Queries) ListGamesRecentFirst(ctx context.Context) ([]Game, error) {
	return q.listGames(ctx, listGamesRecentFirst)
}

const listGamesByDate = `
SELECT id, date, win_type, format, number_of_turns, first_player_out_turn, description, created_at, updated_at
FROM games WHERE date = ? ORDER BY id ASC
`

func (q *Queries) ListGamesByDate(ctx context.Context, date time.Time) ([]Game, error) {
	return q.listGames(ctx, listGamesByDate, date)
}

func (q *Queries) listGames(ctx context.Context, query string, args ...interface{}) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Game
	for rows.Next() {
		var i Game
		if err := rows.Scan(&i.ID, &i.Date, &i.WinType, &i.Format, &i.NumberOfTurns,
			&i.FirstPlayerOutTurn, &i.Description, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateGameDescription = `
UPDATE games SET description = ?, updated_at = ? WHERE id = ?
`

type UpdateGameDescriptionParams struct {
	Description string
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateGameDescription(ctx context.Context, arg UpdateGameDescriptionParams) error {
	_, err := q.db.ExecContext(ctx, updateGameDescription, arg.Description, arg.UpdatedAt, arg.ID)
	return err
}

const deleteGamesWithDateAfter = `
DELETE FROM games WHERE date > ?
`

// DeleteGamesWithDateAfter removes games dated strictly after the
// reference date. game_decks and elo_scores rows cascade.
func (q *Queries) DeleteGamesWithDateAfter(ctx context.Context, date time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGamesWithDateAfter, date)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteGame = `
DELETE FROM games WHERE id = ?
`

func (q *Queries) DeleteGame(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteGame, id)
	return err
}

const countGames = `
SELECT COUNT(*) FROM games
`

func (q *Queries) CountGames(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countGames)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAllGames = `
DELETE FROM games
`

func (q *Queries) DeleteAllGames(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllGames)
	return err
}

const createGameDeck = `
INSERT INTO game_decks (game_id, deck_id, is_winner)
VALUES (?, ?, ?)
`

type CreateGameDeckParams struct {
	GameID   int64
	DeckID   string
	IsWinner bool
}

func (q *Queries) CreateGameDeck(ctx context.Context, arg CreateGameDeckParams) error {
	_, err := q.db.ExecContext(ctx, createGameDeck, arg.GameID, arg.DeckID, arg.IsWinner)
	return err
}

const getGameDecks = `
SELECT game_id, deck_id, is_winner FROM game_decks WHERE game_id = ? ORDER BY deck_id
`

func (q *Queries) GetGameDecks(ctx context.Context, gameID int64) ([]GameDeck, error) {
	rows, err := q.db.QueryContext(ctx, getGameDecks, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GameDeck
	for rows.Next() {
		var i GameDeck
		if err := rows.Scan(&i.GameID, &i.DeckID, &i.IsWinner); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
