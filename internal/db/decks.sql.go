package db

import (
	"context"
	"time"
)

const createDeck = `
INSERT INTO decks (id, name, owner_id, colours, decklist_url, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

type CreateDeckParams struct {
	ID          string
	Name        string
	OwnerID     string
	Colours     string
	DecklistUrl string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateDeck(ctx context.Context, arg CreateDeckParams) error {
	_, err := q.db.ExecContext(ctx, createDeck,
		arg.ID, arg.Name, arg.OwnerID, arg.Colours, arg.DecklistUrl, arg.CreatedAt, arg.UpdatedAt)
	return err
}

const getDeck = `
SELECT id, name, owner_id, colours, decklist_url, created_at, updated_at
FROM decks WHERE id = ?
`

func (q *Queries) GetDeck(ctx context.Context, id string) (Deck, error) {
	row := q.db.QueryRowContext(ctx, getDeck, id)
	var i Deck
	err := row.Scan(&i.ID, &i.Name, &i.OwnerID, &i.Colours, &i.DecklistUrl, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const getDeckByOwnerAndName = `
SELECT id, name, owner_id, colours, decklist_url, created_at, updated_at
FROM decks WHERE owner_id = ? AND name = ?
`

type GetDeckByOwnerAndNameParams struct {
	OwnerID string
	Name    string
}

func (q *Queries) GetDeckByOwnerAndName(ctx context.Context, arg GetDeckByOwnerAndNameParams) (Deck, error) {
	row := q.db.QueryRowContext(ctx, getDeckByOwnerAndName, arg.OwnerID, arg.Name)
	var i Deck
	err := row.Scan(&i.ID, &i.Name, &i.OwnerID, &i.Colours, &i.DecklistUrl, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listDecks = `
SELECT id, name, owner_id, colours, decklist_url, created_at, updated_at
FROM decks ORDER BY name
`

func (q *Queries) ListDecks(ctx context.Context) ([]Deck, error) {
	rows, err := q.db.QueryContext(ctx, listDecks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Deck
	for rows.Next() {
		var i Deck
		if err := rows.Scan(&i.ID, &i.Name, &i.OwnerID, &i.Colours, &i.DecklistUrl, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listDecksByOwner = `
SELECT id, name, owner_id, colours, decklist_url, created_at, updated_at
FROM decks WHERE owner_id = ? ORDER BY name
`

func (q *Queries) ListDecksByOwner(ctx context.Context, ownerID string) ([]Deck, error) {
	rows, err := q.db.QueryContext(ctx, listDecksByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Deck
	for rows.Next() {
		var i Deck
		if err := rows.Scan(&i.ID, &i.Name, &i.OwnerID, &i.Colours, &i.DecklistUrl, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateDeckMetadata = `
UPDATE decks SET colours = ?, decklist_url = ?, updated_at = ? WHERE id = ?
`

type UpdateDeckMetadataParams struct {
	Colours     string
	DecklistUrl string
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdateDeckMetadata(ctx context.Context, arg UpdateDeckMetadataParams) error {
	_, err := q.db.ExecContext(ctx, updateDeckMetadata, arg.Colours, arg.DecklistUrl, arg.UpdatedAt, arg.ID)
	return err
}

const getDeckRecord = `
SELECT COUNT(*) AS games_played,
       COALESCE(SUM(CASE WHEN is_winner THEN 1 ELSE 0 END), 0) AS wins
FROM game_decks WHERE deck_id = ?
`

type GetDeckRecordRow struct {
	GamesPlayed int64
	Wins        int64
}

func (q *Queries) GetDeckRecord(ctx context.Context, deckID string) (GetDeckRecordRow, error) {
	row := q.db.QueryRowContext(ctx, getDeckRecord, deckID)
	var i GetDeckRecordRow
	err := row.Scan(&i.GamesPlayed, &i.Wins)
	return i, err
}

const countDecks = `
SELECT COUNT(*) FROM decks
`

func (q *Queries) CountDecks(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countDecks)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAllDecks = `
DELETE FROM decks
`

func (q *Queries) DeleteAllDecks(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllDecks)
	return err
}
