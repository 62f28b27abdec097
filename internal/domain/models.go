package domain

import (
	"time"
)

type Player struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deck is the rated entity. Ratings attach to decks, not players.
type Deck struct {
	ID          string
	Name        string
	OwnerID     string
	Colours     string // colour identity, e.g. "WUB"; empty when unknown
	DecklistURL string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Game struct {
	ID                 int64 // assigned at ingestion; same-date tie-break
	Date               time.Time
	WinType            string
	Format             string
	NumberOfTurns      int
	FirstPlayerOutTurn int
	Description        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type GameDeck struct {
	GameID   int64
	DeckID   string
	IsWinner bool
}

// EloScore is one deck's rating immediately after one game.
type EloScore struct {
	ID        string // nanoid
	GameID    int64
	DeckID    string
	Score     int
	Date      time.Time // denormalized game date, used for ordered lookups
	CreatedAt time.Time
	UpdatedAt time.Time
}
