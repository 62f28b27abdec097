package db

import (
	"time"
)

type Player struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Deck struct {
	ID          string
	Name        string
	OwnerID     string
	Colours     string
	DecklistUrl string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Game struct {
	ID                 int64
	Date               time.Time
	WinType            string
	Format             string
	NumberOfTurns      int64
	FirstPlayerOutTurn int64
	Description        string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type GameDeck struct {
	GameID   int64
	DeckID   string
	IsWinner bool
}

type EloScore struct {
	ID        string
	GameID    int64
	DeckID    string
	Score     int64
	Date      time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
