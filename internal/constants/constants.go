package constants

import "time"

const (
	// DefaultStartingElo is a deck's rating before its first recorded game.
	DefaultStartingElo = 1000
	// DefaultKFactor controls rating volatility per game.
	DefaultKFactor = 24.0
)

const (
	SheetFeedTimeout = 10 * time.Second
	DatabaseTimeout  = 5 * time.Second
	RequestTimeout   = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// MaxFeedParticipants is the widest game a feed row can describe.
	MaxFeedParticipants = 6
)
