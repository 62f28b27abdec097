// Package rating implements a multi-participant generalization of the
// classical Elo system. Each participant's expected score is the average
// of its pairwise logistic expectations against every opponent in the
// game; winners score 1, everyone else 0, regardless of game size.
package rating

import (
	"errors"
	"math"
)

var (
	ErrInvalidKFactor     = errors.New("k-factor must be positive")
	ErrTooFewParticipants = errors.New("a game needs at least 2 participants")
	ErrNoWinners          = errors.New("a game needs at least one winner")
	ErrDuplicate          = errors.New("participant appears multiple times")
)

type Config struct {
	StartingElo int     // rating before a deck's first game
	KFactor     float64 // per-game rating volatility
}

type Engine struct {
	startingElo int
	kFactor     float64
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.KFactor <= 0 {
		return nil, ErrInvalidKFactor
	}
	return &Engine{startingElo: cfg.StartingElo, kFactor: cfg.KFactor}, nil
}

func (e *Engine) StartingElo() int {
	return e.startingElo
}

// Participant is one deck's pre-game state.
type Participant struct {
	DeckID string
	Rating int
	Winner bool
}

// Update is one deck's rating change for a single game.
type Update struct {
	DeckID    string
	OldRating int
	NewRating int
}

// Rate computes post-game ratings for every participant of one game.
// Intermediate arithmetic is floating point; only the final rating is
// rounded, half away from zero.
func (e *Engine) Rate(participants []Participant) ([]Update, error) {
	if len(participants) < 2 {
		return nil, ErrTooFewParticipants
	}

	seen := make(map[string]struct{}, len(participants))
	winners := 0
	for _, p := range participants {
		if _, ok := seen[p.DeckID]; ok {
			return nil, ErrDuplicate
		}
		seen[p.DeckID] = struct{}{}
		if p.Winner {
			winners++
		}
	}
	if winners == 0 {
		return nil, ErrNoWinners
	}

	updates := make([]Update, len(participants))
	for i, p := range participants {
		var sum float64
		for j, o := range participants {
			if j == i {
				continue
			}
			sum += expectedScore(float64(p.Rating), float64(o.Rating))
		}
		avgExpected := sum / float64(len(participants)-1)

		actual := 0.0
		if p.Winner {
			actual = 1.0
		}

		updates[i] = Update{
			DeckID:    p.DeckID,
			OldRating: p.Rating,
			NewRating: int(math.Round(float64(p.Rating) + e.kFactor*(actual-avgExpected))),
		}
	}

	return updates, nil
}

// expectedScore is the probability that a beats b under the logistic
// Elo curve with the conventional 400-point scale.
func expectedScore(a, b float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (b-a)/400.0))
}
