package server

import (
	"net/http"
	"time"
)

type statsResponse struct {
	Players     int64              `json:"players"`
	Decks       int64              `json:"decks"`
	Games       int64              `json:"games"`
	Leaderboard []leaderboardEntry `json:"leaderboard"`
}

type leaderboardEntry struct {
	DeckID   string `json:"deckId"`
	DeckName string `json:"deckName"`
	OwnerID  string `json:"ownerId"`
	Elo      int    `json:"elo"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Stats(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := statsResponse{
		Players: stats.Players,
		Decks:   stats.Decks,
		Games:   stats.Games,
	}
	for _, e := range stats.Leaderboard {
		resp.Leaderboard = append(resp.Leaderboard, leaderboardEntry{
			DeckID:   e.DeckID,
			DeckName: e.DeckName,
			OwnerID:  e.OwnerID,
			Elo:      e.Score,
		})
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleWipe(w http.ResponseWriter, r *http.Request) {
	if err := s.stats.WipeAll(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]string{
		"message":   "all data has been permanently deleted",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
