package server

import (
	"net/http"
	"time"

	"edh-elo/internal/constants"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleCurrentRating(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "id")

	elo, err := s.ratings.CurrentRating(r.Context(), deckID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{
		"deckId": deckID,
		"elo":    elo,
	})
}

type ratingHistoryEntry struct {
	GameID int64  `json:"gameId"`
	Date   string `json:"date"`
	Elo    int    `json:"elo"`
}

func (s *Server) handleRatingHistory(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "id")

	history, err := s.ratings.RatingHistory(r.Context(), deckID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]ratingHistoryEntry, len(history))
	for i, h := range history {
		resp[i] = ratingHistoryEntry{
			GameID: h.GameID,
			Date:   h.Date.Format(time.RFC3339),
			Elo:    h.Score,
		}
	}
	s.respond(w, http.StatusOK, resp)
}

// handleReplay rebuilds the entire rating history. This is a
// maintenance endpoint; it must not run while games are being recorded.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if err := s.ratings.ReplayAll(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "replay completed"})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	result, err := s.importer.ImportFromFeed(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]int{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
}

func (s *Server) handleWinTypes(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, constants.WinTypes)
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, constants.Formats)
}
