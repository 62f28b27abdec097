package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"edh-elo/internal/domain"
	"edh-elo/internal/service"

	"github.com/go-chi/chi/v5"
)

var requestDateLayouts = []string{time.RFC3339, "2006-01-02"}

type submitGameRequest struct {
	Date               string   `json:"date"`
	DeckIDs            []string `json:"deckIds"`
	WinnerIDs          []string `json:"winnerIds"`
	WinType            string   `json:"winType"`
	Format             string   `json:"format"`
	NumberOfTurns      int      `json:"numberOfTurns"`
	FirstPlayerOutTurn int      `json:"firstPlayerOutTurn"`
	Description        string   `json:"description"`
}

type gameResponse struct {
	ID                 int64    `json:"id"`
	Date               string   `json:"date"`
	DeckIDs            []string `json:"deckIds,omitempty"`
	WinnerIDs          []string `json:"winnerIds,omitempty"`
	WinType            string   `json:"winType"`
	Format             string   `json:"format"`
	NumberOfTurns      int      `json:"numberOfTurns"`
	FirstPlayerOutTurn int      `json:"firstPlayerOutTurn"`
	Description        string   `json:"description"`
}

func (s *Server) handleSubmitGame(w http.ResponseWriter, r *http.Request) {
	var req submitGameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	date, err := parseRequestDate(req.Date)
	if err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: service.ErrMissingDate.Error()})
		return
	}

	game, err := s.games.Submit(r.Context(), service.SubmitGameInput{
		Date:               date,
		DeckIDs:            req.DeckIDs,
		WinnerIDs:          req.WinnerIDs,
		WinType:            req.WinType,
		Format:             req.Format,
		NumberOfTurns:      req.NumberOfTurns,
		FirstPlayerOutTurn: req.FirstPlayerOutTurn,
		Description:        req.Description,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := toGameResponse(*game)
	resp.DeckIDs = req.DeckIDs
	resp.WinnerIDs = req.WinnerIDs
	s.respond(w, http.StatusCreated, resp)
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.ListRecentFirst(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]gameResponse, len(games))
	for i, g := range games {
		resp[i] = toGameResponse(g)
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDParam(r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return
	}

	game, err := s.games.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := toGameResponse(game.Game)
	for _, d := range game.Decks {
		resp.DeckIDs = append(resp.DeckIDs, d.DeckID)
		if d.IsWinner {
			resp.WinnerIDs = append(resp.WinnerIDs, d.DeckID)
		}
	}
	s.respond(w, http.StatusOK, resp)
}

type updateGameRequest struct {
	Description *string `json:"description"`
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, err := gameIDParam(r)
	if err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid game id"})
		return
	}

	var req updateGameRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Description == nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "description field is required"})
		return
	}

	if err := s.games.UpdateDescription(r.Context(), id, *req.Description); err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "updated"})
}

type deleteAfterRequest struct {
	GameID int64 `json:"gameId"`
}

func (s *Server) handleDeleteGamesAfter(w http.ResponseWriter, r *http.Request) {
	var req deleteAfterRequest
	if err := decodeJSON(r, &req); err != nil || req.GameID == 0 {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "missing or invalid gameId"})
		return
	}

	count, err := s.games.DeleteAfter(r.Context(), req.GameID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]interface{}{
		"message":      fmt.Sprintf("deleted %d game(s) and their rating records", count),
		"deletedCount": count,
	})
}

func gameIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseRequestDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func toGameResponse(g domain.Game) gameResponse {
	return gameResponse{
		ID:                 g.ID,
		Date:               g.Date.Format(time.RFC3339),
		WinType:            g.WinType,
		Format:             g.Format,
		NumberOfTurns:      g.NumberOfTurns,
		FirstPlayerOutTurn: g.FirstPlayerOutTurn,
		Description:        g.Description,
	}
}
