package server

import (
	"net/http"

	"edh-elo/internal/service"

	"github.com/go-chi/chi/v5"
)

type createPlayerRequest struct {
	Name string `json:"name"`
}

type playerResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Decks []deckResponse `json:"decks,omitempty"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	player, err := s.players.Create(r.Context(), req.Name)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, playerResponse{ID: player.ID, Name: player.Name})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]playerResponse, len(players))
	for i, p := range players {
		resp[i] = toPlayerResponse(p)
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	player, err := s.players.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, toPlayerResponse(*player))
}

func toPlayerResponse(p service.PlayerWithDecks) playerResponse {
	resp := playerResponse{ID: p.Player.ID, Name: p.Player.Name}
	for _, d := range p.Decks {
		resp.Decks = append(resp.Decks, deckResponse{
			ID:          d.ID,
			Name:        d.Name,
			OwnerID:     d.OwnerID,
			Colours:     d.Colours,
			DecklistURL: d.DecklistURL,
		})
	}
	return resp
}
