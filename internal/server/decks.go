package server

import (
	"net/http"

	"edh-elo/internal/service"

	"github.com/go-chi/chi/v5"
)

type createDeckRequest struct {
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
}

type deckResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	OwnerID     string `json:"ownerId"`
	Colours     string `json:"colours,omitempty"`
	DecklistURL string `json:"decklistUrl,omitempty"`
	Elo         int    `json:"elo,omitempty"`
	GamesPlayed int    `json:"gamesPlayed,omitempty"`
	Wins        int    `json:"wins,omitempty"`
	Losses      int    `json:"losses,omitempty"`
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	deck, err := s.decks.Create(r.Context(), req.Name, req.OwnerID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusCreated, deckResponse{
		ID:      deck.ID,
		Name:    deck.Name,
		OwnerID: deck.OwnerID,
	})
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.decks.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := make([]deckResponse, len(decks))
	for i, d := range decks {
		resp[i] = toDeckResponse(d)
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	deck, err := s.decks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, toDeckResponse(*deck))
}

type updateDeckRequest struct {
	Colours     string `json:"colours"`
	DecklistURL string `json:"decklistUrl"`
}

func (s *Server) handleUpdateDeckMetadata(w http.ResponseWriter, r *http.Request) {
	var req updateDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respond(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	deck, err := s.decks.UpdateMetadata(r.Context(), chi.URLParam(r, "id"), req.Colours, req.DecklistURL)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respond(w, http.StatusOK, deckResponse{
		ID:          deck.ID,
		Name:        deck.Name,
		OwnerID:     deck.OwnerID,
		Colours:     deck.Colours,
		DecklistURL: deck.DecklistURL,
	})
}

func toDeckResponse(d service.DeckSummary) deckResponse {
	return deckResponse{
		ID:          d.Deck.ID,
		Name:        d.Deck.Name,
		OwnerID:     d.Deck.OwnerID,
		Colours:     d.Deck.Colours,
		DecklistURL: d.Deck.DecklistURL,
		Elo:         d.Elo,
		GamesPlayed: d.GamesPlayed,
		Wins:        d.Wins,
		Losses:      d.Losses,
	}
}
