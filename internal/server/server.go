package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"edh-elo/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type Server struct {
	games    *service.GameService
	players  *service.PlayerService
	decks    *service.DeckService
	ratings  *service.RatingService
	importer *service.ImportService
	stats    *service.StatsService
	logger   zerolog.Logger
}

func New(games *service.GameService, players *service.PlayerService, decks *service.DeckService, ratings *service.RatingService, importer *service.ImportService, stats *service.StatsService, logger zerolog.Logger) *Server {
	return &Server{
		games:    games,
		players:  players,
		decks:    decks,
		ratings:  ratings,
		importer: importer,
		stats:    stats,
		logger:   logger,
	}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Route("/games", func(r chi.Router) {
			r.Get("/", s.handleListGames)
			r.Post("/", s.handleSubmitGame)
			r.Post("/delete-after", s.handleDeleteGamesAfter)
			r.Get("/{id}", s.handleGetGame)
			r.Patch("/{id}", s.handleUpdateGame)
		})

		r.Route("/players", func(r chi.Router) {
			r.Get("/", s.handleListPlayers)
			r.Post("/", s.handleCreatePlayer)
			r.Get("/{id}", s.handleGetPlayer)
		})

		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.handleListDecks)
			r.Post("/", s.handleCreateDeck)
			r.Get("/{id}", s.handleGetDeck)
			r.Patch("/{id}", s.handleUpdateDeckMetadata)
			r.Get("/{id}/rating", s.handleCurrentRating)
			r.Get("/{id}/rating/history", s.handleRatingHistory)
		})

		r.Post("/ratings/replay", s.handleReplay)
		r.Post("/import", s.handleImport)
		r.Post("/wipe", s.handleWipe)
		r.Get("/stats", s.handleStats)
		r.Get("/win-types", s.handleWinTypes)
		r.Get("/formats", s.handleFormats)
	})

	return r
}

func (s *Server) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError maps service errors onto status codes: validation
// failures are 400s, missing rows are 404s, everything else is a 500.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	switch {
	case isValidationError(err):
		s.respond(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		s.respond(w, http.StatusNotFound, errorResponse{Error: "not found"})
	default:
		s.logger.Error().Err(err).Msg("request failed")
		s.respond(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func isValidationError(err error) bool {
	for _, kind := range []error{
		service.ErrMissingDate,
		service.ErrTooFewParticipants,
		service.ErrDuplicateParticipant,
		service.ErrNoWinners,
		service.ErrWinnerNotParticipant,
		service.ErrUnknownDeck,
		service.ErrUnknownPlayer,
		service.ErrEmptyName,
		service.ErrInvalidColours,
		service.ErrInvalidDecklistURL,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
