package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"edh-elo/internal/database"
	"edh-elo/internal/db"
	"edh-elo/internal/rating"
	"edh-elo/internal/repository"
	"edh-elo/internal/service"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	_, err = sqlDB.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(sqlDB, logger))

	queries := db.New(sqlDB)
	playerRepo := repository.NewPlayerRepository(sqlDB, queries, logger)
	deckRepo := repository.NewDeckRepository(sqlDB, queries, logger)
	gameRepo := repository.NewGameRepository(sqlDB, queries, logger)
	scoreRepo := repository.NewEloScoreRepository(sqlDB, queries, logger)

	engine, err := rating.NewEngine(rating.Config{StartingElo: 1000, KFactor: 24})
	require.NoError(t, err)

	ratingSvc := service.NewRatingService(engine, gameRepo, scoreRepo, logger)
	gameSvc := service.NewGameService(gameRepo, deckRepo, ratingSvc, logger)
	playerSvc := service.NewPlayerService(playerRepo, deckRepo, logger)
	deckSvc := service.NewDeckService(deckRepo, playerRepo, ratingSvc, logger)
	importSvc := service.NewImportService(nil, playerRepo, deckRepo, gameRepo, gameSvc, ratingSvc, logger)
	statsSvc := service.NewStatsService(playerRepo, deckRepo, gameRepo, scoreRepo, ratingSvc, logger)

	srv := New(gameSvc, playerSvc, deckSvc, ratingSvc, importSvc, statsSvc, logger)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// createDeck creates a player and a deck through the API and returns
// the deck id.
func createDeck(t *testing.T, ts *httptest.Server, playerName, deckName string) string {
	t.Helper()

	var player struct {
		ID string `json:"id"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/players", map[string]string{"name": playerName}, &player)
	require.Equal(t, http.StatusCreated, status)

	var deck struct {
		ID string `json:"id"`
	}
	status = doJSON(t, ts, http.MethodPost, "/api/decks", map[string]string{
		"name":    deckName,
		"ownerId": player.ID,
	}, &deck)
	require.Equal(t, http.StatusCreated, status)
	return deck.ID
}

func TestSubmitGameEndpoint(t *testing.T) {
	ts := newTestServer(t)

	a := createDeck(t, ts, "Alice", "Meren")
	b := createDeck(t, ts, "Bob", "Krenko")

	var game struct {
		ID        int64    `json:"id"`
		DeckIDs   []string `json:"deckIds"`
		WinnerIDs []string `json:"winnerIds"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/games", map[string]interface{}{
		"date":      "2024-03-10",
		"deckIds":   []string{a, b},
		"winnerIds": []string{a},
		"winType":   "Combat Damage",
		"format":    "Commander",
	}, &game)
	require.Equal(t, http.StatusCreated, status)
	assert.NotZero(t, game.ID)
	assert.Equal(t, []string{a, b}, game.DeckIDs)

	var ratingResp struct {
		DeckID string `json:"deckId"`
		Elo    int    `json:"elo"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/decks/"+a+"/rating", nil, &ratingResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1012, ratingResp.Elo)

	status = doJSON(t, ts, http.MethodGet, "/api/decks/"+b+"/rating", nil, &ratingResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 988, ratingResp.Elo)
}

func TestSubmitGameEndpoint_ValidationStatus(t *testing.T) {
	ts := newTestServer(t)

	a := createDeck(t, ts, "Alice", "Meren")
	b := createDeck(t, ts, "Bob", "Krenko")

	cases := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing date", map[string]interface{}{
			"deckIds": []string{a, b}, "winnerIds": []string{a},
		}},
		{"one participant", map[string]interface{}{
			"date": "2024-03-10", "deckIds": []string{a}, "winnerIds": []string{a},
		}},
		{"no winners", map[string]interface{}{
			"date": "2024-03-10", "deckIds": []string{a, b}, "winnerIds": []string{},
		}},
		{"winner not playing", map[string]interface{}{
			"date": "2024-03-10", "deckIds": []string{a, b}, "winnerIds": []string{"nope"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp struct {
				Error string `json:"error"`
			}
			status := doJSON(t, ts, http.MethodPost, "/api/games", tc.body, &errResp)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestGetGameEndpoint_NotFound(t *testing.T) {
	ts := newTestServer(t)

	var errResp struct {
		Error string `json:"error"`
	}
	status := doJSON(t, ts, http.MethodGet, "/api/games/9999", nil, &errResp)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRatingHistoryEndpoint(t *testing.T) {
	ts := newTestServer(t)

	a := createDeck(t, ts, "Alice", "Meren")
	b := createDeck(t, ts, "Bob", "Krenko")

	for _, day := range []string{"2024-03-10", "2024-03-11"} {
		status := doJSON(t, ts, http.MethodPost, "/api/games", map[string]interface{}{
			"date": day, "deckIds": []string{a, b}, "winnerIds": []string{a},
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	var history []struct {
		GameID int64  `json:"gameId"`
		Date   string `json:"date"`
		Elo    int    `json:"elo"`
	}
	status := doJSON(t, ts, http.MethodGet, "/api/decks/"+a+"/rating/history", nil, &history)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, history, 2)
	assert.Equal(t, 1012, history[0].Elo)
	assert.Equal(t, 1023, history[1].Elo)
}

func TestDeleteGamesAfterEndpoint(t *testing.T) {
	ts := newTestServer(t)

	a := createDeck(t, ts, "Alice", "Meren")
	b := createDeck(t, ts, "Bob", "Krenko")

	var firstID int64
	for i, day := range []string{"2024-03-10", "2024-03-11", "2024-03-12"} {
		var game struct {
			ID int64 `json:"id"`
		}
		status := doJSON(t, ts, http.MethodPost, "/api/games", map[string]interface{}{
			"date": day, "deckIds": []string{a, b}, "winnerIds": []string{a},
		}, &game)
		require.Equal(t, http.StatusCreated, status)
		if i == 0 {
			firstID = game.ID
		}
	}

	var resp struct {
		DeletedCount int64 `json:"deletedCount"`
	}
	status := doJSON(t, ts, http.MethodPost, "/api/games/delete-after", map[string]int64{"gameId": firstID}, &resp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), resp.DeletedCount)

	var ratingResp struct {
		Elo int `json:"elo"`
	}
	status = doJSON(t, ts, http.MethodGet, fmt.Sprintf("/api/decks/%s/rating", a), nil, &ratingResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1012, ratingResp.Elo)
}

func TestReplayEndpoint(t *testing.T) {
	ts := newTestServer(t)

	a := createDeck(t, ts, "Alice", "Meren")
	b := createDeck(t, ts, "Bob", "Krenko")

	status := doJSON(t, ts, http.MethodPost, "/api/games", map[string]interface{}{
		"date": "2024-03-10", "deckIds": []string{a, b}, "winnerIds": []string{a},
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	status = doJSON(t, ts, http.MethodPost, "/api/ratings/replay", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var ratingResp struct {
		Elo int `json:"elo"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/decks/"+a+"/rating", nil, &ratingResp)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1012, ratingResp.Elo)
}

func TestWipeEndpoint(t *testing.T) {
	ts := newTestServer(t)

	a := createDeck(t, ts, "Alice", "Meren")
	b := createDeck(t, ts, "Bob", "Krenko")

	status := doJSON(t, ts, http.MethodPost, "/api/games", map[string]interface{}{
		"date": "2024-03-10", "deckIds": []string{a, b}, "winnerIds": []string{a},
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	status = doJSON(t, ts, http.MethodPost, "/api/wipe", nil, nil)
	require.Equal(t, http.StatusOK, status)

	var stats struct {
		Players int64 `json:"players"`
		Decks   int64 `json:"decks"`
		Games   int64 `json:"games"`
	}
	status = doJSON(t, ts, http.MethodGet, "/api/stats", nil, &stats)
	require.Equal(t, http.StatusOK, status)
	assert.Zero(t, stats.Players)
	assert.Zero(t, stats.Decks)
	assert.Zero(t, stats.Games)
}

func TestWinTypesEndpoint(t *testing.T) {
	ts := newTestServer(t)

	var winTypes []string
	status := doJSON(t, ts, http.MethodGet, "/api/win-types", nil, &winTypes)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, winTypes, "Combat Damage")

	var formats []string
	status = doJSON(t, ts, http.MethodGet, "/api/formats", nil, &formats)
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, formats)
}
