package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"edh-elo/internal/api"
	"edh-elo/internal/constants"
	"edh-elo/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// feed row layout: date, then 6 (player, deck) column pairs, winner
// player(s), winner deck(s), turns, first-player-out turn, win type,
// format, description. Ties arrive as "Tie (a; b)" in both winner
// columns.
const (
	feedColDate        = 0
	feedColWinnerName  = 13
	feedColWinnerDeck  = 14
	feedColTurns       = 15
	feedColFirstOut    = 16
	feedColWinType     = 17
	feedColFormat      = 18
	feedColDescription = 19
	feedRowWidth       = 20
)

var feedDateLayouts = []string{"2006-01-02", "1/2/2006", "01/02/2006"}

type PlayerDeckName struct {
	PlayerName string
	DeckName   string
}

type ParsedGame struct {
	Date               time.Time
	Participants       []PlayerDeckName
	Winners            []PlayerDeckName
	NumberOfTurns      int
	FirstPlayerOutTurn int
	WinType            string
	Format             string
	Description        string
}

type ImportResult struct {
	Imported int
	Skipped  int
}

// ImportService ingests games from the external spreadsheet feed:
// resolve names to entities, skip duplicates, persist the rest in feed
// order, then rebuild the full rating history once.
type ImportService struct {
	feed       *api.SheetFeedClient
	playerRepo *repository.PlayerRepository
	deckRepo   *repository.DeckRepository
	gameRepo   *repository.GameRepository
	gameSvc    *GameService
	ratingSvc  *RatingService
	logger     zerolog.Logger
}

func NewImportService(feed *api.SheetFeedClient, playerRepo *repository.PlayerRepository, deckRepo *repository.DeckRepository, gameRepo *repository.GameRepository, gameSvc *GameService, ratingSvc *RatingService, logger zerolog.Logger) *ImportService {
	return &ImportService{
		feed:       feed,
		playerRepo: playerRepo,
		deckRepo:   deckRepo,
		gameRepo:   gameRepo,
		gameSvc:    gameSvc,
		ratingSvc:  ratingSvc,
		logger:     logger,
	}
}

func (s *ImportService) ImportFromFeed(ctx context.Context) (*ImportResult, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, constants.SheetFeedTimeout)
	defer cancel()

	rows, err := s.feed.FetchRows(fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	return s.Import(ctx, rows)
}

// Import runs the full ingestion pipeline over raw feed rows. Games are
// persisted strictly in feed order so that same-date games keep their
// feed order as the canonical tie-break, and rating happens once at the
// end via full replay rather than per game.
func (s *ImportService) Import(ctx context.Context, rows [][]string) (*ImportResult, error) {
	parsed, err := parseFeed(rows)
	if err != nil {
		return nil, err
	}

	if err := s.resolveEntities(ctx, parsed); err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, game := range parsed {
		imported, err := s.importOne(ctx, game)
		if err != nil {
			return nil, fmt.Errorf("failed to import feed row %d: %w", i+1, err)
		}
		if imported {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	if result.Imported > 0 {
		if err := s.ratingSvc.ReplayAll(ctx); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("feed import finished")
	return result, nil
}

// resolveEntities creates every player and deck the feed mentions
// before any game is ingested. Creation is concurrent; GetOrCreate
// absorbs unique-constraint races by re-fetching.
func (s *ImportService) resolveEntities(ctx context.Context, games []ParsedGame) error {
	playerNames := make(map[string]struct{})
	deckNames := make(map[PlayerDeckName]struct{})
	for _, g := range games {
		for _, p := range g.Participants {
			playerNames[p.PlayerName] = struct{}{}
			deckNames[p] = struct{}{}
		}
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for name := range playerNames {
		name := name
		g.Go(func() error {
			_, err := s.playerRepo.GetOrCreate(gCtx, name)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to resolve players: %w", err)
	}

	g, gCtx = errgroup.WithContext(ctx)
	g.SetLimit(8)
	for pd := range deckNames {
		pd := pd
		g.Go(func() error {
			owner, err := s.playerRepo.GetByName(gCtx, pd.PlayerName)
			if err != nil {
				return err
			}
			_, err = s.deckRepo.GetOrCreate(gCtx, pd.DeckName, owner.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to resolve decks: %w", err)
	}

	return nil
}

func (s *ImportService) importOne(ctx context.Context, game ParsedGame) (bool, error) {
	deckIDs, err := s.lookupDeckIDs(ctx, game.Participants)
	if err != nil {
		return false, err
	}
	winnerIDs, err := s.lookupDeckIDs(ctx, game.Winners)
	if err != nil {
		return false, err
	}

	duplicate, err := s.gameRepo.FindDuplicate(ctx, game.Date, deckIDs, winnerIDs, game.Description)
	if err != nil {
		return false, err
	}
	if duplicate != nil {
		s.logger.Debug().
			Time("date", game.Date).
			Int64("existing_game", duplicate.ID).
			Msg("duplicate feed row skipped")
		return false, nil
	}

	_, err = s.gameSvc.SubmitUnrated(ctx, SubmitGameInput{
		Date:               game.Date,
		DeckIDs:            deckIDs,
		WinnerIDs:          winnerIDs,
		WinType:            game.WinType,
		Format:             game.Format,
		NumberOfTurns:      game.NumberOfTurns,
		FirstPlayerOutTurn: game.FirstPlayerOutTurn,
		Description:        game.Description,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ImportService) lookupDeckIDs(ctx context.Context, names []PlayerDeckName) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, pd := range names {
		owner, err := s.playerRepo.GetByName(ctx, pd.PlayerName)
		if err != nil {
			return nil, fmt.Errorf("player %q not resolved: %w", pd.PlayerName, err)
		}
		deck, err := s.deckRepo.GetByOwnerAndName(ctx, owner.ID, pd.DeckName)
		if err != nil {
			return nil, fmt.Errorf("deck %q of player %q not resolved: %w", pd.DeckName, pd.PlayerName, err)
		}
		ids = append(ids, deck.ID)
	}
	return ids, nil
}

func parseFeed(rows [][]string) ([]ParsedGame, error) {
	games := make([]ParsedGame, 0, len(rows))
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		game, err := ParseFeedRow(row)
		if err != nil {
			return nil, fmt.Errorf("feed row %d: %w", i+1, err)
		}
		games = append(games, *game)
	}
	return games, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return true
	}
	_, err := parseFeedDate(row[feedColDate])
	return err != nil
}

// ParseFeedRow decodes one spreadsheet row into a game description with
// entity names still unresolved.
func ParseFeedRow(row []string) (*ParsedGame, error) {
	if len(row) < feedRowWidth {
		padded := make([]string, feedRowWidth)
		copy(padded, row)
		row = padded
	}

	date, err := parseFeedDate(row[feedColDate])
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMissingDate, row[feedColDate])
	}

	game := &ParsedGame{
		Date:               date,
		NumberOfTurns:      parseFeedInt(row[feedColTurns]),
		FirstPlayerOutTurn: parseFeedInt(row[feedColFirstOut]),
		WinType:            strings.TrimSpace(row[feedColWinType]),
		Format:             strings.TrimSpace(row[feedColFormat]),
		Description:        strings.TrimSpace(row[feedColDescription]),
	}

	for i := 0; i < constants.MaxFeedParticipants; i++ {
		playerName := strings.TrimSpace(row[2*i+1])
		deckName := strings.TrimSpace(row[2*(i+1)])
		if playerName == "" && deckName == "" {
			continue
		}
		if playerName == "" {
			return nil, fmt.Errorf("player name is empty for deck %q played on %s", deckName, date.Format("2006-01-02"))
		}
		if deckName == "" {
			return nil, fmt.Errorf("deck name is empty for player %q played on %s", playerName, date.Format("2006-01-02"))
		}
		game.Participants = append(game.Participants, PlayerDeckName{PlayerName: playerName, DeckName: deckName})
	}

	winners, err := parseFeedWinners(row[feedColWinnerName], row[feedColWinnerDeck])
	if err != nil {
		return nil, err
	}
	game.Winners = winners

	// structural checks happen here so a bad row fails the whole feed
	// before any game is ingested
	if len(game.Participants) < 2 {
		return nil, ErrTooFewParticipants
	}
	seen := make(map[PlayerDeckName]struct{}, len(game.Participants))
	for _, p := range game.Participants {
		if _, ok := seen[p]; ok {
			return nil, fmt.Errorf("%w: %s / %s", ErrDuplicateParticipant, p.PlayerName, p.DeckName)
		}
		seen[p] = struct{}{}
	}
	for _, w := range game.Winners {
		if _, ok := seen[w]; !ok {
			return nil, fmt.Errorf("%w: %s / %s", ErrWinnerNotParticipant, w.PlayerName, w.DeckName)
		}
	}

	return game, nil
}

func parseFeedWinners(nameCol, deckCol string) ([]PlayerDeckName, error) {
	nameCol = strings.TrimSpace(nameCol)
	deckCol = strings.TrimSpace(deckCol)

	if !strings.HasPrefix(nameCol, "Tie") {
		if nameCol == "" || deckCol == "" {
			return nil, ErrNoWinners
		}
		return []PlayerDeckName{{PlayerName: nameCol, DeckName: deckCol}}, nil
	}

	playerNames := splitTieList(nameCol)
	deckNames := splitTieList(deckCol)
	if len(playerNames) != len(deckNames) {
		return nil, fmt.Errorf("mismatch between winner player names and deck names")
	}
	if len(playerNames) == 0 {
		return nil, ErrNoWinners
	}

	winners := make([]PlayerDeckName, len(playerNames))
	for i := range playerNames {
		winners[i] = PlayerDeckName{PlayerName: playerNames[i], DeckName: deckNames[i]}
	}
	return winners, nil
}

func splitTieList(col string) []string {
	col = strings.TrimPrefix(col, "Tie")
	col = strings.TrimSpace(col)
	col = strings.TrimPrefix(col, "(")
	col = strings.TrimSuffix(col, ")")
	if col == "" {
		return nil
	}
	parts := strings.Split(col, ";")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func parseFeedDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

func parseFeedInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
