package chesscom

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	ants "github.com/panjf2000/ants/v2"

	"github.com/pbarros/chessclub/internal/domain/game"
	"github.com/pbarros/chessclub/internal/domain/tournament"
)

// GetTournamentGames reconstructs the game list of a tournament from the
// monthly archives of its participants. Chess.com has no per-tournament
// games endpoint, so each participant's archives covering the tournament
// window are scanned and filtered down to games between participants.
func (c *Client) GetTournamentGames(ctx context.Context, t tournament.Tournament) ([]game.Game, error) {
	if !t.HasWindow() {
		return nil, nil
	}

	participants, err := c.ResolveParticipants(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(participants) == 0 {
		return nil, nil
	}

	start := *t.StartDate
	effectiveEnd := *t.EndDate
	if start > effectiveEnd {
		effectiveEnd = start
	}
	// Arena games routinely finish after the scheduled end.
	effectiveEnd += int64(c.endBuffer / time.Second)

	usernames := make([]string, 0, len(participants))
	for username := range participants {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)

	months := monthsInRange(start, effectiveEnd)

	var games []game.Game
	if c.scanWorkers > 1 {
		games, err = c.scanArchivesConcurrent(ctx, t, usernames, months, participants, start, effectiveEnd)
	} else {
		games, err = c.scanArchives(ctx, t, usernames, months, participants, start, effectiveEnd)
	}
	if err != nil {
		return nil, err
	}

	game.SortByAccuracy(games)
	return games, nil
}

func (c *Client) scanArchives(
	ctx context.Context,
	t tournament.Tournament,
	usernames []string,
	months []archiveMonth,
	participants map[string]struct{},
	start, effectiveEnd int64,
) ([]game.Game, error) {
	seen := make(map[string]struct{})
	var games []game.Game
	for _, username := range usernames {
		for _, month := range months {
			found, err := c.fetchArchiveGames(ctx, t, username, month, participants, start, effectiveEnd)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.WarnContext(ctx, "archive fetch failed, skipping",
					"tournament_id", t.ID,
					"player", username,
					"year", month.year,
					"month", int(month.month),
					"error", err,
				)
				continue
			}
			for _, g := range found {
				key := g.DedupKey()
				if _, exists := seen[key]; exists {
					continue
				}
				seen[key] = struct{}{}
				games = append(games, g)
			}
			if err := sleepContext(ctx, c.requestDelay); err != nil {
				return nil, err
			}
		}
	}
	return games, nil
}

func (c *Client) scanArchivesConcurrent(
	ctx context.Context,
	t tournament.Tournament,
	usernames []string,
	months []archiveMonth,
	participants map[string]struct{},
	start, effectiveEnd int64,
) ([]game.Game, error) {
	pool, err := ants.NewPool(c.scanWorkers)
	if err != nil {
		return nil, fmt.Errorf("create archive scan pool: %w", err)
	}
	defer pool.Release()

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		seen  = make(map[string]struct{})
		games []game.Game
	)

	for _, username := range usernames {
		for _, month := range months {
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			submitErr := pool.Submit(func() {
				defer wg.Done()
				found, fetchErr := c.fetchArchiveGames(ctx, t, username, month, participants, start, effectiveEnd)
				if fetchErr != nil {
					if ctx.Err() == nil {
						c.logger.WarnContext(ctx, "archive fetch failed, skipping",
							"tournament_id", t.ID,
							"player", username,
							"year", month.year,
							"month", int(month.month),
							"error", fetchErr,
						)
					}
					return
				}
				mu.Lock()
				for _, g := range found {
					key := g.DedupKey()
					if _, exists := seen[key]; exists {
						continue
					}
					seen[key] = struct{}{}
					games = append(games, g)
				}
				mu.Unlock()
				_ = sleepContext(ctx, c.requestDelay)
			})
			if submitErr != nil {
				wg.Done()
				c.logger.WarnContext(ctx, "archive scan submit failed", "error", submitErr)
			}
		}
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return games, nil
}

// fetchArchiveGames pulls one player's monthly archive and keeps games
// played between participants inside [start, effectiveEnd]. A missing
// archive just means the player had no games that month.
func (c *Client) fetchArchiveGames(
	ctx context.Context,
	t tournament.Tournament,
	username string,
	month archiveMonth,
	participants map[string]struct{},
	start, effectiveEnd int64,
) ([]game.Game, error) {
	rawURL := fmt.Sprintf("%s/player/%s/games/%d/%02d", c.baseURL, username, month.year, int(month.month))
	status, body, err := c.get(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, fmt.Errorf("chess.com status=%d fetching archive", status)
	}

	var payload archivePayload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode archive payload: %w", err)
	}

	var games []game.Game
	for _, entry := range payload.Games {
		if entry.EndTime == nil || *entry.EndTime < start || *entry.EndTime > effectiveEnd {
			continue
		}
		if !inParticipants(participants, entry.White.Username) || !inParticipants(participants, entry.Black.Username) {
			continue
		}
		games = append(games, mapGame(entry, t.ID))
	}
	return games, nil
}

func inParticipants(participants map[string]struct{}, username string) bool {
	if username == "" {
		return false
	}
	_, ok := participants[strings.ToLower(username)]
	return ok
}

// GetClubGames aggregates reconstructed games across the club's most
// recent tournaments, newest first. lastN<=0 means all of them.
func (c *Client) GetClubGames(ctx context.Context, slug string, lastN int) ([]game.Game, error) {
	tournaments, err := c.GetClubTournaments(ctx, slug)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(tournaments, func(i, j int) bool {
		return tournamentEndValue(tournaments[i]) > tournamentEndValue(tournaments[j])
	})
	if lastN > 0 && len(tournaments) > lastN {
		tournaments = tournaments[:lastN]
	}

	seen := make(map[string]struct{})
	var games []game.Game
	for _, t := range tournaments {
		found, err := c.GetTournamentGames(ctx, t)
		if err != nil {
			return nil, err
		}
		for _, g := range found {
			// Keyed by players and timestamp so the same game reached
			// through two tournaments collapses even when URLs differ.
			key := game.PairKey(g.White, g.Black, g.PlayedAt)
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}
			games = append(games, g)
		}
	}

	game.SortByAccuracy(games)
	return games, nil
}

// Tournaments without an end date sort as oldest: they can never yield
// games, so they must not crowd a scannable tournament out of a lastN cut.
func tournamentEndValue(t tournament.Tournament) int64 {
	if t.EndDate == nil {
		return 0
	}
	return *t.EndDate
}
