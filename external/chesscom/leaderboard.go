package chesscom

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pbarros/chessclub/internal/domain/tournament"
	"github.com/pbarros/chessclub/internal/usecase"
)

const leaderboardAttempts = 3

// GetTournamentResults fetches the final leaderboard of a tournament. The
// web API uses a different URL shape per format and club listings
// misreport the format often enough that both shapes are probed, declared
// format first.
func (c *Client) GetTournamentResults(ctx context.Context, tournamentID, format string) ([]tournament.Result, error) {
	for _, rawURL := range c.leaderboardURLs(tournamentID, format) {
		results, found, err := c.tryLeaderboard(ctx, rawURL, tournamentID)
		if err != nil {
			return nil, err
		}
		if found {
			return results, nil
		}
	}
	return nil, nil
}

func (c *Client) leaderboardURLs(tournamentID, format string) []string {
	return []string{
		c.leaderboardURL(tournamentID, format),
		c.leaderboardURL(tournamentID, tournament.AlternateFormat(format)),
	}
}

func (c *Client) leaderboardURL(tournamentID, format string) string {
	if format == tournament.FormatSwiss {
		return c.webBaseURL + "/callback/live-tournament/" + tournamentID + "/leaderboard"
	}
	return c.webBaseURL + "/callback/live/tournament/" + tournamentID + "/leaderboard"
}

// tryLeaderboard probes one URL shape. found=false means 404: the caller
// should try the alternate shape. Persistent rate limiting gives up on
// this tournament with an empty leaderboard rather than failing the run.
func (c *Client) tryLeaderboard(ctx context.Context, rawURL, tournamentID string) ([]tournament.Result, bool, error) {
	for attempt := 0; attempt < leaderboardAttempts; attempt++ {
		status, body, err := c.get(ctx, rawURL, nil)
		if err != nil {
			return nil, false, fmt.Errorf("fetch leaderboard %s: %w", tournamentID, err)
		}

		switch status {
		case http.StatusOK:
			var payload leaderboardPayload
			if err := sonic.Unmarshal(body, &payload); err != nil {
				return nil, false, fmt.Errorf("decode leaderboard payload: %w", err)
			}
			results := make([]tournament.Result, 0, len(payload.Players))
			for _, entry := range payload.Players {
				if entry.Username == "" {
					continue
				}
				results = append(results, mapResult(entry, tournamentID))
			}
			return results, true, nil
		case http.StatusUnauthorized:
			return nil, false, fmt.Errorf("%w: tournament leaderboard", usecase.ErrAuthRequired)
		case http.StatusNotFound:
			return nil, false, nil
		case http.StatusTooManyRequests:
			backoff := c.backoffBase * time.Duration(1<<attempt)
			if err := sleepContext(ctx, backoff); err != nil {
				return nil, false, err
			}
		default:
			return nil, false, fmt.Errorf("chess.com status=%d fetching leaderboard %s", status, tournamentID)
		}
	}

	c.logger.WarnContext(ctx, "leaderboard rate limited, skipping tournament",
		"tournament_id", tournamentID,
		"attempts", leaderboardAttempts,
	)
	return nil, true, nil
}

// ResolveParticipants turns a tournament into the lowercase username set
// used to filter archive games. When the leaderboard is gone but the
// listing says people played, the club roster stands in: every participant
// is a member, so member-vs-member games inside the window are treated as
// tournament games.
func (c *Client) ResolveParticipants(ctx context.Context, t tournament.Tournament) (map[string]struct{}, error) {
	results, err := c.GetTournamentResults(ctx, t.ID, t.Format)
	if err != nil {
		return nil, err
	}

	participants := make(map[string]struct{}, len(results))
	for _, result := range results {
		if result.Player == "" {
			continue
		}
		participants[strings.ToLower(result.Player)] = struct{}{}
	}
	if len(participants) > 0 {
		return participants, nil
	}

	if t.PlayerCount <= 0 || t.ClubSlug == "" {
		return participants, nil
	}

	members, err := c.GetClubMembers(ctx, t.ClubSlug)
	if err != nil {
		return nil, fmt.Errorf("roster fallback for tournament %s: %w", t.ID, err)
	}
	c.logger.InfoContext(ctx, "leaderboard empty, using club roster as participant set",
		"tournament_id", t.ID,
		"club", t.ClubSlug,
		"members", len(members),
	)
	for _, member := range members {
		if member.Username == "" {
			continue
		}
		participants[strings.ToLower(member.Username)] = struct{}{}
	}
	return participants, nil
}
