package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/game"
	"github.com/pbarros/chessclub/internal/domain/player"
	"github.com/pbarros/chessclub/internal/domain/tournament"
	"github.com/pbarros/chessclub/internal/platform/logging"
	"github.com/pbarros/chessclub/internal/usecase"
)

type stubProvider struct {
	club        club.Club
	members     []club.Member
	tournaments []tournament.Tournament
	results     []tournament.Result
	games       []game.Game
	player      player.Player
}

func (p *stubProvider) GetClub(context.Context, string) (club.Club, error) {
	return p.club, nil
}

func (p *stubProvider) GetClubMembers(context.Context, string) ([]club.Member, error) {
	return p.members, nil
}

func (p *stubProvider) GetClubTournaments(context.Context, string) ([]tournament.Tournament, error) {
	return p.tournaments, nil
}

func (p *stubProvider) GetTournamentResults(context.Context, string, string) ([]tournament.Result, error) {
	return p.results, nil
}

func (p *stubProvider) ResolveParticipants(context.Context, tournament.Tournament) (map[string]struct{}, error) {
	return nil, nil
}

func (p *stubProvider) GetTournamentGames(context.Context, tournament.Tournament) ([]game.Game, error) {
	return p.games, nil
}

func (p *stubProvider) GetClubGames(context.Context, string, int) ([]game.Game, error) {
	return p.games, nil
}

func (p *stubProvider) GetPlayer(context.Context, string) (player.Player, error) {
	return p.player, nil
}

func newTestRunner(provider usecase.ChessProvider) (*Runner, *bytes.Buffer) {
	out := &bytes.Buffer{}
	service := usecase.NewClubService(provider, logging.NewNop(), 0)
	return NewRunner(service, nil, out, logging.NewNop()), out
}

func TestRunClubTable(t *testing.T) {
	t.Parallel()

	runner, out := newTestRunner(&stubProvider{
		club: club.Club{Slug: "demo-club", Name: "Demo Club", MembersCount: 42},
	})

	err := runner.Run(context.Background(), []string{"club", "demo-club"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Demo Club")
	require.Contains(t, out.String(), "42")
}

func TestRunClubJSON(t *testing.T) {
	t.Parallel()

	runner, out := newTestRunner(&stubProvider{
		club: club.Club{Slug: "demo-club", Name: "Demo Club"},
	})

	err := runner.Run(context.Background(), []string{"club", "-json", "demo-club"})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(out.Bytes(), &decoded))
	require.Equal(t, "Demo Club", decoded["Name"])
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	runner, out := newTestRunner(&stubProvider{})
	err := runner.Run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	require.Contains(t, out.String(), "usage:")
}

func TestRunGamesForMissingTournament(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(&stubProvider{
		tournaments: []tournament.Tournament{{ID: "1", Name: "Known"}},
	})

	err := runner.Run(context.Background(), []string{"games", "-tournament", "2", "demo-club"})
	require.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestRunStandingsRejectsBadFormat(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(&stubProvider{})
	err := runner.Run(context.Background(), []string{"standings", "-format", "blitz", "999"})
	require.ErrorIs(t, err, usecase.ErrInvalidInput)
}

func TestRunCacheWithoutStore(t *testing.T) {
	t.Parallel()

	runner, _ := newTestRunner(&stubProvider{})
	err := runner.Run(context.Background(), []string{"cache", "stats"})
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "disabled"))
}

func TestRunGamesTableShowsAccuracy(t *testing.T) {
	t.Parallel()

	white, black := 88.0, 82.0
	runner, out := newTestRunner(&stubProvider{
		games: []game.Game{{
			White:         "alice",
			Black:         "bob",
			Result:        game.ResultWhiteWins,
			WhiteAccuracy: &white,
			BlackAccuracy: &black,
		}},
	})

	err := runner.Run(context.Background(), []string{"games", "demo-club"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "85.0")
}
