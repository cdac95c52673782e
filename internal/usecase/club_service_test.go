package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/game"
	"github.com/pbarros/chessclub/internal/domain/player"
	"github.com/pbarros/chessclub/internal/domain/tournament"
	"github.com/pbarros/chessclub/internal/platform/logging"
)

type fakeProvider struct {
	ChessProvider

	members      []club.Member
	membersErr   error
	players      map[string]player.Player
	playerErr    error
	playerCalls  []string
	clubGames    []game.Game
	clubGamesErr error
}

func (f *fakeProvider) GetClubMembers(_ context.Context, _ string) ([]club.Member, error) {
	return f.members, f.membersErr
}

func (f *fakeProvider) GetPlayer(_ context.Context, username string) (player.Player, error) {
	f.playerCalls = append(f.playerCalls, username)
	if f.playerErr != nil {
		return player.Player{}, f.playerErr
	}
	return f.players[username], nil
}

func (f *fakeProvider) GetClubGames(_ context.Context, _ string, _ int) ([]game.Game, error) {
	return f.clubGames, f.clubGamesErr
}

func TestClubService_RejectsBlankInput(t *testing.T) {
	t.Parallel()

	svc := NewClubService(&fakeProvider{}, logging.NewNop(), 0)
	ctx := context.Background()

	if _, err := svc.Club(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
	if _, err := svc.Members(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
	if _, err := svc.TournamentStandings(ctx, "900", "blitz"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown format, got=%v", err)
	}
	if _, err := svc.ClubGames(ctx, "demo-club", -1); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative last-n, got=%v", err)
	}
	if _, err := svc.Player(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}

func TestClubService_MembersWithTitles(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		members: []club.Member{
			{Username: "alice", Activity: club.ActivityWeekly},
			{Username: "bob", Activity: club.ActivityMonthly},
		},
		players: map[string]player.Player{
			"alice": {Username: "alice", Title: "FM"},
			"bob":   {Username: "bob"},
		},
	}
	svc := NewClubService(provider, logging.NewNop(), 0)

	members, err := svc.MembersWithTitles(context.Background(), "demo-club")
	if err != nil {
		t.Fatalf("members with titles: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got=%d", len(members))
	}
	if members[0].Title != "FM" {
		t.Fatalf("expected alice title FM, got=%q", members[0].Title)
	}
	if members[1].Title != "" {
		t.Fatalf("expected bob untitled, got=%q", members[1].Title)
	}
	if len(provider.playerCalls) != 2 {
		t.Fatalf("expected one profile call per member, got=%d", len(provider.playerCalls))
	}
}

func TestClubService_MembersWithTitles_ProfileFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	provider := &fakeProvider{
		members:   []club.Member{{Username: "alice"}},
		playerErr: errors.New("upstream 500"),
	}
	svc := NewClubService(provider, logging.NewNop(), 0)

	members, err := svc.MembersWithTitles(context.Background(), "demo-club")
	if err != nil {
		t.Fatalf("profile failure must not abort the listing: %v", err)
	}
	if members[0].Title != "" {
		t.Fatalf("expected empty title, got=%q", members[0].Title)
	}
}

func TestClubService_ClubGames_PassThrough(t *testing.T) {
	t.Parallel()

	want := []game.Game{{White: "alice", Black: "bob", Result: game.ResultWhiteWins}}
	svc := NewClubService(&fakeProvider{clubGames: want}, logging.NewNop(), 0)

	got, err := svc.ClubGames(context.Background(), "demo-club", 0)
	if err != nil {
		t.Fatalf("club games: %v", err)
	}
	if len(got) != 1 || got[0].White != "alice" {
		t.Fatalf("unexpected games: %+v", got)
	}
}

func TestClubService_TournamentGames_RequiresID(t *testing.T) {
	t.Parallel()

	svc := NewClubService(&fakeProvider{}, logging.NewNop(), 0)
	_, err := svc.TournamentGames(context.Background(), tournament.Tournament{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got=%v", err)
	}
}
