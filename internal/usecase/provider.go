package usecase

import (
	"context"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/game"
	"github.com/pbarros/chessclub/internal/domain/player"
	"github.com/pbarros/chessclub/internal/domain/tournament"
)

// ChessProvider is the capability surface one upstream chess platform must
// implement. The rest of the system depends only on this interface; there
// is exactly one concrete implementation per platform.
type ChessProvider interface {
	GetClub(ctx context.Context, slug string) (club.Club, error)
	GetClubMembers(ctx context.Context, slug string) ([]club.Member, error)
	GetClubTournaments(ctx context.Context, slug string) ([]tournament.Tournament, error)
	GetTournamentResults(ctx context.Context, tournamentID, format string) ([]tournament.Result, error)

	// ResolveParticipants returns the lowercase username set that played in
	// the tournament, or an empty set when it cannot be determined. An
	// empty set means "no games derivable", not an error.
	ResolveParticipants(ctx context.Context, t tournament.Tournament) (map[string]struct{}, error)

	// GetTournamentGames reconstructs the games played inside one
	// tournament, deduplicated and ordered best-to-worst by average
	// review accuracy.
	GetTournamentGames(ctx context.Context, t tournament.Tournament) ([]game.Game, error)

	// GetClubGames aggregates tournament games across every tournament the
	// club organised, or only the lastN most recent when lastN > 0.
	GetClubGames(ctx context.Context, slug string, lastN int) ([]game.Game, error)

	GetPlayer(ctx context.Context, username string) (player.Player, error)
}
