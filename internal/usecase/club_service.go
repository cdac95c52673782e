package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/game"
	"github.com/pbarros/chessclub/internal/domain/player"
	"github.com/pbarros/chessclub/internal/domain/tournament"
	"github.com/pbarros/chessclub/internal/platform/logging"
)

// ClubService fronts a ChessProvider with input validation, tracing and the
// member-detail enrichment the provider itself does not do.
type ClubService struct {
	provider     ChessProvider
	logger       *logging.Logger
	profileDelay time.Duration
}

func NewClubService(provider ChessProvider, logger *logging.Logger, profileDelay time.Duration) *ClubService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ClubService{
		provider:     provider,
		logger:       logger,
		profileDelay: profileDelay,
	}
}

func (s *ClubService) Club(ctx context.Context, slug string) (club.Club, error) {
	ctx, span := startUsecaseSpan(ctx, "club.info")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return club.Club{}, fmt.Errorf("%w: club slug is required", ErrInvalidInput)
	}
	return s.provider.GetClub(ctx, slug)
}

func (s *ClubService) Members(ctx context.Context, slug string) ([]club.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "club.members")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: club slug is required", ErrInvalidInput)
	}
	return s.provider.GetClubMembers(ctx, slug)
}

// MembersWithTitles fetches the roster and enriches each member with the
// title from their public profile. One profile call per member, paced by
// profileDelay; a member whose profile cannot be fetched keeps an empty
// title instead of failing the whole listing.
func (s *ClubService) MembersWithTitles(ctx context.Context, slug string) ([]club.Member, error) {
	members, err := s.Members(ctx, slug)
	if err != nil {
		return nil, err
	}

	for i := range members {
		profile, err := s.provider.GetPlayer(ctx, members[i].Username)
		if err != nil {
			s.logger.WarnContext(ctx, "player profile fetch failed, skipping title",
				"username", members[i].Username,
				"error", err,
			)
		} else {
			members[i].Title = profile.Title
		}

		if s.profileDelay > 0 {
			timer := time.NewTimer(s.profileDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return members, nil
}

func (s *ClubService) Tournaments(ctx context.Context, slug string) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "club.tournaments")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: club slug is required", ErrInvalidInput)
	}
	return s.provider.GetClubTournaments(ctx, slug)
}

func (s *ClubService) TournamentStandings(ctx context.Context, tournamentID, format string) ([]tournament.Result, error) {
	ctx, span := startUsecaseSpan(ctx, "tournament.standings")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	if format != tournament.FormatSwiss && format != tournament.FormatArena {
		return nil, fmt.Errorf("%w: format must be %q or %q", ErrInvalidInput, tournament.FormatSwiss, tournament.FormatArena)
	}
	return s.provider.GetTournamentResults(ctx, tournamentID, format)
}

func (s *ClubService) TournamentGames(ctx context.Context, t tournament.Tournament) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "tournament.games")
	defer span.End()

	if strings.TrimSpace(t.ID) == "" {
		return nil, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}
	return s.provider.GetTournamentGames(ctx, t)
}

func (s *ClubService) ClubGames(ctx context.Context, slug string, lastN int) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "club.games")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, fmt.Errorf("%w: club slug is required", ErrInvalidInput)
	}
	if lastN < 0 {
		return nil, fmt.Errorf("%w: last-n must be >= 0", ErrInvalidInput)
	}
	return s.provider.GetClubGames(ctx, slug, lastN)
}

func (s *ClubService) Player(ctx context.Context, username string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "player.profile")
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return player.Player{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	return s.provider.GetPlayer(ctx, username)
}
