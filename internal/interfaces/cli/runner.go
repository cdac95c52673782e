// Package cli dispatches subcommands and renders results as aligned
// tables or JSON.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/tournament"
	"github.com/pbarros/chessclub/internal/platform/cache"
	"github.com/pbarros/chessclub/internal/platform/logging"
	"github.com/pbarros/chessclub/internal/usecase"
)

const usageText = `usage: chessclub <command> [flags]

commands:
  club <slug>                      show club profile
  members <slug> [-titles]         list club members
  tournaments <slug>               list finished club tournaments
  standings <id> [-format f]       tournament leaderboard (swiss|arena)
  games <slug> [-last n] [-tournament id]
                                   reconstructed tournament games
  player <username>                show player profile
  cache stats|clear|purge          response cache maintenance

every command accepts -json for machine-readable output
`

type Runner struct {
	service *usecase.ClubService
	store   *cache.Store
	out     io.Writer
	logger  *logging.Logger
}

func NewRunner(service *usecase.ClubService, store *cache.Store, out io.Writer, logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{service: service, store: store, out: out, logger: logger}
}

func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(r.out, usageText)
		return fmt.Errorf("missing command")
	}

	command, rest := args[0], args[1:]
	switch command {
	case "club":
		return r.runClub(ctx, rest)
	case "members":
		return r.runMembers(ctx, rest)
	case "tournaments":
		return r.runTournaments(ctx, rest)
	case "standings":
		return r.runStandings(ctx, rest)
	case "games":
		return r.runGames(ctx, rest)
	case "player":
		return r.runPlayer(ctx, rest)
	case "cache":
		return r.runCache(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(r.out, usageText)
		return nil
	default:
		fmt.Fprint(r.out, usageText)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (r *Runner) newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.out)
	jsonOut := fs.Bool("json", false, "emit JSON instead of a table")
	return fs, jsonOut
}

func (r *Runner) runClub(ctx context.Context, args []string) error {
	fs, jsonOut := r.newFlagSet("club")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chessclub club <slug>")
	}

	info, err := r.service.Club(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *jsonOut {
		return renderJSON(r.out, info)
	}
	return renderClub(r.out, info)
}

func (r *Runner) runMembers(ctx context.Context, args []string) error {
	fs, jsonOut := r.newFlagSet("members")
	withTitles := fs.Bool("titles", false, "fetch player profiles to include titles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chessclub members <slug> [-titles]")
	}

	var err error
	var members []club.Member
	if *withTitles {
		members, err = r.service.MembersWithTitles(ctx, fs.Arg(0))
	} else {
		members, err = r.service.Members(ctx, fs.Arg(0))
	}
	if err != nil {
		return err
	}
	if *jsonOut {
		return renderJSON(r.out, members)
	}
	return renderMembers(r.out, members)
}

func (r *Runner) runTournaments(ctx context.Context, args []string) error {
	fs, jsonOut := r.newFlagSet("tournaments")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chessclub tournaments <slug>")
	}

	tournaments, err := r.service.Tournaments(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *jsonOut {
		return renderJSON(r.out, tournaments)
	}
	return renderTournaments(r.out, tournaments)
}

func (r *Runner) runStandings(ctx context.Context, args []string) error {
	fs, jsonOut := r.newFlagSet("standings")
	format := fs.String("format", tournament.FormatSwiss, "tournament format (swiss|arena)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chessclub standings <tournament-id> [-format swiss|arena]")
	}

	results, err := r.service.TournamentStandings(ctx, fs.Arg(0), *format)
	if err != nil {
		return err
	}
	if *jsonOut {
		return renderJSON(r.out, results)
	}
	return renderStandings(r.out, results)
}

func (r *Runner) runGames(ctx context.Context, args []string) error {
	fs, jsonOut := r.newFlagSet("games")
	lastN := fs.Int("last", 0, "limit to the n most recent tournaments (0 = all)")
	tournamentID := fs.String("tournament", "", "reconstruct a single tournament by id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chessclub games <slug> [-last n] [-tournament id]")
	}
	slug := fs.Arg(0)

	if id := strings.TrimSpace(*tournamentID); id != "" {
		tournaments, err := r.service.Tournaments(ctx, slug)
		if err != nil {
			return err
		}
		for _, t := range tournaments {
			if t.ID != id {
				continue
			}
			games, err := r.service.TournamentGames(ctx, t)
			if err != nil {
				return err
			}
			if *jsonOut {
				return renderJSON(r.out, games)
			}
			return renderGames(r.out, games)
		}
		return fmt.Errorf("%w: tournament %s in club %s", usecase.ErrNotFound, id, slug)
	}

	games, err := r.service.ClubGames(ctx, slug, *lastN)
	if err != nil {
		return err
	}
	if *jsonOut {
		return renderJSON(r.out, games)
	}
	return renderGames(r.out, games)
}

func (r *Runner) runPlayer(ctx context.Context, args []string) error {
	fs, jsonOut := r.newFlagSet("player")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chessclub player <username>")
	}

	profile, err := r.service.Player(ctx, fs.Arg(0))
	if err != nil {
		return err
	}
	if *jsonOut {
		return renderJSON(r.out, profile)
	}
	return renderPlayer(r.out, profile)
}

func (r *Runner) runCache(ctx context.Context, args []string) error {
	fs, jsonOut := r.newFlagSet("cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: chessclub cache stats|clear|purge")
	}
	if r.store == nil {
		return fmt.Errorf("response cache is disabled")
	}

	switch action := fs.Arg(0); action {
	case "stats":
		stats, err := r.store.Stats(ctx)
		if err != nil {
			return err
		}
		if *jsonOut {
			return renderJSON(r.out, stats)
		}
		return renderCacheStats(r.out, stats)
	case "clear":
		removed, err := r.store.Clear(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "removed %d entries\n", removed)
		return nil
	case "purge":
		removed, err := r.store.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "removed %d expired entries\n", removed)
		return nil
	default:
		return fmt.Errorf("unknown cache action %q", action)
	}
}
