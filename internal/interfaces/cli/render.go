package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/game"
	"github.com/pbarros/chessclub/internal/domain/player"
	"github.com/pbarros/chessclub/internal/domain/tournament"
	"github.com/pbarros/chessclub/internal/platform/cache"
)

func renderJSON(w io.Writer, v any) error {
	out, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

func renderClub(w io.Writer, info club.Club) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", info.Name)
	fmt.Fprintf(tw, "Slug:\t%s\n", info.Slug)
	if info.ProviderID != "" {
		fmt.Fprintf(tw, "ID:\t%s\n", info.ProviderID)
	}
	fmt.Fprintf(tw, "Members:\t%d\n", info.MembersCount)
	if info.Location != "" {
		fmt.Fprintf(tw, "Location:\t%s\n", info.Location)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", fmtUnix(info.CreatedAt))
	if info.URL != "" {
		fmt.Fprintf(tw, "URL:\t%s\n", info.URL)
	}
	return tw.Flush()
}

func renderMembers(w io.Writer, members []club.Member) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tTITLE\tACTIVITY\tJOINED")
	for _, m := range members {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Username, orDash(m.Title), m.Activity, fmtUnix(m.JoinedAt))
	}
	fmt.Fprintf(tw, "total\t%d\n", len(members))
	return tw.Flush()
}

func renderTournaments(w io.Writer, tournaments []tournament.Tournament) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFORMAT\tSTART\tEND\tPLAYERS\tWINNER")
	for _, t := range tournaments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			t.ID, t.Name, t.Format, fmtUnix(t.StartDate), fmtUnix(t.EndDate), t.PlayerCount, orDash(t.WinnerUsername))
	}
	return tw.Flush()
}

func renderStandings(w io.Writer, results []tournament.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tPLAYER\tSCORE\tRATING")
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Position, r.Player, fmtFloat(r.Score), fmtInt(r.Rating))
	}
	return tw.Flush()
}

func renderGames(w io.Writer, games []game.Game) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHITE\tBLACK\tRESULT\tECO\tPLAYED\tAVG ACC")
	for _, g := range games {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			g.White, g.Black, g.Result, orDash(g.OpeningECO), fmtUnix(g.PlayedAt), fmtFloat(g.AvgAccuracy()))
	}
	fmt.Fprintf(tw, "total\t%d\n", len(games))
	return tw.Flush()
}

func renderPlayer(w io.Writer, p player.Player) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", p.Username)
	if p.Name != "" {
		fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	}
	if p.Title != "" {
		fmt.Fprintf(tw, "Title:\t%s\n", p.Title)
	}
	if p.Status != "" {
		fmt.Fprintf(tw, "Status:\t%s\n", p.Status)
	}
	fmt.Fprintf(tw, "Joined:\t%s\n", fmtUnix(p.Joined))
	fmt.Fprintf(tw, "Last online:\t%s\n", fmtUnix(p.LastOnline))
	return tw.Flush()
}

func renderCacheStats(w io.Writer, stats cache.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Entries:\t%d\n", stats.Total)
	fmt.Fprintf(tw, "Active:\t%d\n", stats.Active)
	fmt.Fprintf(tw, "Expired:\t%d\n", stats.Expired)
	fmt.Fprintf(tw, "Size:\t%d bytes\n", stats.SizeBytes)
	return tw.Flush()
}

func fmtUnix(ts *int64) string {
	if ts == nil {
		return "-"
	}
	return time.Unix(*ts, 0).UTC().Format("2006-01-02 15:04")
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func fmtInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
