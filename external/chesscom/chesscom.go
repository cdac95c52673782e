// Package chesscom implements the Chess.com provider. Club metadata and
// game archives come from the public REST API (api.chess.com/pub); club
// tournament listings and leaderboards come from the session-authenticated
// web API (www.chess.com/callback).
package chesscom

import (
	"strconv"
	"strings"

	"github.com/pbarros/chessclub/internal/domain/club"
	"github.com/pbarros/chessclub/internal/domain/game"
	"github.com/pbarros/chessclub/internal/domain/player"
	"github.com/pbarros/chessclub/internal/domain/tournament"
)

type clubPayload struct {
	ClubID       int64  `json:"club_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Country      string `json:"country"`
	URL          string `json:"url"`
	MembersCount int    `json:"members_count"`
	Created      *int64 `json:"created"`
	Location     string `json:"location"`
}

type memberEntry struct {
	Username string `json:"username"`
	Joined   *int64 `json:"joined"`
}

// The members endpoint groups usernames by activity tier.
type membersPayload struct {
	Weekly  []memberEntry `json:"weekly"`
	Monthly []memberEntry `json:"monthly"`
	AllTime []memberEntry `json:"all_time"`
}

type tournamentWinner struct {
	Username string   `json:"username"`
	Score    *float64 `json:"score"`
}

type tournamentEntry struct {
	ID                  int64             `json:"id"`
	Name                string            `json:"name"`
	StartTime           *int64            `json:"start_time"`
	EndTime             *int64            `json:"end_time"`
	RegisteredUserCount int               `json:"registered_user_count"`
	Winner              *tournamentWinner `json:"winner"`
}

type tournamentsPage struct {
	LiveTournament []tournamentEntry `json:"live_tournament"`
	Arena          []tournamentEntry `json:"arena"`
}

type leaderboardEntry struct {
	Username string   `json:"username"`
	Rank     int      `json:"rank"`
	Score    *float64 `json:"score"`
	Rating   *int     `json:"rating"`
}

type leaderboardPayload struct {
	Players []leaderboardEntry `json:"players"`
}

type archiveSide struct {
	Username string `json:"username"`
	Result   string `json:"result"`
}

type archiveAccuracies struct {
	White *float64 `json:"white"`
	Black *float64 `json:"black"`
}

type archiveGameEntry struct {
	URL        string             `json:"url"`
	PGN        string             `json:"pgn"`
	ECO        string             `json:"eco"`
	EndTime    *int64             `json:"end_time"`
	White      archiveSide        `json:"white"`
	Black      archiveSide        `json:"black"`
	Accuracies *archiveAccuracies `json:"accuracies"`
}

type archivePayload struct {
	Games []archiveGameEntry `json:"games"`
}

type playerPayload struct {
	Username   string `json:"username"`
	Name       string `json:"name"`
	Title      string `json:"title"`
	Country    string `json:"country"`
	Status     string `json:"status"`
	Joined     *int64 `json:"joined"`
	LastOnline *int64 `json:"last_online"`
}

func mapClub(slug string, payload clubPayload) club.Club {
	providerID := ""
	if payload.ClubID > 0 {
		providerID = strconv.FormatInt(payload.ClubID, 10)
	}
	return club.Club{
		Slug:         slug,
		ProviderID:   providerID,
		Name:         payload.Name,
		Description:  payload.Description,
		Country:      payload.Country,
		URL:          payload.URL,
		Location:     payload.Location,
		MembersCount: payload.MembersCount,
		CreatedAt:    payload.Created,
	}
}

func mapMembers(payload membersPayload) []club.Member {
	groups := []struct {
		activity string
		entries  []memberEntry
	}{
		{club.ActivityWeekly, payload.Weekly},
		{club.ActivityMonthly, payload.Monthly},
		{club.ActivityAllTime, payload.AllTime},
	}

	var members []club.Member
	for _, group := range groups {
		for _, entry := range group.entries {
			if entry.Username == "" {
				continue
			}
			members = append(members, club.Member{
				Username: entry.Username,
				JoinedAt: entry.Joined,
				Activity: group.activity,
			})
		}
	}
	return members
}

func mapTournament(entry tournamentEntry, format, clubSlug string) tournament.Tournament {
	t := tournament.Tournament{
		ID:          strconv.FormatInt(entry.ID, 10),
		Name:        entry.Name,
		Format:      format,
		Status:      tournament.StatusFinished,
		StartDate:   entry.StartTime,
		EndDate:     entry.EndTime,
		PlayerCount: entry.RegisteredUserCount,
		ClubSlug:    clubSlug,
	}
	if entry.Winner != nil {
		t.WinnerUsername = entry.Winner.Username
		t.WinnerScore = entry.Winner.Score
	}
	return t
}

func mapResult(entry leaderboardEntry, tournamentID string) tournament.Result {
	return tournament.Result{
		TournamentID: tournamentID,
		Player:       entry.Username,
		Position:     entry.Rank,
		Score:        entry.Score,
		Rating:       entry.Rating,
	}
}

func mapGame(entry archiveGameEntry, tournamentID string) game.Game {
	result := game.ResultDraw
	switch {
	case strings.EqualFold(entry.White.Result, "win"):
		result = game.ResultWhiteWins
	case strings.EqualFold(entry.Black.Result, "win"):
		result = game.ResultBlackWins
	}

	g := game.Game{
		White:        entry.White.Username,
		Black:        entry.Black.Username,
		Result:       result,
		OpeningECO:   entry.ECO,
		PGN:          entry.PGN,
		PlayedAt:     entry.EndTime,
		TournamentID: tournamentID,
		URL:          entry.URL,
	}
	if entry.Accuracies != nil {
		g.WhiteAccuracy = entry.Accuracies.White
		g.BlackAccuracy = entry.Accuracies.Black
	}
	return g
}

func mapPlayer(username string, payload playerPayload) player.Player {
	if payload.Username != "" {
		username = payload.Username
	}
	return player.Player{
		Username:   username,
		Name:       payload.Name,
		Title:      payload.Title,
		Country:    payload.Country,
		Status:     payload.Status,
		Joined:     payload.Joined,
		LastOnline: payload.LastOnline,
	}
}
