package chesscom

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Freshness policy per URL shape. Closed archives never change, so they
// get the longest lifetime; rosters and current-month archives churn.
const (
	ttlArchivePast    = 30 * 24 * time.Hour
	ttlArchiveCurrent = time.Hour
	ttlPlayerProfile  = 24 * time.Hour
	ttlClubMembers    = time.Hour
	ttlClubInfo       = 24 * time.Hour
	ttlLeaderboard    = 7 * 24 * time.Hour
	ttlTournamentList = 30 * time.Minute
)

var (
	archivePattern       = regexp.MustCompile(`/games/(\d{4})/(\d{2})$`)
	playerPattern        = regexp.MustCompile(`/pub/player/[^/]+$`)
	clubMembersPattern   = regexp.MustCompile(`/pub/club/[^/]+/members$`)
	clubInfoPattern      = regexp.MustCompile(`/pub/club/[^/]+$`)
	leaderboardPattern   = regexp.MustCompile(`/leaderboard$`)
	pastTournamentsToken = "/clubs/live/past/"
)

// cacheTTL decides how long a response for rawURL stays fresh. Zero means
// the response must not be cached.
func cacheTTL(rawURL string, now time.Time) time.Duration {
	if m := archivePattern.FindStringSubmatch(rawURL); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		nowUTC := now.UTC()
		// Only months strictly in the past are closed; the current month and
		// anything beyond it can still gain games.
		if year < nowUTC.Year() || (year == nowUTC.Year() && time.Month(month) < nowUTC.Month()) {
			return ttlArchivePast
		}
		return ttlArchiveCurrent
	}
	if clubMembersPattern.MatchString(rawURL) {
		return ttlClubMembers
	}
	if playerPattern.MatchString(rawURL) {
		return ttlPlayerProfile
	}
	if clubInfoPattern.MatchString(rawURL) {
		return ttlClubInfo
	}
	if leaderboardPattern.MatchString(rawURL) {
		return ttlLeaderboard
	}
	if strings.Contains(rawURL, pastTournamentsToken) {
		return ttlTournamentList
	}
	return 0
}
