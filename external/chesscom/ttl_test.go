package chesscom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheTTL(t *testing.T) {
	t.Parallel()

	now := time.Date(2023, time.November, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		url  string
		want time.Duration
	}{
		{
			name: "closed archive month",
			url:  "https://api.chess.com/pub/player/alice/games/2023/10",
			want: ttlArchivePast,
		},
		{
			name: "current archive month",
			url:  "https://api.chess.com/pub/player/alice/games/2023/11",
			want: ttlArchiveCurrent,
		},
		{
			name: "player profile",
			url:  "https://api.chess.com/pub/player/alice",
			want: ttlPlayerProfile,
		},
		{
			name: "club members",
			url:  "https://api.chess.com/pub/club/demo-club/members",
			want: ttlClubMembers,
		},
		{
			name: "club profile",
			url:  "https://api.chess.com/pub/club/demo-club",
			want: ttlClubInfo,
		},
		{
			name: "arena leaderboard",
			url:  "https://www.chess.com/callback/live/tournament/12345/leaderboard",
			want: ttlLeaderboard,
		},
		{
			name: "swiss leaderboard",
			url:  "https://www.chess.com/callback/live-tournament/12345/leaderboard",
			want: ttlLeaderboard,
		},
		{
			name: "past tournaments listing",
			url:  "https://www.chess.com/callback/clubs/live/past/67890",
			want: ttlTournamentList,
		},
		{
			name: "unknown shape is not cached",
			url:  "https://www.chess.com/callback/something/else",
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, cacheTTL(tc.url, now))
		})
	}
}

func TestCacheTTLArchiveMonthBoundary(t *testing.T) {
	t.Parallel()

	url := "https://api.chess.com/pub/player/alice/games/2023/12"

	// A month that has not started yet is still open and must keep the
	// short lifetime, same as the current month.
	november := time.Date(2023, time.November, 30, 23, 0, 0, 0, time.UTC)
	require.Equal(t, ttlArchiveCurrent, cacheTTL(url, november))

	december := time.Date(2023, time.December, 1, 0, 30, 0, 0, time.UTC)
	require.Equal(t, ttlArchiveCurrent, cacheTTL(url, december))

	january := time.Date(2024, time.January, 1, 0, 30, 0, 0, time.UTC)
	require.Equal(t, ttlArchivePast, cacheTTL(url, january))
}
