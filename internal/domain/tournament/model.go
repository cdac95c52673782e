package tournament

const (
	FormatSwiss = "swiss"
	FormatArena = "arena"

	StatusFinished = "finished"
)

// Tournament is one club-organised event. StartDate and EndDate are unix
// timestamps; both must be present before games can be reconstructed for
// the event. ClubSlug points back at the owning club and is only used as a
// fallback participant source when the leaderboard is unavailable.
type Tournament struct {
	ID             string
	Name           string
	Format         string
	Status         string
	StartDate      *int64
	EndDate        *int64
	PlayerCount    int
	WinnerUsername string
	WinnerScore    *float64
	ClubSlug       string
}

// HasWindow reports whether the event carries a complete time window.
func (t Tournament) HasWindow() bool {
	return t.StartDate != nil && t.EndDate != nil
}

// AlternateFormat maps swiss to arena and vice versa. The upstream system
// is ambiguous about which leaderboard URL shape a given event uses, so
// callers probe both.
func AlternateFormat(format string) string {
	if format == FormatSwiss {
		return FormatArena
	}
	return FormatSwiss
}

// Result is one player's final standing in a tournament. The ordered list
// of all results is the authoritative participant set for the event.
type Result struct {
	TournamentID string
	Player       string
	Position     int
	Score        *float64
	Rating       *int
}
