package game

import (
	"fmt"
	"sort"
	"strings"
)

const (
	ResultWhiteWins = "1-0"
	ResultBlackWins = "0-1"
	ResultDraw      = "1/2-1/2"
)

// unscoredRank sorts games without review data after every scored game;
// real accuracies are always within [0, 100].
const unscoredRank = -1.0

// Game is a single finished chess game. Accuracy scores come from the
// platform's optional post-game review and are absent when the review was
// never run.
type Game struct {
	White         string
	Black         string
	Result        string
	OpeningECO    string
	PGN           string
	PlayedAt      *int64
	WhiteAccuracy *float64
	BlackAccuracy *float64
	TournamentID  string
	URL           string
}

// AvgAccuracy returns the mean of the per-side accuracies, using whichever
// sides are present, or nil when neither side was scored.
func (g Game) AvgAccuracy() *float64 {
	switch {
	case g.WhiteAccuracy != nil && g.BlackAccuracy != nil:
		avg := (*g.WhiteAccuracy + *g.BlackAccuracy) / 2
		return &avg
	case g.WhiteAccuracy != nil:
		avg := *g.WhiteAccuracy
		return &avg
	case g.BlackAccuracy != nil:
		avg := *g.BlackAccuracy
		return &avg
	default:
		return nil
	}
}

// DedupKey identifies a physical game across sources: the canonical URL
// when the platform provides one, else the (white, black, playedAt) tuple.
func (g Game) DedupKey() string {
	if g.URL != "" {
		return g.URL
	}
	return PairKey(g.White, g.Black, g.PlayedAt)
}

// PairKey builds the positional identity tuple used when no canonical URL
// exists and when collapsing games across tournament windows.
func PairKey(white, black string, playedAt *int64) string {
	ts := int64(0)
	if playedAt != nil {
		ts = *playedAt
	}
	return fmt.Sprintf("%s:%s:%d", strings.ToLower(white), strings.ToLower(black), ts)
}

// SortByAccuracy orders games best-to-worst by average accuracy. Unscored
// games sort after all scored ones; ties keep their existing order.
func SortByAccuracy(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		return accuracyRank(games[i]) > accuracyRank(games[j])
	})
}

func accuracyRank(g Game) float64 {
	if avg := g.AvgAccuracy(); avg != nil {
		return *avg
	}
	return unscoredRank
}
