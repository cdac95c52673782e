package game

import "testing"

func ptrFloat(v float64) *float64 { return &v }
func ptrInt64(v int64) *int64     { return &v }

func TestGame_AvgAccuracy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		white *float64
		black *float64
		want  *float64
	}{
		{name: "both sides", white: ptrFloat(90), black: ptrFloat(80), want: ptrFloat(85)},
		{name: "white only", white: ptrFloat(72.5), want: ptrFloat(72.5)},
		{name: "black only", black: ptrFloat(64), want: ptrFloat(64)},
		{name: "neither side", want: nil},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Game{WhiteAccuracy: tc.white, BlackAccuracy: tc.black}.AvgAccuracy()
			if tc.want == nil {
				if got != nil {
					t.Fatalf("expected nil accuracy, got=%v", *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected accuracy=%v, got nil", *tc.want)
			}
			if *got != *tc.want {
				t.Fatalf("expected accuracy=%v, got=%v", *tc.want, *got)
			}
		})
	}
}

func TestGame_DedupKey_PrefersURL(t *testing.T) {
	t.Parallel()

	g := Game{
		White:    "Alice",
		Black:    "Bob",
		PlayedAt: ptrInt64(1700001000),
		URL:      "https://www.chess.com/game/live/1",
	}
	if got := g.DedupKey(); got != "https://www.chess.com/game/live/1" {
		t.Fatalf("expected url key, got=%s", got)
	}

	g.URL = ""
	if got := g.DedupKey(); got != "alice:bob:1700001000" {
		t.Fatalf("expected positional key, got=%s", got)
	}
}

func TestSortByAccuracy_UnscoredLast(t *testing.T) {
	t.Parallel()

	games := []Game{
		{URL: "unscored-1"},
		{URL: "low", WhiteAccuracy: ptrFloat(10), BlackAccuracy: ptrFloat(20)},
		{URL: "unscored-2"},
		{URL: "high", WhiteAccuracy: ptrFloat(95), BlackAccuracy: ptrFloat(91)},
	}

	SortByAccuracy(games)

	want := []string{"high", "low", "unscored-1", "unscored-2"}
	for i, url := range want {
		if games[i].URL != url {
			t.Fatalf("position %d: expected %s, got %s", i, url, games[i].URL)
		}
	}
}

func TestSortByAccuracy_ZeroBeatsUnscored(t *testing.T) {
	t.Parallel()

	games := []Game{
		{URL: "unscored"},
		{URL: "zero", WhiteAccuracy: ptrFloat(0), BlackAccuracy: ptrFloat(0)},
	}

	SortByAccuracy(games)

	if games[0].URL != "zero" {
		t.Fatalf("a reviewed 0-accuracy game must rank above an unreviewed one, got first=%s", games[0].URL)
	}
}
