package chesscom

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"time"
)

type archiveMonth struct {
	year  int
	month time.Month
}

// monthsInRange lists every UTC calendar month touched by [startTS, endTS].
func monthsInRange(startTS, endTS int64) []archiveMonth {
	if endTS < startTS {
		return nil
	}
	start := time.Unix(startTS, 0).UTC()
	end := time.Unix(endTS, 0).UTC()

	var months []archiveMonth
	year, month := start.Year(), start.Month()
	for {
		months = append(months, archiveMonth{year: year, month: month})
		if year == end.Year() && month == end.Month() {
			return months
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
}

// requestKey derives a stable cache key from the canonical form of a
// request: the URL plus query parameters in sorted order, so parameter
// ordering never splits the cache.
func requestKey(rawURL string, params url.Values) string {
	canonical := rawURL
	if encoded := params.Encode(); encoded != "" {
		canonical += "?" + encoded
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
