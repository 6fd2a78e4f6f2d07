package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sinceFromPeriod resolves a named reporting period to its starting date.
// Accepted values: "Today", "Yesterday", "Current season" (the first day of
// the current month) and "Last N days".
func sinceFromPeriod(period string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch period {
	case "Today":
		return today, nil
	case "Yesterday":
		return today.AddDate(0, 0, -1), nil
	case "Current season":
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), nil
	}
	if rest, ok := strings.CutPrefix(period, "Last "); ok {
		rest, ok = strings.CutSuffix(rest, " days")
		if ok {
			n, err := strconv.Atoi(rest)
			if err == nil && n > 0 {
				return today.AddDate(0, 0, -n), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unknown period %q", period)
}
