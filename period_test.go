package main

import (
	"testing"
	"time"
)

func TestSinceFromPeriod(t *testing.T) {
	now := time.Date(2026, 8, 15, 13, 45, 0, 0, time.UTC)
	cases := []struct {
		period string
		want   time.Time
	}{
		{"Today", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"Yesterday", time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)},
		{"Current season", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)},
		{"Last 7 days", time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)},
		{"Last 30 days", time.Date(2026, 7, 16, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got, err := sinceFromPeriod(c.period, now)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.period, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("%s: got %v, want %v", c.period, got, c.want)
		}
	}
}

func TestSinceFromPeriodRejectsUnknown(t *testing.T) {
	now := time.Now()
	for _, period := range []string{"", "Tomorrow", "Last days", "Last -3 days", "Last x days"} {
		if _, err := sinceFromPeriod(period, now); err == nil {
			t.Errorf("%q: expected error", period)
		}
	}
}
