package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignRanksSharesTiesAndSkips(t *testing.T) {
	rows := []LeaderboardRow{
		{GuildName: "A", TotalPoints: 100},
		{GuildName: "B", TotalPoints: 100},
		{GuildName: "C", TotalPoints: 90},
	}
	assignRanks(rows)
	assert.Equal(t, []int{1, 1, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestAssignRanksDistinct(t *testing.T) {
	rows := []LeaderboardRow{
		{TotalPoints: 500},
		{TotalPoints: 400},
		{TotalPoints: 300},
	}
	assignRanks(rows)
	assert.Equal(t, []int{1, 2, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestAssignRanksLongTieRun(t *testing.T) {
	rows := []LeaderboardRow{
		{TotalPoints: 70}, {TotalPoints: 70}, {TotalPoints: 70}, {TotalPoints: 60},
	}
	assignRanks(rows)
	assert.Equal(t, []int{1, 1, 1, 4}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank, rows[3].Rank})
}

func TestAssignRanksEmpty(t *testing.T) {
	assert.NotPanics(t, func() { assignRanks(nil) })
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, isUniqueViolation(nil))
	assert.True(t, isUniqueViolation(errStr(`ERROR: duplicate key value violates unique constraint "idx_submission_guild_date"`)))
	assert.False(t, isUniqueViolation(errStr("connection refused")))
}

type errStr string

func (e errStr) Error() string { return string(e) }
