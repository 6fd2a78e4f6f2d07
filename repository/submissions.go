package repository

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warboard/models"
)

type SubmissionStore struct {
	db *gorm.DB
}

// submissionValueColumns are the columns the upsert overwrites on conflict.
var submissionValueColumns = []string{
	"points_scored", "opponent_server", "opponent_guild", "opponent_scored",
	"total_points", "league", "division", "submitted_by", "updated_at",
}

// Upsert inserts the submission or, when a row for (guild_id, date) already
// exists, overwrites that row's value columns. The returned id addresses the
// same logical row on both paths; concurrent submitters race safely because
// the conflict is resolved inside the store.
func (s *SubmissionStore) Upsert(sub *models.Submission) (uint, error) {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "guild_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns(submissionValueColumns),
	}).Create(sub).Error
	if err != nil {
		return 0, fmt.Errorf("upsert submission: %w", err)
	}
	if sub.ID != 0 {
		return sub.ID, nil
	}
	// Update path without a fresh id: recover it through the uniqueness key.
	var existing models.Submission
	q := s.db.Where("guild_id = ?", sub.GuildID)
	if sub.Date != nil {
		q = q.Where("date = ?", sub.Date)
	} else {
		q = q.Where("date IS NULL")
	}
	if err := q.First(&existing).Error; err != nil {
		return 0, fmt.Errorf("lookup upserted submission: %w", err)
	}
	return existing.ID, nil
}

// EditField applies one corrected value to an allow-listed column. Only date
// edits can collide with the (guild_id, date) key; when one does, the row
// already holding that key is deleted and the call still reports ErrConflict.
// That mirrors the behavior operators expect when flushing a stale duplicate.
func (s *SubmissionStore) EditField(id uint, f Field, v Value) error {
	kind, ok := fieldKinds[f]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	if v.kind != kind {
		return fmt.Errorf("%w: %s expects %s", ErrInvalidValue, f, kindNames[kind])
	}
	res := s.db.Model(&models.Submission{}).Where("id = ?", id).Update(string(f), v.dbValue())
	if res.Error != nil {
		if f == FieldDate && isUniqueViolation(res.Error) {
			s.deleteDateCollision(id, v.date)
			return fmt.Errorf("edit %s: %w", f, ErrConflict)
		}
		return fmt.Errorf("edit %s: %w", f, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteDateCollision removes the pre-existing row that blocks moving
// submission id to newDate.
func (s *SubmissionStore) deleteDateCollision(id uint, newDate time.Time) {
	var cur models.Submission
	if err := s.db.First(&cur, id).Error; err != nil {
		log.Printf("edit conflict cleanup: load submission %d: %v", id, err)
		return
	}
	res := s.db.Where("guild_id = ? AND date = ?", cur.GuildID, newDate).Delete(&models.Submission{})
	if res.Error != nil {
		log.Printf("edit conflict cleanup: delete colliding row: %v", res.Error)
		return
	}
	log.Printf("edit conflict: removed %d colliding submission(s) for guild %d on %s", res.RowsAffected, cur.GuildID, newDate.Format("2006-01-02"))
}

// LeaderboardRow is one ranked entry for a date.
type LeaderboardRow struct {
	ServerNumber int    `json:"server_number"`
	GuildName    string `json:"guild_name"`
	TotalPoints  int    `json:"total_points"`
	League       string `json:"league"`
	Division     int    `json:"division"`
	Rank         int    `json:"rank"`
}

// Leaderboard lists every submission for the date, descending by total
// points, with standard competition ranks (ties share, next value skips).
func (s *SubmissionStore) Leaderboard(day time.Time) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := s.db.Model(&models.Submission{}).
		Select(`guilds.server_number AS server_number, guilds.guild_name AS guild_name,
			submissions.total_points AS total_points,
			COALESCE(submissions.league, '') AS league,
			COALESCE(submissions.division, 0) AS division`).
		Joins("JOIN guilds ON guilds.id = submissions.guild_id").
		Where("submissions.date = ? AND submissions.total_points IS NOT NULL", day).
		Order("submissions.total_points DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("leaderboard query: %w", err)
	}
	assignRanks(rows)
	return rows, nil
}

// assignRanks numbers ordered rows with standard competition ranking:
// [100,100,90] gets [1,1,3].
func assignRanks(rows []LeaderboardRow) {
	for i := range rows {
		if i > 0 && rows[i].TotalPoints == rows[i-1].TotalPoints {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
}

// HistoryRow is one past war seen from the submitting guild's side. Result is
// always that side's outcome; opponent-perspective callers flip it.
type HistoryRow struct {
	OpponentServer int       `json:"opponent_server"`
	OpponentGuild  string    `json:"opponent_guild"`
	PointsScored   int       `json:"points_scored"`
	OpponentScored int       `json:"opponent_scored"`
	Date           time.Time `json:"date"`
	Result         string    `json:"result"`
}

const historyResultExpr = `CASE
	WHEN COALESCE(points_scored, 0) > COALESCE(opponent_scored, 0) THEN 'Win'
	WHEN COALESCE(points_scored, 0) < COALESCE(opponent_scored, 0) THEN 'Loss'
	ELSE 'Draw' END AS result`

// History lists a guild's submissions newest first, optionally bounded by a
// date window.
func (s *SubmissionStore) History(guildID uint, since, until *time.Time) ([]HistoryRow, error) {
	var rows []HistoryRow
	q := s.db.Model(&models.Submission{}).
		Select(`COALESCE(opponent_server, 0) AS opponent_server,
			COALESCE(opponent_guild, '') AS opponent_guild,
			COALESCE(points_scored, 0) AS points_scored,
			COALESCE(opponent_scored, 0) AS opponent_scored,
			date, `+historyResultExpr).
		Where("guild_id = ? AND date IS NOT NULL", guildID)
	q = dateWindow(q, since, until)
	if err := q.Order("date DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("history query: %w", err)
	}
	return rows, nil
}

// OpponentHistory lists wars where the named guild was the opponent of
// record. The "opponent" columns of each row carry the submitting guild so
// the caller can render the same shape either way around.
func (s *SubmissionStore) OpponentHistory(name string, server int, since, until *time.Time) ([]HistoryRow, error) {
	var rows []HistoryRow
	q := s.db.Model(&models.Submission{}).
		Select(`guilds.server_number AS opponent_server,
			guilds.guild_name AS opponent_guild,
			COALESCE(submissions.points_scored, 0) AS points_scored,
			COALESCE(submissions.opponent_scored, 0) AS opponent_scored,
			submissions.date, `+historyResultExpr).
		Joins("JOIN guilds ON guilds.id = submissions.guild_id").
		Where("submissions.opponent_guild = ? AND submissions.opponent_server = ? AND submissions.date IS NOT NULL", name, server)
	q = dateWindow(q, since, until)
	if err := q.Order("submissions.date DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("opponent history query: %w", err)
	}
	return rows, nil
}

func dateWindow(q *gorm.DB, since, until *time.Time) *gorm.DB {
	if since != nil {
		q = q.Where("date >= ?", since)
	}
	if until != nil {
		q = q.Where("date <= ?", until)
	}
	return q
}

// MissingGuild is an active guild without a qualifying submission, with the
// platform ids of its members (possibly none).
type MissingGuild struct {
	GuildID      uint    `json:"guild_id"`
	GuildName    string  `json:"guild_name"`
	ServerNumber int     `json:"server_number"`
	MemberIDs    []int64 `json:"member_ids"`
}

// MissingSince lists active guilds with no submission dated on or after the
// cutoff. Guilds with zero members still appear, with an empty member list.
func (s *SubmissionStore) MissingSince(cutoff time.Time) ([]MissingGuild, error) {
	sub := s.db.Model(&models.Submission{}).Select("guild_id").Where("date >= ?", cutoff)
	var guilds []models.Guild
	err := s.db.Preload("Members").
		Where("active = ?", true).
		Where("id NOT IN (?)", sub).
		Order("guild_name").
		Find(&guilds).Error
	if err != nil {
		return nil, fmt.Errorf("missing submissions query: %w", err)
	}
	out := make([]MissingGuild, 0, len(guilds))
	for _, g := range guilds {
		ids := make([]int64, 0, len(g.Members))
		for _, m := range g.Members {
			ids = append(ids, m.UserID)
		}
		out = append(out, MissingGuild{GuildID: g.ID, GuildName: g.GuildName, ServerNumber: g.ServerNumber, MemberIDs: ids})
	}
	return out, nil
}

// LatestDate returns the most recent submission date, or ErrNotFound when no
// dated submission exists yet.
func (s *SubmissionStore) LatestDate() (time.Time, error) {
	var row struct{ Date *time.Time }
	err := s.db.Model(&models.Submission{}).Select("MAX(date) AS date").Scan(&row).Error
	if err != nil {
		return time.Time{}, fmt.Errorf("latest date query: %w", err)
	}
	if row.Date == nil {
		return time.Time{}, ErrNotFound
	}
	return *row.Date, nil
}

// Dates lists distinct submission dates matching the prefix, newest first.
// Used by the chat surface for date autocomplete.
func (s *SubmissionStore) Dates(prefix string) ([]time.Time, error) {
	var dates []time.Time
	err := s.db.Model(&models.Submission{}).
		Distinct("date").
		Where("date IS NOT NULL AND to_char(date, 'YYYY-MM-DD') LIKE ?", prefix+"%").
		Order("date DESC").
		Limit(25).
		Pluck("date", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("dates query: %w", err)
	}
	return dates, nil
}

// OpponentRef names a guild seen only as an opponent of record.
type OpponentRef struct {
	GuildName    string `json:"guild_name"`
	ServerNumber int    `json:"server_number"`
}

// Opponents lists distinct opponent name/server pairs matching the prefix.
// Used by the chat surface for opponent autocomplete.
func (s *SubmissionStore) Opponents(prefix string) ([]OpponentRef, error) {
	var refs []OpponentRef
	err := s.db.Model(&models.Submission{}).
		Select("DISTINCT opponent_guild AS guild_name, opponent_server AS server_number").
		Where("opponent_guild ILIKE ? AND opponent_server IS NOT NULL", prefix+"%").
		Order("guild_name").
		Limit(25).
		Scan(&refs).Error
	if err != nil {
		return nil, fmt.Errorf("opponents query: %w", err)
	}
	return refs, nil
}
