package models

import "time"

// Submission is one guild-war result for one calendar date. Value columns are
// pointers because extraction may fail any single field and store null.
// The (guild_id, date) unique index is what the upsert conflicts on.
type Submission struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	GuildID        uint       `gorm:"not null;uniqueIndex:idx_submission_guild_date"`
	Date           *time.Time `gorm:"type:date;uniqueIndex:idx_submission_guild_date"`
	PointsScored   *int
	OpponentServer *int
	OpponentGuild  *string `gorm:"size:255"`
	OpponentScored *int
	TotalPoints    *int
	League         *string `gorm:"size:32"`
	Division       *int
	SubmittedBy    int64 `gorm:"not null"`
}

// Kudo is a thank-you note left for a guild by a community member.
type Kudo struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	GuildID   uint   `gorm:"index;not null"`
	Sender    string `gorm:"size:255;not null"`
	Message   string `gorm:"size:1024;not null"`
}
