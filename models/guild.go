package models

import "time"

// Guild is a registered competitive guild. The (guild_name, server_number)
// pair is the external lookup key; ID is the authoritative key for joins.
type Guild struct {
	ID           uint      `gorm:"primaryKey"`
	GuildName    string    `gorm:"size:255;not null;uniqueIndex:idx_guild_name_server"`
	ServerNumber int       `gorm:"not null;uniqueIndex:idx_guild_name_server"`
	UserID       int64     `gorm:"not null"` // platform id of the registering member
	Username     string    `gorm:"size:255;not null"`
	RegisteredAt time.Time `gorm:"not null"`
	Active       bool      `gorm:"default:true;not null"`
	Members      []Member  `gorm:"foreignKey:GuildID"`
}

// Member links a platform user to the guild they submit results for. The
// platform user id is the primary key, so re-registering moves the member.
type Member struct {
	UserID   int64  `gorm:"primaryKey;autoIncrement:false"`
	Username string `gorm:"size:255;not null"`
	GuildID  uint   `gorm:"index;not null"`
}
