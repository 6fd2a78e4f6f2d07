package models

import "time"

// User is an API account for the bot/operator surface.
type User struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Username       string `gorm:"size:255;not null;unique"`
	HashedPassword []byte `gorm:"not null"`
	// Staff accounts may manage guilds, members and audits.
	Staff bool `gorm:"default:false;not null"`
}
