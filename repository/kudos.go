package repository

import (
	"fmt"

	"gorm.io/gorm"

	"warboard/models"
)

type KudoStore struct {
	db *gorm.DB
}

// Add records kudos for a guild and returns the guild row plus its member ids
// so the caller can notify them.
func (k *KudoStore) Add(guildID uint, sender, message string) (*models.Guild, []int64, error) {
	var guild models.Guild
	if err := k.db.Preload("Members").First(&guild, guildID).Error; err != nil {
		return nil, nil, ErrNotFound
	}
	kudo := models.Kudo{GuildID: guildID, Sender: sender, Message: message}
	if err := k.db.Create(&kudo).Error; err != nil {
		return nil, nil, fmt.Errorf("create kudo: %w", err)
	}
	ids := make([]int64, 0, len(guild.Members))
	for _, m := range guild.Members {
		ids = append(ids, m.UserID)
	}
	return &guild, ids, nil
}

// History lists a guild's kudos, newest first.
func (k *KudoStore) History(guildID uint) ([]models.Kudo, error) {
	var kudos []models.Kudo
	if err := k.db.Where("guild_id = ?", guildID).Order("created_at DESC").Find(&kudos).Error; err != nil {
		return nil, fmt.Errorf("kudos history: %w", err)
	}
	return kudos, nil
}
