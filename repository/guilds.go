package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"warboard/models"
)

type GuildStore struct {
	db *gorm.DB
}

// Add registers a guild. Registering the same name+server pair twice is a
// benign duplicate outcome, not an error.
func (g *GuildStore) Add(guild *models.Guild) (bool, error) {
	if err := g.db.Create(guild).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("register guild: %w", err)
	}
	return true, nil
}

func (g *GuildStore) ByID(id uint) (*models.Guild, error) {
	var guild models.Guild
	if err := g.db.First(&guild, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load guild %d: %w", id, err)
	}
	return &guild, nil
}

// SearchByName matches registered guilds by name prefix, for autocomplete.
func (g *GuildStore) SearchByName(prefix string) ([]models.Guild, error) {
	var guilds []models.Guild
	err := g.db.Where("guild_name ILIKE ? AND active = ?", prefix+"%", true).
		Order("guild_name").
		Limit(25).
		Find(&guilds).Error
	if err != nil {
		return nil, fmt.Errorf("search guilds: %w", err)
	}
	return guilds, nil
}

// Rename changes a guild's name. Renaming onto an existing name+server pair
// is refused with ErrConflict.
func (g *GuildStore) Rename(id uint, newName string) error {
	res := g.db.Model(&models.Guild{}).Where("id = ?", id).Update("guild_name", newName)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("rename guild: %w", ErrConflict)
		}
		return fmt.Errorf("rename guild: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetServer moves a guild to another server number.
func (g *GuildStore) SetServer(id uint, server int) error {
	res := g.db.Model(&models.Guild{}).Where("id = ?", id).Update("server_number", server)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return fmt.Errorf("set guild server: %w", ErrConflict)
		}
		return fmt.Errorf("set guild server: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a guild and its member links. Submissions stay for history.
func (g *GuildStore) Delete(id uint) error {
	res := g.db.Delete(&models.Guild{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete guild: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := g.db.Where("guild_id = ?", id).Delete(&models.Member{}).Error; err != nil {
		return fmt.Errorf("delete guild members: %w", err)
	}
	return nil
}
