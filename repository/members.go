package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warboard/models"
)

type MemberStore struct {
	db *gorm.DB
}

// Upsert registers a member or, when the platform user id is already known,
// re-homes them to the given guild.
func (m *MemberStore) Upsert(userID int64, username string, guildID uint) error {
	member := models.Member{UserID: userID, Username: username, GuildID: guildID}
	err := m.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "guild_id"}),
	}).Create(&member).Error
	if err != nil {
		return fmt.Errorf("upsert member: %w", err)
	}
	return nil
}

// GuildOf returns the guild the member submits for.
func (m *MemberStore) GuildOf(userID int64) (uint, error) {
	var member models.Member
	if err := m.db.First(&member, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("load member %d: %w", userID, err)
	}
	return member.GuildID, nil
}

// PurgeExcept removes every member whose platform id is not in activeIDs,
// i.e. people the hosting platform no longer lists. An empty list is refused
// rather than interpreted as "delete everyone".
func (m *MemberStore) PurgeExcept(activeIDs []int64) (int64, error) {
	if len(activeIDs) == 0 {
		return 0, fmt.Errorf("%w: empty active member list", ErrInvalidValue)
	}
	res := m.db.Where("user_id NOT IN ?", activeIDs).Delete(&models.Member{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge members: %w", res.Error)
	}
	return res.RowsAffected, nil
}
