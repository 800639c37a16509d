package models

import (
	"time"
)

// GuildConfig is the per-guild configuration record. A guild gets a default
// record with no admin roles the first time anything reads it.
type GuildConfig struct {
	GuildID      int64     `json:"guild_id"`
	AdminRoleIDs []int64   `json:"admin_role_ids"`
	CreatedAt    time.Time `json:"created_at"`
}

// Default returns the lazily-created configuration for a guild.
func Default(guildID int64) *GuildConfig {
	return &GuildConfig{
		GuildID:      guildID,
		AdminRoleIDs: []int64{},
		CreatedAt:    time.Now().UTC(),
	}
}

// AddAdminRole appends a role, reporting false when it is already present.
func (c *GuildConfig) AddAdminRole(roleID int64) bool {
	if c.IsAdminRole(roleID) {
		return false
	}
	c.AdminRoleIDs = append(c.AdminRoleIDs, roleID)
	return true
}

// RemoveAdminRole removes a role, reporting false when it was not present.
func (c *GuildConfig) RemoveAdminRole(roleID int64) bool {
	for i, id := range c.AdminRoleIDs {
		if id == roleID {
			c.AdminRoleIDs = append(c.AdminRoleIDs[:i], c.AdminRoleIDs[i+1:]...)
			return true
		}
	}
	return false
}

// IsAdminRole reports whether the role is configured as a giveaway admin role.
func (c *GuildConfig) IsAdminRole(roleID int64) bool {
	for _, id := range c.AdminRoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
