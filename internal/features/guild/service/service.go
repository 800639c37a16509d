package service

import (
	"context"

	"github.com/rs/zerolog"

	"giveaway-bot-backend/internal/features/guild/models"
	"giveaway-bot-backend/internal/features/guild/repository"
)

// GuildService manages per-guild admin-role configuration and the
// permission checks built on it.
type GuildService interface {
	GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error)
	AddAdminRole(ctx context.Context, guildID, roleID int64) (bool, string)
	RemoveAdminRole(ctx context.Context, guildID, roleID int64) (bool, string)
	IsGiveawayAdmin(ctx context.Context, guildID int64, hasPlatformAdmin bool, userRoleIDs []int64) bool
}

type guildService struct {
	repo   repository.GuildConfigRepository
	logger zerolog.Logger
}

func NewGuildService(repo repository.GuildConfigRepository, logger zerolog.Logger) GuildService {
	return &guildService{
		repo:   repo,
		logger: logger.With().Str("component", "guild_service").Logger(),
	}
}

func (s *guildService) GetConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	return s.repo.Get(ctx, guildID)
}

func (s *guildService) AddAdminRole(ctx context.Context, guildID, roleID int64) (bool, string) {
	config, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return false, "Failed to load guild configuration."
	}

	if !config.AddAdminRole(roleID) {
		return false, "That role is already a giveaway admin role."
	}

	if err := s.repo.Save(ctx, config); err != nil {
		s.logger.Error().Err(err).Int64("guild_id", guildID).Msg("failed to save guild config")
		return false, "Failed to save guild configuration."
	}

	return true, "Role added to giveaway admin roles."
}

func (s *guildService) RemoveAdminRole(ctx context.Context, guildID, roleID int64) (bool, string) {
	config, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return false, "Failed to load guild configuration."
	}

	if !config.RemoveAdminRole(roleID) {
		return false, "That role is not a giveaway admin role."
	}

	if err := s.repo.Save(ctx, config); err != nil {
		s.logger.Error().Err(err).Int64("guild_id", guildID).Msg("failed to save guild config")
		return false, "Failed to save guild configuration."
	}

	return true, "Role removed from giveaway admin roles."
}

// IsGiveawayAdmin reports whether a user may manage giveaways: platform
// administrators always may, otherwise one of the configured admin roles is
// required.
func (s *guildService) IsGiveawayAdmin(ctx context.Context, guildID int64, hasPlatformAdmin bool, userRoleIDs []int64) bool {
	if hasPlatformAdmin {
		return true
	}

	config, err := s.repo.Get(ctx, guildID)
	if err != nil {
		return false
	}

	for _, roleID := range userRoleIDs {
		if config.IsAdminRole(roleID) {
			return true
		}
	}
	return false
}
