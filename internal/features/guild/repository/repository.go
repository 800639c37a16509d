package repository

import (
	"context"
	"errors"

	"giveaway-bot-backend/internal/features/guild/models"
)

// ErrNotInitialized indicates the repository was constructed without a
// storage handle; a startup defect, never degraded.
var ErrNotInitialized = errors.New("storage not initialized")

// GuildConfigRepository stores per-guild configuration. Configs are created
// lazily and never deleted.
type GuildConfigRepository interface {
	// Get returns the stored config, creating and persisting a default
	// record when none exists yet.
	Get(ctx context.Context, guildID int64) (*models.GuildConfig, error)
	Save(ctx context.Context, config *models.GuildConfig) error
}
