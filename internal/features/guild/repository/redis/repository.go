package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"giveaway-bot-backend/internal/features/guild/models"
	"giveaway-bot-backend/internal/features/guild/repository"
)

const keyPrefixGuildConfig = "guild:config:"

type redisRepository struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewGuildConfigRepository(client *redis.Client, logger zerolog.Logger) repository.GuildConfigRepository {
	return &redisRepository{
		client: client,
		logger: logger.With().Str("component", "guild_config_repository").Logger(),
	}
}

func makeConfigKey(guildID int64) string {
	return keyPrefixGuildConfig + strconv.FormatInt(guildID, 10)
}

func (r *redisRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	data, err := r.client.Get(ctx, makeConfigKey(guildID)).Bytes()
	if err == redis.Nil {
		// Лениво создаем конфиг по умолчанию при первом обращении
		config := models.Default(guildID)
		if err := r.Save(ctx, config); err != nil {
			return nil, err
		}
		return config, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("guild_id", guildID).Msg("failed to read guild config")
		return models.Default(guildID), nil
	}

	var config models.GuildConfig
	if err := json.Unmarshal(data, &config); err != nil {
		r.logger.Error().Err(err).Int64("guild_id", guildID).Msg("failed to decode guild config")
		return models.Default(guildID), nil
	}
	if config.AdminRoleIDs == nil {
		config.AdminRoleIDs = []int64{}
	}

	return &config, nil
}

func (r *redisRepository) Save(ctx context.Context, config *models.GuildConfig) error {
	if r.client == nil {
		return repository.ErrNotInitialized
	}

	data, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal guild config: %w", err)
	}

	if err := r.client.Set(ctx, makeConfigKey(config.GuildID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save guild config: %w", err)
	}
	return nil
}
