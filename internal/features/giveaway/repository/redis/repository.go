package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

const (
	keyIDCounter          = "giveaways:id"
	keyPrefixGiveaway     = "giveaway:"
	keyPrefixMessageIndex = "giveaway:msg:"
	keyActiveGiveaways    = "giveaways:active"
	keyScheduledGiveaways = "giveaways:scheduled"
)

type redisRepository struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewGiveawayRepository(client *redis.Client, logger zerolog.Logger) repository.GiveawayRepository {
	return &redisRepository{
		client: client,
		logger: logger.With().Str("component", "giveaway_repository").Logger(),
	}
}

func makeGiveawayKey(id int64) string {
	return keyPrefixGiveaway + strconv.FormatInt(id, 10)
}

func makeEntriesKey(id int64) string {
	return makeGiveawayKey(id) + ":entries"
}

func makeWinnersKey(id int64) string {
	return makeGiveawayKey(id) + ":winners"
}

func makeMessageKey(messageID int64) string {
	return keyPrefixMessageIndex + strconv.FormatInt(messageID, 10)
}

func (r *redisRepository) Create(ctx context.Context, giveaway *models.Giveaway) (*models.Giveaway, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	id, err := r.client.Incr(ctx, keyIDCounter).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate giveaway id: %w", err)
	}
	giveaway.ID = id

	data, err := json.Marshal(giveaway)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeGiveawayKey(id), data, 0)
	pipe.SAdd(ctx, keyActiveGiveaways, id)
	if giveaway.ScheduledStart != nil {
		pipe.SAdd(ctx, keyScheduledGiveaways, id)
	}
	if giveaway.MessageID != nil {
		pipe.Set(ctx, makeMessageKey(*giveaway.MessageID), id, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create giveaway: %w", err)
	}

	return giveaway, nil
}

// getRecord loads the giveaway record without its entries and winners.
func (r *redisRepository) getRecord(ctx context.Context, id int64) (*models.Giveaway, error) {
	data, err := r.client.Get(ctx, makeGiveawayKey(id)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		// Деградируем до "не найдено" на ошибках чтения
		r.logger.Error().Err(err).Int64("giveaway_id", id).Msg("failed to read giveaway")
		return nil, repository.ErrNotFound
	}

	var giveaway models.Giveaway
	if err := json.Unmarshal(data, &giveaway); err != nil {
		r.logger.Error().Err(err).Int64("giveaway_id", id).Msg("failed to decode giveaway")
		return nil, repository.ErrNotFound
	}

	return &giveaway, nil
}

func (r *redisRepository) GetByID(ctx context.Context, id int64) (*models.Giveaway, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	giveaway, err := r.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	giveaway.Entries, _ = r.GetEntries(ctx, id)
	giveaway.Winners, _ = r.GetWinners(ctx, id)

	return giveaway, nil
}

func (r *redisRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	id, err := r.client.Get(ctx, makeMessageKey(messageID)).Int64()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Int64("message_id", messageID).Msg("failed to resolve message index")
		return nil, repository.ErrNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *redisRepository) GetActive(ctx context.Context, guildID int64) ([]*models.Giveaway, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	ids, err := r.activeIDs(ctx)
	if err != nil {
		return []*models.Giveaway{}, nil
	}

	giveaways := make([]*models.Giveaway, 0, len(ids))
	for _, id := range ids {
		giveaway, err := r.getRecord(ctx, id)
		if err != nil {
			continue
		}
		if giveaway.Ended || giveaway.Cancelled {
			continue
		}
		if guildID != 0 && giveaway.GuildID != guildID {
			continue
		}
		giveaway.Entries, _ = r.GetEntries(ctx, id)
		giveaways = append(giveaways, giveaway)
	}

	return giveaways, nil
}

func (r *redisRepository) GetScheduled(ctx context.Context) ([]*models.Giveaway, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	ids, err := r.client.SMembers(ctx, keyScheduledGiveaways).Result()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read scheduled giveaways")
		return []*models.Giveaway{}, nil
	}

	giveaways := make([]*models.Giveaway, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		giveaway, err := r.getRecord(ctx, id)
		if err != nil {
			continue
		}
		if giveaway.ScheduledStart == nil || giveaway.Ended || giveaway.Cancelled {
			continue
		}
		giveaways = append(giveaways, giveaway)
	}

	return giveaways, nil
}

func (r *redisRepository) Update(ctx context.Context, giveaway *models.Giveaway) error {
	if r.client == nil {
		return repository.ErrNotInitialized
	}

	data, err := json.Marshal(giveaway)
	if err != nil {
		return fmt.Errorf("failed to marshal giveaway: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, makeGiveawayKey(giveaway.ID), data, 0)

	// Держим индексы в согласии с терминальными флагами и расписанием
	if giveaway.Ended || giveaway.Cancelled {
		pipe.SRem(ctx, keyActiveGiveaways, giveaway.ID)
		pipe.SRem(ctx, keyScheduledGiveaways, giveaway.ID)
	} else if giveaway.ScheduledStart == nil {
		pipe.SRem(ctx, keyScheduledGiveaways, giveaway.ID)
	} else {
		pipe.SAdd(ctx, keyScheduledGiveaways, giveaway.ID)
	}

	if giveaway.MessageID != nil {
		pipe.Set(ctx, makeMessageKey(*giveaway.MessageID), giveaway.ID, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update giveaway: %w", err)
	}
	return nil
}

func (r *redisRepository) Delete(ctx context.Context, id int64) error {
	if r.client == nil {
		return repository.ErrNotInitialized
	}

	giveaway, err := r.getRecord(ctx, id)

	pipe := r.client.Pipeline()
	pipe.Del(ctx, makeEntriesKey(id))
	pipe.Del(ctx, makeWinnersKey(id))
	pipe.Del(ctx, makeGiveawayKey(id))
	pipe.SRem(ctx, keyActiveGiveaways, id)
	pipe.SRem(ctx, keyScheduledGiveaways, id)
	if err == nil && giveaway.MessageID != nil {
		pipe.Del(ctx, makeMessageKey(*giveaway.MessageID))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete giveaway: %w", err)
	}
	return nil
}

func (r *redisRepository) AddEntry(ctx context.Context, giveawayID, userID int64) (bool, error) {
	if r.client == nil {
		return false, repository.ErrNotInitialized
	}

	// SADD отвечает за уникальность пары (giveaway, user)
	added, err := r.client.SAdd(ctx, makeEntriesKey(giveawayID), userID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to add entry: %w", err)
	}
	return added > 0, nil
}

func (r *redisRepository) RemoveEntry(ctx context.Context, giveawayID, userID int64) (bool, error) {
	if r.client == nil {
		return false, repository.ErrNotInitialized
	}

	removed, err := r.client.SRem(ctx, makeEntriesKey(giveawayID), userID).Result()
	if err != nil {
		r.logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("failed to remove entry")
		return false, nil
	}
	return removed > 0, nil
}

func (r *redisRepository) GetEntries(ctx context.Context, giveawayID int64) ([]int64, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	members, err := r.client.SMembers(ctx, makeEntriesKey(giveawayID)).Result()
	if err != nil {
		r.logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("failed to read entries")
		return []int64{}, nil
	}

	return parseIDs(members), nil
}

func (r *redisRepository) HasEntered(ctx context.Context, giveawayID, userID int64) (bool, error) {
	if r.client == nil {
		return false, repository.ErrNotInitialized
	}

	entered, err := r.client.SIsMember(ctx, makeEntriesKey(giveawayID), userID).Result()
	if err != nil {
		r.logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("failed to check entry")
		return false, nil
	}
	return entered, nil
}

func (r *redisRepository) GetUserEntries(ctx context.Context, guildID, userID int64) ([]*models.Giveaway, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	ids, err := r.activeIDs(ctx)
	if err != nil {
		return []*models.Giveaway{}, nil
	}

	var giveaways []*models.Giveaway
	for _, id := range ids {
		giveaway, err := r.getRecord(ctx, id)
		if err != nil {
			continue
		}
		if giveaway.GuildID != guildID || giveaway.Ended || giveaway.Cancelled {
			continue
		}
		entered, err := r.client.SIsMember(ctx, makeEntriesKey(id), userID).Result()
		if err != nil || !entered {
			continue
		}
		giveaways = append(giveaways, giveaway)
	}

	return giveaways, nil
}

func (r *redisRepository) AddWinner(ctx context.Context, giveawayID, userID int64) error {
	if r.client == nil {
		return repository.ErrNotInitialized
	}

	// RPUSH: история побед накапливается, перевыборы не затирают прошлые
	if err := r.client.RPush(ctx, makeWinnersKey(giveawayID), userID).Err(); err != nil {
		return fmt.Errorf("failed to add winner: %w", err)
	}
	return nil
}

func (r *redisRepository) GetWinners(ctx context.Context, giveawayID int64) ([]int64, error) {
	if r.client == nil {
		return nil, repository.ErrNotInitialized
	}

	members, err := r.client.LRange(ctx, makeWinnersKey(giveawayID), 0, -1).Result()
	if err != nil {
		r.logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("failed to read winners")
		return []int64{}, nil
	}

	return parseIDs(members), nil
}

func (r *redisRepository) ClearWinners(ctx context.Context, giveawayID int64) error {
	if r.client == nil {
		return repository.ErrNotInitialized
	}

	if err := r.client.Del(ctx, makeWinnersKey(giveawayID)).Err(); err != nil {
		return fmt.Errorf("failed to clear winners: %w", err)
	}
	return nil
}

func (r *redisRepository) activeIDs(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, keyActiveGiveaways).Result()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read active giveaways")
		return nil, err
	}
	return parseIDs(members), nil
}

func parseIDs(members []string) []int64 {
	ids := make([]int64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
