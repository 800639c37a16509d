package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"giveaway-bot-backend/internal/common/validation"
	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

type giveawayService struct {
	repo   repository.GiveawayRepository
	logger zerolog.Logger
}

func NewGiveawayService(repo repository.GiveawayRepository, logger zerolog.Logger) GiveawayService {
	return &giveawayService{
		repo:   repo,
		logger: logger.With().Str("component", "giveaway_service").Logger(),
	}
}

func (s *giveawayService) Create(ctx context.Context, input *models.GiveawayCreate) (*models.Giveaway, error) {
	if input.WinnerCount == 0 {
		input.WinnerCount = 1
	}
	if err := validation.ValidateWinnerCount(input.WinnerCount); err != nil {
		return nil, err
	}
	if err := validation.ValidatePrize(input.Prize); err != nil {
		return nil, err
	}
	if err := validation.ValidateDuration(input.DurationSeconds); err != nil {
		return nil, err
	}

	// Длительность отсчитывается от запланированного старта, если он задан
	now := time.Now().UTC()
	start := now
	if input.ScheduledStart != nil {
		start = *input.ScheduledStart
	}
	endsAt := start.Add(time.Duration(input.DurationSeconds) * time.Second)

	giveaway := &models.Giveaway{
		GuildID:        input.GuildID,
		ChannelID:      input.ChannelID,
		Prize:          input.Prize,
		WinnerCount:    input.WinnerCount,
		RequiredRoleID: input.RequiredRoleID,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
		ScheduledStart: input.ScheduledStart,
		EndsAt:         endsAt,
	}

	created, err := s.repo.Create(ctx, giveaway)
	if err != nil {
		return nil, fmt.Errorf("failed to create giveaway: %w", err)
	}

	s.logger.Info().
		Int64("giveaway_id", created.ID).
		Int64("guild_id", created.GuildID).
		Time("ends_at", created.EndsAt).
		Msg("giveaway created")

	return created, nil
}

func (s *giveawayService) Get(ctx context.Context, giveawayID int64) (*models.Giveaway, error) {
	return s.repo.GetByID(ctx, giveawayID)
}

func (s *giveawayService) GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error) {
	return s.repo.GetByMessageID(ctx, messageID)
}

func (s *giveawayService) GetActive(ctx context.Context, guildID int64) ([]*models.Giveaway, error) {
	return s.repo.GetActive(ctx, guildID)
}

func (s *giveawayService) GetUserEntries(ctx context.Context, guildID, userID int64) ([]*models.Giveaway, error) {
	return s.repo.GetUserEntries(ctx, guildID, userID)
}

func (s *giveawayService) Enter(ctx context.Context, giveawayID, userID int64, userRoleIDs []int64) (bool, string) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		return false, "Giveaway not found."
	}

	if !giveaway.IsActive() {
		if giveaway.Status() == models.GiveawayStatusScheduled {
			return false, "This giveaway hasn't started yet."
		}
		return false, "This giveaway has ended."
	}

	if giveaway.RequiredRoleID != nil && !containsID(userRoleIDs, *giveaway.RequiredRoleID) {
		return false, "You don't have the required role to enter this giveaway."
	}

	if entered, _ := s.repo.HasEntered(ctx, giveawayID, userID); entered {
		return false, "You've already entered this giveaway!"
	}

	added, err := s.repo.AddEntry(ctx, giveawayID, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("giveaway_id", giveawayID).Int64("user_id", userID).Msg("enter failed")
		return false, "Failed to enter the giveaway."
	}
	if !added {
		// Проигрыш гонки двойного входа ограничению уникальности
		return false, "You've already entered this giveaway!"
	}

	return true, "You've been entered into the giveaway! 🎉"
}

func (s *giveawayService) Leave(ctx context.Context, giveawayID, userID int64) (bool, string) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		return false, "Giveaway not found."
	}

	if !giveaway.IsActive() {
		return false, "This giveaway has ended."
	}

	removed, err := s.repo.RemoveEntry(ctx, giveawayID, userID)
	if err != nil || !removed {
		return false, "You weren't entered in this giveaway."
	}

	return true, "You've been removed from the giveaway."
}

func (s *giveawayService) End(ctx context.Context, giveawayID int64) (*models.Giveaway, error) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	giveaway.Ended = true
	if err := s.repo.Update(ctx, giveaway); err != nil {
		return nil, fmt.Errorf("failed to end giveaway: %w", err)
	}

	return giveaway, nil
}

func (s *giveawayService) Cancel(ctx context.Context, giveawayID int64) (bool, string) {
	giveaway, err := s.repo.GetByID(ctx, giveawayID)
	if err != nil {
		return false, "Giveaway not found."
	}

	if giveaway.IsEnded() {
		return false, "This giveaway has already ended."
	}

	giveaway.Cancelled = true
	if err := s.repo.Update(ctx, giveaway); err != nil {
		s.logger.Error().Err(err).Int64("giveaway_id", giveawayID).Msg("cancel failed")
		return false, "Failed to cancel the giveaway."
	}

	return true, "Giveaway cancelled."
}

// StartScheduled clears the scheduled start, transitioning the giveaway from
// SCHEDULED to ACTIVE.
func (s *giveawayService) StartScheduled(ctx context.Context, giveaway *models.Giveaway) error {
	giveaway.ScheduledStart = nil
	return s.repo.Update(ctx, giveaway)
}

func (s *giveawayService) SetMessageID(ctx context.Context, giveaway *models.Giveaway, messageID int64) error {
	giveaway.MessageID = &messageID
	return s.repo.Update(ctx, giveaway)
}

func (s *giveawayService) Delete(ctx context.Context, giveawayID int64) error {
	return s.repo.Delete(ctx, giveawayID)
}

func (s *giveawayService) GiveawaysToStart(ctx context.Context) ([]*models.Giveaway, error) {
	scheduled, err := s.repo.GetScheduled(ctx)
	if err != nil {
		return nil, err
	}

	var due []*models.Giveaway
	for _, giveaway := range scheduled {
		if giveaway.ShouldStart() {
			due = append(due, giveaway)
		}
	}
	return due, nil
}

func (s *giveawayService) GiveawaysToEnd(ctx context.Context) ([]*models.Giveaway, error) {
	active, err := s.repo.GetActive(ctx, 0)
	if err != nil {
		return nil, err
	}

	var due []*models.Giveaway
	for _, giveaway := range active {
		if giveaway.ShouldEnd() {
			due = append(due, giveaway)
		}
	}
	return due, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
