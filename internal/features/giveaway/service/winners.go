package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"giveaway-bot-backend/internal/features/giveaway/models"
	"giveaway-bot-backend/internal/features/giveaway/repository"
)

// WinnerService selects and persists giveaway winners.
//
// Selection is not transactionally atomic with the entry read: an entry
// removed between the read and the winner insert can still win. The single
// serialized poller makes this window negligible; accepted as-is.
type WinnerService struct {
	repo   repository.GiveawayRepository
	logger zerolog.Logger
}

func NewWinnerService(repo repository.GiveawayRepository, logger zerolog.Logger) *WinnerService {
	return &WinnerService{
		repo:   repo,
		logger: logger.With().Str("component", "winner_service").Logger(),
	}
}

// SelectWinners draws up to the giveaway's winner count distinct entrants
// uniformly at random and records each as a winner. When validUserIDs is
// non-nil, entries outside it are excluded first (participants who left the
// guild before the drawing).
func (s *WinnerService) SelectWinners(ctx context.Context, giveaway *models.Giveaway, validUserIDs []int64) ([]int64, error) {
	if giveaway.ID == 0 {
		return nil, nil
	}

	entries, err := s.repo.GetEntries(ctx, giveaway.ID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	if validUserIDs != nil {
		entries = filterIDs(entries, toIDSet(validUserIDs), true)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	winners := sampleWithoutReplacement(entries, giveaway.WinnerCount)

	for _, userID := range winners {
		if err := s.repo.AddWinner(ctx, giveaway.ID, userID); err != nil {
			return nil, fmt.Errorf("failed to record winner %d: %w", userID, err)
		}
	}

	s.logger.Info().
		Int64("giveaway_id", giveaway.ID).
		Int("winners", len(winners)).
		Int("entries", len(entries)).
		Msg("winners selected")

	return winners, nil
}

// RerollWinners draws replacement winners. Previously recorded winners stay
// on record; a reroll appends to the history. With excludePrevious set, all
// prior winners are removed from the candidate pool first, and the pool
// running dry yields fewer winners rather than a repeat.
func (s *WinnerService) RerollWinners(ctx context.Context, giveaway *models.Giveaway, count int, validUserIDs []int64, excludePrevious bool) ([]int64, string, error) {
	if giveaway.ID == 0 {
		return nil, "Invalid giveaway.", nil
	}
	if count < 1 {
		count = 1
	}

	entries, err := s.repo.GetEntries(ctx, giveaway.ID)
	if err != nil {
		return nil, "", err
	}
	if len(entries) == 0 {
		return nil, "No entries found for this giveaway.", nil
	}

	if validUserIDs != nil {
		entries = filterIDs(entries, toIDSet(validUserIDs), true)
	}
	if len(entries) == 0 {
		return nil, "No valid entries found (users may have left the server).", nil
	}

	if excludePrevious {
		previous, err := s.repo.GetWinners(ctx, giveaway.ID)
		if err != nil {
			return nil, "", err
		}
		entries = filterIDs(entries, toIDSet(previous), false)
	}
	if len(entries) == 0 {
		return nil, "No eligible entries remaining for reroll.", nil
	}

	winners := sampleWithoutReplacement(entries, count)

	for _, userID := range winners {
		if err := s.repo.AddWinner(ctx, giveaway.ID, userID); err != nil {
			return nil, "", fmt.Errorf("failed to record winner %d: %w", userID, err)
		}
	}

	return winners, fmt.Sprintf("Successfully rerolled %d winner(s)!", len(winners)), nil
}

func (s *WinnerService) GetWinners(ctx context.Context, giveawayID int64) ([]int64, error) {
	return s.repo.GetWinners(ctx, giveawayID)
}

// ClearWinners wipes the winner history for a giveaway.
func (s *WinnerService) ClearWinners(ctx context.Context, giveawayID int64) error {
	return s.repo.ClearWinners(ctx, giveawayID)
}

// FormatWinnersMessage builds the plain-text winner announcement.
func FormatWinnersMessage(winners []int64, prize string) string {
	if len(winners) == 0 {
		return fmt.Sprintf("🎉 **Giveaway Ended!**\n\nPrize: **%s**\n\nNo valid entries - no winner could be selected.", prize)
	}

	if len(winners) == 1 {
		return fmt.Sprintf(
			"🎉 **Giveaway Ended!**\n\nPrize: **%s**\n\nWinner: <@%d>\n\nCongratulations! 🎊",
			prize, winners[0],
		)
	}

	mentions := make([]string, len(winners))
	for i, userID := range winners {
		mentions[i] = fmt.Sprintf("<@%d>", userID)
	}
	return fmt.Sprintf(
		"🎉 **Giveaway Ended!**\n\nPrize: **%s**\n\nWinners: %s\n\nCongratulations to all winners! 🎊",
		prize, strings.Join(mentions, ", "),
	)
}

// FormatDMMessage builds the direct-message text for a single winner.
func FormatDMMessage(prize, guildName string) string {
	return fmt.Sprintf(
		"🎉 **Congratulations!**\n\nYou won the giveaway in **%s**!\n\nPrize: **%s**\n\nPlease contact a server administrator to claim your prize.",
		guildName, prize,
	)
}

// sampleWithoutReplacement draws min(count, len(pool)) distinct elements
// uniformly at random.
func sampleWithoutReplacement(pool []int64, count int) []int64 {
	shuffled := make([]int64, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

func toIDSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// filterIDs keeps the ids whose set membership matches keep.
func filterIDs(ids []int64, set map[int64]struct{}, keep bool) []int64 {
	filtered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := set[id]; ok == keep {
			filtered = append(filtered, id)
		}
	}
	return filtered
}
