package repository

import (
	"context"
	"errors"

	"giveaway-bot-backend/internal/features/giveaway/models"
)

var (
	// ErrNotFound означает, что розыгрыш не существует
	ErrNotFound = errors.New("giveaway not found")

	// ErrNotInitialized indicates the repository was constructed without a
	// storage handle. This is a startup defect, never a user-facing
	// condition, and is deliberately not degraded on read paths.
	ErrNotInitialized = errors.New("storage not initialized")
)

// GiveawayRepository is the durable gateway for giveaways, their entries and
// their winner history.
//
// Read methods degrade on transient storage faults: single-record reads
// report ErrNotFound, collection reads return an empty result. Write methods
// propagate faults so callers can log and skip the affected item.
type GiveawayRepository interface {
	Create(ctx context.Context, giveaway *models.Giveaway) (*models.Giveaway, error)
	GetByID(ctx context.Context, id int64) (*models.Giveaway, error)
	GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error)
	// GetActive returns non-ended, non-cancelled giveaways with entries
	// populated. guildID 0 means all guilds.
	GetActive(ctx context.Context, guildID int64) ([]*models.Giveaway, error)
	// GetScheduled returns giveaways with a scheduled start that have not
	// ended and were not cancelled.
	GetScheduled(ctx context.Context) ([]*models.Giveaway, error)
	Update(ctx context.Context, giveaway *models.Giveaway) error
	// Delete removes the giveaway together with its entries and winners.
	Delete(ctx context.Context, id int64) error

	// AddEntry reports false when the user already entered.
	AddEntry(ctx context.Context, giveawayID, userID int64) (bool, error)
	// RemoveEntry reports true only when an entry was actually removed.
	RemoveEntry(ctx context.Context, giveawayID, userID int64) (bool, error)
	GetEntries(ctx context.Context, giveawayID int64) ([]int64, error)
	HasEntered(ctx context.Context, giveawayID, userID int64) (bool, error)
	// GetUserEntries returns the non-ended giveaways in a guild the user
	// has entered.
	GetUserEntries(ctx context.Context, guildID, userID int64) ([]*models.Giveaway, error)

	// AddWinner appends to the winner history; repeated selection passes
	// accumulate rather than overwrite.
	AddWinner(ctx context.Context, giveawayID, userID int64) error
	GetWinners(ctx context.Context, giveawayID int64) ([]int64, error)
	ClearWinners(ctx context.Context, giveawayID int64) error
}
