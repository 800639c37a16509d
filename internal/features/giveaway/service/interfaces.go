package service

import (
	"context"

	"giveaway-bot-backend/internal/features/giveaway/models"
)

// GiveawayService drives the giveaway lifecycle. Operations that react to
// user actions return (ok, message) pairs; the message is a human-readable
// reason suitable for rendering as-is by the delivery layer.
type GiveawayService interface {
	Create(ctx context.Context, input *models.GiveawayCreate) (*models.Giveaway, error)
	Get(ctx context.Context, giveawayID int64) (*models.Giveaway, error)
	GetByMessageID(ctx context.Context, messageID int64) (*models.Giveaway, error)
	GetActive(ctx context.Context, guildID int64) ([]*models.Giveaway, error)
	GetUserEntries(ctx context.Context, guildID, userID int64) ([]*models.Giveaway, error)

	Enter(ctx context.Context, giveawayID, userID int64, userRoleIDs []int64) (bool, string)
	Leave(ctx context.Context, giveawayID, userID int64) (bool, string)

	// End marks the giveaway ended and returns it, or nil when the id does
	// not resolve. It does not re-check the ended flag; the poller is the
	// only caller and owns idempotency.
	End(ctx context.Context, giveawayID int64) (*models.Giveaway, error)
	Cancel(ctx context.Context, giveawayID int64) (bool, string)
	StartScheduled(ctx context.Context, giveaway *models.Giveaway) error
	SetMessageID(ctx context.Context, giveaway *models.Giveaway, messageID int64) error
	Delete(ctx context.Context, giveawayID int64) error

	// Poller views: pure filters over the repository scans, re-evaluated
	// on every tick.
	GiveawaysToStart(ctx context.Context) ([]*models.Giveaway, error)
	GiveawaysToEnd(ctx context.Context) ([]*models.Giveaway, error)
}

// Announcer is the rendering collaborator. The engine never formats
// platform markup; implementations own message delivery entirely.
type Announcer interface {
	GiveawayStarted(ctx context.Context, giveaway *models.Giveaway) error
	GiveawayEnded(ctx context.Context, giveaway *models.Giveaway, winners []int64) error
}

// NopAnnouncer discards announcements.
type NopAnnouncer struct{}

func (NopAnnouncer) GiveawayStarted(context.Context, *models.Giveaway) error { return nil }

func (NopAnnouncer) GiveawayEnded(context.Context, *models.Giveaway, []int64) error { return nil }
