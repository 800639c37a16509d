package models

import (
	"time"
)

// GiveawayStatus represents the lifecycle state of a giveaway.
type GiveawayStatus string

const (
	GiveawayStatusScheduled GiveawayStatus = "scheduled" // waiting for its start time
	GiveawayStatusActive    GiveawayStatus = "active"    // accepting entries
	GiveawayStatusEnded     GiveawayStatus = "ended"     // ended, winners selected
	GiveawayStatusCancelled GiveawayStatus = "cancelled" // cancelled by an admin
)

// Giveaway represents a time-boxed raffle in a guild channel.
//
// Status is always derived from the stored flags and timestamps; it is never
// persisted on its own, so the flags cannot drift from a cached state.
type Giveaway struct {
	ID             int64      `json:"id"`
	GuildID        int64      `json:"guild_id"`
	ChannelID      int64      `json:"channel_id"`
	MessageID      *int64     `json:"message_id,omitempty"`
	Prize          string     `json:"prize"`
	WinnerCount    int        `json:"winner_count"`
	RequiredRoleID *int64     `json:"required_role_id,omitempty"`
	CreatedBy      int64      `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	EndsAt         time.Time  `json:"ends_at"`
	Ended          bool       `json:"ended"`
	Cancelled      bool       `json:"cancelled"`

	// Loaded from related storage on read, not part of the record itself.
	Entries []int64 `json:"-"`
	Winners []int64 `json:"-"`
}

// StatusAt derives the status at the given instant.
func (g *Giveaway) StatusAt(now time.Time) GiveawayStatus {
	switch {
	case g.Cancelled:
		return GiveawayStatusCancelled
	case g.Ended:
		return GiveawayStatusEnded
	case g.ScheduledStart != nil && now.Before(*g.ScheduledStart):
		return GiveawayStatusScheduled
	default:
		return GiveawayStatusActive
	}
}

// Status derives the current status.
func (g *Giveaway) Status() GiveawayStatus {
	return g.StatusAt(time.Now().UTC())
}

// IsActive reports whether the giveaway currently accepts entries.
func (g *Giveaway) IsActive() bool {
	return g.Status() == GiveawayStatusActive
}

// IsEnded reports whether the giveaway reached a terminal state.
func (g *Giveaway) IsEnded() bool {
	s := g.Status()
	return s == GiveawayStatusEnded || s == GiveawayStatusCancelled
}

// ShouldEnd reports whether an active giveaway is past its end time.
func (g *Giveaway) ShouldEnd() bool {
	return g.IsActive() && !time.Now().UTC().Before(g.EndsAt)
}

// ShouldStart reports whether a scheduled giveaway is past its start time.
// The scheduled start stays set until the poller picks the giveaway up, so
// the check is on the raw field rather than the derived status.
func (g *Giveaway) ShouldStart() bool {
	if g.Ended || g.Cancelled || g.ScheduledStart == nil {
		return false
	}
	return !time.Now().UTC().Before(*g.ScheduledStart)
}

// TimeRemaining returns seconds until the giveaway ends, zero at minimum.
// The second result is false once the giveaway is in a terminal state.
func (g *Giveaway) TimeRemaining() (float64, bool) {
	if g.IsEnded() {
		return 0, false
	}
	remaining := time.Until(g.EndsAt).Seconds()
	if remaining < 0 {
		remaining = 0
	}
	return remaining, true
}

// EntryCount returns the number of loaded entries.
func (g *Giveaway) EntryCount() int {
	return len(g.Entries)
}

// GiveawayCreate carries the fields needed to create a giveaway.
type GiveawayCreate struct {
	GuildID         int64
	ChannelID       int64
	Prize           string
	DurationSeconds int64
	CreatedBy       int64
	WinnerCount     int
	RequiredRoleID  *int64
	ScheduledStart  *time.Time
}
