package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot-backend/internal/features/giveaway/models"
)

type recordingAnnouncer struct {
	mu      sync.Mutex
	started []int64
	ended   map[int64][]int64
}

func newRecordingAnnouncer() *recordingAnnouncer {
	return &recordingAnnouncer{ended: make(map[int64][]int64)}
}

func (a *recordingAnnouncer) GiveawayStarted(_ context.Context, giveaway *models.Giveaway) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.started = append(a.started, giveaway.ID)
	return nil
}

func (a *recordingAnnouncer) GiveawayEnded(_ context.Context, giveaway *models.Giveaway, winners []int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ended[giveaway.ID] = winners
	return nil
}

func TestRunTickEndsDueGiveaway(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	announcer := newRecordingAnnouncer()
	scheduler := NewScheduler(svc, winnerSvc, announcer, time.Minute, zerolog.Nop())
	ctx := context.Background()

	giveaway, err := svc.Create(ctx, &models.GiveawayCreate{
		GuildID:         1,
		ChannelID:       2,
		Prize:           "Nitro",
		DurationSeconds: 3600,
		CreatedBy:       3,
		WinnerCount:     2,
	})
	require.NoError(t, err)

	for _, userID := range []int64{10, 20, 30} {
		ok, msg := svc.Enter(ctx, giveaway.ID, userID, nil)
		require.True(t, ok, msg)
	}

	// Ещё не время — тик ничего не делает
	scheduler.RunTick(ctx)
	assert.Empty(t, announcer.ended)

	giveaway.EndsAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.Update(ctx, giveaway))

	scheduler.RunTick(ctx)

	winners, ok := announcer.ended[giveaway.ID]
	require.True(t, ok)
	assert.Len(t, winners, 2)

	got, err := svc.Get(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GiveawayStatusEnded, got.Status())
	assert.ElementsMatch(t, winners, got.Winners)

	// Повторный тик не перевыбирает победителей
	scheduler.RunTick(ctx)
	got, err = svc.Get(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.Len(t, got.Winners, 2)
}

func TestRunTickStartsDueScheduledGiveaway(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	announcer := newRecordingAnnouncer()
	scheduler := NewScheduler(svc, winnerSvc, announcer, time.Minute, zerolog.Nop())
	ctx := context.Background()

	start := time.Now().UTC().Add(time.Hour)
	giveaway, err := svc.Create(ctx, &models.GiveawayCreate{
		GuildID:         1,
		ChannelID:       2,
		Prize:           "Nitro",
		DurationSeconds: 3600,
		CreatedBy:       3,
		ScheduledStart:  &start,
	})
	require.NoError(t, err)

	scheduler.RunTick(ctx)
	assert.Empty(t, announcer.started)

	past := time.Now().UTC().Add(-time.Second)
	giveaway.ScheduledStart = &past
	require.NoError(t, repo.Update(ctx, giveaway))

	scheduler.RunTick(ctx)
	assert.Equal(t, []int64{giveaway.ID}, announcer.started)

	got, err := svc.Get(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ScheduledStart)
	assert.Equal(t, models.GiveawayStatusActive, got.Status())

	// Старт уже состоялся, второй тик его не повторяет
	scheduler.RunTick(ctx)
	assert.Equal(t, []int64{giveaway.ID}, announcer.started)
}

func TestSchedulerStartStop(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	scheduler := NewScheduler(svc, winnerSvc, nil, 10*time.Millisecond, zerolog.Nop())
	ctx := context.Background()

	giveaway, err := svc.Create(ctx, &models.GiveawayCreate{
		GuildID:         1,
		ChannelID:       2,
		Prize:           "Nitro",
		DurationSeconds: 3600,
		CreatedBy:       3,
	})
	require.NoError(t, err)

	giveaway.EndsAt = time.Now().UTC().Add(-time.Minute)
	require.NoError(t, repo.Update(ctx, giveaway))

	scheduler.Start()

	require.Eventually(t, func() bool {
		got, err := svc.Get(ctx, giveaway.ID)
		return err == nil && got.Status() == models.GiveawayStatusEnded
	}, 2*time.Second, 20*time.Millisecond)

	scheduler.Stop()
}
