package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"giveaway-bot-backend/internal/features/giveaway/models"
)

func endedGiveaway(t *testing.T, svc GiveawayService, winnerCount int, entrants []int64) *models.Giveaway {
	t.Helper()
	ctx := context.Background()

	giveaway, err := svc.Create(ctx, &models.GiveawayCreate{
		GuildID:         1,
		ChannelID:       2,
		Prize:           "Nitro",
		DurationSeconds: 3600,
		CreatedBy:       3,
		WinnerCount:     winnerCount,
	})
	require.NoError(t, err)

	for _, userID := range entrants {
		ok, msg := svc.Enter(ctx, giveaway.ID, userID, nil)
		require.True(t, ok, msg)
	}

	ended, err := svc.End(ctx, giveaway.ID)
	require.NoError(t, err)
	require.NotNil(t, ended)
	return ended
}

func TestSelectWinnersDistinct(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	ctx := context.Background()

	entrants := []int64{10, 20, 30, 40, 50}
	giveaway := endedGiveaway(t, svc, 2, entrants)

	winners, err := winnerSvc.SelectWinners(ctx, giveaway, nil)
	require.NoError(t, err)
	require.Len(t, winners, 2)

	assert.NotEqual(t, winners[0], winners[1])
	for _, winner := range winners {
		assert.Contains(t, entrants, winner)
	}

	recorded, err := winnerSvc.GetWinners(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, winners, recorded)
}

func TestSelectWinnersFewerThanRequested(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	ctx := context.Background()

	giveaway := endedGiveaway(t, svc, 5, []int64{10, 20})

	winners, err := winnerSvc.SelectWinners(ctx, giveaway, nil)
	require.NoError(t, err)
	assert.Len(t, winners, 2)
}

func TestSelectWinnersNoEntries(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	ctx := context.Background()

	giveaway := endedGiveaway(t, svc, 1, nil)

	winners, err := winnerSvc.SelectWinners(ctx, giveaway, nil)
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestSelectWinnersValidUserFilter(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	ctx := context.Background()

	giveaway := endedGiveaway(t, svc, 2, []int64{10, 20, 30})

	// Только пользователь 20 всё ещё на сервере
	winners, err := winnerSvc.SelectWinners(ctx, giveaway, []int64{20})
	require.NoError(t, err)
	assert.Equal(t, []int64{20}, winners)

	// Никого не осталось — победителей нет
	require.NoError(t, winnerSvc.ClearWinners(ctx, giveaway.ID))
	winners, err = winnerSvc.SelectWinners(ctx, giveaway, []int64{})
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestRerollExcludesPreviousWinners(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	ctx := context.Background()

	entrants := []int64{10, 20, 30}
	giveaway := endedGiveaway(t, svc, 1, entrants)

	first, err := winnerSvc.SelectWinners(ctx, giveaway, nil)
	require.NoError(t, err)
	require.Len(t, first, 1)

	seen := map[int64]bool{first[0]: true}
	for i := 0; i < 2; i++ {
		winners, msg, err := winnerSvc.RerollWinners(ctx, giveaway, 1, nil, true)
		require.NoError(t, err)
		require.Len(t, winners, 1)
		assert.Equal(t, "Successfully rerolled 1 winner(s)!", msg)
		assert.False(t, seen[winners[0]], "reroll repeated winner %d", winners[0])
		seen[winners[0]] = true
	}

	// Пул исчерпан
	winners, msg, err := winnerSvc.RerollWinners(ctx, giveaway, 1, nil, true)
	require.NoError(t, err)
	assert.Empty(t, winners)
	assert.Equal(t, "No eligible entries remaining for reroll.", msg)

	// История побед сохранила всех троих
	recorded, err := winnerSvc.GetWinners(ctx, giveaway.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, entrants, recorded)
}

func TestRerollWithoutExclusion(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	ctx := context.Background()

	giveaway := endedGiveaway(t, svc, 1, []int64{10})

	first, err := winnerSvc.SelectWinners(ctx, giveaway, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{10}, first)

	winners, _, err := winnerSvc.RerollWinners(ctx, giveaway, 1, nil, false)
	require.NoError(t, err)
	assert.Equal(t, []int64{10}, winners)
}

func TestRerollMessages(t *testing.T) {
	svc, repo := newTestService(t)
	winnerSvc := NewWinnerService(repo, zerolog.Nop())
	ctx := context.Background()

	empty := endedGiveaway(t, svc, 1, nil)
	_, msg, err := winnerSvc.RerollWinners(ctx, empty, 1, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "No entries found for this giveaway.", msg)

	populated := endedGiveaway(t, svc, 1, []int64{10, 20})
	_, msg, err = winnerSvc.RerollWinners(ctx, populated, 1, []int64{}, true)
	require.NoError(t, err)
	assert.Equal(t, "No valid entries found (users may have left the server).", msg)

	_, msg, err = winnerSvc.RerollWinners(ctx, &models.Giveaway{}, 1, nil, true)
	require.NoError(t, err)
	assert.Equal(t, "Invalid giveaway.", msg)
}

func TestFormatWinnersMessage(t *testing.T) {
	assert.Equal(t,
		"🎉 **Giveaway Ended!**\n\nPrize: **Nitro**\n\nWinner: <@10>\n\nCongratulations! 🎊",
		FormatWinnersMessage([]int64{10}, "Nitro"),
	)
	assert.Equal(t,
		"🎉 **Giveaway Ended!**\n\nPrize: **Nitro**\n\nWinners: <@10>, <@20>\n\nCongratulations to all winners! 🎊",
		FormatWinnersMessage([]int64{10, 20}, "Nitro"),
	)
	assert.Contains(t, FormatWinnersMessage(nil, "Nitro"), "No valid entries")
}

func TestSampleWithoutReplacementUniform(t *testing.T) {
	pool := []int64{1, 2, 3, 4, 5}

	counts := make(map[int64]int)
	for i := 0; i < 2000; i++ {
		sample := sampleWithoutReplacement(pool, 1)
		require.Len(t, sample, 1)
		counts[sample[0]]++
	}

	// Каждый элемент должен выпадать примерно в пятой части розыгрышей
	for _, id := range pool {
		assert.InDelta(t, 400, counts[id], 150, "element %d drawn %d times", id, counts[id])
	}

	full := sampleWithoutReplacement(pool, 10)
	assert.Len(t, full, len(pool))
	assert.ElementsMatch(t, pool, full)
}
