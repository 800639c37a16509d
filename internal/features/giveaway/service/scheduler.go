package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler polls for giveaways that are due to start or end. A single
// goroutine runs the whole tick inline, so ticks never overlap: a slow tick
// delays the next one instead of racing it.
type Scheduler struct {
	ctx       context.Context
	cancel    context.CancelFunc
	giveaways GiveawayService
	winners   *WinnerService
	announcer Announcer
	interval  time.Duration
	logger    zerolog.Logger
	wg        sync.WaitGroup
}

func NewScheduler(giveaways GiveawayService, winners *WinnerService, announcer Announcer, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if announcer == nil {
		announcer = NopAnnouncer{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:       ctx,
		cancel:    cancel,
		giveaways: giveaways,
		winners:   winners,
		announcer: announcer,
		interval:  interval,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

func (s *Scheduler) Start() {
	s.logger.Info().Dur("interval", s.interval).Msg("starting giveaway scheduler")
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.RunTick(s.ctx)
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info().Msg("giveaway scheduler stopped")
}

// RunTick performs one poll pass. Failures on individual giveaways are
// logged and skipped so one broken record cannot stall the rest.
func (s *Scheduler) RunTick(ctx context.Context) {
	s.startDueGiveaways(ctx)
	s.endDueGiveaways(ctx)
}

func (s *Scheduler) startDueGiveaways(ctx context.Context) {
	due, err := s.giveaways.GiveawaysToStart(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list giveaways to start")
		return
	}

	for _, giveaway := range due {
		if err := s.giveaways.StartScheduled(ctx, giveaway); err != nil {
			s.logger.Error().Err(err).Int64("giveaway_id", giveaway.ID).Msg("failed to start giveaway")
			continue
		}
		if err := s.announcer.GiveawayStarted(ctx, giveaway); err != nil {
			s.logger.Error().Err(err).Int64("giveaway_id", giveaway.ID).Msg("failed to announce start")
		}
		s.logger.Info().Int64("giveaway_id", giveaway.ID).Msg("started scheduled giveaway")
	}
}

func (s *Scheduler) endDueGiveaways(ctx context.Context) {
	due, err := s.giveaways.GiveawaysToEnd(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list giveaways to end")
		return
	}

	for _, giveaway := range due {
		ended, err := s.giveaways.End(ctx, giveaway.ID)
		if err != nil {
			s.logger.Error().Err(err).Int64("giveaway_id", giveaway.ID).Msg("failed to end giveaway")
			continue
		}
		if ended == nil {
			continue
		}

		winners, err := s.winners.SelectWinners(ctx, ended, nil)
		if err != nil {
			s.logger.Error().Err(err).Int64("giveaway_id", ended.ID).Msg("failed to select winners")
			continue
		}

		if err := s.announcer.GiveawayEnded(ctx, ended, winners); err != nil {
			s.logger.Error().Err(err).Int64("giveaway_id", ended.ID).Msg("failed to announce winners")
		}

		s.logger.Info().
			Int64("giveaway_id", ended.ID).
			Int("winners", len(winners)).
			Msg("ended giveaway")
	}
}
