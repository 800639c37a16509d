package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"giveaway-bot-backend/internal/common/config"
	"giveaway-bot-backend/internal/common/middleware"
	giveawayhttp "giveaway-bot-backend/internal/features/giveaway/delivery/http"
	giveawayredis "giveaway-bot-backend/internal/features/giveaway/repository/redis"
	giveawaysvc "giveaway-bot-backend/internal/features/giveaway/service"
	guildhttp "giveaway-bot-backend/internal/features/guild/delivery/http"
	guildredis "giveaway-bot-backend/internal/features/guild/repository/redis"
	guildsvc "giveaway-bot-backend/internal/features/guild/service"
	"giveaway-bot-backend/internal/platform/redis"
)

func main() {
	cfg := config.Load()

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient, err := redis.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	giveawayRepo := giveawayredis.NewGiveawayRepository(redisClient.Client, logger)
	guildRepo := guildredis.NewGuildConfigRepository(redisClient.Client, logger)

	giveawayService := giveawaysvc.NewGiveawayService(giveawayRepo, logger)
	winnerService := giveawaysvc.NewWinnerService(giveawayRepo, logger)
	guildService := guildsvc.NewGuildService(guildRepo, logger)

	scheduler := giveawaysvc.NewScheduler(giveawayService, winnerService, nil, cfg.Giveaway.CheckInterval, logger)
	scheduler.Start()
	defer scheduler.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	giveawayhttp.NewHandler(giveawayService, winnerService).RegisterRoutes(api)
	guildhttp.NewHandler(guildService, giveawayService).RegisterRoutes(api)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
