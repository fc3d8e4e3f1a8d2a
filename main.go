package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aduro-health/intake-assistant/internal/bot"
	"github.com/aduro-health/intake-assistant/internal/config"
	"github.com/aduro-health/intake-assistant/internal/database"
	"github.com/aduro-health/intake-assistant/internal/intake"
	"github.com/aduro-health/intake-assistant/internal/logger"
	"github.com/aduro-health/intake-assistant/internal/services"
	"github.com/aduro-health/intake-assistant/internal/session"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	logger.Info("Starting Aduro intake assistant")

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	profiles := services.NewProfileService(db)
	planner := services.NewMealPlanService(profiles, cfg.GeminiAPIKey)
	machine := intake.NewOrchestrator(profiles, planner)

	var sessions session.Manager
	if cfg.Redis.Enabled {
		redisSessions, err := session.NewRedisManager(cfg.Redis.Host, cfg.Redis.Port)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", "error", err)
		}
		defer redisSessions.Close()
		sessions = redisSessions
		logger.Info("Using Redis session store")
	} else {
		sessions = session.NewMemoryManager()
		logger.Info("Using in-memory session store")
	}

	telegramBot, err := bot.NewBot(cfg.TelegramToken, profiles, machine, sessions)
	if err != nil {
		logger.Fatal("Failed to create bot", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Bot is running. Press Ctrl+C to stop.")
	if err := telegramBot.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("Bot stopped with error", "error", err)
	}
}
