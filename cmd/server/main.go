package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/maren/innerlog-api/internal/analytics"
	"github.com/maren/innerlog-api/internal/config"
	"github.com/maren/innerlog-api/internal/database"
	"github.com/maren/innerlog-api/internal/handlers"
	"github.com/maren/innerlog-api/internal/llm"
	"github.com/maren/innerlog-api/internal/logger"
	"github.com/maren/innerlog-api/internal/repository"
	"github.com/maren/innerlog-api/internal/routes"
	"github.com/maren/innerlog-api/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	store := repository.NewGormStore(db)

	gemini, err := llm.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize gemini client")
	}
	defer gemini.Close()

	claude := llm.NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicModel)

	push := services.NewPushService(store, cfg.FCMServiceAccount, log)

	aggregator := analytics.NewAggregator(store, store, log)
	assembler := analytics.NewAssembler(store, log)
	hub := handlers.NewHub(log)

	app := fiber.New(fiber.Config{
		AppName:               "Innerlog API",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	routes.Setup(app, routes.Handlers{
		Auth:          handlers.NewAuthHandler(store, cfg.JWTSecret, cfg.GoogleClientIDs, log),
		Entries:       handlers.NewEntryHandler(store, gemini, push, log),
		Moods:         handlers.NewMoodHandler(store),
		Analysis:      handlers.NewAnalysisHandler(store, aggregator, assembler, gemini, log),
		Chat:          handlers.NewChatHandler(store, assembler, claude, hub, log),
		Quotes:        handlers.NewQuoteHandler(store),
		Notifications: handlers.NewNotificationHandler(store),
		Hub:           hub,
	}, cfg.JWTSecret)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	log.Info().Msg("shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
