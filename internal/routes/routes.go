package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/maren/innerlog-api/internal/handlers"
	"github.com/maren/innerlog-api/internal/middleware"
)

// Handlers bundles everything Setup wires into the app.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Entries       *handlers.EntryHandler
	Moods         *handlers.MoodHandler
	Analysis      *handlers.AnalysisHandler
	Chat          *handlers.ChatHandler
	Quotes        *handlers.QuoteHandler
	Notifications *handlers.NotificationHandler
	Hub           *handlers.Hub
}

func Setup(app *fiber.App, h Handlers, jwtSecret string) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/google", h.Auth.GoogleLogin)

	protected := api.Group("/", middleware.Protected(jwtSecret))

	protected.Get("/me", h.Auth.GetMe)
	protected.Put("/me", h.Auth.UpdateProfile)

	entries := protected.Group("/entries")
	entries.Get("/", h.Entries.ListEntries)
	entries.Get("/:date", h.Entries.GetEntry)
	entries.Put("/:date", h.Entries.UpsertEntry)
	entries.Post("/:date/tasks", h.Entries.GenerateTasks)
	entries.Post("/:date/analyze", h.Entries.AnalyzeEvening)

	moods := protected.Group("/moods")
	moods.Get("/", h.Moods.ListMoods)
	moods.Post("/", h.Moods.CreateMood)

	protected.Post("/analysis", h.Analysis.Analyze)

	chat := protected.Group("/chat")
	chat.Post("/", h.Chat.Chat)
	chat.Post("/context", h.Chat.ContextChat)
	chat.Get("/sessions", h.Chat.ListSessions)
	chat.Post("/sessions", h.Chat.CreateSession)
	chat.Get("/sessions/:id/messages", h.Chat.ListMessages)

	protected.Get("/quotes/random", h.Quotes.RandomQuote)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notifications.GetNotifications)
	notifications.Put("/:id/read", h.Notifications.MarkNotificationRead)
	notifications.Post("/read-all", h.Notifications.MarkAllRead)

	// Device token for push notifications
	protected.Post("/device-token", h.Notifications.RegisterDeviceToken)

	// WebSocket for live chat session updates
	app.Use("/ws", handlers.Upgrade(jwtSecret))
	app.Get("/ws/chat/:id", websocket.New(h.Hub.Handle))
}
