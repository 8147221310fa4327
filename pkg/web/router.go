package web

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts every API endpoint on the app.
func RegisterRoutes(app *fiber.App, handlers *APIHandlers) {
	posts := app.Group("/posts")
	posts.Get("/", handlers.GetPosts)
	posts.Put("/:id", handlers.UpdatePost)
	posts.Delete("/:id", handlers.DeletePost)

	topics := app.Group("/topics")
	topics.Get("/", handlers.GetTopics)
	topics.Put("/:id", handlers.UpdateTopic)
	topics.Delete("/:id", handlers.DeleteTopic)

	agents := app.Group("/agents")
	agents.Get("/", handlers.GetAgents)
	agents.Post("/", handlers.CreateAgent)
	agents.Put("/:id", handlers.UpdateAgent)
	agents.Delete("/:id", handlers.DeleteAgent)

	app.Get("/settings", handlers.GetSettings)
	app.Put("/settings", handlers.UpdateSettings)
	app.Get("/settings/linkedin-status", handlers.LinkedInStatus)

	app.Get("/workflow/runs", handlers.GetWorkflowRuns)
	app.Post("/workflow", handlers.RunWorkflow)

	app.Get("/cron", handlers.Cron)
	app.Get("/health", handlers.Health)
}
