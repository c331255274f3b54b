package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/striveloop/striveloop-api/internal/config"
	"github.com/striveloop/striveloop-api/internal/handlers"
	"github.com/striveloop/striveloop-api/internal/middleware"
)

func Setup(app *fiber.App, cfg *config.Config) {
	handlers.Init(cfg)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected(cfg.JWTSecret))

	protected.Get("/me", handlers.GetMe)
	protected.Get("/me/activity", handlers.GetMyActivity)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/:id", handlers.GetGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)

	// Progress check-ins
	goals.Post("/:id/progress", handlers.LogProgress)
	goals.Get("/:id/progress", handlers.GetGoalProgress)

	groups := protected.Group("/groups")
	groups.Get("/", handlers.GetGroups)
	groups.Post("/", handlers.CreateGroup)
	groups.Get("/:id", handlers.GetGroup)
	groups.Put("/:id", handlers.UpdateGroup)
	groups.Delete("/:id", handlers.DeleteGroup)

	// Membership lifecycle
	groups.Post("/:id/join", handlers.JoinGroup)
	groups.Post("/:id/leave", handlers.LeaveGroup)
	groups.Post("/:id/members/:userId/approve", handlers.ApproveMember)
	groups.Get("/:id/members", handlers.GetMembers)
	groups.Get("/:id/members/pending", handlers.GetPendingMembers)

	// Group activity feed
	groups.Get("/:id/activity", handlers.GetGroupActivity)

	// Achievements
	achievements := protected.Group("/achievements")
	achievements.Get("/", handlers.GetAchievements)
	achievements.Get("/me", handlers.GetMyAchievements)
}
