package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/striveloop/striveloop-api/internal/database"
	"github.com/striveloop/striveloop-api/internal/middleware"
	"github.com/striveloop/striveloop-api/internal/services"
)

// GetAchievements returns the full achievement catalog.
func GetAchievements(c *fiber.Ctx) error {
	achievements, err := services.NewAchievementService(database.DB).Catalog()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch achievements",
		})
	}

	return c.JSON(achievements)
}

// GetMyAchievements returns the caller's earned achievements.
func GetMyAchievements(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	grants, err := services.NewAchievementService(database.DB).UserGrants(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch achievements",
		})
	}

	return c.JSON(grants)
}
