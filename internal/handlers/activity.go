package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/striveloop/striveloop-api/internal/database"
	"github.com/striveloop/striveloop-api/internal/middleware"
	"github.com/striveloop/striveloop-api/internal/services"
)

// GetGroupActivity returns a page of a group's feed, newest first. Only the
// owner and approved members can read it.
func GetGroupActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid group ID",
		})
	}

	member, err := services.NewGroupService(database.DB).IsApprovedMember(groupID, userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Group not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity",
		})
	}
	if !member {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have access to this group's activity",
		})
	}

	page, limit := pagination(c)
	activities, total, err := services.NewActivityService(database.DB).GroupFeed(groupID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity",
		})
	}

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

// GetMyActivity returns a page of the caller's own activity, newest first.
func GetMyActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	page, limit := pagination(c)
	activities, total, err := services.NewActivityService(database.DB).UserFeed(userID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity",
		})
	}

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}
