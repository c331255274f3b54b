package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/striveloop/striveloop-api/internal/database"
	"github.com/striveloop/striveloop-api/internal/middleware"
	"github.com/striveloop/striveloop-api/internal/models"
	"github.com/striveloop/striveloop-api/internal/services"
)

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	frequency := req.Frequency
	if frequency == "" {
		frequency = models.FrequencyDaily
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Frequency:   frequency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsPublic:    req.IsPublic,
		Status:      models.GoalStatusActive,
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var goals []models.Goal
	if err := database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	return c.JSON(goals)
}

func GetGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.First(&goal, goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	if goal.UserID != userID && !goal.IsPublic {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have access to this goal",
		})
	}

	return c.JSON(goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.First(&goal, goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	if goal.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can update this goal",
		})
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Frequency != nil {
		goal.Frequency = *req.Frequency
	}
	if req.StartDate != nil {
		goal.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		goal.EndDate = req.EndDate
	}
	if req.IsPublic != nil {
		goal.IsPublic = *req.IsPublic
	}

	completed := false
	if req.Status != nil {
		if *req.Status != models.GoalStatusActive &&
			*req.Status != models.GoalStatusCompleted &&
			*req.Status != models.GoalStatusArchived {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status. Must be: active, completed, or archived",
			})
		}
		completed = *req.Status == models.GoalStatusCompleted && goal.Status != models.GoalStatusCompleted
		goal.Status = *req.Status
	}

	if err := database.DB.Save(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goal",
		})
	}

	// Completion fans out to the activity log and the achievement catalog;
	// neither can fail the update itself.
	if completed {
		visibility := models.VisibilityPrivate
		if goal.IsPublic {
			visibility = models.VisibilityPublic
		}
		if err := services.NewActivityService(database.DB).Record(nil, userID,
			models.ActivityGoalCompleted,
			map[string]string{"goalId": goal.ID.String()}, visibility); err != nil {
			log.Printf("goals: failed to record completion activity for %s: %v", goal.ID, err)
		}
		if err := services.NewAchievementService(database.DB).EvaluateCompletion(userID, goal.ID); err != nil {
			log.Printf("goals: achievement evaluation failed for %s: %v", goal.ID, err)
		}
	}

	return c.JSON(goal)
}

func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.First(&goal, goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	if goal.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the owner can delete this goal",
		})
	}

	if err := database.DB.Delete(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete goal",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
