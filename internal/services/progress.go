package services

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/striveloop/striveloop-api/internal/models"
)

// ProgressService coordinates a progress write with its fan-out: the entry is
// persisted first, then the activity record and the achievement evaluation
// are both attempted. Neither side effect can fail the write, and one side
// failing does not stop the other.
type ProgressService struct {
	db           *gorm.DB
	activity     *ActivityService
	achievements *AchievementService
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{
		db:           db,
		activity:     NewActivityService(db),
		achievements: NewAchievementService(db),
	}
}

// Log records a check-in against the caller's goal. date defaults to today.
func (s *ProgressService) Log(userID, goalID uuid.UUID, date *time.Time, value float64, note string) (*models.ProgressEntry, error) {
	var goal models.Goal
	if err := s.db.First(&goal, goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if goal.UserID != userID {
		return nil, ErrForbidden
	}

	day := startOfDay(time.Now())
	if date != nil {
		day = startOfDay(*date)
	}

	entry := models.ProgressEntry{
		GoalID: goalID,
		UserID: userID,
		Date:   day,
		Value:  value,
		Note:   note,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}

	// Check-ins are private by default; they never surface in group feeds.
	if err := s.activity.Record(nil, userID, models.ActivityProgressLogged,
		map[string]string{
			"goalId":      goal.ID.String(),
			"description": "logged progress for goal: " + goal.Title,
		}, models.VisibilityPrivate); err != nil {
		logActivityFailure(models.ActivityProgressLogged, goal.ID, userID, err)
	}

	if err := s.achievements.Evaluate(userID, goal.ID); err != nil {
		log.Printf("achievements: evaluation failed for user %s goal %s: %v", userID, goal.ID, err)
	}

	return &entry, nil
}

// ListForGoal returns a goal's entries newest-first. Non-owners can only read
// public goals.
func (s *ProgressService) ListForGoal(goalID, userID uuid.UUID) ([]models.ProgressEntry, error) {
	var goal models.Goal
	if err := s.db.First(&goal, goalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if goal.UserID != userID && !goal.IsPublic {
		return nil, ErrForbidden
	}

	var entries []models.ProgressEntry
	if err := s.db.Where("goal_id = ?", goalID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
