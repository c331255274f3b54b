package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/striveloop/striveloop-api/internal/models"
)

// AchievementService evaluates the achievement catalog against a user's
// progress history and writes grants. Grant writes go through a conditional
// insert backed by the (user_id, achievement_id) unique index, so concurrent
// evaluations of the same event produce exactly one grant.
type AchievementService struct {
	db *gorm.DB
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db}
}

// Catalog returns every achievement definition.
func (s *AchievementService) Catalog() ([]models.Achievement, error) {
	var achievements []models.Achievement
	if err := s.db.Order("created_at ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}
	return achievements, nil
}

// UserGrants returns the achievements a user has earned, with definitions
// preloaded.
func (s *AchievementService) UserGrants(userID uuid.UUID) ([]models.AchievementGrant, error) {
	var grants []models.AchievementGrant
	if err := s.db.Where("user_id = ?", userID).
		Preload("Achievement").
		Order("earned_at DESC").
		Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}

// Evaluate runs after a progress write. It checks every catalog definition
// the user has not yet earned and grants the ones that now hold. Completion
// rules are skipped here; they only fire from EvaluateCompletion. Callers
// must treat a returned error as operational noise, never as a reason to
// fail the progress write that triggered it.
func (s *AchievementService) Evaluate(userID, goalID uuid.UUID) error {
	achievements, err := s.Catalog()
	if err != nil {
		return err
	}

	for _, achievement := range achievements {
		if achievement.RuleKind == models.RuleGoalCompleted {
			continue
		}

		granted, err := s.hasGrant(userID, achievement.ID)
		if err != nil {
			return err
		}
		if granted {
			continue
		}

		earned, err := s.earned(goalID, achievement)
		if err != nil {
			return err
		}
		if !earned {
			continue
		}

		if err := s.grant(userID, achievement.ID, goalID); err != nil {
			return err
		}
	}

	return nil
}

// EvaluateCompletion runs when a goal transitions to completed and grants
// every completion-rule achievement the user has not yet earned.
func (s *AchievementService) EvaluateCompletion(userID, goalID uuid.UUID) error {
	achievements, err := s.Catalog()
	if err != nil {
		return err
	}

	for _, achievement := range achievements {
		if achievement.RuleKind != models.RuleGoalCompleted {
			continue
		}

		granted, err := s.hasGrant(userID, achievement.ID)
		if err != nil {
			return err
		}
		if granted {
			continue
		}

		if err := s.grant(userID, achievement.ID, goalID); err != nil {
			return err
		}
	}

	return nil
}

// earned decides a single non-completion rule. The switch is exhaustive over
// RuleKind; an unknown kind is a hard error rather than a silent false.
func (s *AchievementService) earned(goalID uuid.UUID, achievement models.Achievement) (bool, error) {
	switch achievement.RuleKind {
	case models.RuleStreakDays:
		return s.hasStreak(goalID, achievement.RuleValue)

	case models.RuleTotalCheckins:
		var count int64
		if err := s.db.Model(&models.ProgressEntry{}).
			Where("goal_id = ?", goalID).
			Count(&count).Error; err != nil {
			return false, err
		}
		return count >= int64(achievement.RuleValue), nil

	case models.RuleGoalCompleted:
		// Only reachable from the completion path.
		return true, nil

	default:
		return false, fmt.Errorf("unknown achievement rule kind %q", achievement.RuleKind)
	}
}

// hasStreak walks backwards from today one calendar day at a time, counting
// entries in [day, day+1). The first empty day short-circuits the whole check.
func (s *AchievementService) hasStreak(goalID uuid.UUID, requiredDays int) (bool, error) {
	day := startOfDay(time.Now())

	for i := 0; i < requiredDays; i++ {
		var count int64
		if err := s.db.Model(&models.ProgressEntry{}).
			Where("goal_id = ? AND date >= ? AND date < ?", goalID, day, day.AddDate(0, 0, 1)).
			Count(&count).Error; err != nil {
			return false, err
		}
		if count == 0 {
			return false, nil
		}
		day = day.AddDate(0, 0, -1)
	}

	return true, nil
}

func (s *AchievementService) hasGrant(userID, achievementID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.AchievementGrant{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	return count > 0, err
}

// grant inserts the grant row, deferring to the unique index when another
// evaluation got there first.
func (s *AchievementService) grant(userID, achievementID, goalID uuid.UUID) error {
	grant := models.AchievementGrant{
		UserID:        userID,
		AchievementID: achievementID,
		GoalID:        goalID,
		EarnedAt:      time.Now(),
	}

	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
