package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/striveloop/striveloop-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every sqlite connection to :memory: is a separate database, so pin the
	// pool to a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.ProgressEntry{},
		&models.Achievement{},
		&models.AchievementGrant{},
		&models.Group{},
		&models.Membership{},
		&models.Activity{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "hashed", Name: email}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createGoal(t *testing.T, db *gorm.DB, userID uuid.UUID, title string, public bool) models.Goal {
	t.Helper()
	goal := models.Goal{
		UserID:    userID,
		Title:     title,
		Frequency: models.FrequencyDaily,
		IsPublic:  public,
		Status:    models.GoalStatusActive,
	}
	require.NoError(t, db.Create(&goal).Error)
	return goal
}

func createAchievement(t *testing.T, db *gorm.DB, name string, kind models.RuleKind, value int) models.Achievement {
	t.Helper()
	achievement := models.Achievement{Name: name, RuleKind: kind, RuleValue: value}
	require.NoError(t, db.Create(&achievement).Error)
	return achievement
}

// addEntry writes a progress entry dated daysAgo calendar days before today.
func addEntry(t *testing.T, db *gorm.DB, goalID, userID uuid.UUID, daysAgo int) {
	t.Helper()
	entry := models.ProgressEntry{
		GoalID: goalID,
		UserID: userID,
		Date:   startOfDay(time.Now()).AddDate(0, 0, -daysAgo),
		Value:  1,
	}
	require.NoError(t, db.Create(&entry).Error)
}

func countGrants(t *testing.T, db *gorm.DB, userID, achievementID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.AchievementGrant{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error)
	return count
}

func countActivities(t *testing.T, db *gorm.DB, activityType string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Activity{}).
		Where("type = ?", activityType).
		Count(&count).Error)
	return count
}
