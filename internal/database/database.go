package database

import (
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/striveloop/striveloop-api/internal/config"
	"github.com/striveloop/striveloop-api/internal/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) error {
	var dialector gorm.Dialector

	// Use PostgreSQL if URL starts with postgres, otherwise SQLite
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Goal{},
		&models.ProgressEntry{},
		&models.Achievement{},
		&models.AchievementGrant{},
		&models.Group{},
		&models.Membership{},
		&models.Activity{},
	)
}

// SeedAchievements provisions the achievement catalog on an empty table.
// The catalog is read-only after this; no runtime path writes to it.
func SeedAchievements() error {
	return SeedAchievementsInto(DB)
}

func SeedAchievementsInto(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Achievement{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	catalog := []models.Achievement{
		{
			Name:        "First Steps",
			Description: "Log your first progress",
			RuleKind:    models.RuleTotalCheckins,
			RuleValue:   1,
		},
		{
			Name:        "Week Warrior",
			Description: "Maintain a 7-day streak",
			RuleKind:    models.RuleStreakDays,
			RuleValue:   7,
		},
		{
			Name:        "Dedicated",
			Description: "Log 10 check-ins",
			RuleKind:    models.RuleTotalCheckins,
			RuleValue:   10,
		},
		{
			Name:        "Goal Master",
			Description: "Complete a goal",
			RuleKind:    models.RuleGoalCompleted,
			RuleValue:   1,
		},
	}

	return db.Create(&catalog).Error
}
