package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleKind is the closed set of achievement rule types. Anything outside
// these constants is rejected at evaluation time.
type RuleKind string

const (
	RuleStreakDays    RuleKind = "streak_days"
	RuleTotalCheckins RuleKind = "total_checkins"
	RuleGoalCompleted RuleKind = "goal_completed"
)

// Achievement is a catalog entry. The catalog is seeded once at startup and
// never written afterwards.
type Achievement struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	IconURL     string    `json:"iconUrl"`
	RuleKind    RuleKind  `json:"ruleKind" gorm:"not null"`
	RuleValue   int       `json:"ruleValue" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AchievementGrant records that a user earned an achievement. The composite
// unique index makes granting at-most-once per (user, achievement) no matter
// how many evaluations race; grants are never revoked.
type AchievementGrant struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement"`
	AchievementID uuid.UUID `json:"achievementId" gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement"`
	GoalID        uuid.UUID `json:"goalId" gorm:"type:uuid"`
	EarnedAt      time.Time `json:"earnedAt"`
	CreatedAt     time.Time `json:"createdAt"`

	Achievement Achievement `json:"achievement,omitempty" gorm:"foreignKey:AchievementID"`
}

func (g *AchievementGrant) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.EarnedAt.IsZero() {
		g.EarnedAt = time.Now()
	}
	return nil
}
