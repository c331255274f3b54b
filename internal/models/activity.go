package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ActivityGroupCreated        = "group_created"
	ActivityMemberJoined        = "member_joined"
	ActivityMemberLeft          = "member_left"
	ActivityProgressLogged      = "progress_logged"
	ActivityGoalCompleted       = "goal_completed"
	ActivityAchievementUnlocked = "achievement_unlocked"
)

const (
	VisibilityPublic  = "public"
	VisibilityGroup   = "group"
	VisibilityPrivate = "private"
)

// Activity is an immutable event record. RefIDs is a JSON object of reference
// ids keyed by name (goalId, groupId, ...). Rows are only ever appended.
type Activity struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	GroupID    *uuid.UUID `json:"groupId" gorm:"type:uuid;index"`
	UserID     uuid.UUID  `json:"userId" gorm:"type:uuid;index;not null"`
	Type       string     `json:"type" gorm:"not null"`
	RefIDs     *string    `json:"refIds"` // JSON string map
	Visibility string     `json:"visibility" gorm:"not null;default:'private'"` // public, group, private
	CreatedAt  time.Time  `json:"createdAt"`
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// SetRefIDs marshals the reference-id map into the RefIDs column.
func (a *Activity) SetRefIDs(refIDs map[string]string) {
	if len(refIDs) == 0 {
		return
	}
	data, err := json.Marshal(refIDs)
	if err != nil {
		return
	}
	s := string(data)
	a.RefIDs = &s
}

// RefIDMap unmarshals the RefIDs column, returning nil when unset.
func (a *Activity) RefIDMap() map[string]string {
	if a.RefIDs == nil {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(*a.RefIDs), &m); err != nil {
		return nil
	}
	return m
}
